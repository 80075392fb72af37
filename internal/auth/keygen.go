package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// KeyPrefix marks generated proxy keys.
const KeyPrefix = "ak_"

// keySecretBytes is the amount of randomness in a generated key.
const keySecretBytes = 24

// GeneratedKey contains a new API key and its hash.
type GeneratedKey struct {
	Plaintext string // Full key (show once only)
	Hash      string // Argon2id hash for API_KEY_HASH
}

// GenerateKey creates a random API key and hashes it.
func GenerateKey() (*GeneratedKey, error) {
	secret := make([]byte, keySecretBytes)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate secret: %w", err)
	}

	plaintext := KeyPrefix + hex.EncodeToString(secret)

	hash, err := HashKey(plaintext)
	if err != nil {
		return nil, fmt.Errorf("hash key: %w", err)
	}

	return &GeneratedKey{Plaintext: plaintext, Hash: hash}, nil
}
