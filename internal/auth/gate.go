package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"
)

// ErrNoSecret is returned when neither a key nor a key hash is configured.
var ErrNoSecret = errors.New("no API key or API key hash configured")

// Gate decides whether a presented API key matches the configured secret.
// It is built once at startup and is read-only afterwards.
type Gate struct {
	digest [sha256.Size]byte
	plain  bool
	hash   *keyHash
}

// NewGate creates a Gate from a plaintext key or an argon2id PHC hash.
// When both are set the hash wins.
func NewGate(key, encodedHash string) (*Gate, error) {
	if encodedHash != "" {
		h, err := parseKeyHash(encodedHash)
		if err != nil {
			return nil, err
		}
		return &Gate{hash: h}, nil
	}

	if key == "" {
		return nil, ErrNoSecret
	}

	return &Gate{digest: sha256.Sum256([]byte(key)), plain: true}, nil
}

// Allow reports whether presented equals the configured secret byte for byte.
// An empty presented key is always denied.
func (g *Gate) Allow(presented string) bool {
	if presented == "" {
		return false
	}

	if g.hash != nil {
		return g.hash.matches(presented)
	}

	// Digests keep the comparison constant-time regardless of key length.
	sum := sha256.Sum256([]byte(presented))
	return g.plain && subtle.ConstantTimeCompare(sum[:], g.digest[:]) == 1
}
