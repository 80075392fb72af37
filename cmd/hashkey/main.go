// Command hashkey generates an API key and prints the argon2id hash to set
// as API_KEY_HASH. An existing key can be hashed with --key or --stdin.
package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/adsproxy/adsproxy/internal/auth"
)

type output struct {
	Key  string `json:"key,omitempty"`
	Hash string `json:"hash"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("hashkey", pflag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		key       = fs.StringP("key", "k", "", "hash this key instead of generating one")
		fromStdin = fs.Bool("stdin", false, "read the key to hash from the first line of stdin")
		format    = fs.StringP("format", "f", "plain", "output format: plain or json")
	)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *key != "" && *fromStdin {
		fmt.Fprintln(stderr, "--key and --stdin are mutually exclusive")
		return 2
	}

	mode := strings.ToLower(*format)
	if mode != "plain" && mode != "json" {
		fmt.Fprintln(stderr, "invalid format; use plain or json")
		return 2
	}

	out, err := buildOutput(*key, *fromStdin, stdin)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return 1
	}

	if mode == "json" {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
		return 0
	}

	if out.Key != "" {
		fmt.Fprintf(stdout, "API_KEY (share once): %s\n", out.Key)
	}
	fmt.Fprintf(stdout, "API_KEY_HASH=%s\n", out.Hash)

	return 0
}

// buildOutput hashes a supplied key, or generates a new one. The key is
// echoed only when it was generated here.
func buildOutput(key string, fromStdin bool, stdin io.Reader) (*output, error) {
	if fromStdin {
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		key = strings.TrimRight(line, "\r\n")
		if key == "" {
			return nil, errors.New("empty key on stdin")
		}
	}

	if key != "" {
		hash, err := auth.HashKey(key)
		if err != nil {
			return nil, fmt.Errorf("hash key: %w", err)
		}
		return &output{Hash: hash}, nil
	}

	generated, err := auth.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return &output{Key: generated.Plaintext, Hash: generated.Hash}, nil
}
