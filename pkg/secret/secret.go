// Package secret generates share identifiers and API keys and computes the
// digests used to store passwords and keys.
package secret

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

const (
	// ShareIDLength is the length of generated share identifiers.
	ShareIDLength = 8
	// APIKeyBodyLength is the number of random characters after the key prefix.
	APIKeyBodyLength = 32
	// APIKeyDisplayLength is how much of a key is kept in clear for display.
	APIKeyDisplayLength = 8

	shareIDCharset = "abcdefghijklmnopqrstuvwxyz0123456789"
	apiKeyCharset  = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// Digest returns the hex-encoded SHA-256 of value. It is unsalted: lookups
// match stored digests exactly, so equal inputs always produce equal digests.
func Digest(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

// Matches reports whether value digests to the stored hex digest.
func Matches(value, digest string) bool {
	return subtle.ConstantTimeCompare([]byte(Digest(value)), []byte(digest)) == 1
}

// NewShareID returns a random lowercase alphanumeric share identifier.
func NewShareID() (string, error) {
	return randomString(shareIDCharset, ShareIDLength)
}

// APIKey is a freshly generated key. Plaintext is shown to the owner once and never stored.
type APIKey struct {
	Plaintext string
	Hash      string
	Display   string
}

// NewAPIKey generates a key of the form <prefix>_<32 alphanumerics>.
func NewAPIKey(prefix string) (APIKey, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return APIKey{}, fmt.Errorf("api key prefix required")
	}
	body, err := randomString(apiKeyCharset, APIKeyBodyLength)
	if err != nil {
		return APIKey{}, err
	}
	plaintext := prefix + "_" + body
	display := plaintext
	if cut := len(prefix) + 1 + APIKeyDisplayLength; len(display) > cut {
		display = display[:cut]
	}
	return APIKey{Plaintext: plaintext, Hash: Digest(plaintext), Display: display}, nil
}

// HasAcceptedPrefix reports whether token is <prefix>_<body> for one of prefixes.
func HasAcceptedPrefix(token string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if prefix == "" {
			continue
		}
		if strings.HasPrefix(token, prefix+"_") && len(token) > len(prefix)+1 {
			return true
		}
	}
	return false
}

func randomString(charset string, length int) (string, error) {
	max := big.NewInt(int64(len(charset)))
	out := make([]byte, length)
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate random string: %w", err)
		}
		out[i] = charset[idx.Int64()]
	}
	return string(out), nil
}
