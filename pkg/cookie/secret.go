package cookie

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"unicode"

	"golang.org/x/crypto/hkdf"
)

const (
	minSecretLength  = 30
	minDistinctChars = 8
	keySize          = 32

	signingKeyInfo    = "cookiejar signed cookie v1"
	encryptionKeyInfo = "cookiejar encrypted cookie v1"
)

// insecureSecrets are values copied from tutorials and generators often enough
// that they must never sign anything.
var insecureSecrets = []string{
	"password",
	"secret",
	"changeme",
	"change-me",
	"default",
	"secret_key_base",
	"your-secret-key",
}

// ValidateSecret reports whether secret may be used to sign or encrypt cookies.
// The returned error always matches ErrInvalidSecret.
func ValidateSecret(secret string) error {
	trimmed := strings.TrimSpace(secret)
	if trimmed == "" {
		return ErrMissingSecret
	}
	if slices.Contains(insecureSecrets, strings.ToLower(trimmed)) {
		return fmt.Errorf("%w: well-known value", ErrInsecureSecret)
	}
	if len(trimmed) < minSecretLength {
		return fmt.Errorf("%w: %d characters, need at least %d", ErrInsecureSecret, len(trimmed), minSecretLength)
	}
	if distinctChars(trimmed) < minDistinctChars {
		return fmt.Errorf("%w: fewer than %d distinct characters", ErrInsecureSecret, minDistinctChars)
	}
	return nil
}

// distinctChars counts distinct non-whitespace runes.
func distinctChars(s string) int {
	seen := make(map[rune]struct{}, len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		seen[r] = struct{}{}
	}
	return len(seen)
}

// deriveKey expands the secret into a purpose-bound key with HKDF-SHA256.
func deriveKey(secret, info string) ([]byte, error) {
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte(info))
	key := make([]byte, keySize)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, errors.Join(ErrInvalidSecret, err)
	}
	return key, nil
}
