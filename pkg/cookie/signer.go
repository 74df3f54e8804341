package cookie

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

const signatureSeparator = "--"

// Signer signs and verifies cookie payloads with HMAC-SHA256.
// Signing gives integrity only: the payload stays readable by the client.
type Signer struct {
	key []byte
}

// NewSigner validates secret and derives the signing key from it.
func NewSigner(secret string) (*Signer, error) {
	if err := ValidateSecret(secret); err != nil {
		return nil, err
	}
	key, err := deriveKey(secret, signingKeyInfo)
	if err != nil {
		return nil, err
	}
	return &Signer{key: key}, nil
}

// Sign returns the hex encoded tag for data.
func (s *Signer) Sign(data []byte) string {
	mac := hmac.New(sha256.New, s.key)
	mac.Write(data)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify compares tag against the expected tag for data in constant time.
// The hex text is compared as is, so a re-cased tag does not verify.
func (s *Signer) Verify(data []byte, tag string) bool {
	expected := s.Sign(data)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(tag)) == 1
}

// Encode marshals v and returns "<base64 json>--<tag>".
func (s *Signer) Encode(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal signed value: %w", err)
	}
	payload := base64.StdEncoding.EncodeToString(raw)
	return payload + signatureSeparator + s.Sign([]byte(payload)), nil
}

// Decode verifies a value produced by Encode and unmarshals it into dst.
// Any malformed or tampered input yields false.
func (s *Signer) Decode(signed string, dst any) bool {
	i := strings.LastIndex(signed, signatureSeparator)
	if i <= 0 {
		return false
	}
	payload, tag := signed[:i], signed[i+len(signatureSeparator):]
	if !s.Verify([]byte(payload), tag) {
		return false
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}
