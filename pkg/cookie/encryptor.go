package cookie

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var errEncryption = errors.New("cookie.encryption_failed")

// Encryptor seals cookie payloads with AES-256-GCM.
// The nonce is random per value and prepended to the ciphertext.
type Encryptor struct {
	aead cipher.AEAD
}

// NewEncryptor validates secret and derives the encryption key from it.
func NewEncryptor(secret string) (*Encryptor, error) {
	if err := ValidateSecret(secret); err != nil {
		return nil, err
	}
	key, err := deriveKey(secret, encryptionKeyInfo)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Join(errEncryption, err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Join(errEncryption, err)
	}
	return &Encryptor{aead: aead}, nil
}

// Seal encrypts plaintext and returns it base64 encoded.
func (e *Encryptor) Seal(plaintext []byte) (string, error) {
	nonce := make([]byte, e.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", errors.Join(errEncryption, err)
	}
	ciphertext := e.aead.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Open reverses Seal. It returns false for anything it did not produce.
func (e *Encryptor) Open(sealed string) ([]byte, bool) {
	ciphertext, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return nil, false
	}
	nonceSize := e.aead.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, false
	}
	nonce, ciphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]
	plaintext, err := e.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, false
	}
	return plaintext, true
}

func (e *Encryptor) Encode(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal encrypted value: %w", err)
	}
	return e.Seal(raw)
}

func (e *Encryptor) Decode(sealed string, dst any) bool {
	raw, ok := e.Open(sealed)
	if !ok {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}
