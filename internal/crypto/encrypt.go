package crypto

import (
	"crypto/rand"
	"crypto/sha512"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/pbkdf2"
)

// KED payload layout:
//
//	| version(1) | salt(16) | nonce(12) | ciphertext | tag(16) |
const (
	Version    = byte(0x01)
	versionLen = 1
	saltLen    = 16
	nonceLen   = chacha20poly1305.NonceSize
	tagLen     = chacha20poly1305.Overhead
	headerLen  = versionLen + saltLen + nonceLen

	// MinPayloadLen is the size of a payload wrapping empty data
	MinPayloadLen = headerLen + tagLen

	// PBKDF2-HMAC-SHA512 iteration count shared with the Catalyst apps that scan the code
	pbkdf2Iterations = 12_983
)

// Encrypt seals data under password into a KED payload.
// password must be []byte for security (caller should zero it after use)
func Encrypt(password []byte, data []byte) ([]byte, error) {
	// Generate salt and nonce
	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	nonce := make([]byte, nonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return seal(password, salt, nonce, data)
}

func seal(password, salt, nonce, data []byte) ([]byte, error) {
	// Derive key from password
	key := deriveKey(password, salt)
	defer clear(key)

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	payload := make([]byte, 0, headerLen+len(data)+tagLen)
	payload = append(payload, Version)
	payload = append(payload, salt...)
	payload = append(payload, nonce...)

	return aead.Seal(payload, nonce, data, nil), nil
}

func deriveKey(password, salt []byte) []byte {
	return pbkdf2.Key(password, salt, pbkdf2Iterations, chacha20poly1305.KeySize, sha512.New)
}
