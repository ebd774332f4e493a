package crypto

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

var (
	// ErrPayloadTooShort is returned for payloads smaller than MinPayloadLen
	ErrPayloadTooShort = errors.New("payload too short")

	// ErrUnsupportedVersion is returned when the version byte is not Version
	ErrUnsupportedVersion = errors.New("unsupported payload version")

	// ErrInvalidPassword is returned when authentication fails, which covers
	// both a wrong password and a tampered payload
	ErrInvalidPassword = errors.New("invalid password")
)

// Decrypt opens a KED payload produced by Encrypt.
// password must be []byte for security (caller should zero it after use)
func Decrypt(password []byte, payload []byte) ([]byte, error) {
	if len(payload) < MinPayloadLen {
		return nil, fmt.Errorf("%w: %d bytes", ErrPayloadTooShort, len(payload))
	}
	if payload[0] != Version {
		return nil, fmt.Errorf("%w: 0x%02x", ErrUnsupportedVersion, payload[0])
	}

	salt := payload[versionLen : versionLen+saltLen]
	nonce := payload[versionLen+saltLen : headerLen]
	ciphertext := payload[headerLen:]

	key := deriveKey(password, salt)
	defer clear(key)

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrInvalidPassword
	}

	return plaintext, nil
}
