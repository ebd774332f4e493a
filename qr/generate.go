package qr

import (
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/AlexZinkM/kedqr/internal/crypto"
	"github.com/AlexZinkM/kedqr/internal/key"
	"github.com/AlexZinkM/kedqr/internal/model"
	"github.com/AlexZinkM/kedqr/internal/pin"

	"github.com/skip2/go-qrcode"
)

// Error correction is fixed; the Catalyst app expects Medium.
const recoveryLevel = qrcode.Medium

// Generate encrypts sk under the PIN digits and encodes the hex payload as a QR code.
// digits are values 0-9 in PIN order.
func Generate(sk *key.SecretKey, digits [pin.Length]uint8) (*Artifact, error) {
	for _, d := range digits {
		if d > 9 {
			return nil, model.ErrMalformedPIN
		}
	}

	password := make([]byte, pin.Length)
	copy(password, digits[:])
	defer clear(password)

	data := sk.Bytes()
	defer clear(data)

	payload, err := crypto.Encrypt(password, data)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt key: %w", err)
	}
	content := hex.EncodeToString(payload)
	clear(payload)

	if err := verifyPayload(content, password, data); err != nil {
		return nil, err
	}

	code, err := qrcode.New(content, recoveryLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}

	return &Artifact{code: code}, nil
}

// Open decodes QR content back into the secret key it protects.
// digits are the PIN values used by Generate.
func Open(content string, digits [pin.Length]uint8) (*key.SecretKey, error) {
	password := make([]byte, pin.Length)
	copy(password, digits[:])
	defer clear(password)

	return open(content, password)
}

func open(content string, password []byte) (*key.SecretKey, error) {
	payload, err := hex.DecodeString(strings.TrimSpace(content))
	if err != nil {
		return nil, fmt.Errorf("failed to decode payload: %w", err)
	}

	plain, err := crypto.Decrypt(password, payload)
	if err != nil {
		return nil, err
	}
	defer clear(plain)

	return key.NewSecretKey(plain)
}

// verifyPayload decodes content the way a scanner would and checks it opens to data
func verifyPayload(content string, password, data []byte) error {
	sk, err := open(content, password)
	if err != nil {
		return &model.SelfCheckError{Err: err}
	}
	defer sk.Zero()

	got := sk.Bytes()
	defer clear(got)
	if subtle.ConstantTimeCompare(got, data) != 1 {
		return model.ErrSelfCheck
	}
	return nil
}
