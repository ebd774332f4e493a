// Package key decodes Ed25519 extended secret keys from their bech32 form.
package key

import (
	"errors"
	"fmt"

	"github.com/AlexZinkM/kedqr/internal/model"

	"filippo.io/edwards25519"
	"github.com/btcsuite/btcd/btcutil/bech32"
)

const (
	SecretKeyHRP = "ed25519e_sk" // bech32 hrp of an ed25519extended secret key
	PublicKeyHRP = "ed25519_pk"  // bech32 hrp of an ed25519 public key

	SecretKeySize = 64 // kL(32) | kR(32)
	PublicKeySize = 32
	scalarSize    = 32
)

// ErrChecksumVariant is the decode reason for a bech32m checksum; keys use classic bech32 only.
var ErrChecksumVariant = errors.New("checksum is not bech32")

// SecretKey is an Ed25519 extended secret key.
// It refuses to print itself; call Zero when done with it.
type SecretKey struct {
	b [SecretKeySize]byte
}

// NewSecretKey copies b into a SecretKey
func NewSecretKey(b []byte) (*SecretKey, error) {
	if len(b) != SecretKeySize {
		return nil, fmt.Errorf("expected %d key bytes, got %d", SecretKeySize, len(b))
	}
	sk := &SecretKey{}
	copy(sk.b[:], b)
	return sk, nil
}

// DecodeBech32 decodes an ed25519e_sk bech32 string.
// Every failure is reported as model.ErrMalformedSecretKey wrapping the reason.
func DecodeBech32(s string) (*SecretKey, error) {
	// Key strings are longer than the 90 characters BIP-173 allows
	hrp, data, version, err := bech32.DecodeNoLimitWithVersion(s)
	if err != nil {
		return nil, &model.KeyError{Err: err}
	}
	if version != bech32.Version0 {
		return nil, &model.KeyError{Err: ErrChecksumVariant}
	}
	if hrp != SecretKeyHRP {
		return nil, &model.KeyError{Err: fmt.Errorf("expected hrp %s, got %s", SecretKeyHRP, hrp)}
	}

	raw, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return nil, &model.KeyError{Err: err}
	}
	defer clear(raw)

	sk, err := NewSecretKey(raw)
	if err != nil {
		return nil, &model.KeyError{Err: err}
	}
	return sk, nil
}

// Bytes returns a copy of the key bytes.
// Caller should clear it after use.
func (sk *SecretKey) Bytes() []byte {
	out := make([]byte, SecretKeySize)
	copy(out, sk.b[:])
	return out
}

// Bech32 encodes the key back to its ed25519e_sk form
func (sk *SecretKey) Bech32() (string, error) {
	return bech32.EncodeFromBase256(SecretKeyHRP, sk.b[:])
}

// PublicKey derives the Ed25519 public key kL*B
func (sk *SecretKey) PublicKey() (PublicKey, error) {
	s, err := edwards25519.NewScalar().SetBytesWithClamping(sk.b[:scalarSize])
	if err != nil {
		return PublicKey{}, fmt.Errorf("failed to load scalar: %w", err)
	}

	var pk PublicKey
	copy(pk[:], new(edwards25519.Point).ScalarBaseMult(s).Bytes())
	return pk, nil
}

// Zero wipes the key from memory
func (sk *SecretKey) Zero() {
	clear(sk.b[:])
}

func (sk *SecretKey) String() string {
	return SecretKeyHRP + "(redacted)"
}

func (sk *SecretKey) GoString() string {
	return "key.SecretKey{redacted}"
}

// PublicKey is an Ed25519 public key
type PublicKey [PublicKeySize]byte

// Bech32 encodes the key with the ed25519_pk hrp
func (pk PublicKey) Bech32() (string, error) {
	return bech32.EncodeFromBase256(PublicKeyHRP, pk[:])
}
