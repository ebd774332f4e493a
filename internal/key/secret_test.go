package key

import (
	"bytes"
	"crypto/ed25519"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/AlexZinkM/kedqr/internal/model"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// produced by `jcli key generate --type ed25519Extended` and `jcli key to-bytes`
const (
	knownSecretBech32 = "ed25519e_sk14rwkgpmmg5s29e4k8m4mny324lj4rv8x9tqg0tn5khlfqzgjt9ftj90u642j2skwraddf2qd88eqv8wv3a463mshgmz9dxtvthjswgqvcdwty"
	knownSecretHex    = "a8dd64077b4520a2e6b63eebb9922aafe551b0e62ac087ae74b5fe9009125952b915fcd5552542ce1f5ad4a80d39f2061dcc8f6ba8ee1746c456996c5de50720"
)

func TestDecodeBech32_Known(t *testing.T) {
	sk, err := DecodeBech32(knownSecretBech32)
	require.NoError(t, err)

	want, err := hex.DecodeString(knownSecretHex)
	require.NoError(t, err)
	assert.Equal(t, want, sk.Bytes())

	encoded, err := sk.Bech32()
	require.NoError(t, err)
	assert.Equal(t, knownSecretBech32, encoded)
}

func TestDecodeBech32_UpperCase(t *testing.T) {
	sk, err := DecodeBech32(strings.ToUpper(knownSecretBech32))
	require.NoError(t, err)

	want, _ := hex.DecodeString(knownSecretHex)
	assert.Equal(t, want, sk.Bytes())
}

func TestDecodeBech32_Malformed(t *testing.T) {
	wrongHRP, err := bech32.EncodeFromBase256("ed25519_sk", bytes.Repeat([]byte{1}, SecretKeySize))
	require.NoError(t, err)

	shortKey, err := bech32.EncodeFromBase256(SecretKeyHRP, bytes.Repeat([]byte{1}, 32))
	require.NoError(t, err)

	longKey, err := bech32.EncodeFromBase256(SecretKeyHRP, bytes.Repeat([]byte{1}, 65))
	require.NoError(t, err)

	converted, err := bech32.ConvertBits(bytes.Repeat([]byte{3}, SecretKeySize), 8, 5, true)
	require.NoError(t, err)
	bech32m, err := bech32.EncodeM(SecretKeyHRP, converted)
	require.NoError(t, err)

	// flip the last checksum character
	last := knownSecretBech32[len(knownSecretBech32)-1]
	swap := byte('q')
	if last == 'q' {
		swap = 'p'
	}
	badChecksum := knownSecretBech32[:len(knownSecretBech32)-1] + string(swap)

	tests := map[string]string{
		"empty":        "",
		"garbage":      "not a key",
		"bad checksum": badChecksum,
		"bech32m":      bech32m,
		"mixed case":   "ED25519E_SK1" + knownSecretBech32[len(SecretKeyHRP)+1:],
		"wrong hrp":    wrongHRP,
		"short key":    shortKey,
		"long key":     longKey,
		"trailing ws":  knownSecretBech32 + " ",
	}

	for name, s := range tests {
		t.Run(name, func(t *testing.T) {
			sk, err := DecodeBech32(s)
			assert.Nil(t, sk)
			require.Error(t, err)
			assert.True(t, errors.Is(err, model.ErrMalformedSecretKey), "error %v is not ErrMalformedSecretKey", err)
			assert.Equal(t, "malformed secret key", err.Error())
			assert.NotNil(t, errors.Unwrap(err), "decoder reason should be kept as the cause")
		})
	}
}

func TestDecodeBech32_RejectsBech32m(t *testing.T) {
	want := bytes.Repeat([]byte{3}, SecretKeySize)
	converted, err := bech32.ConvertBits(want, 8, 5, true)
	require.NoError(t, err)

	classic, err := bech32.Encode(SecretKeyHRP, converted)
	require.NoError(t, err)
	sk, err := DecodeBech32(classic)
	require.NoError(t, err)
	assert.Equal(t, want, sk.Bytes())

	modern, err := bech32.EncodeM(SecretKeyHRP, converted)
	require.NoError(t, err)
	sk, err = DecodeBech32(modern)
	assert.Nil(t, sk)
	assert.ErrorIs(t, err, model.ErrMalformedSecretKey)
	assert.ErrorIs(t, err, ErrChecksumVariant)
}

func TestNewSecretKey_Copies(t *testing.T) {
	b := bytes.Repeat([]byte{7}, SecretKeySize)
	sk, err := NewSecretKey(b)
	require.NoError(t, err)

	clear(b)
	assert.Equal(t, bytes.Repeat([]byte{7}, SecretKeySize), sk.Bytes())

	_, err = NewSecretKey(make([]byte, SecretKeySize-1))
	assert.Error(t, err)
}

func TestPublicKey_MatchesStandardEd25519(t *testing.T) {
	// An Ed25519 seed expands to SHA-512(seed); its first half, clamped, is the
	// same scalar an extended key carries as kL.
	for _, seedByte := range []byte{0x00, 0x01, 0x42, 0xff} {
		seed := bytes.Repeat([]byte{seedByte}, ed25519.SeedSize)
		expanded := sha512.Sum512(seed)

		sk, err := NewSecretKey(expanded[:])
		require.NoError(t, err)

		pk, err := sk.PublicKey()
		require.NoError(t, err)

		want := ed25519.NewKeyFromSeed(seed).Public().(ed25519.PublicKey)
		assert.Equal(t, []byte(want), pk[:], "seed byte %#x", seedByte)
	}
}

func TestPublicKey_Bech32(t *testing.T) {
	sk, err := DecodeBech32(knownSecretBech32)
	require.NoError(t, err)

	pk, err := sk.PublicKey()
	require.NoError(t, err)

	s, err := pk.Bech32()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(s, PublicKeyHRP+"1"), s)

	hrp, data, err := bech32.DecodeNoLimit(s)
	require.NoError(t, err)
	assert.Equal(t, PublicKeyHRP, hrp)
	raw, err := bech32.ConvertBits(data, 5, 8, false)
	require.NoError(t, err)
	assert.Equal(t, pk[:], raw)
}

func TestSecretKey_Zero(t *testing.T) {
	sk, err := DecodeBech32(knownSecretBech32)
	require.NoError(t, err)

	sk.Zero()
	assert.Equal(t, make([]byte, SecretKeySize), sk.Bytes())
}

func TestSecretKey_NeverPrinted(t *testing.T) {
	sk, err := DecodeBech32(knownSecretBech32)
	require.NoError(t, err)

	for _, s := range []string{
		fmt.Sprint(sk),
		fmt.Sprintf("%v", sk),
		fmt.Sprintf("%+v", sk),
		fmt.Sprintf("%#v", sk),
		fmt.Sprintf("%s", sk),
	} {
		assert.NotContains(t, s, knownSecretHex[:16])
		assert.NotContains(t, s, knownSecretBech32[12:30])
		assert.Contains(t, s, "redacted")
	}
}
