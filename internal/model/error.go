package model

import (
	"errors"
)

var (
	// ErrMalformedPIN is returned for a PIN of the wrong length or with non-digit content.
	ErrMalformedPIN = errors.New("The PIN must consist of 4 digits.")

	// ErrMalformedSecretKey is returned when the input is not a bech32 ed25519e_sk key.
	ErrMalformedSecretKey = errors.New("malformed secret key")

	// ErrSelfCheck is returned when the generated payload does not decrypt back to the input key.
	ErrSelfCheck = errors.New("encryption self-check failed: the QR payload does not decrypt to the input key")
)

// InputError is an error when the key file cannot be opened or read
type InputError struct {
	Path string
	Err  error
}

func (e *InputError) Error() string {
	return "could not read input file " + e.Path
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// IsInputError checks if error is InputError
func IsInputError(err error) bool {
	var e *InputError
	return errors.As(err, &e)
}

// OutputError is an error when the QR code cannot be written to the output path
type OutputError struct {
	Path string
	Err  error
}

func (e *OutputError) Error() string {
	return "could not write output file " + e.Path
}

func (e *OutputError) Unwrap() error {
	return e.Err
}

// IsOutputError checks if error is OutputError
func IsOutputError(err error) bool {
	var e *OutputError
	return errors.As(err, &e)
}

// KeyError wraps a decoding failure under ErrMalformedSecretKey so the
// reported chain reads "malformed secret key" followed by the decoder's reason.
type KeyError struct {
	Err error
}

func (e *KeyError) Error() string {
	return ErrMalformedSecretKey.Error()
}

func (e *KeyError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrMalformedSecretKey) hold for any KeyError.
func (e *KeyError) Is(target error) bool {
	return target == ErrMalformedSecretKey
}

// SelfCheckError wraps the reason a generated payload failed to open
// under ErrSelfCheck, keeping the cause on the reported chain.
type SelfCheckError struct {
	Err error
}

func (e *SelfCheckError) Error() string {
	return ErrSelfCheck.Error()
}

func (e *SelfCheckError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrSelfCheck) hold for any SelfCheckError.
func (e *SelfCheckError) Is(target error) bool {
	return target == ErrSelfCheck
}
