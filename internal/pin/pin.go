// Package pin holds the 4-digit PIN that protects a key inside its QR code.
package pin

import (
	"unicode/utf8"

	"github.com/AlexZinkM/kedqr/internal/model"
)

// Length is the number of digits in a PIN (Catalyst uses 4)
const Length = 4

// PIN is a 4-digit passcode stored as digit values 0-9.
// The zero value is the PIN "0000".
type PIN struct {
	digits [Length]uint8
}

// Parse validates raw and returns the PIN it spells.
// raw must be exactly 4 characters, each an ASCII decimal digit; nothing is trimmed.
// Both failure causes return model.ErrMalformedPIN.
func Parse(raw string) (PIN, error) {
	if utf8.RuneCountInString(raw) != Length {
		return PIN{}, model.ErrMalformedPIN
	}

	var p PIN
	i := 0
	for _, r := range raw {
		if r < '0' || r > '9' {
			return PIN{}, model.ErrMalformedPIN
		}
		p.digits[i] = uint8(r - '0')
		i++
	}
	return p, nil
}

// Digits returns the digit values in input order
func (p PIN) Digits() [Length]uint8 {
	return p.digits
}

// Bytes returns the digit values as a new slice; this is the KED password.
// Caller should clear it after use.
func (p PIN) Bytes() []byte {
	b := make([]byte, Length)
	copy(b, p.digits[:])
	return b
}

// String hides the digits so a PIN never ends up in logs or help output.
func (p PIN) String() string {
	return "****"
}

// GoString hides the digits from %#v as well.
func (p PIN) GoString() string {
	return "pin.PIN{****}"
}
