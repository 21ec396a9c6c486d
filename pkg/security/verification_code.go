package security

import (
	"errors"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const codeAlphabet = "0123456789"

// MakeVerificationCode mints a fixed-length numeric code from a
// CSPRNG. Codes don't need to be unique across accounts, only
// unguessable.
func MakeVerificationCode(length int) (string, error) {
	if length <= 0 {
		return "", errors.New("invalid code length")
	}

	return gonanoid.Generate(codeAlphabet, length)
}
