package validators

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmailValidator(t *testing.T) {
	cases := []struct {
		email string
		want  error
	}{
		{"", ErrEmailEmpty},
		{"not-an-email", ErrEmailInvalid},
		{"missing@tld@", ErrEmailInvalid},
		{strings.Repeat("a", 250) + "@x.com", ErrEmailTooLong},
		{"a@x.com", nil},
		{"first.last+tag@example.co.uk", nil},
	}

	for _, tc := range cases {
		assert.ErrorIs(t, EmailValidator(tc.email), tc.want, "email %q", tc.email)
	}
}

func TestPasswordValidator(t *testing.T) {
	cases := []struct {
		password string
		want     error
	}{
		{"", ErrPasswordEmpty},
		{"short", ErrPasswordTooShort},
		{"1234567", ErrPasswordTooShort},
		{strings.Repeat("a", 256), ErrPasswordTooLong},
		{"longenough", nil},
	}

	for _, tc := range cases {
		assert.ErrorIs(t, PasswordValidator(tc.password), tc.want)
	}
}
