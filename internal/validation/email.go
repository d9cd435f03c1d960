package validation

import (
	"errors"
	"net/mail"
)

// ValidateEmail validates a bare email address (no display name) and its length.
func ValidateEmail(email string) error {
	if email == "" {
		return errors.New("email address is required")
	}

	// RFC 5321: total max 254 with @
	if len(email) > 254 {
		return errors.New("email address is too long (max 254 characters)")
	}

	// net/mail also accepts "Name <addr>", only the plain form is allowed here
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return errors.New("invalid email address format")
	}

	return nil
}
