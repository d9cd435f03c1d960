package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	MinPasswordLength = 12
	// bcrypt ignores everything past 72 bytes
	MaxPasswordBytes = 72
)

var (
	ErrPasswordTooShort  = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrPasswordTooLong   = fmt.Errorf("password must not exceed %d bytes", MaxPasswordBytes)
	ErrPasswordTooCommon = errors.New("password is too common, please choose a stronger one")
	ErrPasswordUnchanged = errors.New("new password must differ from the current one")
)

var commonPasswordPatterns = []string{
	"password", "123456", "qwerty", "admin", "letmein",
	"welcome", "monkey", "dragon", "master", "sunshine",
}

// ValidatePassword checks a password chosen at sign-up or on the profile page.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > MaxPasswordBytes {
		return ErrPasswordTooLong
	}

	lower := strings.ToLower(password)
	for _, pattern := range commonPasswordPatterns {
		if strings.Contains(lower, pattern) {
			return ErrPasswordTooCommon
		}
	}

	return nil
}

// ValidatePasswordChange validates the replacement for current.
func ValidatePasswordChange(current, replacement string) error {
	if current == replacement {
		return ErrPasswordUnchanged
	}
	return ValidatePassword(replacement)
}
