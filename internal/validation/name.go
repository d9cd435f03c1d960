package validation

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const MaxNameLength = 255

// ValidateName validates a display name
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return errors.New("name is required")
	}

	if utf8.RuneCountInString(trimmed) > MaxNameLength {
		return errors.New("name is too long (max 255 characters)")
	}

	return nil
}
