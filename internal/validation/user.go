package validation

import (
	"strings"

	"github.com/templui/profile/internal/model"
)

// ValidateUserUpdate checks the fields present in a profile update.
func ValidateUserUpdate(update model.UserUpdate) error {
	if update.Name != nil {
		err := ValidateName(*update.Name)
		if err != nil {
			return err
		}
	}

	if update.Email != nil {
		err := ValidateEmail(strings.TrimSpace(*update.Email))
		if err != nil {
			return err
		}
	}

	return nil
}
