package model

import (
	"time"
)

type User struct {
	ID              string     `db:"id"`
	Name            string     `db:"name"`
	Email           string     `db:"email"`
	PasswordHash    *string    `db:"password_hash"`
	EmailVerifiedAt *time.Time `db:"email_verified_at"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`

	// Computed fields (not in database)
	AvatarURL string `db:"-"`
}

func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// UserUpdate carries the profile fields a user may change.
// A nil field is left untouched.
type UserUpdate struct {
	Name  *string
	Email *string
}

func (u UserUpdate) IsEmpty() bool {
	return u.Name == nil && u.Email == nil
}
