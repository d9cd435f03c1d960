package model

import (
	"time"

	"github.com/samber/lo"
)

const AvatarDirectory = "avatars"

type Avatar struct {
	ID           string    `db:"id"`
	UserID       string    `db:"user_id"`
	Filename     string    `db:"filename"`
	OriginalName *string   `db:"original_name"`
	MimeType     *string   `db:"mime_type"`
	Size         *int64    `db:"size"`
	Path         *string   `db:"path"`
	IsActive     bool      `db:"is_active"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// StoragePath returns the blob store path or "" when none was recorded.
func (a *Avatar) StoragePath() string {
	if a == nil || a.Path == nil {
		return ""
	}
	return *a.Path
}

func (a *Avatar) DisplayName() string {
	if a.OriginalName != nil && *a.OriginalName != "" {
		return *a.OriginalName
	}
	return a.Filename
}

// ActiveAvatar returns the active avatar of the collection, or nil.
func ActiveAvatar(avatars []*Avatar) *Avatar {
	active, ok := lo.Find(avatars, func(a *Avatar) bool {
		return a != nil && a.IsActive
	})
	if !ok {
		return nil
	}
	return active
}

// AvatarURL resolves the public URL of the active avatar in avatars.
// Returns "" when there is no active avatar or it has no storage path.
func AvatarURL(avatars []*Avatar, resolve func(path string) string) string {
	path := ActiveAvatar(avatars).StoragePath()
	if path == "" || resolve == nil {
		return ""
	}
	return resolve(path)
}
