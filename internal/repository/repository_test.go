package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/templui/profile/internal/model"
)

func newUser(t *testing.T, repo UserRepository, email string) *model.User {
	t.Helper()

	now := time.Now()
	hash := "hash"
	user := &model.User{
		ID:           uuid.New().String(),
		Name:         "Test User",
		Email:        email,
		PasswordHash: &hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func newAvatar(t *testing.T, repo AvatarRepository, userID string, active bool) *model.Avatar {
	t.Helper()

	now := time.Now()
	id := uuid.New().String()
	path := model.AvatarDirectory + "/" + id + ".png"
	name := "me.png"
	mime := "image/png"
	size := int64(512)
	avatar := &model.Avatar{
		ID:           id,
		UserID:       userID,
		Filename:     id + ".png",
		OriginalName: &name,
		MimeType:     &mime,
		Size:         &size,
		Path:         &path,
		IsActive:     active,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, repo.Create(context.Background(), avatar))
	return avatar
}

func countActive(t *testing.T, avatars []*model.Avatar) int {
	t.Helper()
	n := 0
	for _, a := range avatars {
		if a.IsActive {
			n++
		}
	}
	return n
}
