package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"github.com/templui/profile/internal/model"
	"github.com/templui/profile/internal/repository"
	"github.com/templui/profile/internal/storage"
)

const cleanupRetries = 3

type AvatarService struct {
	avatarRepo repository.AvatarRepository
	storage    storage.Storage
}

func NewAvatarService(avatarRepo repository.AvatarRepository, storage storage.Storage) *AvatarService {
	return &AvatarService{
		avatarRepo: avatarRepo,
		storage:    storage,
	}
}

// Upload stores a new avatar for the user and makes it the active one.
// Note: file validation (type, size, content) must be done by the caller.
func (s *AvatarService) Upload(ctx context.Context, userID string, file io.Reader, originalName, mimeType string, size int64) (*model.Avatar, error) {
	// Generated name avoids collisions and keeps the original name out of the public path
	filename := uuid.New().String() + strings.ToLower(filepath.Ext(originalName))

	path, err := storage.StoreAs(ctx, s.storage, file, model.AvatarDirectory, filename, mimeType)
	if err != nil {
		return nil, fmt.Errorf("failed to save avatar file: %w", err)
	}

	now := time.Now()
	avatar := &model.Avatar{
		ID:        uuid.New().String(),
		UserID:    userID,
		Filename:  filename,
		Path:      &path,
		IsActive:  false,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if originalName != "" {
		name := filepath.Base(originalName)
		avatar.OriginalName = &name
	}
	if mimeType != "" {
		avatar.MimeType = &mimeType
	}
	if size >= 0 {
		avatar.Size = &size
	}

	err = s.avatarRepo.Create(ctx, avatar)
	if err != nil {
		s.removeFile(path)
		return nil, fmt.Errorf("failed to create avatar record: %w", err)
	}

	active, err := s.Activate(ctx, avatar)
	if err != nil {
		delErr := s.avatarRepo.Delete(context.WithoutCancel(ctx), avatar.ID)
		if delErr != nil {
			slog.Error("failed to delete avatar record during cleanup", "error", delErr, "avatar_id", avatar.ID)
		}
		s.removeFile(path)
		return nil, err
	}

	slog.Info("avatar uploaded", "user_id", userID, "avatar_id", active.ID, "size", size)
	return active, nil
}

// removeFile deletes an uploaded file whose record could not be stored.
// It runs even when the request context is already cancelled.
func (s *AvatarService) removeFile(path string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	policy := retry.WithMaxRetries(cleanupRetries, retry.NewExponential(100*time.Millisecond))
	err := retry.Do(ctx, policy, func(ctx context.Context) error {
		err := s.storage.Delete(ctx, path)
		if err != nil && !errors.Is(err, storage.ErrInvalidPath) {
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		slog.Error("failed to delete file from storage during cleanup", "error", err, "path", path)
	}
}

// Activate makes avatar the user's only active avatar and returns the refreshed row.
func (s *AvatarService) Activate(ctx context.Context, avatar *model.Avatar) (*model.Avatar, error) {
	err := s.avatarRepo.Activate(ctx, avatar.UserID, avatar.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to activate avatar: %w", err)
	}

	fresh, err := s.avatarRepo.ByID(ctx, avatar.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload avatar: %w", err)
	}

	return fresh, nil
}

// Delete removes the avatar file (when present) and then its record.
// If the file cannot be removed the record is kept so the delete can be retried.
// Deleting the active avatar leaves the user without one; nothing is promoted.
func (s *AvatarService) Delete(ctx context.Context, avatar *model.Avatar) error {
	err := s.deleteFile(ctx, avatar.StoragePath())
	if err != nil {
		return err
	}

	err = s.avatarRepo.Delete(ctx, avatar.ID)
	if err != nil {
		return fmt.Errorf("failed to delete avatar record: %w", err)
	}

	return nil
}

// deleteFile removes path from the blob store if it is there.
func (s *AvatarService) deleteFile(ctx context.Context, path string) error {
	if path == "" {
		return nil
	}

	exists, err := s.storage.Exists(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to check avatar file: %w", err)
	}
	if !exists {
		return nil
	}

	err = s.storage.Delete(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to delete avatar file: %w", err)
	}
	return nil
}

// DeactivateAll clears the active flag on every avatar of the user.
func (s *AvatarService) DeactivateAll(ctx context.Context, userID string) error {
	err := s.avatarRepo.DeactivateAll(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to deactivate avatars: %w", err)
	}
	return nil
}

func (s *AvatarService) ByID(ctx context.Context, id string) (*model.Avatar, error) {
	return s.avatarRepo.ByID(ctx, id)
}

// ForUser returns the avatar only if it belongs to userID.
func (s *AvatarService) ForUser(ctx context.Context, userID, avatarID string) (*model.Avatar, error) {
	avatar, err := s.avatarRepo.ByID(ctx, avatarID)
	if err != nil {
		return nil, err
	}
	if avatar.UserID != userID {
		return nil, repository.ErrAvatarNotFound
	}
	return avatar, nil
}

func (s *AvatarService) List(ctx context.Context, userID string) ([]*model.Avatar, error) {
	return s.avatarRepo.ByUserID(ctx, userID)
}

func (s *AvatarService) Active(ctx context.Context, userID string) (*model.Avatar, error) {
	return s.avatarRepo.ActiveByUserID(ctx, userID)
}

// URL returns the public URL of the avatar file, or "" if it has none.
func (s *AvatarService) URL(avatar *model.Avatar) string {
	path := avatar.StoragePath()
	if path == "" {
		return ""
	}
	return s.storage.URL(path)
}

// AvatarURL resolves the URL of the user's active avatar, "" if there is none.
func (s *AvatarService) AvatarURL(ctx context.Context, userID string) (string, error) {
	avatars, err := s.avatarRepo.ByUserID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to list avatars: %w", err)
	}
	return model.AvatarURL(avatars, s.storage.URL), nil
}

// PruneInactive deletes superseded avatars (record and file) not touched for olderThan.
// The record goes first and only while it is still inactive, so an avatar
// activated after the listing survives. It keeps going past individual
// failures and returns how many records were removed.
func (s *AvatarService) PruneInactive(ctx context.Context, olderThan time.Duration) (int, error) {
	stale, err := s.avatarRepo.InactiveBefore(ctx, time.Now().Add(-olderThan))
	if err != nil {
		return 0, fmt.Errorf("failed to list inactive avatars: %w", err)
	}

	var errs []error
	removed := 0
	for _, avatar := range stale {
		err = s.avatarRepo.DeleteInactive(ctx, avatar.ID)
		if errors.Is(err, repository.ErrAvatarNotFound) {
			slog.Debug("avatar no longer prunable", "avatar_id", avatar.ID, "user_id", avatar.UserID)
			continue
		}
		if err != nil {
			slog.Warn("failed to prune avatar", "error", err, "avatar_id", avatar.ID, "user_id", avatar.UserID)
			errs = append(errs, err)
			continue
		}
		removed++

		err = s.deleteFile(ctx, avatar.StoragePath())
		if err != nil {
			slog.Warn("pruned avatar left its file behind", "error", err, "avatar_id", avatar.ID, "path", avatar.StoragePath())
			errs = append(errs, err)
		}
	}

	slog.Info("pruned inactive avatars", "removed", removed, "failed", len(errs))
	return removed, errors.Join(errs...)
}
