package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/templui/profile/internal/model"
	"github.com/templui/profile/internal/repository"
	"github.com/templui/profile/internal/validation"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/unicode/norm"
)

var (
	ErrInvalidCurrentPassword = errors.New("current password is incorrect")
	ErrPasswordNotSet         = errors.New("account has no password")
)

type UserService struct {
	userRepository repository.UserRepository
	avatarService  *AvatarService
	emailService   *EmailService
}

func NewUserService(
	userRepository repository.UserRepository,
	avatarService *AvatarService,
	emailService *EmailService,
) *UserService {
	return &UserService{
		userRepository: userRepository,
		avatarService:  avatarService,
		emailService:   emailService,
	}
}

func (s *UserService) ByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.userRepository.ByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Populate avatar URL
	avatarURL, err := s.avatarService.AvatarURL(ctx, id)
	if err != nil {
		slog.Warn("failed to resolve avatar url", "error", err, "user_id", id)
	}
	user.AvatarURL = avatarURL

	return user, nil
}

// Update applies the non-nil fields of update and returns the refreshed user.
// Changing the email does not require re-verification.
func (s *UserService) Update(ctx context.Context, userID string, update model.UserUpdate) (*model.User, error) {
	user, err := s.userRepository.ByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if update.IsEmpty() {
		return s.ByID(ctx, userID)
	}

	oldEmail := user.Email
	if update.Name != nil {
		user.Name = NormalizeName(*update.Name)
	}
	if update.Email != nil {
		user.Email = NormalizeEmail(*update.Email)
	}
	user.UpdatedAt = time.Now()

	err = s.userRepository.Update(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	if user.Email != oldEmail {
		slog.Info("user email changed", "user_id", userID)
		err = s.emailService.SendEmailChangedEmail(ctx, oldEmail, user.Email, user.Name)
		if err != nil {
			// Log error but don't fail the request
			slog.Warn("failed to send email changed notification", "error", err, "user_id", userID)
		}
	}

	return s.ByID(ctx, userID)
}

func (s *UserService) UpdatePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.userRepository.ByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	if !user.HasPassword() {
		return ErrPasswordNotSet
	}

	err = bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(currentPassword))
	if err != nil {
		return ErrInvalidCurrentPassword
	}

	err = validation.ValidatePasswordChange(currentPassword, newPassword)
	if err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	hashStr := string(hashedPassword)
	user.PasswordHash = &hashStr
	user.UpdatedAt = time.Now()

	err = s.userRepository.Update(ctx, user)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// NormalizeName trims surrounding whitespace and composes the name to NFC,
// so visually identical names are stored identically.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

func NormalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}
