package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/profile/internal/model"
)

var (
	ErrAvatarNotFound = errors.New("avatar not found")
)

type AvatarRepository interface {
	Create(ctx context.Context, avatar *model.Avatar) error
	ByID(ctx context.Context, id string) (*model.Avatar, error)
	ByUserID(ctx context.Context, userID string) ([]*model.Avatar, error)
	ActiveByUserID(ctx context.Context, userID string) (*model.Avatar, error)
	Activate(ctx context.Context, userID, avatarID string) error
	DeactivateAll(ctx context.Context, userID string) error
	InactiveBefore(ctx context.Context, cutoff time.Time) ([]*model.Avatar, error)
	Delete(ctx context.Context, id string) error
	DeleteInactive(ctx context.Context, id string) error
}

type avatarRepository struct {
	db *sqlx.DB
}

func NewAvatarRepository(db *sqlx.DB) AvatarRepository {
	return &avatarRepository{db: db}
}

func (r *avatarRepository) Create(ctx context.Context, avatar *model.Avatar) error {
	query := `INSERT INTO avatars (id, user_id, filename, original_name, mime_type, size, path, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		avatar.ID,
		avatar.UserID,
		avatar.Filename,
		avatar.OriginalName,
		avatar.MimeType,
		avatar.Size,
		avatar.Path,
		avatar.IsActive,
		avatar.CreatedAt,
		avatar.UpdatedAt,
	)
	return err
}

func (r *avatarRepository) ByID(ctx context.Context, id string) (*model.Avatar, error) {
	avatar := &model.Avatar{}
	query := `SELECT * FROM avatars WHERE id = $1`

	err := r.db.GetContext(ctx, avatar, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAvatarNotFound
	}
	if err != nil {
		return nil, err
	}

	return avatar, nil
}

// ByUserID returns every avatar of the user, newest first.
func (r *avatarRepository) ByUserID(ctx context.Context, userID string) ([]*model.Avatar, error) {
	var avatars []*model.Avatar
	query := `SELECT * FROM avatars WHERE user_id = $1 ORDER BY created_at DESC, id`

	err := r.db.SelectContext(ctx, &avatars, query, userID)
	if err != nil {
		return nil, err
	}

	return avatars, nil
}

func (r *avatarRepository) ActiveByUserID(ctx context.Context, userID string) (*model.Avatar, error) {
	avatar := &model.Avatar{}
	query := `SELECT * FROM avatars WHERE user_id = $1 AND is_active = $2 LIMIT 1`

	err := r.db.GetContext(ctx, avatar, query, userID, true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAvatarNotFound
	}
	if err != nil {
		return nil, err
	}

	return avatar, nil
}

// Activate flags avatarID as the user's only active avatar.
// Deactivating the siblings and activating the target happen in one
// statement, so concurrent activations never leave zero or two active rows.
// The EXISTS guard leaves the user's rows untouched when avatarID is not theirs.
func (r *avatarRepository) Activate(ctx context.Context, userID, avatarID string) error {
	query := `UPDATE avatars
	          SET is_active = (id = $1), updated_at = $2
	          WHERE user_id = $3
	          AND EXISTS (SELECT 1 FROM avatars AS target WHERE target.id = $1 AND target.user_id = $3)`

	result, err := r.db.ExecContext(ctx, query, avatarID, time.Now(), userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrAvatarNotFound
	}

	return nil
}

func (r *avatarRepository) DeactivateAll(ctx context.Context, userID string) error {
	query := `UPDATE avatars SET is_active = $1, updated_at = $2 WHERE user_id = $3 AND is_active = $4`

	_, err := r.db.ExecContext(ctx, query, false, time.Now(), userID, true)
	return err
}

// InactiveBefore lists superseded avatars last touched before cutoff.
func (r *avatarRepository) InactiveBefore(ctx context.Context, cutoff time.Time) ([]*model.Avatar, error) {
	var avatars []*model.Avatar
	query := `SELECT * FROM avatars WHERE is_active = $1 AND updated_at < $2 ORDER BY updated_at`

	err := r.db.SelectContext(ctx, &avatars, query, false, cutoff)
	if err != nil {
		return nil, err
	}

	return avatars, nil
}

func (r *avatarRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM avatars WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrAvatarNotFound
	}

	return nil
}

// DeleteInactive removes the avatar only while it is still inactive.
// Returns ErrAvatarNotFound when it is gone or has been activated meanwhile.
func (r *avatarRepository) DeleteInactive(ctx context.Context, id string) error {
	query := `DELETE FROM avatars WHERE id = $1 AND is_active = $2`

	result, err := r.db.ExecContext(ctx, query, id, false)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrAvatarNotFound
	}

	return nil
}
