package service_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"github.com/templui/profile/internal/db/dbtest"
	"github.com/templui/profile/internal/model"
	"github.com/templui/profile/internal/repository"
	"github.com/templui/profile/internal/service"
	"github.com/templui/profile/internal/storage"
)

const testPassword = "correct horse battery staple"

type fixture struct {
	db      *sqlx.DB
	users   repository.UserRepository
	avatars repository.AvatarRepository
	store   *storage.LocalStorage
	root    string

	avatarService *service.AvatarService
	userService   *service.UserService
	authService   *service.AuthService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	database := dbtest.New(t)
	root := t.TempDir()
	store, err := storage.NewLocalStorage(root, "http://localhost:8090/storage/")
	require.NoError(t, err)

	f := &fixture{
		db:      database,
		users:   repository.NewUserRepository(database),
		avatars: repository.NewAvatarRepository(database),
		store:   store,
		root:    root,
	}
	f.wire(f.avatars, store)
	return f
}

// wire (re)builds the services on top of the given avatar repository and store.
func (f *fixture) wire(avatars repository.AvatarRepository, store storage.Storage) {
	email := service.NewEmailService("", "noreply@example.com", "http://localhost:8090", "Profile", true)
	f.avatarService = service.NewAvatarService(avatars, store)
	f.userService = service.NewUserService(f.users, f.avatarService, email)
	f.authService = service.NewAuthService(f.users, email, "test-secret", false, time.Hour)
}

func (f *fixture) register(t *testing.T, email string) *model.User {
	t.Helper()
	user, err := f.authService.Register(context.Background(), "Test User", email, testPassword)
	require.NoError(t, err)
	return user
}

func (f *fixture) upload(t *testing.T, userID, name string) *model.Avatar {
	t.Helper()
	avatar, err := f.avatarService.Upload(context.Background(), userID, strings.NewReader("image-bytes"), name, "image/jpeg", 11)
	require.NoError(t, err)
	return avatar
}

// storedFiles lists the files in the avatar directory of the local store.
func (f *fixture) storedFiles(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(f.root, model.AvatarDirectory))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	require.NoError(t, err)

	names := []string{}
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func (f *fixture) fileExists(t *testing.T, path string) bool {
	t.Helper()
	ok, err := f.store.Exists(context.Background(), path)
	require.NoError(t, err)
	return ok
}

var errInjected = errors.New("injected failure")

// faultyStorage wraps a Storage and fails selected operations.
type faultyStorage struct {
	storage.Storage
	failSave   bool
	failDelete bool
}

func (s *faultyStorage) Save(ctx context.Context, path string, r io.Reader, contentType string) error {
	if s.failSave {
		return errInjected
	}
	return s.Storage.Save(ctx, path, r, contentType)
}

func (s *faultyStorage) Delete(ctx context.Context, path string) error {
	if s.failDelete {
		return errInjected
	}
	return s.Storage.Delete(ctx, path)
}

// faultyAvatars wraps an AvatarRepository and fails selected operations.
type faultyAvatars struct {
	repository.AvatarRepository
	failCreate   bool
	failActivate bool
}

func (r *faultyAvatars) Create(ctx context.Context, avatar *model.Avatar) error {
	if r.failCreate {
		return errInjected
	}
	return r.AvatarRepository.Create(ctx, avatar)
}

func (r *faultyAvatars) Activate(ctx context.Context, userID, avatarID string) error {
	if r.failActivate {
		return errInjected
	}
	return r.AvatarRepository.Activate(ctx, userID, avatarID)
}

func countActive(avatars []*model.Avatar) int {
	return lo.CountBy(avatars, func(a *model.Avatar) bool { return a.IsActive })
}
