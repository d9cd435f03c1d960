package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/profile/internal/ctxkeys"
	"github.com/templui/profile/internal/db/dbtest"
	"github.com/templui/profile/internal/model"
	"github.com/templui/profile/internal/repository"
	"github.com/templui/profile/internal/service"
	"github.com/templui/profile/internal/storage"
)

func newAuthServices(t *testing.T) (*service.AuthService, *service.UserService) {
	t.Helper()

	database := dbtest.New(t)
	store, err := storage.NewLocalStorage(t.TempDir(), "http://localhost:8090/storage/")
	require.NoError(t, err)

	users := repository.NewUserRepository(database)
	email := service.NewEmailService("", "noreply@example.com", "http://localhost:8090", "Profile", true)
	avatars := service.NewAvatarService(repository.NewAvatarRepository(database), store)

	return service.NewAuthService(users, email, "test-secret", false, time.Hour),
		service.NewUserService(users, avatars, email)
}

func TestAuthMiddleware(t *testing.T) {
	authService, userService := newAuthServices(t)
	user, err := authService.Register(context.Background(), "Ada", "ada@example.com", "correct horse battery staple")
	require.NoError(t, err)

	var got *model.User
	h := AuthMiddleware(authService, userService)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = ctxkeys.User(r.Context())
	}))

	// no cookie
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/profile", nil))
	assert.Nil(t, got)

	// valid session
	token, err := authService.GenerateJWT(user)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.AddCookie(&http.Cookie{Name: service.AuthCookieName, Value: token})
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.ID)
	assert.Nil(t, got.PasswordHash)

	// tampered token clears the cookie
	got = nil
	req = httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.AddCookie(&http.Cookie{Name: service.AuthCookieName, Value: token + "x"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Nil(t, got)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)

	// token for a user that no longer exists
	ghost, err := authService.GenerateJWT(&model.User{ID: "ghost", Email: "ghost@example.com"})
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.AddCookie(&http.Cookie{Name: service.AuthCookieName, Value: ghost})
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Nil(t, got)
}
