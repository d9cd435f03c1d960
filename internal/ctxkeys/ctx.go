package ctxkeys

import (
	"context"

	"github.com/templui/profile/internal/config"
	"github.com/templui/profile/internal/model"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	UserKey      contextKey = "user"
	URLPathKey   contextKey = "url_path"
	ConfigKey    contextKey = "config"
	CSRFTokenKey contextKey = "csrf_token"
	FlashKey     contextKey = "flash"
	NonceKey     contextKey = "nonce"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Type    string // "success" or "error"
	Message string
}

func User(ctx context.Context) *model.User {
	user, _ := ctx.Value(UserKey).(*model.User)
	return user
}

func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}

func URLPath(ctx context.Context) string {
	path, _ := ctx.Value(URLPathKey).(string)
	return path
}

func WithURLPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, URLPathKey, path)
}

func Config(ctx context.Context) *config.Config {
	cfg, _ := ctx.Value(ConfigKey).(*config.Config)
	return cfg
}

func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, ConfigKey, cfg)
}

func CSRFToken(ctx context.Context) string {
	token, _ := ctx.Value(CSRFTokenKey).(string)
	return token
}

func WithCSRFToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, CSRFTokenKey, token)
}

func FlashMessage(ctx context.Context) *Flash {
	flash, _ := ctx.Value(FlashKey).(*Flash)
	return flash
}

func WithFlash(ctx context.Context, flash *Flash) context.Context {
	return context.WithValue(ctx, FlashKey, flash)
}

func Nonce(ctx context.Context) string {
	nonce, _ := ctx.Value(NonceKey).(string)
	return nonce
}

func WithNonce(ctx context.Context, nonce string) context.Context {
	return context.WithValue(ctx, NonceKey, nonce)
}
