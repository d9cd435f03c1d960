package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("APP_URL", "http://localhost:8090")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg := Load()

	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "8090", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "local", cfg.StorageDriver)
	assert.Equal(t, int64(2<<20), cfg.AvatarMaxSize)
	assert.Equal(t, 168*time.Hour, cfg.JWTExpiry)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("AVATAR_MAX_SIZE", "1048576")
	t.Setenv("JWT_EXPIRY", "1h")
	t.Setenv("STORAGE_LOCAL_PATH", "/tmp/avatars")

	cfg := Load()

	assert.Equal(t, int64(1<<20), cfg.AvatarMaxSize)
	assert.Equal(t, time.Hour, cfg.JWTExpiry)
	assert.Equal(t, "/tmp/avatars", cfg.StorageLocalPath)
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("SOME_SIZE", "-5")
	t.Setenv("SOME_DURATION", "soon")

	assert.Equal(t, int64(10), envInt64("SOME_SIZE", 10))
	assert.Equal(t, time.Minute, envDuration("SOME_DURATION", time.Minute))
	assert.Equal(t, "fallback", envString("UNSET_KEY_FOR_TEST", "fallback"))
}

func TestSanitizedDropsSecrets(t *testing.T) {
	cfg := &Config{
		AppName:     "Profile",
		JWTSecret:   "secret",
		S3SecretKey: "s3-secret",
		SentryDSN:   "dsn",
	}

	safe := cfg.Sanitized()
	require.NotNil(t, safe)
	assert.Equal(t, "Profile", safe.AppName)
	assert.Empty(t, safe.JWTSecret)
	assert.Empty(t, safe.S3SecretKey)
	assert.Empty(t, safe.SentryDSN)
}
