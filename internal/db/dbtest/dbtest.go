// Package dbtest opens migrated in-memory databases for tests.
package dbtest

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/templui/profile/internal/db"
)

// New returns a fresh, fully migrated in-memory SQLite database.
// Each call gets its own named database so tests do not share rows.
func New(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_pragma=foreign_keys(1)&_time_format=sqlite"
	database, err := db.Init("sqlite", dsn)
	require.NoError(t, err)

	// A single connection keeps the shared in-memory database alive and
	// serialises writers the way the file-backed WAL setup would.
	database.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))
	return database
}
