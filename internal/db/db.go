package db

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const connectTimeout = 30 * time.Second

func Init(driver, connection string) (*sqlx.DB, error) {
	// SQLite: create data directory for file-backed databases
	if driver == "sqlite" && !isMemory(connection) {
		dir := filepath.Dir(strings.TrimPrefix(connection, "file:"))
		err := os.MkdirAll(dir, 0755)
		if err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sqlx.Open(driver, connection)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Postgres may still be starting when the app boots (docker compose)
	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = connectTimeout
	err = backoff.RetryNotify(db.Ping, policy, func(err error, next time.Duration) {
		slog.Warn("database not ready, retrying", "driver", driver, "error", err, "retry_in", next)
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("database connected", "driver", driver)
	return db, nil
}

func Close(db *sqlx.DB) error {
	if db != nil {
		return db.Close()
	}
	return nil
}

func isMemory(connection string) bool {
	return strings.Contains(connection, ":memory:") || strings.Contains(connection, "mode=memory")
}
