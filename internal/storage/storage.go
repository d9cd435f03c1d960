package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	cfg "github.com/templui/profile/internal/config"
)

const (
	DriverLocal = "local"
	DriverS3    = "s3"
)

var ErrInvalidPath = errors.New("invalid storage path")

// Storage defines the interface for blob storage operations.
// Paths are slash-separated and relative to the storage root.
type Storage interface {
	// Save stores the content of r at the given path
	Save(ctx context.Context, path string, r io.Reader, contentType string) error

	// Exists reports whether a file is stored at the given path
	Exists(ctx context.Context, path string) (bool, error)

	// Delete removes the file at the given path
	Delete(ctx context.Context, path string) error

	// URL returns the public URL for accessing the file
	URL(path string) string
}

// StoreAs saves r as directory/name and returns the relative path it was stored under.
func StoreAs(ctx context.Context, s Storage, r io.Reader, directory, name, contentType string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, name)
	}

	p, err := cleanPath(path.Join(directory, name))
	if err != nil {
		return "", err
	}

	err = s.Save(ctx, p, r, contentType)
	if err != nil {
		return "", err
	}

	return p, nil
}

// New creates the storage driver selected in the app config.
func New(c *cfg.Config) (Storage, error) {
	switch c.StorageDriver {
	case DriverLocal:
		slog.Info("initializing local storage", "root", c.StorageLocalPath)
		return NewLocalStorage(c.StorageLocalPath, strings.TrimSuffix(c.AppURL, "/")+LocalURLPrefix)
	case DriverS3:
		slog.Info("initializing S3 storage",
			"bucket", c.S3Bucket,
			"region", c.S3Region,
			"endpoint", c.S3Endpoint,
		)
		return NewS3Storage(S3Config{
			Region:        c.S3Region,
			Bucket:        c.S3Bucket,
			AccessKey:     c.S3AccessKey,
			SecretKey:     c.S3SecretKey,
			Endpoint:      c.S3Endpoint,
			PresignExpiry: c.S3PresignExpiry,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
}

// cleanPath normalises p and rejects paths escaping the storage root.
func cleanPath(p string) (string, error) {
	p = strings.TrimPrefix(path.Clean("/"+strings.ReplaceAll(p, `\`, "/")), "/")
	if p == "" || p == "." {
		return "", ErrInvalidPath
	}
	return p, nil
}
