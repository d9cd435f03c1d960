package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
)

// LocalURLPrefix is the URL path local files are served under.
const LocalURLPrefix = "/storage/"

// LocalStorage keeps files on the local disk below root.
// Intended for development and single-node deployments.
type LocalStorage struct {
	root    string
	baseURL string // e.g. http://localhost:8090/storage/
}

func NewLocalStorage(root, baseURL string) (*LocalStorage, error) {
	err := os.MkdirAll(root, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStorage{
		root:    root,
		baseURL: baseURL,
	}, nil
}

func (s *LocalStorage) fullPath(p string) (string, error) {
	clean, err := cleanPath(p)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(clean)), nil
}

// Save writes through a temp file that is renamed into place,
// so a failed write never leaves a partial file at path.
func (s *LocalStorage) Save(ctx context.Context, p string, r io.Reader, contentType string) error {
	full, err := s.fullPath(p)
	if err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(full), 0755)
	if err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	err = atomic.WriteFile(full, readerWithContext(ctx, r))
	if err != nil {
		// atomic flattens the reader error, keep cancellation matchable
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("failed to write file: %w", errors.Join(ctxErr, err))
		}
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

func (s *LocalStorage) Exists(ctx context.Context, p string) (bool, error) {
	full, err := s.fullPath(p)
	if err != nil {
		return false, err
	}

	info, err := os.Stat(full)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat file: %w", err)
	}

	return !info.IsDir(), nil
}

func (s *LocalStorage) Delete(ctx context.Context, p string) error {
	full, err := s.fullPath(p)
	if err != nil {
		return err
	}

	err = os.Remove(full)
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

func (s *LocalStorage) URL(p string) string {
	clean, err := cleanPath(p)
	if err != nil {
		return ""
	}
	return s.baseURL + clean
}

// Handler serves stored files. Mount it under LocalURLPrefix.
// Directory listings are not served.
func (s *LocalStorage) Handler() http.Handler {
	files := http.StripPrefix(LocalURLPrefix, http.FileServer(http.Dir(s.root)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func readerWithContext(ctx context.Context, r io.Reader) io.Reader {
	return &ctxReader{ctx: ctx, r: r}
}

func (c *ctxReader) Read(p []byte) (int, error) {
	err := c.ctx.Err()
	if err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
