package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocal(t *testing.T) (*LocalStorage, string) {
	t.Helper()
	root := t.TempDir()
	s, err := NewLocalStorage(root, "http://localhost:8090"+LocalURLPrefix)
	require.NoError(t, err)
	return s, root
}

func TestLocalStorage_StoreAsExistsDelete(t *testing.T) {
	ctx := context.Background()
	s, root := newLocal(t)

	p, err := StoreAs(ctx, s, strings.NewReader("jpeg-bytes"), "avatars", "abc.jpg", "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "avatars/abc.jpg", p)

	data, err := os.ReadFile(filepath.Join(root, "avatars", "abc.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))

	ok, err := s.Exists(ctx, p)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.Delete(ctx, p))

	ok, err = s.Exists(ctx, p)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Error(t, s.Delete(ctx, p), "deleting a missing file reports an error")
}

func TestLocalStorage_URL(t *testing.T) {
	s, _ := newLocal(t)
	assert.Equal(t, "http://localhost:8090/storage/avatars/x.jpg", s.URL("avatars/x.jpg"))
}

func TestStoreAs_RejectsInvalidNames(t *testing.T) {
	ctx := context.Background()
	s, _ := newLocal(t)

	for _, name := range []string{"", "../escape.jpg", `a\b.jpg`} {
		_, err := StoreAs(ctx, s, strings.NewReader("x"), "avatars", name, "")
		assert.ErrorIs(t, err, ErrInvalidPath, name)
	}
}

func TestLocalStorage_PathsStayInsideRoot(t *testing.T) {
	ctx := context.Background()
	s, root := newLocal(t)

	require.NoError(t, s.Save(ctx, "../../outside.txt", strings.NewReader("x"), ""))

	_, err := os.Stat(filepath.Join(root, "outside.txt"))
	require.NoError(t, err, "traversal is clamped to the storage root")
}

func TestLocalStorage_SaveHonoursCancelledContext(t *testing.T) {
	s, _ := newLocal(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Save(ctx, "avatars/cancelled.jpg", strings.NewReader("x"), "")
	require.ErrorIs(t, err, context.Canceled)

	ok, err := s.Exists(context.Background(), "avatars/cancelled.jpg")
	require.NoError(t, err)
	assert.False(t, ok, "no partial file is left behind")
}

func TestLocalStorage_Handler(t *testing.T) {
	ctx := context.Background()
	s, _ := newLocal(t)

	_, err := StoreAs(ctx, s, strings.NewReader("png-bytes"), "avatars", "y.png", "image/png")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/storage/avatars/y.png", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Equal(t, "png-bytes", string(body))

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/storage/avatars/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestS3PublicURL(t *testing.T) {
	assert.Equal(t, "https://media.s3.eu-central-1.amazonaws.com",
		s3PublicURL(S3Config{Bucket: "media", Region: "eu-central-1"}))
	assert.Equal(t, "http://localhost:9000/media",
		s3PublicURL(S3Config{Bucket: "media", Endpoint: "http://localhost:9000/"}))
}
