package validation

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/profile/internal/model"
)

var (
	pngBytes  = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)
	gifBytes  = append([]byte("GIF89a"), make([]byte, 64)...)
	jpegBytes = append([]byte("\xff\xd8\xff\xe0"), make([]byte, 64)...)
)

func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("avatar", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	return req.MultipartForm.File["avatar"][0]
}

func TestValidateFile_Images(t *testing.T) {
	constraints := AvatarConstraints(0)

	tests := []struct {
		name     string
		filename string
		content  []byte
		wantType string
	}{
		{"png", "me.png", pngBytes, "image/png"},
		{"gif", "me.gif", gifBytes, "image/gif"},
		{"jpeg", "me.JPG", jpegBytes, "image/jpeg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detected, err := ValidateFile(fileHeader(t, tt.filename, tt.content), constraints)
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, detected)
		})
	}
}

func TestValidateFile_Rejects(t *testing.T) {
	constraints := AvatarConstraints(0)

	tests := []struct {
		name     string
		filename string
		content  []byte
		wantErr  string
	}{
		{"text disguised as png", "me.png", []byte("just some text"), "invalid file type"},
		{"wrong extension", "me.exe", pngBytes, "invalid file extension"},
		{"no extension", "me", pngBytes, "no extension"},
		{"empty", "me.png", []byte{}, "empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateFile(fileHeader(t, tt.filename, tt.content), constraints)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	_, err := ValidateFile(nil, constraints)
	require.ErrorIs(t, err, ErrNoFile)
}

func TestValidateFile_MaxSize(t *testing.T) {
	big := append(append([]byte{}, pngBytes...), make([]byte, 2048)...)

	_, err := ValidateFile(fileHeader(t, "big.png", big), AvatarConstraints(1024))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1.0 KiB")

	assert.Equal(t, DefaultAvatarMaxSize, AvatarConstraints(-1).MaxSize)
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("user@example.com"))
	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("User <user@example.com>"))
	assert.Error(t, ValidateEmail(strings.Repeat("a", 250)+"@example.com"))
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("Ada"))
	assert.Error(t, ValidateName("   "))
	assert.NoError(t, ValidateName(strings.Repeat("é", MaxNameLength)))
	assert.Error(t, ValidateName(strings.Repeat("a", MaxNameLength+1)))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("correct horse battery staple"))
	assert.ErrorIs(t, ValidatePassword("short"), ErrPasswordTooShort)
	assert.ErrorIs(t, ValidatePassword("mypassword1234"), ErrPasswordTooCommon)
	assert.ErrorIs(t, ValidatePassword(strings.Repeat("x", 73)), ErrPasswordTooLong)
	// twelve characters, more than twelve bytes
	assert.NoError(t, ValidatePassword("ééééééééééée"))
}

func TestValidateUserUpdate(t *testing.T) {
	name := "Ada"
	blank := " "
	email := " ada@example.com "
	bad := "nope"

	assert.NoError(t, ValidateUserUpdate(model.UserUpdate{}))
	assert.NoError(t, ValidateUserUpdate(model.UserUpdate{Name: &name, Email: &email}))
	assert.Error(t, ValidateUserUpdate(model.UserUpdate{Name: &blank}))
	assert.Error(t, ValidateUserUpdate(model.UserUpdate{Email: &bad}))
}

func TestValidatePasswordChange(t *testing.T) {
	assert.ErrorIs(t, ValidatePasswordChange("correct horse battery", "correct horse battery"), ErrPasswordUnchanged)
	assert.ErrorIs(t, ValidatePasswordChange("correct horse battery", "short"), ErrPasswordTooShort)
	assert.NoError(t, ValidatePasswordChange("correct horse battery", "another long passphrase"))
}
