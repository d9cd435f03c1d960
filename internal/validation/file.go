package validation

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
)

var ErrNoFile = errors.New("no file uploaded")

// FileConstraints defines validation rules for file uploads
type FileConstraints struct {
	AllowedMimeTypes  map[string]bool
	AllowedExtensions map[string]bool
	MaxSize           int64
}

// DefaultAvatarMaxSize is used when no explicit limit is configured.
const DefaultAvatarMaxSize int64 = 2 << 20

// AvatarConstraints returns the rules for avatar images with the given size limit.
func AvatarConstraints(maxSize int64) FileConstraints {
	if maxSize <= 0 {
		maxSize = DefaultAvatarMaxSize
	}
	return FileConstraints{
		AllowedMimeTypes: map[string]bool{
			"image/jpeg": true,
			"image/png":  true,
			"image/gif":  true,
			"image/webp": true,
		},
		AllowedExtensions: map[string]bool{
			".jpg":  true,
			".jpeg": true,
			".png":  true,
			".gif":  true,
			".webp": true,
		},
		MaxSize: maxSize,
	}
}

// ValidateFile checks an uploaded file against the constraints and returns
// the content type detected from its first bytes.
func ValidateFile(header *multipart.FileHeader, constraints FileConstraints) (string, error) {
	if header == nil {
		return "", ErrNoFile
	}

	// Check file size first (before reading content)
	if header.Size > constraints.MaxSize {
		return "", fmt.Errorf("file too large: maximum size is %s", humanize.IBytes(uint64(constraints.MaxSize)))
	}
	if header.Size == 0 {
		return "", errors.New("file is empty")
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !constraints.AllowedExtensions[ext] {
		if ext == "" {
			return "", errors.New("file has no extension")
		}
		return "", fmt.Errorf("invalid file extension: %s", ext)
	}

	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// http.DetectContentType looks at no more than 512 bytes
	buffer := make([]byte, 512)
	n, err := io.ReadFull(file, buffer)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	// Sniffed from the content, the client's Content-Type header is ignored
	detectedType := http.DetectContentType(buffer[:n])
	if !constraints.AllowedMimeTypes[detectedType] {
		return "", fmt.Errorf("invalid file type (detected: %s)", detectedType)
	}

	return detectedType, nil
}
