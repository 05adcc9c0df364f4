package storage

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Rejection reasons surfaced to the caller as validation failures.
var (
	ErrNotAnImage = errors.New("only image files are allowed")
	ErrTooLarge   = errors.New("file exceeds maximum size")
)

// UploadStore writes KTM scans into a flat directory that is served read-only
// under /uploads.
type UploadStore struct {
	dir      string
	maxBytes int64
}

// NewUploadStore ensures the upload directory exists and returns a store
// bound to it.
func NewUploadStore(dir string, maxBytes int64) (*UploadStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &UploadStore{dir: dir, maxBytes: maxBytes}, nil
}

// Dir returns the directory the store writes into.
func (s *UploadStore) Dir() string {
	return s.dir
}

// Store validates the declared type and size, then persists the stream under a
// generated name and returns the public relative path ("/uploads/<name>").
// Names are ktm-<unix millis>-<9 random digits><ext>, so concurrent uploads
// never race on the same file.
func (s *UploadStore) Store(src io.Reader, originalName, contentType string, size int64) (string, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return "", ErrNotAnImage
	}
	if size > s.maxBytes {
		return "", ErrTooLarge
	}

	name := generateName(originalName)
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}

	return "/uploads/" + name, nil
}

func generateName(originalName string) string {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000_000))
	suffix := int64(0)
	if err == nil {
		suffix = n.Int64()
	}
	ext := filepath.Ext(originalName)
	return fmt.Sprintf("ktm-%d-%09d%s", time.Now().UnixMilli(), suffix, ext)
}
