package storage

import (
	"context"
	"errors"
	"io"
)

var ErrInvalidPath = errors.New("invalid file path")

// FileStorage stores opaque blobs under slash separated keys.
type FileStorage interface {
	// Upload writes the content and returns the stored key.
	Upload(ctx context.Context, file io.Reader, path string) (string, error)

	Download(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete is a no-op for missing keys.
	Delete(ctx context.Context, path string) error

	Exists(ctx context.Context, path string) (bool, error)
}
