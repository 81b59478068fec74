package storage

import (
	"context"
	"errors"
	"io"
)

var ErrFileNotFound = errors.New("file not found")

// FileStorage stores generated documents under slash-separated keys.
type FileStorage interface {
	// Put writes the content and returns the stored key.
	Put(ctx context.Context, key string, content io.Reader) (string, error)

	// Open returns ErrFileNotFound for a missing key.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	Exists(ctx context.Context, key string) (bool, error)
}
