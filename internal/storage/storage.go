package storage

import (
	"context"
	"io"
)

// Provider stores uploaded blobs and serves them at a public URL.
// Implementations can use local disk, S3, or any S3-compatible store.
type Provider interface {
	// Put stores content under key and returns the public URL.
	Put(ctx context.Context, key string, content io.Reader, contentType string) (string, error)

	// Delete removes a stored blob.
	Delete(ctx context.Context, key string) error

	// URL returns the public URL for a stored key.
	URL(key string) string
}
