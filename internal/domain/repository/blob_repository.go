package repository

import "context"

// BlobRepository publishes objects and returns a public URL
type BlobRepository interface {
	EnsureContainer(ctx context.Context) error
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
}
