package repository

import (
	"context"
	"io"
	"time"
)

// ObjectStorage defines the interface for blob storage operations.
// Only object keys and URLs are kept in the entity store, never the bytes.
type ObjectStorage interface {
	// GeneratePresignedUploadURL creates a presigned URL for direct client upload.
	// key is the object path within the bucket (e.g., "videos/{owner_id}/{upload_id}/clip.mp4").
	GeneratePresignedUploadURL(ctx context.Context, key string, expiry time.Duration) (string, error)

	// ObjectURL returns the stable public URL of key.
	ObjectURL(key string) string

	// KeyFromURL reverses ObjectURL. ok is false for URLs outside this storage.
	KeyFromURL(url string) (key string, ok bool)

	// Download retrieves an object from the storage.
	// Caller is responsible for closing the returned ReadCloser.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes an object from the storage.
	Delete(ctx context.Context, key string) error

	// Exists checks if an object exists in the storage.
	Exists(ctx context.Context, key string) (bool, error)
}
