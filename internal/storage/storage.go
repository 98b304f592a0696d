// Package storage defines the Provider interface for object storage backends.
package storage

import (
	"context"
	"io"
	"time"
)

// Provider abstracts object storage operations.
type Provider interface {
	// Put writes data to storage under the given key. The expiry hint marks
	// when the backing store may discard the object; enforcement is a
	// property of the bucket, not of this code.
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string, expires time.Time) error
	// Presign returns a time-limited URL granting read access to key.
	Presign(ctx context.Context, key string, ttl time.Duration) (string, error)
	// PublicURL returns the unauthenticated URL for a storage key.
	PublicURL(key string) string
	// Delete removes the object at key.
	Delete(ctx context.Context, key string) error
}
