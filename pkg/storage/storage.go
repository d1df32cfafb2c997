// Package storage defines the object-storage abstraction the promotion
// pipeline runs against. It provides a unified interface for different
// backends: AWS S3 (or any S3-compatible service), the local filesystem
// and an in-memory store used by tests and offline runs.
package storage

import (
	"context"
)

// Backend is the capability boundary between the pipeline and object
// storage. Both operations are scoped to a single bucket resolved before
// the pipeline runs; these are the only calls that may block on the
// network.
type Backend interface {
	// ListObjects returns the full keys of all objects under the given
	// prefix. An empty prefix lists the whole bucket.
	ListObjects(ctx context.Context, prefix string) ([]string, error)

	// CopyObject copies an object within the bucket. The destination is
	// never checked here; collision policy belongs to the caller.
	CopyObject(ctx context.Context, sourceKey, destinationKey string) error

	// Type returns the backend identifier ("s3", "local" or "memory").
	Type() string
}
