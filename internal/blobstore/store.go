// Package blobstore abstracts where ciphertext bytes live: an S3-compatible
// bucket, a local directory, or process memory. Keys are opaque to callers;
// the vault core never inspects storage-specific metadata.
package blobstore

import "context"

// BlobStore is the minimal contract the vault core depends on.
//
// Get returns common.ErrNotFound for unknown keys. Transport or backend
// failures are reported wrapped in common.ErrStorageUnavailable so callers
// can decide to retry.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
