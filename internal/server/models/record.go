// Package models defines server-side data models persisted in the registry.
package models

import "time"

// FileRecord describes one stored file. The encrypted payload itself lives
// in the blob store; the registry keeps only a reference to it.
//
// Key material is never part of the record: the per-file key is re-derived
// from (OwnerSessionID, ID, server secret) at use time.
type FileRecord struct {
	// ID is the opaque unique file identifier, generated at store time.
	ID string
	// OwnerSessionID identifies the session that stored the file.
	OwnerSessionID string
	// OriginalName is the display name supplied by the uploader.
	OriginalName string
	// ContentDigest is the hex SHA-256 of the encrypted payload at store
	// time, checked before any decryption attempt.
	ContentDigest string
	// StorageKey is the blob-store key (path) of the ciphertext. Opaque to
	// the registry.
	StorageKey string
	// StoredAt is the creation timestamp.
	StoredAt time.Time
	// Accessed transitions false->true exactly once, on the first
	// successful retrieval. A true value permanently forbids further
	// retrieval.
	Accessed bool
}
