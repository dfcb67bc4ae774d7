// Package common contains shared constants, helpers and sentinel errors used
// across Secure Share components. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Registry / repository-level errors.
	ErrNotFound    = errors.New("not found")
	ErrDuplicateID = errors.New("duplicate id")

	// Vault access-control errors.
	ErrForbidden       = errors.New("forbidden")
	ErrAlreadyConsumed = errors.New("already consumed")

	// ErrIntegrity covers both a ciphertext digest mismatch and a cipher
	// authentication failure. It is always fatal for the request and is
	// never retried.
	ErrIntegrity = errors.New("integrity check failed")

	// ErrStorageUnavailable means the blob store collaborator failed.
	// Callers may retry with backoff.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// Auth errors (invalid or malformed session token).
	ErrInvalidToken = errors.New("invalid token")

	// Input validation.
	ErrValidation = errors.New("validation error")

	// Generic internal failure.
	ErrInternal = errors.New("internal error")
)
