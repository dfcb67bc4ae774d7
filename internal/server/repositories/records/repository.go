// Package records implements the file-record registry: one durable row per
// stored file, including the one-time access flag.
package records

import (
	"context"

	"github.com/dmitrijs2005/secureshare/internal/server/models"
)

// Repository is the registry contract the vault service depends on.
// Implementations must make MarkAccessed an atomic compare-and-set on the
// accessed flag; the vault never reads and then writes the flag separately.
type Repository interface {
	// Create inserts a new record. Returns common.ErrDuplicateID when the
	// record id already exists.
	Create(ctx context.Context, record *models.FileRecord) error

	// Get returns a record by id, or common.ErrNotFound.
	Get(ctx context.Context, id string) (*models.FileRecord, error)

	// MarkAccessed atomically transitions the accessed flag false->true.
	// An already-consumed record and an unknown id both yield
	// common.ErrAlreadyConsumed, so the failure leaks no existence
	// information.
	MarkAccessed(ctx context.Context, id string) error

	// ListByOwner returns all records owned by sessionID, newest first.
	ListByOwner(ctx context.Context, sessionID string) ([]*models.FileRecord, error)
}
