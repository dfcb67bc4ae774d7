package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/secureshare/internal/dbx"
	"github.com/dmitrijs2005/secureshare/internal/server/repositories/notifications"
	"github.com/dmitrijs2005/secureshare/internal/server/repositories/records"
)

// InMemoryRepositoryManager vends the map-backed repositories used by the
// ephemeral deployment (no DSN configured). The same instances are returned
// for every call since the state lives in the repositories themselves.
type InMemoryRepositoryManager struct {
	records       *records.InMemoryRepository
	notifications *notifications.InMemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		records:       records.NewInMemoryRepository(),
		notifications: notifications.NewInMemoryRepository(),
	}
}

func (m *InMemoryRepositoryManager) Records(_ dbx.DBTX) records.Repository {
	return m.records
}

func (m *InMemoryRepositoryManager) Notifications(_ dbx.DBTX) notifications.Repository {
	return m.notifications
}

// RunMigrations is a no-op: there is no schema to migrate.
func (m *InMemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}
