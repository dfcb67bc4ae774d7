package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/secureshare/internal/dbx"
	"github.com/dmitrijs2005/secureshare/internal/server/repositories/notifications"
	"github.com/dmitrijs2005/secureshare/internal/server/repositories/records"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Records(db dbx.DBTX) records.Repository
	Notifications(db dbx.DBTX) notifications.Repository
}
