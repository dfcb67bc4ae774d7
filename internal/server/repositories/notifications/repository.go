// Package notifications persists best-effort usage events per session.
package notifications

import (
	"context"

	"github.com/dmitrijs2005/secureshare/internal/server/models"
)

type Repository interface {
	// Create appends a notification for its session and prunes entries
	// beyond the per-session cap, oldest first.
	Create(ctx context.Context, n *models.Notification) error

	// ListBySession returns up to limit notifications, newest first.
	ListBySession(ctx context.Context, sessionID string, limit int) ([]*models.Notification, error)

	// MarkRead marks one of the session's notifications as read. Unknown
	// ids are ignored.
	MarkRead(ctx context.Context, sessionID string, id int64) error
}
