package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/secureshare/internal/common"
	"github.com/dmitrijs2005/secureshare/internal/server/models"
	"github.com/dmitrijs2005/secureshare/internal/server/repositories/repomanager"
)

// defaultNotificationLimit is applied when the caller supplies no limit.
const defaultNotificationLimit = 10

// NotificationService exposes the per-session notification feed.
type NotificationService struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
}

func NewNotificationService(db *sql.DB, repos repomanager.RepositoryManager) *NotificationService {
	return &NotificationService{db: db, repos: repos}
}

// List returns up to limit notifications for the session, newest first.
func (s *NotificationService) List(ctx context.Context, sessionID string, limit int) ([]*models.Notification, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: empty session id", common.ErrValidation)
	}
	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	if limit > common.MaxNotificationsPerSession {
		limit = common.MaxNotificationsPerSession
	}
	return s.repos.Notifications(s.db).ListBySession(ctx, sessionID, limit)
}

// MarkRead marks one of the session's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, sessionID string, id int64) error {
	if sessionID == "" {
		return fmt.Errorf("%w: empty session id", common.ErrValidation)
	}
	return s.repos.Notifications(s.db).MarkRead(ctx, sessionID, id)
}
