package events

import (
	"context"
	"time"

	"github.com/dmitrijs2005/secureshare/internal/logging"
	"github.com/dmitrijs2005/secureshare/internal/server/models"
	"github.com/dmitrijs2005/secureshare/internal/server/repositories/notifications"
)

// RegistrySink persists events through the notifications repository so they
// can be listed later. Persistence failures are logged and swallowed.
type RegistrySink struct {
	repo   notifications.Repository
	logger logging.Logger
	now    func() time.Time
}

func NewRegistrySink(repo notifications.Repository, l logging.Logger) *RegistrySink {
	return &RegistrySink{
		repo:   repo,
		logger: l.With("module", "events"),
		now:    time.Now,
	}
}

func (s *RegistrySink) Record(ctx context.Context, subjectID, kind, message string) {
	n := &models.Notification{
		SessionID: subjectID,
		Kind:      kind,
		Message:   message,
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Warn(ctx, "failed to record notification", "subject", subjectID, "kind", kind, "error", err.Error())
	}
}
