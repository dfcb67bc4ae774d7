package events

import (
	"context"

	"github.com/dmitrijs2005/secureshare/internal/logging"
)

// LogSink writes events to the structured log only.
type LogSink struct {
	logger logging.Logger
}

func NewLogSink(l logging.Logger) *LogSink {
	return &LogSink{logger: l.With("module", "events")}
}

func (s *LogSink) Record(ctx context.Context, subjectID, kind, message string) {
	s.logger.Info(ctx, "notification", "subject", subjectID, "kind", kind, "message", message)
}
