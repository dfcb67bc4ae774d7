package events

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/dmitrijs2005/secureshare/internal/logging"
	"github.com/dmitrijs2005/secureshare/internal/server/models"
	"github.com/dmitrijs2005/secureshare/internal/server/repositories/notifications"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingRepo struct{}

func (failingRepo) Create(context.Context, *models.Notification) error {
	return errors.New("db is down")
}
func (failingRepo) ListBySession(context.Context, string, int) ([]*models.Notification, error) {
	return nil, nil
}
func (failingRepo) MarkRead(context.Context, string, int64) error { return nil }

func newBufLogger() (logging.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil))), &buf
}

func TestRegistrySink_PersistsNotification(t *testing.T) {
	repo := notifications.NewInMemoryRepository()
	logger, _ := newBufLogger()
	sink := NewRegistrySink(repo, logger)
	ctx := context.Background()

	sink.Record(ctx, "sess-A", KindUpload, `File "notes.txt" uploaded`)

	got, err := repo.ListBySession(ctx, "sess-A", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, KindUpload, got[0].Kind)
	assert.False(t, got[0].CreatedAt.IsZero())
}

func TestRegistrySink_SwallowsRepositoryErrors(t *testing.T) {
	logger, buf := newBufLogger()
	sink := NewRegistrySink(failingRepo{}, logger)

	// must not panic or propagate anything
	sink.Record(context.Background(), "sess-A", KindSearch, "searched")

	assert.True(t, strings.Contains(buf.String(), "failed to record notification"))
}
