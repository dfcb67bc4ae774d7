package notifications

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/secureshare/internal/common"
	"github.com/dmitrijs2005/secureshare/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemory_CreateAndList_NewestFirst(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		require.NoError(t, repo.Create(ctx, &models.Notification{
			SessionID: "sess-A",
			Kind:      "File Upload",
			Message:   fmt.Sprintf("file %d", i),
			CreatedAt: time.Now(),
		}))
	}

	got, err := repo.ListBySession(ctx, "sess-A", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "file 3", got[0].Message)
	assert.Equal(t, "file 2", got[1].Message)
}

func TestInMemory_CapPerSession(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	for i := 0; i < common.MaxNotificationsPerSession+10; i++ {
		require.NoError(t, repo.Create(ctx, &models.Notification{
			SessionID: "sess-A",
			Message:   fmt.Sprintf("n%d", i),
		}))
	}

	got, err := repo.ListBySession(ctx, "sess-A", common.MaxNotificationsPerSession*2)
	require.NoError(t, err)
	assert.Len(t, got, common.MaxNotificationsPerSession)
	// the oldest entries were dropped
	assert.Equal(t, fmt.Sprintf("n%d", common.MaxNotificationsPerSession+9), got[0].Message)
}

func TestInMemory_MarkRead(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	n := &models.Notification{SessionID: "sess-A", Message: "hello"}
	require.NoError(t, repo.Create(ctx, n))

	require.NoError(t, repo.MarkRead(ctx, "sess-A", n.ID))

	got, err := repo.ListBySession(ctx, "sess-A", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Read)

	// unknown ids and sessions are ignored
	require.NoError(t, repo.MarkRead(ctx, "sess-A", 999))
	require.NoError(t, repo.MarkRead(ctx, "sess-B", n.ID))
}
