package notifications

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/secureshare/internal/common"
	"github.com/dmitrijs2005/secureshare/internal/server/models"
)

// InMemoryRepository keeps notifications in memory, capped per session.
type InMemoryRepository struct {
	mu     sync.Mutex
	nextID int64
	items  map[string][]*models.Notification
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{items: make(map[string][]*models.Notification)}
}

func (r *InMemoryRepository) Create(_ context.Context, n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	clone := *n
	clone.ID = r.nextID
	n.ID = r.nextID

	list := append(r.items[n.SessionID], &clone)
	if len(list) > common.MaxNotificationsPerSession {
		list = list[len(list)-common.MaxNotificationsPerSession:]
	}
	r.items[n.SessionID] = list
	return nil
}

func (r *InMemoryRepository) ListBySession(_ context.Context, sessionID string, limit int) ([]*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.items[sessionID]

	var result []*models.Notification
	for i := len(list) - 1; i >= 0 && len(result) < limit; i-- {
		clone := *list[i]
		result = append(result, &clone)
	}
	return result, nil
}

func (r *InMemoryRepository) MarkRead(_ context.Context, sessionID string, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, n := range r.items[sessionID] {
		if n.ID == id {
			n.Read = true
			return nil
		}
	}
	return nil
}
