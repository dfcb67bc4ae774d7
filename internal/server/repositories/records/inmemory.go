package records

import (
	"context"
	"sort"
	"sync"

	"github.com/dmitrijs2005/secureshare/internal/common"
	"github.com/dmitrijs2005/secureshare/internal/server/models"
)

// InMemoryRepository keeps the registry in a mutex-guarded map. Suitable for
// the ephemeral deployment and for tests; records do not survive restarts.
type InMemoryRepository struct {
	mu      sync.Mutex
	records map[string]*models.FileRecord
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{records: make(map[string]*models.FileRecord)}
}

func (r *InMemoryRepository) Create(_ context.Context, record *models.FileRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[record.ID]; exists {
		return common.ErrDuplicateID
	}
	clone := *record
	r.records[record.ID] = &clone
	return nil
}

func (r *InMemoryRepository) Get(_ context.Context, id string) (*models.FileRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	clone := *record
	return &clone, nil
}

// MarkAccessed performs the compare-and-set under the repository mutex, so
// concurrent callers observe exactly one successful transition.
func (r *InMemoryRepository) MarkAccessed(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[id]
	if !ok || record.Accessed {
		return common.ErrAlreadyConsumed
	}
	record.Accessed = true
	return nil
}

func (r *InMemoryRepository) ListByOwner(_ context.Context, sessionID string) ([]*models.FileRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*models.FileRecord
	for _, record := range r.records {
		if record.OwnerSessionID == sessionID {
			clone := *record
			result = append(result, &clone)
		}
	}

	// newest first, id as tie-breaker for a stable order
	sort.Slice(result, func(i, j int) bool {
		if !result[i].StoredAt.Equal(result[j].StoredAt) {
			return result[i].StoredAt.After(result[j].StoredAt)
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}
