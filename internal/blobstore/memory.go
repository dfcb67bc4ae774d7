package blobstore

import (
	"bytes"
	"context"
	"sync"

	"github.com/dmitrijs2005/secureshare/internal/common"
)

// MemoryStore holds blobs in a mutex-guarded map. Used by tests and the
// ephemeral deployment.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

func (s *MemoryStore) Put(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = bytes.Clone(data)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.blobs[key]
	if !ok {
		return nil, common.ErrNotFound
	}
	return bytes.Clone(data), nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	return nil
}

// Corrupt flips one bit of a stored blob in place. Test helper for
// integrity-failure scenarios.
func (s *MemoryStore) Corrupt(key string, offset int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.blobs[key]
	if !ok || offset >= len(data) {
		return false
	}
	data[offset] ^= 0x01
	return true
}
