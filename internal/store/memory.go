package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shipper-lite/backend/internal/entity"
)

// MemoryStore keeps document checks in a process-local map. Default for
// tests and no-database runs.
type MemoryStore struct {
	mu     sync.RWMutex
	checks map[uuid.UUID]entity.DocumentCheck
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{checks: make(map[uuid.UUID]entity.DocumentCheck)}
}

func (s *MemoryStore) Create(_ context.Context, check *entity.DocumentCheck) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	check.CreatedAt = now
	check.UpdatedAt = now
	s.checks[check.ID] = *check
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id uuid.UUID) (*entity.DocumentCheck, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	check, ok := s.checks[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &check, nil
}

func (s *MemoryStore) Update(_ context.Context, check *entity.DocumentCheck) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.checks[check.ID]; !ok {
		return ErrNotFound
	}
	check.UpdatedAt = time.Now().UTC()
	s.checks[check.ID] = *check
	return nil
}

func (s *MemoryStore) Close() error { return nil }
