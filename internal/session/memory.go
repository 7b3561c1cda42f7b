package session

import (
	"context"
	"sync"
	"time"

	"github.com/salonops/repeat-insight/internal/analytics"
	"github.com/salonops/repeat-insight/internal/normalize"
)

// MemoryStore is the single-process store. Sessions expire after the TTL
// and are swept lazily on access.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*entry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryStore) get(id string) *entry {
	e, ok := s.entries[id]
	if !ok {
		return nil
	}
	if s.now().After(e.expiresAt) {
		delete(s.entries, id)
		return nil
	}
	return e
}

func (s *MemoryStore) upsert(id string) *entry {
	e, ok := s.entries[id]
	if !ok || s.now().After(e.expiresAt) {
		e = &entry{}
		s.entries[id] = e
	}
	e.expiresAt = s.now().Add(s.ttl)
	return e
}

func (s *MemoryStore) SaveDataset(_ context.Context, id string, ds *normalize.Dataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upsert(id).dataset = ds
	return nil
}

func (s *MemoryStore) GetDataset(_ context.Context, id string) (*normalize.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.get(id)
	if e == nil || e.dataset == nil {
		return nil, ErrNotFound
	}
	return e.dataset, nil
}

func (s *MemoryStore) SaveResult(_ context.Context, id string, result *analytics.AnalysisResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.get(id)
	if e == nil {
		return ErrNotFound
	}
	e.result = result
	e.expiresAt = s.now().Add(s.ttl)
	return nil
}

func (s *MemoryStore) GetResult(_ context.Context, id string) (*analytics.AnalysisResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.get(id)
	if e == nil || e.result == nil {
		return nil, ErrNotFound
	}
	return e.result, nil
}
