package storage

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process CacheStore used when Redis is not configured,
// and in tests. Entries expire lazily on read; a FIFO cap bounds memory.
type MemoryStore struct {
	mu      sync.RWMutex
	items   map[string]memEntry
	order   []string
	maxSize int
}

type memEntry struct {
	value     string
	expiresAt time.Time
}

// NewMemoryStore creates a memory-backed store. maxEntries <= 0 disables the
// size cap.
func NewMemoryStore(maxEntries int) *MemoryStore {
	return &MemoryStore{
		items:   make(map[string]memEntry),
		order:   make([]string, 0, 128),
		maxSize: maxEntries,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	e, ok := s.items[key]
	s.mu.RUnlock()
	if !ok {
		return "", false, nil
	}
	if time.Now().After(e.expiresAt) {
		s.mu.Lock()
		delete(s.items, key)
		s.removeFromOrder(key)
		s.mu.Unlock()
		return "", false, nil
	}
	return e.value, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[key]; !exists {
		s.order = append(s.order, key)
	}
	s.items[key] = memEntry{value: value, expiresAt: time.Now().Add(ttl)}
	s.evictIfNeeded()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.items, key)
	s.removeFromOrder(key)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) removeFromOrder(key string) {
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

func (s *MemoryStore) evictIfNeeded() {
	if s.maxSize <= 0 || len(s.items) <= s.maxSize {
		return
	}
	// Simple FIFO eviction; usage keys churn with data changes anyway.
	excess := len(s.items) - s.maxSize
	for excess > 0 && len(s.order) > 0 {
		victim := s.order[0]
		s.order = s.order[1:]
		delete(s.items, victim)
		excess--
	}
}
