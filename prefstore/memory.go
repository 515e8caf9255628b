package prefstore

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	lang      string
	timestamp time.Time
}

// MemoryStore is a thread-safe in-process store with optional expiry.
type MemoryStore struct {
	entries map[string]memoryEntry
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates a store whose entries expire after ttl.
// A ttl of zero or less keeps entries forever.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl < 0 {
		ttl = 0
	}
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the stored language. Expired entries are removed.
func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return "", false, nil
	}

	if s.ttl > 0 && s.now().Sub(entry.timestamp) > s.ttl {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return "", false, nil
	}

	return entry.lang, true, nil
}

// Set stores lang for key.
func (s *MemoryStore) Set(_ context.Context, key, lang string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = memoryEntry{lang: lang, timestamp: s.now()}
	return nil
}

// Len returns the number of entries, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Purge drops expired entries and returns how many were removed.
func (s *MemoryStore) Purge() int {
	if s.ttl <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	now := s.now()
	for key, entry := range s.entries {
		if now.Sub(entry.timestamp) > s.ttl {
			delete(s.entries, key)
			n++
		}
	}
	return n
}

var _ Store = (*MemoryStore)(nil)
