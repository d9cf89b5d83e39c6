package sessionstore

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	number    string
	expiresAt time.Time
}

// MemoryStore keeps sessions in process memory. Expired entries are hidden
// from Lookup right away and dropped for good by Sweep.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

func (s *MemoryStore) Save(_ context.Context, token, number string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[token] = memoryEntry{number: number, expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Lookup(_ context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[token]
	if !ok || !s.now().Before(e.expiresAt) {
		return "", ErrNotFound
	}
	return e.number, nil
}

func (s *MemoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, token)
	return nil
}

// Sweep drops expired entries and returns how many were removed.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for token, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, token)
			removed++
		}
	}
	return removed
}

// Len counts entries, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
