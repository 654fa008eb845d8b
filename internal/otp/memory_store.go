package otp

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store for single-instance deployments
// and tests. Per-key operations take the store mutex, so concurrent
// issuance for different emails never interferes beyond lock contention.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]PendingVerification
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]PendingVerification),
		now:     time.Now,
	}
}

func (s *MemoryStore) Put(ctx context.Context, pv PendingVerification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pv.Email = normalizeEmail(pv.Email)
	s.entries[pv.Email] = pv
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, email string) (*PendingVerification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pv, ok := s.entries[normalizeEmail(email)]
	if !ok {
		return nil, ErrNotFound
	}

	// Return a copy so callers cannot mutate the stored entry.
	out := pv
	return &out, nil
}

func (s *MemoryStore) Delete(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, normalizeEmail(email))
	return nil
}

// Sweep drops entries whose verification window has passed.
func (s *MemoryStore) Sweep(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for email, pv := range s.entries {
		if pv.Expired(now) {
			delete(s.entries, email)
		}
	}

	return nil
}

// Len reports the number of live entries, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}
