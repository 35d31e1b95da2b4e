package memory

import (
	"context"
	"sync"
	"time"

	"checkout_service/internal/usecase/interfaces"
)

type reservation struct {
	holder    string
	expiresAt time.Time
}

// IdempotencyStore keeps reservations in process memory; expired ones are
// overwritten lazily.
type IdempotencyStore struct {
	mu    sync.Mutex
	items map[string]reservation
	now   func() time.Time
}

var _ interfaces.IIdempotencyStore = (*IdempotencyStore)(nil)

func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{items: map[string]reservation{}, now: time.Now}
}

func (s *IdempotencyStore) WithClock(now func() time.Time) *IdempotencyStore {
	s.now = now
	return s
}

func (s *IdempotencyStore) Reserve(_ context.Context, key, holder string, ttl time.Duration) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if current, ok := s.items[key]; ok && now.Before(current.expiresAt) {
		return current.holder, current.holder == holder, nil
	}
	s.items[key] = reservation{holder: holder, expiresAt: now.Add(ttl)}
	return holder, true, nil
}

func (s *IdempotencyStore) Release(_ context.Context, key, holder string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if current, ok := s.items[key]; ok && current.holder == holder {
		delete(s.items, key)
	}
	return nil
}
