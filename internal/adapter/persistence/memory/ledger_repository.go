package memory

import (
	"context"
	"sync"

	"checkout_service/internal/domain/entities"
	"checkout_service/internal/usecase/interfaces"
)

// LedgerRepository is an append-only slice with a reference index.
type LedgerRepository struct {
	mu      sync.RWMutex
	entries []entities.RecordedEntry
	byRef   map[string]int
}

var _ interfaces.ILedgerRepository = (*LedgerRepository)(nil)

func NewLedgerRepository() *LedgerRepository {
	return &LedgerRepository{byRef: map[string]int{}}
}

func (r *LedgerRepository) Append(_ context.Context, entry entities.RecordedEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := entry.ReferenceKey()
	if _, ok := r.byRef[key]; ok {
		return interfaces.ErrConditionFailed
	}
	r.byRef[key] = len(r.entries)
	r.entries = append(r.entries, entry)
	return nil
}

func (r *LedgerRepository) GetByReference(_ context.Context, referenceKey string) (entities.RecordedEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.byRef[referenceKey]
	if !ok {
		return entities.RecordedEntry{}, nil
	}
	return r.entries[idx], nil
}

func (r *LedgerRepository) List(_ context.Context, filter entities.LedgerFilter) ([]entities.RecordedEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entities.RecordedEntry, 0)
	for _, e := range r.entries {
		if filter.Matches(e.LedgerEntry) {
			out = append(out, e)
		}
	}
	return truncate(out, filter.Limit), nil
}

func (r *LedgerRepository) Scan(_ context.Context, fn func(entities.RecordedEntry) error) error {
	r.mu.RLock()
	snapshot := make([]entities.RecordedEntry, len(r.entries))
	copy(snapshot, r.entries)
	r.mu.RUnlock()
	for _, e := range snapshot {
		if err := fn(e); err != nil {
			return err
		}
	}
	return nil
}
