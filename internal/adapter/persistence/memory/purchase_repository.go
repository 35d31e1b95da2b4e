package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"checkout_service/internal/domain/entities"
	"checkout_service/internal/usecase/interfaces"
)

type PurchaseRepository struct {
	mu   sync.RWMutex
	byID map[string]entities.Purchase
}

var _ interfaces.IPurchaseRepository = (*PurchaseRepository)(nil)

func NewPurchaseRepository() *PurchaseRepository {
	return &PurchaseRepository{byID: map[string]entities.Purchase{}}
}

func (r *PurchaseRepository) Create(_ context.Context, p entities.Purchase) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[p.OrderID]; ok {
		return interfaces.ErrConditionFailed
	}
	r.byID[p.OrderID] = p
	return nil
}

func (r *PurchaseRepository) GetByOrderID(_ context.Context, orderID string) (entities.Purchase, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byID[orderID], nil
}

func (r *PurchaseRepository) Update(_ context.Context, p entities.Purchase, expected entities.PurchaseState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byID[p.OrderID]
	if !ok || stored.State != expected {
		return interfaces.ErrConditionFailed
	}
	r.byID[p.OrderID] = p
	return nil
}

func (r *PurchaseRepository) ListByState(_ context.Context, state entities.PurchaseState, notAfter time.Time, limit int32) ([]entities.Purchase, error) {
	r.mu.RLock()
	out := make([]entities.Purchase, 0)
	for _, p := range r.byID {
		if p.State == state && !p.UpdatedAt.After(notAfter) {
			out = append(out, p)
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.Before(out[j].UpdatedAt)
		}
		return out[i].OrderID < out[j].OrderID
	})
	return truncate(out, int(limit)), nil
}
