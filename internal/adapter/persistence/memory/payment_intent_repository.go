// Package memory holds process-local stores for STORAGE_DRIVER=memory and for
// tests. Conditional writes mirror the DynamoDB repositories.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"checkout_service/internal/domain/entities"
	"checkout_service/internal/usecase/interfaces"
)

type PaymentIntentRepository struct {
	mu    sync.RWMutex
	byID  map[string]entities.PaymentIntent
	byRef map[string]string
}

var _ interfaces.IPaymentIntentRepository = (*PaymentIntentRepository)(nil)

func NewPaymentIntentRepository() *PaymentIntentRepository {
	return &PaymentIntentRepository{byID: map[string]entities.PaymentIntent{}, byRef: map[string]string{}}
}

func (r *PaymentIntentRepository) Create(_ context.Context, intent entities.PaymentIntent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[intent.OrderID]; ok {
		return interfaces.ErrConditionFailed
	}
	r.byID[intent.OrderID] = intent
	if intent.ProcessorReference != "" {
		r.byRef[intent.ProcessorReference] = intent.OrderID
	}
	return nil
}

func (r *PaymentIntentRepository) GetByOrderID(_ context.Context, orderID string) (entities.PaymentIntent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byID[orderID], nil
}

func (r *PaymentIntentRepository) GetByProcessorReference(_ context.Context, reference string) (entities.PaymentIntent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	orderID, ok := r.byRef[reference]
	if !ok {
		return entities.PaymentIntent{}, nil
	}
	return r.byID[orderID], nil
}

func (r *PaymentIntentRepository) UpdateStatus(_ context.Context, intent entities.PaymentIntent, expected entities.IntentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byID[intent.OrderID]
	if !ok || stored.Status != expected {
		return interfaces.ErrConditionFailed
	}
	r.byID[intent.OrderID] = intent
	return nil
}

func (r *PaymentIntentRepository) ListExpired(_ context.Context, now time.Time, limit int32) ([]entities.PaymentIntent, error) {
	r.mu.RLock()
	out := make([]entities.PaymentIntent, 0)
	for _, intent := range r.byID {
		if intent.Status == entities.IntentStatusPending && intent.ExpiresAt != nil && !intent.ExpiresAt.After(now) {
			out = append(out, intent)
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiresAt.Before(*out[j].ExpiresAt) })
	return truncate(out, int(limit)), nil
}

func truncate[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
