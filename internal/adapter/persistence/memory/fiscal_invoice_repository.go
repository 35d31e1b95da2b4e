package memory

import (
	"context"
	"sort"
	"sync"

	"checkout_service/internal/domain/entities"
	"checkout_service/internal/usecase/interfaces"
)

type FiscalInvoiceRepository struct {
	mu   sync.RWMutex
	byID map[string]entities.FiscalInvoice
}

var _ interfaces.IFiscalInvoiceRepository = (*FiscalInvoiceRepository)(nil)

func NewFiscalInvoiceRepository() *FiscalInvoiceRepository {
	return &FiscalInvoiceRepository{byID: map[string]entities.FiscalInvoice{}}
}

func (r *FiscalInvoiceRepository) Create(_ context.Context, inv entities.FiscalInvoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[inv.ID]; ok {
		return interfaces.ErrConditionFailed
	}
	r.byID[inv.ID] = inv
	return nil
}

func (r *FiscalInvoiceRepository) GetByID(_ context.Context, id string) (entities.FiscalInvoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byID[id], nil
}

func (r *FiscalInvoiceRepository) ListByEnrollmentID(_ context.Context, enrollmentID string) ([]entities.FiscalInvoice, error) {
	return r.filter(func(inv entities.FiscalInvoice) bool { return inv.EnrollmentID == enrollmentID }, 0), nil
}

func (r *FiscalInvoiceRepository) ListByStatus(_ context.Context, status entities.FiscalStatus, limit int32) ([]entities.FiscalInvoice, error) {
	out := r.filter(func(inv entities.FiscalInvoice) bool { return inv.Status == status }, 0)
	sort.SliceStable(out, func(i, j int) bool { return out[i].UpdatedAt.Before(out[j].UpdatedAt) })
	return truncate(out, int(limit)), nil
}

func (r *FiscalInvoiceRepository) Update(_ context.Context, inv entities.FiscalInvoice, expected entities.FiscalStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byID[inv.ID]
	if !ok || stored.Status != expected {
		return interfaces.ErrConditionFailed
	}
	r.byID[inv.ID] = inv
	return nil
}

func (r *FiscalInvoiceRepository) filter(keep func(entities.FiscalInvoice) bool, limit int) []entities.FiscalInvoice {
	r.mu.RLock()
	out := make([]entities.FiscalInvoice, 0)
	for _, inv := range r.byID {
		if keep(inv) {
			out = append(out, inv)
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].EnrollmentID == out[j].EnrollmentID {
			return out[i].Sequence < out[j].Sequence
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return truncate(out, limit)
}
