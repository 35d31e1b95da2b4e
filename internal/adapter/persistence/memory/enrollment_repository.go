package memory

import (
	"context"
	"sync"

	"checkout_service/internal/domain/entities"
	"checkout_service/internal/usecase/interfaces"
)

type EnrollmentRepository struct {
	mu   sync.RWMutex
	byID map[string]entities.Enrollment
}

var _ interfaces.IEnrollmentRepository = (*EnrollmentRepository)(nil)

func NewEnrollmentRepository() *EnrollmentRepository {
	return &EnrollmentRepository{byID: map[string]entities.Enrollment{}}
}

func (r *EnrollmentRepository) Create(_ context.Context, e entities.Enrollment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[e.ID]; ok {
		return interfaces.ErrConditionFailed
	}
	r.byID[e.ID] = e
	return nil
}

func (r *EnrollmentRepository) GetByID(_ context.Context, id string) (entities.Enrollment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byID[id], nil
}

// Count is used by tests asserting exactly-once provisioning.
func (r *EnrollmentRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
