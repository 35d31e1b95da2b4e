package interfaces

import (
	"context"

	"checkout_service/internal/domain/entities"
)

type IEnrollmentRepository interface {
	// Create fails with ErrConditionFailed when the id already exists.
	Create(ctx context.Context, e entities.Enrollment) error
	GetByID(ctx context.Context, id string) (entities.Enrollment, error)
}
