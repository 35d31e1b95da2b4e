package interfaces

import (
	"context"
	"time"

	"checkout_service/internal/domain/entities"
)

type IPurchaseRepository interface {
	Create(ctx context.Context, p entities.Purchase) error
	GetByOrderID(ctx context.Context, orderID string) (entities.Purchase, error)
	Update(ctx context.Context, p entities.Purchase, expected entities.PurchaseState) error
	// ListByState returns purchases in state last updated no later than
	// notAfter, least recently updated first.
	ListByState(ctx context.Context, state entities.PurchaseState, notAfter time.Time, limit int32) ([]entities.Purchase, error)
}
