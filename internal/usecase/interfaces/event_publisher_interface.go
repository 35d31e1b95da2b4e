package interfaces

import (
	"context"

	"checkout_service/internal/domain/entities"
)

type IEventPublisher interface {
	PublishPurchaseEvent(ctx context.Context, event entities.PurchaseEvent) error
}
