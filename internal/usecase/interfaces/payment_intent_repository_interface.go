package interfaces

import (
	"context"
	"time"

	"checkout_service/internal/domain/entities"
)

// IPaymentIntentRepository persists payment intents. Getters return a zero
// intent (OrderID == "") when nothing is stored.
type IPaymentIntentRepository interface {
	Create(ctx context.Context, intent entities.PaymentIntent) error
	GetByOrderID(ctx context.Context, orderID string) (entities.PaymentIntent, error)
	GetByProcessorReference(ctx context.Context, reference string) (entities.PaymentIntent, error)
	// UpdateStatus writes the intent only if the stored status is still expected.
	UpdateStatus(ctx context.Context, intent entities.PaymentIntent, expected entities.IntentStatus) error
	// ListExpired returns pending intents whose expiry is at or before now,
	// earliest expiry first. Intents without an expiry are never listed.
	ListExpired(ctx context.Context, now time.Time, limit int32) ([]entities.PaymentIntent, error)
}
