package interfaces

import (
	"context"

	"checkout_service/internal/domain/entities"
)

// IOfferingRepository reads offerings owned by the catalog service.
type IOfferingRepository interface {
	GetByID(ctx context.Context, id string) (entities.Offering, error)
}

// ICouponRepository reads coupons owned by the marketing service.
type ICouponRepository interface {
	GetByID(ctx context.Context, id string) (entities.Coupon, error)
}
