package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"checkout_service/internal/domain/entities"
	"checkout_service/internal/usecase/interfaces"
	"checkout_service/pkg/logger"

	"github.com/shopspring/decimal"
)

var (
	ErrIntentNotConfirmed = errors.New("payment intent is not confirmed")
	ErrNegativeDiscount   = errors.New("payment exceeds the offering price")
	ErrDiscountNotCovered = errors.New("discount exceeds what the coupon grants")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
)

type ProvisionInput struct {
	Intent   entities.PaymentIntent
	Offering entities.Offering
	// Coupon is nil when the purchase used none.
	Coupon *entities.Coupon
	// Quote is the price the amount was checked against at submission. When
	// set it takes precedence over the offering's current price and Coupon.
	Quote entities.PriceQuote
}

// IEnrollmentUseCase provisions exactly one enrollment per confirmed intent.
type IEnrollmentUseCase interface {
	Provision(ctx context.Context, in ProvisionInput) (entities.Enrollment, error)
	GetByIntent(ctx context.Context, orderID string) (entities.Enrollment, error)
}

type EnrollmentUseCase struct {
	repo interfaces.IEnrollmentRepository
	log  *logger.Logger
	now  func() time.Time
}

var _ IEnrollmentUseCase = (*EnrollmentUseCase)(nil)

func NewEnrollmentUseCase(repo interfaces.IEnrollmentRepository, log *logger.Logger) *EnrollmentUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &EnrollmentUseCase{repo: repo, log: log, now: func() time.Time { return time.Now().UTC() }}
}

func (u *EnrollmentUseCase) WithClock(now func() time.Time) *EnrollmentUseCase {
	u.now = now
	return u
}

func (u *EnrollmentUseCase) Provision(ctx context.Context, in ProvisionInput) (entities.Enrollment, error) {
	intent := in.Intent
	ctx = u.log.WithFields(ctx, map[string]any{"component": "enrollment.usecase", "order_id": intent.OrderID})
	if intent.Status != entities.IntentStatusConfirmed {
		return entities.Enrollment{}, entities.NewProvisionError(entities.ErrorKindPreconditionFailed, fmt.Errorf("%w: status %s", ErrIntentNotConfirmed, intent.Status))
	}

	id := entities.EnrollmentIDForIntent(intent.OrderID)
	existing, err := u.repo.GetByID(ctx, id)
	if err != nil {
		u.log.Error(ctx, "load enrollment failed", err)
		return entities.Enrollment{}, entities.NewProvisionError(entities.ErrorKindStorageUnavailable, err)
	}
	if existing.ID != "" {
		u.log.Info(ctx, "enrollment already provisioned for intent")
		return existing, nil
	}

	original, granted := in.Quote.ListPrice, in.Quote.Discount
	if in.Quote.IsZero() {
		original = in.Offering.Price
		if granted, err = u.couponDiscount(in.Coupon, original); err != nil {
			return entities.Enrollment{}, err
		}
	}
	discount := original.Sub(intent.Amount)
	if discount.IsNegative() {
		return entities.Enrollment{}, entities.NewProvisionError(entities.ErrorKindInvalidDiscount,
			fmt.Errorf("%w: paid %s for %s", ErrNegativeDiscount, intent.Amount.StringFixed(2), original.StringFixed(2)))
	}
	if discount.GreaterThan(granted) {
		return entities.Enrollment{}, entities.NewProvisionError(entities.ErrorKindInvalidDiscount,
			fmt.Errorf("%w: discount %s, granted %s", ErrDiscountNotCovered, discount.StringFixed(2), granted.StringFixed(2)))
	}

	enrollment := entities.Enrollment{
		ID:             id,
		IntentID:       intent.OrderID,
		PurchaserID:    intent.Purchaser.ID,
		OfferingID:     in.Offering.ID,
		Status:         entities.EnrollmentStatusPaid,
		CouponID:       intent.CouponID,
		PaymentAmount:  intent.Amount,
		OriginalAmount: original,
		DiscountAmount: discount,
		CreatedBy:      intent.CreatedBy,
		CreatedAt:      u.now(),
	}

	err = u.repo.Create(ctx, enrollment)
	if errors.Is(err, interfaces.ErrConditionFailed) {
		stored, gerr := u.repo.GetByID(ctx, id)
		if gerr != nil {
			return entities.Enrollment{}, entities.NewProvisionError(entities.ErrorKindStorageUnavailable, gerr)
		}
		u.log.Info(ctx, "concurrent provisioning won; returning stored enrollment")
		return stored, nil
	}
	if err != nil {
		u.log.Error(ctx, "create enrollment failed", err)
		return entities.Enrollment{}, entities.NewProvisionError(entities.ErrorKindStorageUnavailable, err)
	}
	u.log.Info(u.log.WithField(ctx, "enrollment_id", id), "enrollment provisioned")
	return enrollment, nil
}

// couponDiscount returns what the coupon grants on price. Availability was
// checked when the purchase was submitted, so an expiry in between is ignored.
func (u *EnrollmentUseCase) couponDiscount(c *entities.Coupon, price decimal.Decimal) (decimal.Decimal, error) {
	if c == nil {
		return decimal.Zero, nil
	}
	grant := *c
	grant.Active = true
	grant.ExpiresAt = nil
	granted, err := grant.DiscountFor(price, u.now())
	if err != nil {
		return decimal.Zero, entities.NewProvisionError(entities.ErrorKindInvalidDiscount, err)
	}
	return granted, nil
}

func (u *EnrollmentUseCase) GetByIntent(ctx context.Context, orderID string) (entities.Enrollment, error) {
	e, err := u.repo.GetByID(ctx, entities.EnrollmentIDForIntent(orderID))
	if err != nil {
		return entities.Enrollment{}, entities.NewProvisionError(entities.ErrorKindStorageUnavailable, err)
	}
	if e.ID == "" {
		return entities.Enrollment{}, entities.NewProvisionError(entities.ErrorKindNotFound, ErrEnrollmentNotFound)
	}
	return e, nil
}
