package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"checkout_service/internal/domain/entities"
	"checkout_service/internal/infrastructure/metrics"
	"checkout_service/internal/usecase/interfaces"
	"checkout_service/pkg/logger"

	"github.com/google/uuid"
)

var (
	ErrPaymentIntentNotFound     = errors.New("payment intent not found")
	ErrIntentCreationInProgress  = errors.New("intent creation in progress")
	ErrIdempotencyUnavailable    = errors.New("idempotency store unavailable")
	ErrPaymentDeclined           = errors.New("payment declined by processor")
	ErrUnexpectedProcessorAnswer = errors.New("unexpected processor answer")
)

// IPaymentIntentUseCase is the payment gateway client: it turns a purchase
// request into a processor-side intent and tracks its settlement.
type IPaymentIntentUseCase interface {
	CreateIntent(ctx context.Context, req entities.PurchaseRequest) (entities.PaymentIntent, error)
	GetIntent(ctx context.Context, orderID string) (entities.PaymentIntent, error)
	GetIntentByProcessorReference(ctx context.Context, reference string) (entities.PaymentIntent, error)
	RefreshStatus(ctx context.Context, orderID string) (entities.PaymentIntent, error)
	Expire(ctx context.Context, orderID string) (entities.PaymentIntent, error)
	ListExpired(ctx context.Context, limit int32) ([]entities.PaymentIntent, error)
}

type PaymentIntentSettings struct {
	PixExpiration time.Duration
	BoletoDueDays int
	// DedupWindow is how long a business key stays reserved for its first intent.
	DedupWindow time.Duration
}

func DefaultPaymentIntentSettings() PaymentIntentSettings {
	return PaymentIntentSettings{PixExpiration: 30 * time.Minute, BoletoDueDays: 3, DedupWindow: 30 * time.Minute}
}

type PaymentIntentUseCase struct {
	repo     interfaces.IPaymentIntentRepository
	idem     interfaces.IIdempotencyStore
	gateway  interfaces.IPaymentGateway
	settings PaymentIntentSettings
	log      *logger.Logger
	metrics  *metrics.PipelineMetrics
	now      func() time.Time
}

var _ IPaymentIntentUseCase = (*PaymentIntentUseCase)(nil)

func NewPaymentIntentUseCase(
	repo interfaces.IPaymentIntentRepository,
	idem interfaces.IIdempotencyStore,
	gateway interfaces.IPaymentGateway,
	settings PaymentIntentSettings,
	log *logger.Logger,
	m *metrics.PipelineMetrics,
) *PaymentIntentUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &PaymentIntentUseCase{
		repo:     repo,
		idem:     idem,
		gateway:  gateway,
		settings: settings,
		log:      log,
		metrics:  m,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source; used by tests.
func (u *PaymentIntentUseCase) WithClock(now func() time.Time) *PaymentIntentUseCase {
	u.now = now
	return u
}

func (u *PaymentIntentUseCase) CreateIntent(ctx context.Context, req entities.PurchaseRequest) (entities.PaymentIntent, error) {
	if err := req.Validate(); err != nil {
		return entities.PaymentIntent{}, entities.NewGatewayError(entities.ErrorKindInvalidRequest, err)
	}
	key := req.BusinessKey()
	ctx = u.log.WithFields(ctx, map[string]any{
		"component":    "payment.usecase",
		"business_key": key,
		"instrument":   string(req.Instrument),
		"purchaser_id": req.Purchaser.ID,
	})

	orderID := uuid.NewString()
	reservationKey := intentReservationKey(key)
	for attempt := 0; attempt < 2; attempt++ {
		holder, reserved, err := u.idem.Reserve(ctx, reservationKey, orderID, u.settings.DedupWindow)
		if err != nil {
			u.log.Error(ctx, "reserve business key failed", err)
			return entities.PaymentIntent{}, entities.NewGatewayError(entities.ErrorKindUnreachable, fmt.Errorf("%w: %v", ErrIdempotencyUnavailable, err))
		}
		if reserved {
			return u.createAtProcessor(u.log.WithOrderID(ctx, orderID), orderID, key, req)
		}

		existing, err := u.repo.GetByOrderID(ctx, holder)
		if err != nil {
			u.log.Error(ctx, "load reserved intent failed", err)
			return entities.PaymentIntent{}, entities.NewGatewayError(entities.ErrorKindUnreachable, err)
		}
		if existing.OrderID == "" {
			u.log.Warn(ctx, "duplicate submission while first intent is being created")
			return entities.PaymentIntent{}, entities.NewGatewayError(entities.ErrorKindUnreachable, ErrIntentCreationInProgress)
		}
		if existing.Status == entities.IntentStatusConfirmed ||
			(existing.Status == entities.IntentStatusPending && !existing.IsExpiredAt(u.now())) {
			u.log.Info(u.log.WithOrderID(ctx, existing.OrderID), "duplicate submission returns existing intent")
			return existing, nil
		}

		// The reserved intent is dead (failed or expired): free the key and try again.
		if err := u.idem.Release(ctx, reservationKey, holder); err != nil {
			u.log.Error(ctx, "release dead reservation failed", err)
			return entities.PaymentIntent{}, entities.NewGatewayError(entities.ErrorKindUnreachable, fmt.Errorf("%w: %v", ErrIdempotencyUnavailable, err))
		}
	}
	return entities.PaymentIntent{}, entities.NewGatewayError(entities.ErrorKindUnreachable, ErrIntentCreationInProgress)
}

func (u *PaymentIntentUseCase) createAtProcessor(ctx context.Context, orderID, key string, req entities.PurchaseRequest) (entities.PaymentIntent, error) {
	now := u.now()
	intent := entities.PaymentIntent{
		OrderID:     orderID,
		Instrument:  req.Instrument,
		Status:      entities.IntentStatusPending,
		Amount:      req.Amount,
		Purchaser:   req.Purchaser,
		OfferingID:  req.OfferingID,
		CouponID:    req.CouponID,
		CreatedBy:   req.CreatedBy,
		BusinessKey: key,
		CreatedAt:   now,
		ExpiresAt:   u.expiryFor(req.Instrument, now),
	}

	started := time.Now()
	processed, err := u.gateway.CreatePayment(ctx, entities.ProcessorPaymentRequest{
		OrderID:      orderID,
		Instrument:   req.Instrument,
		Amount:       req.Amount,
		Description:  fmt.Sprintf("Course %s", req.OfferingID),
		Payer:        req.Purchaser,
		Card:         req.Card,
		Installments: req.Installments,
		ExpiresAt:    intent.ExpiresAt,
	})
	u.metrics.ObserveStep("gateway_create", time.Since(started))
	if err != nil {
		gerr := classifyGatewayError(err)
		u.metrics.IncGatewayCall("create", string(gerr.Kind))
		u.log.Error(ctx, "processor create payment failed", err)
		u.release(ctx, key, orderID)
		return entities.PaymentIntent{}, gerr
	}

	intent.ProcessorReference = processed.Reference
	if processed.ExpiresAt != nil {
		intent.ExpiresAt = processed.ExpiresAt
	}
	if err := intent.SetPayload(processed.Payload); err != nil {
		u.metrics.IncGatewayCall("create", "mismatch")
		u.log.Error(ctx, "processor returned payload for another instrument", err)
		return entities.PaymentIntent{}, entities.NewGatewayError(entities.ErrorKindUnreachable, fmt.Errorf("%w: %v", ErrUnexpectedProcessorAnswer, err))
	}

	switch processed.IntentStatus() {
	case entities.IntentStatusConfirmed:
		_ = intent.Confirm(now)
	case entities.IntentStatusFailed:
		_ = intent.Fail(processorFailureReason(processed))
	}
	u.metrics.IncGatewayCall("create", processed.Status)

	if err := u.repo.Create(ctx, intent); err != nil {
		// The reservation is kept: a retry finds it and reports "in progress"
		// instead of charging the purchaser twice.
		u.log.Error(ctx, "persist payment intent failed", err)
		return entities.PaymentIntent{}, entities.NewGatewayError(entities.ErrorKindUnreachable, err)
	}

	ctx = u.log.WithFields(ctx, map[string]any{"processor_reference": intent.ProcessorReference, "status": string(intent.Status)})
	if intent.Status == entities.IntentStatusFailed {
		u.log.Warn(ctx, "payment declined by processor")
		u.release(ctx, key, orderID)
		return intent, entities.NewGatewayError(entities.ErrorKindRejected, fmt.Errorf("%w: %s", ErrPaymentDeclined, intent.FailureReason))
	}
	u.log.Info(ctx, "payment intent created")
	return intent, nil
}

func (u *PaymentIntentUseCase) GetIntent(ctx context.Context, orderID string) (entities.PaymentIntent, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return entities.PaymentIntent{}, entities.NewGatewayError(entities.ErrorKindInvalidRequest, errors.New("invalid order id"))
	}
	intent, err := u.repo.GetByOrderID(ctx, orderID)
	if err != nil {
		return entities.PaymentIntent{}, entities.NewGatewayError(entities.ErrorKindUnreachable, err)
	}
	if intent.OrderID == "" {
		return entities.PaymentIntent{}, entities.NewGatewayError(entities.ErrorKindNotFound, ErrPaymentIntentNotFound)
	}
	return intent, nil
}

func (u *PaymentIntentUseCase) GetIntentByProcessorReference(ctx context.Context, reference string) (entities.PaymentIntent, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return entities.PaymentIntent{}, entities.NewGatewayError(entities.ErrorKindInvalidRequest, errors.New("invalid processor reference"))
	}
	intent, err := u.repo.GetByProcessorReference(ctx, reference)
	if err != nil {
		return entities.PaymentIntent{}, entities.NewGatewayError(entities.ErrorKindUnreachable, err)
	}
	if intent.OrderID == "" {
		return entities.PaymentIntent{}, entities.NewGatewayError(entities.ErrorKindNotFound, ErrPaymentIntentNotFound)
	}
	return intent, nil
}

// RefreshStatus asks the processor for the settlement status of a pending
// intent. A confirmation that arrives after the intent expired is rejected and
// the intent is expired instead.
func (u *PaymentIntentUseCase) RefreshStatus(ctx context.Context, orderID string) (entities.PaymentIntent, error) {
	intent, err := u.GetIntent(ctx, orderID)
	if err != nil {
		return entities.PaymentIntent{}, err
	}
	ctx = u.log.WithFields(ctx, map[string]any{"component": "payment.usecase", "order_id": intent.OrderID})
	if intent.Status.IsTerminal() {
		return intent, nil
	}
	if intent.IsExpiredAt(u.now()) {
		return u.expire(ctx, intent)
	}

	processed, err := u.gateway.GetPayment(ctx, intent.ProcessorReference)
	if err != nil {
		gerr := classifyGatewayError(err)
		u.metrics.IncGatewayCall("get", string(gerr.Kind))
		u.log.Error(ctx, "processor get payment failed", err)
		return intent, gerr
	}
	u.metrics.IncGatewayCall("get", processed.Status)

	switch processed.IntentStatus() {
	case entities.IntentStatusConfirmed:
		if err := intent.Confirm(u.now()); errors.Is(err, entities.ErrIntentExpired) {
			u.log.Warn(ctx, "confirmation arrived after the payment window")
			expired, xerr := u.expire(ctx, intent)
			if xerr != nil {
				return expired, xerr
			}
			return expired, entities.NewGatewayError(entities.ErrorKindRejected, entities.ErrIntentExpired)
		}
	case entities.IntentStatusFailed:
		_ = intent.Fail(processorFailureReason(processed))
	default:
		return intent, nil
	}
	return u.persistTransition(ctx, intent)
}

// Expire ends a pending intent whose window elapsed. Other intents are
// returned unchanged.
func (u *PaymentIntentUseCase) Expire(ctx context.Context, orderID string) (entities.PaymentIntent, error) {
	intent, err := u.GetIntent(ctx, orderID)
	if err != nil {
		return entities.PaymentIntent{}, err
	}
	if intent.Status != entities.IntentStatusPending || !intent.IsExpiredAt(u.now()) {
		return intent, nil
	}
	return u.expire(u.log.WithOrderID(ctx, intent.OrderID), intent)
}

func (u *PaymentIntentUseCase) ListExpired(ctx context.Context, limit int32) ([]entities.PaymentIntent, error) {
	now := u.now()
	pending, err := u.repo.ListExpired(ctx, now, limit)
	if err != nil {
		return nil, entities.NewGatewayError(entities.ErrorKindUnreachable, err)
	}
	expired := make([]entities.PaymentIntent, 0, len(pending))
	for _, intent := range pending {
		if intent.IsExpiredAt(now) {
			expired = append(expired, intent)
		}
	}
	return expired, nil
}

func (u *PaymentIntentUseCase) expire(ctx context.Context, intent entities.PaymentIntent) (entities.PaymentIntent, error) {
	if err := intent.Expire(); err != nil {
		return intent, nil
	}
	return u.persistTransition(ctx, intent)
}

// persistTransition stores a status change made from pending. If another
// delivery already moved the intent, the stored intent wins.
func (u *PaymentIntentUseCase) persistTransition(ctx context.Context, intent entities.PaymentIntent) (entities.PaymentIntent, error) {
	err := u.repo.UpdateStatus(ctx, intent, entities.IntentStatusPending)
	if errors.Is(err, interfaces.ErrConditionFailed) {
		stored, gerr := u.GetIntent(ctx, intent.OrderID)
		if gerr != nil {
			return intent, gerr
		}
		u.log.Info(ctx, "intent already moved by a concurrent delivery")
		return stored, nil
	}
	if err != nil {
		u.log.Error(ctx, "persist intent status failed", err)
		return intent, entities.NewGatewayError(entities.ErrorKindUnreachable, err)
	}
	if intent.Status != entities.IntentStatusConfirmed {
		u.release(ctx, intent.BusinessKey, intent.OrderID)
	}
	u.log.Info(u.log.WithField(ctx, "status", string(intent.Status)), "intent status updated")
	return intent, nil
}

func (u *PaymentIntentUseCase) release(ctx context.Context, key, orderID string) {
	if key == "" {
		return
	}
	if err := u.idem.Release(ctx, intentReservationKey(key), orderID); err != nil {
		u.log.Warn(u.log.WithField(ctx, "error", err.Error()), "release business key failed; it expires with the window")
	}
}

func (u *PaymentIntentUseCase) expiryFor(instrument entities.SettlementInstrument, now time.Time) *time.Time {
	var at time.Time
	switch instrument {
	case entities.InstrumentPix:
		at = now.Add(u.settings.PixExpiration)
	case entities.InstrumentBoleto:
		at = now.AddDate(0, 0, u.settings.BoletoDueDays)
	default:
		return nil
	}
	return &at
}

func intentReservationKey(businessKey string) string {
	return "intent:" + businessKey
}

func processorFailureReason(p entities.ProcessorPayment) string {
	if p.StatusDetail != "" {
		return p.StatusDetail
	}
	return p.Status
}
