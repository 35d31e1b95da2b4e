package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"checkout_service/internal/domain/entities"
	"checkout_service/internal/infrastructure/metrics"
	"checkout_service/internal/usecase/interfaces"
	"checkout_service/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrPurchaseNotFound    = errors.New("purchase not found")
	ErrOfferingUnavailable = errors.New("offering unavailable")
	ErrAmountMismatch      = errors.New("amount does not match offering price and discount")
	ErrInvoiceNotRequired  = errors.New("offering does not require a fiscal invoice")
)

// PurchaseView is what a purchaser may see about their purchase.
type PurchaseView struct {
	Purchase entities.Purchase
	Intent   entities.PaymentIntent
}

// PurchaseDetails is the administrative view of one purchase.
type PurchaseDetails struct {
	Purchase    entities.Purchase
	Intent      entities.PaymentIntent
	LedgerEntry *entities.RecordedEntry
	Enrollment  *entities.Enrollment
	Invoices    []entities.FiscalInvoice
}

// IPurchaseOrchestrator drives a purchase from payment intent to fiscal
// invoice. It is the only component that retries.
type IPurchaseOrchestrator interface {
	SubmitPurchase(ctx context.Context, req entities.PurchaseRequest) (entities.PaymentIntent, error)
	ConfirmPayment(ctx context.Context, orderID string) (entities.Purchase, error)
	ConfirmByProcessorReference(ctx context.Context, reference string) (entities.Purchase, error)
	ResumePurchase(ctx context.Context, orderID string) (entities.Purchase, error)
	IssueInvoice(ctx context.Context, orderID string) error
	PurchaseStatus(ctx context.Context, orderID string) (PurchaseView, error)

	ExpireStaleIntents(ctx context.Context) (int, error)
	RetryPendingInvoices(ctx context.Context) (int, error)
	PollSubmittedInvoices(ctx context.Context) (int, error)
	ResumeStalledPurchases(ctx context.Context, staleAfter time.Duration) (int, error)

	ListLedgerEntries(ctx context.Context, capability AdminCapability, filter entities.LedgerFilter) ([]entities.RecordedEntry, error)
	LedgerStats(ctx context.Context, capability AdminCapability) (entities.LedgerStats, error)
	ListInvoices(ctx context.Context, capability AdminCapability, enrollmentID string) ([]entities.FiscalInvoice, error)
	RetryInvoice(ctx context.Context, capability AdminCapability, invoiceID string) (entities.FiscalInvoice, error)
	ReissueInvoice(ctx context.Context, capability AdminCapability, invoiceID string) (entities.FiscalInvoice, error)
	GetPurchase(ctx context.Context, capability AdminCapability, orderID string) (PurchaseDetails, error)
}

type PurchaseOrchestratorParams struct {
	Intents     IPaymentIntentUseCase
	Ledger      ILedgerUseCase
	Enrollments IEnrollmentUseCase
	Invoices    IFiscalInvoiceUseCase
	Purchases   interfaces.IPurchaseRepository
	Offerings   interfaces.IOfferingRepository
	Coupons     interfaces.ICouponRepository
	Events      interfaces.IEventPublisher
	Dispatcher  InvoiceDispatcher
	Retry       RetryPolicy
	FiscalMode  entities.FiscalMode
	BatchSize   int32
	Logger      *logger.Logger
	Metrics     *metrics.PipelineMetrics
	Now         func() time.Time
}

type PurchaseOrchestrator struct {
	intents     IPaymentIntentUseCase
	ledger      ILedgerUseCase
	enrollments IEnrollmentUseCase
	invoices    IFiscalInvoiceUseCase
	purchases   interfaces.IPurchaseRepository
	offerings   interfaces.IOfferingRepository
	coupons     interfaces.ICouponRepository
	events      interfaces.IEventPublisher
	dispatcher  InvoiceDispatcher
	retry       RetryPolicy
	fiscalMode  entities.FiscalMode
	batchSize   int32
	log         *logger.Logger
	metrics     *metrics.PipelineMetrics
	now         func() time.Time
}

var _ IPurchaseOrchestrator = (*PurchaseOrchestrator)(nil)

func NewPurchaseOrchestrator(p PurchaseOrchestratorParams) (*PurchaseOrchestrator, error) {
	switch {
	case p.Intents == nil:
		return nil, errors.New("payment intent usecase is required")
	case p.Ledger == nil:
		return nil, errors.New("ledger usecase is required")
	case p.Enrollments == nil:
		return nil, errors.New("enrollment usecase is required")
	case p.Invoices == nil:
		return nil, errors.New("fiscal invoice usecase is required")
	case p.Purchases == nil:
		return nil, errors.New("purchase repository is required")
	case p.Offerings == nil:
		return nil, errors.New("offering repository is required")
	}
	if _, err := entities.ParseFiscalMode(string(p.FiscalMode)); err != nil {
		return nil, err
	}
	if p.Logger == nil {
		p.Logger = logger.Nop()
	}
	if p.Now == nil {
		p.Now = func() time.Time { return time.Now().UTC() }
	}
	if p.Retry.MaxAttempts == 0 {
		p.Retry = DefaultRetryPolicy()
	}
	if p.BatchSize <= 0 {
		p.BatchSize = 100
	}
	return &PurchaseOrchestrator{
		intents:     p.Intents,
		ledger:      p.Ledger,
		enrollments: p.Enrollments,
		invoices:    p.Invoices,
		purchases:   p.Purchases,
		offerings:   p.Offerings,
		coupons:     p.Coupons,
		events:      p.Events,
		dispatcher:  p.Dispatcher,
		retry:       p.Retry,
		fiscalMode:  p.FiscalMode,
		batchSize:   p.BatchSize,
		log:         p.Logger,
		metrics:     p.Metrics,
		now:         p.Now,
	}, nil
}

// SubmitPurchase checks the request against the catalog, creates the payment
// intent and records the purchase. Card payments approved on creation are
// carried on through enrollment before returning.
func (o *PurchaseOrchestrator) SubmitPurchase(ctx context.Context, req entities.PurchaseRequest) (entities.PaymentIntent, error) {
	ctx = o.log.WithFields(ctx, map[string]any{"component": "orchestrator", "offering_id": req.OfferingID, "purchaser_id": req.Purchaser.ID})
	if err := req.Validate(); err != nil {
		return entities.PaymentIntent{}, entities.NewPipelineError(entities.ErrorKindInvalidRequest, err)
	}
	offering, quote, err := o.checkPrice(ctx, req)
	if err != nil {
		return entities.PaymentIntent{}, err
	}

	var intent entities.PaymentIntent
	err = o.withRetry(ctx, "create_intent", func(ctx context.Context) error {
		var cerr error
		intent, cerr = o.intents.CreateIntent(ctx, req)
		return cerr
	})
	if err != nil && intent.OrderID == "" {
		return entities.PaymentIntent{}, err
	}
	ctx = o.log.WithOrderID(ctx, intent.OrderID)

	purchase, perr := o.ensurePurchase(ctx, intent, offering.RequiresFiscalInvoice, quote)
	if perr != nil {
		// The intent exists; the purchase record is rebuilt from it on confirmation.
		o.log.Error(ctx, "record purchase failed", perr)
	}
	if err != nil {
		if perr == nil && entities.KindOf(err) == entities.ErrorKindRejected {
			o.transition(ctx, purchase, entities.PurchaseStatePaymentFailed, entities.ErrorKindRejected, err.Error())
		}
		return intent, err
	}

	if intent.Status == entities.IntentStatusConfirmed && perr == nil {
		if _, err := o.settle(ctx, purchase); err != nil && !entities.IsRetryable(err) {
			return intent, err
		}
	}
	return intent, nil
}

// checkPrice verifies the amount against the current price and coupon and
// returns the quote it was checked against.
func (o *PurchaseOrchestrator) checkPrice(ctx context.Context, req entities.PurchaseRequest) (entities.Offering, entities.PriceQuote, error) {
	var none entities.PriceQuote
	offering, err := o.loadOffering(ctx, req.OfferingID)
	if err != nil {
		return entities.Offering{}, none, err
	}
	if !offering.Active {
		return entities.Offering{}, none, entities.NewPipelineError(entities.ErrorKindInvalidRequest, ErrOfferingUnavailable)
	}

	discount := decimal.Zero
	if req.CouponID != "" {
		coupon, err := o.loadCoupon(ctx, req.CouponID)
		if err != nil {
			return entities.Offering{}, none, err
		}
		if coupon == nil {
			return entities.Offering{}, none, entities.NewPipelineError(entities.ErrorKindInvalidRequest, entities.ErrCouponUnavailable)
		}
		discount, err = coupon.DiscountFor(offering.Price, o.now())
		if err != nil {
			return entities.Offering{}, none, entities.NewPipelineError(entities.ErrorKindInvalidRequest, err)
		}
	}

	expected := offering.Price.Sub(discount)
	if !req.Amount.Equal(expected) {
		return entities.Offering{}, none, entities.NewPipelineError(entities.ErrorKindInvalidRequest,
			fmt.Errorf("%w: expected %s, got %s", ErrAmountMismatch, expected.StringFixed(2), req.Amount.StringFixed(2)))
	}
	return offering, entities.PriceQuote{ListPrice: offering.Price, Discount: discount}, nil
}

// ensurePurchase creates the purchase record of an intent, or returns the one
// a previous submission already stored. A zero quote leaves provisioning to
// price against the catalog.
func (o *PurchaseOrchestrator) ensurePurchase(ctx context.Context, intent entities.PaymentIntent, requiresInvoice bool, quote entities.PriceQuote) (entities.Purchase, error) {
	existing, err := o.findPurchase(ctx, intent.OrderID)
	if err != nil || existing.OrderID != "" {
		return existing, err
	}

	now := o.now()
	p := entities.Purchase{
		OrderID:         intent.OrderID,
		IdempotencyKey:  intent.BusinessKey,
		Purchaser:       intent.Purchaser,
		OfferingID:      intent.OfferingID,
		CouponID:        intent.CouponID,
		CreatedBy:       intent.CreatedBy,
		Instrument:      intent.Instrument,
		Amount:          intent.Amount,
		Quote:           quote,
		State:           entities.PurchaseStateInitiated,
		RequiresInvoice: requiresInvoice,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	_ = p.Transition(entities.PurchaseStateIntentCreated, now)

	err = o.purchases.Create(ctx, p)
	if errors.Is(err, interfaces.ErrConditionFailed) {
		return o.getPurchase(ctx, p.OrderID)
	}
	if err != nil {
		return entities.Purchase{}, entities.NewPipelineError(entities.ErrorKindStorageUnavailable, err)
	}
	o.metrics.IncTransition(string(p.State))
	o.publish(ctx, p)
	o.log.Info(ctx, "purchase recorded")
	return p, nil
}

// ConfirmPayment handles a settlement notification for an order. Repeated
// deliveries converge on the same records.
func (o *PurchaseOrchestrator) ConfirmPayment(ctx context.Context, orderID string) (entities.Purchase, error) {
	ctx = o.log.WithFields(ctx, map[string]any{"component": "orchestrator", "order_id": orderID})
	p, err := o.loadOrRebuild(ctx, orderID)
	if err != nil {
		return entities.Purchase{}, err
	}
	if p.State == entities.PurchaseStatePaymentExpired {
		return p, entities.NewGatewayError(entities.ErrorKindRejected, entities.ErrIntentExpired)
	}
	return o.settle(ctx, p)
}

func (o *PurchaseOrchestrator) ConfirmByProcessorReference(ctx context.Context, reference string) (entities.Purchase, error) {
	intent, err := o.intents.GetIntentByProcessorReference(ctx, reference)
	if err != nil {
		return entities.Purchase{}, err
	}
	return o.ConfirmPayment(ctx, intent.OrderID)
}

// ResumePurchase continues a purchase from its stored state. Every step looks
// for its own stored result before calling out.
func (o *PurchaseOrchestrator) ResumePurchase(ctx context.Context, orderID string) (entities.Purchase, error) {
	ctx = o.log.WithFields(ctx, map[string]any{"component": "orchestrator", "order_id": orderID})
	p, err := o.loadOrRebuild(ctx, orderID)
	if err != nil {
		return entities.Purchase{}, err
	}
	o.log.Info(o.log.WithField(ctx, "state", string(p.State)), "resuming purchase")
	return o.settle(ctx, p)
}

// settle walks the purchase forward until it completes or a step cannot proceed.
func (o *PurchaseOrchestrator) settle(ctx context.Context, p entities.Purchase) (entities.Purchase, error) {
	for {
		var err error
		switch p.State {
		case entities.PurchaseStateInitiated, entities.PurchaseStateIntentCreated:
			before := p.State
			p, err = o.awaitPayment(ctx, p)
			if err != nil || p.State == before {
				return p, err
			}
		case entities.PurchaseStatePaymentConfirmed:
			p, err = o.recordAndEnroll(ctx, p)
			if err != nil {
				return p, err
			}
		case entities.PurchaseStateEnrolled:
			if p.RequiresInvoice {
				o.dispatchInvoice(ctx, p.OrderID)
			}
			return p, nil
		default:
			return p, nil
		}
	}
}

func (o *PurchaseOrchestrator) awaitPayment(ctx context.Context, p entities.Purchase) (entities.Purchase, error) {
	var intent entities.PaymentIntent
	err := o.withRetry(ctx, "refresh_intent", func(ctx context.Context) error {
		var rerr error
		intent, rerr = o.intents.RefreshStatus(ctx, p.OrderID)
		return rerr
	})
	if err != nil && intent.OrderID == "" {
		return p, err
	}

	if p.State == entities.PurchaseStateInitiated {
		if p, err = o.transition(ctx, p, entities.PurchaseStateIntentCreated, "", ""); err != nil {
			return p, err
		}
	}
	switch intent.Status {
	case entities.IntentStatusConfirmed:
		return o.transition(ctx, p, entities.PurchaseStatePaymentConfirmed, "", "")
	case entities.IntentStatusExpired:
		p, terr := o.transition(ctx, p, entities.PurchaseStatePaymentExpired, entities.ErrorKindRejected, entities.ErrIntentExpired.Error())
		if terr != nil {
			return p, terr
		}
		return p, entities.NewGatewayError(entities.ErrorKindRejected, entities.ErrIntentExpired)
	case entities.IntentStatusFailed:
		p, terr := o.transition(ctx, p, entities.PurchaseStatePaymentFailed, entities.ErrorKindRejected, intent.FailureReason)
		if terr != nil {
			return p, terr
		}
		return p, entities.NewGatewayError(entities.ErrorKindRejected, fmt.Errorf("%w: %s", ErrPaymentDeclined, intent.FailureReason))
	}
	return p, err
}

// recordAndEnroll books the income and provisions the enrollment, in that order.
func (o *PurchaseOrchestrator) recordAndEnroll(ctx context.Context, p entities.Purchase) (entities.Purchase, error) {
	intent, err := o.intents.GetIntent(ctx, p.OrderID)
	if err != nil {
		return p, err
	}
	enrollmentID := entities.EnrollmentIDForIntent(p.OrderID)
	ctx = o.log.WithField(ctx, "enrollment_id", enrollmentID)

	offering, err := o.loadOffering(ctx, p.OfferingID)
	if err != nil {
		return p, err
	}

	entry, err := o.recordIncome(ctx, intent, offering, enrollmentID)
	if err != nil {
		return p, err
	}
	p.LedgerEntryID = entry.ID

	var coupon *entities.Coupon
	if p.CouponID != "" && p.Quote.IsZero() {
		if coupon, err = o.loadCoupon(ctx, p.CouponID); err != nil {
			return p, err
		}
	}

	var enrollment entities.Enrollment
	err = o.withRetry(ctx, "provision", func(ctx context.Context) error {
		var perr error
		enrollment, perr = o.enrollments.Provision(ctx, ProvisionInput{Intent: intent, Offering: offering, Coupon: coupon, Quote: p.Quote})
		return perr
	})
	if err != nil {
		if entities.IsRetryable(err) {
			o.log.Warn(o.log.WithField(ctx, "error", err.Error()), "provisioning unavailable; purchase stays confirmed")
			return p, err
		}
		o.log.Error(ctx, "provisioning refused", err)
		failed, terr := o.transition(ctx, p, entities.PurchaseStateProvisioningFailed, entities.KindOf(err), err.Error())
		if terr != nil {
			return failed, terr
		}
		return failed, err
	}
	p.EnrollmentID = enrollment.ID
	return o.transition(ctx, p, entities.PurchaseStateEnrolled, "", "")
}

func (o *PurchaseOrchestrator) recordIncome(ctx context.Context, intent entities.PaymentIntent, offering entities.Offering, enrollmentID string) (entities.RecordedEntry, error) {
	var recorded entities.RecordedEntry
	err := o.withRetry(ctx, "ledger", func(ctx context.Context) error {
		found, ok, ferr := o.ledger.FindByReference(ctx, entities.LedgerReferenceEnrollment, enrollmentID, entities.LedgerEntryIncome)
		if ferr != nil {
			return ferr
		}
		if ok {
			recorded = found
			return nil
		}

		settledAt := o.now()
		if intent.ConfirmedAt != nil {
			settledAt = *intent.ConfirmedAt
		}
		entry, rerr := o.ledger.Record(ctx, entities.LedgerEntry{
			Description:     fmt.Sprintf("Enrollment payment: %s", offering.Title),
			Type:            entities.LedgerEntryIncome,
			Amount:          intent.Amount,
			TransactionDate: settledAt,
			ReferenceID:     enrollmentID,
			ReferenceType:   entities.LedgerReferenceEnrollment,
			Notes:           fmt.Sprintf("order %s via %s (%s)", intent.OrderID, intent.Instrument, intent.ProcessorReference),
		})
		if entities.KindOf(rerr) == entities.ErrorKindDuplicate {
			// A concurrent delivery booked it first.
			found, ok, ferr = o.ledger.FindByReference(ctx, entities.LedgerReferenceEnrollment, enrollmentID, entities.LedgerEntryIncome)
			if ferr != nil {
				return ferr
			}
			if !ok {
				return entities.NewLedgerError(entities.ErrorKindStorageUnavailable, rerr)
			}
			recorded = found
			return nil
		}
		recorded = entry
		return rerr
	})
	return recorded, err
}

func (o *PurchaseOrchestrator) dispatchInvoice(ctx context.Context, orderID string) {
	if o.dispatcher != nil && o.dispatcher.Dispatch(orderID) {
		return
	}
	o.log.Warn(ctx, "invoice dispatch queue unavailable; left to scheduled retry")
}

// IssueInvoice issues the fiscal invoice of an enrolled purchase in the
// configured mode, retrying timeouts and network failures.
func (o *PurchaseOrchestrator) IssueInvoice(ctx context.Context, orderID string) error {
	ctx = o.log.WithFields(ctx, map[string]any{"component": "orchestrator", "order_id": orderID})
	p, err := o.getPurchase(ctx, orderID)
	if err != nil {
		return err
	}
	if p.State != entities.PurchaseStateEnrolled {
		return nil
	}
	if !p.RequiresInvoice {
		return entities.NewPipelineError(entities.ErrorKindPreconditionFailed, ErrInvoiceNotRequired)
	}

	in, err := o.fiscalInput(ctx, p)
	if err != nil {
		return err
	}
	started := time.Now()
	var inv entities.FiscalInvoice
	err = o.withRetry(ctx, "fiscal_issue", func(ctx context.Context) error {
		var ierr error
		inv, ierr = o.invoices.Issue(ctx, in, o.fiscalMode)
		return ierr
	})
	o.metrics.ObserveStep("fiscal_issue", time.Since(started))
	if err != nil {
		o.log.Warn(o.log.WithField(ctx, "error", err.Error()), "invoice not issued")
		if entities.KindOf(err) == entities.ErrorKindRejected && inv.ID != "" {
			o.noteRejectedInvoice(ctx, p, inv)
		}
		return err
	}
	if inv.Status == entities.FiscalStatusPending || inv.Status == entities.FiscalStatusRejected {
		return nil
	}
	p.InvoiceID = inv.ID
	_, err = o.transition(ctx, p, entities.PurchaseStateInvoiceIssued, "", "")
	return err
}

// noteRejectedInvoice points the purchase at its rejected invoice and moves it
// behind the other enrolled purchases in scheduled listings.
func (o *PurchaseOrchestrator) noteRejectedInvoice(ctx context.Context, p entities.Purchase, inv entities.FiscalInvoice) {
	p.InvoiceID = inv.ID
	p.UpdatedAt = o.now()
	if err := o.purchases.Update(ctx, p, entities.PurchaseStateEnrolled); err != nil {
		o.log.Warn(o.log.WithField(ctx, "error", err.Error()), "could not record rejected invoice on purchase")
	}
}

func (o *PurchaseOrchestrator) fiscalInput(ctx context.Context, p entities.Purchase) (FiscalIssueInput, error) {
	enrollment, err := o.enrollments.GetByIntent(ctx, p.OrderID)
	if err != nil {
		return FiscalIssueInput{}, err
	}
	offering, err := o.loadOffering(ctx, p.OfferingID)
	if err != nil {
		return FiscalIssueInput{}, err
	}
	return FiscalIssueInput{Enrollment: enrollment, Offering: offering, Purchaser: p.Purchaser}, nil
}

// PurchaseStatus returns the purchase and its payment instructions.
func (o *PurchaseOrchestrator) PurchaseStatus(ctx context.Context, orderID string) (PurchaseView, error) {
	intent, err := o.intents.GetIntent(ctx, orderID)
	if err != nil {
		return PurchaseView{}, err
	}
	p, err := o.findPurchase(ctx, orderID)
	if err != nil {
		return PurchaseView{}, err
	}
	if p.OrderID == "" {
		p = entities.Purchase{OrderID: intent.OrderID, State: entities.PurchaseStateInitiated, Amount: intent.Amount, Instrument: intent.Instrument}
	}
	return PurchaseView{Purchase: p, Intent: intent}, nil
}

func (o *PurchaseOrchestrator) withRetry(ctx context.Context, step string, op func(ctx context.Context) error) error {
	return o.retry.Do(ctx, op, func(attempt uint64, err error) {
		o.metrics.IncRetry(step)
		o.log.Warn(o.log.WithFields(ctx, map[string]any{"step": step, "attempt": attempt, "error": err.Error()}), "transient failure; retrying")
	})
}

// transition persists a state change conditioned on the previous state. When
// another worker moved the purchase first, its stored version is returned.
func (o *PurchaseOrchestrator) transition(ctx context.Context, p entities.Purchase, next entities.PurchaseState, kind entities.ErrorKind, reason string) (entities.Purchase, error) {
	prev := p.State
	now := o.now()
	var err error
	if next.IsFailure() {
		err = p.Fail(next, kind, reason, now)
	} else {
		err = p.Transition(next, now)
	}
	if err != nil {
		return p, entities.NewPipelineError(entities.ErrorKindPreconditionFailed, err)
	}

	err = o.purchases.Update(ctx, p, prev)
	if errors.Is(err, interfaces.ErrConditionFailed) {
		o.log.Info(ctx, "purchase moved concurrently; continuing from stored state")
		return o.getPurchase(ctx, p.OrderID)
	}
	if err != nil {
		o.log.Error(ctx, "update purchase failed", err)
		return p, entities.NewPipelineError(entities.ErrorKindStorageUnavailable, err)
	}
	o.metrics.IncTransition(string(next))
	o.publish(ctx, p)
	o.log.Info(o.log.WithFields(ctx, map[string]any{"from": string(prev), "to": string(next)}), "purchase state changed")
	return p, nil
}

func (o *PurchaseOrchestrator) publish(ctx context.Context, p entities.Purchase) {
	if o.events == nil {
		return
	}
	event := entities.PurchaseEvent{
		EventID:       uuid.NewString(),
		OrderID:       p.OrderID,
		State:         p.State,
		PurchaserID:   p.Purchaser.ID,
		OfferingID:    p.OfferingID,
		Amount:        p.Amount,
		EnrollmentID:  p.EnrollmentID,
		InvoiceID:     p.InvoiceID,
		FailureKind:   p.FailureKind,
		FailureReason: p.FailureReason,
		OccurredAt:    p.UpdatedAt,
	}
	if err := o.events.PublishPurchaseEvent(ctx, event); err != nil {
		o.log.Warn(o.log.WithField(ctx, "error", err.Error()), "publish purchase event failed")
	}
}

func (o *PurchaseOrchestrator) findPurchase(ctx context.Context, orderID string) (entities.Purchase, error) {
	p, err := o.purchases.GetByOrderID(ctx, orderID)
	if err != nil {
		return entities.Purchase{}, entities.NewPipelineError(entities.ErrorKindStorageUnavailable, err)
	}
	return p, nil
}

func (o *PurchaseOrchestrator) getPurchase(ctx context.Context, orderID string) (entities.Purchase, error) {
	p, err := o.findPurchase(ctx, orderID)
	if err != nil {
		return entities.Purchase{}, err
	}
	if p.OrderID == "" {
		return entities.Purchase{}, entities.NewPipelineError(entities.ErrorKindNotFound, ErrPurchaseNotFound)
	}
	return p, nil
}

// loadOrRebuild returns the stored purchase, recreating it from the intent
// when the process stopped between intent creation and purchase recording.
func (o *PurchaseOrchestrator) loadOrRebuild(ctx context.Context, orderID string) (entities.Purchase, error) {
	p, err := o.findPurchase(ctx, orderID)
	if err != nil || p.OrderID != "" {
		return p, err
	}
	intent, err := o.intents.GetIntent(ctx, orderID)
	if err != nil {
		return entities.Purchase{}, err
	}
	offering, err := o.loadOffering(ctx, intent.OfferingID)
	if err != nil {
		return entities.Purchase{}, err
	}
	o.log.Warn(ctx, "purchase record missing; rebuilding from intent")
	return o.ensurePurchase(ctx, intent, offering.RequiresFiscalInvoice, entities.PriceQuote{})
}

func (o *PurchaseOrchestrator) loadOffering(ctx context.Context, id string) (entities.Offering, error) {
	offering, err := o.offerings.GetByID(ctx, id)
	if err != nil {
		return entities.Offering{}, entities.NewPipelineError(entities.ErrorKindStorageUnavailable, err)
	}
	if offering.ID == "" {
		return entities.Offering{}, entities.NewPipelineError(entities.ErrorKindInvalidRequest, ErrOfferingUnavailable)
	}
	return offering, nil
}

// loadCoupon returns nil when the coupon does not exist.
func (o *PurchaseOrchestrator) loadCoupon(ctx context.Context, id string) (*entities.Coupon, error) {
	if o.coupons == nil {
		return nil, nil
	}
	coupon, err := o.coupons.GetByID(ctx, id)
	if err != nil {
		return nil, entities.NewPipelineError(entities.ErrorKindStorageUnavailable, err)
	}
	if coupon.ID == "" {
		return nil, nil
	}
	return &coupon, nil
}
