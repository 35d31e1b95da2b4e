package usecase

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"checkout_service/internal/domain/entities"
	"checkout_service/internal/infrastructure/metrics"
	"checkout_service/internal/usecase/interfaces"
	"checkout_service/pkg/logger"
)

var (
	ErrFiscalInvoiceNotFound = errors.New("fiscal invoice not found")
	ErrInvoiceNotPending     = errors.New("invoice is not pending")
	ErrInvoiceNotRejected    = errors.New("only rejected invoices can be reissued")
	ErrLiveInvoiceExists     = errors.New("enrollment already has a live invoice")
	ErrInvoiceRejected       = errors.New("invoice rejected by tax authority")
	ErrConcurrentInvoiceEdit = errors.New("invoice changed concurrently")
)

type FiscalIssueInput struct {
	Enrollment entities.Enrollment
	Offering   entities.Offering
	Purchaser  entities.Purchaser
}

type FiscalSettings struct {
	// RequestTimeout bounds every authority call; exceeding it never rejects.
	RequestTimeout time.Duration
	// SubmissionWindow is how long a submitted invoice may wait for a verdict
	// before it goes back to pending.
	SubmissionWindow time.Duration
}

func DefaultFiscalSettings() FiscalSettings {
	return FiscalSettings{RequestTimeout: 15 * time.Second, SubmissionWindow: 24 * time.Hour}
}

// IFiscalInvoiceUseCase issues NFS-e documents. Submit and Poll make one
// authority call each; retrying is the caller's decision.
type IFiscalInvoiceUseCase interface {
	Issue(ctx context.Context, in FiscalIssueInput, mode entities.FiscalMode) (entities.FiscalInvoice, error)
	Submit(ctx context.Context, inv entities.FiscalInvoice) (entities.FiscalInvoice, error)
	Poll(ctx context.Context, inv entities.FiscalInvoice) (entities.FiscalInvoice, error)
	Reissue(ctx context.Context, rejectedInvoiceID string, in FiscalIssueInput, mode entities.FiscalMode) (entities.FiscalInvoice, error)
	Get(ctx context.Context, id string) (entities.FiscalInvoice, error)
	ListByEnrollment(ctx context.Context, enrollmentID string) ([]entities.FiscalInvoice, error)
	ListByStatus(ctx context.Context, status entities.FiscalStatus, limit int32) ([]entities.FiscalInvoice, error)
}

type FiscalInvoiceUseCase struct {
	repo        interfaces.IFiscalInvoiceRepository
	authorities *TaxAuthorityRegistry
	settings    FiscalSettings
	log         *logger.Logger
	metrics     *metrics.PipelineMetrics
	now         func() time.Time
}

var _ IFiscalInvoiceUseCase = (*FiscalInvoiceUseCase)(nil)

func NewFiscalInvoiceUseCase(
	repo interfaces.IFiscalInvoiceRepository,
	authorities *TaxAuthorityRegistry,
	settings FiscalSettings,
	log *logger.Logger,
	m *metrics.PipelineMetrics,
) *FiscalInvoiceUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &FiscalInvoiceUseCase{
		repo:        repo,
		authorities: authorities,
		settings:    settings,
		log:         log,
		metrics:     m,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (u *FiscalInvoiceUseCase) WithClock(now func() time.Time) *FiscalInvoiceUseCase {
	u.now = now
	return u
}

// Issue creates the first invoice of an enrollment and attempts submission.
// Once an invoice exists the latest one is continued instead: a pending one is
// resubmitted and a rejected one stays rejected until it is reissued.
func (u *FiscalInvoiceUseCase) Issue(ctx context.Context, in FiscalIssueInput, mode entities.FiscalMode) (entities.FiscalInvoice, error) {
	ctx = u.log.WithFields(ctx, map[string]any{"component": "fiscal.usecase", "enrollment_id": in.Enrollment.ID, "mode": string(mode)})
	existing, err := u.ListByEnrollment(ctx, in.Enrollment.ID)
	if err != nil {
		return entities.FiscalInvoice{}, err
	}
	if latest, ok := latestInvoice(existing); ok {
		switch latest.Status {
		case entities.FiscalStatusPending:
			return u.Submit(ctx, latest)
		case entities.FiscalStatusRejected:
			return latest, entities.NewFiscalError(entities.ErrorKindRejected, fmt.Errorf("%w: %s", ErrInvoiceRejected, latest.RejectionReason))
		}
		return latest, nil
	}

	inv, err := u.create(ctx, u.newInvoice(in, mode, len(existing)+1, ""))
	if err != nil || inv.Status != entities.FiscalStatusPending {
		return inv, err
	}
	return u.Submit(ctx, inv)
}

// Reissue issues a new invoice for the enrollment of a rejected one.
func (u *FiscalInvoiceUseCase) Reissue(ctx context.Context, rejectedInvoiceID string, in FiscalIssueInput, mode entities.FiscalMode) (entities.FiscalInvoice, error) {
	original, err := u.Get(ctx, rejectedInvoiceID)
	if err != nil {
		return entities.FiscalInvoice{}, err
	}
	if original.Status != entities.FiscalStatusRejected {
		return entities.FiscalInvoice{}, entities.NewFiscalError(entities.ErrorKindPreconditionFailed, ErrInvoiceNotRejected)
	}
	ctx = u.log.WithFields(ctx, map[string]any{"component": "fiscal.usecase", "enrollment_id": original.EnrollmentID, "reissue_of": original.ID})

	existing, err := u.ListByEnrollment(ctx, original.EnrollmentID)
	if err != nil {
		return entities.FiscalInvoice{}, err
	}
	if live, ok := latestLiveInvoice(existing); ok {
		return live, entities.NewFiscalError(entities.ErrorKindPreconditionFailed, fmt.Errorf("%w: %s", ErrLiveInvoiceExists, live.ID))
	}

	in.Enrollment.ID = original.EnrollmentID
	inv, err := u.create(ctx, u.newInvoice(in, mode, maxSequence(existing)+1, original.ID))
	if err != nil || inv.Status != entities.FiscalStatusPending {
		return inv, err
	}
	u.log.Info(ctx, "invoice reissued")
	return u.Submit(ctx, inv)
}

func (u *FiscalInvoiceUseCase) Submit(ctx context.Context, inv entities.FiscalInvoice) (entities.FiscalInvoice, error) {
	ctx = u.log.WithFields(ctx, map[string]any{"component": "fiscal.usecase", "invoice_id": inv.ID, "mode": string(inv.Mode)})
	if inv.Status != entities.FiscalStatusPending {
		return inv, entities.NewFiscalError(entities.ErrorKindPreconditionFailed, fmt.Errorf("%w: %s", ErrInvoiceNotPending, inv.Status))
	}
	authority, err := u.authorities.For(inv.Mode)
	if err != nil {
		return inv, entities.NewFiscalError(entities.ErrorKindPreconditionFailed, err)
	}

	if verr := inv.ValidateForMode(); verr != nil {
		u.log.Warn(ctx, "invoice misses fields required by its mode; rejecting locally")
		_ = inv.MarkRejected("validation: "+verr.Error(), u.now())
		if err := u.save(ctx, inv, entities.FiscalStatusPending); err != nil {
			return inv, err
		}
		return inv, entities.NewFiscalError(entities.ErrorKindInvalidRequest, verr)
	}

	callCtx, cancel := u.callContext(ctx)
	started := time.Now()
	resp, callErr := authority.Submit(callCtx, inv)
	cancel()
	u.metrics.ObserveStep("fiscal_submit", time.Since(started))
	now := u.now()

	if callErr != nil {
		ferr := classifyFiscalError(callErr)
		u.metrics.IncFiscalCall(string(inv.Mode), "submit", string(ferr.Kind))
		u.log.Warn(u.log.WithField(ctx, "error", callErr.Error()), "invoice submission failed; invoice stays pending")
		_ = inv.RecordFailedAttempt(callErr.Error(), now)
		if err := u.save(ctx, inv, entities.FiscalStatusPending); err != nil {
			return inv, err
		}
		return inv, ferr
	}
	u.metrics.IncFiscalCall(string(inv.Mode), "submit", string(resp.Verdict))

	switch resp.Verdict {
	case entities.VerdictRejected:
		_ = inv.MarkRejected(resp.RejectionReason, now)
		if err := u.save(ctx, inv, entities.FiscalStatusPending); err != nil {
			return inv, err
		}
		u.log.Warn(u.log.WithField(ctx, "reason", resp.RejectionReason), "invoice rejected by authority")
		return inv, entities.NewFiscalError(entities.ErrorKindRejected, fmt.Errorf("%w: %s", ErrInvoiceRejected, resp.RejectionReason))
	case entities.VerdictAuthorized:
		if err := inv.MarkSubmitted(resp.Reference, now); err == nil {
			_ = inv.MarkAuthorized(resp.AuthorizationCode, now)
		}
	default:
		_ = inv.MarkSubmitted(resp.Reference, now)
	}

	if inv.Status == entities.FiscalStatusPending {
		// Accepted without a reference: nothing to poll, treat as a failed attempt.
		_ = inv.RecordFailedAttempt(entities.ErrMissingExternalRef.Error(), now)
		if err := u.save(ctx, inv, entities.FiscalStatusPending); err != nil {
			return inv, err
		}
		return inv, entities.NewFiscalError(entities.ErrorKindUnreachable, entities.ErrMissingExternalRef)
	}
	if err := u.save(ctx, inv, entities.FiscalStatusPending); err != nil {
		return inv, err
	}
	u.log.Info(u.log.WithFields(ctx, map[string]any{"external_reference": inv.ExternalReference, "status": string(inv.Status)}), "invoice submitted")
	return inv, nil
}

// Poll asks the authority for the verdict of a submitted invoice. Invoices in
// any other status are returned unchanged.
func (u *FiscalInvoiceUseCase) Poll(ctx context.Context, inv entities.FiscalInvoice) (entities.FiscalInvoice, error) {
	if inv.Status != entities.FiscalStatusSubmitted {
		return inv, nil
	}
	ctx = u.log.WithFields(ctx, map[string]any{"component": "fiscal.usecase", "invoice_id": inv.ID, "mode": string(inv.Mode)})
	authority, err := u.authorities.For(inv.Mode)
	if err != nil {
		return inv, entities.NewFiscalError(entities.ErrorKindPreconditionFailed, err)
	}

	callCtx, cancel := u.callContext(ctx)
	resp, callErr := authority.Status(callCtx, inv)
	cancel()
	now := u.now()

	var result error
	if callErr != nil {
		ferr := classifyFiscalError(callErr)
		u.metrics.IncFiscalCall(string(inv.Mode), "status", string(ferr.Kind))
		inv.RecordCheck(callErr.Error(), now)
		result = ferr
	} else {
		u.metrics.IncFiscalCall(string(inv.Mode), "status", string(resp.Verdict))
		switch resp.Verdict {
		case entities.VerdictAuthorized:
			_ = inv.MarkAuthorized(resp.AuthorizationCode, now)
		case entities.VerdictRejected:
			_ = inv.MarkRejected(resp.RejectionReason, now)
		default:
			inv.RecordCheck("", now)
		}
	}

	if inv.SubmissionExpired(now, u.settings.SubmissionWindow) {
		u.log.Warn(ctx, "no verdict within the submission window; invoice back to pending")
		_ = inv.RevertToPending("no verdict within submission window", now)
	}
	if err := u.save(ctx, inv, entities.FiscalStatusSubmitted); err != nil {
		return inv, err
	}
	if inv.Status.IsTerminal() {
		u.log.Info(u.log.WithField(ctx, "status", string(inv.Status)), "invoice verdict recorded")
	}
	return inv, result
}

func (u *FiscalInvoiceUseCase) Get(ctx context.Context, id string) (entities.FiscalInvoice, error) {
	inv, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.FiscalInvoice{}, entities.NewFiscalError(entities.ErrorKindStorageUnavailable, err)
	}
	if inv.ID == "" {
		return entities.FiscalInvoice{}, entities.NewFiscalError(entities.ErrorKindNotFound, ErrFiscalInvoiceNotFound)
	}
	return inv, nil
}

func (u *FiscalInvoiceUseCase) ListByEnrollment(ctx context.Context, enrollmentID string) ([]entities.FiscalInvoice, error) {
	invoices, err := u.repo.ListByEnrollmentID(ctx, enrollmentID)
	if err != nil {
		return nil, entities.NewFiscalError(entities.ErrorKindStorageUnavailable, err)
	}
	return invoices, nil
}

func (u *FiscalInvoiceUseCase) ListByStatus(ctx context.Context, status entities.FiscalStatus, limit int32) ([]entities.FiscalInvoice, error) {
	invoices, err := u.repo.ListByStatus(ctx, status, limit)
	if err != nil {
		return nil, entities.NewFiscalError(entities.ErrorKindStorageUnavailable, err)
	}
	return invoices, nil
}

func (u *FiscalInvoiceUseCase) newInvoice(in FiscalIssueInput, mode entities.FiscalMode, sequence int, reissueOf string) entities.FiscalInvoice {
	now := u.now()
	return entities.FiscalInvoice{
		ID:                 entities.FiscalInvoiceID(in.Enrollment.ID, sequence),
		EnrollmentID:       in.Enrollment.ID,
		OrderID:            in.Enrollment.IntentID,
		Sequence:           sequence,
		ReissueOf:          reissueOf,
		Mode:               mode,
		Status:             entities.FiscalStatusPending,
		PurchaserTaxID:     in.Purchaser.TaxID,
		PurchaserName:      in.Purchaser.Name,
		PurchaserEmail:     in.Purchaser.Email,
		ServiceDescription: fmt.Sprintf("Curso: %s", in.Offering.Title),
		Amount:             in.Enrollment.PaymentAmount,
		ServiceCode:        in.Offering.ServiceCode,
		MunicipalityCode:   in.Offering.MunicipalityCode,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// create inserts inv; if a concurrent caller created the same sequence first,
// the stored invoice is returned.
func (u *FiscalInvoiceUseCase) create(ctx context.Context, inv entities.FiscalInvoice) (entities.FiscalInvoice, error) {
	err := u.repo.Create(ctx, inv)
	if errors.Is(err, interfaces.ErrConditionFailed) {
		return u.Get(ctx, inv.ID)
	}
	if err != nil {
		u.log.Error(ctx, "create invoice failed", err)
		return entities.FiscalInvoice{}, entities.NewFiscalError(entities.ErrorKindStorageUnavailable, err)
	}
	u.log.Info(u.log.WithField(ctx, "invoice_id", inv.ID), "invoice created")
	return inv, nil
}

func (u *FiscalInvoiceUseCase) save(ctx context.Context, inv entities.FiscalInvoice, expected entities.FiscalStatus) error {
	err := u.repo.Update(ctx, inv, expected)
	if errors.Is(err, interfaces.ErrConditionFailed) {
		u.log.Warn(ctx, "invoice changed concurrently; update dropped")
		return entities.NewFiscalError(entities.ErrorKindPreconditionFailed, ErrConcurrentInvoiceEdit)
	}
	if err != nil {
		u.log.Error(ctx, "update invoice failed", err)
		return entities.NewFiscalError(entities.ErrorKindStorageUnavailable, err)
	}
	return nil
}

func (u *FiscalInvoiceUseCase) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if u.settings.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, u.settings.RequestTimeout)
}

func classifyFiscalError(err error) *entities.FiscalError {
	var ferr *entities.FiscalError
	if errors.As(err, &ferr) {
		return ferr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return entities.NewFiscalError(entities.ErrorKindTimeout, err)
	}
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return entities.NewFiscalError(entities.ErrorKindTimeout, err)
	}
	return entities.NewFiscalError(entities.ErrorKindUnreachable, err)
}

func latestInvoice(invoices []entities.FiscalInvoice) (entities.FiscalInvoice, bool) {
	var latest entities.FiscalInvoice
	for _, inv := range invoices {
		if inv.Sequence > latest.Sequence {
			latest = inv
		}
	}
	return latest, latest.ID != ""
}

func latestLiveInvoice(invoices []entities.FiscalInvoice) (entities.FiscalInvoice, bool) {
	var live entities.FiscalInvoice
	found := false
	for _, inv := range invoices {
		if inv.Status == entities.FiscalStatusRejected {
			continue
		}
		if !found || inv.Sequence > live.Sequence {
			live = inv
			found = true
		}
	}
	return live, found
}

func maxSequence(invoices []entities.FiscalInvoice) int {
	max := 0
	for _, inv := range invoices {
		if inv.Sequence > max {
			max = inv.Sequence
		}
	}
	if max < len(invoices) {
		max = len(invoices)
	}
	return max
}
