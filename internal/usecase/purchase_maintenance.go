package usecase

import (
	"context"
	"fmt"
	"time"

	"checkout_service/internal/domain/entities"

	"go.uber.org/multierr"
)

// ExpireStaleIntents ends purchases whose payment window closed without a
// confirmation. It returns how many purchases were expired.
func (o *PurchaseOrchestrator) ExpireStaleIntents(ctx context.Context) (int, error) {
	ctx = o.log.WithComponent(ctx, "orchestrator.expire")
	expired, err := o.intents.ListExpired(ctx, o.batchSize)
	if err != nil {
		return 0, err
	}
	var (
		count int
		errs  error
	)
	for _, intent := range expired {
		p, err := o.ConfirmPayment(ctx, intent.OrderID)
		if p.State == entities.PurchaseStatePaymentExpired {
			count++
			continue
		}
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("order %s: %w", intent.OrderID, err))
		}
	}
	return count, errs
}

// RetryPendingInvoices issues invoices for enrolled purchases the dispatcher
// never ran, then resubmits pending invoices. Purchases whose latest invoice
// was rejected wait for a manual reissue. It returns how many invoices left
// pending.
func (o *PurchaseOrchestrator) RetryPendingInvoices(ctx context.Context) (int, error) {
	ctx = o.log.WithComponent(ctx, "orchestrator.invoices")
	var (
		count int
		errs  error
	)

	enrolled, err := o.purchases.ListByState(ctx, entities.PurchaseStateEnrolled, o.now(), o.batchSize)
	if err != nil {
		return 0, entities.NewPipelineError(entities.ErrorKindStorageUnavailable, err)
	}
	for _, p := range enrolled {
		if !p.RequiresInvoice {
			continue
		}
		err := o.IssueInvoice(ctx, p.OrderID)
		switch {
		case err == nil:
			count++
		case entities.KindOf(err) == entities.ErrorKindRejected:
		default:
			errs = multierr.Append(errs, fmt.Errorf("order %s: %w", p.OrderID, err))
		}
	}

	pending, err := o.invoices.ListByStatus(ctx, entities.FiscalStatusPending, o.batchSize)
	if err != nil {
		return count, multierr.Append(errs, err)
	}
	for _, inv := range pending {
		inv, err := o.invoices.Submit(ctx, inv)
		if err != nil {
			if k := entities.KindOf(err); k != entities.ErrorKindPreconditionFailed && k != entities.ErrorKindRejected {
				errs = multierr.Append(errs, fmt.Errorf("invoice %s: %w", inv.ID, err))
			}
			continue
		}
		if inv.Status != entities.FiscalStatusPending {
			count++
			if lerr := o.linkInvoice(ctx, inv); lerr != nil {
				errs = multierr.Append(errs, fmt.Errorf("invoice %s: %w", inv.ID, lerr))
			}
		}
	}
	return count, errs
}

// PollSubmittedInvoices asks the authority for pending verdicts. It returns
// how many invoices reached a verdict.
func (o *PurchaseOrchestrator) PollSubmittedInvoices(ctx context.Context) (int, error) {
	ctx = o.log.WithComponent(ctx, "orchestrator.poll")
	submitted, err := o.invoices.ListByStatus(ctx, entities.FiscalStatusSubmitted, o.batchSize)
	if err != nil {
		return 0, err
	}
	var (
		count int
		errs  error
	)
	for _, inv := range submitted {
		polled, err := o.invoices.Poll(ctx, inv)
		if err != nil && !entities.IsRetryable(err) {
			errs = multierr.Append(errs, fmt.Errorf("invoice %s: %w", inv.ID, err))
		}
		if polled.Status.IsTerminal() {
			count++
			if polled.Status == entities.FiscalStatusRejected {
				o.log.Warn(o.log.WithFields(ctx, map[string]any{"invoice_id": polled.ID, "reason": polled.RejectionReason}), "invoice rejected; reissue required")
			}
		}
	}
	return count, errs
}

// ResumeStalledPurchases resumes purchases that have not moved for
// staleAfter. Intents still awaiting payment are re-polled at the processor.
func (o *PurchaseOrchestrator) ResumeStalledPurchases(ctx context.Context, staleAfter time.Duration) (int, error) {
	ctx = o.log.WithComponent(ctx, "orchestrator.resume")
	cutoff := o.now().Add(-staleAfter)
	var (
		count int
		errs  error
	)
	for _, state := range []entities.PurchaseState{
		entities.PurchaseStateInitiated,
		entities.PurchaseStateIntentCreated,
		entities.PurchaseStatePaymentConfirmed,
		entities.PurchaseStateEnrolled,
	} {
		stalled, err := o.purchases.ListByState(ctx, state, cutoff, o.batchSize)
		if err != nil {
			errs = multierr.Append(errs, entities.NewPipelineError(entities.ErrorKindStorageUnavailable, err))
			continue
		}
		for _, p := range stalled {
			resumed, err := o.ResumePurchase(ctx, p.OrderID)
			if resumed.State != p.State {
				count++
			}
			if err != nil && entities.KindOf(err) != entities.ErrorKindRejected {
				errs = multierr.Append(errs, fmt.Errorf("order %s: %w", p.OrderID, err))
			}
		}
	}
	return count, errs
}
