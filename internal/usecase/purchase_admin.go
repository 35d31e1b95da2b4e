package usecase

import (
	"context"

	"checkout_service/internal/domain/entities"
)

func (o *PurchaseOrchestrator) ListLedgerEntries(ctx context.Context, capability AdminCapability, filter entities.LedgerFilter) ([]entities.RecordedEntry, error) {
	if err := capability.check(); err != nil {
		return nil, err
	}
	return o.ledger.List(ctx, filter)
}

func (o *PurchaseOrchestrator) LedgerStats(ctx context.Context, capability AdminCapability) (entities.LedgerStats, error) {
	if err := capability.check(); err != nil {
		return entities.LedgerStats{}, err
	}
	return o.ledger.Stats(ctx)
}

func (o *PurchaseOrchestrator) ListInvoices(ctx context.Context, capability AdminCapability, enrollmentID string) ([]entities.FiscalInvoice, error) {
	if err := capability.check(); err != nil {
		return nil, err
	}
	return o.invoices.ListByEnrollment(ctx, enrollmentID)
}

// RetryInvoice resubmits a pending invoice or re-polls a submitted one.
func (o *PurchaseOrchestrator) RetryInvoice(ctx context.Context, capability AdminCapability, invoiceID string) (entities.FiscalInvoice, error) {
	if err := capability.check(); err != nil {
		return entities.FiscalInvoice{}, err
	}
	ctx = o.log.WithFields(ctx, map[string]any{"component": "orchestrator.admin", "actor_id": capability.ActorID(), "invoice_id": invoiceID})
	inv, err := o.invoices.Get(ctx, invoiceID)
	if err != nil {
		return entities.FiscalInvoice{}, err
	}
	o.log.Info(ctx, "manual invoice retry")
	if inv.Status == entities.FiscalStatusSubmitted {
		return o.invoices.Poll(ctx, inv)
	}
	inv, err = o.invoices.Submit(ctx, inv)
	if err != nil {
		return inv, err
	}
	return inv, o.linkInvoice(ctx, inv)
}

// ReissueInvoice replaces a rejected invoice with a new one in the mode the
// service currently runs in.
func (o *PurchaseOrchestrator) ReissueInvoice(ctx context.Context, capability AdminCapability, invoiceID string) (entities.FiscalInvoice, error) {
	if err := capability.check(); err != nil {
		return entities.FiscalInvoice{}, err
	}
	ctx = o.log.WithFields(ctx, map[string]any{"component": "orchestrator.admin", "actor_id": capability.ActorID(), "invoice_id": invoiceID})
	original, err := o.invoices.Get(ctx, invoiceID)
	if err != nil {
		return entities.FiscalInvoice{}, err
	}
	p, err := o.getPurchase(ctx, original.OrderID)
	if err != nil {
		return entities.FiscalInvoice{}, err
	}
	in, err := o.fiscalInput(ctx, p)
	if err != nil {
		return entities.FiscalInvoice{}, err
	}
	o.log.Info(ctx, "manual invoice reissue")
	inv, err := o.invoices.Reissue(ctx, invoiceID, in, o.fiscalMode)
	if err != nil {
		return inv, err
	}
	return inv, o.linkInvoice(ctx, inv)
}

// linkInvoice points the purchase at an invoice that reached the authority.
func (o *PurchaseOrchestrator) linkInvoice(ctx context.Context, inv entities.FiscalInvoice) error {
	if inv.Status == entities.FiscalStatusPending || inv.Status == entities.FiscalStatusRejected {
		return nil
	}
	p, err := o.getPurchase(ctx, inv.OrderID)
	if err != nil {
		return err
	}
	switch p.State {
	case entities.PurchaseStateEnrolled:
		p.InvoiceID = inv.ID
		_, err = o.transition(ctx, p, entities.PurchaseStateInvoiceIssued, "", "")
		return err
	case entities.PurchaseStateInvoiceIssued:
		if p.InvoiceID == inv.ID {
			return nil
		}
		p.InvoiceID = inv.ID
		p.UpdatedAt = o.now()
		if err := o.purchases.Update(ctx, p, entities.PurchaseStateInvoiceIssued); err != nil {
			return entities.NewPipelineError(entities.ErrorKindStorageUnavailable, err)
		}
	}
	return nil
}

// GetPurchase assembles every record of a purchase for inspection.
func (o *PurchaseOrchestrator) GetPurchase(ctx context.Context, capability AdminCapability, orderID string) (PurchaseDetails, error) {
	if err := capability.check(); err != nil {
		return PurchaseDetails{}, err
	}
	view, err := o.PurchaseStatus(ctx, orderID)
	if err != nil {
		return PurchaseDetails{}, err
	}
	details := PurchaseDetails{Purchase: view.Purchase, Intent: view.Intent}

	enrollmentID := entities.EnrollmentIDForIntent(orderID)
	entry, found, err := o.ledger.FindByReference(ctx, entities.LedgerReferenceEnrollment, enrollmentID, entities.LedgerEntryIncome)
	if err != nil {
		return PurchaseDetails{}, err
	}
	if found {
		details.LedgerEntry = &entry
	}

	enrollment, err := o.enrollments.GetByIntent(ctx, orderID)
	switch {
	case err == nil:
		details.Enrollment = &enrollment
	case entities.KindOf(err) != entities.ErrorKindNotFound:
		return PurchaseDetails{}, err
	}
	if details.Enrollment != nil {
		if details.Invoices, err = o.invoices.ListByEnrollment(ctx, enrollment.ID); err != nil {
			return PurchaseDetails{}, err
		}
	}
	return details, nil
}
