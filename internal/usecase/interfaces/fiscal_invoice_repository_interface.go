package interfaces

import (
	"context"

	"checkout_service/internal/domain/entities"
)

// IFiscalInvoiceRepository persists invoices; status changes are conditional on
// the previously read status.
type IFiscalInvoiceRepository interface {
	Create(ctx context.Context, inv entities.FiscalInvoice) error
	GetByID(ctx context.Context, id string) (entities.FiscalInvoice, error)
	ListByEnrollmentID(ctx context.Context, enrollmentID string) ([]entities.FiscalInvoice, error)
	// ListByStatus returns the least recently updated invoices first.
	ListByStatus(ctx context.Context, status entities.FiscalStatus, limit int32) ([]entities.FiscalInvoice, error)
	Update(ctx context.Context, inv entities.FiscalInvoice, expected entities.FiscalStatus) error
}
