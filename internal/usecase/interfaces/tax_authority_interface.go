package interfaces

import (
	"context"

	"checkout_service/internal/domain/entities"
)

// ITaxAuthority is one NFS-e environment. An authority only accepts invoices
// of its own mode.
type ITaxAuthority interface {
	Mode() entities.FiscalMode
	Submit(ctx context.Context, inv entities.FiscalInvoice) (entities.TaxAuthorityResponse, error)
	Status(ctx context.Context, inv entities.FiscalInvoice) (entities.TaxAuthorityResponse, error)
}
