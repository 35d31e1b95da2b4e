package interfaces

import (
	"context"

	"checkout_service/internal/domain/entities"
)

// IPaymentGateway abstracts the external payment processor (e.g. Mercado Pago).
//
// Implementations normalize the processor answer into an instrument payload and
// return processor-side failures unclassified; the payment usecase maps them
// to gateway error kinds.
type IPaymentGateway interface {
	CreatePayment(ctx context.Context, req entities.ProcessorPaymentRequest) (entities.ProcessorPayment, error)
	GetPayment(ctx context.Context, reference string) (entities.ProcessorPayment, error)
}
