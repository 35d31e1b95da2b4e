package response

import (
	"time"

	"checkout_service/internal/domain/entities"
)

// PaymentInstructions tells the purchaser how to settle. Only the fields of
// the chosen instrument are filled.
type PaymentInstructions struct {
	QRCode        string     `json:"qr_code,omitempty"`
	QRCodeBase64  string     `json:"qr_code_base64,omitempty"`
	TicketURL     string     `json:"ticket_url,omitempty"`
	Barcode       string     `json:"barcode,omitempty"`
	DigitableLine string     `json:"digitable_line,omitempty"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	CardBrand     string     `json:"card_brand,omitempty"`
	CardLastFour  string     `json:"card_last_four,omitempty"`
	Installments  int        `json:"installments,omitempty"`
}

type PurchaseResponse struct {
	OrderID            string               `json:"order_id"`
	State              string               `json:"state"`
	PaymentStatus      string               `json:"payment_status"`
	Instrument         string               `json:"instrument"`
	Amount             string               `json:"amount"`
	ProcessorReference string               `json:"processor_reference,omitempty"`
	ExpiresAt          *time.Time           `json:"expires_at,omitempty"`
	EnrollmentID       string               `json:"enrollment_id,omitempty"`
	Message            string               `json:"message,omitempty"`
	Payment            *PaymentInstructions `json:"payment,omitempty"`
}

// FromIntent renders a freshly created intent, before any confirmation.
func FromIntent(intent entities.PaymentIntent) PurchaseResponse {
	state := entities.PurchaseStateIntentCreated
	if intent.Status == entities.IntentStatusConfirmed {
		state = entities.PurchaseStatePaymentConfirmed
	}
	return FromPurchase(entities.Purchase{
		OrderID:    intent.OrderID,
		Instrument: intent.Instrument,
		Amount:     intent.Amount,
		State:      state,
	}, intent, "")
}

// FromPurchase renders a purchase with its intent. message is the
// purchaser-facing failure reason, if any.
func FromPurchase(p entities.Purchase, intent entities.PaymentIntent, message string) PurchaseResponse {
	out := PurchaseResponse{
		OrderID:            p.OrderID,
		State:              string(p.State),
		PaymentStatus:      string(intent.Status),
		Instrument:         string(p.Instrument),
		Amount:             p.Amount.StringFixed(2),
		ProcessorReference: intent.ProcessorReference,
		ExpiresAt:          intent.ExpiresAt,
		EnrollmentID:       p.EnrollmentID,
		Message:            message,
	}
	if intent.Status == entities.IntentStatusPending || intent.Status == entities.IntentStatusConfirmed {
		out.Payment = instructions(intent)
	}
	return out
}

func instructions(intent entities.PaymentIntent) *PaymentInstructions {
	switch p := intent.Payload().(type) {
	case entities.PixPayload:
		return &PaymentInstructions{QRCode: p.QRCode, QRCodeBase64: p.QRCodeBase64, TicketURL: p.TicketURL}
	case entities.BoletoPayload:
		out := &PaymentInstructions{Barcode: p.Barcode, DigitableLine: p.DigitableLine, TicketURL: p.URL}
		if !p.DueDate.IsZero() {
			due := p.DueDate
			out.DueDate = &due
		}
		return out
	case entities.CardPayload:
		return &PaymentInstructions{CardBrand: p.Brand, CardLastFour: p.LastFour, Installments: p.Installments}
	}
	return nil
}
