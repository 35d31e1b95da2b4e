package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// IntentStatus only moves forward: pending -> confirmed | failed | expired.
type IntentStatus string

const (
	IntentStatusPending   IntentStatus = "pending"
	IntentStatusConfirmed IntentStatus = "confirmed"
	IntentStatusFailed    IntentStatus = "failed"
	IntentStatusExpired   IntentStatus = "expired"
)

func (s IntentStatus) IsTerminal() bool {
	return s == IntentStatusConfirmed || s == IntentStatusFailed || s == IntentStatusExpired
}

func (s IntentStatus) CanTransitionTo(next IntentStatus) bool {
	return s == IntentStatusPending && next.IsTerminal()
}

// InstrumentPayload is the instrument-specific data handed back to the purchaser.
// Only the three payload types in this package implement it.
type InstrumentPayload interface {
	Instrument() SettlementInstrument
	isInstrumentPayload()
}

type PixPayload struct {
	QRCode       string `json:"qr_code"`
	QRCodeBase64 string `json:"qr_code_base64,omitempty"`
	TicketURL    string `json:"ticket_url,omitempty"`
}

func (PixPayload) Instrument() SettlementInstrument { return InstrumentPix }
func (PixPayload) isInstrumentPayload()             {}

type BoletoPayload struct {
	Barcode       string    `json:"barcode"`
	DigitableLine string    `json:"digitable_line"`
	URL           string    `json:"url,omitempty"`
	DueDate       time.Time `json:"due_date"`
}

func (BoletoPayload) Instrument() SettlementInstrument { return InstrumentBoleto }
func (BoletoPayload) isInstrumentPayload()             {}

type CardPayload struct {
	Brand        string `json:"brand"`
	LastFour     string `json:"last_four,omitempty"`
	Installments int    `json:"installments"`
}

func (CardPayload) Instrument() SettlementInstrument { return InstrumentCreditCard }
func (CardPayload) isInstrumentPayload()             {}

// PaymentIntent is the processor-side payment the purchaser has to settle.
//
// Storage model (DynamoDB):
//   - PK: order_id
//   - GSI1 (processor_reference-index): processor_reference
//   - GSI2 (status-expires_at-index): status, expires_at
type PaymentIntent struct {
	OrderID            string
	ProcessorReference string
	Instrument         SettlementInstrument
	Status             IntentStatus
	Amount             decimal.Decimal
	Purchaser          Purchaser
	OfferingID         string
	CouponID           string
	CreatedBy          string
	BusinessKey        string
	CreatedAt          time.Time
	ExpiresAt          *time.Time
	ConfirmedAt        *time.Time
	FailureReason      string

	payload InstrumentPayload
}

// Payload is nil until the processor answered.
func (i PaymentIntent) Payload() InstrumentPayload {
	return i.payload
}

// SetPayload refuses a payload of a different instrument, so a PIX intent can
// never carry a boleto barcode.
func (i *PaymentIntent) SetPayload(p InstrumentPayload) error {
	if p == nil {
		i.payload = nil
		return nil
	}
	if p.Instrument() != i.Instrument {
		return fmt.Errorf("%w: %s payload on %s intent", ErrPayloadMismatch, p.Instrument(), i.Instrument)
	}
	i.payload = p
	return nil
}

func (i PaymentIntent) PixPayload() (PixPayload, bool) {
	p, ok := i.payload.(PixPayload)
	return p, ok
}

func (i PaymentIntent) BoletoPayload() (BoletoPayload, bool) {
	p, ok := i.payload.(BoletoPayload)
	return p, ok
}

func (i PaymentIntent) CardPayload() (CardPayload, bool) {
	p, ok := i.payload.(CardPayload)
	return p, ok
}

// Installments is 1 for every instrument but credit card.
func (i PaymentIntent) Installments() int {
	if c, ok := i.CardPayload(); ok && c.Installments > 0 {
		return c.Installments
	}
	return 1
}

func (i PaymentIntent) IsExpiredAt(now time.Time) bool {
	return i.ExpiresAt != nil && !now.Before(*i.ExpiresAt)
}

// Confirm marks the intent as paid. An intent past its window can never be confirmed.
func (i *PaymentIntent) Confirm(now time.Time) error {
	if !i.Status.CanTransitionTo(IntentStatusConfirmed) {
		return fmt.Errorf("%w: intent %s -> %s", ErrInvalidTransition, i.Status, IntentStatusConfirmed)
	}
	if i.IsExpiredAt(now) {
		return ErrIntentExpired
	}
	i.Status = IntentStatusConfirmed
	confirmedAt := now
	i.ConfirmedAt = &confirmedAt
	return nil
}

func (i *PaymentIntent) Fail(reason string) error {
	if !i.Status.CanTransitionTo(IntentStatusFailed) {
		return fmt.Errorf("%w: intent %s -> %s", ErrInvalidTransition, i.Status, IntentStatusFailed)
	}
	i.Status = IntentStatusFailed
	i.FailureReason = reason
	return nil
}

func (i *PaymentIntent) Expire() error {
	if !i.Status.CanTransitionTo(IntentStatusExpired) {
		return fmt.Errorf("%w: intent %s -> %s", ErrInvalidTransition, i.Status, IntentStatusExpired)
	}
	i.Status = IntentStatusExpired
	return nil
}

// ProcessorPaymentRequest is what the gateway adapter sends to the processor.
type ProcessorPaymentRequest struct {
	OrderID      string
	Instrument   SettlementInstrument
	Amount       decimal.Decimal
	Description  string
	Payer        Purchaser
	Card         *CardData
	Installments int
	ExpiresAt    *time.Time
}

// Processor statuses as reported by Mercado Pago.
const (
	ProcessorStatusApproved   = "approved"
	ProcessorStatusPending    = "pending"
	ProcessorStatusInProcess  = "in_process"
	ProcessorStatusAuthorized = "authorized"
	ProcessorStatusRejected   = "rejected"
	ProcessorStatusCancelled  = "cancelled"
	ProcessorStatusRefunded   = "refunded"
)

// ProcessorPayment is the processor's answer, already normalized into a payload.
type ProcessorPayment struct {
	Reference    string
	Status       string
	StatusDetail string
	Payload      InstrumentPayload
	ExpiresAt    *time.Time
}

// IntentStatus maps the processor status onto the intent lifecycle.
func (p ProcessorPayment) IntentStatus() IntentStatus {
	switch p.Status {
	case ProcessorStatusApproved:
		return IntentStatusConfirmed
	case ProcessorStatusRejected, ProcessorStatusCancelled:
		return IntentStatusFailed
	}
	return IntentStatusPending
}
