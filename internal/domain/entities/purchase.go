package entities

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SettlementInstrument is the payment method chosen at checkout.
type SettlementInstrument string

const (
	InstrumentPix        SettlementInstrument = "pix"
	InstrumentCreditCard SettlementInstrument = "credit_card"
	InstrumentBoleto     SettlementInstrument = "boleto"
)

func (i SettlementInstrument) Valid() bool {
	switch i {
	case InstrumentPix, InstrumentCreditCard, InstrumentBoleto:
		return true
	}
	return false
}

const MaxInstallments = 12

type Purchaser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	// TaxID is the CPF or CNPJ, digits only.
	TaxID string `json:"tax_id"`
}

// CardData is the tokenized card; raw card numbers never reach the service.
type CardData struct {
	Token           string `json:"token"`
	PaymentMethodID string `json:"payment_method_id"`
	IssuerID        string `json:"issuer_id,omitempty"`
}

type PurchaseRequest struct {
	Purchaser    Purchaser
	Amount       decimal.Decimal
	Instrument   SettlementInstrument
	Card         *CardData
	Installments int
	OfferingID   string
	CouponID     string
	CreatedBy    string
}

var (
	ErrMissingPurchaser       = errors.New("purchaser id is required")
	ErrMissingOffering        = errors.New("offering id is required")
	ErrNonPositiveAmount      = errors.New("amount must be greater than zero")
	ErrUnknownInstrument      = errors.New("unknown settlement instrument")
	ErrMissingCardData        = errors.New("credit card requires tokenized card data")
	ErrUnexpectedCardData     = errors.New("card data is only accepted for credit card")
	ErrInstallmentsOutOfRange = errors.New("installments must be between 1 and 12")
	ErrUnexpectedInstallments = errors.New("installments are only accepted for credit card")
)

// Validate checks the preconditions that must hold before any processor call.
func (r PurchaseRequest) Validate() error {
	if strings.TrimSpace(r.Purchaser.ID) == "" {
		return ErrMissingPurchaser
	}
	if strings.TrimSpace(r.OfferingID) == "" {
		return ErrMissingOffering
	}
	if !r.Amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	switch r.Instrument {
	case InstrumentCreditCard:
		if r.Card == nil || strings.TrimSpace(r.Card.Token) == "" || strings.TrimSpace(r.Card.PaymentMethodID) == "" {
			return ErrMissingCardData
		}
		if r.Installments < 1 || r.Installments > MaxInstallments {
			return ErrInstallmentsOutOfRange
		}
	case InstrumentPix, InstrumentBoleto:
		if r.Card != nil {
			return ErrUnexpectedCardData
		}
		if r.Installments != 0 {
			return ErrUnexpectedInstallments
		}
	default:
		return ErrUnknownInstrument
	}
	return nil
}

// BusinessKey identifies "the same purchase" for duplicate detection:
// one purchaser buying one offering for one amount.
func (r PurchaseRequest) BusinessKey() string {
	raw := fmt.Sprintf("%s|%s|%s", strings.TrimSpace(r.Purchaser.ID), strings.TrimSpace(r.OfferingID), r.Amount.StringFixed(2))
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// PurchaseState is the orchestrator's view of one purchase.
type PurchaseState string

const (
	PurchaseStateInitiated          PurchaseState = "initiated"
	PurchaseStateIntentCreated      PurchaseState = "intent_created"
	PurchaseStatePaymentConfirmed   PurchaseState = "payment_confirmed"
	PurchaseStateEnrolled           PurchaseState = "enrolled"
	PurchaseStateInvoiceIssued      PurchaseState = "invoice_issued"
	PurchaseStatePaymentFailed      PurchaseState = "payment_failed"
	PurchaseStatePaymentExpired     PurchaseState = "payment_expired"
	PurchaseStateProvisioningFailed PurchaseState = "provisioning_failed"
)

var purchaseTransitions = map[PurchaseState][]PurchaseState{
	PurchaseStateInitiated:        {PurchaseStateIntentCreated, PurchaseStatePaymentFailed},
	PurchaseStateIntentCreated:    {PurchaseStatePaymentConfirmed, PurchaseStatePaymentFailed, PurchaseStatePaymentExpired},
	PurchaseStatePaymentConfirmed: {PurchaseStateEnrolled, PurchaseStateProvisioningFailed},
	PurchaseStateEnrolled:         {PurchaseStateInvoiceIssued},
}

func (s PurchaseState) CanTransitionTo(next PurchaseState) bool {
	for _, allowed := range purchaseTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s PurchaseState) IsFailure() bool {
	switch s {
	case PurchaseStatePaymentFailed, PurchaseStatePaymentExpired, PurchaseStateProvisioningFailed:
		return true
	}
	return false
}

// PriceQuote is the list price and coupon discount the amount was checked
// against at submission.
type PriceQuote struct {
	ListPrice decimal.Decimal `json:"list_price"`
	Discount  decimal.Decimal `json:"discount"`
}

// IsZero reports a purchase recorded without a quote, e.g. one rebuilt from
// its intent.
func (q PriceQuote) IsZero() bool {
	return !q.ListPrice.IsPositive()
}

// Purchase is the record the orchestrator persists to resume work after a crash.
type Purchase struct {
	OrderID         string               `json:"order_id"`
	IdempotencyKey  string               `json:"idempotency_key"`
	Purchaser       Purchaser            `json:"purchaser"`
	OfferingID      string               `json:"offering_id"`
	CouponID        string               `json:"coupon_id,omitempty"`
	CreatedBy       string               `json:"created_by,omitempty"`
	Instrument      SettlementInstrument `json:"instrument"`
	Amount          decimal.Decimal      `json:"amount"`
	Quote           PriceQuote           `json:"quote"`
	State           PurchaseState        `json:"state"`
	RequiresInvoice bool                 `json:"requires_invoice"`
	LedgerEntryID   string               `json:"ledger_entry_id,omitempty"`
	EnrollmentID    string               `json:"enrollment_id,omitempty"`
	InvoiceID       string               `json:"invoice_id,omitempty"`
	FailureKind     ErrorKind            `json:"failure_kind,omitempty"`
	FailureReason   string               `json:"failure_reason,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// Transition moves the purchase forward; backward or skipping moves are refused.
func (p *Purchase) Transition(next PurchaseState, now time.Time) error {
	if !p.State.CanTransitionTo(next) {
		return fmt.Errorf("%w: purchase %s -> %s", ErrInvalidTransition, p.State, next)
	}
	p.State = next
	p.UpdatedAt = now
	return nil
}

// Fail moves the purchase into a failure terminal and records why.
func (p *Purchase) Fail(next PurchaseState, kind ErrorKind, reason string, now time.Time) error {
	if !next.IsFailure() {
		return fmt.Errorf("%w: %s is not a failure state", ErrInvalidTransition, next)
	}
	if err := p.Transition(next, now); err != nil {
		return err
	}
	p.FailureKind = kind
	p.FailureReason = reason
	return nil
}

// Completed reports whether no further pipeline work is owed.
func (p Purchase) Completed() bool {
	if p.State.IsFailure() || p.State == PurchaseStateInvoiceIssued {
		return true
	}
	return p.State == PurchaseStateEnrolled && !p.RequiresInvoice
}
