package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseEvent is published on every purchase state change.
type PurchaseEvent struct {
	EventID       string          `json:"event_id"`
	OrderID       string          `json:"order_id"`
	State         PurchaseState   `json:"state"`
	PurchaserID   string          `json:"purchaser_id"`
	OfferingID    string          `json:"offering_id"`
	Amount        decimal.Decimal `json:"amount"`
	EnrollmentID  string          `json:"enrollment_id,omitempty"`
	InvoiceID     string          `json:"invoice_id,omitempty"`
	FailureKind   ErrorKind       `json:"failure_kind,omitempty"`
	FailureReason string          `json:"failure_reason,omitempty"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// RoutingKey is the broker routing key, e.g. "purchase.enrolled".
func (e PurchaseEvent) RoutingKey() string {
	return "purchase." + string(e.State)
}
