package response

import (
	"time"

	"checkout_service/internal/domain/entities"
)

type LedgerEntryResponse struct {
	ID              string    `json:"id"`
	Description     string    `json:"description"`
	Type            string    `json:"type"`
	Amount          string    `json:"amount"`
	TransactionDate time.Time `json:"transaction_date"`
	ReferenceID     string    `json:"reference_id"`
	ReferenceType   string    `json:"reference_type"`
	Notes           string    `json:"notes,omitempty"`
	RecordedAt      time.Time `json:"recorded_at"`
}

func FromLedgerEntry(e entities.RecordedEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:              e.ID,
		Description:     e.Description,
		Type:            string(e.Type),
		Amount:          e.Amount.StringFixed(2),
		TransactionDate: e.TransactionDate,
		ReferenceID:     e.ReferenceID,
		ReferenceType:   e.ReferenceType,
		Notes:           e.Notes,
		RecordedAt:      e.RecordedAt,
	}
}

func FromLedgerEntries(entries []entities.RecordedEntry) []LedgerEntryResponse {
	out := make([]LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, FromLedgerEntry(e))
	}
	return out
}

type LedgerStatsResponse struct {
	TotalReceivables   string `json:"total_receivables"`
	TotalPayables      string `json:"total_payables"`
	CurrentBalance     string `json:"current_balance"`
	PendingReceivables string `json:"pending_receivables"`
	PendingPayables    string `json:"pending_payables"`
}

func FromLedgerStats(s entities.LedgerStats) LedgerStatsResponse {
	return LedgerStatsResponse{
		TotalReceivables:   s.TotalReceivables.StringFixed(2),
		TotalPayables:      s.TotalPayables.StringFixed(2),
		CurrentBalance:     s.CurrentBalance.StringFixed(2),
		PendingReceivables: s.PendingReceivables.StringFixed(2),
		PendingPayables:    s.PendingPayables.StringFixed(2),
	}
}

type InvoiceResponse struct {
	ID                string     `json:"id"`
	EnrollmentID      string     `json:"enrollment_id"`
	OrderID           string     `json:"order_id"`
	Sequence          int        `json:"sequence"`
	ReissueOf         string     `json:"reissue_of,omitempty"`
	Mode              string     `json:"mode"`
	Status            string     `json:"status"`
	ExternalReference string     `json:"external_reference,omitempty"`
	AuthorizationCode string     `json:"authorization_code,omitempty"`
	RejectionReason   string     `json:"rejection_reason,omitempty"`
	Attempts          int        `json:"attempts"`
	LastError         string     `json:"last_error,omitempty"`
	Amount            string     `json:"amount"`
	CreatedAt         time.Time  `json:"created_at"`
	SubmittedAt       *time.Time `json:"submitted_at,omitempty"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func FromInvoice(inv entities.FiscalInvoice) InvoiceResponse {
	return InvoiceResponse{
		ID:                inv.ID,
		EnrollmentID:      inv.EnrollmentID,
		OrderID:           inv.OrderID,
		Sequence:          inv.Sequence,
		ReissueOf:         inv.ReissueOf,
		Mode:              string(inv.Mode),
		Status:            string(inv.Status),
		ExternalReference: inv.ExternalReference,
		AuthorizationCode: inv.AuthorizationCode,
		RejectionReason:   inv.RejectionReason,
		Attempts:          inv.Attempts,
		LastError:         inv.LastError,
		Amount:            inv.Amount.StringFixed(2),
		CreatedAt:         inv.CreatedAt,
		SubmittedAt:       inv.SubmittedAt,
		UpdatedAt:         inv.UpdatedAt,
	}
}

func FromInvoices(invoices []entities.FiscalInvoice) []InvoiceResponse {
	out := make([]InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, FromInvoice(inv))
	}
	return out
}

type EnrollmentResponse struct {
	ID             string    `json:"id"`
	IntentID       string    `json:"intent_id"`
	PurchaserID    string    `json:"purchaser_id"`
	OfferingID     string    `json:"offering_id"`
	Status         string    `json:"status"`
	CouponID       string    `json:"coupon_id,omitempty"`
	PaymentAmount  string    `json:"payment_amount"`
	OriginalAmount string    `json:"original_amount"`
	DiscountAmount string    `json:"discount_amount"`
	CreatedAt      time.Time `json:"created_at"`
}

func FromEnrollment(e entities.Enrollment) EnrollmentResponse {
	return EnrollmentResponse{
		ID:             e.ID,
		IntentID:       e.IntentID,
		PurchaserID:    e.PurchaserID,
		OfferingID:     e.OfferingID,
		Status:         string(e.Status),
		CouponID:       e.CouponID,
		PaymentAmount:  e.PaymentAmount.StringFixed(2),
		OriginalAmount: e.OriginalAmount.StringFixed(2),
		DiscountAmount: e.DiscountAmount.StringFixed(2),
		CreatedAt:      e.CreatedAt,
	}
}

// PurchaseDetailsResponse is every stored record of one purchase.
type PurchaseDetailsResponse struct {
	Purchase      PurchaseResponse     `json:"purchase"`
	FailureKind   string               `json:"failure_kind,omitempty"`
	FailureReason string               `json:"failure_reason,omitempty"`
	LedgerEntry   *LedgerEntryResponse `json:"ledger_entry,omitempty"`
	Enrollment    *EnrollmentResponse  `json:"enrollment,omitempty"`
	Invoices      []InvoiceResponse    `json:"invoices"`
}

func FromPurchaseDetails(p entities.Purchase, intent entities.PaymentIntent, entry *entities.RecordedEntry, enrollment *entities.Enrollment, invoices []entities.FiscalInvoice) PurchaseDetailsResponse {
	out := PurchaseDetailsResponse{
		Purchase:      FromPurchase(p, intent, ""),
		FailureKind:   string(p.FailureKind),
		FailureReason: p.FailureReason,
		Invoices:      FromInvoices(invoices),
	}
	if entry != nil {
		e := FromLedgerEntry(*entry)
		out.LedgerEntry = &e
	}
	if enrollment != nil {
		e := FromEnrollment(*enrollment)
		out.Enrollment = &e
	}
	return out
}
