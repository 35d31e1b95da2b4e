package entities

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type LedgerEntryType string

const (
	LedgerEntryIncome   LedgerEntryType = "income"
	LedgerEntryExpense  LedgerEntryType = "expense"
	LedgerEntryTransfer LedgerEntryType = "transfer"
	LedgerEntryRefund   LedgerEntryType = "refund"
)

func (t LedgerEntryType) Valid() bool {
	switch t {
	case LedgerEntryIncome, LedgerEntryExpense, LedgerEntryTransfer, LedgerEntryRefund:
		return true
	}
	return false
}

// Reference types used by the pipeline. Ledger entries may also reference
// anything else recorded by back-office tooling.
const (
	LedgerReferenceEnrollment    = "enrollment"
	LedgerReferencePaymentIntent = "payment_intent"
)

var (
	ErrLedgerInvalidType      = errors.New("invalid ledger entry type")
	ErrLedgerNonPositive      = errors.New("ledger amount must be greater than zero")
	ErrLedgerMissingReference = errors.New("ledger reference type and id are required")
	ErrLedgerMissingDate      = errors.New("ledger transaction date is required")
)

// LedgerEntry is an immutable money movement. At most one entry exists per
// (ReferenceType, ReferenceID, Type).
type LedgerEntry struct {
	ID              string          `json:"id"`
	Description     string          `json:"description"`
	Type            LedgerEntryType `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionDate time.Time       `json:"transaction_date"`
	ReferenceID     string          `json:"reference_id"`
	ReferenceType   string          `json:"reference_type"`
	Notes           string          `json:"notes,omitempty"`
}

func (e LedgerEntry) Validate() error {
	if !e.Type.Valid() {
		return ErrLedgerInvalidType
	}
	if !e.Amount.IsPositive() {
		return ErrLedgerNonPositive
	}
	if strings.TrimSpace(e.ReferenceType) == "" || strings.TrimSpace(e.ReferenceID) == "" {
		return ErrLedgerMissingReference
	}
	if e.TransactionDate.IsZero() {
		return ErrLedgerMissingDate
	}
	return nil
}

// ReferenceKey is the uniqueness key of the entry.
func (e LedgerEntry) ReferenceKey() string {
	return LedgerReferenceKey(e.ReferenceType, e.ReferenceID, e.Type)
}

func LedgerReferenceKey(referenceType, referenceID string, entryType LedgerEntryType) string {
	return fmt.Sprintf("%s#%s#%s", referenceType, referenceID, entryType)
}

// RecordedEntry is a ledger entry as persisted.
type RecordedEntry struct {
	LedgerEntry
	RecordedAt time.Time `json:"recorded_at"`
}

type LedgerFilter struct {
	Type          LedgerEntryType
	ReferenceType string
	From          time.Time
	To            time.Time
	Limit         int
}

// Matches applies the filter to one entry. Zero-valued fields match anything.
func (f LedgerFilter) Matches(e LedgerEntry) bool {
	if f.Type != "" && e.Type != f.Type {
		return false
	}
	if f.ReferenceType != "" && e.ReferenceType != f.ReferenceType {
		return false
	}
	if !f.From.IsZero() && e.TransactionDate.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && e.TransactionDate.After(f.To) {
		return false
	}
	return true
}

type LedgerStats struct {
	TotalReceivables   decimal.Decimal `json:"total_receivables"`
	TotalPayables      decimal.Decimal `json:"total_payables"`
	CurrentBalance     decimal.Decimal `json:"current_balance"`
	PendingReceivables decimal.Decimal `json:"pending_receivables"`
	PendingPayables    decimal.Decimal `json:"pending_payables"`
}

// Equal compares amounts numerically.
func (s LedgerStats) Equal(o LedgerStats) bool {
	return s.TotalReceivables.Equal(o.TotalReceivables) &&
		s.TotalPayables.Equal(o.TotalPayables) &&
		s.CurrentBalance.Equal(o.CurrentBalance) &&
		s.PendingReceivables.Equal(o.PendingReceivables) &&
		s.PendingPayables.Equal(o.PendingPayables)
}

// ComputeLedgerStats recomputes the stats from the full entry set.
//
// Income is receivable; expense and refund are payable; transfers move money
// between accounts and do not affect the balance. An entry dated after asOf
// is pending and stays out of the current balance.
func ComputeLedgerStats(entries []RecordedEntry, asOf time.Time) LedgerStats {
	stats := LedgerStats{}
	settledIn := decimal.Zero
	settledOut := decimal.Zero
	for _, e := range entries {
		pending := e.TransactionDate.After(asOf)
		switch e.Type {
		case LedgerEntryIncome:
			stats.TotalReceivables = stats.TotalReceivables.Add(e.Amount)
			if pending {
				stats.PendingReceivables = stats.PendingReceivables.Add(e.Amount)
			} else {
				settledIn = settledIn.Add(e.Amount)
			}
		case LedgerEntryExpense, LedgerEntryRefund:
			stats.TotalPayables = stats.TotalPayables.Add(e.Amount)
			if pending {
				stats.PendingPayables = stats.PendingPayables.Add(e.Amount)
			} else {
				settledOut = settledOut.Add(e.Amount)
			}
		}
	}
	stats.CurrentBalance = settledIn.Sub(settledOut)
	return stats
}

// LedgerProjection keeps running stats so callers can stream entries without
// holding the whole log in memory.
type LedgerProjection struct {
	asOf  time.Time
	stats LedgerStats
	count int
}

func NewLedgerProjection(asOf time.Time) *LedgerProjection {
	return &LedgerProjection{asOf: asOf}
}

func (p *LedgerProjection) Apply(e LedgerEntry) {
	p.count++
	var delta decimal.Decimal
	switch e.Type {
	case LedgerEntryIncome:
		p.stats.TotalReceivables = p.stats.TotalReceivables.Add(e.Amount)
		if e.TransactionDate.After(p.asOf) {
			p.stats.PendingReceivables = p.stats.PendingReceivables.Add(e.Amount)
			return
		}
		delta = e.Amount
	case LedgerEntryExpense, LedgerEntryRefund:
		p.stats.TotalPayables = p.stats.TotalPayables.Add(e.Amount)
		if e.TransactionDate.After(p.asOf) {
			p.stats.PendingPayables = p.stats.PendingPayables.Add(e.Amount)
			return
		}
		delta = e.Amount.Neg()
	default:
		return
	}
	p.stats.CurrentBalance = p.stats.CurrentBalance.Add(delta)
}

func (p *LedgerProjection) Stats() LedgerStats {
	return p.stats
}

func (p *LedgerProjection) Count() int {
	return p.count
}
