package entities

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FiscalMode selects the tax authority environment. Homologation invoices are
// test documents with no legal effect.
type FiscalMode string

const (
	FiscalModeHomologation FiscalMode = "homologation"
	FiscalModeProduction   FiscalMode = "production"
)

func ParseFiscalMode(v string) (FiscalMode, error) {
	switch FiscalMode(strings.ToLower(strings.TrimSpace(v))) {
	case FiscalModeHomologation:
		return FiscalModeHomologation, nil
	case FiscalModeProduction:
		return FiscalModeProduction, nil
	}
	return "", fmt.Errorf("unknown fiscal mode %q", v)
}

type FiscalStatus string

const (
	FiscalStatusPending    FiscalStatus = "pending"
	FiscalStatusSubmitted  FiscalStatus = "submitted"
	FiscalStatusAuthorized FiscalStatus = "authorized"
	FiscalStatusRejected   FiscalStatus = "rejected"
)

func (s FiscalStatus) IsTerminal() bool {
	return s == FiscalStatusAuthorized || s == FiscalStatusRejected
}

var (
	ErrMissingPurchaserTaxID   = errors.New("purchaser tax id is required")
	ErrMissingServiceCode      = errors.New("service code is required in production")
	ErrMissingMunicipalityCode = errors.New("municipality code is required in production")
	ErrMissingExternalRef      = errors.New("external reference is required")
)

// FiscalInvoice is the NFS-e issued for one enrollment. Mode is fixed at
// creation; a rejected invoice is never resubmitted, a new one is issued.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI1 (enrollment_id-index): enrollment_id
//   - GSI2 (status-updated_at-index): status, updated_at
type FiscalInvoice struct {
	ID                 string          `json:"id"`
	EnrollmentID       string          `json:"enrollment_id"`
	OrderID            string          `json:"order_id"`
	Sequence           int             `json:"sequence"`
	ReissueOf          string          `json:"reissue_of,omitempty"`
	Mode               FiscalMode      `json:"mode"`
	Status             FiscalStatus    `json:"status"`
	ExternalReference  string          `json:"external_reference,omitempty"`
	AuthorizationCode  string          `json:"authorization_code,omitempty"`
	RejectionReason    string          `json:"rejection_reason,omitempty"`
	Attempts           int             `json:"attempts"`
	LastError          string          `json:"last_error,omitempty"`
	PurchaserTaxID     string          `json:"purchaser_tax_id"`
	PurchaserName      string          `json:"purchaser_name,omitempty"`
	PurchaserEmail     string          `json:"purchaser_email,omitempty"`
	ServiceDescription string          `json:"service_description"`
	Amount             decimal.Decimal `json:"amount"`
	ServiceCode        string          `json:"service_code,omitempty"`
	MunicipalityCode   string          `json:"municipality_code,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	SubmittedAt        *time.Time      `json:"submitted_at,omitempty"`
	LastCheckedAt      *time.Time      `json:"last_checked_at,omitempty"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

var invoiceNamespace = uuid.MustParse("0b8e4a52-3c71-5d2e-8f6a-9d1c7e5b3a24")

// FiscalInvoiceID derives the id of the n-th invoice of an enrollment. The id
// doubles as RPS number, so resubmitting the same invoice is idempotent at the
// authority.
func FiscalInvoiceID(enrollmentID string, sequence int) string {
	return uuid.NewSHA1(invoiceNamespace, []byte(fmt.Sprintf("%s#%d", enrollmentID, sequence))).String()
}

// ValidateForMode checks the fields the authority of the invoice's mode requires.
func (f FiscalInvoice) ValidateForMode() error {
	if strings.TrimSpace(f.PurchaserTaxID) == "" {
		return ErrMissingPurchaserTaxID
	}
	if f.Mode == FiscalModeProduction {
		if strings.TrimSpace(f.ServiceCode) == "" {
			return ErrMissingServiceCode
		}
		if strings.TrimSpace(f.MunicipalityCode) == "" {
			return ErrMissingMunicipalityCode
		}
	}
	return nil
}

func (f *FiscalInvoice) transition(from []FiscalStatus, next FiscalStatus, now time.Time) error {
	for _, s := range from {
		if f.Status == s {
			f.Status = next
			f.UpdatedAt = now
			return nil
		}
	}
	return fmt.Errorf("%w: invoice %s -> %s", ErrInvalidTransition, f.Status, next)
}

// MarkSubmitted records the authority's acceptance for processing.
func (f *FiscalInvoice) MarkSubmitted(externalRef string, now time.Time) error {
	if strings.TrimSpace(externalRef) == "" {
		return ErrMissingExternalRef
	}
	if err := f.transition([]FiscalStatus{FiscalStatusPending}, FiscalStatusSubmitted, now); err != nil {
		return err
	}
	f.ExternalReference = externalRef
	f.Attempts++
	f.LastError = ""
	submittedAt := now
	f.SubmittedAt = &submittedAt
	return nil
}

func (f *FiscalInvoice) MarkAuthorized(code string, now time.Time) error {
	if err := f.transition([]FiscalStatus{FiscalStatusSubmitted}, FiscalStatusAuthorized, now); err != nil {
		return err
	}
	f.AuthorizationCode = code
	checkedAt := now
	f.LastCheckedAt = &checkedAt
	return nil
}

// MarkRejected is valid from pending (synchronous refusal or local validation)
// and from submitted (asynchronous verdict).
func (f *FiscalInvoice) MarkRejected(reason string, now time.Time) error {
	if err := f.transition([]FiscalStatus{FiscalStatusPending, FiscalStatusSubmitted}, FiscalStatusRejected, now); err != nil {
		return err
	}
	f.RejectionReason = reason
	return nil
}

// RecordFailedAttempt keeps the invoice pending after a timeout or network failure.
func (f *FiscalInvoice) RecordFailedAttempt(cause string, now time.Time) error {
	if f.Status != FiscalStatusPending {
		return fmt.Errorf("%w: failed attempt on %s invoice", ErrInvalidTransition, f.Status)
	}
	f.Attempts++
	f.LastError = cause
	f.UpdatedAt = now
	return nil
}

// RecordCheck notes a status poll that did not produce a verdict.
func (f *FiscalInvoice) RecordCheck(cause string, now time.Time) {
	checkedAt := now
	f.LastCheckedAt = &checkedAt
	f.LastError = cause
	f.UpdatedAt = now
}

// SubmissionExpired reports whether a submitted invoice waited longer than
// window without a verdict.
func (f FiscalInvoice) SubmissionExpired(now time.Time, window time.Duration) bool {
	if f.Status != FiscalStatusSubmitted || f.SubmittedAt == nil || window <= 0 {
		return false
	}
	return now.Sub(*f.SubmittedAt) >= window
}

// RevertToPending returns a submitted invoice whose verdict never came back
// to pending. The stale external reference is dropped; the next submission
// reuses the invoice id as RPS number so the authority can deduplicate.
func (f *FiscalInvoice) RevertToPending(cause string, now time.Time) error {
	if err := f.transition([]FiscalStatus{FiscalStatusSubmitted}, FiscalStatusPending, now); err != nil {
		return err
	}
	f.ExternalReference = ""
	f.SubmittedAt = nil
	f.LastError = cause
	return nil
}

// TaxAuthorityVerdict is the authority's answer to a submission or status query.
type TaxAuthorityVerdict string

const (
	VerdictProcessing TaxAuthorityVerdict = "processing"
	VerdictAuthorized TaxAuthorityVerdict = "authorized"
	VerdictRejected   TaxAuthorityVerdict = "rejected"
)

type TaxAuthorityResponse struct {
	Reference         string
	Verdict           TaxAuthorityVerdict
	AuthorizationCode string
	RejectionReason   string
}
