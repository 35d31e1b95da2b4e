package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EnrollmentStatus string

const (
	EnrollmentStatusPending   EnrollmentStatus = "pending"
	EnrollmentStatusPaid      EnrollmentStatus = "paid"
	EnrollmentStatusCancelled EnrollmentStatus = "cancelled"
)

// enrollmentNamespace scopes the name-based UUIDs derived from order ids.
var enrollmentNamespace = uuid.MustParse("6f1d3c2a-8f4e-5b7a-9c1d-2e3f4a5b6c7d")

// EnrollmentIDForIntent derives the enrollment id from the intent order id, so
// a confirmed intent maps to exactly one enrollment no matter how often it is
// provisioned.
func EnrollmentIDForIntent(orderID string) string {
	return uuid.NewSHA1(enrollmentNamespace, []byte(orderID)).String()
}

// Enrollment grants the purchaser access to the offering.
//
// Storage model (DynamoDB):
//   - PK: id (derived from intent_id)
//   - GSI1 (purchaser_id-index): purchaser_id
type Enrollment struct {
	ID             string           `json:"id"`
	IntentID       string           `json:"intent_id"`
	PurchaserID    string           `json:"purchaser_id"`
	OfferingID     string           `json:"offering_id"`
	Status         EnrollmentStatus `json:"status"`
	CouponID       string           `json:"coupon_id,omitempty"`
	PaymentAmount  decimal.Decimal  `json:"payment_amount"`
	OriginalAmount decimal.Decimal  `json:"original_amount"`
	DiscountAmount decimal.Decimal  `json:"discount_amount"`
	CreatedBy      string           `json:"created_by,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}
