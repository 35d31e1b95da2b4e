package repository

import (
	"context"

	"checkout_service/internal/domain/entities"
	"checkout_service/internal/usecase/interfaces"
)

type enrollmentItem struct {
	ID             string `dynamodbav:"id"`
	IntentID       string `dynamodbav:"intent_id"`
	PurchaserID    string `dynamodbav:"purchaser_id"`
	OfferingID     string `dynamodbav:"offering_id"`
	Status         string `dynamodbav:"status"`
	CouponID       string `dynamodbav:"coupon_id,omitempty"`
	PaymentAmount  string `dynamodbav:"payment_amount"`
	OriginalAmount string `dynamodbav:"original_amount"`
	DiscountAmount string `dynamodbav:"discount_amount"`
	CreatedBy      string `dynamodbav:"created_by,omitempty"`
	CreatedAt      string `dynamodbav:"created_at"`
}

// EnrollmentDynamoRepository persists Enrollment entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string), derived from the intent order id
//
// Using the derived id as PK guarantees one enrollment per intent.
type EnrollmentDynamoRepository struct {
	ddb       dynamoAPI
	tableName string
}

var _ interfaces.IEnrollmentRepository = (*EnrollmentDynamoRepository)(nil)

func NewEnrollmentDynamoRepository(ddb dynamoAPI, tableName string) *EnrollmentDynamoRepository {
	return &EnrollmentDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *EnrollmentDynamoRepository) Create(ctx context.Context, e entities.Enrollment) error {
	return insert(ctx, r.ddb, r.tableName, toEnrollmentItem(e), "id")
}

func (r *EnrollmentDynamoRepository) GetByID(ctx context.Context, id string) (entities.Enrollment, error) {
	it, found, err := getItem[enrollmentItem](ctx, r.ddb, r.tableName, "id", id)
	if err != nil || !found {
		return entities.Enrollment{}, err
	}
	return fromEnrollmentItem(it), nil
}

func toEnrollmentItem(e entities.Enrollment) enrollmentItem {
	return enrollmentItem{
		ID:             e.ID,
		IntentID:       e.IntentID,
		PurchaserID:    e.PurchaserID,
		OfferingID:     e.OfferingID,
		Status:         string(e.Status),
		CouponID:       e.CouponID,
		PaymentAmount:  e.PaymentAmount.String(),
		OriginalAmount: e.OriginalAmount.String(),
		DiscountAmount: e.DiscountAmount.String(),
		CreatedBy:      e.CreatedBy,
		CreatedAt:      formatTime(e.CreatedAt),
	}
}

func fromEnrollmentItem(it enrollmentItem) entities.Enrollment {
	return entities.Enrollment{
		ID:             it.ID,
		IntentID:       it.IntentID,
		PurchaserID:    it.PurchaserID,
		OfferingID:     it.OfferingID,
		Status:         entities.EnrollmentStatus(it.Status),
		CouponID:       it.CouponID,
		PaymentAmount:  parseDecimal(it.PaymentAmount),
		OriginalAmount: parseDecimal(it.OriginalAmount),
		DiscountAmount: parseDecimal(it.DiscountAmount),
		CreatedBy:      it.CreatedBy,
		CreatedAt:      parseTime(it.CreatedAt),
	}
}
