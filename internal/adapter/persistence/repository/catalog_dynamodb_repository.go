package repository

import (
	"context"

	"checkout_service/internal/domain/entities"
	"checkout_service/internal/usecase/interfaces"
)

type offeringItem struct {
	ID                    string `dynamodbav:"id"`
	Title                 string `dynamodbav:"title"`
	Price                 string `dynamodbav:"price"`
	RequiresFiscalInvoice bool   `dynamodbav:"requires_fiscal_invoice"`
	ServiceCode           string `dynamodbav:"service_code,omitempty"`
	MunicipalityCode      string `dynamodbav:"municipality_code,omitempty"`
	Active                bool   `dynamodbav:"active"`
}

type couponItem struct {
	ID        string `dynamodbav:"id"`
	Code      string `dynamodbav:"code"`
	Kind      string `dynamodbav:"kind"`
	Value     string `dynamodbav:"value"`
	Active    bool   `dynamodbav:"active"`
	ExpiresAt string `dynamodbav:"expires_at,omitempty"`
}

// OfferingDynamoRepository reads offerings written by the catalog service.
//
// Table requirements:
//   - PK: id (string)
type OfferingDynamoRepository struct {
	ddb       dynamoAPI
	tableName string
}

var _ interfaces.IOfferingRepository = (*OfferingDynamoRepository)(nil)

func NewOfferingDynamoRepository(ddb dynamoAPI, tableName string) *OfferingDynamoRepository {
	return &OfferingDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *OfferingDynamoRepository) GetByID(ctx context.Context, id string) (entities.Offering, error) {
	it, found, err := getItem[offeringItem](ctx, r.ddb, r.tableName, "id", id)
	if err != nil || !found {
		return entities.Offering{}, err
	}
	return entities.Offering{
		ID:                    it.ID,
		Title:                 it.Title,
		Price:                 parseDecimal(it.Price),
		RequiresFiscalInvoice: it.RequiresFiscalInvoice,
		ServiceCode:           it.ServiceCode,
		MunicipalityCode:      it.MunicipalityCode,
		Active:                it.Active,
	}, nil
}

// CouponDynamoRepository reads coupons written by the marketing service.
//
// Table requirements:
//   - PK: id (string)
type CouponDynamoRepository struct {
	ddb       dynamoAPI
	tableName string
}

var _ interfaces.ICouponRepository = (*CouponDynamoRepository)(nil)

func NewCouponDynamoRepository(ddb dynamoAPI, tableName string) *CouponDynamoRepository {
	return &CouponDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *CouponDynamoRepository) GetByID(ctx context.Context, id string) (entities.Coupon, error) {
	it, found, err := getItem[couponItem](ctx, r.ddb, r.tableName, "id", id)
	if err != nil || !found {
		return entities.Coupon{}, err
	}
	return entities.Coupon{
		ID:        it.ID,
		Code:      it.Code,
		Kind:      entities.CouponKind(it.Kind),
		Value:     parseDecimal(it.Value),
		Active:    it.Active,
		ExpiresAt: parseTimePtr(it.ExpiresAt),
	}, nil
}
