package repository

import (
	"context"
	"time"

	"checkout_service/internal/domain/entities"
	"checkout_service/internal/usecase/interfaces"
)

const purchasesStateIndex = "state-updated_at-index"

type purchaseItem struct {
	OrderID         string `dynamodbav:"order_id"`
	IdempotencyKey  string `dynamodbav:"idempotency_key"`
	PurchaserID     string `dynamodbav:"purchaser_id"`
	PurchaserName   string `dynamodbav:"purchaser_name,omitempty"`
	PurchaserEmail  string `dynamodbav:"purchaser_email,omitempty"`
	PurchaserTaxID  string `dynamodbav:"purchaser_tax_id,omitempty"`
	OfferingID      string `dynamodbav:"offering_id"`
	CouponID        string `dynamodbav:"coupon_id,omitempty"`
	CreatedBy       string `dynamodbav:"created_by,omitempty"`
	Instrument      string `dynamodbav:"instrument"`
	Amount          string `dynamodbav:"amount"`
	ListPrice       string `dynamodbav:"list_price,omitempty"`
	Discount        string `dynamodbav:"discount,omitempty"`
	State           string `dynamodbav:"state"`
	RequiresInvoice bool   `dynamodbav:"requires_invoice"`
	LedgerEntryID   string `dynamodbav:"ledger_entry_id,omitempty"`
	EnrollmentID    string `dynamodbav:"enrollment_id,omitempty"`
	InvoiceID       string `dynamodbav:"invoice_id,omitempty"`
	FailureKind     string `dynamodbav:"failure_kind,omitempty"`
	FailureReason   string `dynamodbav:"failure_reason,omitempty"`
	CreatedAt       string `dynamodbav:"created_at"`
	UpdatedAt       string `dynamodbav:"updated_at"`
}

// PurchaseDynamoRepository persists the orchestrator's purchase records.
//
// Table requirements:
//   - PK: order_id (string)
//   - GSI: state-updated_at-index (PK: state, SK: updated_at)
type PurchaseDynamoRepository struct {
	ddb       dynamoAPI
	tableName string
}

var _ interfaces.IPurchaseRepository = (*PurchaseDynamoRepository)(nil)

func NewPurchaseDynamoRepository(ddb dynamoAPI, tableName string) *PurchaseDynamoRepository {
	return &PurchaseDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *PurchaseDynamoRepository) Create(ctx context.Context, p entities.Purchase) error {
	return insert(ctx, r.ddb, r.tableName, toPurchaseItem(p), "order_id")
}

func (r *PurchaseDynamoRepository) GetByOrderID(ctx context.Context, orderID string) (entities.Purchase, error) {
	it, found, err := getItem[purchaseItem](ctx, r.ddb, r.tableName, "order_id", orderID)
	if err != nil || !found {
		return entities.Purchase{}, err
	}
	return fromPurchaseItem(it), nil
}

func (r *PurchaseDynamoRepository) Update(ctx context.Context, p entities.Purchase, expected entities.PurchaseState) error {
	return replaceIf(ctx, r.ddb, r.tableName, toPurchaseItem(p), "state", string(expected))
}

func (r *PurchaseDynamoRepository) ListByState(ctx context.Context, state entities.PurchaseState, notAfter time.Time, limit int32) ([]entities.Purchase, error) {
	items, err := queryIndex[purchaseItem](ctx, r.ddb, r.tableName, indexQuery{
		index:     purchasesStateIndex,
		keyAttr:   "state",
		value:     string(state),
		rangeAttr: "updated_at",
		upTo:      formatTime(notAfter),
	}, limit)
	if err != nil {
		return nil, err
	}
	out := make([]entities.Purchase, 0, len(items))
	for _, it := range items {
		out = append(out, fromPurchaseItem(it))
	}
	return out, nil
}

func toPurchaseItem(p entities.Purchase) purchaseItem {
	it := purchaseItem{
		OrderID:         p.OrderID,
		IdempotencyKey:  p.IdempotencyKey,
		PurchaserID:     p.Purchaser.ID,
		PurchaserName:   p.Purchaser.Name,
		PurchaserEmail:  p.Purchaser.Email,
		PurchaserTaxID:  p.Purchaser.TaxID,
		OfferingID:      p.OfferingID,
		CouponID:        p.CouponID,
		CreatedBy:       p.CreatedBy,
		Instrument:      string(p.Instrument),
		Amount:          p.Amount.String(),
		State:           string(p.State),
		RequiresInvoice: p.RequiresInvoice,
		LedgerEntryID:   p.LedgerEntryID,
		EnrollmentID:    p.EnrollmentID,
		InvoiceID:       p.InvoiceID,
		FailureKind:     string(p.FailureKind),
		FailureReason:   p.FailureReason,
		CreatedAt:       formatTime(p.CreatedAt),
		UpdatedAt:       formatTime(p.UpdatedAt),
	}
	if !p.Quote.IsZero() {
		it.ListPrice = p.Quote.ListPrice.String()
		it.Discount = p.Quote.Discount.String()
	}
	return it
}

func fromPurchaseItem(it purchaseItem) entities.Purchase {
	return entities.Purchase{
		OrderID:        it.OrderID,
		IdempotencyKey: it.IdempotencyKey,
		Purchaser: entities.Purchaser{
			ID:    it.PurchaserID,
			Name:  it.PurchaserName,
			Email: it.PurchaserEmail,
			TaxID: it.PurchaserTaxID,
		},
		OfferingID:      it.OfferingID,
		CouponID:        it.CouponID,
		CreatedBy:       it.CreatedBy,
		Instrument:      entities.SettlementInstrument(it.Instrument),
		Amount:          parseDecimal(it.Amount),
		Quote:           entities.PriceQuote{ListPrice: parseDecimal(it.ListPrice), Discount: parseDecimal(it.Discount)},
		State:           entities.PurchaseState(it.State),
		RequiresInvoice: it.RequiresInvoice,
		LedgerEntryID:   it.LedgerEntryID,
		EnrollmentID:    it.EnrollmentID,
		InvoiceID:       it.InvoiceID,
		FailureKind:     entities.ErrorKind(it.FailureKind),
		FailureReason:   it.FailureReason,
		CreatedAt:       parseTime(it.CreatedAt),
		UpdatedAt:       parseTime(it.UpdatedAt),
	}
}
