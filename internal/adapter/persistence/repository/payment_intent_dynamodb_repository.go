package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"checkout_service/internal/domain/entities"
	"checkout_service/internal/usecase/interfaces"
)

const (
	intentsProcessorRefIndex = "processor_reference-index"
	intentsExpiryIndex       = "status-expires_at-index"
)

type paymentIntentItem struct {
	OrderID            string `dynamodbav:"order_id"`
	ProcessorReference string `dynamodbav:"processor_reference,omitempty"`
	Instrument         string `dynamodbav:"instrument"`
	Status             string `dynamodbav:"status"`
	Amount             string `dynamodbav:"amount"`
	PurchaserID        string `dynamodbav:"purchaser_id"`
	PurchaserName      string `dynamodbav:"purchaser_name,omitempty"`
	PurchaserEmail     string `dynamodbav:"purchaser_email,omitempty"`
	PurchaserTaxID     string `dynamodbav:"purchaser_tax_id,omitempty"`
	OfferingID         string `dynamodbav:"offering_id"`
	CouponID           string `dynamodbav:"coupon_id,omitempty"`
	CreatedBy          string `dynamodbav:"created_by,omitempty"`
	BusinessKey        string `dynamodbav:"business_key"`
	PayloadType        string `dynamodbav:"payload_type,omitempty"`
	Payload            string `dynamodbav:"payload,omitempty"`
	CreatedAt          string `dynamodbav:"created_at"`
	ExpiresAt          string `dynamodbav:"expires_at,omitempty"`
	ConfirmedAt        string `dynamodbav:"confirmed_at,omitempty"`
	FailureReason      string `dynamodbav:"failure_reason,omitempty"`
}

// PaymentIntentDynamoRepository persists PaymentIntent entities in DynamoDB.
//
// Table requirements:
//   - PK: order_id (string)
//   - GSI: processor_reference-index (PK: processor_reference)
//   - GSI: status-expires_at-index (PK: status, SK: expires_at); intents
//     without an expiry are left out of it
type PaymentIntentDynamoRepository struct {
	ddb       dynamoAPI
	tableName string
}

var _ interfaces.IPaymentIntentRepository = (*PaymentIntentDynamoRepository)(nil)

func NewPaymentIntentDynamoRepository(ddb dynamoAPI, tableName string) *PaymentIntentDynamoRepository {
	return &PaymentIntentDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *PaymentIntentDynamoRepository) Create(ctx context.Context, intent entities.PaymentIntent) error {
	it, err := toPaymentIntentItem(intent)
	if err != nil {
		return err
	}
	return insert(ctx, r.ddb, r.tableName, it, "order_id")
}

func (r *PaymentIntentDynamoRepository) GetByOrderID(ctx context.Context, orderID string) (entities.PaymentIntent, error) {
	it, found, err := getItem[paymentIntentItem](ctx, r.ddb, r.tableName, "order_id", orderID)
	if err != nil || !found {
		return entities.PaymentIntent{}, err
	}
	return fromPaymentIntentItem(it)
}

func (r *PaymentIntentDynamoRepository) GetByProcessorReference(ctx context.Context, reference string) (entities.PaymentIntent, error) {
	items, err := queryIndex[paymentIntentItem](ctx, r.ddb, r.tableName, indexQuery{
		index:   intentsProcessorRefIndex,
		keyAttr: "processor_reference",
		value:   reference,
	}, 1)
	if err != nil || len(items) == 0 {
		return entities.PaymentIntent{}, err
	}
	// GSIs are eventually consistent; re-read the base item.
	return r.GetByOrderID(ctx, items[0].OrderID)
}

func (r *PaymentIntentDynamoRepository) UpdateStatus(ctx context.Context, intent entities.PaymentIntent, expected entities.IntentStatus) error {
	it, err := toPaymentIntentItem(intent)
	if err != nil {
		return err
	}
	return replaceIf(ctx, r.ddb, r.tableName, it, "status", string(expected))
}

func (r *PaymentIntentDynamoRepository) ListExpired(ctx context.Context, now time.Time, limit int32) ([]entities.PaymentIntent, error) {
	items, err := queryIndex[paymentIntentItem](ctx, r.ddb, r.tableName, indexQuery{
		index:     intentsExpiryIndex,
		keyAttr:   "status",
		value:     string(entities.IntentStatusPending),
		rangeAttr: "expires_at",
		upTo:      formatTime(now),
	}, limit)
	if err != nil {
		return nil, err
	}
	out := make([]entities.PaymentIntent, 0, len(items))
	for _, it := range items {
		intent, err := fromPaymentIntentItem(it)
		if err != nil {
			return nil, err
		}
		out = append(out, intent)
	}
	return out, nil
}

func toPaymentIntentItem(i entities.PaymentIntent) (paymentIntentItem, error) {
	it := paymentIntentItem{
		OrderID:            i.OrderID,
		ProcessorReference: i.ProcessorReference,
		Instrument:         string(i.Instrument),
		Status:             string(i.Status),
		Amount:             i.Amount.String(),
		PurchaserID:        i.Purchaser.ID,
		PurchaserName:      i.Purchaser.Name,
		PurchaserEmail:     i.Purchaser.Email,
		PurchaserTaxID:     i.Purchaser.TaxID,
		OfferingID:         i.OfferingID,
		CouponID:           i.CouponID,
		CreatedBy:          i.CreatedBy,
		BusinessKey:        i.BusinessKey,
		CreatedAt:          formatTime(i.CreatedAt),
		ExpiresAt:          formatTimePtr(i.ExpiresAt),
		ConfirmedAt:        formatTimePtr(i.ConfirmedAt),
		FailureReason:      i.FailureReason,
	}
	if p := i.Payload(); p != nil {
		raw, err := json.Marshal(p)
		if err != nil {
			return paymentIntentItem{}, err
		}
		it.PayloadType = string(p.Instrument())
		it.Payload = string(raw)
	}
	return it, nil
}

func fromPaymentIntentItem(it paymentIntentItem) (entities.PaymentIntent, error) {
	intent := entities.PaymentIntent{
		OrderID:            it.OrderID,
		ProcessorReference: it.ProcessorReference,
		Instrument:         entities.SettlementInstrument(it.Instrument),
		Status:             entities.IntentStatus(it.Status),
		Amount:             parseDecimal(it.Amount),
		Purchaser: entities.Purchaser{
			ID:    it.PurchaserID,
			Name:  it.PurchaserName,
			Email: it.PurchaserEmail,
			TaxID: it.PurchaserTaxID,
		},
		OfferingID:    it.OfferingID,
		CouponID:      it.CouponID,
		CreatedBy:     it.CreatedBy,
		BusinessKey:   it.BusinessKey,
		CreatedAt:     parseTime(it.CreatedAt),
		ExpiresAt:     parseTimePtr(it.ExpiresAt),
		ConfirmedAt:   parseTimePtr(it.ConfirmedAt),
		FailureReason: it.FailureReason,
	}
	payload, err := decodePayload(it.PayloadType, it.Payload)
	if err != nil {
		return entities.PaymentIntent{}, fmt.Errorf("intent %s: %w", it.OrderID, err)
	}
	if err := intent.SetPayload(payload); err != nil {
		return entities.PaymentIntent{}, err
	}
	return intent, nil
}

func decodePayload(kind, raw string) (entities.InstrumentPayload, error) {
	if raw == "" {
		return nil, nil
	}
	switch entities.SettlementInstrument(kind) {
	case entities.InstrumentPix:
		var p entities.PixPayload
		err := json.Unmarshal([]byte(raw), &p)
		return p, err
	case entities.InstrumentBoleto:
		var p entities.BoletoPayload
		err := json.Unmarshal([]byte(raw), &p)
		return p, err
	case entities.InstrumentCreditCard:
		var p entities.CardPayload
		err := json.Unmarshal([]byte(raw), &p)
		return p, err
	}
	return nil, fmt.Errorf("unknown payload type %q", kind)
}
