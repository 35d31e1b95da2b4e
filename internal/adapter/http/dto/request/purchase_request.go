package request

import (
	"errors"
	"strings"
	"unicode"

	"checkout_service/internal/domain/entities"

	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("amount must be a positive decimal with at most two places")

type PurchaserRequest struct {
	ID    string `json:"id" binding:"required"`
	Name  string `json:"name"`
	Email string `json:"email" binding:"omitempty,email"`
	// TaxID accepts CPF/CNPJ with or without punctuation.
	TaxID string `json:"tax_id"`
}

type CardRequest struct {
	Token           string `json:"token" binding:"required"`
	PaymentMethodID string `json:"payment_method_id" binding:"required"`
	IssuerID        string `json:"issuer_id"`
}

// PurchaseCreateRequest is the checkout payload. Card data must already be
// tokenized by the processor's client-side SDK.
type PurchaseCreateRequest struct {
	Purchaser    PurchaserRequest `json:"purchaser" binding:"required"`
	OfferingID   string           `json:"offering_id" binding:"required"`
	CouponID     string           `json:"coupon_id"`
	Amount       decimal.Decimal  `json:"amount" swaggertype:"string" example:"399.20"`
	Instrument   string           `json:"instrument" binding:"required,oneof=pix credit_card boleto"`
	Installments int              `json:"installments" binding:"omitempty,min=1,max=12"`
	Card         *CardRequest     `json:"card"`
}

func (r PurchaseCreateRequest) ToEntity(createdBy string) (entities.PurchaseRequest, error) {
	if !r.Amount.IsPositive() || !r.Amount.Equal(r.Amount.Round(2)) {
		return entities.PurchaseRequest{}, ErrInvalidAmount
	}
	out := entities.PurchaseRequest{
		Purchaser: entities.Purchaser{
			ID:    strings.TrimSpace(r.Purchaser.ID),
			Name:  strings.TrimSpace(r.Purchaser.Name),
			Email: strings.TrimSpace(r.Purchaser.Email),
			TaxID: digitsOnly(r.Purchaser.TaxID),
		},
		Amount:       r.Amount,
		Instrument:   entities.SettlementInstrument(r.Instrument),
		Installments: r.Installments,
		OfferingID:   strings.TrimSpace(r.OfferingID),
		CouponID:     strings.TrimSpace(r.CouponID),
		CreatedBy:    createdBy,
	}
	if r.Card != nil {
		out.Card = &entities.CardData{
			Token:           strings.TrimSpace(r.Card.Token),
			PaymentMethodID: strings.TrimSpace(r.Card.PaymentMethodID),
			IssuerID:        strings.TrimSpace(r.Card.IssuerID),
		}
	}
	return out, nil
}

func digitsOnly(v string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, v)
}
