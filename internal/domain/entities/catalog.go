package entities

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Offering is a sellable course, owned by the catalog. ServiceCode is the
// municipal service list item (LC 116) printed on the NFS-e.
type Offering struct {
	ID                    string          `json:"id"`
	Title                 string          `json:"title"`
	Price                 decimal.Decimal `json:"price"`
	RequiresFiscalInvoice bool            `json:"requires_fiscal_invoice"`
	ServiceCode           string          `json:"service_code,omitempty"`
	MunicipalityCode      string          `json:"municipality_code,omitempty"`
	Active                bool            `json:"active"`
}

type CouponKind string

const (
	CouponKindPercent CouponKind = "percent"
	CouponKindFixed   CouponKind = "fixed"
)

var (
	ErrCouponUnavailable = errors.New("coupon unavailable")
	ErrCouponInvalid     = errors.New("coupon invalid")
)

type Coupon struct {
	ID        string          `json:"id"`
	Code      string          `json:"code"`
	Kind      CouponKind      `json:"kind"`
	Value     decimal.Decimal `json:"value"`
	Active    bool            `json:"active"`
	ExpiresAt *time.Time      `json:"expires_at,omitempty"`
}

// DiscountFor returns the discount the coupon grants on price, capped at price
// and rounded to cents.
func (c Coupon) DiscountFor(price decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	if !c.Active || (c.ExpiresAt != nil && !now.Before(*c.ExpiresAt)) {
		return decimal.Zero, ErrCouponUnavailable
	}
	if c.Value.IsNegative() {
		return decimal.Zero, ErrCouponInvalid
	}
	var discount decimal.Decimal
	switch c.Kind {
	case CouponKindPercent:
		if c.Value.GreaterThan(decimal.NewFromInt(100)) {
			return decimal.Zero, ErrCouponInvalid
		}
		discount = price.Mul(c.Value).Div(decimal.NewFromInt(100)).Round(2)
	case CouponKindFixed:
		discount = c.Value
	default:
		return decimal.Zero, ErrCouponInvalid
	}
	if discount.GreaterThan(price) {
		discount = price
	}
	return discount, nil
}
