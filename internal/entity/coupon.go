package entity

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Coupon is a percentage discount on the cart subtotal.
type Coupon struct {
	Code    string          `json:"code"`
	Percent decimal.Decimal `json:"percent"`
}

var coupons = map[string]Coupon{
	"SAVE10": {Code: "SAVE10", Percent: decimal.NewFromInt(10)},
}

// LookupCoupon resolves a code case-insensitively.
func LookupCoupon(code string) (Coupon, error) {
	c, ok := coupons[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return Coupon{}, ErrInvalidCoupon
	}
	return c, nil
}

// DiscountOn returns the discount for subtotal, rounded to paise.
func (c Coupon) DiscountOn(subtotal decimal.Decimal) decimal.Decimal {
	if c.Code == "" {
		return decimal.Zero
	}
	return subtotal.Mul(c.Percent).Div(decimal.NewFromInt(100)).Round(2)
}
