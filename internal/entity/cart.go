package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is one (user, product) row of a cart. Quantity is always >= 1.
type CartItem struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Product   Product   `json:"product"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LineTotal is price times quantity.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is the loaded set of a user's cart rows. Totals are derived on
// every call and never stored.
type Cart struct {
	UserID string     `json:"user_id"`
	Items  []CartItem `json:"items"`
}

// Subtotal sums the line totals of the loaded items.
func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range c.Items {
		sum = sum.Add(item.LineTotal())
	}
	return sum.Round(2)
}

// ItemCount sums quantities.
func (c *Cart) ItemCount() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// CartSummary is the price breakdown shown on the cart and review pages.
type CartSummary struct {
	ItemCount      int             `json:"item_count"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Discount       decimal.Decimal `json:"discount"`
	DeliveryCharge decimal.Decimal `json:"delivery_charge"`
	Total          decimal.Decimal `json:"total"`
	CouponCode     string          `json:"coupon_code,omitempty"`
}

// Summary prices the cart with an optional coupon and resolved delivery area.
func (c *Cart) Summary(coupon Coupon, eligibility *Eligibility) CartSummary {
	subtotal := c.Subtotal()
	discount := coupon.DiscountOn(subtotal)
	delivery := DeliveryChargeFor(subtotal, eligibility)
	return CartSummary{
		ItemCount:      c.ItemCount(),
		Subtotal:       subtotal,
		Discount:       discount,
		DeliveryCharge: delivery,
		Total:          ComputeTotal(subtotal, discount, delivery),
		CouponCode:     coupon.Code,
	}
}
