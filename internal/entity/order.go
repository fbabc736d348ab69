package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfilment state of an order. Only admins change it
// after placement.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// OrderStatuses lists every status in lifecycle order.
func OrderStatuses() []OrderStatus {
	return []OrderStatus{
		OrderStatusPending,
		OrderStatusConfirmed,
		OrderStatusProcessing,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusCancelled,
	}
}

func (s OrderStatus) Valid() bool {
	return slices.Contains(OrderStatuses(), s)
}

// ParseOrderStatus accepts any casing of the six statuses.
func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	if !status.Valid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// PaymentMethod identifies how the customer pays.
type PaymentMethod string

const (
	PaymentCard       PaymentMethod = "card"
	PaymentUPI        PaymentMethod = "upi"
	PaymentNetBanking PaymentMethod = "netbanking"
	PaymentCOD        PaymentMethod = "cod"
)

// Enabled reports whether the method can be used end to end. Only cash on
// delivery is wired; the rest are listed but disabled.
func (m PaymentMethod) Enabled() bool {
	return m == PaymentCOD
}

// PaymentOption is a row of the payment step.
type PaymentOption struct {
	Method      PaymentMethod `json:"method"`
	Label       string        `json:"label"`
	Description string        `json:"description"`
	Enabled     bool          `json:"enabled"`
}

// PaymentOptions returns the methods shown at checkout.
func PaymentOptions() []PaymentOption {
	opts := []PaymentOption{
		{Method: PaymentCard, Label: "Credit/Debit Card", Description: "Visa, Mastercard, RuPay"},
		{Method: PaymentUPI, Label: "UPI", Description: "Google Pay, PhonePe, Paytm"},
		{Method: PaymentNetBanking, Label: "Net Banking", Description: "All major banks supported"},
		{Method: PaymentCOD, Label: "Cash on Delivery", Description: "Pay when you receive"},
	}
	for i := range opts {
		opts[i].Enabled = opts[i].Method.Enabled()
	}
	return opts
}

// ShippingAddress is stored as JSONB on the order row.
type ShippingAddress struct {
	FullName     string `json:"full_name" validate:"required"`
	Phone        string `json:"phone" validate:"required"`
	AddressLine1 string `json:"address_line1" validate:"required"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state" validate:"required"`
	Pincode      string `json:"pincode" validate:"required,pincode"`
}

func (a ShippingAddress) Value() (driver.Value, error) {
	return json.Marshal(a)
}

func (a *ShippingAddress) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	case nil:
		*a = ShippingAddress{}
		return nil
	default:
		return fmt.Errorf("unsupported shipping address type %T", src)
	}
	return json.Unmarshal(raw, a)
}

// Order is a placed order with its item snapshot.
type Order struct {
	ID              string          `json:"id"`
	OrderNumber     string          `json:"order_number"`
	UserID          string          `json:"user_id"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	PaymentMethod   PaymentMethod   `json:"payment_method"`
	Status          OrderStatus     `json:"status"`
	PaymentStatus   PaymentStatus   `json:"payment_status"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DeliveryCharge  decimal.Decimal `json:"delivery_charge"`
	Discount        decimal.Decimal `json:"discount"`
	Total           decimal.Decimal `json:"total"`
	Notes           string          `json:"notes"`
	Items           []OrderItem     `json:"items"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// OrderItem snapshots a cart line at purchase time. Later product edits
// never reach it.
type OrderItem struct {
	ID           string          `json:"id"`
	OrderID      string          `json:"order_id"`
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductImage *string         `json:"product_image"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ComputeTotal is subtotal - discount + delivery, rounded to paise.
func ComputeTotal(subtotal, discount, deliveryCharge decimal.Decimal) decimal.Decimal {
	return subtotal.Sub(discount).Add(deliveryCharge).Round(2)
}

// Consistent reports whether the totals agree with each other and with the
// item snapshot.
func (o Order) Consistent() bool {
	if !o.Total.Equal(ComputeTotal(o.Subtotal, o.Discount, o.DeliveryCharge)) {
		return false
	}
	sum := decimal.Zero
	for _, item := range o.Items {
		sum = sum.Add(item.LineTotal())
	}
	return sum.Round(2).Equal(o.Subtotal.Round(2))
}

// PlaceOrder is the input for creating an order from a cart.
type PlaceOrder struct {
	UserID          string
	ShippingAddress ShippingAddress
	PaymentMethod   PaymentMethod
	Coupon          Coupon
	Eligibility     Eligibility
	Notes           string
}

// NewOrderFromCart prices the cart and snapshots its lines. The order number
// is assigned by storage.
func NewOrderFromCart(cmd PlaceOrder, cart *Cart) (*Order, error) {
	if cart == nil || cart.IsEmpty() {
		return nil, ErrEmptyCart
	}
	if !cmd.PaymentMethod.Enabled() {
		return nil, ErrPaymentUnavailable
	}

	summary := cart.Summary(cmd.Coupon, &cmd.Eligibility)
	order := &Order{
		UserID:          cmd.UserID,
		ShippingAddress: cmd.ShippingAddress,
		PaymentMethod:   cmd.PaymentMethod,
		Status:          OrderStatusPending,
		PaymentStatus:   PaymentStatusPending,
		Subtotal:        summary.Subtotal,
		DeliveryCharge:  summary.DeliveryCharge,
		Discount:        summary.Discount,
		Total:           summary.Total,
		Notes:           strings.TrimSpace(cmd.Notes),
		Items:           make([]OrderItem, 0, len(cart.Items)),
	}
	for _, line := range cart.Items {
		order.Items = append(order.Items, OrderItem{
			ProductID:    line.ProductID,
			ProductName:  line.Product.Name,
			ProductImage: line.Product.ImageURL,
			Quantity:     line.Quantity,
			Price:        line.Product.Price,
		})
	}
	if !order.Consistent() {
		return nil, errors.New("order totals are inconsistent")
	}
	return order, nil
}

// NormalizeOrderNumber trims and upper-cases user input.
func NormalizeOrderNumber(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// TrackingStep is one stage of the customer tracking timeline.
type TrackingStep struct {
	Status    OrderStatus `json:"status"`
	Label     string      `json:"label"`
	Completed bool        `json:"completed"`
	Current   bool        `json:"current"`
}

// Progress is the timeline view of an order.
type Progress struct {
	Steps     []TrackingStep `json:"steps"`
	Current   int            `json:"current"`
	Cancelled bool           `json:"cancelled"`
}

var trackingSteps = []TrackingStep{
	{Status: OrderStatusPending, Label: "Order Placed"},
	{Status: OrderStatusProcessing, Label: "Processing"},
	{Status: OrderStatusShipped, Label: "Shipped"},
	{Status: OrderStatusDelivered, Label: "Delivered"},
}

// Progress maps the status onto the four display steps. Statuses without a
// step of their own (confirmed, cancelled) sit on the first one.
func (o Order) Progress() Progress {
	current := 0
	for i, step := range trackingSteps {
		if step.Status == o.Status {
			current = i
			break
		}
	}
	steps := make([]TrackingStep, len(trackingSteps))
	for i, step := range trackingSteps {
		step.Completed = i <= current
		step.Current = i == current
		steps[i] = step
	}
	return Progress{
		Steps:     steps,
		Current:   current,
		Cancelled: o.Status == OrderStatusCancelled,
	}
}
