package entity

import (
	"strings"
	"time"
)

// CheckoutStep is a state of the checkout wizard.
type CheckoutStep string

const (
	StepAddress CheckoutStep = "address"
	StepPayment CheckoutStep = "payment"
	StepReview  CheckoutStep = "review"
	StepPlaced  CheckoutStep = "placed"
)

// Checkout is the per-user wizard state. It moves address -> payment ->
// review -> placed, with Back allowed from payment and review. A failed
// transition leaves it unchanged.
type Checkout struct {
	UserID        string          `json:"user_id"`
	Step          CheckoutStep    `json:"step"`
	Address       ShippingAddress `json:"address"`
	Eligibility   Eligibility     `json:"eligibility"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	CouponCode    string          `json:"coupon_code,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	OrderNumber   string          `json:"order_number,omitempty"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// NewCheckout starts a wizard at the address step with cash on delivery
// preselected.
func NewCheckout(userID string) *Checkout {
	return &Checkout{
		UserID:        userID,
		Step:          StepAddress,
		Eligibility:   UnknownEligibility(),
		PaymentMethod: PaymentCOD,
	}
}

// SetAddress replaces the address form. It reports whether the pincode now
// needs an eligibility check. A malformed pincode resets eligibility to
// unknown without a lookup.
func (c *Checkout) SetAddress(addr ShippingAddress) (needsCheck bool, err error) {
	if c.Step != StepAddress {
		return false, ErrCheckoutStep
	}
	addr.Pincode = strings.TrimSpace(addr.Pincode)
	c.Address = addr
	if !ValidPincode(addr.Pincode) {
		c.Eligibility = UnknownEligibility()
		return false, nil
	}
	return c.Eligibility.Pincode != addr.Pincode || !c.Eligibility.Available(), nil
}

// SetEligibility records a check result. Results for a pincode other than
// the one currently entered are dropped.
func (c *Checkout) SetEligibility(e Eligibility) {
	if e.Pincode != c.Address.Pincode {
		return
	}
	c.Eligibility = e
}

// CanContinue reports whether Continue would succeed.
func (c *Checkout) CanContinue() bool {
	return c.continueError() == nil
}

func (c *Checkout) continueError() error {
	switch c.Step {
	case StepAddress:
		if err := Validate(c.Address); err != nil {
			return err
		}
		if !c.Eligibility.Available() || c.Eligibility.Pincode != c.Address.Pincode {
			return ErrNotServiceable
		}
		return nil
	case StepPayment:
		if !c.PaymentMethod.Enabled() {
			return ErrPaymentUnavailable
		}
		return nil
	default:
		return ErrCheckoutStep
	}
}

// Continue advances one step. Review is left only through placement.
func (c *Checkout) Continue() error {
	if err := c.continueError(); err != nil {
		return err
	}
	switch c.Step {
	case StepAddress:
		c.Step = StepPayment
	case StepPayment:
		c.Step = StepReview
	}
	return nil
}

// Back returns to the previous step keeping all entered data.
func (c *Checkout) Back() error {
	switch c.Step {
	case StepPayment:
		c.Step = StepAddress
	case StepReview:
		c.Step = StepPayment
	default:
		return ErrCheckoutStep
	}
	return nil
}

// SelectPayment picks a payment method on the payment step.
func (c *Checkout) SelectPayment(m PaymentMethod) error {
	if c.Step != StepPayment {
		return ErrCheckoutStep
	}
	if !m.Enabled() {
		return ErrPaymentUnavailable
	}
	c.PaymentMethod = m
	return nil
}

// ApplyCoupon stores a valid coupon code in canonical form.
func (c *Checkout) ApplyCoupon(code string) (Coupon, error) {
	if c.Step == StepPlaced {
		return Coupon{}, ErrCheckoutStep
	}
	coupon, err := LookupCoupon(code)
	if err != nil {
		return Coupon{}, err
	}
	c.CouponCode = coupon.Code
	return coupon, nil
}

func (c *Checkout) RemoveCoupon() {
	c.CouponCode = ""
}

// Coupon returns the applied coupon or the zero Coupon.
func (c *Checkout) Coupon() Coupon {
	if c.CouponCode == "" {
		return Coupon{}
	}
	coupon, err := LookupCoupon(c.CouponCode)
	if err != nil {
		return Coupon{}
	}
	return coupon
}

// CanPlace reports whether an order may be placed from the current step.
func (c *Checkout) CanPlace() error {
	if c.Step != StepReview {
		return ErrCheckoutStep
	}
	return nil
}

// PlaceCommand builds the order input from the wizard state.
func (c *Checkout) PlaceCommand() PlaceOrder {
	return PlaceOrder{
		UserID:          c.UserID,
		ShippingAddress: c.Address,
		PaymentMethod:   c.PaymentMethod,
		Coupon:          c.Coupon(),
		Eligibility:     c.Eligibility,
		Notes:           c.Notes,
	}
}

// MarkPlaced moves the wizard to its terminal state.
func (c *Checkout) MarkPlaced(orderNumber string) {
	c.Step = StepPlaced
	c.OrderNumber = orderNumber
}
