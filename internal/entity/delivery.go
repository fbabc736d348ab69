package entity

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// FreeDeliveryThreshold is the subtotal above which delivery is free when
	// no delivery area has been resolved yet.
	FreeDeliveryThreshold = decimal.NewFromInt(2000)
	// DefaultDeliveryCharge applies below the threshold.
	DefaultDeliveryCharge = decimal.NewFromInt(99)
)

// DeliveryArea is an admin-defined serviceable pincode.
type DeliveryArea struct {
	ID             string          `json:"id"`
	Pincode        string          `json:"pincode"`
	AreaName       string          `json:"area_name"`
	City           string          `json:"city"`
	DeliveryCharge decimal.Decimal `json:"delivery_charge"`
	EstimatedDays  int             `json:"estimated_days"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Validate checks the admin form for a delivery area.
func (a DeliveryArea) Validate() error {
	if !ValidPincode(a.Pincode) {
		return ErrInvalidPincode
	}
	if strings.TrimSpace(a.AreaName) == "" {
		return ValidationError{Field: "area_name", Message: "is required"}
	}
	if strings.TrimSpace(a.City) == "" {
		return ValidationError{Field: "city", Message: "is required"}
	}
	if a.DeliveryCharge.IsNegative() {
		return ValidationError{Field: "delivery_charge", Message: "must not be negative"}
	}
	if a.EstimatedDays < 1 {
		return ValidationError{Field: "estimated_days", Message: "must be at least 1"}
	}
	return nil
}

// ValidPincode reports whether s is exactly six ASCII digits.
func ValidPincode(s string) bool {
	if len(s) != 6 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// EligibilityState is the outcome of a pincode check.
type EligibilityState string

const (
	EligibilityUnknown     EligibilityState = "unknown"
	EligibilityAvailable   EligibilityState = "available"
	EligibilityUnavailable EligibilityState = "unavailable"
)

// Eligibility is the advisory result of a delivery check. It reserves nothing.
type Eligibility struct {
	State          EligibilityState `json:"state"`
	Pincode        string           `json:"pincode,omitempty"`
	AreaName       string           `json:"area_name,omitempty"`
	City           string           `json:"city,omitempty"`
	DeliveryCharge decimal.Decimal  `json:"delivery_charge"`
	EstimatedDays  int              `json:"estimated_days,omitempty"`
	ChargeLabel    string           `json:"charge_label,omitempty"`
	ETALabel       string           `json:"eta_label,omitempty"`
}

// UnknownEligibility is the reset state used for malformed input.
func UnknownEligibility() Eligibility {
	return Eligibility{State: EligibilityUnknown}
}

// UnavailableAt is the negative result for a well-formed pincode.
func UnavailableAt(pincode string) Eligibility {
	return Eligibility{State: EligibilityUnavailable, Pincode: pincode}
}

// AvailableIn builds a positive result from an active area.
func AvailableIn(area DeliveryArea) Eligibility {
	return Eligibility{
		State:          EligibilityAvailable,
		Pincode:        area.Pincode,
		AreaName:       area.AreaName,
		City:           area.City,
		DeliveryCharge: area.DeliveryCharge,
		EstimatedDays:  area.EstimatedDays,
		ChargeLabel:    ChargeLabel(area.DeliveryCharge),
		ETALabel:       ETALabel(area.EstimatedDays),
	}
}

// Available reports whether delivery is possible.
func (e Eligibility) Available() bool {
	return e.State == EligibilityAvailable
}

// MarshalJSON adds the boolean flag the storefront renders from.
func (e Eligibility) MarshalJSON() ([]byte, error) {
	type alias Eligibility
	return json.Marshal(struct {
		alias
		IsAvailable bool `json:"available"`
	}{alias(e), e.Available()})
}

// ChargeLabel renders a delivery charge for display.
func ChargeLabel(charge decimal.Decimal) string {
	if charge.IsZero() {
		return "FREE"
	}
	return "₹" + charge.String()
}

// ETALabel renders an estimated delivery time for display.
func ETALabel(days int) string {
	if days == 1 {
		return "Same Day"
	}
	return fmt.Sprintf("%d Days", days)
}

// DeliveryChargeFor returns the area's charge when delivery has been
// confirmed, otherwise the free-over-threshold fallback.
func DeliveryChargeFor(subtotal decimal.Decimal, e *Eligibility) decimal.Decimal {
	if e != nil && e.Available() {
		return e.DeliveryCharge
	}
	if subtotal.GreaterThan(FreeDeliveryThreshold) {
		return decimal.Zero
	}
	return DefaultDeliveryCharge
}
