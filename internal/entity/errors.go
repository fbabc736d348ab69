package entity

import (
	"errors"
	"fmt"
)

// Validation failures. These are detected before any storage round trip.
var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidPincode     = fmt.Errorf("%w: pincode must be 6 digits", ErrValidation)
	ErrPasswordMismatch   = fmt.Errorf("%w: passwords do not match", ErrValidation)
	ErrInvalidQuantity    = fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	ErrInvalidStatus      = fmt.Errorf("%w: invalid order status", ErrValidation)
	ErrInvalidRating      = fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	ErrInvalidCoupon      = fmt.Errorf("%w: invalid coupon code", ErrValidation)
	ErrPaymentUnavailable = fmt.Errorf("%w: payment method is not available", ErrValidation)
	ErrCheckoutStep       = fmt.Errorf("%w: action not allowed at this checkout step", ErrValidation)
	ErrEmptyCart          = fmt.Errorf("%w: cart is empty", ErrValidation)
)

// Negative results that are shown to the user as-is.
var (
	ErrNotFound          = errors.New("not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrNotServiceable    = errors.New("delivery is not available for this pincode")
	ErrAlreadyInWishlist = errors.New("item already in wishlist")
	ErrDuplicatePincode  = errors.New("this pincode already exists")
	ErrEmailTaken        = errors.New("email already registered")
	ErrOutOfStock        = errors.New("insufficient stock")
)

// Authentication and authorization.
var (
	ErrUnauthorized       = errors.New("please login to continue")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ValidationError names the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

func (e ValidationError) Unwrap() error {
	return ErrValidation
}

// OutOfStockError carries the product that could not be reserved.
type OutOfStockError struct {
	ProductID   string
	ProductName string
}

func (e OutOfStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s", e.ProductName)
}

func (e OutOfStockError) Unwrap() error {
	return ErrOutOfStock
}
