package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a part in the catalog.
type Product struct {
	ID               string              `json:"id"`
	Name             string              `json:"name"`
	Brand            string              `json:"brand"`
	Category         string              `json:"category"`
	Description      string              `json:"description"`
	Price            decimal.Decimal     `json:"price"`
	OriginalPrice    decimal.NullDecimal `json:"original_price"`
	ImageURL         *string             `json:"image_url"`
	Stock            int                 `json:"stock"`
	CompatibleModels []string            `json:"compatible_models"`
	IsActive         bool                `json:"is_active"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// InStock reports whether at least one unit is available.
func (p Product) InStock() bool {
	return p.Stock > 0
}

// ProductFilter narrows storefront listings.
type ProductFilter struct {
	Category string
	Brands   []string
	Search   string
	Sort     string // "price-low", "price-high", "newest", "name"
	Page     int
	Limit    int
}

// Normalize clamps paging values.
func (f *ProductFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = 24
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
}

// Offset returns the row offset for the current page.
func (f ProductFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// ProductReview is a customer's rating of a product. One per (user, product).
type ProductReview struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	UserID    string    `json:"user_id"`
	Rating    int       `json:"rating"`
	Title     string    `json:"title"`
	Comment   string    `json:"comment"`
	UserName  string    `json:"user_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WishlistItem is a saved product.
type WishlistItem struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	Product   Product   `json:"product"`
	CreatedAt time.Time `json:"created_at"`
}

// User holds login credentials.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Profile is the customer-facing account record.
type Profile struct {
	UserID    string    `json:"user_id"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Session is the authenticated identity passed explicitly to use cases.
// It is established at sign-in and invalidated at sign-out.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"is_admin"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// OverviewStats feeds the admin dashboard.
type OverviewStats struct {
	Products         int             `json:"products"`
	Customers        int             `json:"customers"`
	Orders           int             `json:"orders"`
	Revenue          decimal.Decimal `json:"revenue"`
	PendingOrders    int             `json:"pending_orders"`
	ProcessingOrders int             `json:"processing_orders"`
	DeliveredOrders  int             `json:"delivered_orders"`
	RecentOrders     []Order         `json:"recent_orders"`
}
