package repository

import (
	"context"
	"time"

	"github.com/mahalaxmi-auto/storefront/internal/entity"
)

// ProductRepository handles persistence for Products.
type ProductRepository interface {
	List(ctx context.Context, filter entity.ProductFilter) ([]entity.Product, int, error)
	ListAll(ctx context.Context) ([]entity.Product, error)
	FindByID(ctx context.Context, id string) (*entity.Product, error)
	Suggest(ctx context.Context, query string, limit int) ([]entity.Product, error)
	Create(ctx context.Context, p *entity.Product) error
	Update(ctx context.Context, p *entity.Product) error
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
	// Seed inserts initial products if none exist.
	Seed(ctx context.Context, products []entity.Product) error
}

// CartRepository handles persistence for cart rows. Every method is scoped
// to a user.
type CartRepository interface {
	// AddOrIncrement inserts the row or adds qty to the existing one in a
	// single statement.
	AddOrIncrement(ctx context.Context, userID, productID string, qty int) (*entity.CartItem, error)
	SetQuantity(ctx context.Context, userID, itemID string, qty int) error
	Delete(ctx context.Context, userID, itemID string) error
	Clear(ctx context.Context, userID string) error
	ListByUser(ctx context.Context, userID string) ([]entity.CartItem, error)
}

// DeliveryAreaRepository handles persistence for serviceable pincodes.
type DeliveryAreaRepository interface {
	FindActiveByPincode(ctx context.Context, pincode string) (*entity.DeliveryArea, error)
	List(ctx context.Context) ([]entity.DeliveryArea, error)
	FindByID(ctx context.Context, id string) (*entity.DeliveryArea, error)
	Create(ctx context.Context, a *entity.DeliveryArea) error
	Update(ctx context.Context, a *entity.DeliveryArea) error
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}

// OrderRepository handles persistence for Orders.
type OrderRepository interface {
	// Create assigns the order number and inserts the order with its items
	// in one transaction.
	Create(ctx context.Context, order *entity.Order) error
	FindByID(ctx context.Context, id string) (*entity.Order, error)
	FindByNumber(ctx context.Context, orderNumber string) (*entity.Order, error)
	ListByUser(ctx context.Context, userID string) ([]entity.Order, error)
	List(ctx context.Context, query string, limit int) ([]entity.Order, error)
	// UpdateStatus writes the new status and returns the order as it was
	// before the write.
	UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) (*entity.Order, error)
	Stats(ctx context.Context) (*entity.OverviewStats, error)
}

// ReviewRepository handles persistence for product reviews.
type ReviewRepository interface {
	Upsert(ctx context.Context, r *entity.ProductReview) error
	Delete(ctx context.Context, userID, productID string) (int64, error)
	ListByProduct(ctx context.Context, productID string) ([]entity.ProductReview, error)
}

// WishlistRepository handles persistence for saved products.
type WishlistRepository interface {
	Add(ctx context.Context, userID, productID string) (*entity.WishlistItem, error)
	Remove(ctx context.Context, userID, productID string) error
	ListByUser(ctx context.Context, userID string) ([]entity.WishlistItem, error)
}

// UserRepository handles credentials and profiles.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User, profile *entity.Profile) error
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindProfile(ctx context.Context, userID string) (*entity.Profile, error)
	UpdateProfile(ctx context.Context, p *entity.Profile) error
	ListProfiles(ctx context.Context) ([]entity.Profile, error)
}

// AuditLog appends and lists admin audit entries. Entries are never
// mutated or deleted.
type AuditLog interface {
	Append(ctx context.Context, entry *entity.AuditLogEntry) error
	List(ctx context.Context, filter entity.AuditFilter) ([]entity.AuditLogEntry, error)
}

// SessionStore keeps authenticated sessions.
type SessionStore interface {
	Save(ctx context.Context, s *entity.Session, ttl time.Duration) error
	Get(ctx context.Context, id string) (*entity.Session, error)
	Delete(ctx context.Context, id string) error
}

// CheckoutStore keeps the checkout wizard between requests.
type CheckoutStore interface {
	Load(ctx context.Context, userID string) (*entity.Checkout, error)
	Save(ctx context.Context, c *entity.Checkout, ttl time.Duration) error
	Delete(ctx context.Context, userID string) error
}
