package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mahalaxmi-auto/storefront/internal/entity"
	"github.com/mahalaxmi-auto/storefront/internal/repository"
)

// CartService orchestrates shopping cart logic.
type CartService struct {
	carts    repository.CartRepository
	products repository.ProductRepository
}

func NewCartService(carts repository.CartRepository, products repository.ProductRepository) *CartService {
	return &CartService{
		carts:    carts,
		products: products,
	}
}

// Add puts qty units of a product in the cart, merging with an existing row.
func (s *CartService) Add(ctx context.Context, sess *entity.Session, productID string, qty int) (*entity.CartItem, error) {
	if err := requireUser(sess); err != nil {
		return nil, err
	}
	if qty < 1 {
		return nil, entity.ErrInvalidQuantity
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, entity.ErrNotFound
	}
	if !product.InStock() {
		return nil, entity.OutOfStockError{ProductID: product.ID, ProductName: product.Name}
	}

	slog.Debug("Adding item to cart", "user_id", sess.UserID, "product_id", productID, "quantity", qty)
	item, err := s.carts.AddOrIncrement(ctx, sess.UserID, productID, qty)
	if err != nil {
		return nil, fmt.Errorf("failed to add item to cart: %w", err)
	}
	item.Product = *product
	return item, nil
}

// UpdateQuantity sets the quantity verbatim; anything below one removes the row.
func (s *CartService) UpdateQuantity(ctx context.Context, sess *entity.Session, itemID string, qty int) error {
	if err := requireUser(sess); err != nil {
		return err
	}
	if qty < 1 {
		return s.carts.Delete(ctx, sess.UserID, itemID)
	}
	return s.carts.SetQuantity(ctx, sess.UserID, itemID, qty)
}

func (s *CartService) Remove(ctx context.Context, sess *entity.Session, itemID string) error {
	if err := requireUser(sess); err != nil {
		return err
	}
	return s.carts.Delete(ctx, sess.UserID, itemID)
}

func (s *CartService) Clear(ctx context.Context, sess *entity.Session) error {
	if err := requireUser(sess); err != nil {
		return err
	}
	return s.carts.Clear(ctx, sess.UserID)
}

// Get loads the current cart rows with their products.
func (s *CartService) Get(ctx context.Context, sess *entity.Session) (*entity.Cart, error) {
	if err := requireUser(sess); err != nil {
		return nil, err
	}
	items, err := s.carts.ListByUser(ctx, sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return &entity.Cart{UserID: sess.UserID, Items: items}, nil
}
