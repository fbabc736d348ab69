package service

import (
	"context"

	"github.com/mahalaxmi-auto/storefront/internal/entity"
	"github.com/mahalaxmi-auto/storefront/internal/repository"
)

type WishlistService struct {
	wishlist repository.WishlistRepository
	products repository.ProductRepository
}

func NewWishlistService(wishlist repository.WishlistRepository, products repository.ProductRepository) *WishlistService {
	return &WishlistService{wishlist: wishlist, products: products}
}

func (s *WishlistService) Add(ctx context.Context, sess *entity.Session, productID string) (*entity.WishlistItem, error) {
	if err := requireUser(sess); err != nil {
		return nil, err
	}
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	item, err := s.wishlist.Add(ctx, sess.UserID, productID)
	if err != nil {
		return nil, err
	}
	item.Product = *product
	return item, nil
}

func (s *WishlistService) Remove(ctx context.Context, sess *entity.Session, productID string) error {
	if err := requireUser(sess); err != nil {
		return err
	}
	return s.wishlist.Remove(ctx, sess.UserID, productID)
}

func (s *WishlistService) List(ctx context.Context, sess *entity.Session) ([]entity.WishlistItem, error) {
	if err := requireUser(sess); err != nil {
		return nil, err
	}
	return s.wishlist.ListByUser(ctx, sess.UserID)
}
