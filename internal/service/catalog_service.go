package service

import (
	"context"
	"strings"

	"github.com/mahalaxmi-auto/storefront/internal/entity"
	"github.com/mahalaxmi-auto/storefront/internal/repository"
)

const suggestLimit = 6

// CatalogService serves the storefront product listing.
type CatalogService struct {
	products repository.ProductRepository
}

func NewCatalogService(products repository.ProductRepository) *CatalogService {
	return &CatalogService{products: products}
}

// ProductPage is one page of a filtered listing.
type ProductPage struct {
	Products []entity.Product `json:"products"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	Limit    int              `json:"limit"`
}

func (s *CatalogService) ListProducts(ctx context.Context, filter entity.ProductFilter) (*ProductPage, error) {
	filter.Normalize()
	products, total, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ProductPage{Products: products, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// GetProduct returns an active product. Inactive products are not found.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, entity.ErrNotFound
	}
	return p, nil
}

// Suggest returns quick search matches for queries of two or more characters.
func (s *CatalogService) Suggest(ctx context.Context, q string) ([]entity.Product, error) {
	q = strings.TrimSpace(q)
	if len([]rune(q)) < 2 {
		return []entity.Product{}, nil
	}
	return s.products.Suggest(ctx, q, suggestLimit)
}
