package service

import (
	"context"
	"math"
	"strings"

	"github.com/mahalaxmi-auto/storefront/internal/entity"
	"github.com/mahalaxmi-auto/storefront/internal/repository"
)

// ReviewService manages product reviews, one per customer per product.
type ReviewService struct {
	reviews  repository.ReviewRepository
	products repository.ProductRepository
}

func NewReviewService(reviews repository.ReviewRepository, products repository.ProductRepository) *ReviewService {
	return &ReviewService{reviews: reviews, products: products}
}

// ReviewSummary is the review list with its aggregate rating.
type ReviewSummary struct {
	Reviews []entity.ProductReview `json:"reviews"`
	Average float64                `json:"average"`
	Count   int                    `json:"count"`
}

// Submit creates the caller's review or overwrites it in place.
func (s *ReviewService) Submit(ctx context.Context, sess *entity.Session, productID string, rating int, title, comment string) (*entity.ProductReview, error) {
	if err := requireUser(sess); err != nil {
		return nil, err
	}
	if rating < 1 || rating > 5 {
		return nil, entity.ErrInvalidRating
	}
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	review := &entity.ProductReview{
		ProductID: productID,
		UserID:    sess.UserID,
		Rating:    rating,
		Title:     strings.TrimSpace(title),
		Comment:   strings.TrimSpace(comment),
	}
	if err := s.reviews.Upsert(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// Delete removes the caller's review of a product.
func (s *ReviewService) Delete(ctx context.Context, sess *entity.Session, productID string) error {
	if err := requireUser(sess); err != nil {
		return err
	}
	n, err := s.reviews.Delete(ctx, sess.UserID, productID)
	if err != nil {
		return err
	}
	if n == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (s *ReviewService) List(ctx context.Context, productID string) (*ReviewSummary, error) {
	reviews, err := s.reviews.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	total := 0
	for i := range reviews {
		total += reviews[i].Rating
		if reviews[i].UserName == "" {
			reviews[i].UserName = "Anonymous"
		}
	}
	summary := &ReviewSummary{Reviews: reviews, Count: len(reviews)}
	if len(reviews) > 0 {
		summary.Average = math.Round(float64(total)/float64(len(reviews))*10) / 10
	}
	return summary, nil
}
