package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/mahalaxmi-auto/storefront/internal/entity"
	"github.com/mahalaxmi-auto/storefront/internal/repository"
)

type reviewRepository struct {
	db *sql.DB
}

// NewReviewRepository creates a new ReviewRepository backed by Postgres.
func NewReviewRepository(db *sql.DB) repository.ReviewRepository {
	return &reviewRepository{db: db}
}

// Upsert keeps one row per (user, product); a resubmission overwrites it and
// keeps its id.
func (r *reviewRepository) Upsert(ctx context.Context, rv *entity.ProductReview) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO product_reviews (id, product_id, user_id, rating, title, comment)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET rating = EXCLUDED.rating, title = EXCLUDED.title, comment = EXCLUDED.comment, updated_at = NOW()
		RETURNING id, created_at, updated_at`,
		uuid.NewString(), rv.ProductID, rv.UserID, rv.Rating, rv.Title, rv.Comment,
	).Scan(&rv.ID, &rv.CreatedAt, &rv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert review: %w", err)
	}
	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, userID, productID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM product_reviews WHERE user_id = $1 AND product_id = $2", userID, productID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete review: %w", err)
	}
	return res.RowsAffected()
}

func (r *reviewRepository) ListByProduct(ctx context.Context, productID string) ([]entity.ProductReview, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT r.id, r.product_id, r.user_id, r.rating, r.title, r.comment, COALESCE(p.full_name, ''),
			r.created_at, r.updated_at
		FROM product_reviews r
		LEFT JOIN profiles p ON p.user_id = r.user_id
		WHERE r.product_id = $1
		ORDER BY r.created_at DESC`,
		productID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	reviews := []entity.ProductReview{}
	for rows.Next() {
		var rv entity.ProductReview
		if err := rows.Scan(&rv.ID, &rv.ProductID, &rv.UserID, &rv.Rating, &rv.Title, &rv.Comment, &rv.UserName,
			&rv.CreatedAt, &rv.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating review rows: %w", err)
	}
	return reviews, nil
}
