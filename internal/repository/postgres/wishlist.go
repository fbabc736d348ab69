package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/mahalaxmi-auto/storefront/internal/entity"
	"github.com/mahalaxmi-auto/storefront/internal/repository"
)

type wishlistRepository struct {
	db *sql.DB
}

// NewWishlistRepository creates a new WishlistRepository backed by Postgres.
func NewWishlistRepository(db *sql.DB) repository.WishlistRepository {
	return &wishlistRepository{db: db}
}

func (r *wishlistRepository) Add(ctx context.Context, userID, productID string) (*entity.WishlistItem, error) {
	item := entity.WishlistItem{ID: uuid.NewString(), UserID: userID, ProductID: productID}
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO wishlist (id, user_id, product_id) VALUES ($1, $2, $3) RETURNING created_at",
		item.ID, userID, productID,
	).Scan(&item.CreatedAt)
	if isUniqueViolation(err) {
		return nil, entity.ErrAlreadyInWishlist
	}
	if err != nil {
		return nil, fmt.Errorf("failed to insert wishlist item: %w", err)
	}
	return &item, nil
}

func (r *wishlistRepository) Remove(ctx context.Context, userID, productID string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM wishlist WHERE user_id = $1 AND product_id = $2", userID, productID)
	if err != nil {
		return fmt.Errorf("failed to delete wishlist item: %w", err)
	}
	return nil
}

func (r *wishlistRepository) ListByUser(ctx context.Context, userID string) ([]entity.WishlistItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT w.id, w.user_id, w.product_id, w.created_at,
			p.id, p.name, p.brand, p.category, p.description, p.price, p.original_price, p.image_url,
			p.stock, p.compatible_models, p.is_active, p.created_at, p.updated_at
		FROM wishlist w
		JOIN products p ON p.id = w.product_id
		WHERE w.user_id = $1
		ORDER BY w.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query wishlist: %w", err)
	}
	defer rows.Close()

	items := []entity.WishlistItem{}
	for rows.Next() {
		var item entity.WishlistItem
		var models pq.StringArray
		p := &item.Product
		if err := rows.Scan(&item.ID, &item.UserID, &item.ProductID, &item.CreatedAt,
			&p.ID, &p.Name, &p.Brand, &p.Category, &p.Description, &p.Price, &p.OriginalPrice, &p.ImageURL,
			&p.Stock, &models, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan wishlist item: %w", err)
		}
		p.CompatibleModels = []string(models)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wishlist rows: %w", err)
	}
	return items, nil
}
