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

type cartRepository struct {
	db *sql.DB
}

// NewCartRepository creates a new CartRepository backed by Postgres.
func NewCartRepository(db *sql.DB) repository.CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) AddOrIncrement(ctx context.Context, userID, productID string, qty int) (*entity.CartItem, error) {
	item := entity.CartItem{UserID: userID, ProductID: productID}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO cart_items (id, user_id, product_id, quantity)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = NOW()
		RETURNING id, quantity, created_at, updated_at`,
		uuid.NewString(), userID, productID, qty,
	).Scan(&item.ID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert cart item: %w", err)
	}
	return &item, nil
}

func (r *cartRepository) SetQuantity(ctx context.Context, userID, itemID string, qty int) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE cart_items SET quantity = $3, updated_at = NOW() WHERE id = $1 AND user_id = $2",
		itemID, userID, qty,
	)
	if err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}
	return expectOne(res, entity.ErrNotFound)
}

func (r *cartRepository) Delete(ctx context.Context, userID, itemID string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM cart_items WHERE id = $1 AND user_id = $2", itemID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}
	return nil
}

func (r *cartRepository) Clear(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM cart_items WHERE user_id = $1", userID)
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func (r *cartRepository) ListByUser(ctx context.Context, userID string) ([]entity.CartItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT c.id, c.user_id, c.product_id, c.quantity, c.created_at, c.updated_at,
			p.id, p.name, p.brand, p.category, p.description, p.price, p.original_price, p.image_url,
			p.stock, p.compatible_models, p.is_active, p.created_at, p.updated_at
		FROM cart_items c
		JOIN products p ON p.id = c.product_id
		WHERE c.user_id = $1
		ORDER BY c.created_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	items := []entity.CartItem{}
	for rows.Next() {
		var item entity.CartItem
		var models pq.StringArray
		p := &item.Product
		if err := rows.Scan(&item.ID, &item.UserID, &item.ProductID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt,
			&p.ID, &p.Name, &p.Brand, &p.Category, &p.Description, &p.Price, &p.OriginalPrice, &p.ImageURL,
			&p.Stock, &models, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		p.CompatibleModels = []string(models)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart rows: %w", err)
	}
	return items, nil
}
