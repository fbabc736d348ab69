package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/mahalaxmi-auto/storefront/internal/entity"
	"github.com/mahalaxmi-auto/storefront/internal/repository"
)

const productColumns = `id, name, brand, category, description, price, original_price, image_url,
	stock, compatible_models, is_active, created_at, updated_at`

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new ProductRepository backed by Postgres.
func NewProductRepository(db *sql.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (entity.Product, error) {
	var p entity.Product
	var models pq.StringArray
	err := row.Scan(&p.ID, &p.Name, &p.Brand, &p.Category, &p.Description, &p.Price, &p.OriginalPrice,
		&p.ImageURL, &p.Stock, &models, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	p.CompatibleModels = []string(models)
	if p.CompatibleModels == nil {
		p.CompatibleModels = []string{}
	}
	return p, err
}

func (r *productRepository) List(ctx context.Context, f entity.ProductFilter) ([]entity.Product, int, error) {
	f.Normalize()

	where := []string{"is_active"}
	var args []any
	if f.Category != "" {
		args = append(args, f.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if len(f.Brands) > 0 {
		args = append(args, pq.Array(f.Brands))
		where = append(where, fmt.Sprintf("brand = ANY($%d)", len(args)))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, "%"+s+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR brand ILIKE $%d OR category ILIKE $%d)", n, n, n))
	}
	clause := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products WHERE "+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	order := "created_at DESC"
	switch f.Sort {
	case "price-low":
		order = "price ASC"
	case "price-high":
		order = "price DESC"
	case "name":
		order = "name ASC"
	}

	args = append(args, f.Limit, f.Offset())
	query := fmt.Sprintf("SELECT %s FROM products WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d",
		productColumns, clause, order, len(args)-1, len(args))

	products, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *productRepository) ListAll(ctx context.Context) ([]entity.Product, error) {
	return r.query(ctx, "SELECT "+productColumns+" FROM products ORDER BY created_at DESC")
}

func (r *productRepository) Suggest(ctx context.Context, q string, limit int) ([]entity.Product, error) {
	return r.query(ctx,
		"SELECT "+productColumns+` FROM products
		WHERE is_active AND (name ILIKE $1 OR brand ILIKE $1 OR category ILIKE $1)
		ORDER BY name LIMIT $2`,
		"%"+q+"%", limit,
	)
}

func (r *productRepository) query(ctx context.Context, query string, args ...any) ([]entity.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []entity.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product rows: %w", err)
	}
	return products, nil
}

func (r *productRepository) FindByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products WHERE id = $1", id))
	if err != nil {
		return nil, notFound(err, entity.ErrNotFound, "failed to find product")
	}
	return &p, nil
}

func (r *productRepository) Create(ctx context.Context, p *entity.Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now()
	p.CreatedAt, p.UpdatedAt = now, now
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO products (id, name, brand, category, description, price, original_price, image_url,
			stock, compatible_models, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		p.ID, p.Name, p.Brand, p.Category, p.Description, p.Price, p.OriginalPrice, p.ImageURL,
		p.Stock, pq.StringArray(p.CompatibleModels), p.IsActive, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

func (r *productRepository) Update(ctx context.Context, p *entity.Product) error {
	p.UpdatedAt = time.Now()
	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET name = $2, brand = $3, category = $4, description = $5, price = $6,
			original_price = $7, image_url = $8, stock = $9, compatible_models = $10, updated_at = $11
		WHERE id = $1`,
		p.ID, p.Name, p.Brand, p.Category, p.Description, p.Price, p.OriginalPrice, p.ImageURL,
		p.Stock, pq.StringArray(p.CompatibleModels), p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return expectOne(res, entity.ErrNotFound)
}

func (r *productRepository) SetActive(ctx context.Context, id string, active bool) error {
	res, err := r.db.ExecContext(ctx, "UPDATE products SET is_active = $2, updated_at = NOW() WHERE id = $1", id, active)
	if err != nil {
		return fmt.Errorf("failed to toggle product: %w", err)
	}
	return expectOne(res, entity.ErrNotFound)
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return expectOne(res, entity.ErrNotFound)
}

func (r *productRepository) Seed(ctx context.Context, products []entity.Product) error {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		return nil // already seeded
	}

	for i := range products {
		if err := r.Create(ctx, &products[i]); err != nil {
			return fmt.Errorf("failed to seed product %s: %w", products[i].Name, err)
		}
	}
	return nil
}

func expectOne(res sql.Result, missing error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return missing
	}
	return nil
}
