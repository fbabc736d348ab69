package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/mahalaxmi-auto/storefront/internal/entity"
	"github.com/mahalaxmi-auto/storefront/internal/repository"
)

const orderColumns = `id, order_number, user_id, shipping_address, payment_method, status, payment_status,
	subtotal, delivery_charge, discount, total, notes, created_at, updated_at`

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new OrderRepository backed by Postgres.
func NewOrderRepository(db *sql.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

func scanOrder(row rowScanner) (entity.Order, error) {
	var o entity.Order
	err := row.Scan(&o.ID, &o.OrderNumber, &o.UserID, &o.ShippingAddress, &o.PaymentMethod, &o.Status,
		&o.PaymentStatus, &o.Subtotal, &o.DeliveryCharge, &o.Discount, &o.Total, &o.Notes,
		&o.CreatedAt, &o.UpdatedAt)
	return o, err
}

func (r *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := tx.QueryRowContext(ctx, "SELECT generate_order_number()").Scan(&order.OrderNumber); err != nil {
		return fmt.Errorf("failed to generate order number: %w", err)
	}

	order.ID = uuid.NewString()
	now := time.Now()
	order.CreatedAt, order.UpdatedAt = now, now

	_, err = tx.ExecContext(ctx,
		"INSERT INTO orders ("+orderColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)",
		order.ID, order.OrderNumber, order.UserID, order.ShippingAddress, order.PaymentMethod, order.Status,
		order.PaymentStatus, order.Subtotal, order.DeliveryCharge, order.Discount, order.Total, order.Notes,
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO order_items (id, order_id, product_id, product_name, product_image, quantity, price)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	for i := range order.Items {
		item := &order.Items[i]
		item.ID = uuid.NewString()
		item.OrderID = order.ID
		if _, err := stmt.ExecContext(ctx, item.ID, item.OrderID, item.ProductID, item.ProductName,
			item.ProductImage, item.Quantity, item.Price); err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *orderRepository) FindByID(ctx context.Context, id string) (*entity.Order, error) {
	return r.findOne(ctx, "id", id)
}

func (r *orderRepository) FindByNumber(ctx context.Context, orderNumber string) (*entity.Order, error) {
	return r.findOne(ctx, "order_number", orderNumber)
}

func (r *orderRepository) findOne(ctx context.Context, column, value string) (*entity.Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE "+column+" = $1", value))
	if err != nil {
		return nil, notFound(err, entity.ErrOrderNotFound, "failed to find order")
	}
	orders := []entity.Order{o}
	if err := r.loadItems(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID string) ([]entity.Order, error) {
	return r.list(ctx, "SELECT "+orderColumns+" FROM orders WHERE user_id = $1 ORDER BY created_at DESC", userID)
}

func (r *orderRepository) List(ctx context.Context, query string, limit int) ([]entity.Order, error) {
	if limit <= 0 {
		limit = 50
	}
	if query == "" {
		return r.list(ctx, "SELECT "+orderColumns+" FROM orders ORDER BY created_at DESC LIMIT $1", limit)
	}
	return r.list(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE order_number ILIKE $1 ORDER BY created_at DESC LIMIT $2",
		"%"+query+"%", limit,
	)
}

func (r *orderRepository) list(ctx context.Context, query string, args ...any) ([]entity.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := []entity.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order rows: %w", err)
	}

	if err := r.loadItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// loadItems fetches the items of every order in one query.
func (r *orderRepository) loadItems(ctx context.Context, orders []entity.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, len(orders))
	index := make(map[string]int, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
		index[orders[i].ID] = i
		orders[i].Items = []entity.OrderItem{}
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, order_id, product_id, product_name, product_image, quantity, price
		FROM order_items WHERE order_id = ANY($1) ORDER BY product_name`,
		pq.Array(ids),
	)
	if err != nil {
		return fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item entity.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName, &item.ProductImage,
			&item.Quantity, &item.Price); err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		i := index[item.OrderID]
		orders[i].Items = append(orders[i].Items, item)
	}
	return rows.Err()
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) (*entity.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	prev, err := scanOrder(tx.QueryRowContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE id = $1 FOR UPDATE", id))
	if err != nil {
		return nil, notFound(err, entity.ErrOrderNotFound, "failed to lock order")
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1", id, status); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &prev, nil
}

func (r *orderRepository) Stats(ctx context.Context) (*entity.OverviewStats, error) {
	var s entity.OverviewStats
	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM profiles WHERE NOT is_admin),
			COUNT(*),
			COALESCE(SUM(total) FILTER (WHERE status <> 'cancelled'), 0),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'processing'),
			COUNT(*) FILTER (WHERE status = 'delivered')
		FROM orders`,
	).Scan(&s.Products, &s.Customers, &s.Orders, &s.Revenue, &s.PendingOrders, &s.ProcessingOrders, &s.DeliveredOrders)
	if err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}

	s.RecentOrders, err = r.List(ctx, "", 5)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
