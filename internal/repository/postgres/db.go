package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"
)

// OrderUpdatesChannel is the NOTIFY channel raised on every order update.
const OrderUpdatesChannel = "order_updates"

func InitDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := pingWithRetry(ctx, db, connectAttempts, connectBackoff); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := migrateDB(ctx, db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	slog.Info("Database connected and migrated")
	return db, nil
}

const (
	connectAttempts = 5
	connectBackoff  = 2 * time.Second
)

// pingWithRetry waits for postgres to accept connections, sleeping backoff
// between attempts.
func pingWithRetry(ctx context.Context, db *sql.DB, attempts int, backoff time.Duration) error {
	var err error
	for i := 1; i <= attempts; i++ {
		if err = db.PingContext(ctx); err == nil {
			return nil
		}
		if i == attempts {
			break
		}
		slog.Warn("Database not ready, retrying", "attempt", i, "err", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return err
}

func migrateDB(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS profiles (
			user_id TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			full_name TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			is_admin BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			brand TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			price NUMERIC(12,2) NOT NULL CHECK (price >= 0),
			original_price NUMERIC(12,2),
			image_url TEXT,
			stock INT NOT NULL DEFAULT 0 CHECK (stock >= 0),
			compatible_models TEXT[] NOT NULL DEFAULT '{}',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS cart_items (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
			quantity INT NOT NULL CHECK (quantity >= 1),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (user_id, product_id)
		);

		CREATE TABLE IF NOT EXISTS delivery_areas (
			id TEXT PRIMARY KEY,
			pincode TEXT NOT NULL CHECK (pincode ~ '^[0-9]{6}$'),
			area_name TEXT NOT NULL,
			city TEXT NOT NULL,
			delivery_charge NUMERIC(12,2) NOT NULL DEFAULT 0 CHECK (delivery_charge >= 0),
			estimated_days INT NOT NULL DEFAULT 1 CHECK (estimated_days >= 1),
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE UNIQUE INDEX IF NOT EXISTS delivery_areas_active_pincode
			ON delivery_areas (pincode) WHERE is_active;

		CREATE SEQUENCE IF NOT EXISTS order_number_seq;

		CREATE OR REPLACE FUNCTION generate_order_number() RETURNS TEXT AS $$
		BEGIN
			RETURN 'MA' || to_char(NOW(), 'YYMMDD') || lpad(nextval('order_number_seq')::TEXT, 6, '0');
		END;
		$$ LANGUAGE plpgsql;

		CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			order_number TEXT NOT NULL UNIQUE,
			user_id TEXT NOT NULL REFERENCES users(id),
			shipping_address JSONB NOT NULL,
			payment_method TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending'
				CHECK (status IN ('pending','confirmed','processing','shipped','delivered','cancelled')),
			payment_status TEXT NOT NULL DEFAULT 'pending'
				CHECK (payment_status IN ('pending','paid')),
			subtotal NUMERIC(12,2) NOT NULL,
			delivery_charge NUMERIC(12,2) NOT NULL DEFAULT 0,
			discount NUMERIC(12,2) NOT NULL DEFAULT 0,
			total NUMERIC(12,2) NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CHECK (total = subtotal - discount + delivery_charge)
		);
		CREATE INDEX IF NOT EXISTS orders_user_id ON orders (user_id, created_at DESC);

		CREATE TABLE IF NOT EXISTS order_items (
			id TEXT PRIMARY KEY,
			order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			product_id TEXT NOT NULL,
			product_name TEXT NOT NULL,
			product_image TEXT,
			quantity INT NOT NULL CHECK (quantity >= 1),
			price NUMERIC(12,2) NOT NULL
		);
		CREATE INDEX IF NOT EXISTS order_items_order_id ON order_items (order_id);

		CREATE OR REPLACE FUNCTION notify_order_update() RETURNS TRIGGER AS $$
		BEGIN
			PERFORM pg_notify('order_updates', json_build_object('id', NEW.id, 'status', NEW.status)::TEXT);
			RETURN NEW;
		END;
		$$ LANGUAGE plpgsql;

		DROP TRIGGER IF EXISTS orders_notify_update ON orders;
		CREATE TRIGGER orders_notify_update
			AFTER UPDATE ON orders
			FOR EACH ROW EXECUTE FUNCTION notify_order_update();

		CREATE TABLE IF NOT EXISTS product_reviews (
			id TEXT PRIMARY KEY,
			product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			rating INT NOT NULL CHECK (rating BETWEEN 1 AND 5),
			title TEXT NOT NULL DEFAULT '',
			comment TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (user_id, product_id)
		);

		CREATE TABLE IF NOT EXISTS wishlist (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (user_id, product_id)
		);

		CREATE TABLE IF NOT EXISTS admin_audit_logs (
			id TEXT PRIMARY KEY,
			admin_user_id TEXT NOT NULL,
			action_type TEXT NOT NULL
				CHECK (action_type IN ('CREATE','UPDATE','DELETE','STATUS_CHANGE')),
			table_name TEXT NOT NULL,
			record_id TEXT NOT NULL DEFAULT '',
			old_values JSONB,
			new_values JSONB,
			description TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS admin_audit_logs_created_at ON admin_audit_logs (created_at DESC);
	`)
	return err
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// notFound maps sql.ErrNoRows to entity-level not found and wraps the rest.
func notFound(err error, target error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return target
	}
	return fmt.Errorf("%s: %w", msg, err)
}
