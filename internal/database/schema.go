package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema is the DDL for the chatmart tables. Every statement is idempotent.
//
// order_items has no foreign key to products. Line items snapshot name and
// price and outlive the product row.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
	line_user_id   TEXT PRIMARY KEY,
	display_name   TEXT NOT NULL DEFAULT '',
	picture_url    TEXT NOT NULL DEFAULT '',
	status_message TEXT NOT NULL DEFAULT '',
	role           TEXT NOT NULL DEFAULT 'user',
	address        TEXT NOT NULL DEFAULT '',
	phone          TEXT NOT NULL DEFAULT '',
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS products (
	product_id   BIGSERIAL PRIMARY KEY,
	product_name TEXT NOT NULL,
	price        NUMERIC(12,2) NOT NULL CHECK (price >= 0),
	quantity     INTEGER NOT NULL DEFAULT 0,
	image_url    TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS orders (
	order_id        BIGSERIAL PRIMARY KEY,
	user_id         TEXT NOT NULL,
	customer_name   TEXT NOT NULL DEFAULT '',
	phone           TEXT NOT NULL DEFAULT '',
	address         TEXT NOT NULL DEFAULT '',
	total_price     NUMERIC(12,2) NOT NULL,
	delivery_method TEXT NOT NULL DEFAULT '',
	delivery_status TEXT NOT NULL DEFAULT 'pending',
	delivery_eta    INTEGER,
	order_date      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_orders_user_id ON orders (user_id);
CREATE INDEX IF NOT EXISTS idx_orders_order_date ON orders (order_date);

CREATE TABLE IF NOT EXISTS order_items (
	order_id     BIGINT NOT NULL REFERENCES orders(order_id) ON DELETE CASCADE,
	product_id   BIGINT NOT NULL,
	product_name TEXT NOT NULL,
	price        NUMERIC(12,2) NOT NULL,
	quantity     INTEGER NOT NULL CHECK (quantity > 0),
	subtotal     NUMERIC(12,2) NOT NULL,
	PRIMARY KEY (order_id, product_id)
);

CREATE TABLE IF NOT EXISTS payments (
	payment_id     UUID PRIMARY KEY,
	order_id       BIGINT NOT NULL REFERENCES orders(order_id) ON DELETE CASCADE,
	payment_status TEXT NOT NULL,
	payment_method TEXT NOT NULL DEFAULT '',
	payment_date   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	amount         NUMERIC(12,2) NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_payments_order_id ON payments (order_id);
`

// EnsureSchema creates any missing tables and indexes.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
