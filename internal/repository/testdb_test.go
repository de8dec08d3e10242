package repository

import (
	"context"
	"testing"
	"time"

	"chatmart/internal/database"
	"chatmart/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB starts a PostgreSQL container with the application schema applied.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()

	// Start PostgreSQL container
	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	require.NoError(t, database.EnsureSchema(ctx, pool))

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

// seedProducts inserts products and fills in their IDs.
func seedProducts(t *testing.T, pool *pgxpool.Pool, products []*model.Product) {
	t.Helper()
	ctx := context.Background()

	for _, p := range products {
		err := pool.QueryRow(ctx,
			`INSERT INTO products (product_name, price, quantity, image_url) VALUES ($1, $2, $3, $4) RETURNING product_id`,
			p.Name, p.Price, p.Quantity, p.ImageURL,
		).Scan(&p.ID)
		require.NoError(t, err)
	}
}

// seedOrder commits an order with one item per product and returns its ID.
func seedOrder(t *testing.T, pool *pgxpool.Pool, userID string, orderDate time.Time, items ...model.OrderItem) int64 {
	t.Helper()
	ctx := context.Background()

	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal)
	}

	var id int64
	err := pool.QueryRow(ctx,
		`INSERT INTO orders (user_id, customer_name, phone, address, total_price, delivery_method, order_date)
		 VALUES ($1, 'Somchai', '0812345678', 'Bangkok', $2, 'pickup', $3) RETURNING order_id`,
		userID, total, orderDate,
	).Scan(&id)
	require.NoError(t, err)

	for _, it := range items {
		_, err := pool.Exec(ctx,
			`INSERT INTO order_items (order_id, product_id, product_name, price, quantity, subtotal) VALUES ($1, $2, $3, $4, $5, $6)`,
			id, it.ProductID, it.ProductName, it.Price, it.Quantity, it.Subtotal,
		)
		require.NoError(t, err)
	}

	return id
}

func seedPayment(t *testing.T, pool *pgxpool.Pool, orderID int64, status string, amount decimal.Decimal) {
	t.Helper()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO payments (payment_id, order_id, payment_status, payment_method, amount) VALUES (gen_random_uuid(), $1, $2, 'promptpay', $3)`,
		orderID, status, amount,
	)
	require.NoError(t, err)
}

func item(productID int64, name string, price int64, qty int) model.OrderItem {
	p := decimal.NewFromInt(price)
	return model.OrderItem{
		ProductID:   productID,
		ProductName: name,
		Price:       p,
		Quantity:    qty,
		Subtotal:    p.Mul(decimal.NewFromInt(int64(qty))),
	}
}
