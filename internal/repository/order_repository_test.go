package repository

import (
	"context"
	"testing"
	"time"

	"chatmart/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderRepository_BeginTx(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()

	tx, err := repo.BeginTx(ctx)

	require.NoError(t, err)
	require.NotNil(t, tx)
	assert.NoError(t, tx.Rollback(ctx))
}

func TestOrderRepository_CreateAndList(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)

	order := &model.Order{
		UserID:         "U123",
		CustomerName:   "Somchai",
		Phone:          "0812345678",
		Address:        "Bangkok",
		DeliveryMethod: model.DeliveryPickup,
		DeliveryStatus: model.DeliveryStatusPending,
		TotalPrice:     decimal.NewFromInt(135),
	}
	require.NoError(t, repo.CreateOrder(ctx, tx, order))
	assert.NotZero(t, order.ID)
	assert.False(t, order.OrderDate.IsZero())

	for _, it := range []model.OrderItem{item(2, "Fish Sauce", 35, 1), item(1, "Rice", 50, 2)} {
		it.OrderID = order.ID
		require.NoError(t, repo.CreateOrderItem(ctx, tx, &it))
	}
	require.NoError(t, tx.Commit(ctx))

	seedOrder(t, pool, "U999", time.Now().Add(-time.Hour), item(1, "Rice", 50, 1))

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, order.ID, all[0].ID, "newest first")

	mine, err := repo.ListByUser(ctx, "U123")
	require.NoError(t, err)
	require.Len(t, mine, 1)

	got := mine[0]
	assert.Equal(t, "Somchai", got.CustomerName)
	assert.Equal(t, model.DeliveryPickup, got.DeliveryMethod)
	assert.Equal(t, model.DeliveryStatusPending, got.DeliveryStatus)
	assert.Nil(t, got.DeliveryETA)
	assert.Nil(t, got.PaymentStatus)
	assert.True(t, decimal.NewFromInt(135).Equal(got.TotalPrice))
	require.Len(t, got.Items, 2)
	assert.Equal(t, int64(1), got.Items[0].ProductID)
	assert.Equal(t, "Rice", got.Items[0].ProductName)
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.True(t, decimal.NewFromInt(100).Equal(got.Items[0].Subtotal))

	none, err := repo.ListByUser(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestOrderRepository_ListIncludesLatestPaymentStatus(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()

	id := seedOrder(t, pool, "U1", time.Now(), item(1, "Rice", 50, 1), item(2, "Egg", 5, 10))
	_, err := pool.Exec(ctx,
		`INSERT INTO payments (payment_id, order_id, payment_status, payment_method, payment_date, amount)
		 VALUES (gen_random_uuid(), $1, 'pending', 'cash', NOW() - INTERVAL '1 day', 100),
		        (gen_random_uuid(), $1, 'paid', 'cash', NOW(), 100)`, id)
	require.NoError(t, err)

	orders, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1, "multiple payments must not duplicate the order")
	require.NotNil(t, orders[0].PaymentStatus)
	assert.Equal(t, model.PaymentStatusPaid, *orders[0].PaymentStatus)
	assert.Len(t, orders[0].Items, 2)
}

func TestOrderRepository_UpdateDelivery(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()

	id := seedOrder(t, pool, "U1", time.Now(), item(1, "Rice", 50, 1))

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.UpdateDelivery(ctx, tx, id, "out for delivery", 30))
	require.NoError(t, tx.Commit(ctx))

	orders, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "out for delivery", orders[0].DeliveryStatus)
	require.NotNil(t, orders[0].DeliveryETA)
	assert.Equal(t, 30, *orders[0].DeliveryETA)

	tx, err = repo.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	err = repo.UpdateDelivery(ctx, tx, id+1000, "delivered", 0)
	assert.ErrorIs(t, err, model.ErrOrderNotFound)
}

func TestOrderRepository_RollbackLeavesNoTrace(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)

	order := &model.Order{UserID: "U1", CustomerName: "A", Phone: "1", Address: "B", TotalPrice: decimal.NewFromInt(100)}
	require.NoError(t, repo.CreateOrder(ctx, tx, order))

	first := item(1, "Rice", 50, 2)
	first.OrderID = order.ID
	require.NoError(t, repo.CreateOrderItem(ctx, tx, &first))

	// Same product twice violates the composite key.
	dup := first
	require.Error(t, repo.CreateOrderItem(ctx, tx, &dup))
	require.NoError(t, tx.Rollback(ctx))

	var orders, items int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE order_id = $1`, order.ID).Scan(&orders))
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM order_items WHERE order_id = $1`, order.ID).Scan(&items))
	assert.Zero(t, orders)
	assert.Zero(t, items)
}

func TestGroupOrderRows(t *testing.T) {
	paid := "paid"
	rows := []orderRow{
		{order: model.Order{ID: 2}, paymentStatus: &paid, item: model.OrderItem{OrderID: 2, ProductID: 1}},
		{order: model.Order{ID: 2}, paymentStatus: &paid, item: model.OrderItem{OrderID: 2, ProductID: 3}},
		{order: model.Order{ID: 1}, item: model.OrderItem{OrderID: 1, ProductID: 1}},
	}

	got := groupOrderRows(rows)

	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].ID)
	assert.Equal(t, &paid, got[0].PaymentStatus)
	assert.Len(t, got[0].Items, 2)
	assert.Equal(t, int64(3), got[0].Items[1].ProductID)
	assert.Equal(t, int64(1), got[1].ID)
	assert.Nil(t, got[1].PaymentStatus)
	assert.Len(t, got[1].Items, 1)

	assert.NotNil(t, groupOrderRows(nil), "empty result encodes as [] not null")
}
