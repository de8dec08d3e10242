package repository

import (
	"context"
	"fmt"

	"chatmart/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// CreateOrder inserts the order header within the provided transaction.
func (r *orderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (user_id, customer_name, phone, address, total_price, delivery_method, delivery_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING order_id, order_date
	`

	err := tx.QueryRow(ctx, query,
		order.UserID,
		order.CustomerName,
		order.Phone,
		order.Address,
		order.TotalPrice,
		string(order.DeliveryMethod),
		order.DeliveryStatus,
	).Scan(&order.ID, &order.OrderDate)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("user_id", order.UserID).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Int64("order_id", order.ID).
		Msg("order created successfully")

	return nil
}

// CreateOrderItem inserts one line item within the provided transaction.
func (r *orderRepository) CreateOrderItem(ctx context.Context, tx pgx.Tx, item *model.OrderItem) error {
	query := `
		INSERT INTO order_items (order_id, product_id, product_name, price, quantity, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := tx.Exec(ctx, query,
		item.OrderID,
		item.ProductID,
		item.ProductName,
		item.Price,
		item.Quantity,
		item.Subtotal,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Int64("order_id", item.OrderID).
			Int64("product_id", item.ProductID).
			Msg("failed to create order item")
		return fmt.Errorf("failed to create order item: %w", err)
	}

	return nil
}

// UpdateDelivery sets delivery status and ETA within the provided transaction.
func (r *orderRepository) UpdateDelivery(ctx context.Context, tx pgx.Tx, orderID int64, status string, eta int) error {
	query := `
		UPDATE orders
		SET delivery_status = $1, delivery_eta = $2
		WHERE order_id = $3
	`

	tag, err := tx.Exec(ctx, query, status, eta, orderID)
	if err != nil {
		r.logger.Error().Err(err).Int64("order_id", orderID).Msg("failed to update delivery")
		return fmt.Errorf("failed to update delivery: %w", err)
	}

	if tag.RowsAffected() == 0 {
		r.logger.Debug().Int64("order_id", orderID).Msg("order not found")
		return model.ErrOrderNotFound
	}

	return nil
}

// listOrdersQuery joins each header to its items and its most recent payment.
// Rows come back grouped by order so groupOrderRows can fold them in one pass.
const listOrdersQuery = `
	SELECT
		o.order_id, o.user_id, o.customer_name, o.phone, o.address,
		o.delivery_method, o.delivery_status, o.delivery_eta,
		o.total_price, o.order_date,
		pay.payment_status,
		oi.product_id, oi.product_name, oi.price, oi.quantity, oi.subtotal
	FROM orders o
	JOIN order_items oi ON oi.order_id = o.order_id
	LEFT JOIN LATERAL (
		SELECT p.payment_status
		FROM payments p
		WHERE p.order_id = o.order_id
		ORDER BY p.payment_date DESC
		LIMIT 1
	) pay ON TRUE
	%s
	ORDER BY o.order_date DESC, o.order_id DESC, oi.product_id
`

// ListAll returns every order with its items, newest first.
func (r *orderRepository) ListAll(ctx context.Context) ([]model.OrderDetail, error) {
	return r.list(ctx, fmt.Sprintf(listOrdersQuery, ""))
}

// ListByUser returns the orders placed by one user, newest first.
func (r *orderRepository) ListByUser(ctx context.Context, userID string) ([]model.OrderDetail, error) {
	return r.list(ctx, fmt.Sprintf(listOrdersQuery, "WHERE o.user_id = $1"), userID)
}

func (r *orderRepository) list(ctx context.Context, query string, args ...any) ([]model.OrderDetail, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var flat []orderRow
	for rows.Next() {
		var row orderRow
		var method string
		err := rows.Scan(
			&row.order.ID,
			&row.order.UserID,
			&row.order.CustomerName,
			&row.order.Phone,
			&row.order.Address,
			&method,
			&row.order.DeliveryStatus,
			&row.order.DeliveryETA,
			&row.order.TotalPrice,
			&row.order.OrderDate,
			&row.paymentStatus,
			&row.item.ProductID,
			&row.item.ProductName,
			&row.item.Price,
			&row.item.Quantity,
			&row.item.Subtotal,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		row.order.DeliveryMethod = model.DeliveryMethod(method)
		row.item.OrderID = row.order.ID
		flat = append(flat, row)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return groupOrderRows(flat), nil
}

// orderRow is one row of the header × item join.
type orderRow struct {
	order         model.Order
	paymentStatus *string
	item          model.OrderItem
}

// groupOrderRows folds consecutive rows sharing an order ID into one
// OrderDetail, keeping the input order of both orders and items.
func groupOrderRows(rows []orderRow) []model.OrderDetail {
	details := make([]model.OrderDetail, 0)
	for _, row := range rows {
		n := len(details)
		if n == 0 || details[n-1].ID != row.order.ID {
			details = append(details, model.OrderDetail{
				Order:         row.order,
				PaymentStatus: row.paymentStatus,
				Items:         []model.OrderItem{},
			})
			n++
		}
		details[n-1].Items = append(details[n-1].Items, row.item)
	}
	return details
}
