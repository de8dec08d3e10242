package repository

import (
	"context"
	"fmt"
	"strings"

	"chatmart/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

type statisticsRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewStatisticsRepository creates a new PostgreSQL-backed statistics reader.
func NewStatisticsRepository(pool *pgxpool.Pool, logger zerolog.Logger) StatisticsRepository {
	return &statisticsRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "statistics").Logger(),
	}
}

// paidFilter matches orders with at least one paid payment under either
// status label. EXISTS keeps an
// order with several payments from being counted twice.
const paidFilter = `EXISTS (
	SELECT 1 FROM payments p
	WHERE p.order_id = o.order_id
	  AND p.payment_status IN ('` + model.PaymentStatusPaid + `', '` + model.PaymentStatusPaidLegacy + `')
)`

// ProductRevenue sums price × quantity of paid line items per product name.
func (r *statisticsRepository) ProductRevenue(ctx context.Context, dr model.DateRange) ([]model.StatPoint, error) {
	where := []string{paidFilter}
	var args []any
	where, args = appendDateRange(where, args, dr)

	query := `
		SELECT oi.product_name, SUM(oi.price * oi.quantity)
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.order_id
		WHERE ` + strings.Join(where, " AND ") + `
		GROUP BY oi.product_name
		ORDER BY oi.product_name
	`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query revenue")
		return nil, fmt.Errorf("failed to query revenue: %w", err)
	}

	points, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.StatPoint, error) {
		var p model.StatPoint
		err := row.Scan(&p.Label, &p.Value)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan revenue: %w", err)
	}

	return points, nil
}

// ProductQuantities sums ordered quantity per product name for one user.
func (r *statisticsRepository) ProductQuantities(ctx context.Context, userID string, dr model.DateRange, paidOnly bool) ([]model.QuantityPoint, error) {
	where := []string{"o.user_id = $1"}
	args := []any{userID}
	if paidOnly {
		where = append(where, paidFilter)
	}
	where, args = appendDateRange(where, args, dr)

	query := `
		SELECT oi.product_name, SUM(oi.quantity)
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.order_id
		WHERE ` + strings.Join(where, " AND ") + `
		GROUP BY oi.product_name
		ORDER BY oi.product_name
	`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to query quantities")
		return nil, fmt.Errorf("failed to query quantities: %w", err)
	}

	points, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.QuantityPoint, error) {
		var p model.QuantityPoint
		err := row.Scan(&p.Label, &p.Quantity)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan quantities: %w", err)
	}

	return points, nil
}

// appendDateRange adds an inclusive calendar-date filter on order_date.
func appendDateRange(where []string, args []any, dr model.DateRange) ([]string, []any) {
	if !dr.IsSet() {
		return where, args
	}
	n := len(args)
	where = append(where, fmt.Sprintf("o.order_date::date BETWEEN $%d::date AND $%d::date", n+1, n+2))
	args = append(args, dr.Start.Format("2006-01-02"), dr.End.Format("2006-01-02"))
	return where, args
}
