package repository

import (
	"context"
	"fmt"

	"chatmart/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

type paymentRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPaymentRepository creates a new PostgreSQL-backed payment ledger.
func NewPaymentRepository(pool *pgxpool.Pool, logger zerolog.Logger) PaymentRepository {
	return &paymentRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "payment").Logger(),
	}
}

// Create records a payment. A missing order surfaces as ErrOrderNotFound.
func (r *paymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	query := `
		INSERT INTO payments (payment_id, order_id, payment_status, payment_method, payment_date, amount)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		payment.ID,
		payment.OrderID,
		payment.PaymentStatus,
		payment.PaymentMethod,
		payment.PaymentDate,
		payment.Amount,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return model.ErrOrderNotFound
		}
		r.logger.Error().Err(err).Int64("order_id", payment.OrderID).Msg("failed to create payment")
		return fmt.Errorf("failed to create payment: %w", err)
	}

	r.logger.Debug().
		Str("payment_id", payment.ID.String()).
		Int64("order_id", payment.OrderID).
		Str("status", payment.PaymentStatus).
		Msg("payment recorded")

	return nil
}
