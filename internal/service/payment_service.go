package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"chatmart/internal/model"
	"chatmart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type paymentService struct {
	paymentRepo repository.PaymentRepository
	logger      zerolog.Logger
	now         func() time.Time
}

// NewPaymentService creates a new payment service.
func NewPaymentService(paymentRepo repository.PaymentRepository, logger zerolog.Logger) PaymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		logger:      logger.With().Str("service", "payment").Logger(),
		now:         time.Now,
	}
}

// RecordPayment stores a payment attempt. Several payments per order are allowed.
func (s *paymentService) RecordPayment(ctx context.Context, req *model.PaymentRequest) (*model.Payment, error) {
	if req == nil {
		return nil, model.NewValidationError("payment is required")
	}
	if req.OrderID <= 0 {
		return nil, model.NewValidationError("order_id is required")
	}
	if strings.TrimSpace(req.PaymentStatus) == "" {
		return nil, model.NewValidationError("payment_status is required")
	}
	if strings.TrimSpace(req.PaymentMethod) == "" {
		return nil, model.NewValidationError("payment_method is required")
	}
	if req.Amount.IsNegative() {
		return nil, model.NewValidationError("amount must not be negative")
	}

	paidAt, err := parsePaymentDate(req.PaymentDate, s.now)
	if err != nil {
		return nil, err
	}

	payment := &model.Payment{
		ID:            uuid.New(),
		OrderID:       req.OrderID,
		PaymentStatus: strings.TrimSpace(req.PaymentStatus),
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
		PaymentDate:   paidAt,
		Amount:        req.Amount,
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, err
		}
		s.logger.Error().Err(err).Int64("order_id", req.OrderID).Msg("failed to record payment")
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	s.logger.Info().
		Str("payment_id", payment.ID.String()).
		Int64("order_id", payment.OrderID).
		Str("payment_status", payment.PaymentStatus).
		Msg("payment recorded")

	return payment, nil
}

func parsePaymentDate(raw string, now func() time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return now().UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, nil
	}
	return time.Time{}, model.NewValidationError("payment_date must be RFC 3339 or YYYY-MM-DD")
}
