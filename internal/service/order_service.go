package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"chatmart/internal/events"
	"chatmart/internal/model"
	"chatmart/internal/notify"
	"chatmart/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo repository.OrderRepository
	ledger    repository.InventoryLedger
	notifier  notify.Notifier
	publisher events.Publisher
	logger    zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	ledger repository.InventoryLedger,
	notifier notify.Notifier,
	publisher events.Publisher,
	logger zerolog.Logger,
) OrderService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &orderService{
		orderRepo: orderRepo,
		ledger:    ledger,
		notifier:  notifier,
		publisher: publisher,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

// CreateOrder runs the order header insert, every line item insert and every
// stock decrement in one transaction. Nothing is sent until it commits.
func (s *orderService) CreateOrder(ctx context.Context, req *model.CreateOrderRequest) (resp *model.CreateOrderResponse, err error) {
	if err := validateCreateOrder(req); err != nil {
		s.logger.Warn().Err(err).Msg("invalid order request")
		return nil, err
	}

	// The declared total is stored as sent.
	if sum := sumSubtotals(req.Items); !sum.Equal(req.TotalPrice) {
		s.logger.Warn().
			Str("user_id", req.UserID).
			Str("declared_total", req.TotalPrice.String()).
			Str("items_total", sum.String()).
			Msg("declared total does not match item subtotals")
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, model.NewTransactionError(err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	order := &model.Order{
		UserID:         req.UserID,
		CustomerName:   req.CustomerName,
		Phone:          req.Phone,
		Address:        req.Address,
		DeliveryMethod: req.DeliveryMethod.Normalize(),
		DeliveryStatus: model.DeliveryStatusPending,
		TotalPrice:     req.TotalPrice,
	}

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("user_id", req.UserID).Msg("failed to create order")
		return nil, model.NewTransactionError(err)
	}

	for _, in := range req.Items {
		item := &model.OrderItem{
			OrderID:     order.ID,
			ProductID:   in.ProductID,
			ProductName: in.ProductName,
			Price:       in.Price,
			Quantity:    in.Quantity,
			Subtotal:    *in.Subtotal,
		}

		if err = s.orderRepo.CreateOrderItem(ctx, tx, item); err != nil {
			s.logger.Error().
				Err(err).
				Int64("order_id", order.ID).
				Int64("product_id", in.ProductID).
				Msg("failed to create order item")
			return nil, model.NewTransactionError(err)
		}

		var remaining int
		remaining, err = s.ledger.Decrement(ctx, tx, in.ProductID, in.Quantity)
		if err != nil {
			s.logger.Error().
				Err(err).
				Int64("order_id", order.ID).
				Int64("product_id", in.ProductID).
				Msg("failed to decrement stock")
			return nil, model.NewTransactionError(err)
		}
		if remaining < 0 {
			s.logger.Warn().
				Int64("product_id", in.ProductID).
				Int("remaining", remaining).
				Msg("stock oversold")
		}
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Int64("order_id", order.ID).Msg("failed to commit transaction")
		return nil, model.NewTransactionError(err)
	}

	s.logger.Info().
		Int64("order_id", order.ID).
		Str("user_id", order.UserID).
		Int("item_count", len(req.Items)).
		Msg("order created successfully")

	s.notifier.Notify(ctx, order.UserID, orderSummary(order, req.Items))
	s.publisher.Publish(ctx, events.NewEvent(events.TypeOrderCreated, order.ID, order.UserID, map[string]any{
		"total_price":     order.TotalPrice,
		"delivery_method": order.DeliveryMethod,
		"item_count":      len(req.Items),
	}))

	return &model.CreateOrderResponse{
		Success:    true,
		Message:    "คำสั่งซื้อสำเร็จ",
		OrderID:    order.ID,
		TotalPrice: req.TotalPrice,
	}, nil
}

// UpdateDelivery commits the new status and ETA. A notification failure
// after commit is logged by the notifier and never undoes the update.
func (s *orderService) UpdateDelivery(ctx context.Context, orderID int64, req *model.DeliveryUpdateRequest) (err error) {
	if err := validateDeliveryUpdate(orderID, req); err != nil {
		return err
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return model.NewTransactionError(err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orderRepo.UpdateDelivery(ctx, tx, orderID, req.DeliveryStatus, *req.DeliveryETA); err != nil {
		s.logger.Warn().Err(err).Int64("order_id", orderID).Msg("failed to update delivery")
		if errors.Is(err, model.ErrNotFound) {
			return err
		}
		return model.NewTransactionError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Int64("order_id", orderID).Msg("failed to commit transaction")
		return model.NewTransactionError(err)
	}

	s.logger.Info().
		Int64("order_id", orderID).
		Str("delivery_status", req.DeliveryStatus).
		Int("delivery_eta", *req.DeliveryETA).
		Msg("delivery updated")

	s.notifier.Notify(ctx, req.UserID, deliveryNotice(orderID, req.DeliveryStatus, *req.DeliveryETA))
	s.publisher.Publish(ctx, events.NewEvent(events.TypeDeliveryUpdated, orderID, req.UserID, map[string]any{
		"delivery_status": req.DeliveryStatus,
		"delivery_eta":    *req.DeliveryETA,
	}))

	return nil
}

// ListOrders returns every order with its items.
func (s *orderService) ListOrders(ctx context.Context) ([]model.OrderDetail, error) {
	orders, err := s.orderRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// ListUserOrders returns the orders placed by userID.
func (s *orderService) ListUserOrders(ctx context.Context, userID string) ([]model.OrderDetail, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, model.NewValidationError("user_id is required")
	}
	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user orders: %w", err)
	}
	return orders, nil
}

func validateCreateOrder(req *model.CreateOrderRequest) error {
	if req == nil {
		return model.NewValidationError("order request is required")
	}

	required := []struct{ name, value string }{
		{"user_id", req.UserID},
		{"customer_name", req.CustomerName},
		{"phone", req.Phone},
		{"address", req.Address},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return model.NewValidationError(f.name + " is required")
		}
	}

	if len(req.Items) == 0 {
		return model.NewValidationError("order must contain at least one item")
	}

	seen := make(map[int64]struct{}, len(req.Items))
	for i, item := range req.Items {
		if item.Subtotal == nil {
			return model.NewValidationError(fmt.Sprintf("item %d: subtotal is required", i))
		}
		if item.Quantity <= 0 {
			return model.NewValidationError(fmt.Sprintf("item %d: quantity must be positive", i))
		}
		if _, dup := seen[item.ProductID]; dup {
			return model.NewValidationError(fmt.Sprintf("item %d: product %d appears more than once", i, item.ProductID))
		}
		seen[item.ProductID] = struct{}{}
	}

	return nil
}

func validateDeliveryUpdate(orderID int64, req *model.DeliveryUpdateRequest) error {
	if orderID <= 0 {
		return model.NewValidationError("invalid order id")
	}
	if req == nil || strings.TrimSpace(req.UserID) == "" || strings.TrimSpace(req.CustomerName) == "" ||
		strings.TrimSpace(req.DeliveryStatus) == "" || req.DeliveryETA == nil {
		return model.NewValidationError("user_id, customer_name, delivery_status and delivery_eta are required")
	}
	if *req.DeliveryETA < 0 {
		return model.NewValidationError("delivery_eta must not be negative")
	}
	return nil
}

func sumSubtotals(items []model.OrderItemRequest) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		if item.Subtotal != nil {
			total = total.Add(*item.Subtotal)
		}
	}
	return total
}
