package observability

import (
	"context"

	"chatmart/internal/model"
	"chatmart/internal/service"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
)

const tracerName = "chatmart/internal/observability"

// OrderService decorates the order orchestrator with spans and counters.
type OrderService struct {
	inner   service.OrderService
	tracer  trace.Tracer
	metrics orderMetrics
}

type Option func(*OrderService)

func WithTracer(tr trace.Tracer) Option {
	return func(s *OrderService) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *OrderService) {
		s.metrics = newOrderMetrics(m)
	}
}

// NewOrderService wraps inner.
func NewOrderService(inner service.OrderService, opts ...Option) service.OrderService {
	s := &OrderService{
		inner:  inner,
		tracer: nooptrace.NewTracerProvider().Tracer(tracerName),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *OrderService) CreateOrder(ctx context.Context, req *model.CreateOrderRequest) (*model.CreateOrderResponse, error) {
	attrs := []attribute.KeyValue{}
	if req != nil {
		attrs = append(attrs,
			attribute.String("order.user_id", req.UserID),
			attribute.Int("order.item_count", len(req.Items)),
			attribute.String("order.delivery_method", string(req.DeliveryMethod.Normalize())),
		)
	}
	ctx, span := s.tracer.Start(ctx, "OrderService.CreateOrder", trace.WithAttributes(attrs...))
	defer span.End()

	resp, err := s.inner.CreateOrder(ctx, req)
	if err != nil {
		s.metrics.recordCreated(ctx, false)
		return nil, handleError(span, err)
	}
	span.SetAttributes(attribute.Int64("order.id", resp.OrderID))
	s.metrics.recordCreated(ctx, true)
	return resp, nil
}

func (s *OrderService) UpdateDelivery(ctx context.Context, orderID int64, req *model.DeliveryUpdateRequest) error {
	ctx, span := s.tracer.Start(ctx, "OrderService.UpdateDelivery", trace.WithAttributes(attribute.Int64("order.id", orderID)))
	defer span.End()

	if err := s.inner.UpdateDelivery(ctx, orderID, req); err != nil {
		return handleError(span, err)
	}
	s.metrics.recordDeliveryUpdated(ctx, req.DeliveryStatus)
	return nil
}

func (s *OrderService) ListOrders(ctx context.Context) ([]model.OrderDetail, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListOrders")
	defer span.End()

	orders, err := s.inner.ListOrders(ctx)
	if err != nil {
		return nil, handleError(span, err)
	}
	span.SetAttributes(attribute.Int("order.count", len(orders)))
	return orders, nil
}

func (s *OrderService) ListUserOrders(ctx context.Context, userID string) ([]model.OrderDetail, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListUserOrders", trace.WithAttributes(attribute.String("order.user_id", userID)))
	defer span.End()

	orders, err := s.inner.ListUserOrders(ctx, userID)
	if err != nil {
		return nil, handleError(span, err)
	}
	span.SetAttributes(attribute.Int("order.count", len(orders)))
	return orders, nil
}

func handleError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

type orderMetrics struct {
	ordersCreated     metric.Int64Counter
	deliveriesUpdated metric.Int64Counter
}

func newOrderMetrics(m metric.Meter) orderMetrics {
	if m == nil {
		return orderMetrics{}
	}
	ordersCreated, _ := m.Int64Counter("orders.created", metric.WithDescription("Number of order transactions attempted"))
	deliveriesUpdated, _ := m.Int64Counter("orders.delivery_updates", metric.WithDescription("Number of committed delivery updates"))
	return orderMetrics{ordersCreated: ordersCreated, deliveriesUpdated: deliveriesUpdated}
}

func (m orderMetrics) recordCreated(ctx context.Context, ok bool) {
	if m.ordersCreated == nil {
		return
	}
	outcome := "committed"
	if !ok {
		outcome = "failed"
	}
	m.ordersCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (m orderMetrics) recordDeliveryUpdated(ctx context.Context, status string) {
	if m.deliveriesUpdated != nil {
		m.deliveriesUpdated.Add(ctx, 1, metric.WithAttributes(attribute.String("delivery.status", status)))
	}
}

var _ service.OrderService = (*OrderService)(nil)
