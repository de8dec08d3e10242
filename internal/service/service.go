package service

import (
	"context"

	"chatmart/internal/gateway"
	"chatmart/internal/model"
)

// OrderService is the order transaction orchestrator.
type OrderService interface {
	// CreateOrder persists the order, its items and the stock decrements
	// atomically, then notifies the customer best effort.
	CreateOrder(ctx context.Context, req *model.CreateOrderRequest) (*model.CreateOrderResponse, error)

	// UpdateDelivery sets delivery status and ETA, then notifies the customer best effort.
	UpdateDelivery(ctx context.Context, orderID int64, req *model.DeliveryUpdateRequest) error

	// ListOrders returns every order with its items.
	ListOrders(ctx context.Context) ([]model.OrderDetail, error)

	// ListUserOrders returns the orders placed by userID.
	ListUserOrders(ctx context.Context, userID string) ([]model.OrderDetail, error)
}

// ProductService defines operations for product management.
type ProductService interface {
	GetAll(ctx context.Context) ([]model.Product, error)
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	Create(ctx context.Context, in *model.ProductInput) (*model.Product, error)
	Update(ctx context.Context, id int64, in *model.ProductInput) (*model.Product, error)
	Delete(ctx context.Context, id int64) error

	// Import bulk-loads a gzipped CSV catalog and returns the number of products added.
	Import(ctx context.Context, path string) (int, error)
}

// PaymentService records payments against orders.
type PaymentService interface {
	RecordPayment(ctx context.Context, req *model.PaymentRequest) (*model.Payment, error)
}

// UserService manages identity-provider users.
type UserService interface {
	// VerifyAccessToken checks the token with the identity provider, upserts
	// the user and returns the stored role.
	VerifyAccessToken(ctx context.Context, req *model.VerifyAccessTokenRequest) (string, error)

	GetUser(ctx context.Context, id string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.UserSummary, error)
	UpdateProfile(ctx context.Context, req *model.UpdateProfileRequest) error
}

// StatisticsService produces chart-ready aggregates.
type StatisticsService interface {
	Revenue(ctx context.Context, r model.DateRange) (*model.RevenueStatistics, error)
	UserQuantities(ctx context.Context, userID string, r model.DateRange, paidOnly bool) (*model.QuantityStatistics, error)
}

// MessagingService covers direct messages, promotions and the chat webhook.
type MessagingService interface {
	SendMessage(ctx context.Context, req *model.SendMessageRequest) (*gateway.SendResult, error)
	SendPromotion(ctx context.Context, req *model.PromotionRequest) (*model.PromotionResult, error)
	HandleWebhook(ctx context.Context, payload *model.WebhookPayload) error
}
