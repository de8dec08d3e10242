package repository

import (
	"context"

	"chatmart/internal/model"

	"github.com/jackc/pgx/v5"
)

// OrderRepository is the Order Store. Writes run inside a caller-owned
// transaction so that the header, its line items and the matching stock
// decrements commit or roll back together.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts the order header and fills in the assigned ID and order date.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItem inserts a single line item for an existing order header.
	CreateOrderItem(ctx context.Context, tx pgx.Tx, item *model.OrderItem) error

	// UpdateDelivery sets delivery status and ETA. Returns ErrOrderNotFound when no row matched.
	UpdateDelivery(ctx context.Context, tx pgx.Tx, orderID int64, status string, eta int) error

	// ListAll returns every order with its items, newest first.
	ListAll(ctx context.Context) ([]model.OrderDetail, error)

	// ListByUser returns the orders placed by one user, newest first.
	ListByUser(ctx context.Context, userID string) ([]model.OrderDetail, error)
}

// InventoryLedger adjusts product stock inside the caller's transaction.
type InventoryLedger interface {
	// Decrement subtracts quantity from the product's stock without a floor
	// check and returns the remaining stock. Returns ErrProductNotFound when
	// the product does not exist.
	Decrement(ctx context.Context, tx pgx.Tx, productID int64, quantity int) (int, error)
}

// ProductRepository defines product catalog data access.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]model.Product, error)
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	Create(ctx context.Context, product *model.Product) error

	// CreateBatch inserts products in a single round trip and returns how many were written.
	CreateBatch(ctx context.Context, products []model.Product) (int, error)

	// Update overwrites every editable field. Returns ErrProductNotFound when no row matched.
	Update(ctx context.Context, product *model.Product) error

	// Delete removes a product. Returns ErrProductNotFound when no row matched.
	Delete(ctx context.Context, id int64) error
}

// PaymentRepository records payment attempts.
type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
}

// UserRepository defines access to identity-provider users.
type UserRepository interface {
	// Upsert inserts the user on first sight or refreshes the profile fields,
	// preserving the stored role. Returns the effective role.
	Upsert(ctx context.Context, user *model.User) (string, error)

	GetByID(ctx context.Context, id string) (*model.User, error)
	List(ctx context.Context) ([]model.UserSummary, error)
	ListIDs(ctx context.Context) ([]string, error)

	// UpdateProfile updates address and phone for the user with the given
	// display name. Returns ErrUserNotFound when no row matched.
	UpdateProfile(ctx context.Context, req *model.UpdateProfileRequest) error
}

// StatisticsRepository runs the aggregate read queries.
type StatisticsRepository interface {
	// ProductRevenue sums price × quantity of paid line items per product name.
	ProductRevenue(ctx context.Context, r model.DateRange) ([]model.StatPoint, error)

	// ProductQuantities sums ordered quantity per product name for one user.
	// paidOnly restricts the sum to orders with a "paid" payment.
	ProductQuantities(ctx context.Context, userID string, r model.DateRange, paidOnly bool) ([]model.QuantityPoint, error)
}
