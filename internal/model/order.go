package model

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices are emitted as JSON numbers, matching what chat clients send.
	decimal.MarshalJSONWithoutQuotes = true
}

// DeliveryMethod is how the customer receives the order.
type DeliveryMethod string

const (
	DeliveryPickup      DeliveryMethod = "pickup"
	DeliveryDelivery    DeliveryMethod = "delivery"
	DeliveryUnspecified DeliveryMethod = "unspecified"
)

// Normalize maps unknown or empty values to DeliveryUnspecified.
func (m DeliveryMethod) Normalize() DeliveryMethod {
	switch m {
	case DeliveryPickup, DeliveryDelivery:
		return m
	default:
		return DeliveryUnspecified
	}
}

// Label returns the customer-facing label used in chat notifications.
func (m DeliveryMethod) Label() string {
	switch m {
	case DeliveryPickup:
		return "มารับเองที่ร้าน"
	case DeliveryDelivery:
		return "ให้ร้านจัดส่ง"
	default:
		return "ไม่ระบุ"
	}
}

// DeliveryStatusPending is the status of a freshly created order.
const DeliveryStatusPending = "pending"

// Order represents a customer order header.
type Order struct {
	ID             int64           `json:"order_id" db:"order_id"`
	UserID         string          `json:"user_id" db:"user_id"`
	CustomerName   string          `json:"customer_name" db:"customer_name"`
	Phone          string          `json:"phone" db:"phone"`
	Address        string          `json:"address" db:"address"`
	DeliveryMethod DeliveryMethod  `json:"delivery_method" db:"delivery_method"`
	DeliveryStatus string          `json:"delivery_status" db:"delivery_status"`
	DeliveryETA    *int            `json:"delivery_eta" db:"delivery_eta"`
	TotalPrice     decimal.Decimal `json:"total_price" db:"total_price"`
	OrderDate      time.Time       `json:"order_date" db:"order_date"`
}

// OrderItem is a line item. Name and price are snapshots taken when the
// order was placed and do not follow later product edits.
type OrderItem struct {
	OrderID     int64           `json:"-" db:"order_id"`
	ProductID   int64           `json:"product_id" db:"product_id"`
	ProductName string          `json:"product_name" db:"product_name"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Quantity    int             `json:"quantity" db:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal" db:"subtotal"`
}

// CreateOrderRequest represents the request payload for creating an order.
type CreateOrderRequest struct {
	UserID         string             `json:"user_id"`
	CustomerName   string             `json:"customer_name"`
	Phone          string             `json:"phone"`
	Address        string             `json:"address"`
	Items          []OrderItemRequest `json:"items"`
	TotalPrice     decimal.Decimal    `json:"total_price"`
	DeliveryMethod DeliveryMethod     `json:"delivery_method"`
}

// OrderItemRequest represents a single item in an order request.
type OrderItemRequest struct {
	ProductID   int64            `json:"product_id"`
	ProductName string           `json:"product_name"`
	Price       decimal.Decimal  `json:"price"`
	Quantity    int              `json:"quantity"`
	Subtotal    *decimal.Decimal `json:"subtotal"`
}

// CreateOrderResponse is returned after the order transaction commits.
type CreateOrderResponse struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message,omitempty"`
	OrderID    int64           `json:"orderId"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// DeliveryUpdateRequest represents the payload for a delivery status change.
type DeliveryUpdateRequest struct {
	UserID         string `json:"user_id"`
	CustomerName   string `json:"customer_name"`
	DeliveryStatus string `json:"delivery_status"`
	DeliveryETA    *int   `json:"delivery_eta"`
}

// OrderDetail is an order header with its line items and latest payment status.
type OrderDetail struct {
	Order
	PaymentStatus *string     `json:"payment_status"`
	Items         []OrderItem `json:"items"`
}
