package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Settled payment statuses. Only paid orders count as revenue.
// PaymentStatusPaidLegacy is the Thai label older admin clients still post.
const (
	PaymentStatusPaid       = "paid"
	PaymentStatusPaidLegacy = "จ่ายแล้ว"
)

// Payment records one payment attempt against an order.
type Payment struct {
	ID            uuid.UUID       `json:"payment_id" db:"payment_id"`
	OrderID       int64           `json:"order_id" db:"order_id"`
	PaymentStatus string          `json:"payment_status" db:"payment_status"`
	PaymentMethod string          `json:"payment_method" db:"payment_method"`
	PaymentDate   time.Time       `json:"payment_date" db:"payment_date"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
}

// PaymentRequest represents the payload for recording a payment.
// PaymentDate accepts RFC 3339 or a plain YYYY-MM-DD date; empty means now.
type PaymentRequest struct {
	OrderID       int64           `json:"order_id"`
	PaymentStatus string          `json:"payment_status"`
	PaymentMethod string          `json:"payment_method"`
	PaymentDate   string          `json:"payment_date"`
	Amount        decimal.Decimal `json:"amount"`
}
