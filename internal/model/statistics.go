package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateRange is an inclusive calendar-date filter. The zero value matches every date.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// IsSet reports whether both bounds were supplied.
func (r DateRange) IsSet() bool {
	return !r.Start.IsZero() && !r.End.IsZero()
}

// StatPoint is one revenue row keyed by product name.
type StatPoint struct {
	Label string
	Value decimal.Decimal
}

// QuantityPoint is one ordered-quantity row keyed by product name.
type QuantityPoint struct {
	Label    string
	Quantity int64
}

// RevenueStatistics is the revenue per product for paid orders.
type RevenueStatistics struct {
	Labels       []string          `json:"labels"`
	Values       []decimal.Decimal `json:"values"`
	TotalRevenue decimal.Decimal   `json:"totalRevenue"`
}

// QuantityStatistics is the ordered quantity per product.
type QuantityStatistics struct {
	Labels []string `json:"labels"`
	Data   []int64  `json:"data"`
}
