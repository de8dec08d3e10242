// Package events publishes order domain events after the owning transaction commits.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types.
const (
	TypeOrderCreated    = "order.created"
	TypeDeliveryUpdated = "order.delivery_updated"
)

// Event is the JSON envelope written to the order topic, keyed by order ID.
type Event struct {
	ID         uuid.UUID `json:"event_id"`
	Type       string    `json:"type"`
	OrderID    int64     `json:"order_id"`
	UserID     string    `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data,omitempty"`
}

// NewEvent stamps a fresh ID and the current time.
func NewEvent(eventType string, orderID int64, userID string, data any) Event {
	return Event{
		ID:         uuid.New(),
		Type:       eventType,
		OrderID:    orderID,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}

// Publisher emits events best effort. Failures are logged, never returned.
type Publisher interface {
	Publish(ctx context.Context, event Event)
	Close() error
}

// NopPublisher discards every event. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) {}

func (NopPublisher) Close() error { return nil }
