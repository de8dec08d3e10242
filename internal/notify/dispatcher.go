// Package notify delivers post-commit customer notifications without
// holding up the request that triggered them.
package notify

import (
	"context"
	"sync"
	"time"

	"chatmart/internal/gateway"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Notifier sends a best-effort text message to one recipient.
// Notify never reports failure to the caller.
type Notifier interface {
	Notify(ctx context.Context, recipient, text string)
}

// Dispatcher sends each notification on its own goroutine with a single
// attempt. Outcomes are logged and counted.
type Dispatcher struct {
	sender  gateway.Sender
	logger  zerolog.Logger
	timeout time.Duration
	metrics dispatchMetrics

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithMeter records sent/failed counters on m.
func WithMeter(m metric.Meter) Option {
	return func(d *Dispatcher) {
		d.metrics = newDispatchMetrics(m)
	}
}

// WithTimeout bounds each send.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

// NewDispatcher creates a dispatcher over sender.
func NewDispatcher(sender gateway.Sender, logger zerolog.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		sender:  sender,
		logger:  logger.With().Str("component", "notify").Logger(),
		timeout: 15 * time.Second,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Notify schedules the send and returns immediately. The send outlives the
// caller's context cancellation but keeps its values.
func (d *Dispatcher) Notify(ctx context.Context, recipient, text string) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.logger.Warn().Str("recipient", recipient).Msg("dispatcher closed, notification dropped")
		return
	}
	d.wg.Add(1)
	d.mu.Unlock()

	sendCtx := context.WithoutCancel(ctx)
	go func() {
		defer d.wg.Done()
		d.send(sendCtx, recipient, text)
	}()
}

func (d *Dispatcher) send(ctx context.Context, recipient, text string) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	start := time.Now()
	_, err := d.sender.Send(ctx, recipient, text, nil)
	if err != nil {
		d.metrics.record(ctx, false)
		d.logger.Error().
			Err(err).
			Str("recipient", recipient).
			Dur("elapsed", time.Since(start)).
			Msg("notification failed")
		return
	}

	d.metrics.record(ctx, true)
	d.logger.Debug().
		Str("recipient", recipient).
		Dur("elapsed", time.Since(start)).
		Msg("notification sent")
}

// Close stops accepting notifications and waits for in-flight sends or ctx.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type dispatchMetrics struct {
	notifications metric.Int64Counter
}

func newDispatchMetrics(m metric.Meter) dispatchMetrics {
	if m == nil {
		return dispatchMetrics{}
	}
	counter, _ := m.Int64Counter("notify.notifications",
		metric.WithDescription("Customer notifications attempted, by outcome"))
	return dispatchMetrics{notifications: counter}
}

func (m dispatchMetrics) record(ctx context.Context, ok bool) {
	if m.notifications == nil {
		return
	}
	outcome := "sent"
	if !ok {
		outcome = "failed"
	}
	m.notifications.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

var _ Notifier = (*Dispatcher)(nil)
