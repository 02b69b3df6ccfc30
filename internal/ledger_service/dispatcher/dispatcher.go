// Package dispatcher delivers domain events with bounded retries and then
// fans them out to subscribed observers.
package dispatcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/financial-operations-ledger/internal/domain/event"
	"github.com/sethvargo/go-retry"
)

var (
	ErrDeliveryFailed = errors.New("event delivery failed")
	ErrCancelled      = errors.New("event dispatch cancelled")
)

// Deliverer is the primary delivery step for an event, such as a broker publish
type Deliverer interface {
	Deliver(ctx context.Context, evt *event.TransactionProcessed) error
}

// DeadLetterPublisher receives events whose delivery exhausted every attempt
type DeadLetterPublisher interface {
	PublishToDLQ(ctx context.Context, key string, value []byte, reason string) error
}

type Config struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxAttempts:    3,
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     400 * time.Millisecond,
	}
}

type Dispatcher struct {
	deliverer  Deliverer
	deadLetter DeadLetterPublisher
	cfg        Config
	logger     *slog.Logger

	mu        sync.RWMutex
	observers []event.Observer
}

func New(cfg Config, deliverer Deliverer, logger *slog.Logger) *Dispatcher {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.MaxBackoff < cfg.InitialBackoff {
		cfg.MaxBackoff = cfg.InitialBackoff
	}
	return &Dispatcher{
		deliverer: deliverer,
		cfg:       cfg,
		logger:    logger,
	}
}

// SetDeadLetterPublisher forwards undeliverable events to p
func (d *Dispatcher) SetDeadLetterPublisher(p DeadLetterPublisher) {
	d.deadLetter = p
}

// Subscribe appends o to the notification order
func (d *Dispatcher) Subscribe(o event.Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.observers = append(d.observers, o)
}

// Unsubscribe removes the first registration of o
func (d *Dispatcher) Unsubscribe(o event.Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if i := slices.Index(d.observers, o); i >= 0 {
		d.observers = slices.Delete(d.observers, i, i+1)
	}
}

// Dispatch delivers evt and, on success, notifies every observer in
// registration order. Observer failures are reported to that observer and
// never fail the dispatch.
func (d *Dispatcher) Dispatch(ctx context.Context, evt *event.TransactionProcessed) error {
	logger := d.logger.With("event_id", evt.ID.String(), "transaction_id", evt.Transaction.ID.String())

	attempts := 0
	backoff := retry.WithMaxRetries(uint64(d.cfg.MaxAttempts-1),
		retry.WithCappedDuration(d.cfg.MaxBackoff, retry.NewExponential(d.cfg.InitialBackoff)))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempts++
		if err := d.deliverer.Deliver(ctx, evt); err != nil {
			logger.Warn("Event delivery attempt failed", "attempt", attempts, "max_attempts", d.cfg.MaxAttempts, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			logger.Warn("Event dispatch cancelled", "attempts", attempts)
			return fmt.Errorf("%w: event %s after %d attempts: %w", ErrCancelled, evt.ID, attempts, ctxErr)
		}
		logger.Error("Event delivery failed", "attempts", attempts, "error", err)
		d.deadLetterEvent(ctx, evt, err)
		return fmt.Errorf("%w: event %s after %d attempts: %w", ErrDeliveryFailed, evt.ID, attempts, err)
	}

	logger.Debug("Event delivered", "attempts", attempts)
	d.notify(ctx, evt)
	return nil
}

// DispatchAll dispatches events in order and stops at the first failure
func (d *Dispatcher) DispatchAll(ctx context.Context, events []*event.TransactionProcessed) error {
	for _, evt := range events {
		if err := d.Dispatch(ctx, evt); err != nil {
			return err
		}
	}
	return nil
}

// Close signals completion to every observer
func (d *Dispatcher) Close() {
	for _, o := range d.snapshot() {
		func() {
			defer func() {
				if r := recover(); r != nil {
					d.logger.Error("Observer panicked on completion", "panic", r)
				}
			}()
			o.OnCompleted()
		}()
	}
}

func (d *Dispatcher) snapshot() []event.Observer {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.observers)
}

func (d *Dispatcher) notify(ctx context.Context, evt *event.TransactionProcessed) {
	for _, o := range d.snapshot() {
		if err := safeOnEvent(ctx, o, evt); err != nil {
			d.logger.Error("Observer failed to handle event",
				"observer", fmt.Sprintf("%T", o),
				"event_id", evt.ID.String(),
				"error", err,
			)
			safeOnError(o, err)
		}
	}
}

func safeOnEvent(ctx context.Context, o event.Observer, evt *event.TransactionProcessed) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("observer panicked: %v", r)
		}
	}()
	return o.OnEvent(ctx, evt)
}

func safeOnError(o event.Observer, err error) {
	defer func() { _ = recover() }()
	o.OnError(err)
}

func (d *Dispatcher) deadLetterEvent(ctx context.Context, evt *event.TransactionProcessed, cause error) {
	if d.deadLetter == nil {
		return
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		d.logger.Error("Failed to marshal event for DLQ", "event_id", evt.ID.String(), "error", err)
		return
	}
	if err := d.deadLetter.PublishToDLQ(ctx, evt.Transaction.AccountID.String(), payload, cause.Error()); err != nil {
		d.logger.Error("Failed to publish event to DLQ", "event_id", evt.ID.String(), "error", err)
	}
}
