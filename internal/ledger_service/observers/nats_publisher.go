package observers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/financial-operations-ledger/internal/domain/event"
	"github.com/financial-operations-ledger/internal/platform/messaging/broadcast"
)

// Publisher is the subset of *nats.Conn used for fan-out
type Publisher interface {
	Publish(subject string, data []byte) error
	Flush() error
}

// NATSPublisher rebroadcasts delivered events on <prefix>.<transaction type>
type NATSPublisher struct {
	publisher Publisher
	prefix    string
	logger    *slog.Logger
}

func NewNATSPublisher(publisher Publisher, prefix string, logger *slog.Logger) *NATSPublisher {
	return &NATSPublisher{publisher: publisher, prefix: prefix, logger: logger}
}

func (o *NATSPublisher) OnEvent(_ context.Context, evt *event.TransactionProcessed) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", evt.ID, err)
	}
	subject := broadcast.Subject(o.prefix, string(evt.Transaction.Type))
	if err := o.publisher.Publish(subject, payload); err != nil {
		return fmt.Errorf("failed to publish event %s to %s: %w", evt.ID, subject, err)
	}
	return nil
}

func (o *NATSPublisher) OnError(err error) {
	o.logger.Warn("NATS broadcast failed", "error", err)
}

func (o *NATSPublisher) OnCompleted() {
	if err := o.publisher.Flush(); err != nil {
		o.logger.Warn("Failed to flush NATS publisher", "error", err)
	}
}
