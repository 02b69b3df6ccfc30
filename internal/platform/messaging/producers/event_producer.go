package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/financial-operations-ledger/internal/config"
	"github.com/financial-operations-ledger/internal/domain/event"
	"github.com/segmentio/kafka-go"
)

const (
	HeaderEventName = "event-name"
	HeaderEventID   = "event-id"
)

// EventProducer publishes ledger events to the events topic. Messages are
// keyed by account id so each account's events stay on one partition.
type EventProducer struct {
	logger *slog.Logger
	writer KafkaWriter
	topic  string
}

// NewEventProducer ensures the events topic exists and returns a synchronous producer
func NewEventProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*EventProducer, error) {
	if cfg.EventsTopic == "" {
		return nil, fmt.Errorf("kafka events topic is not configured")
	}

	if err := EnsureTopic(ctx, logger, cfg, cfg.EventsTopic); err != nil {
		return nil, fmt.Errorf("failed to ensure events topic %s exists: %w", cfg.EventsTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.BrokerList()...),
		Topic:        cfg.EventsTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		WriteTimeout: cfg.WriteTimeout,
		MaxAttempts:  1,
	}

	return &EventProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.EventsTopic,
	}, nil
}

// Deliver writes evt and waits for the broker acknowledgement.
// Retries are left to the dispatcher, so the writer makes a single attempt.
func (p *EventProducer) Deliver(ctx context.Context, evt *event.TransactionProcessed) error {
	value, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", evt.ID, err)
	}

	key := evt.Transaction.AccountID.String()
	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Headers: []kafka.Header{
			{Key: HeaderEventName, Value: []byte(evt.Name())},
			{Key: HeaderEventID, Value: []byte(evt.ID.String())},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Warn("Failed to publish event",
			"topic", p.topic,
			"key", key,
			"event_id", evt.ID.String(),
			"error", err,
		)
		return fmt.Errorf("failed to publish event %s to %s: %w", evt.ID, p.topic, err)
	}

	p.logger.Debug("Published event",
		"topic", p.topic,
		"key", key,
		"event_id", evt.ID.String(),
	)
	return nil
}

func (p *EventProducer) Close() error {
	p.logger.Info("Closing Kafka event producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
