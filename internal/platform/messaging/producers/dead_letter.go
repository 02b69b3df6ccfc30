package producers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/financial-operations-ledger/internal/config"
	"github.com/segmentio/kafka-go"
)

const (
	HeaderDLQReason   = "dlq-reason"
	HeaderSourceTopic = "source-topic"
)

var ErrDLQDisabled = errors.New("DLQ producer not initialized")

// DeadLetter is the envelope written to the DLQ topic. A JSON payload is kept
// as is in Payload, anything else is carried as text in RawPayload.
type DeadLetter struct {
	Key         string          `json:"key"`
	SourceTopic string          `json:"source_topic"`
	Reason      string          `json:"reason"`
	Payload     json.RawMessage `json:"payload,omitempty"`
	RawPayload  string          `json:"raw_payload,omitempty"`
	FailedAt    time.Time       `json:"failed_at"`
}

// DLQProducer parks events that could not be delivered or projected
type DLQProducer struct {
	logger      *slog.Logger
	writer      KafkaWriter
	dlqTopic    string
	sourceTopic string
}

// NewDLQProducer returns a nil producer when cfg.DLQTopic is empty
func NewDLQProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*DLQProducer, error) {
	if cfg.DLQTopic == "" {
		logger.Info("DLQ topic is not configured, dead letters will only be logged")
		return nil, nil
	}

	if err := EnsureTopic(ctx, logger, cfg, cfg.DLQTopic); err != nil {
		return nil, fmt.Errorf("failed to ensure DLQ topic %s exists: %w", cfg.DLQTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.BrokerList()...),
		Topic:        cfg.DLQTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &DLQProducer{
		logger:      logger,
		writer:      writer,
		dlqTopic:    cfg.DLQTopic,
		sourceTopic: cfg.EventsTopic,
	}, nil
}

func (p *DLQProducer) envelope(key string, value []byte, reason string) DeadLetter {
	dl := DeadLetter{
		Key:         key,
		SourceTopic: p.sourceTopic,
		Reason:      reason,
		FailedAt:    time.Now().UTC(),
	}
	if json.Valid(value) {
		dl.Payload = value
	} else {
		dl.RawPayload = string(value)
	}
	return dl
}

// PublishToDLQ writes value with its failure reason, keyed like the original message
func (p *DLQProducer) PublishToDLQ(ctx context.Context, key string, value []byte, reason string) error {
	if p == nil || p.writer == nil {
		return ErrDLQDisabled
	}

	body, err := json.Marshal(p.envelope(key, value, reason))
	if err != nil {
		return fmt.Errorf("failed to marshal dead letter: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: body,
		Headers: []kafka.Header{
			{Key: HeaderDLQReason, Value: []byte(reason)},
			{Key: HeaderSourceTopic, Value: []byte(p.sourceTopic)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish dead letter",
			"topic", p.dlqTopic,
			"key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish dead letter to %s: %w", p.dlqTopic, err)
	}

	p.logger.Warn("Published dead letter",
		"topic", p.dlqTopic,
		"key", key,
		"reason", reason,
	)
	return nil
}

func (p *DLQProducer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close DLQ writer for topic %s: %w", p.dlqTopic, err)
	}
	return nil
}
