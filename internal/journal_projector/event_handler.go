// Package journal_projector projects ledger events read from Kafka into the
// transaction journal.
package journal_projector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/financial-operations-ledger/internal/domain/event"
	"github.com/financial-operations-ledger/internal/domain/ledger"
	"github.com/google/uuid"
)

var ErrInvalidEvent = errors.New("event is missing its transaction")

// DeadLetterPublisher receives messages that can never be projected
type DeadLetterPublisher interface {
	PublishToDLQ(ctx context.Context, key string, value []byte, reason string) error
}

// EventHandler handles ledger event messages from Kafka
type EventHandler struct {
	journal ledger.Repository
	dlq     DeadLetterPublisher
	logger  *slog.Logger
}

// NewEventHandler creates a new handler. dlq may be nil.
func NewEventHandler(logger *slog.Logger, journal ledger.Repository, dlq DeadLetterPublisher) *EventHandler {
	return &EventHandler{
		journal: journal,
		dlq:     dlq,
		logger:  logger,
	}
}

// HandleMessage records the event's transaction. A nil return commits the offset.
func (h *EventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var evt event.TransactionProcessed
	if err := json.Unmarshal(value, &evt); err != nil {
		return h.deadLetter(ctx, key, value, fmt.Errorf("failed to unmarshal ledger event: %w", err))
	}
	if evt.Transaction.ID == uuid.Nil || evt.Transaction.AccountID == uuid.Nil {
		return h.deadLetter(ctx, key, value, fmt.Errorf("%w: event %s", ErrInvalidEvent, evt.ID))
	}

	tx := evt.Transaction
	logger := h.logger.With("event_id", evt.ID.String(), "transaction_id", tx.ID.String())

	if err := h.journal.Create(ctx, &tx); err != nil {
		if errors.Is(err, ledger.ErrDuplicateEntry{}) {
			logger.Info("Journal entry already projected")
			return nil
		}
		logger.Error("Failed to project journal entry", "error", err)
		return fmt.Errorf("projecting transaction %s failed: %w", tx.ID, err)
	}

	logger.Info("Projected journal entry",
		"account_id", tx.AccountID.String(),
		"type", string(tx.Type),
		"amount", tx.Amount.String(),
	)
	return nil
}

// deadLetter parks an unprojectable message. Without a DLQ the error is
// returned so the offset stays uncommitted.
func (h *EventHandler) deadLetter(ctx context.Context, key, value []byte, cause error) error {
	h.logger.Error("Unprojectable ledger event", "message_key", string(key), "error", cause)

	if h.dlq == nil {
		return cause
	}
	if err := h.dlq.PublishToDLQ(ctx, string(key), value, cause.Error()); err != nil {
		h.logger.Error("Failed to publish message to DLQ",
			"dlq_error", err,
			"original_error", cause,
			"message_key", string(key),
		)
		return cause
	}
	return nil
}
