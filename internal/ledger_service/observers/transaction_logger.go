// Package observers holds the subscribers notified after a ledger event has
// been delivered.
package observers

import (
	"context"
	"log/slog"

	"github.com/financial-operations-ledger/internal/domain/event"
)

// TransactionLogger writes one structured line per processed transaction
type TransactionLogger struct {
	logger *slog.Logger
}

func NewTransactionLogger(logger *slog.Logger) *TransactionLogger {
	return &TransactionLogger{logger: logger}
}

func (o *TransactionLogger) OnEvent(_ context.Context, evt *event.TransactionProcessed) error {
	tx := evt.Transaction
	o.logger.Info("Transaction processed",
		"event_id", evt.ID.String(),
		"transaction_id", tx.ID.String(),
		"account_id", tx.AccountID.String(),
		"type", string(tx.Type),
		"amount", tx.Amount.String(),
		"status", string(tx.Status),
		"description", tx.Description,
	)
	return nil
}

func (o *TransactionLogger) OnError(err error) {
	o.logger.Error("Transaction observer error", "error", err)
}

func (o *TransactionLogger) OnCompleted() {
	o.logger.Info("Transaction observer completed")
}
