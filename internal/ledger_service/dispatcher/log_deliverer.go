package dispatcher

import (
	"context"
	"log/slog"

	"github.com/financial-operations-ledger/internal/domain/event"
)

// LogDeliverer is the delivery step used when no broker is configured.
// It records the event and always succeeds.
type LogDeliverer struct {
	logger *slog.Logger
}

func NewLogDeliverer(logger *slog.Logger) *LogDeliverer {
	return &LogDeliverer{logger: logger}
}

func (l *LogDeliverer) Deliver(ctx context.Context, evt *event.TransactionProcessed) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.logger.Info("Publishing event",
		"event", evt.Name(),
		"event_id", evt.ID.String(),
		"transaction_id", evt.Transaction.ID.String(),
		"account_id", evt.Transaction.AccountID.String(),
	)
	return nil
}
