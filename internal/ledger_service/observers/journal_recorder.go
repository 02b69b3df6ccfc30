package observers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/financial-operations-ledger/internal/domain/event"
	"github.com/financial-operations-ledger/internal/domain/ledger"
)

// JournalRecorder appends every delivered transaction to the journal.
// A transaction already present is treated as recorded.
type JournalRecorder struct {
	journal ledger.Repository
	logger  *slog.Logger
}

func NewJournalRecorder(journal ledger.Repository, logger *slog.Logger) *JournalRecorder {
	return &JournalRecorder{journal: journal, logger: logger}
}

func (o *JournalRecorder) OnEvent(ctx context.Context, evt *event.TransactionProcessed) error {
	tx := evt.Transaction
	if err := o.journal.Create(ctx, &tx); err != nil {
		if errors.Is(err, ledger.ErrDuplicateEntry{}) {
			o.logger.Debug("Journal entry already recorded", "transaction_id", tx.ID.String())
			return nil
		}
		return fmt.Errorf("failed to record journal entry %s: %w", tx.ID, err)
	}
	return nil
}

func (o *JournalRecorder) OnError(err error) {
	o.logger.Error("Journal recorder failed", "error", err)
}

func (o *JournalRecorder) OnCompleted() {}
