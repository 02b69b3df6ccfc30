// Package event holds the domain events emitted by ledger accounts and the
// observer capability that consumes them after delivery.
package event

import (
	"context"
	"time"

	"github.com/financial-operations-ledger/internal/domain/ledger"
	"github.com/google/uuid"
)

const TransactionProcessedName = "TransactionProcessed"

// TransactionProcessed announces that an account committed a transaction.
// The payload is a copy taken at commit time.
type TransactionProcessed struct {
	ID          uuid.UUID          `json:"id"`
	OccurredAt  time.Time          `json:"occurred_at"`
	Transaction ledger.Transaction `json:"transaction"`
}

func NewTransactionProcessed(tx ledger.Transaction) *TransactionProcessed {
	return &TransactionProcessed{
		ID:          uuid.New(),
		OccurredAt:  time.Now().UTC(),
		Transaction: tx,
	}
}

func (e *TransactionProcessed) Name() string {
	return TransactionProcessedName
}

// Observer receives events once they have been delivered.
// OnError is called with the failure of this observer's own OnEvent.
// OnCompleted is called once when the dispatcher shuts down.
type Observer interface {
	OnEvent(ctx context.Context, evt *TransactionProcessed) error
	OnError(err error)
	OnCompleted()
}
