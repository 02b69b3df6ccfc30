package ledger

import (
	"time"

	"github.com/financial-operations-ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is one immutable line of an account's history.
// Only the reversal fields may change after creation.
type Transaction struct {
	ID                    uuid.UUID                `json:"id"`
	AccountID             uuid.UUID                `json:"account_id"`
	Type                  shared.TransactionType   `json:"type"`
	Amount                decimal.Decimal          `json:"amount"`
	Description           string                   `json:"description"`
	Status                shared.TransactionStatus `json:"status"`
	OriginalTransactionID *uuid.UUID               `json:"original_transaction_id,omitempty"`
	CreatedAt             time.Time                `json:"created_at"`
	ProcessedAt           time.Time                `json:"processed_at"`
}

// NewTransaction records a completed mutation of the given account
func NewTransaction(accountID uuid.UUID, t shared.TransactionType, amount decimal.Decimal, description string) Transaction {
	now := time.Now().UTC()
	return Transaction{
		ID:          uuid.New(),
		AccountID:   accountID,
		Type:        t,
		Amount:      amount,
		Description: description,
		Status:      shared.TransactionStatusCompleted,
		CreatedAt:   now,
		ProcessedAt: now,
	}
}

// Reverse marks the transaction as reversed by the transaction with originalID
func (t *Transaction) Reverse(originalID uuid.UUID) {
	t.Status = shared.TransactionStatusReversed
	t.OriginalTransactionID = &originalID
	t.ProcessedAt = time.Now().UTC()
}

func (t Transaction) IsReversed() bool {
	return t.Status == shared.TransactionStatusReversed
}
