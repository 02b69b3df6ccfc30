package event

import (
	"testing"

	"github.com/financial-operations-ledger/internal/domain/ledger"
	"github.com/financial-operations-ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewTransactionProcessed(t *testing.T) {
	tx := ledger.NewTransaction(uuid.New(), shared.TransactionTypeCredit, decimal.NewFromInt(100), "salary")

	evt := NewTransactionProcessed(tx)

	assert.NotEqual(t, uuid.Nil, evt.ID)
	assert.NotEqual(t, tx.ID, evt.ID)
	assert.False(t, evt.OccurredAt.IsZero())
	assert.Equal(t, tx, evt.Transaction)
	assert.Equal(t, "TransactionProcessed", evt.Name())
}

func TestTransactionProcessed_PayloadIsCopy(t *testing.T) {
	tx := ledger.NewTransaction(uuid.New(), shared.TransactionTypeCredit, decimal.NewFromInt(1), "")
	evt := NewTransactionProcessed(tx)

	tx.Reverse(uuid.New())

	assert.Equal(t, shared.TransactionStatusCompleted, evt.Transaction.Status)
}
