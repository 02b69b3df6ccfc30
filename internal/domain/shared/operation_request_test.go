package shared

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTransactionType(t *testing.T) {
	tt, err := ParseTransactionType(" credit ")
	require.NoError(t, err)
	assert.Equal(t, TransactionTypeCredit, tt)

	_, err = ParseTransactionType("withdrawal")
	assert.ErrorIs(t, err, ErrInvalidTransactionType)
}

func TestOperationRequest_Validate(t *testing.T) {
	accountID := uuid.New()
	amount := decimal.NewFromInt(10)

	t.Run("single account operation", func(t *testing.T) {
		r := NewOperationRequest(TransactionTypeReserve, accountID, amount, "hold")
		assert.NoError(t, r.Validate())
		assert.NotEqual(t, uuid.Nil, r.OperationID)
		assert.False(t, r.RequestedAt.IsZero())
	})

	t.Run("unknown type", func(t *testing.T) {
		r := NewOperationRequest(TransactionType("BONUS"), accountID, amount, "")
		assert.ErrorIs(t, r.Validate(), ErrInvalidTransactionType)
	})

	t.Run("missing account", func(t *testing.T) {
		r := NewOperationRequest(TransactionTypeCredit, uuid.Nil, amount, "")
		assert.ErrorIs(t, r.Validate(), ErrMissingAccountID)
	})

	t.Run("transfer without destination", func(t *testing.T) {
		r := NewTransferRequest(accountID, uuid.Nil, amount, "")
		assert.ErrorIs(t, r.Validate(), ErrMissingCounterparty)
	})

	t.Run("transfer", func(t *testing.T) {
		to := uuid.New()
		r := NewTransferRequest(accountID, to, amount, "rent")
		require.NoError(t, r.Validate())
		assert.Equal(t, TransactionTypeTransfer, r.Type)
		assert.Equal(t, to, r.CounterpartyAccountID)
	})
}
