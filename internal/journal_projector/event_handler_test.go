package journal_projector

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/financial-operations-ledger/internal/data/memory"
	"github.com/financial-operations-ledger/internal/domain/event"
	"github.com/financial-operations-ledger/internal/domain/ledger"
	"github.com/financial-operations-ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockDeadLetterPublisher for testing
type MockDeadLetterPublisher struct {
	mock.Mock
}

func (m *MockDeadLetterPublisher) PublishToDLQ(ctx context.Context, key string, value []byte, reason string) error {
	args := m.Called(ctx, key, value, reason)
	return args.Error(0)
}

type failingJournal struct {
	*memory.LedgerRepository
	err error
}

func (f failingJournal) Create(context.Context, *ledger.Transaction) error {
	return f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func encodedEvent(t *testing.T) (*event.TransactionProcessed, []byte) {
	t.Helper()
	tx := ledger.NewTransaction(uuid.New(), shared.TransactionTypeCapture, decimal.RequireFromString("99.90"), "settle")
	evt := event.NewTransactionProcessed(tx)
	value, err := json.Marshal(evt)
	require.NoError(t, err)
	return evt, value
}

func TestHandleMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("ProjectsTransaction", func(t *testing.T) {
		journal := memory.NewLedgerRepository()
		handler := NewEventHandler(testLogger(), journal, nil)
		evt, value := encodedEvent(t)

		require.NoError(t, handler.HandleMessage(ctx, []byte(evt.Transaction.AccountID.String()), value))

		stored, err := journal.GetByID(ctx, evt.Transaction.ID)
		require.NoError(t, err)
		assert.Equal(t, shared.TransactionTypeCapture, stored.Type)
		assert.True(t, decimal.RequireFromString("99.9").Equal(stored.Amount))
		assert.Equal(t, "settle", stored.Description)
	})

	t.Run("RedeliveryIsAcknowledged", func(t *testing.T) {
		journal := memory.NewLedgerRepository()
		handler := NewEventHandler(testLogger(), journal, nil)
		evt, value := encodedEvent(t)

		require.NoError(t, handler.HandleMessage(ctx, nil, value))
		require.NoError(t, handler.HandleMessage(ctx, nil, value))

		count, err := journal.CountByAccountID(ctx, evt.Transaction.AccountID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("JournalFailureIsRetried", func(t *testing.T) {
		storeErr := errors.New("mongo unavailable")
		handler := NewEventHandler(testLogger(), failingJournal{err: storeErr}, new(MockDeadLetterPublisher))
		_, value := encodedEvent(t)

		err := handler.HandleMessage(ctx, nil, value)

		assert.ErrorIs(t, err, storeErr)
	})

	t.Run("MalformedMessageGoesToDLQ", func(t *testing.T) {
		dlq := new(MockDeadLetterPublisher)
		dlq.On("PublishToDLQ", ctx, "key-1", []byte("not json"), mock.AnythingOfType("string")).Return(nil).Once()
		handler := NewEventHandler(testLogger(), memory.NewLedgerRepository(), dlq)

		require.NoError(t, handler.HandleMessage(ctx, []byte("key-1"), []byte("not json")))
		dlq.AssertExpectations(t)
	})

	t.Run("EventWithoutTransactionGoesToDLQ", func(t *testing.T) {
		dlq := new(MockDeadLetterPublisher)
		dlq.On("PublishToDLQ", ctx, "k", mock.Anything, mock.MatchedBy(func(reason string) bool {
			return strings.Contains(reason, ErrInvalidEvent.Error())
		})).Return(nil).Once()
		handler := NewEventHandler(testLogger(), memory.NewLedgerRepository(), dlq)

		require.NoError(t, handler.HandleMessage(ctx, []byte("k"), []byte(`{"id":"`+uuid.NewString()+`"}`)))
		dlq.AssertExpectations(t)
	})

	t.Run("MalformedWithoutDLQIsNotCommitted", func(t *testing.T) {
		handler := NewEventHandler(testLogger(), memory.NewLedgerRepository(), nil)

		err := handler.HandleMessage(ctx, nil, []byte("{"))

		assert.Error(t, err)
	})

	t.Run("DLQFailureReturnsOriginalError", func(t *testing.T) {
		dlq := new(MockDeadLetterPublisher)
		dlq.On("PublishToDLQ", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("dlq down"))
		handler := NewEventHandler(testLogger(), memory.NewLedgerRepository(), dlq)

		err := handler.HandleMessage(ctx, nil, []byte(`{"id":"`+uuid.NewString()+`"}`))

		assert.ErrorIs(t, err, ErrInvalidEvent)
	})
}
