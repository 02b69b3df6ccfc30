package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/financial-operations-ledger/internal/data/memory"
	"github.com/financial-operations-ledger/internal/domain/account"
	"github.com/financial-operations-ledger/internal/domain/event"
	"github.com/financial-operations-ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) DispatchAll(ctx context.Context, events []*event.TransactionProcessed) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Add(ctx context.Context, acc *account.Account) error {
	args := m.Called(ctx, acc)
	return args.Error(0)
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountRepository) Save(ctx context.Context, acc *account.Account) error {
	args := m.Called(ctx, acc)
	return args.Error(0)
}

func (m *MockAccountRepository) GetByCustomerID(ctx context.Context, customerID uuid.UUID) ([]*account.Account, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*account.Account), args.Error(1)
}

func (m *MockAccountRepository) GetAll(ctx context.Context) ([]*account.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*account.Account), args.Error(1)
}

type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) RecordOperation(opType, outcome string, duration time.Duration) {
	m.Called(opType, outcome, duration)
}

// countingDispatcher accepts every event and remembers it, safe for concurrent use
type countingDispatcher struct {
	mu     sync.Mutex
	events []*event.TransactionProcessed
}

func (d *countingDispatcher) DispatchAll(_ context.Context, events []*event.TransactionProcessed) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, events...)
	return nil
}

func (d *countingDispatcher) Count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.events)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func d(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

// openAccount registers a fresh account with an optional opening credit
func openAccount(t *testing.T, repo *memory.AccountRepository, creditLimit, opening int64) *account.Account {
	t.Helper()
	acc, err := account.NewAccount(uuid.New(), d(creditLimit))
	require.NoError(t, err)
	if opening > 0 {
		_, err = acc.Credit(d(opening), "opening")
		require.NoError(t, err)
		acc.ClearPendingEvents()
	}
	require.NoError(t, repo.Add(context.Background(), acc))
	return acc
}

func eventsArg(accountIDs ...uuid.UUID) any {
	return mock.MatchedBy(func(events []*event.TransactionProcessed) bool {
		if len(events) != len(accountIDs) {
			return false
		}
		for i, evt := range events {
			if evt.Transaction.AccountID != accountIDs[i] {
				return false
			}
		}
		return true
	})
}

func request(t shared.TransactionType, accountID uuid.UUID, amount int64) *shared.OperationRequest {
	return shared.NewOperationRequest(t, accountID, d(amount), "test")
}
