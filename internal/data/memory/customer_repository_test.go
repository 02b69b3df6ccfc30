package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/financial-operations-ledger/internal/domain/customer"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCustomerRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewCustomerRepository(testLogger(), nil)

	victor, err := customer.NewCustomer("Victor Bahia", "45678912345", "victor@email.com")
	require.NoError(t, err)
	alice, err := customer.NewCustomer("Alice Rodrigues", "98765432109", "alice@email.com")
	require.NoError(t, err)
	require.NoError(t, repo.Add(ctx, victor))
	require.NoError(t, repo.Add(ctx, alice))

	t.Run("GetByID", func(t *testing.T) {
		got, err := repo.GetByID(ctx, victor.ID)
		require.NoError(t, err)
		assert.Same(t, victor, got)

		_, err = repo.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, customer.ErrCustomerNotFound{})
	})

	t.Run("GetByDocument", func(t *testing.T) {
		got, err := repo.GetByDocument(ctx, "98765432109")
		require.NoError(t, err)
		assert.Same(t, alice, got)

		_, err = repo.GetByDocument(ctx, "000")
		assert.ErrorIs(t, err, customer.ErrCustomerNotFound{})
	})

	t.Run("DuplicateDocument", func(t *testing.T) {
		clone, err := customer.NewCustomer("Someone Else", "45678912345", "x@y.z")
		require.NoError(t, err)

		err = repo.Add(ctx, clone)

		var dup customer.ErrDuplicateDocument
		assert.ErrorAs(t, err, &dup)
	})

	t.Run("GetAllSortedByName", func(t *testing.T) {
		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "Alice Rodrigues", all[0].Name)
		assert.Equal(t, "Victor Bahia", all[1].Name)
	})
}

type MockCustomerStore struct {
	mock.Mock
}

func (m *MockCustomerStore) SaveCustomer(ctx context.Context, record customer.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockCustomerStore) LoadCustomers(ctx context.Context) ([]customer.Record, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]customer.Record), args.Error(1)
}

func TestCustomerRepository_WriteThrough(t *testing.T) {
	ctx := context.Background()
	walter, err := customer.NewCustomer("Walter Bahia", "12345678901", "walter@email.com")
	require.NoError(t, err)

	t.Run("SavesRecord", func(t *testing.T) {
		store := new(MockCustomerStore)
		store.On("SaveCustomer", ctx, walter.Record()).Return(nil).Once()
		repo := NewCustomerRepository(testLogger(), store)

		require.NoError(t, repo.Add(ctx, walter))
		store.AssertExpectations(t)
	})

	t.Run("StoreError", func(t *testing.T) {
		storeErr := errors.New("connection refused")
		store := new(MockCustomerStore)
		store.On("SaveCustomer", ctx, walter.Record()).Return(storeErr).Once()
		repo := NewCustomerRepository(testLogger(), store)

		assert.ErrorIs(t, repo.Add(ctx, walter), storeErr)
	})
}

func TestCustomerRepository_Hydrate(t *testing.T) {
	ctx := context.Background()
	walter, err := customer.NewCustomer("Walter Bahia", "12345678901", "walter@email.com")
	require.NoError(t, err)
	checking, err := walter.OpenAccount(decimal.NewFromInt(1000))
	require.NoError(t, err)
	savings, err := walter.OpenAccount(decimal.NewFromInt(500))
	require.NoError(t, err)

	accounts := NewAccountRepository(testLogger(), nil)
	require.NoError(t, accounts.Add(ctx, checking))
	require.NoError(t, accounts.Add(ctx, savings))

	alice := customer.Record{ID: uuid.New(), Name: "Alice Rodrigues", Document: "98765432109", Email: "alice@email.com"}
	store := new(MockCustomerStore)
	store.On("LoadCustomers", ctx).Return([]customer.Record{walter.Record(), alice}, nil).Once()
	repo := NewCustomerRepository(testLogger(), store)

	loaded, err := repo.Hydrate(ctx, accounts)

	require.NoError(t, err)
	assert.Equal(t, 2, loaded)

	restored, err := repo.GetByDocument(ctx, "12345678901")
	require.NoError(t, err)
	assert.Equal(t, walter.ID, restored.ID)
	assert.Equal(t, []uuid.UUID{checking.ID(), savings.ID()}, restored.AccountIDs())

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	t.Run("WithoutStore", func(t *testing.T) {
		n, err := NewCustomerRepository(testLogger(), nil).Hydrate(ctx, accounts)
		assert.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("StoreError", func(t *testing.T) {
		failing := new(MockCustomerStore)
		failing.On("LoadCustomers", ctx).Return(nil, errors.New("timeout")).Once()
		_, err := NewCustomerRepository(testLogger(), failing).Hydrate(ctx, accounts)
		assert.ErrorContains(t, err, "failed to load customers")
	})
}
