package account

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/financial-operations-ledger/internal/domain/event"
	"github.com/financial-operations-ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func newTestAccount(t *testing.T, creditLimit int64) *Account {
	t.Helper()
	acc, err := NewAccount(uuid.New(), d(creditLimit))
	require.NoError(t, err)
	return acc
}

func assertBalances(t *testing.T, acc *Account, available, reserved int64) {
	t.Helper()
	assert.True(t, acc.AvailableBalance().Equal(d(available)), "available balance: got %s, want %d", acc.AvailableBalance(), available)
	assert.True(t, acc.ReservedBalance().Equal(d(reserved)), "reserved balance: got %s, want %d", acc.ReservedBalance(), reserved)
}

func TestNewAccount(t *testing.T) {
	t.Run("SuccessfulCreation", func(t *testing.T) {
		customerID := uuid.New()
		before := time.Now().UTC()

		acc, err := NewAccount(customerID, d(1000))

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, acc.ID())
		assert.Equal(t, customerID, acc.CustomerID())
		assert.True(t, acc.CreditLimit().Equal(d(1000)))
		assert.Equal(t, shared.AccountStatusActive, acc.Status())
		assert.Equal(t, int64(1), acc.Version())
		assert.False(t, acc.CreatedAt().Before(before))
		assertBalances(t, acc, 0, 0)
		assert.Empty(t, acc.Transactions())
		assert.Empty(t, acc.PendingEvents())
	})

	t.Run("NegativeCreditLimit", func(t *testing.T) {
		_, err := NewAccount(uuid.New(), d(-1))
		assert.ErrorIs(t, err, ErrInvalidCreditLimit)
	})

	t.Run("MissingCustomer", func(t *testing.T) {
		_, err := NewAccount(uuid.Nil, d(0))
		assert.ErrorIs(t, err, ErrMissingCustomer)
	})
}

func TestAccount_InvalidAmounts(t *testing.T) {
	ops := []shared.TransactionType{
		shared.TransactionTypeCredit,
		shared.TransactionTypeDebit,
		shared.TransactionTypeReserve,
		shared.TransactionTypeCapture,
		shared.TransactionTypeRefund,
	}
	for _, op := range ops {
		for _, amount := range []decimal.Decimal{decimal.Zero, d(-10)} {
			t.Run(string(op)+"_"+amount.String(), func(t *testing.T) {
				acc := newTestAccount(t, 100)

				evt, err := acc.Apply(op, amount, "bad")

				assert.ErrorIs(t, err, ErrInvalidAmount)
				assert.Nil(t, evt)
				assertBalances(t, acc, 0, 0)
				assert.Empty(t, acc.Transactions())
				assert.Empty(t, acc.PendingEvents())
				assert.Equal(t, int64(1), acc.Version())
			})
		}
	}
}

func TestAccount_Apply_Transfer(t *testing.T) {
	acc := newTestAccount(t, 0)
	_, err := acc.Apply(shared.TransactionTypeTransfer, d(1), "")
	assert.ErrorIs(t, err, ErrUnsupportedTransactionType)
}

func TestAccount_CreditLineCoversDebit(t *testing.T) {
	acc := newTestAccount(t, 1000)

	_, err := acc.Credit(d(500), "deposit")
	require.NoError(t, err)
	assertBalances(t, acc, 500, 0)

	_, err = acc.Debit(d(800), "purchase")
	require.NoError(t, err)
	assertBalances(t, acc, -300, 0)
	assert.True(t, acc.TotalLimit().Equal(d(700)))
}

func TestAccount_DebitBeyondCreditLine(t *testing.T) {
	acc := newTestAccount(t, 100)

	evt, err := acc.Debit(d(200), "too much")

	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Nil(t, evt)
	assertBalances(t, acc, 0, 0)
	assert.Empty(t, acc.Transactions())
}

func TestAccount_DebitExactlyToLimit(t *testing.T) {
	acc := newTestAccount(t, 100)

	_, err := acc.Debit(d(100), "")

	require.NoError(t, err)
	assertBalances(t, acc, -100, 0)
	assert.True(t, acc.TotalLimit().IsZero())
}

func TestAccount_ReserveAndCapture(t *testing.T) {
	acc := newTestAccount(t, 0)

	_, err := acc.Credit(d(500), "")
	require.NoError(t, err)
	_, err = acc.Reserve(d(200), "hold")
	require.NoError(t, err)
	assertBalances(t, acc, 300, 200)
	assert.True(t, acc.TotalBalance().Equal(d(500)))

	_, err = acc.Capture(d(150), "settle")
	require.NoError(t, err)
	assertBalances(t, acc, 300, 50)
	assert.True(t, acc.TotalBalance().Equal(d(350)))
}

func TestAccount_ReserveIgnoresCreditLimit(t *testing.T) {
	acc := newTestAccount(t, 1000)
	_, err := acc.Credit(d(50), "")
	require.NoError(t, err)

	_, err = acc.Reserve(d(100), "")

	assert.ErrorIs(t, err, ErrInsufficientAvailableBalance)
	assertBalances(t, acc, 50, 0)
}

func TestAccount_CaptureAndRefundNeedReservedFunds(t *testing.T) {
	acc := newTestAccount(t, 0)
	_, err := acc.Credit(d(100), "")
	require.NoError(t, err)
	_, err = acc.Reserve(d(30), "")
	require.NoError(t, err)

	_, err = acc.Capture(d(31), "")
	assert.ErrorIs(t, err, ErrInsufficientReservedBalance)
	_, err = acc.Refund(d(31), "")
	assert.ErrorIs(t, err, ErrInsufficientReservedBalance)

	assertBalances(t, acc, 70, 30)
	assert.Len(t, acc.Transactions(), 2)
}

func TestAccount_RoundTrips(t *testing.T) {
	t.Run("CreditThenDebit", func(t *testing.T) {
		acc := newTestAccount(t, 0)
		_, err := acc.Credit(d(75), "")
		require.NoError(t, err)
		_, err = acc.Debit(d(75), "")
		require.NoError(t, err)
		assertBalances(t, acc, 0, 0)
	})

	t.Run("ReserveThenRefund", func(t *testing.T) {
		acc := newTestAccount(t, 0)
		_, err := acc.Credit(d(100), "")
		require.NoError(t, err)
		_, err = acc.Reserve(d(40), "")
		require.NoError(t, err)
		_, err = acc.Refund(d(40), "")
		require.NoError(t, err)
		assertBalances(t, acc, 100, 0)
	})

	t.Run("ReserveThenCapture", func(t *testing.T) {
		acc := newTestAccount(t, 0)
		_, err := acc.Credit(d(100), "")
		require.NoError(t, err)
		_, err = acc.Reserve(d(40), "")
		require.NoError(t, err)
		_, err = acc.Capture(d(40), "")
		require.NoError(t, err)
		assertBalances(t, acc, 60, 0)
		assert.True(t, acc.TotalBalance().Equal(d(60)))
	})
}

func TestAccount_RecordsTransactionAndEvent(t *testing.T) {
	acc := newTestAccount(t, 0)

	evt, err := acc.Credit(decimal.RequireFromString("10.25"), "salary")
	require.NoError(t, err)
	require.NotNil(t, evt)

	txs := acc.Transactions()
	require.Len(t, txs, 1)
	assert.Equal(t, acc.ID(), txs[0].AccountID)
	assert.Equal(t, shared.TransactionTypeCredit, txs[0].Type)
	assert.True(t, txs[0].Amount.Equal(decimal.RequireFromString("10.25")))
	assert.Equal(t, "salary", txs[0].Description)
	assert.Equal(t, shared.TransactionStatusCompleted, txs[0].Status)

	pending := acc.PendingEvents()
	require.Len(t, pending, 1)
	assert.Same(t, evt, pending[0])
	assert.Equal(t, txs[0], evt.Transaction)
	assert.Equal(t, int64(2), acc.Version())
}

func TestAccount_DrainEvents(t *testing.T) {
	acc := newTestAccount(t, 0)
	first, err := acc.Credit(d(1), "")
	require.NoError(t, err)
	second, err := acc.Credit(d(2), "")
	require.NoError(t, err)

	assert.Equal(t, []*event.TransactionProcessed{first, second}, acc.DrainEvents())
	assert.Empty(t, acc.DrainEvents(), "a drained event is handed out once")
	assert.Empty(t, acc.PendingEvents())

	third, err := acc.Credit(d(3), "")
	require.NoError(t, err)
	assert.Equal(t, []*event.TransactionProcessed{third}, acc.PendingEvents())

	acc.ClearPendingEvents()
	assert.Empty(t, acc.PendingEvents())
	assert.Len(t, acc.Transactions(), 3, "draining events never touches history")
}

func TestAccount_ConcurrentCredits(t *testing.T) {
	acc := newTestAccount(t, 0)
	const n = 200

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := acc.Credit(d(5), "")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assertBalances(t, acc, n*5, 0)
	assert.Len(t, acc.Transactions(), n)
	assert.Len(t, acc.PendingEvents(), n)
}

func TestAccount_InvariantsHoldUnderRandomOperations(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	ops := []shared.TransactionType{
		shared.TransactionTypeCredit,
		shared.TransactionTypeDebit,
		shared.TransactionTypeReserve,
		shared.TransactionTypeCapture,
		shared.TransactionTypeRefund,
	}

	for round := 0; round < 20; round++ {
		limit := d(int64(rng.Intn(500)))
		acc, err := NewAccount(uuid.New(), limit)
		require.NoError(t, err)

		recorded := 0
		for i := 0; i < 300; i++ {
			op := ops[rng.Intn(len(ops))]
			amount := decimal.New(int64(rng.Intn(40000)-1000), -2)

			before := acc.Snapshot()
			_, err := acc.Apply(op, amount, "fuzz")
			if err == nil {
				recorded++
			} else {
				after := acc.Snapshot()
				assert.True(t, before.AvailableBalance.Equal(after.AvailableBalance))
				assert.True(t, before.ReservedBalance.Equal(after.ReservedBalance))
			}

			assert.False(t, acc.AvailableBalance().LessThan(limit.Neg()), "available balance fell below the credit line")
			assert.False(t, acc.ReservedBalance().IsNegative(), "reserved balance went negative")
		}
		assert.Equal(t, recorded, acc.TransactionCount())
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	acc := newTestAccount(t, 250)
	_, err := acc.Credit(d(100), "")
	require.NoError(t, err)
	_, err = acc.Reserve(d(20), "")
	require.NoError(t, err)

	snap := acc.Snapshot()
	restored := FromSnapshot(snap)

	assert.Equal(t, acc.ID(), restored.ID())
	assert.Equal(t, acc.CustomerID(), restored.CustomerID())
	assert.True(t, restored.CreditLimit().Equal(d(250)))
	assertBalances(t, restored, 80, 20)
	assert.Equal(t, acc.Version(), restored.Version())
	assert.Equal(t, acc.Transactions(), restored.Transactions())
	assert.Empty(t, restored.PendingEvents())

	_, err = restored.Debit(d(10), "")
	require.NoError(t, err)
	assert.Len(t, snap.Transactions, 2, "snapshot must not alias the restored history")
}
