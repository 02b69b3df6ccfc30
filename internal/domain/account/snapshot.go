package account

import (
	"time"

	"github.com/financial-operations-ledger/internal/domain/ledger"
	"github.com/financial-operations-ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Snapshot is a consistent copy of an account's state, used by durable stores
type Snapshot struct {
	ID               uuid.UUID
	CustomerID       uuid.UUID
	AvailableBalance decimal.Decimal
	ReservedBalance  decimal.Decimal
	CreditLimit      decimal.Decimal
	Status           shared.AccountStatus
	Version          int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Transactions     []ledger.Transaction
}

func (a *Account) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	txs := make([]ledger.Transaction, len(a.transactions))
	copy(txs, a.transactions)
	return Snapshot{
		ID:               a.id,
		CustomerID:       a.customerID,
		AvailableBalance: a.availableBalance,
		ReservedBalance:  a.reservedBalance,
		CreditLimit:      a.creditLimit,
		Status:           a.status,
		Version:          a.version,
		CreatedAt:        a.createdAt,
		UpdatedAt:        a.updatedAt,
		Transactions:     txs,
	}
}

// FromSnapshot rebuilds an account. The event buffer starts empty.
func FromSnapshot(s Snapshot) *Account {
	txs := make([]ledger.Transaction, len(s.Transactions))
	copy(txs, s.Transactions)
	return &Account{
		id:               s.ID,
		customerID:       s.CustomerID,
		creditLimit:      s.CreditLimit,
		createdAt:        s.CreatedAt,
		availableBalance: s.AvailableBalance,
		reservedBalance:  s.ReservedBalance,
		status:           s.Status,
		version:          s.Version,
		updatedAt:        s.UpdatedAt,
		transactions:     txs,
	}
}
