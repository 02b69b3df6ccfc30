// Package memory provides the in-process repositories. The account repository
// is an identity map: every lookup of an id yields the same *account.Account.
package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/financial-operations-ledger/internal/domain/account"
	"github.com/google/uuid"
)

var _ account.Repository = (*AccountRepository)(nil)

// AccountRepository keeps live account instances and optionally writes
// snapshots through to a durable store on Save.
type AccountRepository struct {
	mu         sync.RWMutex
	accounts   map[uuid.UUID]*account.Account
	byCustomer map[uuid.UUID][]uuid.UUID

	store  account.SnapshotStore
	logger *slog.Logger
}

// NewAccountRepository creates the repository. store may be nil.
func NewAccountRepository(logger *slog.Logger, store account.SnapshotStore) *AccountRepository {
	return &AccountRepository{
		accounts:   make(map[uuid.UUID]*account.Account),
		byCustomer: make(map[uuid.UUID][]uuid.UUID),
		store:      store,
		logger:     logger,
	}
}

// Hydrate loads every stored snapshot into the identity map.
// Accounts already present are left alone.
func (r *AccountRepository) Hydrate(ctx context.Context) (int, error) {
	if r.store == nil {
		return 0, nil
	}
	snapshots, err := r.store.LoadSnapshots(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load account snapshots: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	loaded := 0
	for _, s := range snapshots {
		if _, exists := r.accounts[s.ID]; exists {
			continue
		}
		r.put(account.FromSnapshot(s))
		loaded++
	}
	r.logger.Info("Hydrated accounts from snapshot store", "count", loaded)
	return loaded, nil
}

func (r *AccountRepository) Add(ctx context.Context, acc *account.Account) error {
	r.mu.Lock()
	if _, exists := r.accounts[acc.ID()]; exists {
		r.mu.Unlock()
		return account.ErrDuplicateAccount{AccountID: acc.ID()}
	}
	r.put(acc)
	r.mu.Unlock()

	return r.writeThrough(ctx, acc)
}

func (r *AccountRepository) GetByID(_ context.Context, id uuid.UUID) (*account.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	acc, ok := r.accounts[id]
	if !ok {
		return nil, account.ErrAccountNotFound{AccountID: id}
	}
	return acc, nil
}

// Save persists the account's current state. The live instance is already
// the in-memory source of truth, so only the durable copy is updated.
func (r *AccountRepository) Save(ctx context.Context, acc *account.Account) error {
	r.mu.RLock()
	current, ok := r.accounts[acc.ID()]
	r.mu.RUnlock()
	if !ok {
		return account.ErrAccountNotFound{AccountID: acc.ID()}
	}
	if current != acc {
		return fmt.Errorf("account %s is not the registered instance", acc.ID())
	}
	return r.writeThrough(ctx, acc)
}

func (r *AccountRepository) GetByCustomerID(_ context.Context, customerID uuid.UUID) ([]*account.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := r.byCustomer[customerID]
	out := make([]*account.Account, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.accounts[id])
	}
	return out, nil
}

// GetAll returns every account ordered by creation time
func (r *AccountRepository) GetAll(_ context.Context) ([]*account.Account, error) {
	r.mu.RLock()
	out := make([]*account.Account, 0, len(r.accounts))
	for _, acc := range r.accounts {
		out = append(out, acc)
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt().Equal(out[j].CreatedAt()) {
			return out[i].ID().String() < out[j].ID().String()
		}
		return out[i].CreatedAt().Before(out[j].CreatedAt())
	})
	return out, nil
}

// put expects r.mu to be held for writing
func (r *AccountRepository) put(acc *account.Account) {
	r.accounts[acc.ID()] = acc
	r.byCustomer[acc.CustomerID()] = append(r.byCustomer[acc.CustomerID()], acc.ID())
}

func (r *AccountRepository) writeThrough(ctx context.Context, acc *account.Account) error {
	if r.store == nil {
		return nil
	}
	if err := r.store.SaveSnapshot(ctx, acc.Snapshot()); err != nil {
		r.logger.Error("Failed to persist account snapshot", "account_id", acc.ID(), "error", err)
		return fmt.Errorf("failed to persist account %s: %w", acc.ID(), err)
	}
	return nil
}
