package memory

import (
	"context"
	"sync"

	"github.com/financial-operations-ledger/internal/domain/ledger"
	"github.com/google/uuid"
)

var _ ledger.Repository = (*LedgerRepository)(nil)

// LedgerRepository is the in-process transaction journal used when no
// MongoDB journal is configured. Entries are kept in insertion order.
type LedgerRepository struct {
	mu        sync.RWMutex
	entries   map[uuid.UUID]*ledger.Transaction
	byAccount map[uuid.UUID][]uuid.UUID
}

func NewLedgerRepository() *LedgerRepository {
	return &LedgerRepository{
		entries:   make(map[uuid.UUID]*ledger.Transaction),
		byAccount: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (r *LedgerRepository) Create(_ context.Context, tx *ledger.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[tx.ID]; exists {
		return ledger.ErrDuplicateEntry{TransactionID: tx.ID}
	}
	stored := *tx
	r.entries[tx.ID] = &stored
	r.byAccount[tx.AccountID] = append(r.byAccount[tx.AccountID], tx.ID)
	return nil
}

func (r *LedgerRepository) GetByID(_ context.Context, transactionID uuid.UUID) (*ledger.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tx, ok := r.entries[transactionID]
	if !ok {
		return nil, ledger.ErrEntryNotFound{TransactionID: transactionID}
	}
	out := *tx
	return &out, nil
}

// GetByAccountID pages through an account's journal, newest first
func (r *LedgerRepository) GetByAccountID(_ context.Context, accountID uuid.UUID, limit, offset int) ([]*ledger.Transaction, error) {
	if limit <= 0 || offset < 0 {
		return []*ledger.Transaction{}, nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := r.byAccount[accountID]
	out := make([]*ledger.Transaction, 0, limit)
	for i := len(ids) - 1 - offset; i >= 0 && len(out) < limit; i-- {
		tx := *r.entries[ids[i]]
		out = append(out, &tx)
	}
	return out, nil
}

func (r *LedgerRepository) CountByAccountID(_ context.Context, accountID uuid.UUID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.byAccount[accountID])), nil
}
