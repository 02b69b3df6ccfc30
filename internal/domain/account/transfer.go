package account

import (
	"bytes"
	"fmt"

	"github.com/financial-operations-ledger/internal/domain/event"
	"github.com/shopspring/decimal"
)

// Transfer debits from and credits to as one step under both account locks.
// Locks are always taken in ascending id order so that opposite transfers
// between the same pair cannot deadlock. If the debit is rejected neither
// account changes. The returned events are in commit order: source, destination.
func Transfer(from, to *Account, amount decimal.Decimal, description string) (debit, credit *event.TransactionProcessed, err error) {
	if from == to || from.id == to.id {
		return nil, nil, ErrEqualAccounts
	}
	if !amount.IsPositive() {
		return nil, nil, ErrInvalidAmount
	}

	unlock := lockPair(from, to)
	defer unlock()

	debit, err = from.debit(amount, fmt.Sprintf("Transfer to %s - %s", to.id, description))
	if err != nil {
		return nil, nil, err
	}
	// amount is positive, so the credit side cannot be rejected
	credit, err = to.credit(amount, fmt.Sprintf("Transfer from %s - %s", from.id, description))
	if err != nil {
		return nil, nil, err
	}
	return debit, credit, nil
}

func lockPair(a, b *Account) (unlock func()) {
	first, second := a, b
	if bytes.Compare(b.id[:], a.id[:]) < 0 {
		first, second = b, a
	}
	first.mu.Lock()
	second.mu.Lock()
	return func() {
		second.mu.Unlock()
		first.mu.Unlock()
	}
}
