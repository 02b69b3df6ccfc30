package account

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/financial-operations-ledger/internal/domain/event"
	"github.com/financial-operations-ledger/internal/domain/ledger"
	"github.com/financial-operations-ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Common errors
var (
	ErrInvalidAmount                = errors.New("amount must be positive")
	ErrInvalidCreditLimit           = errors.New("credit limit cannot be negative")
	ErrInsufficientFunds            = errors.New("insufficient funds")
	ErrInsufficientAvailableBalance = errors.New("insufficient available balance")
	ErrInsufficientReservedBalance  = errors.New("insufficient reserved balance")
	ErrEqualAccounts                = errors.New("source and destination accounts must differ")
	ErrUnsupportedTransactionType   = errors.New("transaction type cannot be applied to a single account")
	ErrMissingCustomer              = errors.New("customer id is required")
)

// Account is a customer ledger account.
//
// All state is guarded by mu. Every successful mutation records exactly one
// Transaction and buffers exactly one TransactionProcessed event, and leaves
// availableBalance >= -creditLimit and reservedBalance >= 0.
type Account struct {
	mu sync.Mutex

	id          uuid.UUID
	customerID  uuid.UUID
	creditLimit decimal.Decimal
	createdAt   time.Time

	availableBalance decimal.Decimal
	reservedBalance  decimal.Decimal
	status           shared.AccountStatus
	version          int64
	updatedAt        time.Time
	transactions     []ledger.Transaction
	pendingEvents    []*event.TransactionProcessed
}

// NewAccount opens an active account with zero balances
func NewAccount(customerID uuid.UUID, creditLimit decimal.Decimal) (*Account, error) {
	if customerID == uuid.Nil {
		return nil, ErrMissingCustomer
	}
	if creditLimit.IsNegative() {
		return nil, ErrInvalidCreditLimit
	}

	now := time.Now().UTC()
	return &Account{
		id:               uuid.New(),
		customerID:       customerID,
		creditLimit:      creditLimit,
		availableBalance: decimal.Zero,
		reservedBalance:  decimal.Zero,
		status:           shared.AccountStatusActive,
		version:          1,
		createdAt:        now,
		updatedAt:        now,
	}, nil
}

func (a *Account) ID() uuid.UUID { return a.id }
func (a *Account) CustomerID() uuid.UUID { return a.customerID }
func (a *Account) CreditLimit() decimal.Decimal { return a.creditLimit }
func (a *Account) CreatedAt() time.Time { return a.createdAt }

func (a *Account) AvailableBalance() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.availableBalance
}

func (a *Account) ReservedBalance() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.reservedBalance
}

// TotalBalance is available plus reserved funds
func (a *Account) TotalBalance() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.availableBalance.Add(a.reservedBalance)
}

// TotalLimit is the spending power: available funds plus the credit limit
func (a *Account) TotalLimit() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.availableBalance.Add(a.creditLimit)
}

func (a *Account) Status() shared.AccountStatus {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

func (a *Account) Version() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.version
}

func (a *Account) UpdatedAt() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.updatedAt
}

// Transactions returns the history in the order it was recorded
func (a *Account) Transactions() []ledger.Transaction {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]ledger.Transaction, len(a.transactions))
	copy(out, a.transactions)
	return out
}

func (a *Account) TransactionCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.transactions)
}

// PendingEvents returns the buffered events that have not been cleared yet
func (a *Account) PendingEvents() []*event.TransactionProcessed {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]*event.TransactionProcessed, len(a.pendingEvents))
	copy(out, a.pendingEvents)
	return out
}

// DrainEvents hands back every buffered event, oldest first, and empties the
// buffer. Each event is returned by exactly one call.
func (a *Account) DrainEvents() []*event.TransactionProcessed {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := a.pendingEvents
	a.pendingEvents = nil
	return out
}

// ClearPendingEvents empties the buffer
func (a *Account) ClearPendingEvents() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pendingEvents = nil
}

// Credit adds amount to the available balance
func (a *Account) Credit(amount decimal.Decimal, description string) (*event.TransactionProcessed, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.credit(amount, description)
}

// Debit removes amount from the available balance, drawing on the credit limit if needed
func (a *Account) Debit(amount decimal.Decimal, description string) (*event.TransactionProcessed, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.debit(amount, description)
}

// Reserve moves amount from available to reserved funds. The credit limit does not apply.
func (a *Account) Reserve(amount decimal.Decimal, description string) (*event.TransactionProcessed, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.reserve(amount, description)
}

// Capture consumes previously reserved funds
func (a *Account) Capture(amount decimal.Decimal, description string) (*event.TransactionProcessed, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.capture(amount, description)
}

// Refund returns previously reserved funds to the available balance
func (a *Account) Refund(amount decimal.Decimal, description string) (*event.TransactionProcessed, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.refund(amount, description)
}

// Apply runs the single-account operation named by t
func (a *Account) Apply(t shared.TransactionType, amount decimal.Decimal, description string) (*event.TransactionProcessed, error) {
	switch t {
	case shared.TransactionTypeCredit:
		return a.Credit(amount, description)
	case shared.TransactionTypeDebit:
		return a.Debit(amount, description)
	case shared.TransactionTypeReserve:
		return a.Reserve(amount, description)
	case shared.TransactionTypeCapture:
		return a.Capture(amount, description)
	case shared.TransactionTypeRefund:
		return a.Refund(amount, description)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedTransactionType, t)
	}
}

// The lowercase mutations below expect a.mu to be held by the caller.

func (a *Account) credit(amount decimal.Decimal, description string) (*event.TransactionProcessed, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	a.availableBalance = a.availableBalance.Add(amount)
	return a.record(shared.TransactionTypeCredit, amount, description), nil
}

func (a *Account) debit(amount decimal.Decimal, description string) (*event.TransactionProcessed, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if limit := a.availableBalance.Add(a.creditLimit); limit.LessThan(amount) {
		return nil, fmt.Errorf("%w: requested %s, available with credit %s", ErrInsufficientFunds, amount, limit)
	}
	a.availableBalance = a.availableBalance.Sub(amount)
	return a.record(shared.TransactionTypeDebit, amount, description), nil
}

func (a *Account) reserve(amount decimal.Decimal, description string) (*event.TransactionProcessed, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if a.availableBalance.LessThan(amount) {
		return nil, fmt.Errorf("%w: requested %s, available %s", ErrInsufficientAvailableBalance, amount, a.availableBalance)
	}
	a.availableBalance = a.availableBalance.Sub(amount)
	a.reservedBalance = a.reservedBalance.Add(amount)
	return a.record(shared.TransactionTypeReserve, amount, description), nil
}

func (a *Account) capture(amount decimal.Decimal, description string) (*event.TransactionProcessed, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if a.reservedBalance.LessThan(amount) {
		return nil, fmt.Errorf("%w: requested %s, reserved %s", ErrInsufficientReservedBalance, amount, a.reservedBalance)
	}
	a.reservedBalance = a.reservedBalance.Sub(amount)
	return a.record(shared.TransactionTypeCapture, amount, description), nil
}

func (a *Account) refund(amount decimal.Decimal, description string) (*event.TransactionProcessed, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if a.reservedBalance.LessThan(amount) {
		return nil, fmt.Errorf("%w: requested %s, reserved %s", ErrInsufficientReservedBalance, amount, a.reservedBalance)
	}
	a.reservedBalance = a.reservedBalance.Sub(amount)
	a.availableBalance = a.availableBalance.Add(amount)
	return a.record(shared.TransactionTypeRefund, amount, description), nil
}

func (a *Account) record(t shared.TransactionType, amount decimal.Decimal, description string) *event.TransactionProcessed {
	tx := ledger.NewTransaction(a.id, t, amount, description)
	a.transactions = append(a.transactions, tx)
	a.version++
	a.updatedAt = tx.CreatedAt

	evt := event.NewTransactionProcessed(tx)
	a.pendingEvents = append(a.pendingEvents, evt)
	return evt
}
