package service

import (
	"context"

	"github.com/financial-operations-ledger/internal/domain/account"
	"github.com/financial-operations-ledger/internal/domain/customer"
	"github.com/financial-operations-ledger/internal/domain/ledger"
	"github.com/google/uuid"
)

// AccountService defines the read side of accounts and customers
type AccountService interface {
	// GetAccountByID returns ErrAccountNotFound if the account doesn't exist
	GetAccountByID(ctx context.Context, id uuid.UUID) (*account.Account, error)

	// ListCustomers returns every customer ordered by name
	ListCustomers(ctx context.Context) ([]*customer.Customer, error)

	// GetCustomerAccounts returns ErrCustomerNotFound if the customer doesn't exist
	GetCustomerAccounts(ctx context.Context, customerID uuid.UUID) (*customer.Customer, []*account.Account, error)
}

// TransactionService defines the read side of the transaction journal
type TransactionService interface {
	// GetTransactionByID returns nil if the transaction is not found
	GetTransactionByID(ctx context.Context, transactionID uuid.UUID) (*ledger.Transaction, error)

	// GetTransactionsByAccountID returns one page of the account's journal, newest first,
	// and the total count. Returns ErrAccountNotFound for unknown accounts.
	GetTransactionsByAccountID(ctx context.Context, accountID uuid.UUID, page, perPage int) ([]*ledger.Transaction, int64, error)
}
