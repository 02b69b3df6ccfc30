// Package seed loads demonstration customers and funded accounts.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/financial-operations-ledger/internal/domain/account"
	"github.com/financial-operations-ledger/internal/domain/customer"
	"github.com/financial-operations-ledger/internal/domain/shared"
	"github.com/financial-operations-ledger/internal/ledger_service/service"
	"github.com/shopspring/decimal"
)

const initialDepositDescription = "Initial deposit"

type sampleCustomer struct {
	name     string
	document string
	email    string
}

type sampleAccount struct {
	creditLimit int64
	deposit     int64
}

var (
	sampleCustomers = []sampleCustomer{
		{name: "Walter Bahia", document: "12345678901", email: "walter@email.com"},
		{name: "Alice Rodrigues", document: "98765432109", email: "alice@email.com"},
		{name: "Victor Bahia", document: "45678912345", email: "victor@email.com"},
	}
	sampleAccounts = []sampleAccount{
		{creditLimit: 1000, deposit: 500},
		{creditLimit: 500, deposit: 300},
	}
)

type Seeder struct {
	customers  customer.Repository
	accounts   account.Repository
	operations service.OperationService
	logger     *slog.Logger
}

func NewSeeder(
	customers customer.Repository,
	accounts account.Repository,
	operations service.OperationService,
	logger *slog.Logger,
) *Seeder {
	return &Seeder{
		customers:  customers,
		accounts:   accounts,
		operations: operations,
		logger:     logger,
	}
}

// Seed creates the sample customers unless accounts already exist, for
// example after hydrating from the durable store. Initial deposits go
// through the operation service so they are persisted and dispatched like
// any other credit.
func (s *Seeder) Seed(ctx context.Context) error {
	existing, err := s.accounts.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list accounts: %w", err)
	}
	if len(existing) > 0 {
		s.logger.Info("Skipping sample data, accounts already present", "accounts", len(existing))
		return nil
	}

	for _, sc := range sampleCustomers {
		c, err := customer.NewCustomer(sc.name, sc.document, sc.email)
		if err != nil {
			return fmt.Errorf("invalid sample customer %s: %w", sc.name, err)
		}
		if err := s.customers.Add(ctx, c); err != nil {
			return fmt.Errorf("failed to add customer %s: %w", sc.name, err)
		}

		for _, sa := range sampleAccounts {
			if err := s.openFundedAccount(ctx, c, sa); err != nil {
				return err
			}
		}
		s.logger.Info("Seeded customer", "customer_id", c.ID.String(), "name", c.Name, "accounts", len(c.AccountIDs()))
	}
	return nil
}

func (s *Seeder) openFundedAccount(ctx context.Context, c *customer.Customer, sa sampleAccount) error {
	acc, err := c.OpenAccount(decimal.NewFromInt(sa.creditLimit))
	if err != nil {
		return fmt.Errorf("failed to open account for %s: %w", c.Name, err)
	}
	if err := s.accounts.Add(ctx, acc); err != nil {
		return fmt.Errorf("failed to add account %s: %w", acc.ID(), err)
	}

	req := shared.NewOperationRequest(shared.TransactionTypeCredit, acc.ID(), decimal.NewFromInt(sa.deposit), initialDepositDescription)
	if _, err := s.operations.Execute(ctx, req); err != nil {
		return fmt.Errorf("failed to fund account %s: %w", acc.ID(), err)
	}
	return nil
}
