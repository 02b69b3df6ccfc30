package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/financial-operations-ledger/internal/domain/account"
	"github.com/financial-operations-ledger/internal/domain/customer"
	"github.com/google/uuid"
)

// AccountServiceImpl implements the AccountService interface
type AccountServiceImpl struct {
	accounts  account.Repository
	customers customer.Repository
	logger    *slog.Logger
}

func NewAccountService(logger *slog.Logger, accounts account.Repository, customers customer.Repository) AccountService {
	return &AccountServiceImpl{
		accounts:  accounts,
		customers: customers,
		logger:    logger,
	}
}

func (s *AccountServiceImpl) GetAccountByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	return s.accounts.GetByID(ctx, id)
}

func (s *AccountServiceImpl) ListCustomers(ctx context.Context) ([]*customer.Customer, error) {
	return s.customers.GetAll(ctx)
}

func (s *AccountServiceImpl) GetCustomerAccounts(ctx context.Context, customerID uuid.UUID) (*customer.Customer, []*account.Account, error) {
	c, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, nil, err
	}

	accounts, err := s.accounts.GetByCustomerID(ctx, customerID)
	if err != nil {
		s.logger.Error("Failed to list customer accounts", "customer_id", customerID.String(), "error", err)
		return nil, nil, fmt.Errorf("failed to list accounts of customer %s: %w", customerID, err)
	}
	return c, accounts, nil
}
