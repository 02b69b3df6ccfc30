package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/financial-operations-ledger/internal/domain/account"
	"github.com/financial-operations-ledger/internal/domain/ledger"
	"github.com/google/uuid"
)

// TransactionServiceImpl implements the TransactionService interface
type TransactionServiceImpl struct {
	journal  ledger.Repository
	accounts account.Repository
	logger   *slog.Logger
}

func NewTransactionService(logger *slog.Logger, journal ledger.Repository, accounts account.Repository) TransactionService {
	return &TransactionServiceImpl{
		journal:  journal,
		accounts: accounts,
		logger:   logger,
	}
}

// GetTransactionByID retrieves a transaction by its ID. Returns nil if not found
func (s *TransactionServiceImpl) GetTransactionByID(ctx context.Context, transactionID uuid.UUID) (*ledger.Transaction, error) {
	res, err := s.journal.GetByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, ledger.ErrEntryNotFound{}) {
			s.logger.Info("Transaction not found", "transaction_id", transactionID.String())
			return nil, nil
		}
		s.logger.Error("Failed to get transaction by ID", "transaction_id", transactionID.String(), "error", err)
		return nil, err
	}
	return res, nil
}

func (s *TransactionServiceImpl) GetTransactionsByAccountID(ctx context.Context, accountID uuid.UUID, page, perPage int) ([]*ledger.Transaction, int64, error) {
	if _, err := s.accounts.GetByID(ctx, accountID); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * perPage
	entries, err := s.journal.GetByAccountID(ctx, accountID, perPage, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.journal.CountByAccountID(ctx, accountID)
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
