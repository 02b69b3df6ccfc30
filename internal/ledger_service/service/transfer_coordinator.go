package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/financial-operations-ledger/internal/domain/account"
	"github.com/financial-operations-ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// TransferCoordinator moves funds between two accounts and publishes the
// resulting debit and credit.
type TransferCoordinator struct {
	accounts   account.Repository
	dispatcher EventDispatcher
	logger     *slog.Logger
}

func NewTransferCoordinator(accounts account.Repository, dispatcher EventDispatcher, logger *slog.Logger) *TransferCoordinator {
	return &TransferCoordinator{
		accounts:   accounts,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Transfer executes a TRANSFER request where AccountID is the source and
// CounterpartyAccountID the destination.
func (c *TransferCoordinator) Transfer(ctx context.Context, request *shared.OperationRequest) (*shared.OperationResult, error) {
	logger := c.logger
	if request.CorrelationID != "" {
		logger = c.logger.With("correlation_id", request.CorrelationID)
	}
	return c.transfer(ctx, logger, request)
}

func (c *TransferCoordinator) transfer(ctx context.Context, logger *slog.Logger, request *shared.OperationRequest) (*shared.OperationResult, error) {
	fromID, toID := request.AccountID, request.CounterpartyAccountID
	if fromID == toID {
		return nil, account.ErrEqualAccounts
	}

	logger.Info("Executing transfer",
		"operation_id", request.OperationID.String(),
		"from_account_id", fromID.String(),
		"to_account_id", toID.String(),
		"amount", request.Amount.String(),
	)

	from, fromErr := c.accounts.GetByID(ctx, fromID)
	to, toErr := c.accounts.GetByID(ctx, toID)
	if err := errors.Join(fromErr, toErr); err != nil {
		return nil, fmt.Errorf("failed to resolve transfer accounts: %w", err)
	}

	debit, credit, err := account.Transfer(from, to, request.Amount, request.Description)
	if err != nil {
		logger.Warn("Transfer rejected",
			"operation_id", request.OperationID.String(),
			"from_account_id", fromID.String(),
			"error", err,
		)
		return nil, err
	}

	result := &shared.OperationResult{
		OperationID:    request.OperationID,
		TransactionIDs: []uuid.UUID{debit.Transaction.ID, credit.Transaction.ID},
	}

	for _, acc := range []*account.Account{from, to} {
		if err := c.accounts.Save(ctx, acc); err != nil {
			logger.Error("Failed to save account after transfer commit",
				"operation_id", request.OperationID.String(),
				"account_id", acc.ID().String(),
				"error", err,
			)
			return result, fmt.Errorf("%w: save account %s: %w", ErrPartialFailure, acc.ID(), err)
		}
	}

	events := append(from.DrainEvents(), to.DrainEvents()...)
	if err := c.dispatcher.DispatchAll(ctx, events); err != nil {
		logger.Error("Failed to dispatch transfer events",
			"operation_id", request.OperationID.String(),
			"events", len(events),
			"error", err,
		)
		return result, fmt.Errorf("%w: %w", ErrPartialFailure, err)
	}

	logger.Info("Transfer completed",
		"operation_id", request.OperationID.String(),
		"debit_transaction_id", debit.Transaction.ID.String(),
		"credit_transaction_id", credit.Transaction.ID.String(),
	)
	return result, nil
}
