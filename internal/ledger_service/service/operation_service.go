package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/financial-operations-ledger/internal/domain/account"
	"github.com/financial-operations-ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// ErrPartialFailure reports an operation that committed in memory but could
// not be fully persisted or dispatched afterwards. Nothing is rolled back.
var ErrPartialFailure = errors.New("operation committed but not fully persisted or dispatched")

const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomePartial  = "partial_failure"
)

type LedgerOperationService struct {
	accounts   account.Repository
	dispatcher EventDispatcher
	transfers  *TransferCoordinator
	recorder   OperationRecorder
	logger     *slog.Logger
}

func NewOperationService(
	accounts account.Repository,
	dispatcher EventDispatcher,
	logger *slog.Logger,
) *LedgerOperationService {
	return &LedgerOperationService{
		accounts:   accounts,
		dispatcher: dispatcher,
		transfers:  NewTransferCoordinator(accounts, dispatcher, logger),
		logger:     logger,
	}
}

// SetRecorder reports every executed operation to r
func (s *LedgerOperationService) SetRecorder(r OperationRecorder) {
	s.recorder = r
}

// Execute runs one operation. On a partial failure the result is returned
// together with an error wrapping ErrPartialFailure.
func (s *LedgerOperationService) Execute(ctx context.Context, request *shared.OperationRequest) (*shared.OperationResult, error) {
	start := time.Now()
	logger := s.logger
	if request.CorrelationID != "" {
		logger = s.logger.With("correlation_id", request.CorrelationID)
	}

	var (
		result *shared.OperationResult
		err    error
	)
	if err = request.Validate(); err == nil {
		if request.Type == shared.TransactionTypeTransfer {
			result, err = s.transfers.transfer(ctx, logger, request)
		} else {
			result, err = s.apply(ctx, logger, request)
		}
	}

	if s.recorder != nil {
		s.recorder.RecordOperation(string(request.Type), outcomeOf(err), time.Since(start))
	}
	return result, err
}

func (s *LedgerOperationService) apply(ctx context.Context, logger *slog.Logger, request *shared.OperationRequest) (*shared.OperationResult, error) {
	logger.Info("Executing operation",
		"operation_id", request.OperationID.String(),
		"type", string(request.Type),
		"account_id", request.AccountID.String(),
		"amount", request.Amount.String(),
	)

	acc, err := s.accounts.GetByID(ctx, request.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve account %s: %w", request.AccountID, err)
	}

	evt, err := acc.Apply(request.Type, request.Amount, request.Description)
	if err != nil {
		logger.Warn("Operation rejected",
			"operation_id", request.OperationID.String(),
			"account_id", acc.ID().String(),
			"error", err,
		)
		return nil, err
	}

	result := &shared.OperationResult{
		OperationID:    request.OperationID,
		TransactionIDs: []uuid.UUID{evt.Transaction.ID},
	}

	if err := s.accounts.Save(ctx, acc); err != nil {
		logger.Error("Failed to save account after commit",
			"operation_id", request.OperationID.String(),
			"account_id", acc.ID().String(),
			"error", err,
		)
		return result, fmt.Errorf("%w: save account %s: %w", ErrPartialFailure, acc.ID(), err)
	}

	// events left behind by an earlier failed save go out with this one
	events := acc.DrainEvents()
	if err := s.dispatcher.DispatchAll(ctx, events); err != nil {
		logger.Error("Failed to dispatch committed events",
			"operation_id", request.OperationID.String(),
			"transaction_id", evt.Transaction.ID.String(),
			"events", len(events),
			"error", err,
		)
		return result, fmt.Errorf("%w: %w", ErrPartialFailure, err)
	}

	logger.Info("Operation completed",
		"operation_id", request.OperationID.String(),
		"transaction_id", evt.Transaction.ID.String(),
	)
	return result, nil
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, ErrPartialFailure):
		return OutcomePartial
	default:
		return OutcomeRejected
	}
}
