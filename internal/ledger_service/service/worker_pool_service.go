package service

import (
	"context"
	"log/slog"

	"github.com/financial-operations-ledger/internal/domain/shared"
	"github.com/panjf2000/ants/v2"
)

// WorkerPoolOperationService bounds how many operations execute at once.
// Submissions block while the pool is saturated.
type WorkerPoolOperationService struct {
	baseService OperationService
	pool        *ants.Pool
	logger      *slog.Logger
}

type WorkerPoolConfig struct {
	Size int
}

type executionResult struct {
	result *shared.OperationResult
	err    error
}

func NewWorkerPoolOperationService(
	baseService OperationService,
	config WorkerPoolConfig,
	logger *slog.Logger,
) (*WorkerPoolOperationService, error) {
	pool, err := ants.NewPool(config.Size)
	if err != nil {
		return nil, err
	}

	return &WorkerPoolOperationService{
		baseService: baseService,
		pool:        pool,
		logger:      logger,
	}, nil
}

// Execute runs the operation on a pool worker and waits for its result.
// Once submitted the operation runs to completion even if ctx is cancelled.
func (s *WorkerPoolOperationService) Execute(ctx context.Context, request *shared.OperationRequest) (*shared.OperationResult, error) {
	logger := s.logger
	if request.CorrelationID != "" {
		logger = s.logger.With("correlation_id", request.CorrelationID)
	}

	logger.Debug("Submitting operation to worker pool",
		"operation_id", request.OperationID.String(),
		"type", string(request.Type),
	)

	resultChan := make(chan executionResult, 1)

	// Copy so the caller may reuse its request
	requestCopy := *request

	err := s.pool.Submit(func() {
		result, err := s.baseService.Execute(ctx, &requestCopy)
		resultChan <- executionResult{result: result, err: err}
	})
	if err != nil {
		logger.Error("Failed to submit operation to worker pool",
			"operation_id", request.OperationID.String(),
			"error", err,
		)
		return nil, err
	}

	res := <-resultChan
	return res.result, res.err
}

// Shutdown releases the pool. Operations already running finish on their own.
func (s *WorkerPoolOperationService) Shutdown() {
	s.logger.Info("Shutting down worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}

func (s *WorkerPoolOperationService) Running() int {
	return s.pool.Running()
}

func (s *WorkerPoolOperationService) Capacity() int {
	return s.pool.Cap()
}
