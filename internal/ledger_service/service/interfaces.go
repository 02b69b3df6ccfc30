package service

import (
	"context"
	"time"

	"github.com/financial-operations-ledger/internal/domain/event"
	"github.com/financial-operations-ledger/internal/domain/shared"
)

// OperationService executes ledger operations submitted by callers.
type OperationService interface {
	Execute(ctx context.Context, request *shared.OperationRequest) (*shared.OperationResult, error)
}

// EventDispatcher delivers committed events in order
type EventDispatcher interface {
	DispatchAll(ctx context.Context, events []*event.TransactionProcessed) error
}

// OperationRecorder observes executed operations. It is satisfied by metrics.Collector.
type OperationRecorder interface {
	RecordOperation(opType, outcome string, duration time.Duration)
}
