package components

import (
	"log/slog"

	"github.com/financial-operations-ledger/internal/config"
	"github.com/financial-operations-ledger/internal/domain/account"
	"github.com/financial-operations-ledger/internal/domain/event"
	"github.com/financial-operations-ledger/internal/ledger_service/dispatcher"
	"github.com/financial-operations-ledger/internal/ledger_service/service"
)

// CreateDispatcher builds the event dispatcher from the retry settings and
// subscribes the observers in the order given.
func CreateDispatcher(
	cfg *config.Config,
	deliverer dispatcher.Deliverer,
	logger *slog.Logger,
	observers ...event.Observer,
) *dispatcher.Dispatcher {
	d := dispatcher.New(dispatcher.Config{
		MaxAttempts:    cfg.Dispatcher.MaxAttempts,
		InitialBackoff: cfg.Dispatcher.InitialBackoff,
		MaxBackoff:     cfg.Dispatcher.MaxBackoff,
	}, deliverer, logger.With("component", "dispatcher"))

	for _, o := range observers {
		d.Subscribe(o)
	}
	return d
}

// CreateOperationService creates the ledger operation service with all its
// dependencies. recorder may be nil.
func CreateOperationService(
	accounts account.Repository,
	events service.EventDispatcher,
	recorder service.OperationRecorder,
	logger *slog.Logger,
	cfg *config.Config,
) service.OperationService {
	baseService := service.NewOperationService(accounts, events, logger)
	if recorder != nil {
		baseService.SetRecorder(recorder)
	}

	workerPoolService, err := service.NewWorkerPoolOperationService(
		baseService,
		service.WorkerPoolConfig{
			Size: cfg.WorkerPool.Size,
		},
		logger.With("component", "worker_pool"),
	)

	if err != nil {
		logger.Error("Failed to create worker pool service, falling back to base service", "error", err)
		return baseService
	}

	logger.Info("Created worker pool operation service", "pool_size", cfg.WorkerPool.Size)
	return workerPoolService
}
