package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/financial-operations-ledger/internal/api_gateway"
	"github.com/financial-operations-ledger/internal/api_gateway/service"
	"github.com/financial-operations-ledger/internal/config"
	"github.com/financial-operations-ledger/internal/data/memory"
	"github.com/financial-operations-ledger/internal/data/mongo"
	"github.com/financial-operations-ledger/internal/data/postgres"
	"github.com/financial-operations-ledger/internal/domain/account"
	"github.com/financial-operations-ledger/internal/domain/customer"
	"github.com/financial-operations-ledger/internal/domain/event"
	"github.com/financial-operations-ledger/internal/domain/ledger"
	"github.com/financial-operations-ledger/internal/ledger_service/components"
	"github.com/financial-operations-ledger/internal/ledger_service/dispatcher"
	"github.com/financial-operations-ledger/internal/ledger_service/observers"
	"github.com/financial-operations-ledger/internal/ledger_service/seed"
	ledgerservice "github.com/financial-operations-ledger/internal/ledger_service/service"
	"github.com/financial-operations-ledger/internal/logger"
	"github.com/financial-operations-ledger/internal/platform/messaging/broadcast"
	"github.com/financial-operations-ledger/internal/platform/messaging/producers"
	"github.com/financial-operations-ledger/internal/platform/metrics"
	"github.com/financial-operations-ledger/internal/platform/persistence"
	"github.com/nats-io/nats.go"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("ledger_api")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	log.Info("Starting Ledger API",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
	)

	// Durable account snapshots and customers are optional; without them both live in memory only
	var (
		postgresDB    *persistence.PostgresDB
		snapshotStore account.SnapshotStore
		customerStore customer.Store
	)
	if cfg.Postgres.Enabled {
		postgresDB, err = persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
		if err != nil {
			log.Error("Failed to initialize PostgreSQL", "error", err)
			os.Exit(1)
		}
		snapshotStore = postgres.NewAccountSnapshotRepository(log, postgresDB)
		customerStore = postgres.NewCustomerRepository(log, postgresDB)
	}

	accountRepo := memory.NewAccountRepository(log, snapshotStore)
	customerRepo := memory.NewCustomerRepository(log, customerStore)

	if snapshotStore != nil {
		loaded, err := accountRepo.Hydrate(appCtx)
		if err != nil {
			log.Error("Failed to load account snapshots", "error", err)
			os.Exit(1)
		}
		log.Info("Loaded account snapshots", "count", loaded)

		customers, err := customerRepo.Hydrate(appCtx, accountRepo)
		if err != nil {
			log.Error("Failed to load customers", "error", err)
			os.Exit(1)
		}
		log.Info("Loaded customers", "count", customers)
	}

	// The journal backs the transaction history endpoints
	var (
		mongoDB     *persistence.MongoDB
		journalRepo ledger.Repository = memory.NewLedgerRepository()
	)
	if cfg.MongoDB.Enabled {
		mongoDB, err = persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
		if err != nil {
			log.Error("Failed to initialize MongoDB", "error", err)
			os.Exit(1)
		}
		mongoJournal := mongo.NewLedgerRepository(log, mongoDB.Database())
		if err := mongoJournal.EnsureIndexes(appCtx); err != nil {
			log.Error("Failed to create journal indexes", "error", err)
			os.Exit(1)
		}
		journalRepo = mongoJournal
	}

	// Kafka is the primary delivery step when enabled, otherwise events are only logged
	var (
		deliverer     dispatcher.Deliverer = dispatcher.NewLogDeliverer(log)
		eventProducer *producers.EventProducer
		dlqProducer   *producers.DLQProducer
	)
	if cfg.Kafka.Enabled {
		eventProducer, err = producers.NewEventProducer(appCtx, log, &cfg.Kafka)
		if err != nil {
			log.Error("Failed to initialize Kafka event producer", "error", err)
			os.Exit(1)
		}
		deliverer = eventProducer

		dlqProducer, err = producers.NewDLQProducer(appCtx, log, &cfg.Kafka)
		if err != nil {
			log.Error("Failed to initialize DLQ Kafka producer", "error", err)
			os.Exit(1)
		}
	}

	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector()
	}

	// Observers are notified in subscription order
	eventObservers := []event.Observer{
		observers.NewTransactionLogger(log.With("component", "transaction_observer")),
		observers.NewJournalRecorder(journalRepo, log.With("component", "journal_recorder")),
	}
	if collector != nil {
		eventObservers = append(eventObservers, observers.NewMetricsRecorder(collector))
	}
	var natsConn *nats.Conn
	if cfg.NATS.Enabled {
		natsConn, err = broadcast.Connect(log, &cfg.NATS, cfg.Application.Name)
		if err != nil {
			log.Error("Failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		eventObservers = append(eventObservers, observers.NewNATSPublisher(natsConn, cfg.NATS.SubjectPrefix, log.With("component", "nats_publisher")))
	}

	eventDispatcher := components.CreateDispatcher(cfg, deliverer, log, eventObservers...)
	if dlqProducer != nil {
		eventDispatcher.SetDeadLetterPublisher(dlqProducer)
	}

	var recorder ledgerservice.OperationRecorder
	if collector != nil {
		recorder = collector
	}
	operationService := components.CreateOperationService(accountRepo, eventDispatcher, recorder, log, cfg)

	if cfg.Seed.SampleData {
		seeder := seed.NewSeeder(customerRepo, accountRepo, operationService, log.With("component", "seeder"))
		if err := seeder.Seed(appCtx); err != nil {
			log.Error("Failed to seed sample data", "error", err)
			os.Exit(1)
		}
	}

	// Initialize REST server
	server := api_gateway.NewServer(log, cfg, api_gateway.Services{
		Accounts:     service.NewAccountService(log, accountRepo, customerRepo),
		Transactions: service.NewTransactionService(log, journalRepo, accountRepo),
		Operations:   operationService,
	}, collector)
	log.Info("REST server initialized")

	// Create error channel for server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serviceErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case serviceErr = <-errChan:
		log.Error("Service error occurred", "error", serviceErr)
	}

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	if err := server.Stop(context.Background()); err != nil {
		log.Error("Error stopping HTTP server", "error", err)
	}

	// In-flight operations finish before the context they dispatch with is cancelled
	if wpService, ok := operationService.(*ledgerservice.WorkerPoolOperationService); ok {
		wpService.Shutdown()
	}
	cancelAppCtx()

	// observers flush on completion, so the NATS connection closes after them
	eventDispatcher.Close()
	broadcast.Close(log, natsConn)

	if eventProducer != nil {
		if err := eventProducer.Close(); err != nil {
			log.Error("Error closing Kafka event producer", "error", err)
		}
	}
	if err := dlqProducer.Close(); err != nil {
		log.Error("Error closing DLQ Kafka producer", "error", err)
	}

	if postgresDB != nil {
		postgresDB.Close()
	}

	if mongoDB != nil {
		closeCtx, cancelClose := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancelClose()
		if err := mongoDB.Close(closeCtx); err != nil {
			log.Error("Error closing MongoDB connection", "error", err)
		}
	}

	if serviceErr != nil {
		log.Error("Ledger API shutdown with errors", "error", serviceErr)
		os.Exit(1)
	}
	log.Info("Ledger API shutdown completed successfully")
}
