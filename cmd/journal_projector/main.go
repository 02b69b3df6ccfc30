package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/financial-operations-ledger/internal/config"
	"github.com/financial-operations-ledger/internal/data/mongo"
	"github.com/financial-operations-ledger/internal/journal_projector"
	"github.com/financial-operations-ledger/internal/logger"
	"github.com/financial-operations-ledger/internal/platform/messaging/consumers"
	"github.com/financial-operations-ledger/internal/platform/messaging/producers"
	"github.com/financial-operations-ledger/internal/platform/persistence"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("journal_projector")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	if !cfg.Kafka.Enabled || !cfg.MongoDB.Enabled {
		log.Error("Journal projector requires KAFKA_ENABLED and MONGO_ENABLED")
		os.Exit(1)
	}

	log.Info("Starting Journal Projector",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
	)

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	journalRepo := mongo.NewLedgerRepository(log, mongoDB.Database())
	if err := journalRepo.EnsureIndexes(appCtx); err != nil {
		log.Error("Failed to create journal indexes", "error", err)
		os.Exit(1)
	}

	// Initialize Kafka DLQ producer
	dlqProducer, err := producers.NewDLQProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize DLQ Kafka producer", "error", err)
		os.Exit(1)
	}

	var dlq journal_projector.DeadLetterPublisher
	if dlqProducer != nil {
		dlq = dlqProducer
	}
	eventHandler := journal_projector.NewEventHandler(log.With("component", "event_handler"), journalRepo, dlq)

	kafkaConsumer := consumers.NewKafkaConsumer(log, &cfg.Kafka)
	if err := kafkaConsumer.Subscribe(appCtx, eventHandler.HandleMessage); err != nil {
		log.Error("Failed to start Kafka consumer", "error", err)
		os.Exit(1)
	}

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case <-kafkaConsumer.Done():
		log.Warn("Kafka consumer stopped unexpectedly")
	}

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")
	cancelAppCtx()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	select {
	case <-kafkaConsumer.Done():
		log.Info("Kafka consumer stopped")
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout reached, forcing exit")
	}

	if err := kafkaConsumer.Close(); err != nil {
		log.Error("Error closing Kafka consumer", "error", err)
	}
	if err := dlqProducer.Close(); err != nil {
		log.Error("Error closing DLQ Kafka producer", "error", err)
	}

	closeCtx, cancelClose := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelClose()
	if err := mongoDB.Close(closeCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	log.Info("Journal Projector shutdown completed successfully")
}
