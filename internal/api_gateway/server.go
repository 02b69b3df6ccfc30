package api_gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/financial-operations-ledger/internal/api_gateway/handler"
	"github.com/financial-operations-ledger/internal/api_gateway/service"
	"github.com/financial-operations-ledger/internal/config"
	ledgerservice "github.com/financial-operations-ledger/internal/ledger_service/service"
	"github.com/financial-operations-ledger/internal/platform/metrics"
	"github.com/gin-gonic/gin"
)

// Server handles HTTP requests and manages the application's lifecycle
type Server struct {
	logger          *slog.Logger
	httpServer      *http.Server
	httpRouter      *gin.Engine
	shutdownTimeout time.Duration
}

// Services groups what the HTTP layer reads from and writes through
type Services struct {
	Accounts     service.AccountService
	Transactions service.TransactionService
	Operations   ledgerservice.OperationService
}

// NewServer creates and configures a new HTTP server with the given services.
// collector may be nil when metrics are disabled.
func NewServer(log *slog.Logger, cfg *config.Config, services Services, collector *metrics.Collector) *Server {
	if cfg.Application.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	httpRouter := gin.New()

	handlers := routeHandlers{
		accounts:     handler.NewAccountHandler(log, services.Accounts),
		transactions: handler.NewTransactionHandler(log, services.Transactions),
		operations:   handler.NewOperationHandler(log, services.Operations, services.Accounts),
	}
	if !cfg.Metrics.Enabled {
		collector = nil
	}

	setupRouter(log, httpRouter, handlers, collector, cfg.Metrics.Path)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      httpRouter,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Server{
		logger:          log,
		httpServer:      httpServer,
		httpRouter:      httpRouter,
		shutdownTimeout: cfg.Server.ShutdownTimeout,
	}
}

// Handler exposes the configured router
func (s *Server) Handler() http.Handler {
	return s.httpRouter
}

// Start begins listening for HTTP requests
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the HTTP server, waiting at most the configured shutdown timeout
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop HTTP server: %w", err)
	}
	return nil
}
