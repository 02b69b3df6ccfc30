package api_gateway

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/financial-operations-ledger/internal/api_gateway/handler"
	"github.com/financial-operations-ledger/internal/api_gateway/middleware"
	"github.com/financial-operations-ledger/internal/platform/metrics"
	"github.com/gin-gonic/gin"
)

type routeHandlers struct {
	accounts     *handler.AccountHandler
	transactions *handler.TransactionHandler
	operations   *handler.OperationHandler
}

// setupRouter configures API routes and middleware for the application.
// collector is optional; without it no /metrics endpoint is exposed.
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	handlers routeHandlers,
	collector *metrics.Collector,
	metricsPath string,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Logger(logger))
	if collector != nil {
		r.Use(middleware.Metrics(collector))
	}

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		accounts := v1.Group("/accounts")
		{
			accounts.GET("/:id", handlers.accounts.GetByID)
			accounts.GET("/:id/transactions", handlers.transactions.GetByAccountID)
			accounts.POST("/:id/credit", handlers.operations.Credit)
			accounts.POST("/:id/debit", handlers.operations.Debit)
			accounts.POST("/:id/reserve", handlers.operations.Reserve)
			accounts.POST("/:id/capture", handlers.operations.Capture)
			accounts.POST("/:id/refund", handlers.operations.Refund)
		}

		customers := v1.Group("/customers")
		{
			customers.GET("", handlers.accounts.ListCustomers)
			customers.GET("/:id/accounts", handlers.accounts.GetCustomerAccounts)
		}

		v1.POST("/transfers", handlers.operations.Transfer)
		v1.GET("/transactions/:id", handlers.transactions.GetByID)
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})

	if collector != nil {
		r.GET(metricsPath, gin.WrapH(collector.Handler()))
	}
}
