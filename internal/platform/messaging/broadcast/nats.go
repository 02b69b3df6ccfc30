// Package broadcast connects to the NATS server used for best-effort fan-out
// of delivered ledger events.
package broadcast

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/financial-operations-ledger/internal/config"
	"github.com/nats-io/nats.go"
)

var ErrEmptyURL = errors.New("nats url is empty")

// Connect opens a NATS connection that keeps reconnecting in the background
func Connect(logger *slog.Logger, cfg *config.NATSConfig, clientName string) (*nats.Conn, error) {
	if cfg.URL == "" {
		return nil, ErrEmptyURL
	}

	nc, err := nats.Connect(cfg.URL,
		nats.Name(clientName),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS connection lost", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("NATS connection restored", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", cfg.URL, err)
	}

	logger.Info("Connected to NATS", "url", nc.ConnectedUrl())
	return nc, nil
}

// Subject builds the subject for a transaction type under prefix
func Subject(prefix, txType string) string {
	if prefix == "" {
		return txType
	}
	return prefix + "." + txType
}

// Close shuts nc down once pending publishes are flushed. A nil connection is ignored.
func Close(logger *slog.Logger, nc *nats.Conn) {
	if nc == nil || nc.IsClosed() {
		return
	}
	if err := nc.FlushTimeout(2 * time.Second); err != nil {
		logger.Warn("NATS flush before close failed", "error", err)
	}
	nc.Close()
	logger.Info("Closed NATS connection")
}
