package broadcast

import (
	"io"
	"log/slog"
	"testing"

	"github.com/financial-operations-ledger/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestConnect_EmptyURL(t *testing.T) {
	nc, err := Connect(slog.New(slog.NewTextHandler(io.Discard, nil)), &config.NATSConfig{}, "test")

	assert.ErrorIs(t, err, ErrEmptyURL)
	assert.Nil(t, nc)
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "ledger.events.CREDIT", Subject("ledger.events", "CREDIT"))
	assert.Equal(t, "DEBIT", Subject("", "DEBIT"))
}

func TestClose_NilConnection(t *testing.T) {
	assert.NotPanics(t, func() {
		Close(slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
	})
}
