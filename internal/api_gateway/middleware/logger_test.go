package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lastLogEntry(t *testing.T, logs *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(logs.Bytes()), []byte("\n"))
	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry))
	return entry
}

func TestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var logs bytes.Buffer
	r := gin.New()
	r.Use(CorrelationID(), Logger(slog.New(slog.NewJSONHandler(&logs, nil))))
	r.GET("/api/v1/accounts/:id/transactions", func(c *gin.Context) {
		switch c.Param("id") {
		case "missing":
			c.Status(http.StatusNotFound)
		case "broken":
			c.Status(http.StatusInternalServerError)
		default:
			c.Status(http.StatusOK)
		}
	})

	tests := []struct {
		name   string
		target string
		status int
		level  string
	}{
		{"success logs info", "/api/v1/accounts/acc-1/transactions?page=2", http.StatusOK, "INFO"},
		{"client error logs warn", "/api/v1/accounts/missing/transactions", http.StatusNotFound, "WARN"},
		{"server error logs error", "/api/v1/accounts/broken/transactions", http.StatusInternalServerError, "ERROR"},
		{"unmatched route", "/nowhere", http.StatusNotFound, "WARN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs.Reset()
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			req.Header.Set("User-Agent", "ledger-test")
			req.Header.Set(CorrelationIDHeader, "corr-"+tt.level)
			r.ServeHTTP(httptest.NewRecorder(), req)

			entry := lastLogEntry(t, &logs)
			assert.Equal(t, tt.level, entry["level"])
			assert.Equal(t, "HTTP request", entry["msg"])
			assert.Equal(t, tt.target, entry["path"])
			assert.EqualValues(t, tt.status, entry["status"])
			assert.Equal(t, "ledger-test", entry["user_agent"])
			assert.Equal(t, "corr-"+tt.level, entry["correlation_id"])
			assert.Contains(t, entry, "latency")
		})
	}

	t.Run("route is the matched pattern", func(t *testing.T) {
		logs.Reset()
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/accounts/acc-9/transactions", nil))

		entry := lastLogEntry(t, &logs)
		assert.Equal(t, "/api/v1/accounts/:id/transactions", entry["route"])
		assert.NotEmpty(t, entry["correlation_id"])
	})
}
