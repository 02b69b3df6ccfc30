package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_RecordTransaction(t *testing.T) {
	c := NewCollector()

	c.RecordTransaction("CREDIT", 100.5)
	c.RecordTransaction("CREDIT", 50)
	c.RecordTransaction("DEBIT", 20)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.TransactionsProcessed().WithLabelValues("CREDIT")))
	assert.Equal(t, 150.5, testutil.ToFloat64(c.TransactionAmount().WithLabelValues("CREDIT")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.TransactionsProcessed().WithLabelValues("DEBIT")))
}

func TestCollector_RecordOperation(t *testing.T) {
	c := NewCollector()

	c.RecordOperation("TRANSFER", "success", 10*time.Millisecond)
	c.RecordOperation("TRANSFER", "rejected", time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.Operations().WithLabelValues("TRANSFER", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Operations().WithLabelValues("TRANSFER", "rejected")))
}

func TestCollector_RecordHTTPRequest(t *testing.T) {
	c := NewCollector()

	c.RecordHTTPRequest(http.MethodPost, "/api/v1/transfers", http.StatusCreated, time.Millisecond)
	c.RecordHTTPRequest(http.MethodPost, "/api/v1/transfers", http.StatusCreated, time.Millisecond)
	c.RecordHTTPRequest(http.MethodPost, "/api/v1/transfers", http.StatusUnprocessableEntity, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.HTTPRequests().WithLabelValues("POST", "/api/v1/transfers", "201")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.HTTPRequests().WithLabelValues("POST", "/api/v1/transfers", "422")))
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector()
	c.RecordTransaction("CREDIT", 1)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ledger_transactions_processed_total")
}
