// Package metrics owns the Prometheus registry of the ledger and the
// collectors recorded by the service layer.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ledger"

// Collector groups the ledger metrics on a private registry
type Collector struct {
	registry *prometheus.Registry

	transactionsProcessed *prometheus.CounterVec
	transactionAmount     *prometheus.CounterVec
	operations            *prometheus.CounterVec
	operationDuration     *prometheus.HistogramVec
	httpRequests          *prometheus.CounterVec
	httpDuration          *prometheus.HistogramVec
}

func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Collector{
		registry: registry,
		transactionsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_processed_total",
			Help:      "Number of delivered ledger transactions by type",
		}, []string{"type"}),
		transactionAmount: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transaction_amount_total",
			Help:      "Sum of delivered transaction amounts by type",
		}, []string{"type"}),
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Number of executed operations by type and outcome",
		}, []string{"type", "outcome"}),
		operationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Time taken to execute an operation end to end",
			Buckets:   prometheus.DefBuckets,
		}, []string{"type"}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Number of HTTP requests by method, route and status code",
		}, []string{"method", "route", "code"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// RecordTransaction counts one delivered transaction
func (c *Collector) RecordTransaction(txType string, amount float64) {
	c.transactionsProcessed.WithLabelValues(txType).Inc()
	c.transactionAmount.WithLabelValues(txType).Add(amount)
}

// RecordOperation counts one executed operation and observes its duration
func (c *Collector) RecordOperation(opType, outcome string, duration time.Duration) {
	c.operations.WithLabelValues(opType, outcome).Inc()
	c.operationDuration.WithLabelValues(opType).Observe(duration.Seconds())
}

// RecordHTTPRequest counts one served request. route is the matched pattern, not the raw path.
func (c *Collector) RecordHTTPRequest(method, route string, code int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (c *Collector) TransactionsProcessed() *prometheus.CounterVec { return c.transactionsProcessed }
func (c *Collector) TransactionAmount() *prometheus.CounterVec     { return c.transactionAmount }
func (c *Collector) Operations() *prometheus.CounterVec            { return c.operations }
func (c *Collector) HTTPRequests() *prometheus.CounterVec          { return c.httpRequests }

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
