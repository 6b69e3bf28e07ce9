// Package metrics exposes Prometheus instrumentation for the ledger engine.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metric names.
const (
	MetricOperationsTotal          = "ledgerly_operations_total"
	MetricOperationDurationSeconds = "ledgerly_operation_duration_seconds"
	MetricDuplicatesDetectedTotal  = "ledgerly_duplicates_detected_total"
	MetricBalancesTouched          = "ledgerly_settlement_balances_touched"
)

// Metrics holds the engine's Prometheus collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	duplicatesTotal   *prometheus.CounterVec
	balancesTouched   prometheus.Histogram
}

// New creates and registers the engine's metrics.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		operationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricOperationsTotal,
				Help: "Ledger operations by operation and outcome.",
			},
			[]string{"operation", "outcome"},
		),
		operationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricOperationDurationSeconds,
				Help:    "Ledger operation latency in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		duplicatesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricDuplicatesDetectedTotal,
				Help: "Advisory duplicate matches by record kind.",
			},
			[]string{"kind"},
		),
		balancesTouched: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    MetricBalancesTouched,
				Help:    "Balances touched per settlement walk.",
				Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21},
			},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.operationsTotal,
		m.operationDuration,
		m.duplicatesTotal,
		m.balancesTouched,
	)
	return m
}

// ObserveOperation records one completed operation.
func (m *Metrics) ObserveOperation(operation, outcome string, duration time.Duration) {
	m.operationsTotal.WithLabelValues(operation, outcome).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// ObserveDuplicate records an advisory duplicate match.
func (m *Metrics) ObserveDuplicate(kind string) {
	m.duplicatesTotal.WithLabelValues(kind).Inc()
}

// ObserveSettlement records how many balances a settlement walk touched.
func (m *Metrics) ObserveSettlement(balancesTouched int) {
	m.balancesTouched.Observe(float64(balancesTouched))
}

// Handler returns the scrape handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
