// Package metrics exposes Prometheus instruments for the transcript pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Operation names used as label values
const (
	OpNormalize  = "normalize"
	OpStitch     = "stitch"
	OpMerge      = "merge"
	OpStatements = "statements"
)

// Metrics groups the pipeline's collectors on one registry.
type Metrics struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	failures   *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	items      *prometheus.GaugeVec
}

// New registers the collectors on a fresh registry, along with the Go runtime and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "boombox",
			Name:      "operations_total",
			Help:      "Completed transcript operations.",
		}, []string{"operation", "provider"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "boombox",
			Name:      "operation_failures_total",
			Help:      "Failed transcript operations by reason.",
		}, []string{"operation", "reason"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "boombox",
			Name:      "operation_duration_seconds",
			Help:      "Duration of transcript operations.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}, []string{"operation"}),
		items: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "boombox",
			Name:      "transcript_items",
			Help:      "Items in the most recent transcript produced by an operation.",
		}, []string{"operation"}),
	}
	m.registry.MustRegister(
		m.operations,
		m.failures,
		m.duration,
		m.items,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Observe records one operation. A nil receiver is a no-op.
func (m *Metrics) Observe(operation, provider string, started time.Time, items int, err error) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
	if err != nil {
		m.failures.WithLabelValues(operation, Reason(err)).Inc()
		return
	}
	m.operations.WithLabelValues(operation, provider).Inc()
	m.items.WithLabelValues(operation).Set(float64(items))
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
