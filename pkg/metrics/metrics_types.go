// Package metrics exposes chronograph's Prometheus instrumentation. A
// Registry wraps a prometheus.Registry and is built from one
// promauto.With(registry) init function per concern, the same shape the
// teacher corpus uses for its own per-subsystem metric files.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds every chronograph metric.
type Registry struct {
	// Ingestion metrics
	VerticesIngestedTotal prometheus.Counter
	EdgesIngestedTotal    prometheus.Counter
	PropMismatchTotal     *prometheus.CounterVec
	IngestDuration        *prometheus.HistogramVec

	// Query metrics
	QueriesTotal  *prometheus.CounterVec
	QueryDuration *prometheus.HistogramVec

	// Per-shard metrics
	ShardVertexCount *prometheus.GaugeVec
	ShardEdgeCount   *prometheus.GaugeVec

	registry *prometheus.Registry
	mu       sync.RWMutex
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the process-global metrics registry.
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initIngestMetrics()
	r.initQueryMetrics()
	r.initShardMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry.
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
