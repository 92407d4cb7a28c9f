package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initIngestMetrics() {
	r.VerticesIngestedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "chronograph_vertices_ingested_total",
			Help: "Total number of vertex events ingested",
		},
	)

	r.EdgesIngestedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "chronograph_edges_ingested_total",
			Help: "Total number of edge events ingested",
		},
	)

	r.PropMismatchTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "chronograph_property_type_mismatch_total",
			Help: "Total number of property updates rejected for a variant mismatch",
		},
		[]string{"property"},
	)

	r.IngestDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chronograph_ingest_duration_seconds",
			Help:    "Ingestion call duration in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
		[]string{"kind"}, // vertex, edge
	)
}
