package metrics

import (
	"strconv"
	"time"
)

// RecordVertexIngest records a vertex ingestion event and its duration.
func (r *Registry) RecordVertexIngest(duration time.Duration) {
	r.VerticesIngestedTotal.Inc()
	r.IngestDuration.WithLabelValues("vertex").Observe(duration.Seconds())
}

// RecordEdgeIngest records an edge ingestion event and its duration.
func (r *Registry) RecordEdgeIngest(duration time.Duration) {
	r.EdgesIngestedTotal.Inc()
	r.IngestDuration.WithLabelValues("edge").Observe(duration.Seconds())
}

// RecordPropMismatch records a property update rejected for a variant
// mismatch against an already-typed property.
func (r *Registry) RecordPropMismatch(property string) {
	r.PropMismatchTotal.WithLabelValues(property).Inc()
}

// RecordQuery records a query execution against the view layer.
func (r *Registry) RecordQuery(operation, status string, duration time.Duration) {
	r.QueriesTotal.WithLabelValues(operation, status).Inc()
	r.QueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// SetShardSizes publishes per-shard vertex/edge counts, replacing any
// previously published values (shards that shrink to zero are re-set to
// zero rather than left stale).
func (r *Registry) SetShardSizes(vertexCounts, edgeCounts []int) {
	for i, n := range vertexCounts {
		r.ShardVertexCount.WithLabelValues(strconv.Itoa(i)).Set(float64(n))
	}
	for i, n := range edgeCounts {
		r.ShardEdgeCount.WithLabelValues(strconv.Itoa(i)).Set(float64(n))
	}
}
