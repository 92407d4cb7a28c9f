package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initShardMetrics() {
	r.ShardVertexCount = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "chronograph_shard_vertex_count",
			Help: "Number of vertices resident on a shard",
		},
		[]string{"shard"},
	)

	r.ShardEdgeCount = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "chronograph_shard_edge_count",
			Help: "Number of edges whose canonical record is resident on a shard",
		},
		[]string{"shard"},
	)
}
