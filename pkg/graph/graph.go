// Package graph distributes vertices across an in-process set of
// TemporalGraph shards, routing by hash(gid), and fans queries out to
// every shard they touch. It is the sharded graph store of the spec; it
// never crosses process boundaries and carries no transaction coupling
// across shards.
package graph

import (
	"hash/fnv"
	"time"

	"github.com/dd0wney/chronograph/pkg/gerrors"
	"github.com/dd0wney/chronograph/pkg/logging"
	"github.com/dd0wney/chronograph/pkg/metrics"
	"github.com/dd0wney/chronograph/pkg/tadjset"
	"github.com/dd0wney/chronograph/pkg/tgraph"
	"github.com/dd0wney/chronograph/pkg/tprop"
	"github.com/dd0wney/chronograph/pkg/window"
)

// Direction re-exports tgraph.Direction so callers of package graph never
// need to import tgraph directly.
type Direction = tgraph.Direction

const (
	Out  = tgraph.Out
	In   = tgraph.In
	Both = tgraph.Both
)

// PropUpdate re-exports tgraph.PropUpdate.
type PropUpdate = tgraph.PropUpdate

// Graph is a sharded, in-process temporal property graph. Every gid
// belongs to exactly one shard for its lifetime; an edge's canonical
// record lives in its source vertex's shard regardless of where the
// destination lives.
type Graph struct {
	shards  []*tgraph.TemporalGraph
	logger  logging.Logger
	metrics *metrics.Registry
}

// New creates a Graph with the given number of shards, logging through the
// default logger and with no metrics registry attached. shardCount must be
// at least 1.
func New(shardCount int) *Graph {
	return NewWithOptions(shardCount, logging.DefaultLogger(), nil)
}

// NewWithLogger creates a Graph with the given number of shards, logging
// shard-routing and cross-shard edge events through logger.
func NewWithLogger(shardCount int, logger logging.Logger) *Graph {
	return NewWithOptions(shardCount, logger, nil)
}

// NewWithOptions creates a Graph with the given number of shards, an
// optional logger (nil becomes a no-op logger) and an optional metrics
// registry (nil disables metric recording, mirroring the teacher's
// GraphStorage holding a possibly-nil metricsRegistry field).
func NewWithOptions(shardCount int, logger logging.Logger, reg *metrics.Registry) *Graph {
	if shardCount < 1 {
		shardCount = 1
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	shards := make([]*tgraph.TemporalGraph, shardCount)
	for i := range shards {
		shards[i] = tgraph.New()
	}
	log := logger.With(logging.Component("graph"))
	log.Info("graph created", logging.Int("shard_count", shardCount))
	return &Graph{shards: shards, logger: log, metrics: reg}
}

// ShardCount returns the number of shards this graph distributes over.
func (g *Graph) ShardCount() int {
	return len(g.shards)
}

// shardOf returns the index of the shard gid is routed to, via fnv64a(gid)
// mod shard count, mirroring the teacher corpus's hash-partition strategy.
func (g *Graph) shardOf(gid uint64) int {
	h := fnv.New64a()
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(gid >> (i * 8))
	}
	h.Write(b)
	return int(h.Sum64() % uint64(len(g.shards)))
}

// Shard returns the shard gid is routed to. Exposed for tests and for
// callers (e.g. the view layer) that need to batch lookups by shard.
func (g *Graph) Shard(gid uint64) *tgraph.TemporalGraph {
	return g.shards[g.shardOf(gid)]
}

// AddVertex records a vertex event, routed to gid's owning shard.
func (g *Graph) AddVertex(t int64, gid uint64, props []PropUpdate) error {
	start := time.Now()
	_, err := g.Shard(gid).AddVertex(t, gid, props)
	if g.metrics != nil && err == nil {
		g.metrics.RecordVertexIngest(time.Since(start))
	}
	return err
}

// AddEdge records an edge event. The canonical edge record is created in
// src's shard; if dst routes to a different shard, the IN-adjacency side
// is additionally registered there via AddRemoteEdgeIn, with no
// duplicate edge record and no property history kept on that side.
func (g *Graph) AddEdge(t int64, src, dst uint64, props []PropUpdate) error {
	start := time.Now()
	srcShard := g.shardOf(src)
	dstShard := g.shardOf(dst)
	dstLocal := srcShard == dstShard

	if _, err := g.shards[srcShard].AddLocalEdgeOut(t, src, dst, dstLocal, props); err != nil {
		return gerrors.New("AddEdge").Edge(src).Cause(err).Err()
	}
	if !dstLocal {
		if err := g.shards[dstShard].AddRemoteEdgeIn(t, src, dst); err != nil {
			return gerrors.New("AddEdge").Edge(dst).Cause(err).Err()
		}
		g.logger.Debug("cross-shard edge",
			logging.Edge(src, dst),
			logging.Shard(srcShard),
			logging.Int("dst_shard", dstShard))
	}
	if g.metrics != nil {
		g.metrics.RecordEdgeIngest(time.Since(start))
	}
	return nil
}

// ContainsVertex reports whether gid has ever been touched.
func (g *Graph) ContainsVertex(gid uint64) bool {
	return g.Shard(gid).ContainsVertex(gid)
}

// ContainsVertexWindow reports whether gid was touched within w.
func (g *Graph) ContainsVertexWindow(gid uint64, w window.Window) bool {
	return g.Shard(gid).ContainsVertexWindow(gid, w)
}

// Degree returns gid's unbounded degree in direction dir.
func (g *Graph) Degree(gid uint64, dir Direction) (int, error) {
	return g.Shard(gid).Degree(gid, dir)
}

// DegreeWindow returns gid's degree in direction dir restricted to w.
func (g *Graph) DegreeWindow(gid uint64, dir Direction, w window.Window) (int, error) {
	return g.Shard(gid).DegreeWindow(gid, dir, w)
}

// Neighbours returns gid's neighbour set in direction dir restricted to w.
func (g *Graph) Neighbours(gid uint64, dir Direction, w window.Window) ([]tadjset.Neighbour, error) {
	return g.Shard(gid).Neighbours(gid, dir, w)
}

// PropertyHistory returns the time-ordered history of a named vertex
// property.
func (g *Graph) PropertyHistory(gid uint64, name string) ([]tprop.TimeValue[tprop.Prop], error) {
	return g.Shard(gid).PropertyHistory(gid, name)
}

// EdgePropertyHistory returns the time-ordered history of a named edge
// property, looked up in src's owning shard.
func (g *Graph) EdgePropertyHistory(src, dst uint64, name string) ([]tprop.TimeValue[tprop.Prop], error) {
	return g.Shard(src).EdgePropertyHistory(src, dst, name)
}

// EdgeExists reports whether a canonical edge record exists for (src, dst),
// looked up in src's owning shard.
func (g *Graph) EdgeExists(src, dst uint64) bool {
	return g.Shard(src).EdgeExists(src, dst)
}

// PropertyNames returns the names of every property ever written on gid.
func (g *Graph) PropertyNames(gid uint64) ([]string, error) {
	return g.Shard(gid).PropertyNames(gid)
}

// VertexTouchTimes returns every timestamp gid was touched at, independent
// of whether that touch carried a property write.
func (g *Graph) VertexTouchTimes(gid uint64) ([]int64, error) {
	return g.Shard(gid).TouchTimes(gid)
}

// EdgeTouchTimes returns every timestamp the edge (src, dst) was touched
// at, looked up in src's owning shard.
func (g *Graph) EdgeTouchTimes(src, dst uint64) ([]int64, error) {
	return g.Shard(src).EdgeTouchTimes(src, dst)
}

// EdgePropertyNames returns the names of every property ever written on
// the edge (src, dst), looked up in src's owning shard.
func (g *Graph) EdgePropertyNames(src, dst uint64) ([]string, error) {
	return g.Shard(src).EdgePropertyNames(src, dst)
}

// IterEdges returns the (src, dst) pair of every canonical edge record
// across all shards.
func (g *Graph) IterEdges() []tgraph.EdgeGids {
	out := make([]tgraph.EdgeGids, 0, g.NumEdges())
	for _, s := range g.shards {
		out = append(out, s.IterEdges()...)
	}
	return out
}

// NumVertices returns the total vertex count across all shards.
func (g *Graph) NumVertices() int {
	total := 0
	for _, s := range g.shards {
		total += s.NumVertices()
	}
	return total
}

// NumEdges returns the total edge count across all shards. Each edge is
// counted exactly once, on its source shard, regardless of whether its
// destination is local or remote.
func (g *Graph) NumEdges() int {
	total := 0
	for _, s := range g.shards {
		total += s.NumEdges()
	}
	return total
}

// IterVertices returns every known gid across all shards, ordered by
// shard index then by pid within a shard. This requires each shard to
// expose gid, not just pid; shards track gid internally but IterVertices
// needs the reverse map, so it delegates through GidOf.
func (g *Graph) IterVertices() []uint64 {
	out := make([]uint64, 0, g.NumVertices())
	for _, s := range g.shards {
		for _, pid := range s.IterVertices() {
			out = append(out, s.GidOf(pid))
		}
	}
	return out
}

// IterVerticesWindow returns every gid touched within w across all
// shards, ordered by shard index then by first-touch time within that
// shard.
func (g *Graph) IterVerticesWindow(w window.Window) []uint64 {
	out := make([]uint64, 0)
	for _, s := range g.shards {
		for _, pid := range s.IterVerticesWindow(w) {
			out = append(out, s.GidOf(pid))
		}
	}
	return out
}

// EarliestTime returns the smallest event time recorded in any shard.
func (g *Graph) EarliestTime() (int64, bool) {
	found := false
	var best int64
	for _, s := range g.shards {
		t, ok := s.EarliestTime()
		if !ok {
			continue
		}
		if !found || t < best {
			best = t
			found = true
		}
	}
	return best, found
}

// LatestTime returns the largest event time recorded in any shard.
func (g *Graph) LatestTime() (int64, bool) {
	found := false
	var best int64
	for _, s := range g.shards {
		t, ok := s.LatestTime()
		if !ok {
			continue
		}
		if !found || t > best {
			best = t
			found = true
		}
	}
	return best, found
}

// ShardSizes returns the vertex count of every shard, in shard order.
// Used by tests verifying the partition-disjointness / load distribution
// invariants and by the metrics package for per-shard gauges.
func (g *Graph) ShardSizes() []int {
	sizes := make([]int, len(g.shards))
	for i, s := range g.shards {
		sizes[i] = s.NumVertices()
	}
	return sizes
}

// ShardEdgeCounts returns the edge count of every shard, in shard order.
func (g *Graph) ShardEdgeCounts() []int {
	sizes := make([]int, len(g.shards))
	for i, s := range g.shards {
		sizes[i] = s.NumEdges()
	}
	return sizes
}

// PublishMetrics pushes current per-shard vertex/edge counts to the
// attached metrics registry. A no-op if this Graph has none.
func (g *Graph) PublishMetrics() {
	if g.metrics == nil {
		return
	}
	g.metrics.SetShardSizes(g.ShardSizes(), g.ShardEdgeCounts())
}
