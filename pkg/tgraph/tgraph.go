// Package tgraph implements the per-shard temporal adjacency store: a
// single-threaded (per-shard-locked) store of vertices, their property
// histories, and their out/in time-indexed adjacency sets, plus an
// auxiliary time index for window scans. This is the TemporalGraph of the
// spec; the sharded fan-out lives in package graph.
package tgraph

import (
	"sort"
	"sync"

	"github.com/dd0wney/chronograph/pkg/gerrors"
	"github.com/dd0wney/chronograph/pkg/tadjset"
	"github.com/dd0wney/chronograph/pkg/tprop"
	"github.com/dd0wney/chronograph/pkg/window"
)

// PropUpdate is one named property write supplied to AddVertex/AddEdge.
type PropUpdate struct {
	Name  string
	Value tprop.Prop
}

type vertexRecord struct {
	pid     uint64
	gid     uint64
	props   map[string]*tprop.TProp
	touches tprop.TCell[struct{}]
	out     tadjset.TAdjSet
	in      tadjset.TAdjSet
}

type edgeKey struct {
	srcPid uint64
	dstGid uint64
}

type edgeRecord struct {
	pid      uint64
	srcPid   uint64
	srcGid   uint64
	dstGid   uint64
	dstPid   uint64
	dstLocal bool
	times    tprop.TCell[struct{}]
	props    map[string]*tprop.TProp
}

// TemporalGraph is a single shard's vertex/edge/property/time-index store.
// All exported methods are safe for concurrent use: mutators take the
// write lock, readers take the read lock.
type TemporalGraph struct {
	mu sync.RWMutex

	vertices   []*vertexRecord
	gidToPid   map[uint64]uint64
	edges      []*edgeRecord
	edgeKeyPid map[edgeKey]uint64

	timeIndex map[int64][]uint64 // t -> sorted, deduped pids touched at t
	timeKeys  []int64            // sorted, deduped
}

// New creates an empty shard store.
func New() *TemporalGraph {
	return &TemporalGraph{
		gidToPid:   make(map[uint64]uint64),
		edgeKeyPid: make(map[edgeKey]uint64),
		timeIndex:  make(map[int64][]uint64),
	}
}

// NumVertices returns the number of distinct vertices known to this shard.
func (g *TemporalGraph) NumVertices() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.vertices)
}

// NumEdges returns the number of distinct local edge records in this shard
// (edges originated by a vertex this shard owns, whether the destination
// is local or remote).
func (g *TemporalGraph) NumEdges() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.edges)
}

// EarliestTime returns the smallest recorded event time, if any.
func (g *TemporalGraph) EarliestTime() (int64, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if len(g.timeKeys) == 0 {
		return 0, false
	}
	return g.timeKeys[0], true
}

// LatestTime returns the largest recorded event time, if any.
func (g *TemporalGraph) LatestTime() (int64, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if len(g.timeKeys) == 0 {
		return 0, false
	}
	return g.timeKeys[len(g.timeKeys)-1], true
}

// EnsureVertex allocates a pid for gid on first sight (idempotent
// thereafter), records t in the time index, and applies any temporal
// property updates. It is the shared entry point for AddVertex and the
// implicit vertex creation AddEdge performs on both endpoints.
func (g *TemporalGraph) EnsureVertex(t int64, gid uint64, props []PropUpdate) (uint64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ensureVertexLocked(t, gid, props)
}

func (g *TemporalGraph) ensureVertexLocked(t int64, gid uint64, props []PropUpdate) (uint64, error) {
	pid, ok := g.gidToPid[gid]
	if !ok {
		pid = uint64(len(g.vertices))
		g.vertices = append(g.vertices, &vertexRecord{
			pid:   pid,
			gid:   gid,
			props: make(map[string]*tprop.TProp),
		})
		g.gidToPid[gid] = pid
	}
	g.recordTimeLocked(t, pid)
	v := g.vertices[pid]
	v.touches.Set(t, struct{}{})
	for _, u := range props {
		if err := g.applyProp(t, v.props, u); err != nil {
			return pid, err
		}
	}
	return pid, nil
}

func (g *TemporalGraph) applyProp(t int64, props map[string]*tprop.TProp, u PropUpdate) error {
	tp, ok := props[u.Name]
	if !ok {
		tp = &tprop.TProp{}
		props[u.Name] = tp
	}
	if err := tp.Set(t, u.Value); err != nil {
		return gerrors.New("write").Property(u.Name).Cause(err).Err()
	}
	return nil
}

// recordTimeLocked must be called with mu held. It maintains both the
// global sorted time index (for window-ordered vertex iteration) and
// implicitly the per-vertex touches cell, set by the caller.
func (g *TemporalGraph) recordTimeLocked(t int64, pid uint64) {
	pids, ok := g.timeIndex[t]
	if !ok {
		i := sort.Search(len(g.timeKeys), func(i int) bool { return g.timeKeys[i] >= t })
		g.timeKeys = append(g.timeKeys, 0)
		copy(g.timeKeys[i+1:], g.timeKeys[i:])
		g.timeKeys[i] = t
	}
	i := sort.Search(len(pids), func(i int) bool { return pids[i] >= pid })
	if i < len(pids) && pids[i] == pid {
		return
	}
	pids = append(pids, 0)
	copy(pids[i+1:], pids[i:])
	pids[i] = pid
	g.timeIndex[t] = pids
}

// GidOf returns the global id for a local pid. Panics if pid is out of
// range: per spec.md §7 an invalid pointer is an unreachable, aborting bug.
func (g *TemporalGraph) GidOf(pid uint64) uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if pid >= uint64(len(g.vertices)) {
		panic(gerrors.New("lookup").Vertex(pid).Cause(gerrors.ErrUnknownVertex).Err())
	}
	return g.vertices[pid].gid
}

// PidOf returns the local pid for gid, if this shard has seen it.
func (g *TemporalGraph) PidOf(gid uint64) (uint64, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	pid, ok := g.gidToPid[gid]
	return pid, ok
}

// ContainsVertex reports whether gid has ever been touched in this shard.
func (g *TemporalGraph) ContainsVertex(gid uint64) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.gidToPid[gid]
	return ok
}

// ContainsVertexWindow reports whether gid received any event within w.
func (g *TemporalGraph) ContainsVertexWindow(gid uint64, w window.Window) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	pid, ok := g.gidToPid[gid]
	if !ok {
		return false
	}
	return g.vertices[pid].touches.ActiveIn(w)
}

// IterVertices returns every known pid, in pid order.
func (g *TemporalGraph) IterVertices() []uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]uint64, len(g.vertices))
	for i := range g.vertices {
		out[i] = uint64(i)
	}
	return out
}

// IterVerticesWindow returns the pids touched within w, ordered by their
// earliest touch time within w (ties broken by pid).
func (g *TemporalGraph) IterVerticesWindow(w window.Window) []uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if w.Empty() {
		return nil
	}
	lo := sort.Search(len(g.timeKeys), func(i int) bool { return g.timeKeys[i] >= w.Start })
	hi := sort.Search(len(g.timeKeys), func(i int) bool { return g.timeKeys[i] >= w.End })

	seen := make(map[uint64]bool)
	out := make([]uint64, 0)
	for _, t := range g.timeKeys[lo:hi] {
		for _, pid := range g.timeIndex[t] {
			if seen[pid] {
				continue
			}
			seen[pid] = true
			out = append(out, pid)
		}
	}
	return out
}
