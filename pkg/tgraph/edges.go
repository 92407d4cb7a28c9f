package tgraph

import (
	"github.com/dd0wney/chronograph/pkg/tadjset"
	"github.com/dd0wney/chronograph/pkg/tprop"
	"github.com/dd0wney/chronograph/pkg/window"
)

// AddLocalEdgeOut records an edge event originated by srcGid, which this
// shard owns. dstLocal tells it whether dstGid also belongs to this shard
// (same shard both ends route to, including the self-loop case): when
// true it also pushes the symmetric IN-adjacency entry on dst, reusing the
// same edge pid, so the edge has exactly one canonical record regardless
// of how many times either endpoint observes it. When dstLocal is false,
// dst lives in another shard and the caller (package graph) is
// responsible for calling AddRemoteEdgeIn on dst's shard to register the
// IN-adjacency side there.
func (g *TemporalGraph) AddLocalEdgeOut(t int64, srcGid, dstGid uint64, dstLocal bool, props []PropUpdate) (uint64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	srcPid, err := g.ensureVertexLocked(t, srcGid, nil)
	if err != nil {
		return 0, err
	}

	var dstPid uint64
	if dstLocal {
		dstPid, err = g.ensureVertexLocked(t, dstGid, nil)
		if err != nil {
			return 0, err
		}
	}

	key := edgeKey{srcPid: srcPid, dstGid: dstGid}
	pid, ok := g.edgeKeyPid[key]
	if !ok {
		pid = uint64(len(g.edges))
		g.edges = append(g.edges, &edgeRecord{
			pid:      pid,
			srcPid:   srcPid,
			srcGid:   srcGid,
			dstGid:   dstGid,
			dstPid:   dstPid,
			dstLocal: dstLocal,
			props:    make(map[string]*tprop.TProp),
		})
		g.edgeKeyPid[key] = pid
	}
	rec := g.edges[pid]
	rec.times.Set(t, struct{}{})
	for _, u := range props {
		if err := g.applyProp(t, rec.props, u); err != nil {
			return pid, err
		}
	}

	srcVertex := g.vertices[srcPid]
	outRef := tadjset.EdgeRef{LocalEdge: pid}
	if !dstLocal {
		outRef.Remote = true
		outRef.RemoteGID = dstGid
	}
	srcVertex.out.Push(t, neighbourKey(dstLocal, dstPid, dstGid), outRef)

	if dstLocal {
		dstVertex := g.vertices[dstPid]
		dstVertex.in.Push(t, srcPid, tadjset.EdgeRef{LocalEdge: pid})
	}

	return pid, nil
}

// AddRemoteEdgeIn registers the IN-adjacency side of an edge whose
// canonical record lives in srcGid's shard, not this one. dstGid must
// belong to this shard. No local edge record is created: the edge's
// property history and time-index only ever live on the src side.
func (g *TemporalGraph) AddRemoteEdgeIn(t int64, srcGid, dstGid uint64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	dstPid, err := g.ensureVertexLocked(t, dstGid, nil)
	if err != nil {
		return err
	}
	dstVertex := g.vertices[dstPid]
	dstVertex.in.Push(t, srcGid, tadjset.EdgeRef{Remote: true, RemoteGID: srcGid})
	return nil
}

// neighbourKey picks the key TAdjSet.Push should use for a neighbour: the
// real local pid when the neighbour is local, else its gid (remote
// neighbours never get a pid allocated in this shard).
func neighbourKey(local bool, pid, gid uint64) uint64 {
	if local {
		return pid
	}
	return gid
}

// Degree returns the unbounded out/in/both degree of gid. BOTH is deduped
// by neighbour key: a neighbour reachable via both directions counts once.
func (g *TemporalGraph) Degree(gid uint64, dir Direction) (int, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	pid, ok := g.gidToPid[gid]
	if !ok {
		return 0, errUnknownVertexGid(gid)
	}
	v := g.vertices[pid]
	switch dir {
	case Out:
		return v.out.Degree(), nil
	case In:
		return v.in.Degree(), nil
	default:
		return len(mergeNeighbourKeys(v.out.Iter(), v.in.Iter())), nil
	}
}

// DegreeWindow is Degree restricted to w.
func (g *TemporalGraph) DegreeWindow(gid uint64, dir Direction, w window.Window) (int, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	pid, ok := g.gidToPid[gid]
	if !ok {
		return 0, errUnknownVertexGid(gid)
	}
	v := g.vertices[pid]
	switch dir {
	case Out:
		return v.out.DegreeWindow(w), nil
	case In:
		return v.in.DegreeWindow(w), nil
	default:
		return len(mergeNeighbourKeys(v.out.IterWindow(w), v.in.IterWindow(w))), nil
	}
}

// Neighbours returns the neighbour set of gid in direction dir, restricted
// to w. For Both, a neighbour present in both directions is emitted once,
// with the earlier of its two first-seen times.
func (g *TemporalGraph) Neighbours(gid uint64, dir Direction, w window.Window) ([]tadjset.Neighbour, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	pid, ok := g.gidToPid[gid]
	if !ok {
		return nil, errUnknownVertexGid(gid)
	}
	v := g.vertices[pid]
	switch dir {
	case Out:
		return v.out.IterWindow(w), nil
	case In:
		return v.in.IterWindow(w), nil
	default:
		return mergeNeighbours(v.out.IterWindow(w), v.in.IterWindow(w)), nil
	}
}

func mergeNeighbourKeys(out, in []tadjset.Neighbour) map[uint64]struct{} {
	keys := make(map[uint64]struct{}, len(out)+len(in))
	for _, n := range out {
		keys[n.Pid] = struct{}{}
	}
	for _, n := range in {
		keys[n.Pid] = struct{}{}
	}
	return keys
}

// mergeNeighbours unions two neighbour lists by Pid, keeping the earlier
// FirstTime (and that entry's Ref) when a pid occurs in both.
func mergeNeighbours(out, in []tadjset.Neighbour) []tadjset.Neighbour {
	byPid := make(map[uint64]tadjset.Neighbour, len(out)+len(in))
	order := make([]uint64, 0, len(out)+len(in))
	add := func(n tadjset.Neighbour) {
		existing, ok := byPid[n.Pid]
		if !ok {
			byPid[n.Pid] = n
			order = append(order, n.Pid)
			return
		}
		if n.FirstTime < existing.FirstTime {
			byPid[n.Pid] = n
		}
	}
	for _, n := range out {
		add(n)
	}
	for _, n := range in {
		add(n)
	}
	result := make([]tadjset.Neighbour, 0, len(byPid))
	seen := make(map[uint64]bool, len(order))
	for _, pid := range order {
		if seen[pid] {
			continue
		}
		seen[pid] = true
		result = append(result, byPid[pid])
	}
	return result
}

// EdgePropertyHistory returns the time-ordered history of a named property
// on the edge (srcGid, dstGid), as recorded in srcGid's owning shard.
func (g *TemporalGraph) EdgePropertyHistory(srcGid, dstGid uint64, name string) ([]tprop.TimeValue[tprop.Prop], error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	srcPid, ok := g.gidToPid[srcGid]
	if !ok {
		return nil, errUnknownVertexGid(srcGid)
	}
	pid, ok := g.edgeKeyPid[edgeKey{srcPid: srcPid, dstGid: dstGid}]
	if !ok {
		return nil, errUnknownVertexGid(dstGid)
	}
	tp, ok := g.edges[pid].props[name]
	if !ok {
		return nil, unknownPropertyErr(name)
	}
	return tp.Iter(), nil
}

// EdgeTouchTimes returns every timestamp the edge (srcGid, dstGid) was
// touched at, in time order, independent of whether that touch carried a
// property write.
func (g *TemporalGraph) EdgeTouchTimes(srcGid, dstGid uint64) ([]int64, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	srcPid, ok := g.gidToPid[srcGid]
	if !ok {
		return nil, errUnknownVertexGid(srcGid)
	}
	pid, ok := g.edgeKeyPid[edgeKey{srcPid: srcPid, dstGid: dstGid}]
	if !ok {
		return nil, errUnknownVertexGid(dstGid)
	}
	touches := g.edges[pid].times.Iter()
	times := make([]int64, len(touches))
	for i, tv := range touches {
		times[i] = tv.Time
	}
	return times, nil
}

// EdgeExists reports whether a local edge record exists for (srcGid, dstGid).
func (g *TemporalGraph) EdgeExists(srcGid, dstGid uint64) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	srcPid, ok := g.gidToPid[srcGid]
	if !ok {
		return false
	}
	_, ok = g.edgeKeyPid[edgeKey{srcPid: srcPid, dstGid: dstGid}]
	return ok
}
