package tgraph

// EdgeGids pairs the source and destination global ids of one canonical
// local edge record.
type EdgeGids struct {
	Src uint64
	Dst uint64
}

// IterEdges returns the (src, dst) pair of every canonical edge record
// owned by this shard, in pid order. Used by snapshotting to enumerate the
// full edge set without exposing edgeRecord itself.
func (g *TemporalGraph) IterEdges() []EdgeGids {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]EdgeGids, len(g.edges))
	for i, e := range g.edges {
		out[i] = EdgeGids{Src: e.srcGid, Dst: e.dstGid}
	}
	return out
}

// EdgePropertyNames returns the names of every property ever written on
// the edge (srcGid, dstGid), as recorded in srcGid's owning shard.
func (g *TemporalGraph) EdgePropertyNames(srcGid, dstGid uint64) ([]string, error) {
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
	rec := g.edges[pid]
	names := make([]string, 0, len(rec.props))
	for name := range rec.props {
		names = append(names, name)
	}
	return names, nil
}
