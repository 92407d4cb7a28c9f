package tgraph

import (
	"github.com/dd0wney/chronograph/pkg/gerrors"
	"github.com/dd0wney/chronograph/pkg/tprop"
)

// AddVertex is the public entry point for recording a vertex event; it is
// a thin wrapper over EnsureVertex kept so callers read naturally
// alongside AddLocalEdgeOut/AddRemoteEdgeIn.
func (g *TemporalGraph) AddVertex(t int64, gid uint64, props []PropUpdate) (uint64, error) {
	return g.EnsureVertex(t, gid, props)
}

// PropertyHistory returns the time-ordered history of a named property on
// vertex gid.
func (g *TemporalGraph) PropertyHistory(gid uint64, name string) ([]tprop.TimeValue[tprop.Prop], error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	pid, ok := g.gidToPid[gid]
	if !ok {
		return nil, errUnknownVertexGid(gid)
	}
	tp, ok := g.vertices[pid].props[name]
	if !ok {
		return nil, unknownPropertyErr(name)
	}
	return tp.Iter(), nil
}

// PropertyNames returns the names of every property ever written on gid.
func (g *TemporalGraph) PropertyNames(gid uint64) ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	pid, ok := g.gidToPid[gid]
	if !ok {
		return nil, errUnknownVertexGid(gid)
	}
	names := make([]string, 0, len(g.vertices[pid].props))
	for name := range g.vertices[pid].props {
		names = append(names, name)
	}
	return names, nil
}

// TouchTimes returns every timestamp gid was touched at, in time order,
// independent of whether that touch carried a property write. Used by
// snapshotting to reconstruct a vertex's full existence window.
func (g *TemporalGraph) TouchTimes(gid uint64) ([]int64, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	pid, ok := g.gidToPid[gid]
	if !ok {
		return nil, errUnknownVertexGid(gid)
	}
	touches := g.vertices[pid].touches.Iter()
	times := make([]int64, len(touches))
	for i, tv := range touches {
		times[i] = tv.Time
	}
	return times, nil
}

func errUnknownVertexGid(gid uint64) error {
	return gerrors.New("lookup").Vertex(gid).Cause(gerrors.ErrUnknownVertex).Err()
}

func unknownPropertyErr(name string) error {
	return gerrors.New("read").Property(name).Cause(gerrors.ErrUnknownProperty).Err()
}
