// Package view implements the lazy, composable query surface over a
// sharded graph: GraphView, its windowed restriction, and iterator
// combinators over vertex views that chain without materialising
// intermediate slices. It is a semantic port of the reference corpus's
// GraphView/WindowedView trait objects (Rust) onto Go's range-over-func
// iterators (iter.Seq), which give the same "nothing runs until the
// consumer pulls" guarantee without allocating a trait-object chain.
package view

import (
	"github.com/dd0wney/chronograph/pkg/gerrors"
	"github.com/dd0wney/chronograph/pkg/graph"
	"github.com/dd0wney/chronograph/pkg/state"
	"github.com/dd0wney/chronograph/pkg/window"
)

// GraphView is the read-only query surface every view (base or windowed)
// implements. Queries never mutate the underlying graph.
type GraphView interface {
	// NNodes is the global vertex count visible through this view.
	NNodes() int
	// NEdges is the global edge count visible through this view, summed
	// by out-degree across every vertex the view can see.
	NEdges() int

	// Vertex looks up a single vertex by global id.
	Vertex(gid uint64) (VertexView, bool)
	// ContainsVertex reports whether gid is visible through this view.
	ContainsVertex(gid uint64) bool

	// Edge looks up a single edge by its endpoint ids, independent of
	// either endpoint's VertexView.
	Edge(srcGid, dstGid uint64) (EdgeView, bool)

	// Vertices returns the lazy set of every vertex visible through this
	// view.
	Vertices() Vertices

	// degree/neighbours/edges/propertyHistory/edgePropertyHistory are the
	// internals every VertexView/EdgeView method call is ultimately routed
	// through; they take the vertex's *own* window (already collapsed
	// against the view's) so a vertex view created through a chain of
	// WindowedViews still resolves correctly without re-walking the chain
	// on every call.
	degree(gid uint64, w window.Window, dir graph.Direction) (int, error)
	neighbours(gid uint64, w window.Window, dir graph.Direction) ([]uint64, error)
	propertyHistory(gid uint64, w window.Window, name string) ([]TimeValue, error)
	edgePropertyHistory(srcGid, dstGid uint64, w window.Window, name string) ([]TimeValue, error)

	// State returns the table of columns published via WithState.
	State() *state.Table

	// withTable returns a copy of this view sharing everything except its
	// state table, which is replaced by next. Used by PublishState so it
	// can work across both Base and WindowedView without a type switch.
	withTable(next *state.Table) GraphView
}

// TimeValue is a (time, value) property observation, type-erased to
// tprop.Prop's string rendering so the view layer does not need to
// reexport every Prop accessor.
type TimeValue struct {
	Time  int64
	Value string
}

// Base wraps a *graph.Graph directly, with an unbounded window.
type Base struct {
	g     *graph.Graph
	table *state.Table
}

// NewBase constructs the unbounded root view over g.
func NewBase(g *graph.Graph) *Base {
	return &Base{g: g, table: state.NewTable(g.NumVertices())}
}

// NNodes implements GraphView.
func (b *Base) NNodes() int { return b.g.NumVertices() }

// NEdges implements GraphView.
func (b *Base) NEdges() int { return b.g.NumEdges() }

// ContainsVertex implements GraphView.
func (b *Base) ContainsVertex(gid uint64) bool { return b.g.ContainsVertex(gid) }

// Vertex implements GraphView.
func (b *Base) Vertex(gid uint64) (VertexView, bool) {
	if !b.g.ContainsVertex(gid) {
		return VertexView{}, false
	}
	return VertexView{gid: gid, w: window.Unbounded, view: b}, true
}

// Edge implements GraphView.
func (b *Base) Edge(srcGid, dstGid uint64) (EdgeView, bool) {
	if !b.g.EdgeExists(srcGid, dstGid) {
		return EdgeView{}, false
	}
	return EdgeView{srcGid: srcGid, dstGid: dstGid, w: window.Unbounded, view: b}, true
}

// Vertices implements GraphView.
func (b *Base) Vertices() Vertices {
	return newVertices(b, b.g.IterVertices())
}

func (b *Base) degree(gid uint64, w window.Window, dir graph.Direction) (int, error) {
	return degreeAt(b.g, gid, w, dir)
}

func (b *Base) neighbours(gid uint64, w window.Window, dir graph.Direction) ([]uint64, error) {
	return neighboursAt(b.g, gid, w, dir)
}

func (b *Base) propertyHistory(gid uint64, w window.Window, name string) ([]TimeValue, error) {
	return propertyHistoryAt(b.g, gid, w, name)
}

func (b *Base) edgePropertyHistory(srcGid, dstGid uint64, w window.Window, name string) ([]TimeValue, error) {
	return edgePropertyHistoryAt(b.g, srcGid, dstGid, w, name)
}

// State implements GraphView.
func (b *Base) State() *state.Table { return b.table }

func (b *Base) withTable(next *state.Table) GraphView {
	return &Base{g: b.g, table: next}
}

// PublishState publishes a new column named name on a copy of v's state
// table, returning a new view sharing the underlying graph (state is
// immutable once attached: the receiver is never mutated).
func PublishState[T any](v GraphView, name string, column *state.StateVec[T]) (GraphView, error) {
	next, err := state.WithColumn(v.State(), name, column)
	if err != nil {
		return nil, gerrors.New("with_state").State().Context(name).Cause(err).Err()
	}
	return v.withTable(next), nil
}

// degreeAt, neighboursAt and propertyHistoryAt are the shared primitives
// every view level (Base or WindowedView) calls with its own window,
// already collapsed against any enclosing window. Centralising them here
// means a WindowedView never re-walks its chain of enclosing views: it
// resolves the actual window once at construction and then talks to the
// underlying graph directly, exactly as the view it wraps does.
func degreeAt(g *graph.Graph, gid uint64, w window.Window, dir graph.Direction) (int, error) {
	return g.DegreeWindow(gid, dir, w)
}

func neighboursAt(g *graph.Graph, gid uint64, w window.Window, dir graph.Direction) ([]uint64, error) {
	ns, err := g.Neighbours(gid, dir, w)
	if err != nil {
		return nil, err
	}
	owner := g.Shard(gid)
	out := make([]uint64, 0, len(ns))
	for _, n := range ns {
		if n.Ref.Remote {
			out = append(out, n.Ref.RemoteGID)
			continue
		}
		out = append(out, owner.GidOf(n.Pid))
	}
	return out, nil
}

func propertyHistoryAt(g *graph.Graph, gid uint64, w window.Window, name string) ([]TimeValue, error) {
	hist, err := g.PropertyHistory(gid, name)
	if err != nil {
		return nil, err
	}
	return filterAndRender(hist, w), nil
}

// edgePropertyHistoryAt is propertyHistoryAt's edge-side counterpart: an
// edge's property history is always looked up in its source vertex's
// shard, so it takes the same (g, w) shape as the vertex primitives above
// rather than routing through a separate edge store.
func edgePropertyHistoryAt(g *graph.Graph, srcGid, dstGid uint64, w window.Window, name string) ([]TimeValue, error) {
	hist, err := g.EdgePropertyHistory(srcGid, dstGid, name)
	if err != nil {
		return nil, err
	}
	return filterAndRender(hist, w), nil
}

// NewEmptyState returns a column of length v.NNodes() with every entry
// unset.
func NewEmptyState[T any](v GraphView) *state.StateVec[T] {
	return state.NewEmptyState[T](v.NNodes())
}

// NewFullState returns a column of length v.NNodes() filled with value.
func NewFullState[T any](v GraphView, value T) *state.StateVec[T] {
	return state.NewFullState(v.NNodes(), value)
}

// NewStateFromIter collects items into a column, failing with
// gerrors.ErrStateSize if its length does not equal v.NNodes().
func NewStateFromIter[T any](v GraphView, items []T) (*state.StateVec[T], error) {
	return state.NewStateFromIter(items, v.NNodes())
}
