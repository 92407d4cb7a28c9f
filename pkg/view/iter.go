package view

import (
	"iter"

	"github.com/dd0wney/chronograph/pkg/graph"
	"github.com/dd0wney/chronograph/pkg/state"
	"github.com/dd0wney/chronograph/pkg/window"
)

// Vertices is the lazy set of vertices visible through a view. Building
// one only costs the id lookup the view already did to decide membership
// (iter_vertices/iter_vertices_window); every other combinator below
// defers its work to the point the caller actually ranges over the
// resulting sequence, so a chain like
// vertices().out_neighbours().out_neighbours().id() performs exactly one
// pass over two-hop out-edges, never materialising the 1-hop set.
type Vertices struct {
	view GraphView
	gids []uint64
	w    window.Window
}

func newVertices(view GraphView, gids []uint64) Vertices {
	return Vertices{view: view, gids: gids, w: window.Unbounded}
}

func newVerticesWindow(view GraphView, gids []uint64, w window.Window) Vertices {
	return Vertices{view: view, gids: gids, w: w}
}

// Seq returns the underlying lazy sequence of vertex views.
func (vs Vertices) Seq() iter.Seq[VertexView] {
	return func(yield func(VertexView) bool) {
		for _, gid := range vs.gids {
			if !yield(VertexView{gid: gid, w: vs.w, view: vs.view}) {
				return
			}
		}
	}
}

// Id lazily yields each vertex's global id.
func (vs Vertices) Id() iter.Seq[uint64] {
	return func(yield func(uint64) bool) {
		for v := range vs.Seq() {
			if !yield(v.Id()) {
				return
			}
		}
	}
}

// OutDegree lazily yields each vertex's out-degree. A vertex whose degree
// lookup errors (unreachable for a vertex this view already resolved) is
// skipped rather than aborting the sequence.
func (vs Vertices) OutDegree() iter.Seq[int] {
	return vs.degreeSeq(graph.Out)
}

// InDegree lazily yields each vertex's in-degree.
func (vs Vertices) InDegree() iter.Seq[int] {
	return vs.degreeSeq(graph.In)
}

func (vs Vertices) degreeSeq(dir graph.Direction) iter.Seq[int] {
	return func(yield func(int) bool) {
		for v := range vs.Seq() {
			d, err := v.Degree(dir)
			if err != nil {
				continue
			}
			if !yield(d) {
				return
			}
		}
	}
}

// OutNeighbours lazily yields, for each vertex, the lazy sequence of its
// out-neighbour vertex views: one inner sequence per input vertex.
func (vs Vertices) OutNeighbours() iter.Seq[iter.Seq[VertexView]] {
	return vs.neighboursSeq(graph.Out)
}

// InNeighbours lazily yields, for each vertex, the lazy sequence of its
// in-neighbour vertex views.
func (vs Vertices) InNeighbours() iter.Seq[iter.Seq[VertexView]] {
	return vs.neighboursSeq(graph.In)
}

func (vs Vertices) neighboursSeq(dir graph.Direction) iter.Seq[iter.Seq[VertexView]] {
	return func(yield func(iter.Seq[VertexView]) bool) {
		for v := range vs.Seq() {
			if !yield(v.Neighbours(dir)) {
				return
			}
		}
	}
}

// Flatten concatenates a sequence of sequences, preserving order: the
// counterpart to Rust's Iterator::flatten used to collapse
// out_neighbours()'s nesting back to a flat vertex sequence.
func Flatten[T any](nested iter.Seq[iter.Seq[T]]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for inner := range nested {
			for v := range inner {
				if !yield(v) {
					return
				}
			}
		}
	}
}

// StateEntry pairs a vertex view with its column entry, as produced by
// WithState.
type StateEntry[T any] struct {
	Vertex VertexView
	Value  T
	Set    bool
}

// WithState zips vs against column by position: the Nth vertex yielded by
// vs pairs with column's Nth entry. The column must have been built over
// the same vertex ordering (typically vs.Id() collected at publication
// time via state.NewStateFromIter).
func WithState[T any](vs Vertices, column *state.StateVec[T]) iter.Seq[StateEntry[T]] {
	return func(yield func(StateEntry[T]) bool) {
		i := 0
		for v := range vs.Seq() {
			value, ok := column.Get(i)
			i++
			if !yield(StateEntry[T]{Vertex: v, Value: value, Set: ok}) {
				return
			}
		}
	}
}

// Collect materialises a lazy sequence into a slice. Provided for callers
// (and tests) that need a concrete result after composing combinators;
// nothing in package view itself calls it.
func Collect[T any](seq iter.Seq[T]) []T {
	out := make([]T, 0)
	for v := range seq {
		out = append(out, v)
	}
	return out
}
