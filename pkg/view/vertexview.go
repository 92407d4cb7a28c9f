package view

import (
	"iter"

	"github.com/dd0wney/chronograph/pkg/graph"
	"github.com/dd0wney/chronograph/pkg/window"
)

// VertexView is a single vertex as seen through a particular view: its
// global id plus the (possibly collapsed) window that view restricts it
// to. Every accessor routes back through the owning view's internal
// methods rather than the raw graph, so a VertexView produced by a
// windowed view stays correct no matter how many windows were nested to
// produce it.
type VertexView struct {
	gid  uint64
	w    window.Window
	view GraphView
}

// Id returns the vertex's global id.
func (v VertexView) Id() uint64 { return v.gid }

// OutDegree returns the number of distinct out-neighbours within v's window.
func (v VertexView) OutDegree() (int, error) {
	return v.view.degree(v.gid, v.w, graph.Out)
}

// InDegree returns the number of distinct in-neighbours within v's window.
func (v VertexView) InDegree() (int, error) {
	return v.view.degree(v.gid, v.w, graph.In)
}

// Degree returns the number of distinct neighbours in the given direction
// within v's window.
func (v VertexView) Degree(dir graph.Direction) (int, error) {
	return v.view.degree(v.gid, v.w, dir)
}

// OutNeighbours lazily yields the vertex views of every distinct
// out-neighbour within v's window. A lookup failure (which should not
// occur for a vertex this view already resolved) ends the sequence early
// rather than panicking; callers needing the error should call Degree
// first or use Neighbours directly.
func (v VertexView) OutNeighbours() iter.Seq[VertexView] {
	return v.neighboursSeq(graph.Out)
}

// InNeighbours lazily yields the vertex views of every distinct
// in-neighbour within v's window.
func (v VertexView) InNeighbours() iter.Seq[VertexView] {
	return v.neighboursSeq(graph.In)
}

// Neighbours lazily yields the vertex views of every distinct neighbour
// in the given direction within v's window.
func (v VertexView) Neighbours(dir graph.Direction) iter.Seq[VertexView] {
	return v.neighboursSeq(dir)
}

func (v VertexView) neighboursSeq(dir graph.Direction) iter.Seq[VertexView] {
	return func(yield func(VertexView) bool) {
		gids, err := v.view.neighbours(v.gid, v.w, dir)
		if err != nil {
			return
		}
		for _, gid := range gids {
			nv := VertexView{gid: gid, w: v.w, view: v.view}
			if !yield(nv) {
				return
			}
		}
	}
}

// PropertyHistory returns the time-ordered history of a named property,
// restricted to v's window.
func (v VertexView) PropertyHistory(name string) ([]TimeValue, error) {
	return v.view.propertyHistory(v.gid, v.w, name)
}

// Window returns the window this vertex view is restricted to.
func (v VertexView) Window() window.Window { return v.w }
