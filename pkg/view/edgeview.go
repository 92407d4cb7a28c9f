package view

import (
	"iter"

	"github.com/dd0wney/chronograph/pkg/graph"
	"github.com/dd0wney/chronograph/pkg/window"
)

// EdgeView is a single directed edge as seen through a particular view:
// its endpoint ids plus the (possibly collapsed) window that view
// restricts it to. Like VertexView, every accessor routes back through
// the owning view so an EdgeView produced under a chain of WindowedViews
// stays correct without re-walking that chain.
type EdgeView struct {
	srcGid uint64
	dstGid uint64
	w      window.Window
	view   GraphView
}

// SrcId returns the edge's source vertex id.
func (e EdgeView) SrcId() uint64 { return e.srcGid }

// DstId returns the edge's destination vertex id.
func (e EdgeView) DstId() uint64 { return e.dstGid }

// Window returns the window this edge view is restricted to.
func (e EdgeView) Window() window.Window { return e.w }

// PropertyHistory returns the time-ordered history of a named property on
// this edge, restricted to its window. Edge property history is always
// recorded in the source vertex's shard, regardless of which endpoint
// yielded this EdgeView.
func (e EdgeView) PropertyHistory(name string) ([]TimeValue, error) {
	return e.view.edgePropertyHistory(e.srcGid, e.dstGid, e.w, name)
}

// Edges lazily yields the edge views incident to v in the given
// direction, within v's window. For Out and In this gives each edge its
// natural (src, dst) orientation; for Both the same de-duplication by
// neighbour applies as Neighbours(Both), so an edge that is both an
// out- and in-edge of v is yielded once, oriented out of v.
func (v VertexView) Edges(dir graph.Direction) iter.Seq[EdgeView] {
	return v.edgesSeq(dir)
}

// OutEdges lazily yields the edge views of every edge leaving v within
// v's window.
func (v VertexView) OutEdges() iter.Seq[EdgeView] {
	return v.edgesSeq(graph.Out)
}

// InEdges lazily yields the edge views of every edge arriving at v
// within v's window.
func (v VertexView) InEdges() iter.Seq[EdgeView] {
	return v.edgesSeq(graph.In)
}

func (v VertexView) edgesSeq(dir graph.Direction) iter.Seq[EdgeView] {
	return func(yield func(EdgeView) bool) {
		gids, err := v.view.neighbours(v.gid, v.w, dir)
		if err != nil {
			return
		}
		for _, gid := range gids {
			ev := EdgeView{srcGid: v.gid, dstGid: gid, w: v.w, view: v.view}
			if dir == graph.In {
				ev = EdgeView{srcGid: gid, dstGid: v.gid, w: v.w, view: v.view}
			}
			if !yield(ev) {
				return
			}
		}
	}
}
