// Package tadjset implements the time-indexed adjacency set: for one vertex
// and one direction, the set of neighbour pids tagged with the timestamps
// at which that neighbour was (re-)seen.
package tadjset

import (
	"sort"

	"github.com/dd0wney/chronograph/pkg/tprop"
	"github.com/dd0wney/chronograph/pkg/window"
)

// EdgeRef identifies the edge backing one neighbour observation: either a
// local edge index within the owning shard, or a marker for a neighbour
// that lives in a different shard.
type EdgeRef struct {
	Remote    bool
	LocalEdge uint64 // valid when !Remote
	RemoteGID uint64 // valid when Remote: the neighbour's global id
}

// neighbour pairs a dense pid with its time-indexed history of EdgeRefs.
// The slice that owns these is kept sorted by Pid for binary-search lookup.
type neighbour struct {
	pid  uint64
	cell tprop.TCell[EdgeRef]
}

// TAdjSet is the adjacency set of a single vertex in a single direction:
// an ordered collection of (neighbour pid, TCell[EdgeRef]) pairs sorted by
// pid.
type TAdjSet struct {
	neighbours []*neighbour
}

// Push records that neighbourPid was seen at time t via ref. If
// (neighbour, t) was already recorded, the later Push wins for that t.
func (a *TAdjSet) Push(t int64, neighbourPid uint64, ref EdgeRef) {
	n := a.find(neighbourPid)
	if n == nil {
		n = &neighbour{pid: neighbourPid}
		a.insert(n)
	}
	n.cell.SetLastWriteWins(t, ref)
}

func (a *TAdjSet) find(pid uint64) *neighbour {
	i := sort.Search(len(a.neighbours), func(i int) bool { return a.neighbours[i].pid >= pid })
	if i < len(a.neighbours) && a.neighbours[i].pid == pid {
		return a.neighbours[i]
	}
	return nil
}

func (a *TAdjSet) insert(n *neighbour) {
	i := sort.Search(len(a.neighbours), func(i int) bool { return a.neighbours[i].pid >= n.pid })
	a.neighbours = append(a.neighbours, nil)
	copy(a.neighbours[i+1:], a.neighbours[i:])
	a.neighbours[i] = n
}

// Neighbour is one (neighbour pid, edge ref, first-seen-in-window time)
// triple, as returned by IterWindow/Edges.
type Neighbour struct {
	Pid       uint64
	Ref       EdgeRef
	FirstTime int64
}

// Iter returns every neighbour ever pushed, ordered by pid, each paired
// with its earliest recorded time and ref.
func (a *TAdjSet) Iter() []Neighbour {
	return a.iterWindow(window.Unbounded)
}

// IterWindow returns neighbours with at least one entry in w, each emitted
// once, paired with the earliest in-window time, ordered by pid.
func (a *TAdjSet) IterWindow(w window.Window) []Neighbour {
	return a.iterWindow(w)
}

func (a *TAdjSet) iterWindow(w window.Window) []Neighbour {
	out := make([]Neighbour, 0, len(a.neighbours))
	for _, n := range a.neighbours {
		tv, ok := n.cell.FirstIn(w)
		if !ok {
			continue
		}
		out = append(out, Neighbour{Pid: n.pid, Ref: tv.Value, FirstTime: tv.Time})
	}
	return out
}

// Degree returns the number of distinct neighbours ever pushed.
func (a *TAdjSet) Degree() int {
	return len(a.neighbours)
}

// DegreeWindow returns the number of neighbours with a non-empty cell
// restricted to w.
func (a *TAdjSet) DegreeWindow(w window.Window) int {
	if w.Empty() {
		return 0
	}
	count := 0
	for _, n := range a.neighbours {
		if n.cell.ActiveIn(w) {
			count++
		}
	}
	return count
}

// Contains reports whether pid appears in this adjacency set at all.
func (a *TAdjSet) Contains(pid uint64) bool {
	return a.find(pid) != nil
}

// ContainsWindow reports whether pid appears in this adjacency set with at
// least one entry in w.
func (a *TAdjSet) ContainsWindow(pid uint64, w window.Window) bool {
	n := a.find(pid)
	if n == nil {
		return false
	}
	return n.cell.ActiveIn(w)
}
