package tprop

import (
	"sort"

	"github.com/dd0wney/chronograph/pkg/window"
)

// entry is one (time, value) observation. TCell keeps entries sorted by
// time so that a window query is a pair of binary searches, not a scan.
type entry[V any] struct {
	t int64
	v V
}

// TCell is an append-only, time-ordered history of values of type V. Set
// and iteration are the only operations: nothing is ever removed.
type TCell[V any] struct {
	entries []entry[V]
}

// Set records that v was observed at time t. Entries with equal or
// out-of-order t are both legal; TCell keeps its backing slice sorted by
// time by insertion, so iteration is always in time order regardless of
// the order Set was called in.
func (c *TCell[V]) Set(t int64, v V) {
	i := sort.Search(len(c.entries), func(i int) bool { return c.entries[i].t > t })
	c.entries = append(c.entries, entry[V]{})
	copy(c.entries[i+1:], c.entries[i:])
	c.entries[i] = entry[V]{t: t, v: v}
}

// SetLastWriteWins records v at time t, replacing any existing entry at
// the exact same t rather than appending a second one. Used where the
// caller's semantics are "last write wins per timestamp" rather than "keep
// every observation", e.g. TAdjSet.Push.
func (c *TCell[V]) SetLastWriteWins(t int64, v V) {
	i := sort.Search(len(c.entries), func(i int) bool { return c.entries[i].t >= t })
	if i < len(c.entries) && c.entries[i].t == t {
		c.entries[i].v = v
		return
	}
	c.entries = append(c.entries, entry[V]{})
	copy(c.entries[i+1:], c.entries[i:])
	c.entries[i] = entry[V]{t: t, v: v}
}

// Iter returns the full history in time order.
func (c *TCell[V]) Iter() []TimeValue[V] {
	out := make([]TimeValue[V], len(c.entries))
	for i, e := range c.entries {
		out[i] = TimeValue[V]{Time: e.t, Value: e.v}
	}
	return out
}

// IterWindow returns the history restricted to w, in time order.
func (c *TCell[V]) IterWindow(w window.Window) []TimeValue[V] {
	lo, hi := c.windowBounds(w)
	if lo >= hi {
		return nil
	}
	out := make([]TimeValue[V], hi-lo)
	for i := lo; i < hi; i++ {
		out[i-lo] = TimeValue[V]{Time: c.entries[i].t, Value: c.entries[i].v}
	}
	return out
}

// ActiveIn reports whether at least one entry's time lies in w.
func (c *TCell[V]) ActiveIn(w window.Window) bool {
	lo, hi := c.windowBounds(w)
	return lo < hi
}

// FirstIn returns the earliest (time, value) pair within w, if any.
func (c *TCell[V]) FirstIn(w window.Window) (TimeValue[V], bool) {
	lo, hi := c.windowBounds(w)
	if lo >= hi {
		return TimeValue[V]{}, false
	}
	return TimeValue[V]{Time: c.entries[lo].t, Value: c.entries[lo].v}, true
}

// Len returns the number of recorded entries, including duplicates.
func (c *TCell[V]) Len() int {
	return len(c.entries)
}

func (c *TCell[V]) windowBounds(w window.Window) (lo, hi int) {
	if w.Empty() {
		return 0, 0
	}
	lo = sort.Search(len(c.entries), func(i int) bool { return c.entries[i].t >= w.Start })
	hi = sort.Search(len(c.entries), func(i int) bool { return c.entries[i].t >= w.End })
	return lo, hi
}

// TimeValue pairs a timestamp with the value recorded at it.
type TimeValue[V any] struct {
	Time  int64
	Value V
}
