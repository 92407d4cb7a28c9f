// Package window defines the half-open time interval used throughout
// chronograph to restrict queries: [Start, End).
package window

import "math"

// Window is a half-open interval [Start, End) of event timestamps.
type Window struct {
	Start int64
	End   int64
}

// Unbounded spans all representable timestamps.
var Unbounded = Window{Start: math.MinInt64, End: math.MaxInt64}

// New constructs a Window, matching the caller's window(start, end) call.
func New(start, end int64) Window {
	return Window{Start: start, End: end}
}

// Contains reports whether t lies in [Start, End).
func (w Window) Contains(t int64) bool {
	return t >= w.Start && t < w.End
}

// Empty reports whether the interval contains no timestamps.
func (w Window) Empty() bool {
	return w.Start >= w.End
}

// Intersect returns the intersection of w and o: the largest interval
// contained in both. Intersection is associative, so nested windows collapse
// to a single interval regardless of application order.
func (w Window) Intersect(o Window) Window {
	start := w.Start
	if o.Start > start {
		start = o.Start
	}
	end := w.End
	if o.End < end {
		end = o.End
	}
	return Window{Start: start, End: end}
}
