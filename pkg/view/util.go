package view

import (
	"github.com/dd0wney/chronograph/pkg/tprop"
	"github.com/dd0wney/chronograph/pkg/window"
)

// filterAndRender restricts a full property history to w and renders each
// Prop to its string form, since GraphView's propertyHistory is type-erased
// at the view boundary (vertex views across different element types share
// one interface).
func filterAndRender(hist []tprop.TimeValue[tprop.Prop], w window.Window) []TimeValue {
	out := make([]TimeValue, 0, len(hist))
	for _, tv := range hist {
		if !w.Contains(tv.Time) {
			continue
		}
		out = append(out, TimeValue{Time: tv.Time, Value: tv.Value.String()})
	}
	return out
}
