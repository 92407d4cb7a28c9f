package tgraph

import (
	"testing"

	"github.com/dd0wney/chronograph/pkg/gerrors"
	"github.com/dd0wney/chronograph/pkg/tprop"
	"github.com/dd0wney/chronograph/pkg/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildWorkedExample reproduces the single-shard form of the worked
// scenario: add_vertex(0,1), add_vertex(0,2), add_vertex(1,3),
// add_edge(0,1,2), add_edge(0,2,1), add_edge(1,2,3). All three vertices
// are local here; cross-shard routing is exercised in package graph.
func buildWorkedExample(t *testing.T) *TemporalGraph {
	t.Helper()
	g := New()
	_, err := g.AddVertex(0, 1, nil)
	require.NoError(t, err)
	_, err = g.AddVertex(0, 2, nil)
	require.NoError(t, err)
	_, err = g.AddVertex(1, 3, nil)
	require.NoError(t, err)

	_, err = g.AddLocalEdgeOut(0, 1, 2, true, nil)
	require.NoError(t, err)
	_, err = g.AddLocalEdgeOut(0, 2, 1, true, nil)
	require.NoError(t, err)
	_, err = g.AddLocalEdgeOut(1, 2, 3, true, nil)
	require.NoError(t, err)
	return g
}

func TestWorkedExampleVertexAndEdgeCounts(t *testing.T) {
	g := buildWorkedExample(t)
	assert.Equal(t, 3, g.NumVertices())
	assert.Equal(t, 3, g.NumEdges())
}

func TestWorkedExampleDegrees(t *testing.T) {
	g := buildWorkedExample(t)

	outDeg, err := g.Degree(2, Out)
	require.NoError(t, err)
	assert.Equal(t, 1, outDeg) // 2 -> 1

	inDeg, err := g.Degree(2, In)
	require.NoError(t, err)
	assert.Equal(t, 2, inDeg) // 1 -> 2, 3 -> 2

	bothDeg, err := g.Degree(2, Both)
	require.NoError(t, err)
	assert.Equal(t, 3, bothDeg) // {1, 3} in, {1} out, union = {1, 3}
}

func TestWorkedExampleDegreeWindowExcludesLateEdge(t *testing.T) {
	g := buildWorkedExample(t)

	inDeg, err := g.DegreeWindow(2, In, window.New(0, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, inDeg) // only the t=0 edge 1->2 is in [0,1)
}

func TestWorkedExampleNeighboursUnknownVertex(t *testing.T) {
	g := buildWorkedExample(t)
	_, err := g.Degree(999, Out)
	assert.True(t, gerrors.IsNotFound(err))
}

func TestAddLocalEdgeOutIsIdempotentPerPair(t *testing.T) {
	g := New()
	p1, err := g.AddLocalEdgeOut(0, 1, 2, true, nil)
	require.NoError(t, err)
	p2, err := g.AddLocalEdgeOut(5, 1, 2, true, nil)
	require.NoError(t, err)
	assert.Equal(t, p1, p2)
	assert.Equal(t, 1, g.NumEdges())
}

func TestSelfLoopCountsInBothDirections(t *testing.T) {
	g := New()
	_, err := g.AddLocalEdgeOut(0, 1, 1, true, nil)
	require.NoError(t, err)

	outDeg, err := g.Degree(1, Out)
	require.NoError(t, err)
	inDeg, err := g.Degree(1, In)
	require.NoError(t, err)
	assert.Equal(t, 1, outDeg)
	assert.Equal(t, 1, inDeg)
}

func TestRemoteEdgeCreatesNoLocalEdgeRecordOnDstShard(t *testing.T) {
	src := New()
	dst := New()

	_, err := src.AddLocalEdgeOut(0, 1, 2, false, nil)
	require.NoError(t, err)
	require.NoError(t, dst.AddRemoteEdgeIn(0, 1, 2))

	assert.Equal(t, 1, src.NumEdges())
	assert.Equal(t, 0, dst.NumEdges())

	deg, err := dst.Degree(2, In)
	require.NoError(t, err)
	assert.Equal(t, 1, deg)
}

func TestPropertyHistoryRoundTrips(t *testing.T) {
	g := New()
	_, err := g.AddVertex(0, 1, []PropUpdate{{Name: "weight", Value: tprop.I64Prop(10)}})
	require.NoError(t, err)
	_, err = g.AddVertex(5, 1, []PropUpdate{{Name: "weight", Value: tprop.I64Prop(20)}})
	require.NoError(t, err)

	hist, err := g.PropertyHistory(1, "weight")
	require.NoError(t, err)
	require.Len(t, hist, 2)
	v0, ok := hist[0].Value.AsI64()
	require.True(t, ok)
	assert.Equal(t, int64(10), v0)
}

func TestPropertyHistoryUnknownNameIsNotFound(t *testing.T) {
	g := New()
	_, err := g.AddVertex(0, 1, nil)
	require.NoError(t, err)
	_, err = g.PropertyHistory(1, "missing")
	assert.True(t, gerrors.IsNotFound(err))
}

func TestPropertyTypeMismatchIsReported(t *testing.T) {
	g := New()
	_, err := g.AddVertex(0, 1, []PropUpdate{{Name: "weight", Value: tprop.I64Prop(10)}})
	require.NoError(t, err)
	_, err = g.AddVertex(5, 1, []PropUpdate{{Name: "weight", Value: tprop.StrProp("ten")}})
	assert.ErrorIs(t, err, gerrors.ErrPropTypeMismatch)
}

func TestIterVerticesWindowOrdersByFirstTouch(t *testing.T) {
	g := New()
	_, err := g.AddVertex(5, 1, nil)
	require.NoError(t, err)
	_, err = g.AddVertex(1, 2, nil)
	require.NoError(t, err)
	_, err = g.AddVertex(3, 3, nil)
	require.NoError(t, err)

	got := g.IterVerticesWindow(window.Unbounded)
	require.Len(t, got, 3)
	// pid 1 (gid 2) touched at t=1, pid 2 (gid 3) at t=3, pid 0 (gid 1) at t=5
	assert.Equal(t, []uint64{1, 2, 0}, got)
}

func TestIterVerticesWindowEmptyWindowYieldsNothing(t *testing.T) {
	g := New()
	_, err := g.AddVertex(5, 1, nil)
	require.NoError(t, err)
	assert.Empty(t, g.IterVerticesWindow(window.New(5, 5)))
}

func TestEarliestAndLatestTime(t *testing.T) {
	g := buildWorkedExample(t)
	earliest, ok := g.EarliestTime()
	require.True(t, ok)
	assert.Equal(t, int64(0), earliest)

	latest, ok := g.LatestTime()
	require.True(t, ok)
	assert.Equal(t, int64(1), latest)
}

func TestEdgePropertyHistory(t *testing.T) {
	g := New()
	_, err := g.AddLocalEdgeOut(0, 1, 2, true, []PropUpdate{{Name: "w", Value: tprop.F64Prop(1.5)}})
	require.NoError(t, err)

	hist, err := g.EdgePropertyHistory(1, 2, "w")
	require.NoError(t, err)
	require.Len(t, hist, 1)
	v, ok := hist[0].Value.AsF64()
	require.True(t, ok)
	assert.InDelta(t, 1.5, v, 0.0001)
}

func TestIterEdgesReturnsEveryCanonicalEdge(t *testing.T) {
	g := buildWorkedExample(t)
	got := g.IterEdges()
	require.Len(t, got, 3)
	assert.ElementsMatch(t, []EdgeGids{{Src: 1, Dst: 2}, {Src: 2, Dst: 1}, {Src: 2, Dst: 3}}, got)
}

func TestEdgePropertyNames(t *testing.T) {
	g := New()
	_, err := g.AddLocalEdgeOut(0, 1, 2, true, []PropUpdate{
		{Name: "w", Value: tprop.F64Prop(1.5)},
		{Name: "kind", Value: tprop.StrProp("knows")},
	})
	require.NoError(t, err)

	names, err := g.EdgePropertyNames(1, 2)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"w", "kind"}, names)
}

func TestTouchTimesIncludesBareTouches(t *testing.T) {
	g := New()
	_, err := g.AddVertex(0, 1, nil)
	require.NoError(t, err)
	_, err = g.AddVertex(5, 1, []PropUpdate{{Name: "w", Value: tprop.I64Prop(1)}})
	require.NoError(t, err)

	times, err := g.TouchTimes(1)
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 5}, times)
}

func TestEdgeTouchTimesIncludesBareTouches(t *testing.T) {
	g := New()
	_, err := g.AddLocalEdgeOut(0, 1, 2, true, nil)
	require.NoError(t, err)
	_, err = g.AddLocalEdgeOut(5, 1, 2, true, []PropUpdate{{Name: "w", Value: tprop.I64Prop(1)}})
	require.NoError(t, err)

	times, err := g.EdgeTouchTimes(1, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 5}, times)
}
