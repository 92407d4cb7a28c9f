package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dd0wney/chronograph/pkg/graph"
	"github.com/dd0wney/chronograph/pkg/tgraph"
	"github.com/dd0wney/chronograph/pkg/tprop"
	"github.com/dd0wney/chronograph/pkg/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New(4)
	require.NoError(t, g.AddVertex(0, 1, []tgraph.PropUpdate{{Name: "weight", Value: tprop.F64Prop(1.5)}}))
	require.NoError(t, g.AddVertex(0, 2, nil))
	require.NoError(t, g.AddVertex(1, 3, []tgraph.PropUpdate{{Name: "label", Value: tprop.StrProp("a")}}))
	require.NoError(t, g.AddVertex(2, 1, []tgraph.PropUpdate{{Name: "weight", Value: tprop.F64Prop(2.5)}}))

	require.NoError(t, g.AddEdge(0, 1, 2, []tgraph.PropUpdate{{Name: "kind", Value: tprop.StrProp("knows")}}))
	require.NoError(t, g.AddEdge(1, 2, 3, nil))
	require.NoError(t, g.AddEdge(2, 1, 3, nil))
	return g
}

func assertGraphsEqual(t *testing.T, want, got *graph.Graph) {
	t.Helper()
	require.Equal(t, want.NumVertices(), got.NumVertices())
	require.Equal(t, want.NumEdges(), got.NumEdges())

	for _, gid := range want.IterVertices() {
		assert.True(t, got.ContainsVertex(gid))
		names, err := want.PropertyNames(gid)
		require.NoError(t, err)
		for _, name := range names {
			wantHist, err := want.PropertyHistory(gid, name)
			require.NoError(t, err)
			gotHist, err := got.PropertyHistory(gid, name)
			require.NoError(t, err)
			require.Len(t, gotHist, len(wantHist))
			for i := range wantHist {
				assert.Equal(t, wantHist[i].Time, gotHist[i].Time)
				assert.True(t, wantHist[i].Value.Equal(gotHist[i].Value))
			}
		}
	}

	for _, e := range want.IterEdges() {
		deg, err := got.Degree(e.Src, graph.Out)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, deg, 1)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	g := buildGraph(t)
	raw, err := encode(g)
	require.NoError(t, err)

	got, err := decode(raw)
	require.NoError(t, err)
	assertGraphsEqual(t, g, got)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	g := buildGraph(t)
	path := filepath.Join(t.TempDir(), "snapshot.cgs")

	stats, err := Save(g, path)
	require.NoError(t, err)
	assert.Greater(t, stats.BytesUncompressed, 0)

	got, err := Load(path)
	require.NoError(t, err)
	assertGraphsEqual(t, g, got)
}

func TestLoadRejectsBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.cgs")
	file, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, writeFrame(file, []byte("not a snapshot")))
	require.NoError(t, file.Close())

	_, err = Load(path)
	require.Error(t, err)
}

func TestLoadRejectsCorruptedChecksum(t *testing.T) {
	g := buildGraph(t)
	path := filepath.Join(t.TempDir(), "snapshot.cgs")
	_, err := Save(g, path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[len(data)-1] ^= 0xFF
	require.NoError(t, os.WriteFile(path, data, 0644))

	_, err = Load(path)
	require.Error(t, err)
}

func TestWindowedQueriesSurviveRoundTrip(t *testing.T) {
	g := buildGraph(t)
	raw, err := encode(g)
	require.NoError(t, err)
	got, err := decode(raw)
	require.NoError(t, err)

	w := window.New(0, 2)
	assert.ElementsMatch(t, g.IterVerticesWindow(w), got.IterVerticesWindow(w))
}
