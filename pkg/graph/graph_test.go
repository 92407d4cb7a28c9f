package graph

import (
	"testing"

	"github.com/dd0wney/chronograph/pkg/metrics"
	"github.com/dd0wney/chronograph/pkg/window"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildWorkedExample(t *testing.T, shardCount int) *Graph {
	t.Helper()
	g := New(shardCount)
	require.NoError(t, g.AddVertex(0, 1, nil))
	require.NoError(t, g.AddVertex(0, 2, nil))
	require.NoError(t, g.AddVertex(1, 3, nil))

	require.NoError(t, g.AddEdge(0, 1, 2, nil))
	require.NoError(t, g.AddEdge(0, 2, 1, nil))
	require.NoError(t, g.AddEdge(1, 2, 3, nil))
	return g
}

func TestWorkedExampleAcrossShardCounts(t *testing.T) {
	for _, shardCount := range []int{1, 2, 4, 8} {
		g := buildWorkedExample(t, shardCount)
		assert.Equal(t, 3, g.NumVertices())
		assert.Equal(t, 3, g.NumEdges())

		deg2Out, err := g.Degree(2, Out)
		require.NoError(t, err)
		assert.Equal(t, 1, deg2Out)

		deg2In, err := g.Degree(2, In)
		require.NoError(t, err)
		assert.Equal(t, 2, deg2In)

		deg2Both, err := g.Degree(2, Both)
		require.NoError(t, err)
		assert.Equal(t, 3, deg2Both)
	}
}

func TestCrossShardEdgeHasExactlyOneRecord(t *testing.T) {
	g := New(8)
	require.NoError(t, g.AddVertex(0, 1, nil))
	require.NoError(t, g.AddVertex(0, 2, nil))
	require.NoError(t, g.AddEdge(0, 1, 2, nil))

	assert.Equal(t, 1, g.NumEdges())

	outDeg, err := g.Degree(1, Out)
	require.NoError(t, err)
	assert.Equal(t, 1, outDeg)

	inDeg, err := g.Degree(2, In)
	require.NoError(t, err)
	assert.Equal(t, 1, inDeg)
}

func TestShardOfIsDeterministic(t *testing.T) {
	g := New(16)
	for gid := uint64(0); gid < 1000; gid++ {
		assert.Equal(t, g.shardOf(gid), g.shardOf(gid))
	}
}

func TestVertexAlwaysRoutesToOneShard(t *testing.T) {
	g := New(4)
	require.NoError(t, g.AddVertex(0, 42, nil))
	count := 0
	for _, s := range g.shards {
		if s.ContainsVertex(42) {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestSingleShardIsEquivalentToManyShards(t *testing.T) {
	single := buildWorkedExample(t, 1)
	many := buildWorkedExample(t, 8)
	assert.Equal(t, single.NumVertices(), many.NumVertices())
	assert.Equal(t, single.NumEdges(), many.NumEdges())
}

func TestIterVerticesWindowExcludesOutOfWindowVertices(t *testing.T) {
	g := buildWorkedExample(t, 4)
	got := g.IterVerticesWindow(window.New(0, 1))
	assert.ElementsMatch(t, []uint64{1, 2}, got)
}

// TestPropertyPartitionDisjointness checks invariant: every gid routes to
// exactly one shard, regardless of the sequence of vertex/edge events
// applied, mirroring the property-based style the storage package tests
// its own invariants with.
func TestPropertyPartitionDisjointness(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30
	properties := gopter.NewProperties(parameters)

	properties.Property("every gid belongs to exactly one shard", prop.ForAll(
		func(gids []uint64) bool {
			g := New(4)
			for _, gid := range gids {
				if err := g.AddVertex(0, gid, nil); err != nil {
					return false
				}
			}
			seen := make(map[uint64]bool)
			for _, gid := range gids {
				seen[gid] = true
			}
			for gid := range seen {
				count := 0
				for _, s := range g.shards {
					if s.ContainsVertex(gid) {
						count++
					}
				}
				if count != 1 {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.UInt64Range(0, 10000)),
	))

	properties.TestingRun(t)
}

// TestPropertySumOfOutDegreesEqualsEdgeCount checks invariant: summing
// out-degree across every vertex equals the total number of distinct
// edges, counting each cross-shard edge once on the source side. Edges
// are encoded as a single uint64 (src in the high 32 bits, dst in the
// low 32 bits) to keep the generator a plain scalar slice.
func TestPropertySumOfOutDegreesEqualsEdgeCount(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30
	properties := gopter.NewProperties(parameters)

	properties.Property("sum of out-degrees equals distinct edge count", prop.ForAll(
		func(encoded []uint64) bool {
			g := New(4)
			type edge struct{ src, dst uint64 }
			distinct := make(map[edge]bool)
			for _, e := range encoded {
				src := e >> 32
				dst := e & 0xFFFFFFFF
				if err := g.AddEdge(0, src, dst, nil); err != nil {
					return false
				}
				distinct[edge{src, dst}] = true
			}

			total := 0
			for _, gid := range g.IterVertices() {
				d, err := g.Degree(gid, Out)
				if err != nil {
					return false
				}
				total += d
			}
			return total == len(distinct) && g.NumEdges() == len(distinct)
		},
		gen.SliceOfN(15, gen.UInt64Range(0, 20<<32|20)),
	))

	properties.TestingRun(t)
}

func TestPublishMetricsUpdatesShardGauges(t *testing.T) {
	reg := metrics.NewRegistry()
	g := NewWithOptions(2, nil, reg)
	require.NoError(t, g.AddVertex(0, 1, nil))
	require.NoError(t, g.AddVertex(0, 2, nil))
	require.NoError(t, g.AddEdge(0, 1, 2, nil))

	g.PublishMetrics()

	total := 0
	for _, n := range g.ShardSizes() {
		total += n
	}
	assert.Equal(t, 2, total)
}

func TestPublishMetricsIsNoOpWithoutRegistry(t *testing.T) {
	g := New(2)
	require.NoError(t, g.AddVertex(0, 1, nil))
	assert.NotPanics(t, g.PublishMetrics)
}
