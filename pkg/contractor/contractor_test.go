package contractor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bagaskara-rp/meridian/pkg/datastructure"
	"github.com/bagaskara-rp/meridian/pkg/engine/routing"
	"github.com/bagaskara-rp/meridian/pkg/profiles"
)

// buildGrid builds an n x n two-way residential grid with 100 m edges.
func buildGrid(t *testing.T, n int) (*datastructure.Graph, []int32) {
	t.Helper()
	registry := profiles.NewRegistry()
	residential, err := registry.Intern(profiles.EdgeAttributes{"highway": "residential"})
	require.NoError(t, err)

	g := datastructure.NewGraph(registry)
	vertices := make([]int32, 0, n*n)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			vertices = append(vertices, g.AddVertex(-7.5500+float64(r)*0.0009, 110.7900+float64(c)*0.0009))
		}
	}
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			if c+1 < n {
				_, err := g.AddEdge(vertices[r*n+c], vertices[r*n+c+1], 100, residential, nil)
				require.NoError(t, err)
			}
			if r+1 < n {
				_, err := g.AddEdge(vertices[r*n+c], vertices[(r+1)*n+c], 100, residential, nil)
				require.NoError(t, err)
			}
		}
	}
	return g, vertices
}

func TestContractionLevelsArePermutation(t *testing.T) {
	g, vertices := buildGrid(t, 3)
	ch, err := NewContractor(g, profiles.NewShortestProfile(), nil).Build()
	require.NoError(t, err)

	seen := make(map[int32]bool)
	for _, v := range vertices {
		level := ch.Level(v)
		assert.False(t, seen[level], "duplicate level %d", level)
		seen[level] = true
		assert.GreaterOrEqual(t, level, int32(0))
		assert.Less(t, level, int32(len(vertices)))
	}
}

func TestContractedQueriesMatchPlainEngine(t *testing.T) {
	g, vertices := buildGrid(t, 4)
	profile := profiles.NewShortestProfile()

	ch, err := NewContractor(g, profile, nil).BuildAndRegister()
	require.NoError(t, err)
	registered, ok := g.CH(profile.Name())
	require.True(t, ok)
	require.Same(t, ch, registered)

	w := routing.NewWeighting(g, profile)
	plainEngine := routing.NewPlainEngine(w)
	chEngine := routing.NewCHEngine(w, ch)

	frontier := func(v int32) []routing.FrontierEntry {
		return []routing.FrontierEntry{{Vertex: v, Weight: 0, ViaEdge: -1}}
	}

	for _, from := range vertices {
		for _, to := range vertices {
			if from == to {
				continue
			}
			plainRes, perr := plainEngine.ShortestPath(context.Background(), frontier(from), frontier(to))
			require.NoError(t, perr, "plain %d -> %d", from, to)
			chRes, cerr := chEngine.ShortestPath(context.Background(), frontier(from), frontier(to))
			require.NoError(t, cerr, "ch %d -> %d", from, to)

			assert.InDelta(t, plainRes.Weight, chRes.Weight, 1e-3,
				"weights differ for %d -> %d", from, to)
		}
	}
}

func TestContractionHandlesOnewayEdges(t *testing.T) {
	registry := profiles.NewRegistry()
	oneway, err := registry.Intern(profiles.EdgeAttributes{"highway": "primary", "oneway": "yes"})
	require.NoError(t, err)

	// a directed ring: every vertex reaches every other the long way
	// around
	g := datastructure.NewGraph(registry)
	vertices := make([]int32, 4)
	coords := [][2]float64{
		{-7.5500, 110.7900}, {-7.5500, 110.7909}, {-7.5491, 110.7909}, {-7.5491, 110.7900},
	}
	for i, c := range coords {
		vertices[i] = g.AddVertex(c[0], c[1])
	}
	for i := range vertices {
		_, err := g.AddEdge(vertices[i], vertices[(i+1)%4], 100, oneway, nil)
		require.NoError(t, err)
	}

	profile := profiles.NewShortestProfile()
	ch, err := NewContractor(g, profile, nil).Build()
	require.NoError(t, err)

	w := routing.NewWeighting(g, profile)
	chEngine := routing.NewCHEngine(w, ch)
	plainEngine := routing.NewPlainEngine(w)

	frontier := func(v int32) []routing.FrontierEntry {
		return []routing.FrontierEntry{{Vertex: v, Weight: 0, ViaEdge: -1}}
	}

	// against the ring direction the only route is the long way around
	chRes, err := chEngine.ShortestPath(context.Background(), frontier(vertices[1]), frontier(vertices[0]))
	require.NoError(t, err)
	plainRes, err := plainEngine.ShortestPath(context.Background(), frontier(vertices[1]), frontier(vertices[0]))
	require.NoError(t, err)

	assert.InDelta(t, 300.0, plainRes.Weight, 0.1)
	assert.InDelta(t, plainRes.Weight, chRes.Weight, 1e-3)
}

func TestContractionEmptyGraph(t *testing.T) {
	g := datastructure.NewGraph(nil)
	ch, err := NewContractor(g, profiles.NewShortestProfile(), nil).Build()
	require.NoError(t, err)
	assert.Zero(t, ch.NumVertices())
	assert.Zero(t, ch.NumEdges())
}
