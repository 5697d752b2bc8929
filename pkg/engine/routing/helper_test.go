package routing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bagaskara-rp/meridian/pkg/datastructure"
	"github.com/bagaskara-rp/meridian/pkg/geo"
	"github.com/bagaskara-rp/meridian/pkg/profiles"
)

const testEdgeLen = 100.0

// newResidentialGraph returns an empty graph whose registry holds a
// two-way residential edge-profile and a oneway variant.
func newResidentialGraph(t *testing.T) (*datastructure.Graph, uint16, uint16) {
	t.Helper()
	registry := profiles.NewRegistry()
	twoWay, err := registry.Intern(profiles.EdgeAttributes{"highway": "residential"})
	require.NoError(t, err)
	oneWay, err := registry.Intern(profiles.EdgeAttributes{"highway": "residential", "oneway": "yes"})
	require.NoError(t, err)
	return datastructure.NewGraph(registry), twoWay, oneWay
}

// buildLineGraph builds A-B-C-D-E with 100 m two-way edges along one
// parallel of latitude.
func buildLineGraph(t *testing.T) (*datastructure.Graph, []int32, []int32) {
	t.Helper()
	g, twoWay, _ := newResidentialGraph(t)

	vertices := make([]int32, 5)
	for i := range vertices {
		vertices[i] = g.AddVertex(-7.5500, 110.7900+float64(i)*0.0009)
	}

	edges := make([]int32, 4)
	for i := 0; i < 4; i++ {
		id, err := g.AddEdge(vertices[i], vertices[i+1], testEdgeLen, twoWay, nil)
		require.NoError(t, err)
		edges[i] = id
	}
	return g, vertices, edges
}

// buildSquareGraph builds the unit square A-B-C-D-A with 100 m two-way
// edges.
func buildSquareGraph(t *testing.T) (*datastructure.Graph, []int32, []int32) {
	t.Helper()
	g, twoWay, _ := newResidentialGraph(t)

	coords := [][2]float64{
		{-7.5500, 110.7900},
		{-7.5500, 110.7909},
		{-7.5491, 110.7909},
		{-7.5491, 110.7900},
	}
	vertices := make([]int32, 4)
	for i, c := range coords {
		vertices[i] = g.AddVertex(c[0], c[1])
	}

	edges := make([]int32, 4)
	for i := 0; i < 4; i++ {
		id, err := g.AddEdge(vertices[i], vertices[(i+1)%4], testEdgeLen, twoWay, nil)
		require.NoError(t, err)
		edges[i] = id
	}
	return g, vertices, edges
}

func shortestWeighting(g *datastructure.Graph) *Weighting {
	return NewWeighting(g, profiles.NewShortestProfile())
}

func vertexFrontier(v int32) []FrontierEntry {
	return []FrontierEntry{{Vertex: v, Weight: 0, ViaEdge: -1}}
}

// buildLineCH hand-builds the hierarchy of the line graph with B, C, D
// contracted in that order: levels B=0, C=1, D=2, A=3, E=4 and the
// nested shortcuts A-C via B, A-D via C, A-E via D.
func buildLineCH(t *testing.T, g *datastructure.Graph, vertices, edges []int32) *datastructure.CHGraph {
	t.Helper()
	ch := datastructure.NewCHGraph(g.NumVertices())

	a, b, c, d, e := vertices[0], vertices[1], vertices[2], vertices[3], vertices[4]
	ch.SetLevel(b, 0)
	ch.SetLevel(c, 1)
	ch.SetLevel(d, 2)
	ch.SetLevel(a, 3)
	ch.SetLevel(e, 4)

	addArc := func(from, to int32, weight float64, contracted int32, geomEdge int32) {
		_, err := ch.AddEdge(from, to, weight, profiles.DirectionBoth, contracted, geomEdge)
		require.NoError(t, err)
	}

	addArc(a, b, testEdgeLen, datastructure.NoContractedID, edges[0])
	addArc(b, c, testEdgeLen, datastructure.NoContractedID, edges[1])
	addArc(c, d, testEdgeLen, datastructure.NoContractedID, edges[2])
	addArc(d, e, testEdgeLen, datastructure.NoContractedID, edges[3])

	addArc(a, c, 2*testEdgeLen, b, -1)
	addArc(a, d, 3*testEdgeLen, c, -1)
	addArc(a, e, 4*testEdgeLen, d, -1)

	return ch
}

func routerPointAt(t *testing.T, g *datastructure.Graph, edgeID int32, offset float64) datastructure.RouterPoint {
	t.Helper()
	pl, err := g.EdgePolyline(edgeID)
	require.NoError(t, err)
	// interpolated coordinate is close enough for tests on straight edges
	first, last := pl[0], pl[len(pl)-1]
	coord := geo.NewCoordinate(
		first.Lat+(last.Lat-first.Lat)*offset,
		first.Lon+(last.Lon-first.Lon)*offset,
	)
	return datastructure.NewRouterPoint(edgeID, offset, coord)
}
