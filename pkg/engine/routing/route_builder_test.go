package routing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bagaskara-rp/meridian/pkg/datastructure"
)

func TestBuildSameEdgeRoute(t *testing.T) {
	g, _, edges := buildLineGraph(t)
	w := shortestWeighting(g)

	origin := routerPointAt(t, g, edges[0], 0.2)
	target := routerPointAt(t, g, edges[0], 0.8)

	route, ok, err := BuildSameEdgeRoute(w, origin, target)
	require.NoError(t, err)
	require.True(t, ok)

	assert.InDelta(t, 0.6*testEdgeLen, route.DistanceM, 0.01)
	assert.InDelta(t, 0.6*testEdgeLen, route.Weight, 0.01)
	require.NotEmpty(t, route.Shape)
	assert.Equal(t, origin.Projected, route.Shape[0])
	assert.Equal(t, target.Projected, route.Shape[len(route.Shape)-1])
	require.Len(t, route.Segments, 1)
	assert.Equal(t, edges[0], route.Segments[0].EdgeID)
}

func TestBuildSameEdgeRouteReversed(t *testing.T) {
	g, _, edges := buildLineGraph(t)
	w := shortestWeighting(g)

	origin := routerPointAt(t, g, edges[0], 0.9)
	target := routerPointAt(t, g, edges[0], 0.4)

	route, ok, err := BuildSameEdgeRoute(w, origin, target)
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 0.5*testEdgeLen, route.DistanceM, 0.01)
	assert.Equal(t, origin.Projected, route.Shape[0])
	assert.Equal(t, target.Projected, route.Shape[len(route.Shape)-1])
}

func TestBuildSameEdgeRouteZeroLength(t *testing.T) {
	g, _, edges := buildLineGraph(t)
	w := shortestWeighting(g)

	point := routerPointAt(t, g, edges[1], 0.5)

	route, ok, err := BuildSameEdgeRoute(w, point, point)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Zero(t, route.DistanceM)
	assert.Zero(t, route.Weight)
	require.Len(t, route.Shape, 1)
	assert.Equal(t, point.Projected, route.Shape[0])
	assert.Empty(t, route.Segments)
}

func TestBuildSameEdgeRouteOnewayFallback(t *testing.T) {
	g, _, oneWay := newResidentialGraph(t)
	a := g.AddVertex(-7.5500, 110.7900)
	b := g.AddVertex(-7.5500, 110.7909)
	edgeID, err := g.AddEdge(a, b, testEdgeLen, oneWay, nil)
	require.NoError(t, err)
	w := shortestWeighting(g)

	origin := routerPointAt(t, g, edgeID, 0.8)
	target := routerPointAt(t, g, edgeID, 0.2)

	// driving against the oneway is not allowed; the caller must fall
	// back to the graph engines
	_, ok, err := BuildSameEdgeRoute(w, origin, target)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBuildRouteWithPartialEnds(t *testing.T) {
	g, _, edges := buildLineGraph(t)
	w := shortestWeighting(g)
	engine := NewPlainEngine(w)

	origin := routerPointAt(t, g, edges[0], 0.5)
	target := routerPointAt(t, g, edges[3], 0.5)

	sourceFrontier, err := SourceFrontier(w, origin)
	require.NoError(t, err)
	targetFrontier, err := TargetFrontier(w, target)
	require.NoError(t, err)

	res, err := engine.ShortestPath(context.Background(), sourceFrontier, targetFrontier)
	require.NoError(t, err)

	route, err := BuildRoute(w, origin, target, res)
	require.NoError(t, err)

	// 50 m head + 200 m interior + 50 m tail
	assert.InDelta(t, 3*testEdgeLen, route.DistanceM, 0.1)
	assert.InDelta(t, 3*testEdgeLen, route.Weight, 0.1)
	assert.Equal(t, origin.Projected, route.Shape[0])
	assert.Equal(t, target.Projected, route.Shape[len(route.Shape)-1])
	require.Len(t, route.Segments, 4)

	segmentSum := 0.0
	for _, seg := range route.Segments {
		segmentSum += seg.Weight
	}
	assert.InDelta(t, route.Weight, segmentSum, 0.1)
}

func TestBuildRouteRejectsBrokenEdgeSequence(t *testing.T) {
	g, vertices, edges := buildLineGraph(t)
	w := shortestWeighting(g)

	origin := routerPointAt(t, g, edges[0], 0.5)
	target := routerPointAt(t, g, edges[3], 0.5)

	// edge B-C followed by D-E skips C-D: not a path
	broken := &PathResult{
		Edges: []datastructure.PathEdge{
			{EdgeID: edges[1], Forward: true},
			{EdgeID: edges[3], Forward: true},
		},
		Weight:      300,
		EntryVertex: vertices[1],
		ExitVertex:  vertices[3],
	}

	_, err := BuildRoute(w, origin, target, broken)
	require.ErrorIs(t, err, ErrRouteBuild)
}

func TestBuildRoutePolylineEncoding(t *testing.T) {
	g, _, edges := buildLineGraph(t)
	w := shortestWeighting(g)

	origin := routerPointAt(t, g, edges[0], 0.0)
	target := routerPointAt(t, g, edges[0], 1.0)

	route, ok, err := BuildSameEdgeRoute(w, origin, target)
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotEmpty(t, route.Polyline())
}
