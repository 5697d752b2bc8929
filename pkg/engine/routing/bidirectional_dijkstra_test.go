package routing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainBidirectionalSquare(t *testing.T) {
	g, vertices, _ := buildSquareGraph(t)
	engine := NewPlainEngine(shortestWeighting(g))

	// opposite corners of the square: two edges either way around
	res, err := engine.ShortestPath(context.Background(),
		vertexFrontier(vertices[0]), vertexFrontier(vertices[2]))
	require.NoError(t, err)

	assert.InDelta(t, 2*testEdgeLen, res.Weight, 0.01)
	assert.Len(t, res.Edges, 2)
	assert.Equal(t, vertices[0], res.EntryVertex)
	assert.Equal(t, vertices[2], res.ExitVertex)
}

func TestPlainBidirectionalLine(t *testing.T) {
	g, vertices, edges := buildLineGraph(t)
	engine := NewPlainEngine(shortestWeighting(g))

	res, err := engine.ShortestPath(context.Background(),
		vertexFrontier(vertices[0]), vertexFrontier(vertices[4]))
	require.NoError(t, err)

	assert.InDelta(t, 4*testEdgeLen, res.Weight, 0.01)
	require.Len(t, res.Edges, 4)
	for i, pe := range res.Edges {
		assert.Equal(t, edges[i], pe.EdgeID)
		assert.True(t, pe.Forward)
	}
}

func TestPlainBidirectionalSourceEqualsTarget(t *testing.T) {
	g, vertices, _ := buildLineGraph(t)
	engine := NewPlainEngine(shortestWeighting(g))

	res, err := engine.ShortestPath(context.Background(),
		vertexFrontier(vertices[2]), vertexFrontier(vertices[2]))
	require.NoError(t, err)

	assert.Zero(t, res.Weight)
	assert.Empty(t, res.Edges)
}

func TestPlainBidirectionalDisjointComponents(t *testing.T) {
	g, twoWay, _ := newResidentialGraph(t)
	a := g.AddVertex(-7.5500, 110.7900)
	b := g.AddVertex(-7.5500, 110.7909)
	c := g.AddVertex(-7.4000, 110.9000)
	d := g.AddVertex(-7.4000, 110.9009)
	_, err := g.AddEdge(a, b, testEdgeLen, twoWay, nil)
	require.NoError(t, err)
	_, err = g.AddEdge(c, d, testEdgeLen, twoWay, nil)
	require.NoError(t, err)

	engine := NewPlainEngine(shortestWeighting(g))
	_, err = engine.ShortestPath(context.Background(), vertexFrontier(a), vertexFrontier(c))
	require.ErrorIs(t, err, ErrRouteNotFound)
}

func TestPlainBidirectionalCanceled(t *testing.T) {
	g, vertices, _ := buildLineGraph(t)
	engine := NewPlainEngine(shortestWeighting(g))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.ShortestPath(ctx, vertexFrontier(vertices[0]), vertexFrontier(vertices[4]))
	require.ErrorIs(t, err, ErrCanceled)
}

func TestPlainBidirectionalPartialFrontiers(t *testing.T) {
	g, vertices, edges := buildLineGraph(t)
	engine := NewPlainEngine(shortestWeighting(g))

	// source halfway along A-B, target halfway along D-E
	source := []FrontierEntry{
		{Vertex: vertices[1], Weight: 0.5 * testEdgeLen, ViaEdge: edges[0]},
		{Vertex: vertices[0], Weight: 0.5 * testEdgeLen, ViaEdge: edges[0]},
	}
	target := []FrontierEntry{
		{Vertex: vertices[3], Weight: 0.5 * testEdgeLen, ViaEdge: edges[3]},
		{Vertex: vertices[4], Weight: 0.5 * testEdgeLen, ViaEdge: edges[3]},
	}

	res, err := engine.ShortestPath(context.Background(), source, target)
	require.NoError(t, err)

	// 50 m head + 200 m interior + 50 m tail
	assert.InDelta(t, 3*testEdgeLen, res.Weight, 0.01)
	assert.Equal(t, vertices[1], res.EntryVertex)
	assert.Equal(t, vertices[3], res.ExitVertex)
	require.Len(t, res.Edges, 2)
	assert.Equal(t, edges[1], res.Edges[0].EdgeID)
	assert.Equal(t, edges[2], res.Edges[1].EdgeID)
}
