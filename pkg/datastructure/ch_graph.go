package datastructure

import (
	"fmt"

	"github.com/bagaskara-rp/meridian/pkg/profiles"
)

// CHEdge is a directed arc of the contraction-hierarchy meta-graph. The
// two packed words carry (weight, direction, contracted vertex id); the
// contracted id marks a shortcut bypassing that vertex, NoContractedID an
// original edge.
type CHEdge struct {
	from  int32
	to    int32
	wordA uint32
	wordB uint32
}

func (e CHEdge) From() int32 {
	return e.from
}

func (e CHEdge) To() int32 {
	return e.to
}

func (e CHEdge) Weight() float64 {
	w, _, _ := UnpackCHEdgeData(e.wordA, e.wordB)
	return float64(w)
}

func (e CHEdge) Direction() profiles.Direction {
	_, d, _ := UnpackCHEdgeData(e.wordA, e.wordB)
	return d
}

func (e CHEdge) ContractedID() int32 {
	_, _, c := UnpackCHEdgeData(e.wordA, e.wordB)
	return c
}

func (e CHEdge) IsShortcut() bool {
	return e.ContractedID() != NoContractedID
}

// AllowsTraversal reports whether the arc may be walked from fromVertex
// toward the opposite endpoint, honoring the stored direction flag in both storage
// orientations.
func (e CHEdge) AllowsTraversal(fromVertex int32) bool {
	if fromVertex == e.from {
		return e.Direction().AllowsForward()
	}
	if fromVertex == e.to {
		return e.Direction().AllowsBackward()
	}
	return false
}

// CHGraph is the contraction-hierarchy meta-graph for one profile:
// per-vertex levels imposed by the contraction order, directed arcs with
// packed edge data, and a meta table mapping original arcs back to
// geometric edge ids (NoContractedID-style -1 for shortcuts).
type CHGraph struct {
	level    []int32
	edges    []CHEdge
	meta     []int32
	incident [][]int32
}

func NewCHGraph(numVertices int) *CHGraph {
	return &CHGraph{
		level:    make([]int32, numVertices),
		edges:    make([]CHEdge, 0),
		meta:     make([]int32, 0),
		incident: make([][]int32, numVertices),
	}
}

func (c *CHGraph) NumVertices() int {
	return len(c.level)
}

func (c *CHGraph) NumEdges() int {
	return len(c.edges)
}

func (c *CHGraph) SetLevel(v int32, level int32) {
	c.level[v] = level
}

func (c *CHGraph) Level(v int32) int32 {
	return c.level[v]
}

// AddEdge adds a directed arc from->to. geometricEdgeID maps an original
// arc back to its geometric edge; pass -1 for shortcuts.
func (c *CHGraph) AddEdge(from, to int32, weight float64, direction profiles.Direction,
	contractedID int32, geometricEdgeID int32) (int32, error) {
	if from < 0 || int(from) >= len(c.level) || to < 0 || int(to) >= len(c.level) {
		return -1, fmt.Errorf("ch arc endpoint out of range: %d->%d", from, to)
	}
	if contractedID != NoContractedID && contractedID > MaxContractedID {
		return -1, fmt.Errorf("contracted id %d exceeds codec range", contractedID)
	}
	if weight < 0 {
		return -1, fmt.Errorf("negative ch arc weight %f", weight)
	}

	wordA, wordB := PackCHEdgeData(float32(weight), direction, contractedID)
	id := int32(len(c.edges))
	c.edges = append(c.edges, CHEdge{from: from, to: to, wordA: wordA, wordB: wordB})
	c.meta = append(c.meta, geometricEdgeID)

	c.incident[from] = append(c.incident[from], id)
	if to != from {
		c.incident[to] = append(c.incident[to], id)
	}
	return id, nil
}

func (c *CHGraph) GetEdge(id int32) (CHEdge, error) {
	if id < 0 || int(id) >= len(c.edges) {
		return CHEdge{}, fmt.Errorf("unknown ch arc %d", id)
	}
	return c.edges[id], nil
}

// GeometricEdgeID returns the geometric edge behind an original CH arc,
// or -1 for shortcuts.
func (c *CHGraph) GeometricEdgeID(id int32) int32 {
	if id < 0 || int(id) >= len(c.meta) {
		return -1
	}
	return c.meta[id]
}

// IncidentEdges returns the arc ids touching v in either orientation.
func (c *CHGraph) IncidentEdges(v int32) []int32 {
	if v < 0 || int(v) >= len(c.incident) {
		return nil
	}
	return c.incident[v]
}

// FindTraversableEdge returns the cheapest arc walkable from 'from' to
// 'to'. Used by the shortcut unpacker.
func (c *CHGraph) FindTraversableEdge(from, to int32) (int32, bool) {
	bestID := int32(-1)
	bestWeight := 0.0
	for _, id := range c.IncidentEdges(from) {
		e := c.edges[id]
		if e.Other(from) != to || !e.AllowsTraversal(from) {
			continue
		}
		if bestID == -1 || e.Weight() < bestWeight {
			bestID = id
			bestWeight = e.Weight()
		}
	}
	return bestID, bestID != -1
}

// Other returns the endpoint of the arc opposite to v.
func (e CHEdge) Other(v int32) int32 {
	if v == e.from {
		return e.to
	}
	return e.from
}
