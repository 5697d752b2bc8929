package datastructure

import (
	"fmt"
	"sync"

	"github.com/bagaskara-rp/meridian/pkg/geo"
	"github.com/bagaskara-rp/meridian/pkg/profiles"
)

// Edge is an undirected geometric edge. The data word packs (distance,
// edge-profile id); shape holds the coordinates strictly between the two
// endpoints, ordered from base to adj.
type Edge struct {
	id    int32
	base  int32
	adj   int32
	data  uint32
	shape []geo.Coordinate
}

func (e Edge) ID() int32 {
	return e.id
}

func (e Edge) Base() int32 {
	return e.base
}

func (e Edge) Adj() int32 {
	return e.adj
}

func (e Edge) DataWord() uint32 {
	return e.data
}

func (e Edge) DistanceMeters() float64 {
	dist, _ := UnpackEdgeData(e.data)
	return dist
}

func (e Edge) EdgeProfileID() uint16 {
	_, id := UnpackEdgeData(e.data)
	return id
}

func (e Edge) Shape() []geo.Coordinate {
	return e.shape
}

// Other returns the endpoint opposite to v.
func (e Edge) Other(v int32) int32 {
	if v == e.base {
		return e.adj
	}
	return e.base
}

// Graph is the geometric road graph: vertex coordinates, an undirected
// edge list with packed data words, and the shared append-only
// edge-profile dictionary. After construction it is read-only except for
// contraction-hierarchy registration, which is serialized by the mutex.
type Graph struct {
	vertices []geo.Coordinate
	edges    []Edge
	incident [][]int32

	registry *profiles.Registry

	chMu     sync.RWMutex
	chGraphs map[string]*CHGraph
}

func NewGraph(registry *profiles.Registry) *Graph {
	if registry == nil {
		registry = profiles.NewRegistry()
	}
	return &Graph{
		vertices: make([]geo.Coordinate, 0),
		edges:    make([]Edge, 0),
		incident: make([][]int32, 0),
		registry: registry,
		chGraphs: make(map[string]*CHGraph),
	}
}

func (g *Graph) Registry() *profiles.Registry {
	return g.registry
}

func (g *Graph) AddVertex(lat, lon float64) int32 {
	id := int32(len(g.vertices))
	g.vertices = append(g.vertices, geo.NewCoordinate(lat, lon))
	g.incident = append(g.incident, nil)
	return id
}

// AddEdge adds an undirected edge base--adj with the given distance and
// interned edge-profile id. Shape coordinates are ordered base->adj and
// exclude the endpoints.
func (g *Graph) AddEdge(base, adj int32, distanceMeters float64, edgeProfileID uint16,
	shape []geo.Coordinate) (int32, error) {
	if int(base) >= len(g.vertices) || int(adj) >= len(g.vertices) || base < 0 || adj < 0 {
		return -1, fmt.Errorf("edge endpoint out of range: %d--%d", base, adj)
	}
	if _, err := g.registry.Get(edgeProfileID); err != nil {
		return -1, fmt.Errorf("add edge %d--%d: %w", base, adj, err)
	}

	id := int32(len(g.edges))
	g.edges = append(g.edges, Edge{
		id:    id,
		base:  base,
		adj:   adj,
		data:  PackEdgeData(distanceMeters, edgeProfileID),
		shape: shape,
	})
	g.incident[base] = append(g.incident[base], id)
	if adj != base {
		g.incident[adj] = append(g.incident[adj], id)
	}
	return id, nil
}

func (g *Graph) NumVertices() int {
	return len(g.vertices)
}

func (g *Graph) NumEdges() int {
	return len(g.edges)
}

func (g *Graph) VertexCoordinate(v int32) (geo.Coordinate, error) {
	if v < 0 || int(v) >= len(g.vertices) {
		return geo.Coordinate{}, fmt.Errorf("unknown vertex %d", v)
	}
	return g.vertices[v], nil
}

func (g *Graph) GetEdge(id int32) (Edge, error) {
	if id < 0 || int(id) >= len(g.edges) {
		return Edge{}, fmt.Errorf("unknown edge %d", id)
	}
	return g.edges[id], nil
}

// IncidentEdges returns the ids of all edges incident to v.
func (g *Graph) IncidentEdges(v int32) []int32 {
	if v < 0 || int(v) >= len(g.incident) {
		return nil
	}
	return g.incident[v]
}

// EdgeAttributes loads the attribute bag of an edge.
func (g *Graph) EdgeAttributes(edgeID int32) (profiles.EdgeAttributes, error) {
	e, err := g.GetEdge(edgeID)
	if err != nil {
		return nil, err
	}
	return g.registry.Get(e.EdgeProfileID())
}

// EdgePolyline returns (base, shape..., adj) for an edge.
func (g *Graph) EdgePolyline(edgeID int32) ([]geo.Coordinate, error) {
	e, err := g.GetEdge(edgeID)
	if err != nil {
		return nil, err
	}
	polyline := make([]geo.Coordinate, 0, len(e.shape)+2)
	polyline = append(polyline, g.vertices[e.base])
	polyline = append(polyline, e.shape...)
	polyline = append(polyline, g.vertices[e.adj])
	return polyline, nil
}

// RegisterCH attaches a contraction hierarchy for the named profile.
// Registration is exclusive with in-flight CH lookups.
func (g *Graph) RegisterCH(profileName string, ch *CHGraph) {
	g.chMu.Lock()
	defer g.chMu.Unlock()
	g.chGraphs[profileName] = ch
}

// CH returns the contraction hierarchy registered for the named profile.
func (g *Graph) CH(profileName string) (*CHGraph, bool) {
	g.chMu.RLock()
	defer g.chMu.RUnlock()
	ch, ok := g.chGraphs[profileName]
	return ch, ok
}
