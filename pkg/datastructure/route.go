package datastructure

import (
	"github.com/twpayne/go-polyline"

	"github.com/bagaskara-rp/meridian/pkg/geo"
	"github.com/bagaskara-rp/meridian/pkg/profiles"
)

// RouterPoint is a resolved position on the network: an edge, the offset
// along it in [0, 1] (measured base->adj), and the projected coordinate.
type RouterPoint struct {
	EdgeID    int32
	Offset    float64
	Projected geo.Coordinate
}

func NewRouterPoint(edgeID int32, offset float64, projected geo.Coordinate) RouterPoint {
	return RouterPoint{EdgeID: edgeID, Offset: offset, Projected: projected}
}

// PathEdge is one traversal step over a geometric edge. Forward means the
// edge is walked base->adj.
type PathEdge struct {
	EdgeID  int32
	Forward bool
}

// RouteSegment carries the per-edge metadata of a route leg.
type RouteSegment struct {
	EdgeID     int32
	DistanceM  float64
	Weight     float64
	Attributes profiles.EdgeAttributes
}

// Route is the result of a point-to-point query: the traversed shape, the
// total distance in meters, the total weight under the query profile
// (seconds for time-based profiles), and per-segment attributes.
type Route struct {
	Shape     []geo.Coordinate
	DistanceM float64
	Weight    float64
	Segments  []RouteSegment
}

// Polyline encodes the route shape with the google polyline algorithm.
func (r *Route) Polyline() string {
	coords := make([][]float64, 0, len(r.Shape))
	for _, p := range r.Shape {
		coords = append(coords, []float64{p.Lat, p.Lon})
	}
	return string(polyline.EncodeCoords(coords))
}
