package geo

import (
	"github.com/golang/geo/s2"
)

func toS2Point(c Coordinate) s2.Point {
	return s2.PointFromLatLng(s2.LatLngFromDegrees(c.Lat, c.Lon))
}

func fromS2Point(p s2.Point) Coordinate {
	ll := s2.LatLngFromPoint(p)
	return NewCoordinate(ll.Lat.Degrees(), ll.Lng.Degrees())
}

// ClosestPointOnSegment returns the point on the segment (a, b) closest
// to q.
func ClosestPointOnSegment(q, a, b Coordinate) Coordinate {
	return fromS2Point(s2.Project(toS2Point(q), toS2Point(a), toS2Point(b)))
}

// PolylineProjection is the result of projecting a query point onto a
// polyline: the snapped coordinate, the distance from the query to it (in
// meter), and the fraction of the polyline length before it.
type PolylineProjection struct {
	Snapped  Coordinate
	DistM    float64
	Fraction float64
}

// ProjectOntoPolyline projects q onto the closest segment of the
// polyline and returns the projection together with the offset fraction
// along the whole polyline. The polyline must contain at least two points.
func ProjectOntoPolyline(polyline []Coordinate, q Coordinate) PolylineProjection {
	best := PolylineProjection{DistM: -1}

	totalLen := 0.0
	segLens := make([]float64, len(polyline)-1)
	for i := 0; i+1 < len(polyline); i++ {
		segLens[i] = polyline[i].DistanceTo(polyline[i+1])
		totalLen += segLens[i]
	}

	prefixLen := 0.0
	for i := 0; i+1 < len(polyline); i++ {
		snapped := ClosestPointOnSegment(q, polyline[i], polyline[i+1])
		dist := q.DistanceTo(snapped)

		if best.DistM < 0 || dist < best.DistM {
			along := polyline[i].DistanceTo(snapped)
			fraction := 0.0
			if totalLen > 0 {
				fraction = (prefixLen + along) / totalLen
			}
			if fraction > 1 {
				fraction = 1
			}
			best = PolylineProjection{Snapped: snapped, DistM: dist, Fraction: fraction}
		}
		prefixLen += segLens[i]
	}

	return best
}
