package routing

import (
	"fmt"
	"math"

	"github.com/bagaskara-rp/meridian/pkg/datastructure"
	"github.com/bagaskara-rp/meridian/pkg/geo"
	"github.com/bagaskara-rp/meridian/pkg/util"
)

const offsetEpsilon = 1e-9

func polylineLength(pl []geo.Coordinate) float64 {
	total := 0.0
	for i := 0; i+1 < len(pl); i++ {
		total += pl[i].DistanceTo(pl[i+1])
	}
	return total
}

// splitPolyline cuts pl at the given length fraction. The interpolated
// cut point is the last coordinate of before and the first of after.
func splitPolyline(pl []geo.Coordinate, fraction float64) (before, after []geo.Coordinate) {
	if fraction <= 0 {
		return []geo.Coordinate{pl[0]}, pl
	}
	if fraction >= 1 {
		return pl, []geo.Coordinate{pl[len(pl)-1]}
	}

	targetLen := fraction * polylineLength(pl)
	walked := 0.0
	for i := 0; i+1 < len(pl); i++ {
		segLen := pl[i].DistanceTo(pl[i+1])
		if walked+segLen >= targetLen && segLen > 0 {
			t := (targetLen - walked) / segLen
			cut := geo.NewCoordinate(
				pl[i].Lat+(pl[i+1].Lat-pl[i].Lat)*t,
				pl[i].Lon+(pl[i+1].Lon-pl[i].Lon)*t,
			)
			before = append(before, pl[:i+1]...)
			before = append(before, cut)
			after = append(after, cut)
			after = append(after, pl[i+1:]...)
			return before, after
		}
		walked += segLen
	}
	return pl, []geo.Coordinate{pl[len(pl)-1]}
}

// appendShape extends shape with extra, dropping the leading coordinate
// of extra when it repeats the current tail.
func appendShape(shape, extra []geo.Coordinate) []geo.Coordinate {
	for i, p := range extra {
		if i == 0 && len(shape) > 0 {
			last := shape[len(shape)-1]
			if math.Abs(last.Lat-p.Lat) < 1e-12 && math.Abs(last.Lon-p.Lon) < 1e-12 {
				continue
			}
		}
		shape = append(shape, p)
	}
	return shape
}

// BuildRoute assembles the final route: the origin edge from its offset
// to the entry vertex, every interior edge in traversal orientation, and
// the target edge from the exit vertex to its offset. Consecutive edges
// must share endpoints; anything else means the engine handed back a
// sequence that is not a path.
func BuildRoute(w *Weighting, origin, target datastructure.RouterPoint, res *PathResult) (*datastructure.Route, error) {
	graph := w.Graph()

	originEdge, err := graph.GetEdge(origin.EdgeID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRouteBuild, err)
	}
	targetEdge, err := graph.GetEdge(target.EdgeID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRouteBuild, err)
	}

	route := &datastructure.Route{
		Shape:    make([]geo.Coordinate, 0),
		Segments: make([]datastructure.RouteSegment, 0, len(res.Edges)+2),
	}

	// origin edge partial
	originPl, _ := graph.EdgePolyline(origin.EdgeID)
	originLen := originEdge.DistanceMeters()
	originFactor := w.EdgeFactor(originEdge)
	before, after := splitPolyline(originPl, origin.Offset)

	var headShape []geo.Coordinate
	var headDist float64
	switch res.EntryVertex {
	case originEdge.Adj():
		headShape = append([]geo.Coordinate{}, after...)
		headDist = (1 - origin.Offset) * originLen
	case originEdge.Base():
		headShape = util.ReverseG(before)
		headDist = origin.Offset * originLen
	default:
		return nil, fmt.Errorf("%w: origin edge %d does not touch entry vertex %d",
			ErrRouteBuild, origin.EdgeID, res.EntryVertex)
	}
	if len(headShape) > 0 {
		headShape[0] = origin.Projected
	}
	route.Shape = appendShape(route.Shape, headShape)
	route.DistanceM += headDist

	originAttrs, _ := graph.EdgeAttributes(origin.EdgeID)
	route.Segments = append(route.Segments, datastructure.RouteSegment{
		EdgeID:     origin.EdgeID,
		DistanceM:  headDist,
		Weight:     headDist * originFactor.Value,
		Attributes: originAttrs,
	})

	// interior edges
	cur := res.EntryVertex
	for _, pe := range res.Edges {
		edge, gerr := graph.GetEdge(pe.EdgeID)
		if gerr != nil {
			return nil, fmt.Errorf("%w: %v", ErrRouteBuild, gerr)
		}

		expectedStart := edge.Base()
		if !pe.Forward {
			expectedStart = edge.Adj()
		}
		if cur != expectedStart {
			return nil, fmt.Errorf("%w: edge %d does not continue from vertex %d",
				ErrRouteBuild, pe.EdgeID, cur)
		}

		pl, _ := graph.EdgePolyline(pe.EdgeID)
		if !pe.Forward {
			pl = util.ReverseG(pl)
		}
		route.Shape = appendShape(route.Shape, pl)

		dist := edge.DistanceMeters()
		route.DistanceM += dist
		attrs, _ := graph.EdgeAttributes(pe.EdgeID)
		route.Segments = append(route.Segments, datastructure.RouteSegment{
			EdgeID:     pe.EdgeID,
			DistanceM:  dist,
			Weight:     w.EdgeWeight(edge),
			Attributes: attrs,
		})

		cur = edge.Other(cur)
	}

	if cur != res.ExitVertex {
		return nil, fmt.Errorf("%w: interior path ends at vertex %d, want %d",
			ErrRouteBuild, cur, res.ExitVertex)
	}

	// target edge partial
	targetPl, _ := graph.EdgePolyline(target.EdgeID)
	targetLen := targetEdge.DistanceMeters()
	targetFactor := w.EdgeFactor(targetEdge)
	tBefore, tAfter := splitPolyline(targetPl, target.Offset)

	var tailShape []geo.Coordinate
	var tailDist float64
	switch res.ExitVertex {
	case targetEdge.Base():
		tailShape = append([]geo.Coordinate{}, tBefore...)
		tailDist = target.Offset * targetLen
	case targetEdge.Adj():
		tailShape = util.ReverseG(tAfter)
		tailDist = (1 - target.Offset) * targetLen
	default:
		return nil, fmt.Errorf("%w: target edge %d does not touch exit vertex %d",
			ErrRouteBuild, target.EdgeID, res.ExitVertex)
	}
	if len(tailShape) > 0 {
		tailShape[len(tailShape)-1] = target.Projected
	}
	route.Shape = appendShape(route.Shape, tailShape)
	route.DistanceM += tailDist
	route.Weight = res.Weight

	targetAttrs, _ := graph.EdgeAttributes(target.EdgeID)
	route.Segments = append(route.Segments, datastructure.RouteSegment{
		EdgeID:     target.EdgeID,
		DistanceM:  tailDist,
		Weight:     tailDist * targetFactor.Value,
		Attributes: targetAttrs,
	})

	return route, nil
}

// BuildSameEdgeRoute builds the short route between two points on the
// same edge without invoking a graph engine. The second return value is
// false when the profile does not allow the required orientation; the
// caller falls back to the full search (the optimum may loop through the
// graph).
func BuildSameEdgeRoute(w *Weighting, origin, target datastructure.RouterPoint) (*datastructure.Route, bool, error) {
	graph := w.Graph()
	edge, err := graph.GetEdge(origin.EdgeID)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrRouteBuild, err)
	}

	if math.Abs(origin.Offset-target.Offset) < offsetEpsilon {
		return &datastructure.Route{
			Shape: []geo.Coordinate{origin.Projected},
		}, true, nil
	}

	forward := target.Offset > origin.Offset
	if !w.allowsOrientation(edge, forward) {
		return nil, false, nil
	}

	lo, hi := origin.Offset, target.Offset
	if !forward {
		lo, hi = hi, lo
	}

	pl, _ := graph.EdgePolyline(origin.EdgeID)
	_, tail := splitPolyline(pl, lo)
	tailLen := polylineLength(tail)
	relHi := 1.0
	if tailLen > 0 && hi < 1 {
		relHi = (hi - lo) / (1 - lo)
	}
	mid, _ := splitPolyline(tail, relHi)
	if !forward {
		mid = util.ReverseG(mid)
	}
	if len(mid) > 0 {
		mid[0] = origin.Projected
		mid[len(mid)-1] = target.Projected
	}

	dist := (hi - lo) * edge.DistanceMeters()
	factor := w.EdgeFactor(edge)
	attrs, _ := graph.EdgeAttributes(origin.EdgeID)

	return &datastructure.Route{
		Shape:     mid,
		DistanceM: dist,
		Weight:    dist * factor.Value,
		Segments: []datastructure.RouteSegment{{
			EdgeID:     origin.EdgeID,
			DistanceM:  dist,
			Weight:     dist * factor.Value,
			Attributes: attrs,
		}},
	}, true, nil
}
