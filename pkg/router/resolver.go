package router

import (
	"golang.org/x/exp/slices"

	"github.com/bagaskara-rp/meridian/pkg/datastructure"
	"github.com/bagaskara-rp/meridian/pkg/geo"
	"github.com/bagaskara-rp/meridian/pkg/profiles"
	"github.com/bagaskara-rp/meridian/pkg/spatialindex"
)

// ResolveOptions are the explicit inputs of one resolve call; nothing is
// read from ambient router state.
type ResolveOptions struct {
	SearchOffsetDegree float64
	MaxSnapDistanceM   float64
	VerifyAllStoppable bool
}

// Resolver locates the network point of a raw coordinate.
type Resolver interface {
	Resolve(requested []profiles.Profile, lat, lon float64, opts ResolveOptions) (datastructure.RouterPoint, error)
}

// CustomResolverFunc replaces the default nearest-edge search entirely.
type CustomResolverFunc func(lat, lon float64) (datastructure.RouterPoint, error)

type customResolver struct {
	fn CustomResolverFunc
}

func (c customResolver) Resolve(_ []profiles.Profile, lat, lon float64,
	_ ResolveOptions) (datastructure.RouterPoint, error) {
	rp, err := c.fn(lat, lon)
	if err != nil {
		return datastructure.RouterPoint{}, WrapErrorf(err, ErrResolveFailed,
			"custom resolver failed for (%f, %f)", lat, lon)
	}
	return rp, nil
}

// defaultResolver snaps to the closest edge that every requested profile
// can traverse (and, with VerifyAllStoppable, stop on). Candidates come
// from the spatial index window around the query point; ties on distance
// break toward the smaller edge id.
type defaultResolver struct {
	graph *datastructure.Graph
	index *spatialindex.Rtree
}

func newDefaultResolver(graph *datastructure.Graph, index *spatialindex.Rtree) *defaultResolver {
	return &defaultResolver{graph: graph, index: index}
}

func (r *defaultResolver) Resolve(requested []profiles.Profile, lat, lon float64,
	opts ResolveOptions) (datastructure.RouterPoint, error) {

	candidates := r.index.SearchWithinWindow(lat, lon, opts.SearchOffsetDegree)
	slices.Sort(candidates)

	query := geo.NewCoordinate(lat, lon)
	bestDist := -1.0
	var best datastructure.RouterPoint

	for _, edgeID := range candidates {
		if !r.traversableByAll(edgeID, requested, opts.VerifyAllStoppable) {
			continue
		}

		polyline, err := r.graph.EdgePolyline(edgeID)
		if err != nil || len(polyline) < 2 {
			continue
		}
		proj := geo.ProjectOntoPolyline(polyline, query)
		if proj.DistM > opts.MaxSnapDistanceM {
			continue
		}
		if bestDist < 0 || proj.DistM < bestDist {
			bestDist = proj.DistM
			best = datastructure.NewRouterPoint(edgeID, proj.Fraction, proj.Snapped)
		}
	}

	if bestDist < 0 {
		return datastructure.RouterPoint{}, WrapErrorf(nil, ErrResolveFailed,
			"no routable edge within %.0f m of (%f, %f)", opts.MaxSnapDistanceM, lat, lon)
	}
	return best, nil
}

func (r *defaultResolver) traversableByAll(edgeID int32, requested []profiles.Profile,
	verifyStoppable bool) bool {
	attrs, err := r.graph.EdgeAttributes(edgeID)
	if err != nil {
		return false
	}
	for _, p := range requested {
		factor := p.Factor(attrs)
		if factor.Value <= 0 {
			return false
		}
		if verifyStoppable && !p.CanStop(attrs) {
			return false
		}
	}
	return true
}
