package router

import (
	"context"
	"errors"
	"runtime"

	"go.uber.org/zap"

	"github.com/bagaskara-rp/meridian/pkg/concurrent"
	"github.com/bagaskara-rp/meridian/pkg/datastructure"
	"github.com/bagaskara-rp/meridian/pkg/engine/routing"
	"github.com/bagaskara-rp/meridian/pkg/logger"
	"github.com/bagaskara-rp/meridian/pkg/profiles"
	"github.com/bagaskara-rp/meridian/pkg/spatialindex"
	"github.com/bagaskara-rp/meridian/pkg/util"
)

// Router exposes the user-facing operations on one read-only graph:
// resolve a coordinate, test connectivity of a resolved point, and
// compute routes between resolved points. Queries may run concurrently;
// every query allocates its own search state.
type Router struct {
	graph      *datastructure.Graph
	index      *spatialindex.Rtree
	profileSet map[string]profiles.Profile
	weightings map[string]*routing.Weighting
	resolver   Resolver
	cfg        util.Config
	logger     *zap.Logger
}

type Option func(*Router)

func WithLogger(logger *zap.Logger) Option {
	return func(r *Router) {
		r.logger = logger
	}
}

func WithConfig(cfg util.Config) Option {
	return func(r *Router) {
		r.cfg = cfg.WithDefaults()
	}
}

// WithCustomResolver swaps the default nearest-edge resolver for a
// caller-supplied one. The choice is fixed at construction.
func WithCustomResolver(fn CustomResolverFunc) Option {
	return func(r *Router) {
		r.resolver = customResolver{fn: fn}
	}
}

func NewRouter(graph *datastructure.Graph, supported []profiles.Profile, opts ...Option) *Router {
	r := &Router{
		graph:      graph,
		profileSet: make(map[string]profiles.Profile, len(supported)),
		weightings: make(map[string]*routing.Weighting, len(supported)),
		cfg:        util.DefaultConfig(),
		logger:     logger.NewNop(),
	}
	for _, p := range supported {
		r.profileSet[p.Name()] = p
		r.weightings[p.Name()] = routing.NewWeighting(graph, p)
	}

	for _, opt := range opts {
		opt(r)
	}

	r.index = spatialindex.NewRtree()
	r.index.Build(graph, r.logger)
	if r.resolver == nil {
		r.resolver = newDefaultResolver(graph, r.index)
	}

	r.logger.Info("router ready",
		zap.Int("vertices", graph.NumVertices()),
		zap.Int("edges", graph.NumEdges()),
		zap.Int("profiles", len(supported)))
	return r
}

func (r *Router) profile(name string) (profiles.Profile, *routing.Weighting, error) {
	p, ok := r.profileSet[name]
	if !ok {
		return nil, nil, WrapErrorf(nil, ErrProfileUnsupported, "profile %q is not supported by this router", name)
	}
	return p, r.weightings[name], nil
}

// TryResolve snaps (lat, lon) onto the closest edge that every requested
// profile can traverse.
func (r *Router) TryResolve(profileNames []string, lat, lon float64) (datastructure.RouterPoint, error) {
	requested := make([]profiles.Profile, 0, len(profileNames))
	for _, name := range profileNames {
		p, _, err := r.profile(name)
		if err != nil {
			return datastructure.RouterPoint{}, err
		}
		requested = append(requested, p)
	}

	opts := ResolveOptions{
		SearchOffsetDegree: r.cfg.SearchOffsetDegree,
		MaxSnapDistanceM:   r.cfg.MaxSnapDistance,
		VerifyAllStoppable: r.cfg.VerifyAllStoppable,
	}
	return r.resolver.Resolve(requested, lat, lon, opts)
}

// TryCheckConnectivity reports whether the component around point extends
// at least radiusWeight in weight space under the named profile.
func (r *Router) TryCheckConnectivity(ctx context.Context, profileName string,
	point datastructure.RouterPoint, radiusWeight float64) (bool, error) {
	_, w, err := r.profile(profileName)
	if err != nil {
		return false, err
	}

	frontier, ferr := routing.SourceFrontier(w, point)
	if ferr != nil {
		return false, WrapErrorf(ferr, ErrResolveFailed, "invalid router point on edge %d", point.EdgeID)
	}

	reached, derr := routing.CheckConnectivity(ctx, w, frontier, radiusWeight)
	if derr != nil {
		return false, r.mapEngineError(derr, profileName)
	}
	return reached, nil
}

// TryCalculate computes a route between two resolved points. The CH
// engine is used when the graph has a hierarchy registered for the
// profile, the plain bidirectional engine otherwise.
func (r *Router) TryCalculate(ctx context.Context, profileName string,
	source, target datastructure.RouterPoint) (*datastructure.Route, error) {
	_, w, err := r.profile(profileName)
	if err != nil {
		return nil, err
	}

	if source.EdgeID == target.EdgeID {
		route, ok, serr := routing.BuildSameEdgeRoute(w, source, target)
		if serr != nil {
			return nil, r.mapEngineError(serr, profileName)
		}
		if ok {
			return route, nil
		}
	}

	sourceFrontier, err := routing.SourceFrontier(w, source)
	if err != nil {
		return nil, WrapErrorf(err, ErrResolveFailed, "invalid source point on edge %d", source.EdgeID)
	}
	targetFrontier, err := routing.TargetFrontier(w, target)
	if err != nil {
		return nil, WrapErrorf(err, ErrResolveFailed, "invalid target point on edge %d", target.EdgeID)
	}
	if len(sourceFrontier) == 0 || len(targetFrontier) == 0 {
		return nil, WrapErrorf(nil, ErrRouteNotFound,
			"profile %q cannot traverse the source or target edge", profileName)
	}

	var engine routing.QueryEngine
	if ch, ok := r.graph.CH(profileName); ok {
		engine = routing.NewCHEngine(w, ch)
	} else {
		engine = routing.NewPlainEngine(w)
	}

	res, err := engine.ShortestPath(ctx, sourceFrontier, targetFrontier)
	if err != nil {
		return nil, r.mapEngineError(err, profileName)
	}

	route, err := routing.BuildRoute(w, source, target, res)
	if err != nil {
		return nil, r.mapEngineError(err, profileName)
	}
	return route, nil
}

// RouteResult is one cell of a batch calculation.
type RouteResult struct {
	Route *datastructure.Route
	Err   error
}

// TryCalculateMany computes routes for every (source, target) pair as
// independent queries spread over a bounded set of goroutines.
// Result[i][j] pairs sources[i] with targets[j].
func (r *Router) TryCalculateMany(ctx context.Context, profileName string,
	sources, targets []datastructure.RouterPoint) ([][]RouteResult, error) {
	if _, _, err := r.profile(profileName); err != nil {
		return nil, err
	}

	results := make([][]RouteResult, len(sources))
	for i := range results {
		results[i] = make([]RouteResult, len(targets))
	}
	if len(sources) == 0 || len(targets) == 0 {
		return results, nil
	}

	numWorkers := r.cfg.NumWorkers
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	concurrent.Batch(numWorkers, len(sources)*len(targets), func(idx int) {
		i, j := idx/len(targets), idx%len(targets)
		route, err := r.TryCalculate(ctx, profileName, sources[i], targets[j])
		results[i][j] = RouteResult{Route: route, Err: err}
	})
	return results, nil
}

func (r *Router) mapEngineError(err error, profileName string) error {
	switch {
	case errors.Is(err, routing.ErrRouteNotFound):
		return WrapErrorf(err, ErrRouteNotFound, "no route for profile %q", profileName)
	case errors.Is(err, routing.ErrCanceled):
		return WrapErrorf(err, ErrCanceled, "query canceled")
	case errors.Is(err, routing.ErrInvariantViolation):
		return WrapErrorf(err, ErrInvariantViolation, "corrupt contraction hierarchy for profile %q", profileName)
	case errors.Is(err, routing.ErrRouteBuild):
		return WrapErrorf(err, ErrRouteBuildFailed, "route construction failed for profile %q", profileName)
	default:
		return WrapErrorf(err, ErrRouteBuildFailed, "query failed for profile %q", profileName)
	}
}
