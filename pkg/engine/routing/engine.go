package routing

import (
	"context"

	"github.com/bagaskara-rp/meridian/pkg/datastructure"
)

// QueryEngine is the point-to-point search capability. The router picks
// the CH implementation when the graph carries a hierarchy for the query
// profile and the plain bidirectional engine otherwise.
type QueryEngine interface {
	ShortestPath(ctx context.Context, source, target []FrontierEntry) (*PathResult, error)
}

// SourceFrontier derives the outgoing virtual paths of a resolved point:
// one entry per edge endpoint the profile allows leaving toward, weighted
// by the partial edge distance.
func SourceFrontier(w *Weighting, rp datastructure.RouterPoint) ([]FrontierEntry, error) {
	edge, err := w.Graph().GetEdge(rp.EdgeID)
	if err != nil {
		return nil, err
	}
	factor := w.EdgeFactor(edge)
	if !factor.Traversable() {
		return nil, nil
	}

	length := edge.DistanceMeters()
	entries := make([]FrontierEntry, 0, 2)
	if factor.Direction.AllowsForward() {
		entries = append(entries, FrontierEntry{
			Vertex:  edge.Adj(),
			Weight:  (1 - rp.Offset) * length * factor.Value,
			ViaEdge: rp.EdgeID,
		})
	}
	if factor.Direction.AllowsBackward() {
		entries = append(entries, FrontierEntry{
			Vertex:  edge.Base(),
			Weight:  rp.Offset * length * factor.Value,
			ViaEdge: rp.EdgeID,
		})
	}
	return entries, nil
}

// TargetFrontier derives the incoming virtual paths of a resolved point:
// one entry per edge endpoint the profile allows arriving from.
func TargetFrontier(w *Weighting, rp datastructure.RouterPoint) ([]FrontierEntry, error) {
	edge, err := w.Graph().GetEdge(rp.EdgeID)
	if err != nil {
		return nil, err
	}
	factor := w.EdgeFactor(edge)
	if !factor.Traversable() {
		return nil, nil
	}

	length := edge.DistanceMeters()
	entries := make([]FrontierEntry, 0, 2)
	if factor.Direction.AllowsForward() {
		// arriving over base -> offset
		entries = append(entries, FrontierEntry{
			Vertex:  edge.Base(),
			Weight:  rp.Offset * length * factor.Value,
			ViaEdge: rp.EdgeID,
		})
	}
	if factor.Direction.AllowsBackward() {
		// arriving over adj -> offset
		entries = append(entries, FrontierEntry{
			Vertex:  edge.Adj(),
			Weight:  (1 - rp.Offset) * length * factor.Value,
			ViaEdge: rp.EdgeID,
		})
	}
	return entries, nil
}
