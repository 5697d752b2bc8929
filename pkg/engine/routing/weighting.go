package routing

import (
	"github.com/bagaskara-rp/meridian/pkg/datastructure"
	"github.com/bagaskara-rp/meridian/pkg/profiles"
)

// Weighting evaluates one profile against the graph's edge-profile
// dictionary. Factors are computed once per edge-profile id at
// construction; the dictionary is append-only, so the snapshot stays
// valid for every edge present at graph build time.
type Weighting struct {
	graph   *datastructure.Graph
	profile profiles.Profile
	factors []profiles.Factor
}

func NewWeighting(graph *datastructure.Graph, profile profiles.Profile) *Weighting {
	registry := graph.Registry()
	factors := make([]profiles.Factor, registry.Len())
	for id := range factors {
		attrs, err := registry.Get(uint16(id))
		if err != nil {
			continue
		}
		factors[id] = profile.Factor(attrs)
	}
	return &Weighting{
		graph:   graph,
		profile: profile,
		factors: factors,
	}
}

func (w *Weighting) Profile() profiles.Profile {
	return w.profile
}

func (w *Weighting) Graph() *datastructure.Graph {
	return w.graph
}

// EdgeFactor returns the profile factor of an edge.
func (w *Weighting) EdgeFactor(e datastructure.Edge) profiles.Factor {
	id := int(e.EdgeProfileID())
	if id >= len(w.factors) {
		return profiles.Factor{Value: 0, Direction: profiles.DirectionNone}
	}
	return w.factors[id]
}

// EdgeWeight returns distance x factor for an edge, ignoring direction.
func (w *Weighting) EdgeWeight(e datastructure.Edge) float64 {
	return e.DistanceMeters() * w.EdgeFactor(e).Value
}

// allowsOrientation reports whether the profile permits walking e
// base->adj (forward true) or adj->base (forward false).
func (w *Weighting) allowsOrientation(e datastructure.Edge, forward bool) bool {
	f := w.EdgeFactor(e)
	if !f.Traversable() {
		return false
	}
	if forward {
		return f.Direction.AllowsForward()
	}
	return f.Direction.AllowsBackward()
}
