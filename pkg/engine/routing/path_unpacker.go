package routing

import (
	"fmt"

	"github.com/bagaskara-rp/meridian/pkg/datastructure"
)

const maxUnpackDepth = 64

// pathUnpacker expands CH shortcut arcs into original geometric edges. A
// shortcut u->v via w is replaced by the two meta-graph arcs u->w and
// w->v; both must exist at strictly lower level than the shortcut's
// endpoints, otherwise the hierarchy is corrupt.
type pathUnpacker struct {
	graph *datastructure.Graph
	ch    *datastructure.CHGraph
}

func newPathUnpacker(graph *datastructure.Graph, ch *datastructure.CHGraph) *pathUnpacker {
	return &pathUnpacker{graph: graph, ch: ch}
}

// unpackArc expands the arc traversed starting at fromVertex into
// geometric path edges in traversal order.
func (pu *pathUnpacker) unpackArc(arcID int32, fromVertex int32, depth int) ([]datastructure.PathEdge, error) {
	if depth > maxUnpackDepth {
		return nil, fmt.Errorf("%w: shortcut nesting exceeds %d", ErrInvariantViolation, maxUnpackDepth)
	}

	arc, err := pu.ch.GetEdge(arcID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvariantViolation, err)
	}
	toVertex := arc.Other(fromVertex)

	if !arc.IsShortcut() {
		geomID := pu.ch.GeometricEdgeID(arcID)
		if geomID < 0 {
			return nil, fmt.Errorf("%w: original ch arc %d has no geometric edge", ErrInvariantViolation, arcID)
		}
		geom, gerr := pu.graph.GetEdge(geomID)
		if gerr != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvariantViolation, gerr)
		}
		return []datastructure.PathEdge{{EdgeID: geomID, Forward: fromVertex == geom.Base()}}, nil
	}

	via := arc.ContractedID()
	if pu.ch.Level(via) >= pu.ch.Level(arc.From()) || pu.ch.Level(via) >= pu.ch.Level(arc.To()) {
		return nil, fmt.Errorf("%w: shortcut %d via %d does not descend in level",
			ErrInvariantViolation, arcID, via)
	}

	firstID, ok := pu.ch.FindTraversableEdge(fromVertex, via)
	if !ok {
		return nil, fmt.Errorf("%w: shortcut %d misses constituent %d->%d",
			ErrInvariantViolation, arcID, fromVertex, via)
	}
	secondID, ok := pu.ch.FindTraversableEdge(via, toVertex)
	if !ok {
		return nil, fmt.Errorf("%w: shortcut %d misses constituent %d->%d",
			ErrInvariantViolation, arcID, via, toVertex)
	}

	first, err := pu.unpackArc(firstID, fromVertex, depth+1)
	if err != nil {
		return nil, err
	}
	second, err := pu.unpackArc(secondID, via, depth+1)
	if err != nil {
		return nil, err
	}
	return append(first, second...), nil
}
