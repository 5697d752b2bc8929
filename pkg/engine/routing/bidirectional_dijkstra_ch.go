package routing

import (
	"context"

	"github.com/bagaskara-rp/meridian/pkg"
	"github.com/bagaskara-rp/meridian/pkg/datastructure"
	"github.com/bagaskara-rp/meridian/pkg/util"
)

// CHEngine answers point-to-point queries over a contraction-hierarchy
// meta-graph: both searches only climb to higher-level vertices, the
// forward side along arcs traversable away from it, the backward side
// along arcs traversable toward it. Shortcut arcs on the winning chains
// are unpacked back into geometric edges.
type CHEngine struct {
	w  *Weighting
	ch *datastructure.CHGraph
}

func NewCHEngine(w *Weighting, ch *datastructure.CHGraph) *CHEngine {
	return &CHEngine{w: w, ch: ch}
}

type chCameFrom struct {
	arc  int32
	prev int32
}

type chSide struct {
	queue    *datastructure.MinHeap[int32]
	nodes    map[int32]*datastructure.PriorityQueueNode[int32]
	dist     map[int32]float64
	cameFrom map[int32]chCameFrom
	finished bool
}

func newCHSide(frontier []FrontierEntry) *chSide {
	s := &chSide{
		queue:    datastructure.NewFourAryHeap[int32](),
		nodes:    make(map[int32]*datastructure.PriorityQueueNode[int32]),
		dist:     make(map[int32]float64),
		cameFrom: make(map[int32]chCameFrom),
	}
	for _, entry := range frontier {
		if existing, ok := s.dist[entry.Vertex]; ok && existing <= entry.Weight {
			continue
		}
		s.dist[entry.Vertex] = entry.Weight
		s.cameFrom[entry.Vertex] = chCameFrom{arc: -1, prev: -1}
		if node, ok := s.nodes[entry.Vertex]; ok {
			s.queue.DecreaseKey(node, entry.Weight)
		} else {
			node = datastructure.NewPriorityQueueNode(entry.Weight, entry.Vertex, entry.Vertex)
			s.nodes[entry.Vertex] = node
			s.queue.Insert(node)
		}
	}
	return s
}

func (s *chSide) relax(v int32, newDist float64, via chCameFrom) bool {
	old, seen := s.dist[v]
	if seen && old <= newDist {
		return false
	}
	s.dist[v] = newDist
	s.cameFrom[v] = via
	if node, ok := s.nodes[v]; ok && node.GetPos() >= 0 {
		s.queue.DecreaseKey(node, newDist)
	} else {
		node = datastructure.NewPriorityQueueNode(newDist, v, v)
		s.nodes[v] = node
		s.queue.Insert(node)
	}
	return true
}

func (e *CHEngine) ShortestPath(ctx context.Context, source, target []FrontierEntry) (*PathResult, error) {
	forward := newCHSide(source)
	backward := newCHSide(target)

	mu := pkg.INF_WEIGHT
	meeting := int32(-1)

	for v, df := range forward.dist {
		if db, ok := backward.dist[v]; ok && df+db < mu {
			mu = df + db
			meeting = v
		}
	}

	// a side is done once its queue drains or its smallest label cannot
	// improve the best candidate path anymore
	for {
		if forward.queue.Size() == 0 || forward.queue.GetMinrank() >= mu {
			forward.finished = true
		}
		if backward.queue.Size() == 0 || backward.queue.GetMinrank() >= mu {
			backward.finished = true
		}
		if forward.finished && backward.finished {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, ErrCanceled
		}

		side, other := forward, backward
		backwardTurn := false
		if forward.finished || (!backward.finished && backward.queue.GetMinrank() < forward.queue.GetMinrank()) {
			side, other = backward, forward
			backwardTurn = true
		}

		node, err := side.queue.ExtractMin()
		if err != nil {
			break
		}
		u := node.GetItem()
		uDist := node.GetRank()

		for _, arcID := range e.ch.IncidentEdges(u) {
			arc, gerr := e.ch.GetEdge(arcID)
			if gerr != nil {
				continue
			}
			v := arc.Other(u)
			if e.ch.Level(v) <= e.ch.Level(u) {
				continue
			}

			if backwardTurn {
				// route traversal v -> u
				if !arc.AllowsTraversal(v) {
					continue
				}
			} else {
				// route traversal u -> v
				if !arc.AllowsTraversal(u) {
					continue
				}
			}

			newDist := uDist + arc.Weight()
			if !side.relax(v, newDist, chCameFrom{arc: arcID, prev: u}) {
				continue
			}
			if otherDist, ok := other.dist[v]; ok && newDist+otherDist < mu {
				mu = newDist + otherDist
				meeting = v
			}
		}
	}

	if meeting == -1 || mu >= pkg.INF_WEIGHT {
		return nil, ErrRouteNotFound
	}

	return e.buildResult(forward, backward, meeting, mu)
}

// buildResult walks the two predecessor chains from the meeting vertex,
// unpacks every arc into geometric edges and concatenates them in
// traversal order.
func (e *CHEngine) buildResult(forward, backward *chSide, meeting int32, mu float64) (*PathResult, error) {
	unpacker := newPathUnpacker(e.w.Graph(), e.ch)

	type hop struct {
		arc  int32
		from int32
	}

	fHops := make([]hop, 0)
	v := meeting
	for {
		pair, ok := forward.cameFrom[v]
		if !ok || pair.arc == -1 {
			break
		}
		// traversal pair.prev -> v
		fHops = append(fHops, hop{arc: pair.arc, from: pair.prev})
		v = pair.prev
	}
	entry := v
	fHops = util.ReverseG(fHops)

	bHops := make([]hop, 0)
	v = meeting
	for {
		pair, ok := backward.cameFrom[v]
		if !ok || pair.arc == -1 {
			break
		}
		// traversal v -> pair.prev
		bHops = append(bHops, hop{arc: pair.arc, from: v})
		v = pair.prev
	}
	exit := v

	fEdges := make([]datastructure.PathEdge, 0, len(fHops))
	for _, h := range fHops {
		unpacked, err := unpacker.unpackArc(h.arc, h.from, 0)
		if err != nil {
			return nil, err
		}
		fEdges = append(fEdges, unpacked...)
	}
	bEdges := make([]datastructure.PathEdge, 0, len(bHops))
	for _, h := range bHops {
		unpacked, err := unpacker.unpackArc(h.arc, h.from, 0)
		if err != nil {
			return nil, err
		}
		bEdges = append(bEdges, unpacked...)
	}

	// the meeting vertex sits on both chains; drop a duplicated edge once
	if len(fEdges) > 0 && len(bEdges) > 0 && fEdges[len(fEdges)-1].EdgeID == bEdges[0].EdgeID &&
		fEdges[len(fEdges)-1].Forward != bEdges[0].Forward {
		bEdges = bEdges[1:]
	}

	edges := make([]datastructure.PathEdge, 0, len(fEdges)+len(bEdges))
	edges = append(edges, fEdges...)
	edges = append(edges, bEdges...)

	return &PathResult{Edges: edges, Weight: mu, EntryVertex: entry, ExitVertex: exit}, nil
}
