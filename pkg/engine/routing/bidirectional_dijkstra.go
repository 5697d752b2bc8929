package routing

import (
	"context"

	"github.com/bagaskara-rp/meridian/pkg"
	"github.com/bagaskara-rp/meridian/pkg/datastructure"
	"github.com/bagaskara-rp/meridian/pkg/util"
)

// PathResult is the engine-level outcome of a point-to-point search: the
// interior geometric edges in traversal order, the entry/exit vertices
// they connect (endpoints of the origin and target edges), and the total
// weight including the frontier partials.
type PathResult struct {
	Edges       []datastructure.PathEdge
	Weight      float64
	EntryVertex int32
	ExitVertex  int32
}

type bidirSide struct {
	queue    *datastructure.MinHeap[int32]
	nodes    map[int32]*datastructure.PriorityQueueNode[int32]
	dist     map[int32]float64
	cameFrom map[int32]cameFromPair
	finished bool
}

func newBidirSide(frontier []FrontierEntry) *bidirSide {
	s := &bidirSide{
		queue:    datastructure.NewFourAryHeap[int32](),
		nodes:    make(map[int32]*datastructure.PriorityQueueNode[int32]),
		dist:     make(map[int32]float64),
		cameFrom: make(map[int32]cameFromPair),
	}
	for _, entry := range frontier {
		if existing, ok := s.dist[entry.Vertex]; ok && existing <= entry.Weight {
			continue
		}
		s.dist[entry.Vertex] = entry.Weight
		s.cameFrom[entry.Vertex] = cameFromPair{edge: -1, prev: -1}
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

func (s *bidirSide) minRank() float64 {
	return s.queue.GetMinrank()
}

func (s *bidirSide) relax(v int32, newDist float64, via cameFromPair) bool {
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

// PlainEngine answers point-to-point queries with a bidirectional
// Dijkstra over the geometric graph.
type PlainEngine struct {
	w *Weighting
}

func NewPlainEngine(w *Weighting) *PlainEngine {
	return &PlainEngine{w: w}
}

// ShortestPath interleaves a forward search from the source frontier and
// a backward search from the target frontier, popping from whichever side
// holds the smaller current min. The best meeting weight mu is updated
// whenever a vertex is reached by both sides; once the sum of the two
// current mins reaches mu the optimum is fixed.
func (e *PlainEngine) ShortestPath(ctx context.Context, source, target []FrontierEntry) (*PathResult, error) {
	forward := newBidirSide(source)
	backward := newBidirSide(target)

	mu := pkg.INF_WEIGHT
	meeting := int32(-1)
	graph := e.w.Graph()

	// a frontier vertex may already be reachable by both sides
	for v, df := range forward.dist {
		if db, ok := backward.dist[v]; ok && df+db < mu {
			mu = df + db
			meeting = v
		}
	}

	for {
		if forward.queue.Size() == 0 || forward.minRank() >= mu {
			forward.finished = true
		}
		if backward.queue.Size() == 0 || backward.minRank() >= mu {
			backward.finished = true
		}
		if forward.finished && backward.finished {
			break
		}
		// both sides still active: any undiscovered meeting costs at
		// least the sum of the two current mins
		if !forward.finished && !backward.finished &&
			forward.minRank()+backward.minRank() >= mu {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, ErrCanceled
		}

		side, other := forward, backward
		direction := SearchForward
		if forward.finished || (!backward.finished && backward.minRank() < forward.minRank()) {
			side, other = backward, forward
			direction = SearchBackward
		}

		node, err := side.queue.ExtractMin()
		if err != nil {
			break
		}
		u := node.GetItem()
		uDist := node.GetRank()

		for _, edgeID := range graph.IncidentEdges(u) {
			edge, gerr := graph.GetEdge(edgeID)
			if gerr != nil {
				continue
			}
			v := edge.Other(u)

			orientationForward := u == edge.Base()
			if direction == SearchBackward {
				orientationForward = !orientationForward
			}
			if !e.w.allowsOrientation(edge, orientationForward) {
				continue
			}

			newDist := uDist + e.w.EdgeWeight(edge)
			if !side.relax(v, newDist, cameFromPair{edge: edgeID, prev: u}) {
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

	edges, entry, exit := joinChains(graph, forward.cameFrom, backward.cameFrom, meeting)
	return &PathResult{Edges: edges, Weight: mu, EntryVertex: entry, ExitVertex: exit}, nil
}

// joinChains concatenates the forward predecessor chain (reversed) with
// the backward chain at the meeting vertex and reports the chain's first
// and last vertices.
func joinChains(graph *datastructure.Graph, cameFromF, cameFromB map[int32]cameFromPair,
	meeting int32) ([]datastructure.PathEdge, int32, int32) {

	fEdges := make([]datastructure.PathEdge, 0)
	v := meeting
	for {
		pair, ok := cameFromF[v]
		if !ok || pair.edge == -1 {
			break
		}
		edge, err := graph.GetEdge(pair.edge)
		if err != nil {
			break
		}
		// traversal pair.prev -> v
		fEdges = append(fEdges, datastructure.PathEdge{EdgeID: pair.edge, Forward: pair.prev == edge.Base()})
		v = pair.prev
	}
	entry := v
	fEdges = util.ReverseG(fEdges)

	bEdges := make([]datastructure.PathEdge, 0)
	v = meeting
	for {
		pair, ok := cameFromB[v]
		if !ok || pair.edge == -1 {
			break
		}
		edge, err := graph.GetEdge(pair.edge)
		if err != nil {
			break
		}
		// traversal v -> pair.prev
		bEdges = append(bEdges, datastructure.PathEdge{EdgeID: pair.edge, Forward: v == edge.Base()})
		v = pair.prev
	}
	exit := v

	// the meeting vertex sits on both chains; drop a duplicated edge once
	if len(fEdges) > 0 && len(bEdges) > 0 && fEdges[len(fEdges)-1].EdgeID == bEdges[0].EdgeID &&
		fEdges[len(fEdges)-1].Forward != bEdges[0].Forward {
		bEdges = bEdges[1:]
	}

	edges := make([]datastructure.PathEdge, 0, len(fEdges)+len(bEdges))
	edges = append(edges, fEdges...)
	edges = append(edges, bEdges...)
	return edges, entry, exit
}
