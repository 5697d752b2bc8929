package routing

import (
	"context"
	"errors"

	"github.com/bagaskara-rp/meridian/pkg"
	"github.com/bagaskara-rp/meridian/pkg/datastructure"
)

var (
	ErrRouteNotFound      = errors.New("no route found between the given points")
	ErrCanceled           = errors.New("query canceled")
	ErrInvariantViolation = errors.New("corrupt contraction hierarchy")
	ErrRouteBuild         = errors.New("route could not be built from the edge path")
)

type SearchDirection uint8

const (
	SearchForward SearchDirection = iota
	SearchBackward
)

// FrontierEntry seeds a search: a graph vertex, the weight already spent
// reaching it (the partial edge of a RouterPoint), and the edge the
// partial traversal used (-1 when starting exactly on a vertex).
type FrontierEntry struct {
	Vertex  int32
	Weight  float64
	ViaEdge int32
}

type cameFromPair struct {
	edge int32
	prev int32
}

// searchSpace is the per-query output of a one-directional Dijkstra.
type searchSpace struct {
	dist       map[int32]float64
	settled    map[int32]struct{}
	cameFrom   map[int32]cameFromPair
	maxReached bool
}

func newSearchSpace() *searchSpace {
	return &searchSpace{
		dist:     make(map[int32]float64),
		settled:  make(map[int32]struct{}),
		cameFrom: make(map[int32]cameFromPair),
	}
}

// runDijkstra settles vertices in nondecreasing weight order starting
// from the frontier, over the directed view of the geometric graph that
// the weighting induces. The search stops when the queue drains or the
// smallest unsettled weight exceeds maxWeight (setting maxReached, the
// termination signal of connectivity checks). The context is checked on
// every heap pop.
func runDijkstra(ctx context.Context, w *Weighting, frontier []FrontierEntry,
	direction SearchDirection, maxWeight float64) (*searchSpace, error) {

	ss := newSearchSpace()
	queue := datastructure.NewFourAryHeap[int32]()
	nodes := make(map[int32]*datastructure.PriorityQueueNode[int32])

	for _, entry := range frontier {
		if existing, ok := ss.dist[entry.Vertex]; ok && existing <= entry.Weight {
			continue
		}
		ss.dist[entry.Vertex] = entry.Weight
		ss.cameFrom[entry.Vertex] = cameFromPair{edge: -1, prev: -1}

		if node, ok := nodes[entry.Vertex]; ok {
			queue.DecreaseKey(node, entry.Weight)
		} else {
			node = datastructure.NewPriorityQueueNode(entry.Weight, entry.Vertex, entry.Vertex)
			nodes[entry.Vertex] = node
			queue.Insert(node)
		}
	}

	graph := w.Graph()

	for queue.Size() > 0 {
		if err := ctx.Err(); err != nil {
			return nil, ErrCanceled
		}

		node, err := queue.ExtractMin()
		if err != nil {
			break
		}
		u := node.GetItem()
		uDist := node.GetRank()

		if uDist > maxWeight {
			ss.maxReached = true
			break
		}
		ss.settled[u] = struct{}{}

		for _, edgeID := range graph.IncidentEdges(u) {
			edge, err := graph.GetEdge(edgeID)
			if err != nil {
				continue
			}
			v := edge.Other(u)
			if _, done := ss.settled[v]; done {
				continue
			}

			// orientation of the real traversal along this edge
			orientationForward := u == edge.Base()
			if direction == SearchBackward {
				// backward search walks the route edge v->u
				orientationForward = !orientationForward
			}
			if !w.allowsOrientation(edge, orientationForward) {
				continue
			}

			newDist := uDist + w.EdgeWeight(edge)
			old, seen := ss.dist[v]
			if seen && old <= newDist {
				continue
			}
			ss.dist[v] = newDist
			ss.cameFrom[v] = cameFromPair{edge: edgeID, prev: u}

			if vNode, ok := nodes[v]; ok && vNode.GetPos() >= 0 {
				queue.DecreaseKey(vNode, newDist)
			} else {
				vNode = datastructure.NewPriorityQueueNode(newDist, v, v)
				nodes[v] = vNode
				queue.Insert(vNode)
			}
		}
	}

	return ss, nil
}

// CheckConnectivity runs a forward Dijkstra from the frontier bounded by
// radiusWeight. It reports true iff the search hit the bound, i.e. the
// component around the frontier extends at least radiusWeight in weight
// space.
func CheckConnectivity(ctx context.Context, w *Weighting, frontier []FrontierEntry,
	radiusWeight float64) (bool, error) {
	if radiusWeight >= pkg.INF_WEIGHT {
		return false, nil
	}
	ss, err := runDijkstra(ctx, w, frontier, SearchForward, radiusWeight)
	if err != nil {
		return false, err
	}
	return ss.maxReached, nil
}
