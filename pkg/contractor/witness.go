package contractor

import (
	"github.com/bagaskara-rp/meridian/pkg"
	"github.com/bagaskara-rp/meridian/pkg/datastructure"
)

const (
	maxWitnessSettled = 500
	maxWitnessHops    = 16
)

// witnessState is the reusable local-search scratch: a distance array
// with a touched list for cheap resets between searches.
type witnessState struct {
	dist    []float64
	hops    []int32
	touched []int32
}

func newWitnessState(numVertices int) *witnessState {
	dist := make([]float64, numVertices)
	for i := range dist {
		dist[i] = pkg.INF_WEIGHT
	}
	return &witnessState{
		dist: dist,
		hops: make([]int32, numVertices),
	}
}

func (ws *witnessState) reset() {
	for _, v := range ws.touched {
		ws.dist[v] = pkg.INF_WEIGHT
		ws.hops[v] = 0
	}
	ws.touched = ws.touched[:0]
}

func (ws *witnessState) distance(v int32) float64 {
	return ws.dist[v]
}

func (ws *witnessState) update(v int32, dist float64, hops int32) {
	if ws.dist[v] == pkg.INF_WEIGHT {
		ws.touched = append(ws.touched, v)
	}
	ws.dist[v] = dist
	ws.hops[v] = hops
}

// witnessSearch runs one bounded Dijkstra from source that skips the
// vertex being contracted. Distances stay valid in ws until the next
// call.
func witnessSearch(ws *witnessState, outAdj [][]adjEntry, source, excluded int32,
	maxWeight float64, contracted []bool) {
	ws.reset()

	ws.update(source, 0, 0)

	queue := datastructure.NewBinaryHeap[int32]()
	queue.Insert(datastructure.NewPriorityQueueNode(0, source, source))

	settled := 0
	for queue.Size() > 0 {
		node, err := queue.ExtractMin()
		if err != nil {
			break
		}
		u := node.GetItem()
		uDist := node.GetRank()

		if uDist > ws.dist[u] {
			continue
		}

		settled++
		if settled >= maxWitnessSettled || uDist > maxWeight {
			break
		}
		if ws.hops[u] >= maxWitnessHops {
			continue
		}

		for _, e := range outAdj[u] {
			if e.to == excluded || contracted[e.to] {
				continue
			}
			newDist := uDist + e.weight
			if newDist > maxWeight || newDist >= ws.dist[e.to] {
				continue
			}
			ws.update(e.to, newDist, ws.hops[u]+1)
			queue.Insert(datastructure.NewPriorityQueueNode(newDist, e.to, e.to))
		}
	}
}
