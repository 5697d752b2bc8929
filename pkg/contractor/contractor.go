package contractor

import (
	"fmt"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bagaskara-rp/meridian/pkg/datastructure"
	"github.com/bagaskara-rp/meridian/pkg/profiles"
)

// Contractor builds the contraction hierarchy of a graph for one
// profile: vertices are contracted in edge-difference order with lazy
// priority updates, witness searches decide which shortcuts are needed,
// and the result is registered on the graph under the profile name.
type Contractor struct {
	graph   *datastructure.Graph
	profile profiles.Profile
	logger  *zap.Logger
}

func NewContractor(graph *datastructure.Graph, profile profiles.Profile, logger *zap.Logger) *Contractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Contractor{graph: graph, profile: profile, logger: logger}
}

// adjEntry is one directed arc of the mutable overlay built during
// contraction. middle is -1 for original arcs, else the contracted
// vertex; geomEdge maps original arcs to their geometric edge.
type adjEntry struct {
	to       int32
	weight   float64
	middle   int32
	geomEdge int32
}

// BuildAndRegister contracts the whole graph and registers the hierarchy
// under the profile name.
func (c *Contractor) BuildAndRegister() (*datastructure.CHGraph, error) {
	ch, err := c.Build()
	if err != nil {
		return nil, err
	}
	c.graph.RegisterCH(c.profile.Name(), ch)
	return ch, nil
}

func (c *Contractor) Build() (*datastructure.CHGraph, error) {
	n := c.graph.NumVertices()
	ch := datastructure.NewCHGraph(n)
	if n == 0 {
		return ch, nil
	}

	outAdj, inAdj, err := c.directedOverlay()
	if err != nil {
		return nil, err
	}

	contracted := make([]bool, n)
	rank := make([]int32, n)
	depth := make([]int32, n)
	contractedNeighbors := make([]int32, n)

	// initial edge-difference priorities, computed in parallel
	priorities := make([]float64, n)
	g := new(errgroup.Group)
	g.SetLimit(runtime.GOMAXPROCS(0))
	chunk := n/runtime.GOMAXPROCS(0) + 1
	for lo := 0; lo < n; lo += chunk {
		lo := lo
		hi := min(lo+chunk, n)
		g.Go(func() error {
			for v := lo; v < hi; v++ {
				priorities[v] = priority(outAdj, inAdj, int32(v), contracted, contractedNeighbors, depth)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	queue := datastructure.NewBinaryHeap[int32]()
	nodes := make([]*datastructure.PriorityQueueNode[int32], n)
	for v := int32(0); v < int32(n); v++ {
		nodes[v] = datastructure.NewPriorityQueueNode(priorities[v], v, v)
		queue.Insert(nodes[v])
	}

	ws := newWitnessState(n)
	order := int32(0)
	shortcutCount := 0

	c.logger.Info("contracting graph",
		zap.String("profile", c.profile.Name()), zap.Int("vertices", n))

	for queue.Size() > 0 {
		node, qerr := queue.ExtractMin()
		if qerr != nil {
			break
		}
		v := node.GetItem()
		if contracted[v] {
			continue
		}

		// lazy update: reinsert when the priority got stale
		current := priority(outAdj, inAdj, v, contracted, contractedNeighbors, depth)
		if queue.Size() > 0 {
			if top, terr := queue.GetMin(); terr == nil && current > top.GetRank() {
				stale := datastructure.NewPriorityQueueNode(current, v, v)
				nodes[v] = stale
				queue.Insert(stale)
				continue
			}
		}

		shortcuts := findShortcuts(ws, outAdj, inAdj, v, contracted)

		contracted[v] = true
		rank[v] = order
		order++
		shortcutCount += len(shortcuts)

		for _, sc := range shortcuts {
			outAdj[sc.from] = append(outAdj[sc.from],
				adjEntry{to: sc.to, weight: sc.weight, middle: v, geomEdge: -1})
			inAdj[sc.to] = append(inAdj[sc.to],
				adjEntry{to: sc.from, weight: sc.weight, middle: v, geomEdge: -1})
		}

		for _, e := range outAdj[v] {
			if !contracted[e.to] {
				contractedNeighbors[e.to]++
				if depth[v]+1 > depth[e.to] {
					depth[e.to] = depth[v] + 1
				}
			}
		}
		for _, e := range inAdj[v] {
			if !contracted[e.to] {
				contractedNeighbors[e.to]++
				if depth[v]+1 > depth[e.to] {
					depth[e.to] = depth[v] + 1
				}
			}
		}
	}

	c.logger.Info("contraction finished",
		zap.String("profile", c.profile.Name()), zap.Int("shortcuts", shortcutCount))

	for v := int32(0); v < int32(n); v++ {
		ch.SetLevel(v, rank[v])
	}

	// emit every arc of the final overlay; queries filter by level
	for u := int32(0); u < int32(n); u++ {
		for _, e := range outAdj[u] {
			contractedID := datastructure.NoContractedID
			if e.middle >= 0 {
				contractedID = e.middle
			}
			if _, aerr := ch.AddEdge(u, e.to, e.weight, profiles.DirectionForward,
				contractedID, e.geomEdge); aerr != nil {
				return nil, fmt.Errorf("build ch: %w", aerr)
			}
		}
	}

	return ch, nil
}

// directedOverlay expands the undirected geometric edges into the
// directed arcs the profile allows.
func (c *Contractor) directedOverlay() ([][]adjEntry, [][]adjEntry, error) {
	n := c.graph.NumVertices()
	outAdj := make([][]adjEntry, n)
	inAdj := make([][]adjEntry, n)

	for edgeID := int32(0); edgeID < int32(c.graph.NumEdges()); edgeID++ {
		edge, err := c.graph.GetEdge(edgeID)
		if err != nil {
			return nil, nil, err
		}
		attrs, err := c.graph.EdgeAttributes(edgeID)
		if err != nil {
			return nil, nil, err
		}
		factor := c.profile.Factor(attrs)
		if !factor.Traversable() {
			continue
		}
		weight := edge.DistanceMeters() * factor.Value

		if factor.Direction.AllowsForward() {
			outAdj[edge.Base()] = append(outAdj[edge.Base()],
				adjEntry{to: edge.Adj(), weight: weight, middle: -1, geomEdge: edgeID})
			inAdj[edge.Adj()] = append(inAdj[edge.Adj()],
				adjEntry{to: edge.Base(), weight: weight, middle: -1, geomEdge: edgeID})
		}
		if factor.Direction.AllowsBackward() {
			outAdj[edge.Adj()] = append(outAdj[edge.Adj()],
				adjEntry{to: edge.Base(), weight: weight, middle: -1, geomEdge: edgeID})
			inAdj[edge.Base()] = append(inAdj[edge.Base()],
				adjEntry{to: edge.Adj(), weight: weight, middle: -1, geomEdge: edgeID})
		}
	}
	return outAdj, inAdj, nil
}

// priority is the contraction order heuristic: edge difference plus
// bookkeeping terms that spread contraction evenly.
func priority(outAdj, inAdj [][]adjEntry, v int32, contracted []bool,
	contractedNeighbors, depth []int32) float64 {
	activeIn := 0
	for _, e := range inAdj[v] {
		if !contracted[e.to] {
			activeIn++
		}
	}
	activeOut := 0
	for _, e := range outAdj[v] {
		if !contracted[e.to] {
			activeOut++
		}
	}
	edgeDifference := activeIn*activeOut - (activeIn + activeOut)
	return float64(edgeDifference) + 2*float64(contractedNeighbors[v]) + float64(depth[v])
}

type shortcut struct {
	from, to int32
	weight   float64
}

// findShortcuts runs one bounded witness search per incoming neighbor of
// v and keeps a shortcut for every (in, out) pair without a witness path
// at most as cheap.
func findShortcuts(ws *witnessState, outAdj, inAdj [][]adjEntry, v int32,
	contracted []bool) []shortcut {

	incoming := make([]adjEntry, 0, len(inAdj[v]))
	for _, e := range inAdj[v] {
		if !contracted[e.to] {
			incoming = append(incoming, e)
		}
	}
	outgoing := make([]adjEntry, 0, len(outAdj[v]))
	for _, e := range outAdj[v] {
		if !contracted[e.to] {
			outgoing = append(outgoing, e)
		}
	}
	if len(incoming) == 0 || len(outgoing) == 0 {
		return nil
	}

	shortcuts := make([]shortcut, 0)
	for _, in := range incoming {
		maxOut := 0.0
		for _, out := range outgoing {
			if out.to != in.to && out.weight > maxOut {
				maxOut = out.weight
			}
		}
		if maxOut == 0 {
			continue
		}

		witnessSearch(ws, outAdj, in.to, v, in.weight+maxOut, contracted)

		for _, out := range outgoing {
			if out.to == in.to {
				continue
			}
			scWeight := in.weight + out.weight
			if ws.distance(out.to) > scWeight {
				shortcuts = append(shortcuts, shortcut{from: in.to, to: out.to, weight: scWeight})
			}
		}
	}
	return shortcuts
}
