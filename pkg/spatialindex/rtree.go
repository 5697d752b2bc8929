package spatialindex

import (
	"math"

	"github.com/tidwall/rtree"
	"go.uber.org/zap"

	"github.com/bagaskara-rp/meridian/pkg/datastructure"
)

type Rtree struct {
	tr *rtree.RTreeG[int32]
}

func NewRtree() *Rtree {
	var tr rtree.RTreeG[int32]
	return &Rtree{
		tr: &tr,
	}
}

// Build indexes every geometric edge under the bounding box of its full
// polyline (endpoints plus shape coordinates).
func (rt *Rtree) Build(graph *datastructure.Graph, log *zap.Logger) {
	log.Info("Building R-tree spatial index...", zap.Int("edges", graph.NumEdges()))

	for edgeID := int32(0); edgeID < int32(graph.NumEdges()); edgeID++ {
		polyline, err := graph.EdgePolyline(edgeID)
		if err != nil {
			continue
		}

		minLat, minLon := math.Inf(1), math.Inf(1)
		maxLat, maxLon := math.Inf(-1), math.Inf(-1)
		for _, p := range polyline {
			minLat = math.Min(minLat, p.Lat)
			minLon = math.Min(minLon, p.Lon)
			maxLat = math.Max(maxLat, p.Lat)
			maxLon = math.Max(maxLon, p.Lon)
		}

		rt.tr.Insert([2]float64{minLon, minLat}, [2]float64{maxLon, maxLat}, edgeID)
	}

	log.Info("R-tree spatial index built.")
}

// SearchWithinWindow returns the ids of all edges whose bounding box
// intersects the square window of +-offsetDegree around (qLat, qLon).
func (rt *Rtree) SearchWithinWindow(qLat, qLon, offsetDegree float64) []int32 {
	results := make([]int32, 0, 16)
	rt.tr.Search(
		[2]float64{qLon - offsetDegree, qLat - offsetDegree},
		[2]float64{qLon + offsetDegree, qLat + offsetDegree},
		func(min, max [2]float64, edgeID int32) bool {
			results = append(results, edgeID)
			return true
		})
	return results
}
