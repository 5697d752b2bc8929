package datastructure

import (
	"math"

	"github.com/bagaskara-rp/meridian/pkg"
	"github.com/bagaskara-rp/meridian/pkg/profiles"
)

// Geometric edge data word: one uint32 with the edge distance (0.1 m
// resolution) in the high 16 bits and the edge-profile id in the low 16
// bits. Distances beyond MAX_ENCODED_DISTANCE_M clamp to the maximum.

func PackEdgeData(distanceMeters float64, edgeProfileID uint16) uint32 {
	if distanceMeters < 0 {
		distanceMeters = 0
	}
	if distanceMeters > pkg.MAX_ENCODED_DISTANCE_M {
		distanceMeters = pkg.MAX_ENCODED_DISTANCE_M
	}
	scaled := uint32(math.Round(distanceMeters / pkg.DISTANCE_RESOLUTION_M))
	return scaled<<16 | uint32(edgeProfileID)
}

func UnpackEdgeData(word uint32) (distanceMeters float64, edgeProfileID uint16) {
	scaled := word >> 16
	return float64(scaled) * pkg.DISTANCE_RESOLUTION_M, uint16(word & 0xFFFF)
}

// CH edge data packs (weight, direction, contracted vertex id) into two
// uint32 words: the first holds the float32 weight bits, the second the
// direction in the top 2 bits and the contracted id in the low 30 bits.
// NoContractedID marks an original (non-shortcut) edge.

const (
	NoContractedID     = int32(-1)
	contractedSentinel = uint32(1<<30 - 1)
	MaxContractedID    = int32(contractedSentinel) - 1
)

func PackCHEdgeData(weight float32, direction profiles.Direction, contractedID int32) (uint32, uint32) {
	var idBits uint32
	if contractedID == NoContractedID {
		idBits = contractedSentinel
	} else {
		idBits = uint32(contractedID)
	}
	return math.Float32bits(weight), uint32(direction)<<30 | idBits
}

func UnpackCHEdgeData(wordA, wordB uint32) (weight float32, direction profiles.Direction, contractedID int32) {
	weight = math.Float32frombits(wordA)
	direction = profiles.Direction(wordB >> 30)
	idBits := wordB & contractedSentinel
	if idBits == contractedSentinel {
		return weight, direction, NoContractedID
	}
	return weight, direction, int32(idBits)
}
