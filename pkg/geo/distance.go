package geo

import (
	"math"

	"github.com/bagaskara-rp/meridian/pkg/util"
)

const earthRadiusM = 6371000.0

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func NewCoordinate(lat, lon float64) Coordinate {
	return Coordinate{
		Lat: lat,
		Lon: lon,
	}
}

// DistanceM returns the great-circle distance between two WGS84 points
// in meters.
func DistanceM(aLat, aLon, bLat, bLon float64) float64 {
	dLat := util.DegreeToRadians(bLat-aLat) / 2
	dLon := util.DegreeToRadians(bLon-aLon) / 2

	sinLat := math.Sin(dLat)
	sinLon := math.Sin(dLon)
	h := sinLat*sinLat +
		math.Cos(util.DegreeToRadians(aLat))*math.Cos(util.DegreeToRadians(bLat))*sinLon*sinLon

	return 2 * earthRadiusM * math.Asin(math.Sqrt(h))
}

// DistanceTo returns the great-circle distance to other in meters.
func (c Coordinate) DistanceTo(other Coordinate) float64 {
	return DistanceM(c.Lat, c.Lon, other.Lat, other.Lon)
}
