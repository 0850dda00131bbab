package area

import (
	"math"

	"github.com/kurkpitaine/veloce-sub004/geonet"
)

// meanEarthRadius is the mean Earth radius, in meters, used by the
// forwarder's greedy-neighbour distance comparisons.
const meanEarthRadius = 6_371_008.8

// Distance returns the great-circle (Haversine) distance, in meters,
// between two geodetic points.
//
// The source this engine is modeled on computed delta_lat as
// lat-lat (always zero), which collapses the formula to a
// longitude-only distance. This implementation uses the standard
// Haversine delta_lat = lat_b - lat_a.
func Distance(aLat geonet.Latitude, aLon geonet.Longitude, bLat geonet.Latitude, bLon geonet.Longitude) float64 {
	lat1 := aLat.Degrees() * math.Pi / 180
	lat2 := bLat.Degrees() * math.Pi / 180
	deltaLat := lat2 - lat1
	deltaLon := (bLon.Degrees() - aLon.Degrees()) * math.Pi / 180

	haversine := func(theta float64) float64 {
		s := math.Sin(theta / 2)
		return s * s
	}

	h := haversine(deltaLat) + math.Cos(lat1)*math.Cos(lat2)*haversine(deltaLon)
	return 2 * meanEarthRadius * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
