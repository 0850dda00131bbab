package area

import (
	"math"
	"testing"

	"github.com/kurkpitaine/veloce-sub004/geonet"
)

func TestDistanceZero(t *testing.T) {
	lat := geonet.LatitudeFromDegrees(48.271947)
	lon := geonet.LongitudeFromDegrees(-3.614961)
	if d := Distance(lat, lon, lat, lon); d != 0 {
		t.Fatalf("expected 0 distance for identical points, got %v", d)
	}
}

func TestDistanceSymmetric(t *testing.T) {
	aLat := geonet.LatitudeFromDegrees(48.271947)
	aLon := geonet.LongitudeFromDegrees(-3.614961)
	bLat := geonet.LatitudeFromDegrees(48.276434)
	bLon := geonet.LongitudeFromDegrees(-3.5519532)

	ab := Distance(aLat, aLon, bLat, bLon)
	ba := Distance(bLat, bLon, aLat, aLon)
	if math.Abs(ab-ba) > 1e-6 {
		t.Fatalf("distance not symmetric: %v vs %v", ab, ba)
	}
	if ab <= 0 {
		t.Fatalf("expected positive distance between distinct points, got %v", ab)
	}
}

func TestDistanceSensitiveToLatitude(t *testing.T) {
	// Two points sharing a longitude but 1 degree of latitude apart
	// must report a nonzero distance; the delta-lat=0 bug this
	// collapses would return a distance driven by longitude alone.
	aLat := geonet.LatitudeFromDegrees(48.0)
	lon := geonet.LongitudeFromDegrees(-3.6)
	bLat := geonet.LatitudeFromDegrees(49.0)

	d := Distance(aLat, lon, bLat, lon)
	if d < 100_000 {
		t.Fatalf("expected roughly 111km for 1 degree of latitude, got %v", d)
	}
}
