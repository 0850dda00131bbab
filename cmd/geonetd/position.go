package main

import (
	"time"

	"github.com/kurkpitaine/veloce-sub004/geonet"
)

// stationaryPosition is the demo daemon's stand-in for a GPSD client
// (spec clause 1's "out of scope: the positioning engine"): it always
// reports the same fixed point, seeded from the configuration file,
// with a fresh timestamp on every call so Location Table freshness
// arbitration still behaves normally against real, moving peers.
type stationaryPosition struct {
	ego  geonet.Address
	lat  geonet.Latitude
	lon  geonet.Longitude
}

func newStationaryPosition(ego geonet.Address, latDeg, lonDeg float64) *stationaryPosition {
	return &stationaryPosition{
		ego: ego,
		lat: geonet.LatitudeFromDegrees(latDeg),
		lon: geonet.LongitudeFromDegrees(lonDeg),
	}
}

// Position implements iface.PositionSource.
func (p *stationaryPosition) Position(now time.Time) geonet.LongPositionVector {
	return geonet.LongPositionVector{
		Address:          p.ego,
		Timestamp:        geonet.Timestamp(now.UnixMilli()),
		Latitude:         p.lat,
		Longitude:        p.lon,
		PositionAccurate: true,
	}
}
