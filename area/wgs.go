// Package area implements the ETSI EN 302 931 geographic area
// primitives used by geo-broadcast and geo-anycast forwarding: WGS84
// geocentric/local-Cartesian projection, the Circle/Rectangle/Ellipse
// geometric functions, and area membership testing.
package area

import "math"

// wgs84EquatorialRadius is the WGS84 ellipsoid semi-major axis, in meters.
const wgs84EquatorialRadius = 6_378_137.0

// wgs84InverseFlattening is the WGS84 ellipsoid inverse flattening.
const wgs84InverseFlattening = 298.257223563

// geocentric projects geodetic (lat, lon) in degrees to ECEF Cartesian
// coordinates, plus the rotation matrix used to build a local tangent
// frame at that point (ported from original_source's Geocentric).
type geocentric struct {
	a, eSq, eSqM float64
}

func newGeocentricWGS84() geocentric {
	f := 1.0 / wgs84InverseFlattening
	eSq := f * (2.0 - f)
	eSqM := (1.0 - f) * (1.0 - f)
	return geocentric{a: wgs84EquatorialRadius, eSq: eSq, eSqM: eSqM}
}

type ecef struct{ x, y, z float64 }

// forward converts geodetic lat/lon (degrees) and altitude (meters) to
// ECEF coordinates, and, if rot is non-nil, fills it with the local
// ENU-like rotation basis at that point.
func (g geocentric) forward(latDeg, lonDeg, alt float64, rot *[9]float64) ecef {
	lat := latDeg * math.Pi / 180
	lon := lonDeg * math.Pi / 180
	sinPhi, cosPhi := math.Sincos(lat)
	sinLambda, cosLambda := math.Sincos(lon)

	n := g.a / math.Sqrt(1.0-g.eSq*sinPhi*sinPhi)
	x := (n + alt) * cosPhi
	y := x * sinLambda
	z := (g.eSqM*n + alt) * sinPhi

	if rot != nil {
		rot[0] = -sinLambda
		rot[1] = -cosLambda * sinPhi
		rot[2] = cosLambda * cosPhi
		rot[3] = cosLambda
		rot[4] = -sinLambda * sinPhi
		rot[5] = sinLambda * cosPhi
		rot[6] = 0
		rot[7] = cosPhi
		rot[8] = sinPhi
	}

	return ecef{x: x * cosLambda, y: y, z: z}
}

// localCartesian projects geodetic points into a tangent-plane frame
// centred at an origin point.
type localCartesian struct {
	proj      geocentric
	originECEF ecef
	rot       [9]float64
}

func newLocalCartesian(originLatDeg, originLonDeg float64) localCartesian {
	proj := newGeocentricWGS84()
	var rot [9]float64
	origin := proj.forward(originLatDeg, originLonDeg, 0, &rot)
	return localCartesian{proj: proj, originECEF: origin, rot: rot}
}

// forward projects a geodetic point (degrees) into this frame's local
// x/y Cartesian coordinates, in meters.
func (l localCartesian) forward(latDeg, lonDeg float64) (x, y float64) {
	p := l.proj.forward(latDeg, lonDeg, 0, nil)
	dx := p.x - l.originECEF.x
	dy := p.y - l.originECEF.y
	dz := p.z - l.originECEF.z

	x = l.rot[0]*dx + l.rot[3]*dy + l.rot[6]*dz
	y = l.rot[1]*dx + l.rot[4]*dy + l.rot[7]*dz
	return x, y
}

// toCartesian converts position into the local Cartesian frame centred
// at origin, both given as (latitude, longitude) in degrees.
func toCartesian(originLat, originLon, lat, lon float64) (x, y float64) {
	return newLocalCartesian(originLat, originLon).forward(lat, lon)
}

// rotate rotates a local Cartesian point by the area's azimuth, per the
// spec's "rotate by pi/2 - theta" convention (zenith angle).
func rotate(x, y, azimuthRad float64) (rx, ry float64) {
	zenith := math.Pi/2 - azimuthRad
	sinZ, cosZ := math.Sincos(zenith)
	rx = cosZ*x + sinZ*y
	ry = -sinZ*x + cosZ*y
	return rx, ry
}
