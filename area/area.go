package area

import (
	"math"

	"github.com/kurkpitaine/veloce-sub004/geonet"
)

// Shape is the geometric kind of a geographic area: circle, rectangle
// or ellipse (ETSI EN 302 931).
type Shape int

const (
	ShapeCircle Shape = iota
	ShapeRectangle
	ShapeEllipse
)

// Area is a geographic region: a Shape, its two characteristic
// distances (radius for a circle; half-lengths a/b for a rectangle or
// ellipse), a centre position and an azimuth orientation in radians.
type Area struct {
	Shape     Shape
	Latitude  geonet.Latitude
	Longitude geonet.Longitude
	DistanceA float64 // meters
	DistanceB float64 // meters
	Angle     float64 // radians
}

// geometricFunction evaluates the ETSI EN 302 931 clause 5.2 geometric
// function F(x,y) for the area's shape at a point already expressed in
// the area's own rotated local Cartesian frame.
func (a Area) geometricFunction(x, y float64) float64 {
	switch a.Shape {
	case ShapeCircle:
		if a.DistanceA <= 0 {
			return math.Inf(-1)
		}
		xr, yr := x/a.DistanceA, y/a.DistanceA
		return 1.0 - xr*xr - yr*yr
	case ShapeRectangle:
		if a.DistanceA <= 0 || a.DistanceB <= 0 {
			return math.Inf(-1)
		}
		xr, yr := x/a.DistanceA, y/a.DistanceB
		xOp := 1.0 - xr*xr
		yOp := 1.0 - yr*yr
		return math.Min(xOp, yOp)
	case ShapeEllipse:
		if a.DistanceA <= 0 || a.DistanceB <= 0 {
			return math.Inf(-1)
		}
		xr, yr := x/a.DistanceA, y/a.DistanceB
		return 1.0 - xr*xr - yr*yr
	default:
		return math.Inf(-1)
	}
}

// project places a geodetic point into the area's rotated local
// Cartesian frame, ready for geometricFunction.
func (a Area) project(lat geonet.Latitude, lon geonet.Longitude) (x, y float64) {
	x, y = toCartesian(a.Latitude.Degrees(), a.Longitude.Degrees(), lat.Degrees(), lon.Degrees())
	return rotate(x, y, a.Angle)
}

// Contains reports whether the geodetic point (lat, lon) lies inside
// or on the border of the area: F(x,y) >= 0.
func (a Area) Contains(lat geonet.Latitude, lon geonet.Longitude) bool {
	x, y := a.project(lat, lon)
	return a.geometricFunction(x, y) >= 0
}

// AtBorder reports whether the geodetic point lies exactly on the
// area's border: F(x,y) == 0.
func (a Area) AtBorder(lat geonet.Latitude, lon geonet.Longitude) bool {
	x, y := a.project(lat, lon)
	return a.geometricFunction(x, y) == 0
}
