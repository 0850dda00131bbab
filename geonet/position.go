package geonet

// Timestamp is a GeoNetworking position-vector generation time, in
// milliseconds, wrapping at 2^32 (ETSI EN 302 636-4-1 clause 9.5.2).
type Timestamp uint32

// halfRange is 2^31, used by the wrap-aware freshness compare.
const halfRange = uint32(1) << 31

// Fresher reports whether t is fresher (more recently generated) than
// other, using the wrap-aware 32-bit compare of spec clause "Freshness
// relation": a is fresher than b iff (a>b && a-b<=H) || (b>a && b-a>H),
// with H = 2^31.
func (t Timestamp) Fresher(other Timestamp) bool {
	a, b := uint32(t), uint32(other)
	if a > b {
		return a-b <= halfRange
	}
	if b > a {
		return b-a > halfRange
	}
	return false
}

// Latitude is a WGS84 latitude stored in tenths of a microdegree, the
// unit the wire format uses. Valid range is +/-900000000 (+/-90 degrees).
type Latitude int32

// Longitude is a WGS84 longitude stored in tenths of a microdegree.
// Valid range is +/-1800000000 (+/-180 degrees).
type Longitude int32

const tenthMicrodegreesPerDegree = 10_000_000

// LatitudeFromDegrees converts a float degree value to the wire unit.
func LatitudeFromDegrees(deg float64) Latitude {
	return Latitude(deg * tenthMicrodegreesPerDegree)
}

// Degrees returns the latitude in floating point degrees.
func (l Latitude) Degrees() float64 { return float64(l) / tenthMicrodegreesPerDegree }

// LongitudeFromDegrees converts a float degree value to the wire unit.
func LongitudeFromDegrees(deg float64) Longitude {
	return Longitude(deg * tenthMicrodegreesPerDegree)
}

// Degrees returns the longitude in floating point degrees.
func (l Longitude) Degrees() float64 { return float64(l) / tenthMicrodegreesPerDegree }

// Valid reports whether l is within the legal WGS84 latitude range.
func (l Latitude) Valid() bool { return l >= -900_000_000 && l <= 900_000_000 }

// Valid reports whether l is within the legal WGS84 longitude range.
func (l Longitude) Valid() bool { return l >= -1_800_000_000 && l <= 1_800_000_000 }

// Speed is a ground speed in centimeters per second, carried in 15 bits
// alongside the position accuracy indicator bit.
type Speed uint16

// MaxSpeed is the largest representable speed (15-bit field).
const MaxSpeed Speed = 0x7fff

// Heading is a heading in tenths of a degree, 0..3599.
type Heading uint16

// LongPositionVector (LPV) is the 24-byte Long Position Vector: a
// station address plus the kinematic fields (spec clause 3).
type LongPositionVector struct {
	Address            Address
	Timestamp          Timestamp
	Latitude           Latitude
	Longitude          Longitude
	PositionAccurate   bool
	Speed              Speed
	Heading            Heading
}

// ShortPositionVector (SPV) omits the kinematic fields: position
// accuracy, speed, and heading.
type ShortPositionVector struct {
	Address   Address
	Timestamp Timestamp
	Latitude  Latitude
	Longitude Longitude
}

// Short discards the kinematic fields of an LPV, producing an SPV. Used
// when GN egress needs a destination position but only has the
// neighbour's full LPV cached in the Location Table.
func (lpv LongPositionVector) Short() ShortPositionVector {
	return ShortPositionVector{
		Address:   lpv.Address,
		Timestamp: lpv.Timestamp,
		Latitude:  lpv.Latitude,
		Longitude: lpv.Longitude,
	}
}

// Fresher reports whether lpv is fresher than other, per the
// timestamp-only freshness relation (spec clause 3/4.1).
func (lpv LongPositionVector) Fresher(other LongPositionVector) bool {
	return lpv.Timestamp.Fresher(other.Timestamp)
}
