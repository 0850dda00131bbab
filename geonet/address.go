package geonet

import "fmt"

// HardwareAddr is a 6-byte link-layer (MAC) address. It is a fixed-size
// array, not a slice, so it can be used directly as a map key by the
// Location Table and the DCC per-destination bookkeeping.
type HardwareAddr [6]byte

// Broadcast is the link-layer broadcast address ff:ff:ff:ff:ff:ff.
var Broadcast = HardwareAddr{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}

// IsBroadcast reports whether a is the link-layer broadcast address.
func (a HardwareAddr) IsBroadcast() bool { return a == Broadcast }

func (a HardwareAddr) String() string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", a[0], a[1], a[2], a[3], a[4], a[5])
}

// StationType is the 5-bit ITS-S station type enumeration carried in a
// GeoAddress and in every position vector.
type StationType uint8

// Station types, ETSI TS 102 894-2 ITS-AID station type table, truncated
// to the values this engine distinguishes.
const (
	StationUnknown StationType = iota
	StationPedestrian
	StationCyclist
	StationMoped
	StationMotorcycle
	StationPassengerCar
	StationBus
	StationLightTruck
	StationHeavyTruck
	StationTrailer
	StationSpecialVehicle
	StationTram
	StationRoadSideUnit StationType = 15
)

func (t StationType) String() string {
	switch t {
	case StationPedestrian:
		return "pedestrian"
	case StationCyclist:
		return "cyclist"
	case StationMoped:
		return "moped"
	case StationMotorcycle:
		return "motorcycle"
	case StationPassengerCar:
		return "passengerCar"
	case StationBus:
		return "bus"
	case StationLightTruck:
		return "lightTruck"
	case StationHeavyTruck:
		return "heavyTruck"
	case StationTrailer:
		return "trailer"
	case StationSpecialVehicle:
		return "specialVehicle"
	case StationTram:
		return "tram"
	case StationRoadSideUnit:
		return "roadSideUnit"
	default:
		return "unknown"
	}
}

// Address is the 8-byte GeoNetworking station identifier: a manual
// configuration flag, the 5-bit station type, and the 6-byte link-layer
// address. Two addresses collide iff their link-layer parts are equal.
type Address struct {
	IsManual    bool
	StationType StationType
	Mac         HardwareAddr
}

// FromBytes parses an Address from its 8-byte wire representation.
func FromBytes(b []byte) Address {
	_ = b[7] // bounds check hint
	a := Address{
		IsManual:    b[0]&0x80 != 0,
		StationType: StationType((b[0] >> 2) & 0x1f),
	}
	copy(a.Mac[:], b[2:8])
	return a
}

// Bytes serializes a into its 8-byte wire representation.
func (a Address) Bytes() [8]byte {
	var out [8]byte
	if a.IsManual {
		out[0] |= 0x80
	}
	out[0] |= byte(a.StationType&0x1f) << 2
	copy(out[2:8], a.Mac[:])
	return out
}

// Equal reports whether two addresses collide, i.e. share the same
// link-layer address. Flags and station type are not compared.
func (a Address) Equal(b Address) bool { return a.Mac == b.Mac }

func (a Address) String() string {
	return fmt.Sprintf("%s(manual=%v,type=%s)", a.Mac, a.IsManual, a.StationType)
}
