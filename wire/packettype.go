// Package wire implements the bit-exact ETSI EN 302 636-4-1 GeoNetworking
// wire formats: the Basic and Common headers, the Long/Short Position
// Vectors, the eight extended header shapes, and the Ethernet / 802.11p
// link-layer encapsulations that carry them. Every header follows the
// teacher's open.go/notification.go texture: a struct documented with
// the relevant ETSI clause, a decode function, and a bytes()-style
// encoder — values are always big-endian.
package wire

// NextHeader is the Basic/Common Header "next header" field.
type NextHeader uint8

const (
	NextHeaderAny NextHeader = iota
	NextHeaderBtpA
	NextHeaderBtpB
	NextHeaderIPv6
)

// CommonNextHeader is the Common Header's own next-header sub-field
// (upper protocol carried inside the extended header's payload).
type CommonNextHeader uint8

const (
	CommonNextHeaderAny CommonNextHeader = iota
	CommonNextHeaderBtpA
	CommonNextHeaderBtpB
	CommonNextHeaderIPv6
	// CommonNextHeaderSecured marks a packet whose payload is a secured
	// envelope (spec clause 9: "the security next-header kind is
	// declared but the integration ... is out of scope here"). The
	// forwarder drops every packet carrying this value.
	CommonNextHeaderSecured
)

// PacketType is the Common Header "header type" field: the packet kind
// dispatched on by the forwarder (spec clause 4.4).
type PacketType uint8

const (
	PacketBeacon PacketType = iota
	PacketGeoUnicast
	PacketGeoAnycastCircle
	PacketGeoAnycastRect
	PacketGeoAnycastEllipse
	PacketGeoBroadcastCircle
	PacketGeoBroadcastRect
	PacketGeoBroadcastEllipse
	PacketTopoBroadcast
	PacketSingleHopBroadcast
	PacketLocationServiceRequest
	PacketLocationServiceReply
)

func (t PacketType) String() string {
	switch t {
	case PacketBeacon:
		return "beacon"
	case PacketGeoUnicast:
		return "unicast"
	case PacketGeoAnycastCircle, PacketGeoAnycastRect, PacketGeoAnycastEllipse:
		return "geo-anycast"
	case PacketGeoBroadcastCircle, PacketGeoBroadcastRect, PacketGeoBroadcastEllipse:
		return "geo-broadcast"
	case PacketTopoBroadcast:
		return "topo-scoped-broadcast"
	case PacketSingleHopBroadcast:
		return "single-hop-broadcast"
	case PacketLocationServiceRequest:
		return "ls-request"
	case PacketLocationServiceReply:
		return "ls-reply"
	default:
		return "unknown"
	}
}

// IsAnycast reports whether t is one of the three Geo-Anycast shapes.
func (t PacketType) IsAnycast() bool {
	return t == PacketGeoAnycastCircle || t == PacketGeoAnycastRect || t == PacketGeoAnycastEllipse
}

// IsBroadcast reports whether t is one of the three Geo-Broadcast shapes.
func (t PacketType) IsBroadcast() bool {
	return t == PacketGeoBroadcastCircle || t == PacketGeoBroadcastRect || t == PacketGeoBroadcastEllipse
}

// AreaShape returns the area shape a Geo-Anycast/Broadcast packet type
// carries: 0=circle, 1=rectangle, 2=ellipse.
func (t PacketType) AreaShape() int {
	switch t {
	case PacketGeoAnycastRect, PacketGeoBroadcastRect:
		return 1
	case PacketGeoAnycastEllipse, PacketGeoBroadcastEllipse:
		return 2
	default:
		return 0
	}
}
