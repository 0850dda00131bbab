package wire

import "github.com/kurkpitaine/veloce-sub004/geonet"

// Repr is a fully decoded GeoNetworking packet: the Basic Header, the
// Common Header, and one of the eight extended header shapes. Each
// concrete packet struct below implements Repr.
type Repr interface {
	// Type reports the packet type carried in the Common Header.
	Type() PacketType
	// Headers returns the Basic and Common headers shared by every shape.
	Headers() (BasicHeader, CommonHeader)
	// Bytes serializes the full packet (all headers, no payload) to wire bytes.
	Bytes() []byte
	// Len returns the combined length of the basic, common and extended headers.
	Len() int
}

// BeaconPacket is a Beacon: Basic + Common + BeaconHeader, no payload.
type BeaconPacket struct {
	Basic    BasicHeader
	Common   CommonHeader
	Extended BeaconHeader
}

func (p BeaconPacket) Type() PacketType                    { return PacketBeacon }
func (p BeaconPacket) Headers() (BasicHeader, CommonHeader) { return p.Basic, p.Common }
func (p BeaconPacket) Len() int {
	return BasicHeaderLen + CommonHeaderLen + BeaconHeaderLen
}
func (p BeaconPacket) Bytes() []byte {
	return concatBytes(p.Basic.Bytes(), p.Common.Bytes(), p.Extended.Bytes())
}

// UnicastPacket is a Geo-Unicast: Basic + Common + UnicastHeader.
type UnicastPacket struct {
	Basic    BasicHeader
	Common   CommonHeader
	Extended UnicastHeader
}

func (p UnicastPacket) Type() PacketType                    { return PacketGeoUnicast }
func (p UnicastPacket) Headers() (BasicHeader, CommonHeader) { return p.Basic, p.Common }
func (p UnicastPacket) Len() int {
	return BasicHeaderLen + CommonHeaderLen + UnicastHeaderLen
}
func (p UnicastPacket) Bytes() []byte {
	return concatBytes(p.Basic.Bytes(), p.Common.Bytes(), p.Extended.Bytes())
}

// LocationServiceReplyPacket is an LS-Reply. Same on-wire extended
// header shape as UnicastPacket; distinguished only by Common.Type.
type LocationServiceReplyPacket struct {
	Basic    BasicHeader
	Common   CommonHeader
	Extended UnicastHeader
}

func (p LocationServiceReplyPacket) Type() PacketType { return PacketLocationServiceReply }
func (p LocationServiceReplyPacket) Headers() (BasicHeader, CommonHeader) {
	return p.Basic, p.Common
}
func (p LocationServiceReplyPacket) Len() int {
	return BasicHeaderLen + CommonHeaderLen + UnicastHeaderLen
}
func (p LocationServiceReplyPacket) Bytes() []byte {
	return concatBytes(p.Basic.Bytes(), p.Common.Bytes(), p.Extended.Bytes())
}

// AnycastPacket is a Geo-Anycast, over a circle, rectangle or ellipse
// area (the shape is carried in Common.Type, see PacketType.AreaShape).
type AnycastPacket struct {
	Basic    BasicHeader
	Common   CommonHeader
	Extended GeoAreaHeader
}

func (p AnycastPacket) Type() PacketType                    { return p.Common.Type }
func (p AnycastPacket) Headers() (BasicHeader, CommonHeader) { return p.Basic, p.Common }
func (p AnycastPacket) Len() int {
	return BasicHeaderLen + CommonHeaderLen + GeoAreaHeaderLen
}
func (p AnycastPacket) Bytes() []byte {
	return concatBytes(p.Basic.Bytes(), p.Common.Bytes(), p.Extended.Bytes())
}

// BroadcastPacket is a Geo-Broadcast, over a circle, rectangle or
// ellipse area.
type BroadcastPacket struct {
	Basic    BasicHeader
	Common   CommonHeader
	Extended GeoAreaHeader
}

func (p BroadcastPacket) Type() PacketType                    { return p.Common.Type }
func (p BroadcastPacket) Headers() (BasicHeader, CommonHeader) { return p.Basic, p.Common }
func (p BroadcastPacket) Len() int {
	return BasicHeaderLen + CommonHeaderLen + GeoAreaHeaderLen
}
func (p BroadcastPacket) Bytes() []byte {
	return concatBytes(p.Basic.Bytes(), p.Common.Bytes(), p.Extended.Bytes())
}

// SingleHopBroadcastPacket is an SHB: Basic + Common + SingleHopHeader.
type SingleHopBroadcastPacket struct {
	Basic    BasicHeader
	Common   CommonHeader
	Extended SingleHopHeader
}

func (p SingleHopBroadcastPacket) Type() PacketType { return PacketSingleHopBroadcast }
func (p SingleHopBroadcastPacket) Headers() (BasicHeader, CommonHeader) {
	return p.Basic, p.Common
}
func (p SingleHopBroadcastPacket) Len() int {
	return BasicHeaderLen + CommonHeaderLen + SingleHopHeaderLen
}
func (p SingleHopBroadcastPacket) Bytes() []byte {
	return concatBytes(p.Basic.Bytes(), p.Common.Bytes(), p.Extended.Bytes())
}

// TopoBroadcastPacket is a TSB: Basic + Common + TopoBroadcastHeader.
type TopoBroadcastPacket struct {
	Basic    BasicHeader
	Common   CommonHeader
	Extended TopoBroadcastHeader
}

func (p TopoBroadcastPacket) Type() PacketType { return PacketTopoBroadcast }
func (p TopoBroadcastPacket) Headers() (BasicHeader, CommonHeader) {
	return p.Basic, p.Common
}
func (p TopoBroadcastPacket) Len() int {
	return BasicHeaderLen + CommonHeaderLen + TopoBroadcastHeaderLen
}
func (p TopoBroadcastPacket) Bytes() []byte {
	return concatBytes(p.Basic.Bytes(), p.Common.Bytes(), p.Extended.Bytes())
}

// LocationServiceRequestPacket is an LS-Request.
type LocationServiceRequestPacket struct {
	Basic    BasicHeader
	Common   CommonHeader
	Extended LocationServiceRequestHeader
}

func (p LocationServiceRequestPacket) Type() PacketType { return PacketLocationServiceRequest }
func (p LocationServiceRequestPacket) Headers() (BasicHeader, CommonHeader) {
	return p.Basic, p.Common
}
func (p LocationServiceRequestPacket) Len() int {
	return BasicHeaderLen + CommonHeaderLen + LocationServiceRequestHeaderLen
}
func (p LocationServiceRequestPacket) Bytes() []byte {
	return concatBytes(p.Basic.Bytes(), p.Common.Bytes(), p.Extended.Bytes())
}

func concatBytes(parts ...[]byte) []byte {
	total := 0
	for _, p := range parts {
		total += len(p)
	}
	out := make([]byte, 0, total)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// ParseRepr decodes a full GeoNetworking packet (Basic + Common +
// extended header) from raw bytes, dispatching on the Common Header's
// packet type. The returned Repr's concrete type matches the packet
// type; payload bytes (if any) are not consumed and can be found at
// raw[repr.Len():].
func ParseRepr(raw []byte) (Repr, error) {
	basic, err := ParseBasicHeader(raw)
	if err != nil {
		return nil, err
	}
	common, err := ParseCommonHeader(raw[BasicHeaderLen:])
	if err != nil {
		return nil, err
	}
	ext := raw[BasicHeaderLen+CommonHeaderLen:]

	switch common.Type {
	case PacketBeacon:
		h, err := ParseBeaconHeader(ext)
		if err != nil {
			return nil, err
		}
		return BeaconPacket{Basic: basic, Common: common, Extended: h}, nil
	case PacketGeoUnicast:
		h, err := ParseUnicastHeader(ext)
		if err != nil {
			return nil, err
		}
		return UnicastPacket{Basic: basic, Common: common, Extended: h}, nil
	case PacketLocationServiceReply:
		h, err := ParseUnicastHeader(ext)
		if err != nil {
			return nil, err
		}
		return LocationServiceReplyPacket{Basic: basic, Common: common, Extended: h}, nil
	case PacketGeoAnycastCircle, PacketGeoAnycastRect, PacketGeoAnycastEllipse:
		h, err := ParseGeoAreaHeader(ext)
		if err != nil {
			return nil, err
		}
		return AnycastPacket{Basic: basic, Common: common, Extended: h}, nil
	case PacketGeoBroadcastCircle, PacketGeoBroadcastRect, PacketGeoBroadcastEllipse:
		h, err := ParseGeoAreaHeader(ext)
		if err != nil {
			return nil, err
		}
		return BroadcastPacket{Basic: basic, Common: common, Extended: h}, nil
	case PacketSingleHopBroadcast:
		h, err := ParseSingleHopHeader(ext)
		if err != nil {
			return nil, err
		}
		return SingleHopBroadcastPacket{Basic: basic, Common: common, Extended: h}, nil
	case PacketTopoBroadcast:
		h, err := ParseTopoBroadcastHeader(ext)
		if err != nil {
			return nil, err
		}
		return TopoBroadcastPacket{Basic: basic, Common: common, Extended: h}, nil
	case PacketLocationServiceRequest:
		h, err := ParseLocationServiceRequestHeader(ext)
		if err != nil {
			return nil, err
		}
		return LocationServiceRequestPacket{Basic: basic, Common: common, Extended: h}, nil
	default:
		return nil, geonet.ErrUnrecognized
	}
}
