package wire

import (
	"bytes"

	"github.com/kurkpitaine/veloce-sub004/geonet"
	"github.com/kurkpitaine/veloce-sub004/stream"
)

// GeoAreaHeaderLen is the fixed length, in bytes, of a Geo-Anycast or
// Geo-Broadcast extended header, shared across the circle, rectangle
// and ellipse area shapes (the shape itself lives in the Common
// Header's packet type, not in this struct).
const GeoAreaHeaderLen = 2 + 2 + LongPositionVectorLen + 4 + 4 + 2 + 2 + 2 + 2

// GeoAreaHeader is the Geo-Anycast / Geo-Broadcast extended header:
// sequence number, 2 reserved bytes, sender's LPV, area centre
// latitude/longitude, distances a and b, angle, and 2 reserved bytes
// (ETSI EN 302 636-4-1 clause 9.8.5/9.8.6).
type GeoAreaHeader struct {
	SequenceNumber geonet.SequenceNumber
	Source         geonet.LongPositionVector
	Latitude       geonet.Latitude
	Longitude      geonet.Longitude
	DistanceA      uint16
	DistanceB      uint16
	Angle          uint16
}

// ParseGeoAreaHeader decodes a GeoAreaHeader from raw bytes.
func ParseGeoAreaHeader(raw []byte) (GeoAreaHeader, error) {
	if len(raw) < GeoAreaHeaderLen {
		return GeoAreaHeader{}, geonet.ErrTruncated
	}

	head := bytes.NewBuffer(raw[:4])
	seq := stream.ReadUint16(head)
	_ = stream.ReadUint16(head) // reserved

	offset := 4
	src, err := ParseLongPositionVector(raw[offset : offset+LongPositionVectorLen])
	if err != nil {
		return GeoAreaHeader{}, err
	}
	offset += LongPositionVectorLen

	tail := bytes.NewBuffer(raw[offset:GeoAreaHeaderLen])
	lat := stream.ReadInt32(tail)
	lon := stream.ReadInt32(tail)
	distA := stream.ReadUint16(tail)
	distB := stream.ReadUint16(tail)
	angle := stream.ReadUint16(tail)
	_ = stream.ReadUint16(tail) // reserved

	return GeoAreaHeader{
		SequenceNumber: geonet.SequenceNumber(seq),
		Source:         src,
		Latitude:       geonet.Latitude(lat),
		Longitude:      geonet.Longitude(lon),
		DistanceA:      distA,
		DistanceB:      distB,
		Angle:          angle,
	}, nil
}

// Bytes serializes h into its 44-byte wire representation.
func (h GeoAreaHeader) Bytes() []byte {
	buf := new(bytes.Buffer)
	stream.WriteUint16(buf, uint16(h.SequenceNumber))
	stream.WriteUint16(buf, 0)
	buf.Write(BytesLongPositionVector(h.Source))
	stream.WriteInt32(buf, int32(h.Latitude))
	stream.WriteInt32(buf, int32(h.Longitude))
	stream.WriteUint16(buf, h.DistanceA)
	stream.WriteUint16(buf, h.DistanceB)
	stream.WriteUint16(buf, h.Angle)
	stream.WriteUint16(buf, 0)
	return buf.Bytes()
}
