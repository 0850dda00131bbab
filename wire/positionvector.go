package wire

// See ETSI EN 302 636-4-1 V1.4.1 clause 9.5 for details about the
// Long/Short Position Vector field layout, ported from
// original_source/src/geonet/wire/geonet/long_position_vector.rs.

import (
	"bytes"

	"github.com/kurkpitaine/veloce-sub004/geonet"
	"github.com/kurkpitaine/veloce-sub004/stream"
)

// LongPositionVectorLen is the fixed length, in bytes, of an LPV.
const LongPositionVectorLen = 24

// ShortPositionVectorLen is the fixed length, in bytes, of an SPV.
const ShortPositionVectorLen = 20

// ParseLongPositionVector decodes an LPV from raw bytes:
//
//	8 bytes  GeoNetworking address
//	4 bytes  timestamp
//	4 bytes  latitude
//	4 bytes  longitude
//	2 bytes  1-bit position accuracy indicator + 15-bit speed
//	2 bytes  heading
func ParseLongPositionVector(raw []byte) (geonet.LongPositionVector, error) {
	if len(raw) < LongPositionVectorLen {
		return geonet.LongPositionVector{}, geonet.ErrTruncated
	}
	buf := bytes.NewBuffer(raw[:LongPositionVectorLen])
	addr := stream.ReadBytes(8, buf)
	ts := stream.ReadUint32(buf)
	lat := stream.ReadInt32(buf)
	lon := stream.ReadInt32(buf)
	paiSpeed := stream.ReadUint16(buf)
	heading := stream.ReadUint16(buf)
	return geonet.LongPositionVector{
		Address:          geonet.FromBytes(addr),
		Timestamp:        geonet.Timestamp(ts),
		Latitude:         geonet.Latitude(lat),
		Longitude:        geonet.Longitude(lon),
		PositionAccurate: paiSpeed&0x8000 != 0,
		Speed:            geonet.Speed(paiSpeed &^ 0x8000),
		Heading:          geonet.Heading(heading),
	}, nil
}

// Bytes serializes lpv into its 24-byte wire representation.
func BytesLongPositionVector(lpv geonet.LongPositionVector) []byte {
	buf := new(bytes.Buffer)
	addr := lpv.Address.Bytes()
	buf.Write(addr[:])
	stream.WriteUint32(buf, uint32(lpv.Timestamp))
	stream.WriteInt32(buf, int32(lpv.Latitude))
	stream.WriteInt32(buf, int32(lpv.Longitude))
	paiSpeed := uint16(lpv.Speed) &^ 0x8000
	if lpv.PositionAccurate {
		paiSpeed |= 0x8000
	}
	stream.WriteUint16(buf, paiSpeed)
	stream.WriteUint16(buf, uint16(lpv.Heading))
	return buf.Bytes()
}

// ParseShortPositionVector decodes an SPV from raw bytes: the GeoAddress,
// timestamp, latitude and longitude fields only.
func ParseShortPositionVector(raw []byte) (geonet.ShortPositionVector, error) {
	if len(raw) < ShortPositionVectorLen {
		return geonet.ShortPositionVector{}, geonet.ErrTruncated
	}
	buf := bytes.NewBuffer(raw[:ShortPositionVectorLen])
	addr := stream.ReadBytes(8, buf)
	ts := stream.ReadUint32(buf)
	lat := stream.ReadInt32(buf)
	lon := stream.ReadInt32(buf)
	return geonet.ShortPositionVector{
		Address:   geonet.FromBytes(addr),
		Timestamp: geonet.Timestamp(ts),
		Latitude:  geonet.Latitude(lat),
		Longitude: geonet.Longitude(lon),
	}, nil
}

// BytesShortPositionVector serializes spv into its 20-byte wire representation.
func BytesShortPositionVector(spv geonet.ShortPositionVector) []byte {
	buf := new(bytes.Buffer)
	addr := spv.Address.Bytes()
	buf.Write(addr[:])
	stream.WriteUint32(buf, uint32(spv.Timestamp))
	stream.WriteInt32(buf, int32(spv.Latitude))
	stream.WriteInt32(buf, int32(spv.Longitude))
	return buf.Bytes()
}
