package wire

import (
	"bytes"

	"github.com/kurkpitaine/veloce-sub004/geonet"
	"github.com/kurkpitaine/veloce-sub004/stream"
)

// CommonHeaderLen is the fixed length, in bytes, of the Common Header.
const CommonHeaderLen = 8

// CommonHeader is the 8-byte GeoNetworking Common Header (spec clause 6):
//
//	4 bits  next header
//	4 bits  reserved
//	8 bits  header type (packet kind)
//	8 bits  traffic class
//	8 bits  flags (mobility bit)
//	16 bits payload length
//	8 bits  max hop limit
//	8 bits  reserved
type CommonHeader struct {
	NextHeader     CommonNextHeader
	Type           PacketType
	TrafficClass   geonet.TrafficClass
	IsMobile       bool
	PayloadLength  uint16
	MaxHopLimit    uint8
}

// ParseCommonHeader decodes a CommonHeader from raw bytes.
func ParseCommonHeader(raw []byte) (CommonHeader, error) {
	if len(raw) < CommonHeaderLen {
		return CommonHeader{}, geonet.ErrTruncated
	}
	buf := bytes.NewBuffer(raw[:CommonHeaderLen])
	nh := stream.ReadByte(buf)
	typ := stream.ReadByte(buf)
	tc := stream.ReadByte(buf)
	flags := stream.ReadByte(buf)
	payloadLen := stream.ReadUint16(buf)
	mhl := stream.ReadByte(buf)
	_ = stream.ReadByte(buf) // reserved
	return CommonHeader{
		NextHeader:    CommonNextHeader(nh >> 4),
		Type:          PacketType(typ),
		TrafficClass:  geonet.TrafficClassFromByte(tc),
		IsMobile:      flags&0x80 != 0,
		PayloadLength: payloadLen,
		MaxHopLimit:   mhl,
	}, nil
}

// Bytes serializes h into its 8-byte wire representation.
func (h CommonHeader) Bytes() []byte {
	buf := new(bytes.Buffer)
	stream.WriteByte(buf, (byte(h.NextHeader)&0x0f)<<4)
	stream.WriteByte(buf, byte(h.Type))
	stream.WriteByte(buf, h.TrafficClass.Byte())
	var flags byte
	if h.IsMobile {
		flags |= 0x80
	}
	stream.WriteByte(buf, flags)
	stream.WriteUint16(buf, h.PayloadLength)
	stream.WriteByte(buf, h.MaxHopLimit)
	stream.WriteByte(buf, 0)
	return buf.Bytes()
}
