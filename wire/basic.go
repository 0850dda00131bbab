package wire

import (
	"bytes"

	"github.com/kurkpitaine/veloce-sub004/geonet"
	"github.com/kurkpitaine/veloce-sub004/stream"
)

// BasicHeaderLen is the fixed length, in bytes, of the Basic Header.
const BasicHeaderLen = 4

// BasicHeader is the 4-byte GeoNetworking Basic Header (spec clause 6):
//
//	4 bits  version
//	4 bits  next header
//	8 bits  reserved
//	8 bits  lifetime (6-bit multiplier + 2-bit base)
//	8 bits  remaining hop limit
type BasicHeader struct {
	Version         uint8
	NextHeader      NextHeader
	Lifetime        geonet.Lifetime
	RemainingHopLimit uint8
}

// ParseBasicHeader decodes a BasicHeader from raw bytes. It returns
// ErrTruncated if fewer than BasicHeaderLen bytes are available.
func ParseBasicHeader(raw []byte) (BasicHeader, error) {
	if len(raw) < BasicHeaderLen {
		return BasicHeader{}, geonet.ErrTruncated
	}
	buf := bytes.NewBuffer(raw[:BasicHeaderLen])
	verNh := stream.ReadByte(buf)
	_ = stream.ReadByte(buf) // reserved
	lifetime := stream.ReadByte(buf)
	rhl := stream.ReadByte(buf)
	return BasicHeader{
		Version:           verNh >> 4,
		NextHeader:        NextHeader(verNh & 0x0f),
		Lifetime:          geonet.LifetimeFromByte(lifetime),
		RemainingHopLimit: rhl,
	}, nil
}

// Bytes serializes h into its 4-byte wire representation.
func (h BasicHeader) Bytes() []byte {
	buf := new(bytes.Buffer)
	stream.WriteByte(buf, (h.Version&0x0f)<<4|byte(h.NextHeader)&0x0f)
	stream.WriteByte(buf, 0)
	stream.WriteByte(buf, h.Lifetime.Byte())
	stream.WriteByte(buf, h.RemainingHopLimit)
	return buf.Bytes()
}
