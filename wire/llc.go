package wire

import (
	"bytes"

	"github.com/kurkpitaine/veloce-sub004/geonet"
)

// LLCHeaderLen is the length, in bytes, of an LLC header with a SNAP
// extension: DSAP, SSAP, control, 3-byte vendor, 2-byte protocol.
const LLCHeaderLen = 1 + 1 + 1 + 3 + 2

// LLCSNAPDSAP is the DSAP/SSAP value reserved for SNAP-encapsulated frames.
const LLCSNAPDSAP = 0xaa

// LLCSNAPControl is the type-1 unnumbered-information control value used
// for SNAP frames.
const LLCSNAPControl = 0x03

// LLCHeader is an IEEE 802.2 LLC header with a SNAP extension, used to
// carry GeoNetworking packets over 802.11p radios whose firmware does
// not itself demultiplex on EtherType (ETSI EN 302 636-4-1 clause 9.3,
// ported from original_source/src/geonet/wire/llc.rs).
type LLCHeader struct {
	DSAP          uint8
	SSAP          uint8
	Control       uint8
	SNAPVendor    [3]byte
	SNAPProtocol  EtherType
}

// NewGeonetLLCHeader builds the canonical LLC/SNAP header used to carry
// GeoNetworking payloads: DSAP=SSAP=0xaa, control=0x03, zero vendor ID.
func NewGeonetLLCHeader() LLCHeader {
	return LLCHeader{
		DSAP:         LLCSNAPDSAP,
		SSAP:         LLCSNAPDSAP,
		Control:      LLCSNAPControl,
		SNAPProtocol: EtherTypeGeonet,
	}
}

// ParseLLCHeader decodes an LLCHeader from raw bytes.
func ParseLLCHeader(raw []byte) (LLCHeader, error) {
	if len(raw) < LLCHeaderLen {
		return LLCHeader{}, geonet.ErrTruncated
	}
	var h LLCHeader
	h.DSAP = raw[0]
	h.SSAP = raw[1]
	h.Control = raw[2]
	copy(h.SNAPVendor[:], raw[3:6])
	h.SNAPProtocol = EtherType(uint16(raw[6])<<8 | uint16(raw[7]))
	return h, nil
}

// Bytes serializes h into its 8-byte wire representation.
func (h LLCHeader) Bytes() []byte {
	buf := new(bytes.Buffer)
	buf.WriteByte(h.DSAP)
	buf.WriteByte(h.SSAP)
	buf.WriteByte(h.Control)
	buf.Write(h.SNAPVendor[:])
	buf.WriteByte(byte(h.SNAPProtocol >> 8))
	buf.WriteByte(byte(h.SNAPProtocol))
	return buf.Bytes()
}
