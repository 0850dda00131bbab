package wire

import (
	"bytes"

	"github.com/kurkpitaine/veloce-sub004/geonet"
	"github.com/kurkpitaine/veloce-sub004/stream"
)

// BTPAHeaderLen is the fixed length, in bytes, of a BTP-A header.
const BTPAHeaderLen = 4

// BTPAHeader is the BTP-A header: a destination and a source port
// (ETSI EN 302 636-5-1 clause 7.2), used for connection-oriented,
// per-socket multiplexing.
type BTPAHeader struct {
	DestinationPort uint16
	SourcePort      uint16
}

// ParseBTPAHeader decodes a BTPAHeader from raw bytes.
func ParseBTPAHeader(raw []byte) (BTPAHeader, error) {
	if len(raw) < BTPAHeaderLen {
		return BTPAHeader{}, geonet.ErrTruncated
	}
	buf := bytes.NewBuffer(raw[:BTPAHeaderLen])
	return BTPAHeader{
		DestinationPort: stream.ReadUint16(buf),
		SourcePort:      stream.ReadUint16(buf),
	}, nil
}

// Bytes serializes h into its 4-byte wire representation.
func (h BTPAHeader) Bytes() []byte {
	buf := new(bytes.Buffer)
	stream.WriteUint16(buf, h.DestinationPort)
	stream.WriteUint16(buf, h.SourcePort)
	return buf.Bytes()
}

// BTPBHeaderLen is the fixed length, in bytes, of a BTP-B header.
const BTPBHeaderLen = 4

// BTPBHeader is the BTP-B header: a destination port and a destination
// port info field (ETSI EN 302 636-5-1 clause 7.3), used for
// connectionless, broadcast-like flows such as CAM/DENM.
type BTPBHeader struct {
	DestinationPort     uint16
	DestinationPortInfo uint16
}

// ParseBTPBHeader decodes a BTPBHeader from raw bytes.
func ParseBTPBHeader(raw []byte) (BTPBHeader, error) {
	if len(raw) < BTPBHeaderLen {
		return BTPBHeader{}, geonet.ErrTruncated
	}
	buf := bytes.NewBuffer(raw[:BTPBHeaderLen])
	return BTPBHeader{
		DestinationPort:     stream.ReadUint16(buf),
		DestinationPortInfo: stream.ReadUint16(buf),
	}, nil
}

// Bytes serializes h into its 4-byte wire representation.
func (h BTPBHeader) Bytes() []byte {
	buf := new(bytes.Buffer)
	stream.WriteUint16(buf, h.DestinationPort)
	stream.WriteUint16(buf, h.DestinationPortInfo)
	return buf.Bytes()
}

// Well-known BTP ports, assigned by convention (spec clause 6).
const (
	PortCAM  uint16 = 2001
	PortDENM uint16 = 2002
)
