package wire

import (
	"bytes"
	"fmt"

	"github.com/kurkpitaine/veloce-sub004/geonet"
	"github.com/kurkpitaine/veloce-sub004/stream"
)

// EtherType identifies the payload carried by an Ethernet II frame.
type EtherType uint16

const (
	// EtherTypeGeonet is the EtherType assigned to GeoNetworking payloads.
	EtherTypeGeonet EtherType = 0x8947
	// EtherTypeWSMP is the EtherType used by WAVE Short Message Protocol.
	EtherTypeWSMP EtherType = 0x88dc
)

func (e EtherType) String() string {
	switch e {
	case EtherTypeGeonet:
		return "Geonet"
	case EtherTypeWSMP:
		return "WSMP"
	default:
		return fmt.Sprintf("0x%04x", uint16(e))
	}
}

// EthernetHeaderLen is the length, in bytes, of an Ethernet II header
// (destination, source, ethertype), excluding payload.
const EthernetHeaderLen = 6 + 6 + 2

// EthernetHeader is a high-level representation of an Ethernet II frame
// header, used to encapsulate GeoNetworking packets on link layers that
// require it (spec clause 4.7 interface poll loop).
type EthernetHeader struct {
	Destination geonet.HardwareAddr
	Source      geonet.HardwareAddr
	EtherType   EtherType
}

// ParseEthernetHeader decodes an EthernetHeader from raw bytes.
func ParseEthernetHeader(raw []byte) (EthernetHeader, error) {
	if len(raw) < EthernetHeaderLen {
		return EthernetHeader{}, geonet.ErrTruncated
	}
	buf := bytes.NewBuffer(raw[:EthernetHeaderLen])
	dst := stream.ReadBytes(6, buf)
	src := stream.ReadBytes(6, buf)
	et := stream.ReadUint16(buf)

	var h EthernetHeader
	copy(h.Destination[:], dst)
	copy(h.Source[:], src)
	h.EtherType = EtherType(et)
	return h, nil
}

// Bytes serializes h into its 14-byte wire representation.
func (h EthernetHeader) Bytes() []byte {
	buf := new(bytes.Buffer)
	buf.Write(h.Destination[:])
	buf.Write(h.Source[:])
	stream.WriteUint16(buf, uint16(h.EtherType))
	return buf.Bytes()
}
