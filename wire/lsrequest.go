package wire

import (
	"bytes"

	"github.com/kurkpitaine/veloce-sub004/geonet"
	"github.com/kurkpitaine/veloce-sub004/stream"
)

// LocationServiceRequestHeaderLen is the fixed length, in bytes, of an
// LS-Request extended header.
const LocationServiceRequestHeaderLen = 2 + 2 + LongPositionVectorLen + 8

// LocationServiceRequestHeader is the Location Service Request extended
// header: sequence number, 2 reserved bytes, requester's LPV, and the
// 8-byte GeoNetworking address being resolved (spec clause 6).
type LocationServiceRequestHeader struct {
	SequenceNumber  geonet.SequenceNumber
	Source          geonet.LongPositionVector
	RequestedAddress geonet.Address
}

// ParseLocationServiceRequestHeader decodes the header from raw bytes.
func ParseLocationServiceRequestHeader(raw []byte) (LocationServiceRequestHeader, error) {
	if len(raw) < LocationServiceRequestHeaderLen {
		return LocationServiceRequestHeader{}, geonet.ErrTruncated
	}

	head := bytes.NewBuffer(raw[:4])
	seq := stream.ReadUint16(head)
	_ = stream.ReadUint16(head) // reserved

	offset := 4
	src, err := ParseLongPositionVector(raw[offset : offset+LongPositionVectorLen])
	if err != nil {
		return LocationServiceRequestHeader{}, err
	}
	offset += LongPositionVectorLen

	addr := geonet.FromBytes(raw[offset : offset+8])

	return LocationServiceRequestHeader{
		SequenceNumber:   geonet.SequenceNumber(seq),
		Source:           src,
		RequestedAddress: addr,
	}, nil
}

// Bytes serializes h into its 36-byte wire representation.
func (h LocationServiceRequestHeader) Bytes() []byte {
	buf := new(bytes.Buffer)
	stream.WriteUint16(buf, uint16(h.SequenceNumber))
	stream.WriteUint16(buf, 0)
	buf.Write(BytesLongPositionVector(h.Source))
	addr := h.RequestedAddress.Bytes()
	buf.Write(addr[:])
	return buf.Bytes()
}
