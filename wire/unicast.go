package wire

import (
	"bytes"

	"github.com/kurkpitaine/veloce-sub004/geonet"
	"github.com/kurkpitaine/veloce-sub004/stream"
)

// UnicastHeaderLen is the fixed length, in bytes, of a Unicast or
// Location-Service-Reply extended header.
const UnicastHeaderLen = 2 + 2 + LongPositionVectorLen + ShortPositionVectorLen

// UnicastHeader is the Geo-Unicast / LS-Reply extended header: sequence
// number, 2 reserved bytes, sender's LPV, and destination SPV (spec
// clause 6). Both packet types share this layout; only the Common
// Header's packet type byte distinguishes them.
type UnicastHeader struct {
	SequenceNumber geonet.SequenceNumber
	Source         geonet.LongPositionVector
	Destination    geonet.ShortPositionVector
}

// ParseUnicastHeader decodes a UnicastHeader from raw bytes.
func ParseUnicastHeader(raw []byte) (UnicastHeader, error) {
	if len(raw) < UnicastHeaderLen {
		return UnicastHeader{}, geonet.ErrTruncated
	}
	buf := bytes.NewBuffer(raw[:4])
	seq := stream.ReadUint16(buf)
	_ = stream.ReadUint16(buf) // reserved

	offset := 4
	src, err := ParseLongPositionVector(raw[offset : offset+LongPositionVectorLen])
	if err != nil {
		return UnicastHeader{}, err
	}
	offset += LongPositionVectorLen

	dst, err := ParseShortPositionVector(raw[offset : offset+ShortPositionVectorLen])
	if err != nil {
		return UnicastHeader{}, err
	}

	return UnicastHeader{
		SequenceNumber: geonet.SequenceNumber(seq),
		Source:         src,
		Destination:    dst,
	}, nil
}

// Bytes serializes h into its 48-byte wire representation.
func (h UnicastHeader) Bytes() []byte {
	buf := new(bytes.Buffer)
	stream.WriteUint16(buf, uint16(h.SequenceNumber))
	stream.WriteUint16(buf, 0)
	buf.Write(BytesLongPositionVector(h.Source))
	buf.Write(BytesShortPositionVector(h.Destination))
	return buf.Bytes()
}
