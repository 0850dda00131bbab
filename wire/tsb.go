package wire

import (
	"bytes"

	"github.com/kurkpitaine/veloce-sub004/geonet"
	"github.com/kurkpitaine/veloce-sub004/stream"
)

// TopoBroadcastHeaderLen is the fixed length, in bytes, of a TSB extended header.
const TopoBroadcastHeaderLen = 2 + 2 + LongPositionVectorLen

// TopoBroadcastHeader is the Topologically-Scoped Broadcast extended
// header: sequence number, 2 reserved bytes, and the sender's LPV.
type TopoBroadcastHeader struct {
	SequenceNumber geonet.SequenceNumber
	Source         geonet.LongPositionVector
}

// ParseTopoBroadcastHeader decodes a TopoBroadcastHeader from raw bytes.
func ParseTopoBroadcastHeader(raw []byte) (TopoBroadcastHeader, error) {
	if len(raw) < TopoBroadcastHeaderLen {
		return TopoBroadcastHeader{}, geonet.ErrTruncated
	}
	buf := bytes.NewBuffer(raw[:4])
	seq := stream.ReadUint16(buf)
	_ = stream.ReadUint16(buf) // reserved
	lpv, err := ParseLongPositionVector(raw[4:TopoBroadcastHeaderLen])
	if err != nil {
		return TopoBroadcastHeader{}, err
	}
	return TopoBroadcastHeader{SequenceNumber: geonet.SequenceNumber(seq), Source: lpv}, nil
}

// Bytes serializes h into its 28-byte wire representation.
func (h TopoBroadcastHeader) Bytes() []byte {
	buf := new(bytes.Buffer)
	stream.WriteUint16(buf, uint16(h.SequenceNumber))
	stream.WriteUint16(buf, 0)
	buf.Write(BytesLongPositionVector(h.Source))
	return buf.Bytes()
}
