package wire

import (
	"bytes"

	"github.com/kurkpitaine/veloce-sub004/geonet"
	"github.com/kurkpitaine/veloce-sub004/stream"
)

// SingleHopHeaderLen is the fixed length, in bytes, of an SHB extended header.
const SingleHopHeaderLen = LongPositionVectorLen + 4

// SingleHopHeader is the Single-Hop Broadcast extended header: the
// sender's LPV plus 4 reserved bytes (spec clause 6).
type SingleHopHeader struct {
	Source geonet.LongPositionVector
}

// ParseSingleHopHeader decodes a SingleHopHeader from raw bytes.
func ParseSingleHopHeader(raw []byte) (SingleHopHeader, error) {
	if len(raw) < SingleHopHeaderLen {
		return SingleHopHeader{}, geonet.ErrTruncated
	}
	lpv, err := ParseLongPositionVector(raw[:LongPositionVectorLen])
	if err != nil {
		return SingleHopHeader{}, err
	}
	return SingleHopHeader{Source: lpv}, nil
}

// Bytes serializes h into its 28-byte wire representation.
func (h SingleHopHeader) Bytes() []byte {
	buf := bytes.NewBuffer(BytesLongPositionVector(h.Source))
	stream.WriteUint32(buf, 0)
	return buf.Bytes()
}
