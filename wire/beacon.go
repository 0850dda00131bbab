package wire

import "github.com/kurkpitaine/veloce-sub004/geonet"

// BeaconHeaderLen is the fixed length, in bytes, of a Beacon extended header.
const BeaconHeaderLen = LongPositionVectorLen

// BeaconHeader carries only the sender's Long Position Vector (spec clause 6).
type BeaconHeader struct {
	Source geonet.LongPositionVector
}

// ParseBeaconHeader decodes a BeaconHeader from raw bytes.
func ParseBeaconHeader(raw []byte) (BeaconHeader, error) {
	lpv, err := ParseLongPositionVector(raw)
	if err != nil {
		return BeaconHeader{}, err
	}
	return BeaconHeader{Source: lpv}, nil
}

// Bytes serializes h into its 24-byte wire representation.
func (h BeaconHeader) Bytes() []byte {
	return BytesLongPositionVector(h.Source)
}
