package forwarder

import (
	"encoding/binary"

	"github.com/kurkpitaine/veloce-sub004/geonet"
	"golang.org/x/crypto/blake2b"
)

// sequencer is the interface's single monotonically wrapping 16-bit
// sequence number generator, shared by every GN packet type that
// carries one (spec clause 4.4.4).
type sequencer struct {
	next geonet.SequenceNumber
}

func (s *sequencer) nextSeq() geonet.SequenceNumber {
	seq := s.next
	s.next = s.next.Next()
	return seq
}

// AddrConfMethod selects how ego's link-layer address reacts to a
// detected duplicate-address condition.
type AddrConfMethod int

const (
	AddrConfAuto AddrConfMethod = iota
	AddrConfManaged
)

// regenerateAddress derives a new link-layer address from the
// whole-second part of an LPV timestamp, per spec clause 4.4.4's "seed
// = ego PV timestamp seconds". The address is cut from a BLAKE2b hash
// of that seed, so the same whole second always yields the same address.
func regenerateAddress(seedTimestamp geonet.Timestamp) geonet.HardwareAddr {
	var seedBuf [8]byte
	binary.BigEndian.PutUint64(seedBuf[:], uint64(int64(seedTimestamp)/1000))
	sum := blake2b.Sum256(seedBuf[:])

	var mac geonet.HardwareAddr
	copy(mac[:], sum[:6])
	mac[0] &^= 0x01 // clear multicast bit
	mac[0] |= 0x02  // set locally-administered bit
	return mac
}

// duplicateAddressDetection checks whether the sender's link-layer
// address or the packet's source GeoAddress collides with ego, and, if
// address autoconfiguration is enabled, regenerates ego's address.
// Returns the (possibly updated) ego address and whether it changed.
func duplicateAddressDetection(ego geonet.Address, senderMAC geonet.HardwareAddr, source geonet.Address, method AddrConfMethod, seedTimestamp geonet.Timestamp) (geonet.Address, bool) {
	collides := senderMAC == ego.Mac || source.Equal(ego)
	if !collides || method != AddrConfAuto {
		return ego, false
	}
	ego.Mac = regenerateAddress(seedTimestamp)
	return ego, true
}
