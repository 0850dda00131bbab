// Package forwarder implements the GeoNetworking forwarder: the
// per-packet-type ingress and egress procedures, duplicate detection,
// duplicate address detection, and the forwarding buffers that back
// store-carry-forward.
package forwarder

import (
	"time"

	"github.com/kurkpitaine/veloce-sub004/geonet"
	"github.com/kurkpitaine/veloce-sub004/loctable"
	"github.com/kurkpitaine/veloce-sub004/locservice"
	"github.com/kurkpitaine/veloce-sub004/packetbuffer"
	"github.com/kurkpitaine/veloce-sub004/wire"
)

// Config is the enumerated engine configuration (spec clause 6).
type Config struct {
	Version              uint8
	StationType          geonet.StationType
	IsMobile             bool
	DefaultHopLimit      uint8
	DefaultLifetime      geonet.Lifetime
	DefaultTrafficClass  geonet.TrafficClass
	BeaconInterval       time.Duration
	BeaconMaxJitter      time.Duration
	LocTableEntryCount   int
	LocTableEntryLifetime time.Duration
	DupRingLength        int
	LSMaxRetrans         int
	LSRetransmitTimer    time.Duration
	LSBufEntryCount      int
	LSBufBytes           int
	UCBufEntryCount      int
	UCBufBytes           int
	BCBufEntryCount      int
	BCBufBytes           int
	MaxSDUSize           int
	MaxPacketLifetime    time.Duration
	MaxGeoAreaSizeKm2    float64
	AreaForwardingAlgorithm    AreaAlgorithm
	NonAreaForwardingAlgorithm NonAreaAlgorithm
	AddrConfMethod       AddrConfMethod
	CBRTriggerInterval   time.Duration
}

// Validate rejects configurations this engine cannot honor: notably
// any request for CBF forwarding (spec clause 9).
func (c Config) Validate() error {
	return ValidateAlgorithms(c.AreaForwardingAlgorithm, c.NonAreaForwardingAlgorithm)
}

// BufferedUnicast is the metadata the LS and UC buffers store: enough
// of a unicast-shaped packet to patch its destination PV on flush.
type BufferedUnicast struct {
	Basic       wire.BasicHeader
	Common      wire.CommonHeader
	Seq         geonet.SequenceNumber
	Source      geonet.LongPositionVector
	Destination geonet.Address
	Payload     []byte
}

// BufferedBroadcast is what the BC buffer stores: a full packet
// representation, re-emitted verbatim on flush.
type BufferedBroadcast struct {
	Packet  wire.Repr
	Payload []byte
}

// Frame is an outbound link-layer transmission the Forwarder asks the
// caller to send: payload already has all GeoNetworking headers
// encoded, and Destination is the link-layer next hop (Broadcast for
// flooding).
type Frame struct {
	Destination  geonet.HardwareAddr
	Payload      []byte
	AccessCategory geonet.AccessCategory
}

// Indication is delivered for every payload accepted at this station
// (terminal receive), tagged with the transport it arrived over.
type Indication struct {
	Transport         Transport
	Upper             wire.CommonNextHeader
	Source            geonet.Address
	SourcePosition    geonet.LongPositionVector
	RemainingLifetime geonet.Lifetime
	RemainingHopLimit uint8
	TrafficClass      geonet.TrafficClass
	Payload           []byte
}

// Transport identifies which GeoNetworking packet type delivered an Indication.
type Transport int

const (
	TransportUnicast Transport = iota
	TransportSingleHopBroadcast
	TransportTopoBroadcast
	TransportGeoBroadcast
	TransportGeoAnycast
	TransportLocationServiceReply
)

// Position is the minimal read interface the forwarder needs from the
// station's own position source; the interface poll loop supplies a
// concrete implementation (GPSD client, simulator, etc).
type Position interface {
	Ego() geonet.LongPositionVector
}

// Forwarder owns the Location Table, Location Service, the three
// forwarding buffers and the interface-local sequence counter (spec
// clause 3: "Ownership").
type Forwarder struct {
	Config Config

	ego      geonet.Address
	position Position

	Table   *loctable.Table
	LS      *locservice.Service
	LSBuf   *packetbuffer.Buffer[BufferedUnicast]
	UCBuf   *packetbuffer.Buffer[BufferedUnicast]
	BCBuf   *packetbuffer.Buffer[BufferedBroadcast]

	lsHandleOf map[geonet.HardwareAddr]locservice.Handle

	seq sequencer

	// pending holds Frames produced as a side effect of flushing the LS
	// or UC buffer (spec clause 4.3): Ingress and Egress return the
	// Frame tied to the call that triggered them directly, but a buffer
	// flush can release several at once, so they accumulate here for
	// the caller to drain after every poll step.
	pending []Frame
}

// New builds a Forwarder bound to ego's address, reading live position
// from pos, configured per cfg. Callers must check cfg.Validate first.
func New(cfg Config, ego geonet.Address, pos Position) *Forwarder {
	return &Forwarder{
		Config:     cfg,
		ego:        ego,
		position:   pos,
		Table:      loctable.New(cfg.LocTableEntryCount, cfg.LocTableEntryLifetime, cfg.DupRingLength),
		LS:         locservice.New(4, cfg.LSMaxRetrans, cfg.LSRetransmitTimer),
		LSBuf:      packetbuffer.New[BufferedUnicast](cfg.LSBufBytes, cfg.LSBufEntryCount),
		UCBuf:      packetbuffer.New[BufferedUnicast](cfg.UCBufBytes, cfg.UCBufEntryCount),
		BCBuf:      packetbuffer.New[BufferedBroadcast](cfg.BCBufBytes, cfg.BCBufEntryCount),
		lsHandleOf: make(map[geonet.HardwareAddr]locservice.Handle),
	}
}

// Ego returns the forwarder's current link-layer/station address.
func (f *Forwarder) Ego() geonet.Address { return f.ego }

// updateLocationTable merges source's PV, applies duplicate address
// detection against the sender, and returns the resulting entry.
func (f *Forwarder) updateLocationTable(senderMAC geonet.HardwareAddr, source geonet.LongPositionVector, now time.Time) *loctable.Entry {
	newEgo, changed := duplicateAddressDetection(f.ego, senderMAC, source.Address, f.Config.AddrConfMethod, f.position.Ego().Timestamp)
	if changed {
		f.ego = newEgo
	}
	return f.Table.Update(source, now)
}

// flushForSource drains the LS buffer of anything destined to source
// and the UC buffer of anything received from source, emitting each
// through send. This is how a freshly learned PV unblocks queued
// traffic (spec clause 4.3).
func (f *Forwarder) flushForSource(source geonet.Address, now time.Time, send func(BufferedUnicast) bool) {
	f.LSBuf.FlushWith(now, func(bu BufferedUnicast) bool {
		return bu.Destination.Equal(source)
	}, send)
	f.UCBuf.FlushWith(now, func(bu BufferedUnicast) bool {
		return bu.Source.Address.Equal(source)
	}, send)
}

// DrainPending removes and returns every Frame queued by a buffer
// flush since the last call. The interface poll loop calls this once
// per step, after Ingress/Egress/Timers, to pick up any resends.
func (f *Forwarder) DrainPending() []Frame {
	p := f.pending
	f.pending = nil
	return p
}

// packetSize estimates the wire size of a received packet for PDR
// accounting: header lengths plus payload.
func packetSize(headerLen int, payload []byte) int {
	return headerLen + len(payload)
}
