// Package btp implements the Basic Transport Protocol (ETSI EN 302
// 636-5-1): BTP-A and BTP-B multiplexing on top of a GeoNetworking
// service. A Multiplexer owns a set of Sockets keyed by destination
// port; it is driven from the interface poll loop (single-owner, no
// goroutines), mirroring the teacher's queue.Queue FIFO texture.
package btp

import (
	"github.com/kurkpitaine/veloce-sub004/geonet"
	"github.com/kurkpitaine/veloce-sub004/wire"
)

// Well-known ports, re-exported for callers that don't want to import wire.
const (
	PortCAM  = wire.PortCAM
	PortDENM = wire.PortDENM
)

// Variant distinguishes BTP-A (connection-style, source port present)
// from BTP-B (connectionless, destination port info instead).
type Variant uint8

const (
	// VariantA is BTP-A: (dst_port, src_port).
	VariantA Variant = iota
	// VariantB is BTP-B: (dst_port, dst_port_info).
	VariantB
)

// Indication is the data handed up to a socket on packet reception: the
// GeoNetworking indication fields plus the BTP port info (spec clause 4.5).
type Indication struct {
	Source        geonet.Address
	SourcePosition geonet.LongPositionVector
	RemainingLifetime uint32
	RemainingHopLimit uint8
	TrafficClass  geonet.TrafficClass
	DestinationPortInfo uint16
}

// Datagram is a received payload queued on a socket, along with the
// indication describing how it arrived.
type Datagram struct {
	Indication Indication
	Payload    []byte
}

// Request carries the metadata needed to hand a payload down to the
// GeoNetworking service (spec clause 4.5's "BTP-Data.request"): transport
// kind, lifetime, hop limit and traffic class are GN-level concerns that
// the forwarder reads off this struct's embedded fields when building
// the outgoing packet.
type Request struct {
	Destination  geonet.Address
	MaxLifetime  uint32
	MaxHopLimit  uint8
	TrafficClass geonet.TrafficClass
}

// Socket is a bound BTP endpoint: it accepts packets whose destination
// port matches, and buffers them in an inbound FIFO for the owner to
// drain. It holds no outbound queue: outbound payloads are built with
// EncodeA/EncodeB and sent through the GeoNetworking service directly.
type Socket struct {
	variant         Variant
	port            uint16
	rx              []Datagram
	rxCapacity      int
}

func newSocket(variant Variant, port uint16, capacity int) *Socket {
	return &Socket{variant: variant, port: port, rxCapacity: capacity}
}

// Port returns the socket's bound destination port.
func (s *Socket) Port() uint16 { return s.port }

// Variant returns whether this is a BTP-A or BTP-B socket.
func (s *Socket) Variant() Variant { return s.variant }

// Recv pops the oldest queued datagram, if any.
func (s *Socket) Recv() (Datagram, bool) {
	if len(s.rx) == 0 {
		return Datagram{}, false
	}
	d := s.rx[0]
	s.rx = s.rx[1:]
	return d, true
}

// enqueue appends a datagram, dropping the oldest entry if the socket's
// inbound queue is at capacity.
func (s *Socket) enqueue(d Datagram) {
	if s.rxCapacity > 0 && len(s.rx) >= s.rxCapacity {
		s.rx = s.rx[1:]
	}
	s.rx = append(s.rx, d)
}

// Multiplexer owns the set of bound BTP sockets and demultiplexes
// inbound GeoNetworking indications by destination port (spec clause
// 4.5: "a socket's destination port equals the frame's destination
// port").
type Multiplexer struct {
	sockets  map[uint16]*Socket
	rxQuota  int
}

// NewMultiplexer builds an empty Multiplexer. rxQuota bounds each
// socket's inbound queue depth; 0 means unbounded.
func NewMultiplexer(rxQuota int) *Multiplexer {
	return &Multiplexer{sockets: make(map[uint16]*Socket), rxQuota: rxQuota}
}

// Bind reserves port for variant and returns the new Socket. It returns
// false if the port is already bound.
func (m *Multiplexer) Bind(variant Variant, port uint16) (*Socket, bool) {
	if _, taken := m.sockets[port]; taken {
		return nil, false
	}
	s := newSocket(variant, port, m.rxQuota)
	m.sockets[port] = s
	return s, true
}

// Unbind releases port, dropping any socket bound to it.
func (m *Multiplexer) Unbind(port uint16) {
	delete(m.sockets, port)
}

// DeliverA decodes a BTP-A payload and hands it to the socket bound on
// its destination port, if any. Returns false if no socket accepted it.
func (m *Multiplexer) DeliverA(payload []byte, ind Indication) bool {
	hdr, err := wire.ParseBTPAHeader(payload)
	if err != nil {
		return false
	}
	s, ok := m.sockets[hdr.DestinationPort]
	if !ok || s.variant != VariantA {
		return false
	}
	ind.DestinationPortInfo = hdr.SourcePort
	s.enqueue(Datagram{Indication: ind, Payload: payload[wire.BTPAHeaderLen:]})
	return true
}

// DeliverB decodes a BTP-B payload and hands it to the socket bound on
// its destination port, if any. Returns false if no socket accepted it.
func (m *Multiplexer) DeliverB(payload []byte, ind Indication) bool {
	hdr, err := wire.ParseBTPBHeader(payload)
	if err != nil {
		return false
	}
	s, ok := m.sockets[hdr.DestinationPort]
	if !ok || s.variant != VariantB {
		return false
	}
	ind.DestinationPortInfo = hdr.DestinationPortInfo
	s.enqueue(Datagram{Indication: ind, Payload: payload[wire.BTPBHeaderLen:]})
	return true
}

// EncodeA prepends a BTP-A header to payload for transmission from
// srcPort to dstPort.
func EncodeA(srcPort, dstPort uint16, payload []byte) []byte {
	hdr := wire.BTPAHeader{DestinationPort: dstPort, SourcePort: srcPort}
	return append(hdr.Bytes(), payload...)
}

// EncodeB prepends a BTP-B header to payload for transmission to
// dstPort, carrying dstPortInfo (conventionally the source port, or an
// application-defined value for connectionless flows).
func EncodeB(dstPort, dstPortInfo uint16, payload []byte) []byte {
	hdr := wire.BTPBHeader{DestinationPort: dstPort, DestinationPortInfo: dstPortInfo}
	return append(hdr.Bytes(), payload...)
}
