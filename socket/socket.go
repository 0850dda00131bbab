// Package socket implements the GeoNetworking socket API (spec clause
// 6): the application-facing send/recv surface a BTP multiplexer (or
// any other upper-layer protocol) binds to in order to hand payloads
// down to a Forwarder and receive Indications back. Mirrors the
// teacher's habit of keeping the public surface of a transport as one
// small, sharply typed file (see the teacher's speaker.go).
package socket

import (
	"errors"
	"time"

	"github.com/kurkpitaine/veloce-sub004/area"
	"github.com/kurkpitaine/veloce-sub004/forwarder"
	"github.com/kurkpitaine/veloce-sub004/geonet"
	"github.com/kurkpitaine/veloce-sub004/wire"
)

// Send-path errors, spec clause 6's enumerated SendError kinds.
var (
	ErrSizeTooLong     = errors.New("socket: payload exceeds gn_max_sdu_size")
	ErrLifetimeTooHigh = errors.New("socket: requested lifetime exceeds gn_max_packet_lifetime")
	ErrAreaTooBig      = errors.New("socket: requested area exceeds gn_max_geo_area_size_km2")
	ErrBufferFull      = errors.New("socket: store-carry-forward buffer is at capacity")
)

// Meta describes one outbound transmission request: the packet kind,
// its destination (interpreted per Kind), and the per-packet overrides
// of the interface's configured defaults.
type Meta struct {
	Kind         forwarder.Transport
	Destination  geonet.Address
	Area         area.Area
	MaxLifetime  time.Duration
	MaxHopLimit  uint8
	TrafficClass geonet.TrafficClass
}

// Datagram is a received payload queued on a socket, paired with the
// Indication describing how it arrived.
type Datagram struct {
	Indication forwarder.Indication
	Payload    []byte
}

// Socket is a bound GeoNetworking endpoint. A single Socket typically
// backs one upper-layer next-header value (BTP-A, BTP-B, IPv6); the
// Interface delivers every accepted Indication whose upper protocol
// matches to the socket's inbound queue.
type Socket struct {
	fw          *forwarder.Forwarder
	upper       wire.CommonNextHeader
	maxSDUSize  int
	maxLifetime time.Duration
	maxAreaKm2  float64

	rx         []Datagram
	rxCapacity int

	tx []txRequest
}

// txRequest is one send call queued for the Interface's egress step to
// dispatch, oldest first (spec clause 4.7's "for each socket dequeue
// oldest pending tx request").
type txRequest struct {
	payload []byte
	meta    Meta
}

// New binds a Socket to fw for upper-layer protocol upper. maxSDUSize,
// maxLifetime and maxAreaKm2 are the interface-wide limits (spec
// clause 6's gn_max_sdu_size / gn_max_packet_lifetime /
// gn_max_geo_area_size_km2); rxCapacity bounds the inbound queue depth
// (0 means unbounded).
func New(fw *forwarder.Forwarder, upper wire.CommonNextHeader, maxSDUSize int, maxLifetime time.Duration, maxAreaKm2 float64, rxCapacity int) *Socket {
	return &Socket{
		fw:          fw,
		upper:       upper,
		maxSDUSize:  maxSDUSize,
		maxLifetime: maxLifetime,
		maxAreaKm2:  maxAreaKm2,
		rxCapacity:  rxCapacity,
	}
}

// Upper returns the socket's bound upper-layer next-header value.
func (s *Socket) Upper() wire.CommonNextHeader { return s.upper }

// areaSizeKm2 approximates a rectangle/ellipse/circle's footprint in
// square kilometers from its two characteristic half-distances.
func areaSizeKm2(a area.Area) float64 {
	const sqMetersPerSqKm = 1_000_000.0
	b := a.DistanceB
	if b == 0 {
		b = a.DistanceA
	}
	return (a.DistanceA * b * 4) / sqMetersPerSqKm
}

// validate checks size and meta against the socket's configured
// ceilings, returning the matching SendError kind on the first
// violation found.
func (s *Socket) validate(size int, meta Meta) error {
	if s.maxSDUSize > 0 && size > s.maxSDUSize {
		return ErrSizeTooLong
	}
	if s.maxLifetime > 0 && meta.MaxLifetime > s.maxLifetime {
		return ErrLifetimeTooHigh
	}
	switch meta.Kind {
	case forwarder.TransportGeoAnycast, forwarder.TransportGeoBroadcast:
		if s.maxAreaKm2 > 0 && areaSizeKm2(meta.Area) > s.maxAreaKm2 {
			return ErrAreaTooBig
		}
	}
	if meta.TrafficClass.StoreCarryForward && bufferAt(s.fw, meta).Len() >= bufferCapacity(s.fw, meta) {
		return ErrBufferFull
	}
	return nil
}

// bufferAt returns the forwarding buffer egress of meta.Kind would
// land in when store-carry-forward applies.
func bufferAt(fw *forwarder.Forwarder, meta Meta) interface{ Len() int } {
	if meta.Kind == forwarder.TransportGeoBroadcast || meta.Kind == forwarder.TransportGeoAnycast {
		return fw.BCBuf
	}
	return fw.UCBuf
}

func bufferCapacity(fw *forwarder.Forwarder, meta Meta) int {
	if meta.Kind == forwarder.TransportGeoBroadcast || meta.Kind == forwarder.TransportGeoAnycast {
		return fw.Config.BCBufEntryCount
	}
	return fw.Config.UCBufEntryCount
}

func (s *Socket) request(payload []byte, meta Meta) forwarder.Request {
	return forwarder.Request{
		Kind:          meta.Kind,
		Destination:   meta.Destination,
		Area:          meta.Area,
		MaxLifetime:   geonet.LifetimeFromDuration(meta.MaxLifetime),
		MaxHopLimit:   meta.MaxHopLimit,
		TrafficClass:  meta.TrafficClass,
		UpperProtocol: s.upper,
		Payload:       payload,
	}
}

// SendSlice validates and queues payload for transmission on the next
// poll's egress step (spec clause 6's "send_slice"). It does not block
// and does not itself touch the device; the Interface dispatches
// queued requests in FIFO order.
func (s *Socket) SendSlice(payload []byte, meta Meta) error {
	if err := s.validate(len(payload), meta); err != nil {
		return err
	}
	s.tx = append(s.tx, txRequest{payload: payload, meta: meta})
	return nil
}

// Send allocates a buffer of the requested size for the caller to
// fill and pass to SendSlice (spec clause 6's "send", which hands the
// caller a buffer rather than copying one).
func (s *Socket) Send(size int, meta Meta) ([]byte, error) {
	if err := s.validate(size, meta); err != nil {
		return nil, err
	}
	return make([]byte, size), nil
}

// dequeueTx pops the oldest queued send request, if any.
func (s *Socket) dequeueTx() (txRequest, bool) {
	if len(s.tx) == 0 {
		return txRequest{}, false
	}
	r := s.tx[0]
	s.tx = s.tx[1:]
	return r, true
}

// DispatchOne runs the forwarder's egress procedure for this socket's
// oldest pending send request, if any. Called once per socket per
// poll by the Interface's egress step.
func (s *Socket) DispatchOne(now time.Time) (*forwarder.Frame, error, bool) {
	r, ok := s.dequeueTx()
	if !ok {
		return nil, nil, false
	}
	frame, err := s.fw.Egress(s.request(r.payload, r.meta), now)
	return frame, err, true
}

// deliver enqueues a received datagram, dropping the oldest entry if
// the socket is at capacity. Called by the Interface poll loop for
// every Indication whose upper protocol matches this socket.
func (s *Socket) deliver(d Datagram) {
	if s.rxCapacity > 0 && len(s.rx) >= s.rxCapacity {
		s.rx = s.rx[1:]
	}
	s.rx = append(s.rx, d)
}

// Recv pops the oldest queued datagram, if any (spec clause 6's "recv").
func (s *Socket) Recv() (Datagram, bool) {
	if len(s.rx) == 0 {
		return Datagram{}, false
	}
	d := s.rx[0]
	s.rx = s.rx[1:]
	return d, true
}

// RecvSlice is Recv's flattened form, returning just the payload and
// its Indication (spec clause 6's "recv_slice").
func (s *Socket) RecvSlice() ([]byte, forwarder.Indication, bool) {
	d, ok := s.Recv()
	if !ok {
		return nil, forwarder.Indication{}, false
	}
	return d.Payload, d.Indication, true
}

// Registry is the set of sockets bound against one Forwarder, indexed
// by upper-layer protocol. The Interface owns the Registry and uses it
// both to fan terminal Indications out to the right socket and to walk
// every socket's outbound queue on each poll's egress step.
type Registry struct {
	fw      *forwarder.Forwarder
	sockets map[wire.CommonNextHeader][]*Socket
	order   []*Socket
}

// NewRegistry builds an empty Registry bound to fw.
func NewRegistry(fw *forwarder.Forwarder) *Registry {
	return &Registry{fw: fw, sockets: make(map[wire.CommonNextHeader][]*Socket)}
}

// Bind creates and registers a new Socket for upper, with the given
// limits and inbound queue depth.
func (r *Registry) Bind(upper wire.CommonNextHeader, maxSDUSize int, maxLifetime time.Duration, maxAreaKm2 float64, rxCapacity int) *Socket {
	s := New(r.fw, upper, maxSDUSize, maxLifetime, maxAreaKm2, rxCapacity)
	r.sockets[upper] = append(r.sockets[upper], s)
	r.order = append(r.order, s)
	return s
}

// Deliver fans out an accepted Indication to every socket bound to
// upper, per spec clause 4.5's "destination port equals frame's
// destination port" principle generalized to the GN socket's upper
// protocol match.
func (r *Registry) Deliver(upper wire.CommonNextHeader, payload []byte, ind forwarder.Indication) {
	for _, s := range r.sockets[upper] {
		s.deliver(Datagram{Indication: ind, Payload: payload})
	}
}

// Sockets returns every bound socket, in bind order, for the
// Interface's egress step to walk.
func (r *Registry) Sockets() []*Socket { return r.order }
