package forwarder

import (
	"errors"
	"time"

	"github.com/kurkpitaine/veloce-sub004/area"
	"github.com/kurkpitaine/veloce-sub004/geonet"
	"github.com/kurkpitaine/veloce-sub004/wire"
)

// ErrNoDestination is returned by Egress when a Unicast/LS-Reply
// request resolves to no known neighbour and store-carry-forward is
// disallowed by the request's traffic class.
var ErrNoDestination = errors.New("forwarder: no route and traffic class forbids buffering")

// Request is a GN-DATA.request from an upper protocol (spec clause
// 4.4.2): what to send, to whom or where, and under which transport.
type Request struct {
	Kind          Transport
	Destination   geonet.Address
	Area          area.Area
	MaxLifetime   geonet.Lifetime
	MaxHopLimit   uint8
	TrafficClass  geonet.TrafficClass
	UpperProtocol wire.CommonNextHeader
	Payload       []byte
}

func (f *Forwarder) basicHeader(req Request) wire.BasicHeader {
	lt := req.MaxLifetime
	if lt == (geonet.Lifetime{}) {
		lt = f.Config.DefaultLifetime
	}
	hl := req.MaxHopLimit
	if hl == 0 {
		hl = f.Config.DefaultHopLimit
	}
	return wire.BasicHeader{
		Version:           f.Config.Version,
		NextHeader:        wire.NextHeaderAny,
		Lifetime:          lt,
		RemainingHopLimit: hl,
	}
}

func (f *Forwarder) commonHeader(req Request, typ wire.PacketType, payloadLen int) wire.CommonHeader {
	tc := req.TrafficClass
	if tc == (geonet.TrafficClass{}) {
		tc = f.Config.DefaultTrafficClass
	}
	hl := req.MaxHopLimit
	if hl == 0 {
		hl = f.Config.DefaultHopLimit
	}
	return wire.CommonHeader{
		NextHeader:    req.UpperProtocol,
		Type:          typ,
		TrafficClass:  tc,
		PayloadLength: uint16(payloadLen),
		MaxHopLimit:   hl,
	}
}

// Egress builds and addresses an outbound packet for req. The caller
// is responsible for handing the returned Frame to the access layer's
// DCC-gated transmit path; a nil Frame with a nil error means the
// packet was buffered for store-carry-forward instead.
func (f *Forwarder) Egress(req Request, now time.Time) (*Frame, error) {
	switch req.Kind {
	case TransportUnicast:
		return f.egressUnicast(req, now)
	case TransportSingleHopBroadcast:
		return f.egressSingleHop(req, now)
	case TransportTopoBroadcast:
		return f.egressTopoBroadcast(req, now)
	case TransportGeoBroadcast, TransportGeoAnycast:
		return f.egressArea(req, now)
	default:
		return nil, errors.New("forwarder: unsupported request kind")
	}
}

func (f *Forwarder) egressSingleHop(req Request, now time.Time) (*Frame, error) {
	ego := f.position.Ego()
	basic := f.basicHeader(req)
	common := f.commonHeader(req, wire.PacketSingleHopBroadcast, len(req.Payload))
	pkt := wire.SingleHopBroadcastPacket{Basic: basic, Common: common, Extended: wire.SingleHopHeader{Source: ego}}
	return &Frame{
		Destination:    geonet.Broadcast,
		Payload:        append(pkt.Bytes(), req.Payload...),
		AccessCategory: geonet.AccessCategoryFromTrafficClass(common.TrafficClass),
	}, nil
}

func (f *Forwarder) egressTopoBroadcast(req Request, now time.Time) (*Frame, error) {
	ego := f.position.Ego()
	basic := f.basicHeader(req)
	common := f.commonHeader(req, wire.PacketTopoBroadcast, len(req.Payload))
	pkt := wire.TopoBroadcastPacket{
		Basic:    basic,
		Common:   common,
		Extended: wire.TopoBroadcastHeader{SequenceNumber: f.seq.nextSeq(), Source: ego},
	}

	if len(f.Table.NeighbourList()) == 0 && common.TrafficClass.StoreCarryForward {
		_ = f.BCBuf.Enqueue(BufferedBroadcast{Packet: pkt, Payload: req.Payload}, bcMeta(pkt, req.Payload, f.Config.MaxPacketLifetime), now)
		return nil, nil
	}
	return &Frame{
		Destination:    geonet.Broadcast,
		Payload:        append(pkt.Bytes(), req.Payload...),
		AccessCategory: geonet.AccessCategoryFromTrafficClass(common.TrafficClass),
	}, nil
}

func (f *Forwarder) egressArea(req Request, now time.Time) (*Frame, error) {
	ego := f.position.Ego()
	basic := f.basicHeader(req)
	typ := areaPacketType(req.Kind, req.Area.Shape)
	common := f.commonHeader(req, typ, len(req.Payload))
	ext := wire.GeoAreaHeader{
		SequenceNumber: f.seq.nextSeq(),
		Source:         ego,
		Latitude:       req.Area.Latitude,
		Longitude:      req.Area.Longitude,
		DistanceA:      uint16(req.Area.DistanceA),
		DistanceB:      uint16(req.Area.DistanceB),
		Angle:          uint16(req.Area.Angle * 1800.0 / 3.14159265358979),
	}
	pkt := buildAreaRepr(basic, common, ext)

	inside := req.Area.Contains(ego.Latitude, ego.Longitude)
	if len(f.Table.NeighbourList()) == 0 && common.TrafficClass.StoreCarryForward {
		_ = f.BCBuf.Enqueue(BufferedBroadcast{Packet: pkt, Payload: req.Payload}, bcMeta(pkt, req.Payload, f.Config.MaxPacketLifetime), now)
		return nil, nil
	}

	var dec Result
	if inside {
		dec = AreaSimpleForward()
	} else {
		dec = NonAreaGreedy(f.Table, ego.Latitude, ego.Longitude, req.Area.Latitude, req.Area.Longitude, common.TrafficClass.StoreCarryForward)
	}
	switch dec.Decision {
	case DecisionBuffer:
		_ = f.BCBuf.Enqueue(BufferedBroadcast{Packet: pkt, Payload: req.Payload}, bcMeta(pkt, req.Payload, f.Config.MaxPacketLifetime), now)
		return nil, nil
	case DecisionUnicast:
		return &Frame{Destination: dec.NextHop, Payload: append(pkt.Bytes(), req.Payload...), AccessCategory: geonet.AccessCategoryFromTrafficClass(common.TrafficClass)}, nil
	default:
		return &Frame{Destination: geonet.Broadcast, Payload: append(pkt.Bytes(), req.Payload...), AccessCategory: geonet.AccessCategoryFromTrafficClass(common.TrafficClass)}, nil
	}
}

func areaPacketType(kind Transport, shape area.Shape) wire.PacketType {
	if kind == TransportGeoAnycast {
		switch shape {
		case area.ShapeRectangle:
			return wire.PacketGeoAnycastRect
		case area.ShapeEllipse:
			return wire.PacketGeoAnycastEllipse
		default:
			return wire.PacketGeoAnycastCircle
		}
	}
	switch shape {
	case area.ShapeRectangle:
		return wire.PacketGeoBroadcastRect
	case area.ShapeEllipse:
		return wire.PacketGeoBroadcastEllipse
	default:
		return wire.PacketGeoBroadcastCircle
	}
}

// egressUnicast resolves req.Destination through the Location Table.
// A destination in the table is addressed directly when it is a
// neighbour and through non-area greedy forwarding otherwise; a
// destination missing from the table is queued in the LS buffer and a
// Location Service Request is armed (spec clause 4.4.2, "unicast packet
// transmission").
func (f *Forwarder) egressUnicast(req Request, now time.Time) (*Frame, error) {
	ego := f.position.Ego()
	basic := f.basicHeader(req)
	common := f.commonHeader(req, wire.PacketGeoUnicast, len(req.Payload))
	seq := f.seq.nextSeq()

	entry, ok := f.Table.Find(req.Destination.Mac)
	if ok {
		pkt := wire.UnicastPacket{
			Basic:    basic,
			Common:   common,
			Extended: wire.UnicastHeader{SequenceNumber: seq, Source: ego, Destination: entry.PV.Short()},
		}
		if entry.IsNeighbour {
			return &Frame{
				Destination:    entry.PV.Address.Mac,
				Payload:        append(pkt.Bytes(), req.Payload...),
				AccessCategory: geonet.AccessCategoryFromTrafficClass(common.TrafficClass),
			}, nil
		}
		dec := NonAreaGreedy(f.Table, ego.Latitude, ego.Longitude, entry.PV.Latitude, entry.PV.Longitude, common.TrafficClass.StoreCarryForward)
		switch dec.Decision {
		case DecisionUnicast:
			return &Frame{Destination: dec.NextHop, Payload: append(pkt.Bytes(), req.Payload...), AccessCategory: geonet.AccessCategoryFromTrafficClass(common.TrafficClass)}, nil
		case DecisionBuffer:
			bu := BufferedUnicast{Basic: basic, Common: common, Seq: seq, Source: ego, Destination: req.Destination, Payload: req.Payload}
			return nil, f.UCBuf.Enqueue(bu, ucMeta(bu, f.Config.MaxPacketLifetime), now)
		default:
			return &Frame{Destination: geonet.Broadcast, Payload: append(pkt.Bytes(), req.Payload...), AccessCategory: geonet.AccessCategoryFromTrafficClass(common.TrafficClass)}, nil
		}
	}

	if !common.TrafficClass.StoreCarryForward {
		return nil, ErrNoDestination
	}
	bu := BufferedUnicast{Basic: basic, Common: common, Seq: seq, Source: ego, Destination: req.Destination, Payload: req.Payload}
	if err := f.LSBuf.Enqueue(bu, ucMeta(bu, f.Config.MaxPacketLifetime), now); err != nil {
		return nil, err
	}
	if _, exists := f.lsHandleOf[req.Destination.Mac]; !exists {
		h, err := f.LS.Request(req.Destination)
		if err == nil {
			f.lsHandleOf[req.Destination.Mac] = h
		}
	}
	return nil, nil
}

// EmitBeacon builds this station's periodic Beacon packet (spec clause
// 4.4.3): no payload, no sequence number, no duplicate handling.
func (f *Forwarder) EmitBeacon() Frame {
	ego := f.position.Ego()
	pkt := wire.BeaconPacket{
		Basic:    wire.BasicHeader{Version: f.Config.Version, NextHeader: wire.NextHeaderAny, Lifetime: f.Config.DefaultLifetime, RemainingHopLimit: 1},
		Common:   wire.CommonHeader{Type: wire.PacketBeacon, TrafficClass: f.Config.DefaultTrafficClass, MaxHopLimit: 1},
		Extended: wire.BeaconHeader{Source: ego},
	}
	return Frame{
		Destination:    geonet.Broadcast,
		Payload:        pkt.Bytes(),
		AccessCategory: geonet.AccessCategoryFromTrafficClass(f.Config.DefaultTrafficClass),
	}
}

// EmitLocationServiceRequest builds the LS-Request frame for a pending
// Location Service emission, if Tick produced one. Requests that have
// exhausted their retry budget are reaped here, and their buffered
// traffic is dropped (spec clause 4.4.2, "LS Request failure").
func (f *Forwarder) EmitLocationServiceRequest(now time.Time) *Frame {
	emit, reap := f.LS.Tick(now)
	if len(reap) > 0 {
		for _, h := range reap {
			addr, _, _ := f.LS.Lookup(h)
			f.LSBuf.DropWith(now, func(bu BufferedUnicast) bool {
				return bu.Destination.Equal(addr)
			})
			delete(f.lsHandleOf, addr.Mac)
		}
		f.LS.Reap(reap)
	}
	if emit == nil {
		return nil
	}
	ego := f.position.Ego()
	pkt := wire.LocationServiceRequestPacket{
		Basic:    wire.BasicHeader{Version: f.Config.Version, NextHeader: wire.NextHeaderAny, Lifetime: f.Config.DefaultLifetime, RemainingHopLimit: f.Config.DefaultHopLimit},
		Common:   wire.CommonHeader{Type: wire.PacketLocationServiceRequest, TrafficClass: f.Config.DefaultTrafficClass, MaxHopLimit: f.Config.DefaultHopLimit},
		Extended: wire.LocationServiceRequestHeader{SequenceNumber: f.seq.nextSeq(), Source: ego, RequestedAddress: emit.Address},
	}
	return &Frame{
		Destination:    geonet.Broadcast,
		Payload:        pkt.Bytes(),
		AccessCategory: geonet.AccessCategoryFromTrafficClass(f.Config.DefaultTrafficClass),
	}
}
