package forwarder

import (
	"time"

	"github.com/kurkpitaine/veloce-sub004/area"
	"github.com/kurkpitaine/veloce-sub004/geonet"
	"github.com/kurkpitaine/veloce-sub004/packetbuffer"
	"github.com/kurkpitaine/veloce-sub004/wire"
)

// IngressResult is what processing one incoming frame produces: an
// Indication if a payload is ready to deliver upward, and/or a Frame
// if a forwarded copy must be transmitted.
type IngressResult struct {
	Indication *Indication
	Forward    *Frame
}

// Ingress decodes raw (a full GeoNetworking packet, no link-layer
// framing) received from senderMAC and runs the matching per-type
// procedure. A nil result means the packet was silently dropped, per
// the engine's error-handling policy (spec clause 7).
func (f *Forwarder) Ingress(raw []byte, senderMAC geonet.HardwareAddr, now time.Time) *IngressResult {
	repr, err := wire.ParseRepr(raw)
	if err != nil {
		return nil
	}
	basic, common := repr.Headers()
	if basic.Version != f.Config.Version {
		return nil
	}
	if common.MaxHopLimit < basic.RemainingHopLimit {
		return nil
	}
	if common.NextHeader == wire.CommonNextHeaderSecured {
		return nil
	}
	payload := raw[repr.Len():]

	switch p := repr.(type) {
	case wire.BeaconPacket:
		return f.ingressBeacon(p, now)
	case wire.SingleHopBroadcastPacket:
		return f.ingressSingleHop(p, payload, now)
	case wire.TopoBroadcastPacket:
		return f.ingressTopoBroadcast(p, senderMAC, payload, now)
	case wire.UnicastPacket:
		return f.ingressUnicast(p, senderMAC, payload, now)
	case wire.LocationServiceReplyPacket:
		return f.ingressLSReply(p, senderMAC, payload, now)
	case wire.AnycastPacket:
		return f.ingressGeoArea(p.Basic, p.Common, p.Extended, senderMAC, payload, now, TransportGeoAnycast)
	case wire.BroadcastPacket:
		return f.ingressGeoArea(p.Basic, p.Common, p.Extended, senderMAC, payload, now, TransportGeoBroadcast)
	case wire.LocationServiceRequestPacket:
		return f.ingressLSRequest(p, senderMAC, payload, now)
	default:
		return nil
	}
}

func (f *Forwarder) ingressBeacon(p wire.BeaconPacket, now time.Time) *IngressResult {
	e := f.updateLocationTable(p.Extended.Source.Address.Mac, p.Extended.Source, now)
	e.IsNeighbour = true
	e.UpdatePDR(wire.BasicHeaderLen+wire.CommonHeaderLen+wire.BeaconHeaderLen, now)
	f.flushForSource(p.Extended.Source.Address, now, f.resendUnicast)
	return nil
}

func (f *Forwarder) ingressSingleHop(p wire.SingleHopBroadcastPacket, payload []byte, now time.Time) *IngressResult {
	e := f.updateLocationTable(p.Extended.Source.Address.Mac, p.Extended.Source, now)
	e.IsNeighbour = true
	e.UpdatePDR(wire.BasicHeaderLen+wire.CommonHeaderLen+wire.SingleHopHeaderLen+len(payload), now)
	f.flushForSource(p.Extended.Source.Address, now, f.resendUnicast)

	return &IngressResult{Indication: &Indication{
		Transport:         TransportSingleHopBroadcast,
		Upper:             p.Common.NextHeader,
		Source:            p.Extended.Source.Address,
		SourcePosition:    p.Extended.Source,
		RemainingLifetime: p.Basic.Lifetime,
		RemainingHopLimit: p.Basic.RemainingHopLimit,
		TrafficClass:      p.Common.TrafficClass,
		Payload:           payload,
	}}
}

func (f *Forwarder) ingressTopoBroadcast(p wire.TopoBroadcastPacket, senderMAC geonet.HardwareAddr, payload []byte, now time.Time) *IngressResult {
	mac := p.Extended.Source.Address.Mac
	if dup, known := f.Table.DuplicatePacketDetection(mac, p.Extended.SequenceNumber); known && dup {
		return nil
	}

	e := f.updateLocationTable(senderMAC, p.Extended.Source, now)
	e.InsertSeq(p.Extended.SequenceNumber)
	e.UpdatePDR(wire.BasicHeaderLen+wire.CommonHeaderLen+wire.TopoBroadcastHeaderLen+len(payload), now)
	f.flushForSource(p.Extended.Source.Address, now, f.resendUnicast)

	result := &IngressResult{Indication: &Indication{
		Transport:         TransportTopoBroadcast,
		Upper:             p.Common.NextHeader,
		Source:            p.Extended.Source.Address,
		SourcePosition:    p.Extended.Source,
		RemainingLifetime: p.Basic.Lifetime,
		RemainingHopLimit: p.Basic.RemainingHopLimit,
		TrafficClass:      p.Common.TrafficClass,
		Payload:           payload,
	}}

	if p.Basic.RemainingHopLimit == 0 {
		return result
	}
	fwd := p
	fwd.Basic.RemainingHopLimit--

	if len(f.Table.NeighbourList()) == 0 && p.Common.TrafficClass.StoreCarryForward {
		_ = f.BCBuf.Enqueue(BufferedBroadcast{Packet: fwd, Payload: payload}, bcMeta(fwd, payload, f.Config.MaxPacketLifetime), now)
		return result
	}
	result.Forward = &Frame{
		Destination:    geonet.Broadcast,
		Payload:        append(fwd.Bytes(), payload...),
		AccessCategory: geonet.AccessCategoryFromTrafficClass(p.Common.TrafficClass),
	}
	return result
}

func (f *Forwarder) ingressGeoArea(basic wire.BasicHeader, common wire.CommonHeader, ext wire.GeoAreaHeader, senderMAC geonet.HardwareAddr, payload []byte, now time.Time, transport Transport) *IngressResult {
	a := area.Area{
		Shape:     area.Shape(common.Type.AreaShape()),
		Latitude:  ext.Latitude,
		Longitude: ext.Longitude,
		DistanceA: float64(ext.DistanceA),
		DistanceB: float64(ext.DistanceB),
		Angle:     float64(ext.Angle) * 3.14159265358979 / 1800.0,
	}
	ego := f.position.Ego()
	inside := a.Contains(ego.Latitude, ego.Longitude)

	if dup, known := f.Table.DuplicatePacketDetection(senderMAC, ext.SequenceNumber); known && dup {
		return nil
	}

	e := f.updateLocationTable(senderMAC, ext.Source, now)
	e.InsertSeq(ext.SequenceNumber)
	e.UpdatePDR(wire.BasicHeaderLen+wire.CommonHeaderLen+wire.GeoAreaHeaderLen+len(payload), now)

	var result IngressResult
	if inside {
		result.Indication = &Indication{
			Transport:         transport,
			Upper:             common.NextHeader,
			Source:            ext.Source.Address,
			SourcePosition:    ext.Source,
			RemainingLifetime: basic.Lifetime,
			RemainingHopLimit: basic.RemainingHopLimit,
			TrafficClass:      common.TrafficClass,
			Payload:           payload,
		}
	}
	f.flushForSource(ext.Source.Address, now, f.resendUnicast)

	if basic.RemainingHopLimit == 0 {
		return &result
	}
	fwdBasic := basic
	fwdBasic.RemainingHopLimit--
	fwdCommon := common

	if !inside {
		dec := Selector(f.Table, senderMAC, a, ego.Latitude, ego.Longitude, ext.Latitude, ext.Longitude, common.TrafficClass.StoreCarryForward)
		f.emitAreaDecision(dec, fwdBasic, fwdCommon, ext, payload, common.TrafficClass, now, &result)
		return &result
	}

	if len(f.Table.NeighbourList()) == 0 && common.TrafficClass.StoreCarryForward {
		pkt := buildAreaRepr(fwdBasic, fwdCommon, ext)
		_ = f.BCBuf.Enqueue(BufferedBroadcast{Packet: pkt, Payload: payload}, bcMeta(pkt, payload, f.Config.MaxPacketLifetime), now)
		return &result
	}
	dec := AreaSimpleForward()
	f.emitAreaDecision(dec, fwdBasic, fwdCommon, ext, payload, common.TrafficClass, now, &result)
	return &result
}

func (f *Forwarder) emitAreaDecision(dec Result, basic wire.BasicHeader, common wire.CommonHeader, ext wire.GeoAreaHeader, payload []byte, tc geonet.TrafficClass, now time.Time, result *IngressResult) {
	pkt := buildAreaRepr(basic, common, ext)
	switch dec.Decision {
	case DecisionDrop:
		return
	case DecisionBuffer:
		_ = f.BCBuf.Enqueue(BufferedBroadcast{Packet: pkt, Payload: payload}, bcMeta(pkt, payload, f.Config.MaxPacketLifetime), now)
	case DecisionUnicast:
		result.Forward = &Frame{Destination: dec.NextHop, Payload: append(pkt.Bytes(), payload...), AccessCategory: geonet.AccessCategoryFromTrafficClass(tc)}
	default:
		result.Forward = &Frame{Destination: geonet.Broadcast, Payload: append(pkt.Bytes(), payload...), AccessCategory: geonet.AccessCategoryFromTrafficClass(tc)}
	}
}

func buildAreaRepr(basic wire.BasicHeader, common wire.CommonHeader, ext wire.GeoAreaHeader) wire.Repr {
	if common.Type.IsAnycast() {
		return wire.AnycastPacket{Basic: basic, Common: common, Extended: ext}
	}
	return wire.BroadcastPacket{Basic: basic, Common: common, Extended: ext}
}

func (f *Forwarder) ingressUnicast(p wire.UnicastPacket, senderMAC geonet.HardwareAddr, payload []byte, now time.Time) *IngressResult {
	if p.Extended.Destination.Address.Equal(f.ego) {
		mac := p.Extended.Source.Address.Mac
		dup, known := f.Table.DuplicatePacketDetection(mac, p.Extended.SequenceNumber)
		if known && dup {
			return nil
		}
		e := f.updateLocationTable(senderMAC, p.Extended.Source, now)
		e.InsertSeq(p.Extended.SequenceNumber)
		e.UpdatePDR(wire.BasicHeaderLen+wire.CommonHeaderLen+wire.UnicastHeaderLen+len(payload), now)
		f.flushForSource(p.Extended.Source.Address, now, f.resendUnicast)
		return &IngressResult{Indication: &Indication{
			Transport:         TransportUnicast,
			Upper:             p.Common.NextHeader,
			Source:            p.Extended.Source.Address,
			SourcePosition:    p.Extended.Source,
			RemainingLifetime: p.Basic.Lifetime,
			RemainingHopLimit: p.Basic.RemainingHopLimit,
			TrafficClass:      p.Common.TrafficClass,
			Payload:           payload,
		}}
	}

	mac := p.Extended.Source.Address.Mac
	if dup, known := f.Table.DuplicatePacketDetection(mac, p.Extended.SequenceNumber); known && dup {
		return nil
	}

	dest := p.Extended.Destination
	if entry, ok := f.Table.Find(dest.Address.Mac); ok && entry.PV.Timestamp.Fresher(dest.Timestamp) {
		dest = entry.PV.Short()
	}

	e := f.updateLocationTable(senderMAC, p.Extended.Source, now)
	e.InsertSeq(p.Extended.SequenceNumber)
	e.UpdatePDR(wire.BasicHeaderLen+wire.CommonHeaderLen+wire.UnicastHeaderLen+len(payload), now)
	f.flushForSource(p.Extended.Source.Address, now, f.resendUnicast)

	if p.Basic.RemainingHopLimit == 0 {
		return nil
	}
	fwd := p
	fwd.Extended.Destination = dest
	fwd.Basic.RemainingHopLimit--

	result := &IngressResult{}
	if len(f.Table.NeighbourList()) == 0 && p.Common.TrafficClass.StoreCarryForward {
		bu := BufferedUnicast{Basic: fwd.Basic, Common: fwd.Common, Seq: fwd.Extended.SequenceNumber, Source: fwd.Extended.Source, Destination: dest.Address, Payload: payload}
		_ = f.UCBuf.Enqueue(bu, ucMeta(bu, f.Config.MaxPacketLifetime), now)
		return result
	}

	ego := f.position.Ego()
	dec := NonAreaGreedy(f.Table, ego.Latitude, ego.Longitude, dest.Latitude, dest.Longitude, p.Common.TrafficClass.StoreCarryForward)
	switch dec.Decision {
	case DecisionBuffer:
		bu := BufferedUnicast{Basic: fwd.Basic, Common: fwd.Common, Seq: fwd.Extended.SequenceNumber, Source: fwd.Extended.Source, Destination: dest.Address, Payload: payload}
		_ = f.UCBuf.Enqueue(bu, ucMeta(bu, f.Config.MaxPacketLifetime), now)
	case DecisionUnicast:
		result.Forward = &Frame{Destination: dec.NextHop, Payload: append(fwd.Bytes(), payload...), AccessCategory: geonet.AccessCategoryFromTrafficClass(p.Common.TrafficClass)}
	default:
		result.Forward = &Frame{Destination: geonet.Broadcast, Payload: append(fwd.Bytes(), payload...), AccessCategory: geonet.AccessCategoryFromTrafficClass(p.Common.TrafficClass)}
	}
	return result
}

func (f *Forwarder) ingressLSRequest(p wire.LocationServiceRequestPacket, senderMAC geonet.HardwareAddr, payload []byte, now time.Time) *IngressResult {
	mac := p.Extended.Source.Address.Mac
	if dup, known := f.Table.DuplicatePacketDetection(mac, p.Extended.SequenceNumber); known && dup {
		return nil
	}
	e := f.updateLocationTable(senderMAC, p.Extended.Source, now)
	e.InsertSeq(p.Extended.SequenceNumber)

	if p.Extended.RequestedAddress.Mac == f.ego.Mac {
		ego := f.position.Ego()
		reply := wire.LocationServiceReplyPacket{
			Basic: wire.BasicHeader{Version: f.Config.Version, NextHeader: wire.NextHeaderAny, Lifetime: f.Config.DefaultLifetime, RemainingHopLimit: f.Config.DefaultHopLimit},
			Common: wire.CommonHeader{Type: wire.PacketLocationServiceReply, TrafficClass: f.Config.DefaultTrafficClass, MaxHopLimit: f.Config.DefaultHopLimit},
			Extended: wire.UnicastHeader{SequenceNumber: f.seq.nextSeq(), Source: ego, Destination: p.Extended.Source.Short()},
		}
		fr := &Frame{Destination: geonet.Broadcast, Payload: reply.Bytes()}
		if dec := NonAreaGreedy(f.Table, ego.Latitude, ego.Longitude, p.Extended.Source.Latitude, p.Extended.Source.Longitude, false); dec.Decision == DecisionUnicast {
			fr.Destination = dec.NextHop
		}
		return &IngressResult{Forward: fr}
	}

	f.flushForSource(p.Extended.Source.Address, now, f.resendUnicast)
	if p.Basic.RemainingHopLimit == 0 {
		return nil
	}
	fwd := p
	fwd.Basic.RemainingHopLimit--
	return &IngressResult{Forward: &Frame{Destination: geonet.Broadcast, Payload: append(fwd.Bytes(), payload...)}}
}

func (f *Forwarder) ingressLSReply(p wire.LocationServiceReplyPacket, senderMAC geonet.HardwareAddr, payload []byte, now time.Time) *IngressResult {
	if p.Extended.Destination.Address.Equal(f.ego) {
		mac := p.Extended.Source.Address.Mac
		if dup, known := f.Table.DuplicatePacketDetection(mac, p.Extended.SequenceNumber); known && dup {
			return nil
		}
		e := f.updateLocationTable(senderMAC, p.Extended.Source, now)
		e.InsertSeq(p.Extended.SequenceNumber)
		f.flushForSource(p.Extended.Source.Address, now, f.resendUnicast)

		if h, ok := f.lsHandleOf[p.Extended.Source.Address.Mac]; ok {
			f.LS.Cancel(h)
			delete(f.lsHandleOf, p.Extended.Source.Address.Mac)
		}
		return nil
	}

	uni := wire.UnicastPacket(p)
	res := f.ingressUnicast(uni, senderMAC, payload, now)
	return res
}

// resendUnicast re-emits a buffered unicast entry flushed out of the
// LS or UC buffer: it re-resolves the destination's current position
// from the Location Table and re-runs the greedy forwarding decision,
// queuing the resulting Frame on f.pending. Returns true (remove from
// buffer) only once a Frame was actually queued; a destination that
// still isn't reachable stays buffered.
func (f *Forwarder) resendUnicast(bu BufferedUnicast) bool {
	entry, ok := f.Table.Find(bu.Destination.Mac)
	if !ok {
		return false
	}
	destSPV := entry.PV.Short()
	pkt := wire.UnicastPacket{
		Basic:    bu.Basic,
		Common:   bu.Common,
		Extended: wire.UnicastHeader{SequenceNumber: bu.Seq, Source: bu.Source, Destination: destSPV},
	}

	ego := f.position.Ego()
	dec := NonAreaGreedy(f.Table, ego.Latitude, ego.Longitude, destSPV.Latitude, destSPV.Longitude, bu.Common.TrafficClass.StoreCarryForward)
	ac := geonet.AccessCategoryFromTrafficClass(bu.Common.TrafficClass)
	switch dec.Decision {
	case DecisionUnicast:
		f.pending = append(f.pending, Frame{Destination: dec.NextHop, Payload: append(pkt.Bytes(), bu.Payload...), AccessCategory: ac})
		return true
	case DecisionBroadcast:
		f.pending = append(f.pending, Frame{Destination: geonet.Broadcast, Payload: append(pkt.Bytes(), bu.Payload...), AccessCategory: ac})
		return true
	default:
		return false
	}
}

func ucMeta(bu BufferedUnicast, lifetime time.Duration) packetbuffer.Meta {
	return packetbuffer.Meta{Size: wire.BasicHeaderLen + wire.CommonHeaderLen + wire.UnicastHeaderLen + len(bu.Payload), Lifetime: lifetime}
}

func bcMeta(pkt wire.Repr, payload []byte, lifetime time.Duration) packetbuffer.Meta {
	return packetbuffer.Meta{Size: pkt.Len() + len(payload), Lifetime: lifetime}
}
