package forwarder

import (
	"testing"
	"time"

	"github.com/kurkpitaine/veloce-sub004/geonet"
	"github.com/kurkpitaine/veloce-sub004/wire"
)

// fixedPosition is a stationary Position for tests.
type fixedPosition struct{ pv geonet.LongPositionVector }

func (p fixedPosition) Ego() geonet.LongPositionVector { return p.pv }

func testConfig() Config {
	return Config{
		Version:                    1,
		StationType:                geonet.StationPassengerCar,
		IsMobile:                   true,
		DefaultHopLimit:            10,
		DefaultLifetime:            geonet.LifetimeFromDuration(time.Second),
		DefaultTrafficClass:        geonet.TrafficClass{StoreCarryForward: true, ID: 2},
		BeaconInterval:             3 * time.Second,
		LocTableEntryCount:         16,
		LocTableEntryLifetime:      20 * time.Second,
		DupRingLength:              4,
		LSMaxRetrans:               10,
		LSRetransmitTimer:          time.Second,
		LSBufEntryCount:            8,
		LSBufBytes:                 4096,
		UCBufEntryCount:            8,
		UCBufBytes:                 4096,
		BCBufEntryCount:            8,
		BCBufBytes:                 1500,
		MaxSDUSize:                 1400,
		MaxPacketLifetime:          600 * time.Second,
		MaxGeoAreaSizeKm2:          100,
		AreaForwardingAlgorithm:    AreaSimple,
		NonAreaForwardingAlgorithm: NonAreaGreedyAlgorithm,
		AddrConfMethod:             AddrConfAuto,
		CBRTriggerInterval:         time.Second,
	}
}

func addrWithMac(mac geonet.HardwareAddr) geonet.Address {
	return geonet.Address{StationType: geonet.StationPassengerCar, Mac: mac}
}

func lpvAt(mac geonet.HardwareAddr, lat, lon float64, ts geonet.Timestamp) geonet.LongPositionVector {
	return geonet.LongPositionVector{
		Address:          addrWithMac(mac),
		Timestamp:        ts,
		Latitude:         geonet.LatitudeFromDegrees(lat),
		Longitude:        geonet.LongitudeFromDegrees(lon),
		PositionAccurate: true,
	}
}

// Scenario 1: a Beacon from 03:03:03:03:03:03 registers the sender as
// a one-hop neighbour and produces no forwarded packet.
func TestIngressBeaconRegistersNeighbour(t *testing.T) {
	ego := lpvAt(geonet.HardwareAddr{0x01}, 48.276434, -3.5519532, 1000)
	f := New(testConfig(), ego.Address, fixedPosition{ego})

	srcMac := geonet.HardwareAddr{0x03, 0x03, 0x03, 0x03, 0x03, 0x03}
	src := lpvAt(srcMac, 48.271947, -3.614961, 1000)
	pkt := wire.BeaconPacket{
		Basic:    wire.BasicHeader{Version: 1, NextHeader: wire.NextHeaderAny, Lifetime: geonet.LifetimeFromDuration(time.Second), RemainingHopLimit: 1},
		Common:   wire.CommonHeader{Type: wire.PacketBeacon, TrafficClass: geonet.TrafficClass{ID: 2}, MaxHopLimit: 1},
		Extended: wire.BeaconHeader{Source: src},
	}

	now := time.Unix(1000, 0)
	res := f.Ingress(pkt.Bytes(), srcMac, now)
	if res != nil {
		t.Fatalf("expected no result from a beacon, got %+v", res)
	}

	entry, ok := f.Table.Find(srcMac)
	if !ok {
		t.Fatalf("expected location table entry for beacon source")
	}
	if !entry.IsNeighbour {
		t.Fatalf("expected beacon source to be marked as a neighbour")
	}
}

// Scenario 2: a TSB with (src, seq)=(03:..:03, 1664) and RHL=10 is
// forwarded to the broadcast link-layer address with RHL decremented
// to 9, the location table updated, the source NOT marked as a
// neighbour, and the payload delivered upward.
func TestIngressTopoBroadcastForwardsAndDelivers(t *testing.T) {
	ego := lpvAt(geonet.HardwareAddr{0x01}, 48.276434, -3.5519532, 1000)
	f := New(testConfig(), ego.Address, fixedPosition{ego})

	srcMac := geonet.HardwareAddr{0x03, 0x03, 0x03, 0x03, 0x03, 0x03}
	src := lpvAt(srcMac, 48.271947, -3.614961, 1000)
	payload := []byte("hello")
	pkt := wire.TopoBroadcastPacket{
		Basic:    wire.BasicHeader{Version: 1, NextHeader: wire.NextHeaderAny, Lifetime: geonet.LifetimeFromDuration(time.Second), RemainingHopLimit: 10},
		Common:   wire.CommonHeader{Type: wire.PacketTopoBroadcast, TrafficClass: geonet.TrafficClass{ID: 2}, MaxHopLimit: 10},
		Extended: wire.TopoBroadcastHeader{SequenceNumber: 1664, Source: src},
	}
	raw := append(pkt.Bytes(), payload...)

	now := time.Unix(1000, 0)
	res := f.Ingress(raw, srcMac, now)
	if res == nil {
		t.Fatalf("expected a result from the TSB")
	}
	if res.Indication == nil {
		t.Fatalf("expected the payload to be delivered upward")
	}
	if string(res.Indication.Payload) != "hello" {
		t.Fatalf("expected payload %q, got %q", "hello", res.Indication.Payload)
	}
	if res.Forward == nil {
		t.Fatalf("expected a forwarded frame")
	}
	if res.Forward.Destination != geonet.Broadcast {
		t.Fatalf("expected forward to the broadcast address, got %s", res.Forward.Destination)
	}
	fwdBasic, err := wire.ParseBasicHeader(res.Forward.Payload)
	if err != nil {
		t.Fatalf("parsing forwarded basic header: %v", err)
	}
	if fwdBasic.RemainingHopLimit != 9 {
		t.Fatalf("expected forwarded RHL 9, got %d", fwdBasic.RemainingHopLimit)
	}

	entry, ok := f.Table.Find(srcMac)
	if !ok {
		t.Fatalf("expected location table entry for TSB source")
	}
	if entry.IsNeighbour {
		t.Fatalf("TSB source must not be marked as a neighbour")
	}
}

// Scenario 3: a Geo-Broadcast-Rect area centred at (48.271947,
// -3.614961), a=500m, b=250m, theta=20deg with ego outside the area
// and the immediate sender not a known, accurate neighbour is dropped
// by the forwarding selector, but the location table is still updated
// with the source's PV.
func TestIngressGeoBroadcastOutsideAreaDropsViaSelector(t *testing.T) {
	ego := lpvAt(geonet.HardwareAddr{0x01}, 48.276434, -3.5519532, 1000)
	f := New(testConfig(), ego.Address, fixedPosition{ego})

	srcMac := geonet.HardwareAddr{0x04, 0x04, 0x04, 0x04, 0x04, 0x04}
	src := lpvAt(srcMac, 48.271947, -3.614961, 1000)
	src.PositionAccurate = false // sender's position cannot vouch it is inside the area

	payload := []byte("area-payload")
	ext := wire.GeoAreaHeader{
		SequenceNumber: 1,
		Source:         src,
		Latitude:       geonet.LatitudeFromDegrees(48.271947),
		Longitude:      geonet.LongitudeFromDegrees(-3.614961),
		DistanceA:      500,
		DistanceB:      250,
		Angle:          200, // 20.0 degrees in tenths-of-a-degree
	}
	pkt := wire.BroadcastPacket{
		Basic:    wire.BasicHeader{Version: 1, NextHeader: wire.NextHeaderAny, Lifetime: geonet.LifetimeFromDuration(time.Second), RemainingHopLimit: 5},
		Common:   wire.CommonHeader{Type: wire.PacketGeoBroadcastRect, TrafficClass: geonet.TrafficClass{ID: 2}, MaxHopLimit: 5},
		Extended: ext,
	}
	raw := append(pkt.Bytes(), payload...)

	now := time.Unix(1000, 0)
	res := f.Ingress(raw, srcMac, now)
	if res == nil {
		t.Fatalf("expected a non-nil result")
	}
	if res.Indication != nil {
		t.Fatalf("ego is outside the area, expected no upward delivery")
	}
	if res.Forward != nil {
		t.Fatalf("expected the selector to drop the packet, got a forward")
	}

	if _, ok := f.Table.Find(srcMac); !ok {
		t.Fatalf("expected the location table to retain the source's PV despite the drop")
	}
}

// Scenario 4: sending a Unicast to a destination outside the location
// table arms a Location Service request and buffers the original
// packet; once the matching LS-Reply arrives (relayed through a known
// neighbour), the buffered packet is flushed and a Unicast carrying
// the learned destination PV is emitted.
func TestUnicastResolvesThroughLocationService(t *testing.T) {
	egoAddr := geonet.HardwareAddr{0x01, 0x01, 0x01, 0x01, 0x01, 0x01}
	ego := lpvAt(egoAddr, 48.0, 0.0, 1000)
	f := New(testConfig(), ego.Address, fixedPosition{ego})

	destMac := geonet.HardwareAddr{0x02, 0x02, 0x02, 0x02, 0x02, 0x02}
	dest := addrWithMac(destMac)

	frame, err := f.Egress(Request{
		Kind:          TransportUnicast,
		Destination:   dest,
		TrafficClass:  geonet.TrafficClass{StoreCarryForward: true, ID: 2},
		UpperProtocol: wire.CommonNextHeaderBtpA,
		Payload:       []byte("hi"),
	}, time.Unix(1000, 0))
	if err != nil {
		t.Fatalf("egress to an unresolved destination: %v", err)
	}
	if frame != nil {
		t.Fatalf("expected no immediate frame, the packet should be buffered")
	}
	if f.LSBuf.Len() != 1 {
		t.Fatalf("expected the unicast to be queued in the LS buffer, len=%d", f.LSBuf.Len())
	}

	// A relay we already know as a neighbour, closer to dest than ego.
	relayMac := geonet.HardwareAddr{0x05, 0x05, 0x05, 0x05, 0x05, 0x05}
	relayBeacon := wire.BeaconPacket{
		Basic:    wire.BasicHeader{Version: 1, RemainingHopLimit: 1},
		Common:   wire.CommonHeader{Type: wire.PacketBeacon, MaxHopLimit: 1},
		Extended: wire.BeaconHeader{Source: lpvAt(relayMac, 48.45, 0.0, 1000)},
	}
	if res := f.Ingress(relayBeacon.Bytes(), relayMac, time.Unix(1001, 0)); res != nil {
		t.Fatalf("unexpected result from relay beacon: %+v", res)
	}

	// The LS-Reply, forwarded to us by the relay, carries the
	// destination's freshly learned PV.
	destLPV := lpvAt(destMac, 49.0, 0.0, 2000)
	reply := wire.LocationServiceReplyPacket{
		Basic:  wire.BasicHeader{Version: 1, RemainingHopLimit: 9},
		Common: wire.CommonHeader{Type: wire.PacketLocationServiceReply, TrafficClass: geonet.TrafficClass{ID: 2}, MaxHopLimit: 10},
		Extended: wire.UnicastHeader{
			SequenceNumber: 1,
			Source:         destLPV,
			Destination:    ego.Short(),
		},
	}

	res := f.Ingress(reply.Bytes(), relayMac, time.Unix(1002, 0))
	if res != nil {
		t.Fatalf("an LS-Reply addressed to ego should not itself produce a result, got %+v", res)
	}

	if _, ok := f.Table.Find(destMac); !ok {
		t.Fatalf("expected the destination's PV to be learned in the location table")
	}
	if f.LSBuf.Len() != 0 {
		t.Fatalf("expected the buffered unicast to be flushed, len=%d", f.LSBuf.Len())
	}

	pending := f.DrainPending()
	if len(pending) != 1 {
		t.Fatalf("expected exactly one resent frame, got %d", len(pending))
	}
	if pending[0].Destination != relayMac {
		t.Fatalf("expected the resend to go via the closer relay neighbour, got %s", pending[0].Destination)
	}
	uni, err := wire.ParseUnicastHeader(pending[0].Payload[wire.BasicHeaderLen+wire.CommonHeaderLen:])
	if err != nil {
		t.Fatalf("parsing resent unicast header: %v", err)
	}
	if uni.Destination.Latitude != destLPV.Latitude || uni.Destination.Longitude != destLPV.Longitude {
		t.Fatalf("expected the resent packet to carry the learned destination PV")
	}
}

// Scenario 5: enqueueing ten 200-byte packets into a 1500-byte
// broadcast buffer evicts FIFO once the byte quota is exceeded, and
// never exceeds the configured entry quota.
func TestBroadcastBufferEvictsFIFOOnByteQuota(t *testing.T) {
	ego := lpvAt(geonet.HardwareAddr{0x01}, 48.0, 0.0, 1000)
	f := New(testConfig(), ego.Address, fixedPosition{ego})

	now := time.Unix(1000, 0)
	for i := 0; i < 10; i++ {
		pkt := wire.TopoBroadcastPacket{
			Basic:    wire.BasicHeader{Version: 1, RemainingHopLimit: 5},
			Common:   wire.CommonHeader{Type: wire.PacketTopoBroadcast, MaxHopLimit: 5},
			Extended: wire.TopoBroadcastHeader{SequenceNumber: geonet.SequenceNumber(i), Source: ego},
		}
		payload := make([]byte, 200-pkt.Len())
		err := f.BCBuf.Enqueue(BufferedBroadcast{Packet: pkt, Payload: payload}, bcMeta(pkt, payload, time.Minute), now)
		if err != nil {
			t.Fatalf("enqueue %d: %v", i, err)
		}
		if f.BCBuf.UsedBytes() > 1500 {
			t.Fatalf("used bytes %d exceeds capacity after enqueue %d", f.BCBuf.UsedBytes(), i)
		}
	}
	if f.BCBuf.Len() > f.Config.BCBufEntryCount {
		t.Fatalf("entry count %d exceeds configured quota %d", f.BCBuf.Len(), f.Config.BCBufEntryCount)
	}
	if f.BCBuf.UsedBytes() > 1500 {
		t.Fatalf("final used bytes %d exceeds capacity", f.BCBuf.UsedBytes())
	}
}

// Scenario 6 is an access-layer (DCC) property, not a forwarder one;
// see dcc's own tests for the gate-reopen timing it covers.

func TestAreaDropDoesNotRegressOnAccurateInsideSender(t *testing.T) {
	ego := lpvAt(geonet.HardwareAddr{0x01}, 48.276434, -3.5519532, 1000)
	f := New(testConfig(), ego.Address, fixedPosition{ego})

	srcMac := geonet.HardwareAddr{0x06, 0x06, 0x06, 0x06, 0x06, 0x06}
	src := lpvAt(srcMac, 48.271947, -3.614961, 1000) // accurate and inside the area

	ext := wire.GeoAreaHeader{
		SequenceNumber: 1,
		Source:         src,
		Latitude:       geonet.LatitudeFromDegrees(48.271947),
		Longitude:      geonet.LongitudeFromDegrees(-3.614961),
		DistanceA:      500,
		DistanceB:      250,
		Angle:          200,
	}
	pkt := wire.BroadcastPacket{
		Basic:    wire.BasicHeader{Version: 1, RemainingHopLimit: 5},
		Common:   wire.CommonHeader{Type: wire.PacketGeoBroadcastRect, TrafficClass: geonet.TrafficClass{ID: 2}, MaxHopLimit: 5},
		Extended: ext,
	}
	raw := append(pkt.Bytes(), []byte("payload")...)

	res := f.Ingress(raw, srcMac, time.Unix(1000, 0))
	if res == nil {
		t.Fatalf("expected a non-nil result")
	}
	if res.Forward == nil {
		t.Fatalf("an accurate, in-area sender should fall back to non-area greedy rather than dropping")
	}
}
