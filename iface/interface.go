package iface

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/kurkpitaine/veloce-sub004/btp"
	"github.com/kurkpitaine/veloce-sub004/dcc"
	"github.com/kurkpitaine/veloce-sub004/forwarder"
	"github.com/kurkpitaine/veloce-sub004/geonet"
	"github.com/kurkpitaine/veloce-sub004/internal/config"
	"github.com/kurkpitaine/veloce-sub004/internal/telemetry"
	"github.com/kurkpitaine/veloce-sub004/socket"
	"github.com/kurkpitaine/veloce-sub004/timer"
	"github.com/kurkpitaine/veloce-sub004/wire"
)

// PositionSource is the external collaborator supplying ego's own
// kinematic state (spec clause 1's "out of scope: the positioning
// engine"), e.g. a GPSD client or a simulator feed.
type PositionSource interface {
	Position(now time.Time) geonet.LongPositionVector
}

// ChannelMonitor supplies the Channel Busy Ratio samples DCC needs
// (spec clause 1's "out of scope: the channel load measurement");
// nil disables CBR-driven duty-cycle tightening.
type ChannelMonitor interface {
	CBR(now time.Time) float64
}

// egoPosition adapts Interface's cached position into the Position
// interface the Forwarder needs, avoiding a direct forwarder->iface
// dependency.
type egoPosition struct{ iface *Interface }

func (e egoPosition) Ego() geonet.LongPositionVector { return e.iface.lastPos }

// Interface drives one GeoNetworking station: it owns the Forwarder,
// the DCC scheduler, the BTP multiplexer, the socket registry and
// every timer, and exposes the single Poll method that advances all
// of them by one step (spec clause 4.7). Like the teacher's Speaker,
// there is exactly one owner goroutine; Poll is never called
// concurrently with itself.
type Interface struct {
	Forwarder  *forwarder.Forwarder
	Scheduler  *dcc.Scheduler
	BTP        *btp.Multiplexer
	Sockets    *socket.Registry

	device  Device
	clock   Clock
	rand    Rand
	pos     PositionSource
	monitor ChannelMonitor
	log     zerolog.Logger

	cfg *config.Configuration

	lastPos geonet.LongPositionVector

	beaconDeadline *timer.Deadline
	cbrDeadline    *timer.Deadline
}

// New builds an Interface bound to ego's address, wiring the
// Forwarder, DCC scheduler, BTP multiplexer and socket registry from
// cfg. dev/clk/rnd/posSrc are the poll loop's external collaborators;
// monitor may be nil to disable CBR sampling.
func New(cfg *config.Configuration, ego geonet.Address, dev Device, clk Clock, rnd Rand, posSrc PositionSource, monitor ChannelMonitor, log zerolog.Logger) (*Interface, error) {
	fc, err := cfg.ForwarderConfig()
	if err != nil {
		return nil, err
	}

	ifc := &Interface{
		device:  dev,
		clock:   clk,
		rand:    rnd,
		pos:     posSrc,
		monitor: monitor,
		log:     log,
		cfg:     cfg,
	}
	ifc.Forwarder = forwarder.New(fc, ego, egoPosition{ifc})
	ifc.Scheduler = dcc.NewScheduler(cfg.NewController(), cfg.DCC.QueueCapacity)
	ifc.BTP = btp.NewMultiplexer(cfg.UCBufEntryCount)
	ifc.Sockets = socket.NewRegistry(ifc.Forwarder)

	now := clk.Now()
	ifc.lastPos = posSrc.Position(now)
	ifc.beaconDeadline = timer.New(now, cfg.BeaconInterval)
	ifc.cbrDeadline = timer.New(now, 100*time.Millisecond)
	return ifc, nil
}

// Poll runs one iteration of the interface's cooperative loop: ingress,
// egress, then timers, per spec clause 4.7. Returns the instant the
// caller should invoke Poll again at the latest.
func (ifc *Interface) Poll(now time.Time) time.Time {
	ifc.lastPos = ifc.pos.Position(now)

	ifc.pollIngress(now)
	ifc.pollEgress(now)
	ifc.pollTimers(now)
	ifc.drainPending(now)

	return ifc.pollAt(now)
}

// pollIngress drains every frame the device has queued, running it
// through the forwarder and delivering any terminal Indication to the
// matching socket or BTP multiplexer, and transmitting any forwarded
// copy through the DCC gate.
func (ifc *Interface) pollIngress(now time.Time) {
	for {
		raw, ok := ifc.device.Recv(now)
		if !ok {
			return
		}
		if !raw.Destination.IsBroadcast() && raw.Destination != ifc.Forwarder.Ego().Mac {
			continue
		}

		res := ifc.Forwarder.Ingress(raw.Payload, raw.Sender, now)
		if res == nil {
			continue
		}
		if res.Indication != nil {
			ifc.deliver(*res.Indication)
		}
		if res.Forward != nil {
			ifc.transmit(now, *res.Forward)
		}
	}
}

// deliver hands a terminal Indication to the BTP multiplexer (for
// BTP-A/BTP-B upper protocols) or the raw socket registry otherwise.
func (ifc *Interface) deliver(ind forwarder.Indication) {
	btpInd := btp.Indication{
		Source:              ind.Source,
		SourcePosition:      ind.SourcePosition,
		RemainingLifetime:   uint32(ind.RemainingLifetime.Duration().Milliseconds()),
		RemainingHopLimit:   ind.RemainingHopLimit,
		TrafficClass:        ind.TrafficClass,
	}
	switch ind.Upper {
	case wire.CommonNextHeaderBtpA:
		if ifc.BTP.DeliverA(ind.Payload, btpInd) {
			return
		}
	case wire.CommonNextHeaderBtpB:
		if ifc.BTP.DeliverB(ind.Payload, btpInd) {
			return
		}
	}
	ifc.Sockets.Deliver(ind.Upper, ind.Payload, ind)
}

// pollEgress walks every bound socket once, oldest pending send first,
// dispatching each through the forwarder and onto the DCC-gated
// transmit path (spec clause 4.7's egress step).
func (ifc *Interface) pollEgress(now time.Time) {
	for _, s := range ifc.Sockets.Sockets() {
		frame, err, ok := s.DispatchOne(now)
		if !ok || err != nil {
			continue
		}
		if frame != nil {
			ifc.transmit(now, *frame)
		}
	}
}

// pollTimers runs the beacon timer, the Location Service tick, every
// buffer's expiry sweep, and the DCC compute step (spec clause 4.7's
// timers step).
func (ifc *Interface) pollTimers(now time.Time) {
	if ifc.beaconDeadline.Due(now) {
		frame := ifc.Forwarder.EmitBeacon()
		ifc.transmit(now, frame)
		jitter := time.Duration(0)
		if ifc.rand != nil {
			jitter = ifc.rand.Jitter(ifc.cfg.BeaconMaxJitter)
		}
		ifc.beaconDeadline.ResetWith(now, ifc.cfg.BeaconInterval+jitter)
	}

	if frame := ifc.Forwarder.EmitLocationServiceRequest(now); frame != nil {
		ifc.transmit(now, *frame)
	}

	ifc.Forwarder.LSBuf.DropExpired(now)
	ifc.Forwarder.UCBuf.DropExpired(now)
	ifc.Forwarder.BCBuf.DropExpired(now)

	if ifc.monitor != nil && ifc.cfg.DCC.Mode != config.DCCNone && ifc.cbrDeadline.Due(now) {
		ifc.Scheduler.Controller.SampleCBR(ifc.monitor.CBR(now))
		ifc.Scheduler.Controller.Compute()
		ifc.cbrDeadline.Reset(now)
	}
}

// drainPending transmits any Frame the forwarder queued as a side
// effect of flushing the LS or UC buffer during this poll step.
func (ifc *Interface) drainPending(now time.Time) {
	for _, f := range ifc.Forwarder.DrainPending() {
		ifc.transmit(now, f)
	}
}

// transmit hands frame to the DCC scheduler, sending it immediately
// when the gate is open or queuing it behind the matching access
// category otherwise.
func (ifc *Interface) transmit(now time.Time, frame forwarder.Frame) {
	e := dcc.Entry{Destination: frame.Destination, Packet: frame.Payload}
	switch ifc.Scheduler.Request(frame.AccessCategory, e, now) {
	case dcc.ImmediateTx:
		ifc.send(now, e, frame.AccessCategory)
	case dcc.Exhausted:
		ifc.log.Warn().Stringer("ac", frame.AccessCategory).Msg("dcc queue exhausted, frame dropped")
	}
}

// send pushes one entry to the device and notifies the DCC controller
// once the device has accepted it; a failed send is not reported.
func (ifc *Interface) send(now time.Time, e dcc.Entry, ac geonet.AccessCategory) {
	start := now
	if !ifc.device.Send(now, e.Destination, e.Packet, ac) {
		return
	}
	ifc.Scheduler.NotifyTx(now, now.Sub(start))
}

// Snapshot samples the interface's current state for the telemetry
// surface. It only reads exported counters and lengths off the
// Forwarder's owned structures; it never mutates anything, so it is
// safe to call from the poll loop right after Poll returns.
func (ifc *Interface) Snapshot(now time.Time) telemetry.Snapshot {
	pending, failure := ifc.Forwarder.LS.Counts()
	var localCBR float64
	if values := ifc.Forwarder.Table.LocalOneHopCBRValues(now); len(values) > 0 {
		sum := 0.0
		for _, v := range values {
			sum += v
		}
		localCBR = sum / float64(len(values))
	}
	return telemetry.Snapshot{
		Time:           now,
		NeighbourCount: len(ifc.Forwarder.Table.NeighbourList()),
		LocationTable:  ifc.Forwarder.Table.Len(),
		LocalCBR:       localCBR,
		LSPending:      pending,
		LSFailed:       failure,
		DCCDutyCycle:   ifc.Scheduler.Controller.DutyCycle(),
		DCCInterval:    ifc.Scheduler.Controller.TxInterval(),
		LSBufOccupancy: ifc.Forwarder.LSBuf.Len(),
		UCBufOccupancy: ifc.Forwarder.UCBuf.Len(),
		BCBufOccupancy: ifc.Forwarder.BCBuf.Len(),
	}
}

// pollAt computes the next instant Poll must be called by: the
// earliest of the beacon and CBR deadlines, or a 100ms default
// fallback so a saturated device queue still gets drained promptly
// (spec clause 4.7's "poll_at = min of all pending deadlines").
func (ifc *Interface) pollAt(now time.Time) time.Time {
	next := now.Add(100 * time.Millisecond)
	if ifc.beaconDeadline.At().Before(next) {
		next = ifc.beaconDeadline.At()
	}
	if ifc.monitor != nil && ifc.cbrDeadline.At().Before(next) {
		next = ifc.cbrDeadline.At()
	}
	if !ifc.Scheduler.Queues.Empty() {
		if gate := ifc.Scheduler.Controller.NextAllowedAt(); gate.Before(next) {
			next = gate
		}
	}
	return next
}
