// Package iface drives one GeoNetworking interface: it owns the
// Forwarder, the DCC scheduler, the BTP multiplexer and socket
// registry, and runs the single-threaded poll loop that ties them
// together (spec clause 4.7). Mirrors the teacher's speaker.go: a
// small owning type whose one exported method pumps the whole engine
// forward by one step.
package iface

import (
	"time"

	"github.com/kurkpitaine/veloce-sub004/geonet"
)

// RawFrame is a link-layer frame as handed up by a Device: the
// GeoNetworking payload with its Ethernet/LLC framing already
// stripped, plus the addressing info the poll loop's ingress step
// needs to decide whether to accept it.
type RawFrame struct {
	Payload     []byte
	Sender      geonet.HardwareAddr
	Destination geonet.HardwareAddr
}

// Device is the external collaborator the interface reads frames from
// and writes frames to (spec clause 1's "out of scope: the radio
// device driver"). Both methods are non-blocking: a false/false return
// means "would block", matching the teacher's listener.Accept-style
// non-blocking poll convention adapted to single-threaded use.
type Device interface {
	// Recv returns the next queued inbound frame, if any.
	Recv(now time.Time) (RawFrame, bool)
	// Send transmits payload to dst under access category ac. It
	// returns false if the device's own tx queue is full (a transient
	// "would block", not an error).
	Send(now time.Time, dst geonet.HardwareAddr, payload []byte, ac geonet.AccessCategory) bool
}

// Clock abstracts wall-clock access so tests can supply a fake one;
// production callers pass RealClock.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock with time.Now.
type RealClock struct{}

// Now returns the current wall-clock time.
func (RealClock) Now() time.Time { return time.Now() }

// Rand abstracts the jitter source the beacon timer uses to spread
// beacon transmissions (spec clause 4.2's beacon_max_jitter).
type Rand interface {
	// Jitter returns a value in [0, max).
	Jitter(max time.Duration) time.Duration
}
