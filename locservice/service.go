// Package locservice implements the Location Service: a bounded slot
// array of outstanding address-resolution requests, each retried on a
// fixed schedule until it either resolves (the caller calls Cancel) or
// exhausts its retry budget and moves to Failure.
package locservice

import (
	"errors"
	"time"

	"github.com/kurkpitaine/veloce-sub004/geonet"
)

// ErrNoFreeSlot is returned by Request when every slot is occupied.
var ErrNoFreeSlot = errors.New("locservice: no free slot")

// State is a request's lifecycle stage.
type State int

const (
	StatePending State = iota
	StateFailure
)

// Handle identifies a slot in the Location Service for its entire
// lifetime; it does not point back into the Location Table.
type Handle int

type slot struct {
	occupied     bool
	state        State
	addr         geonet.Address
	retransmitAt time.Time
	attempts     int
}

// Service is the bounded Location Service.
type Service struct {
	slots       []slot
	maxAttempts int
	retxPeriod  time.Duration
}

// New builds a Service with capacity slots, allowing maxAttempts
// retransmissions per request spaced retxPeriod apart.
func New(capacity, maxAttempts int, retxPeriod time.Duration) *Service {
	return &Service{
		slots:       make([]slot, capacity),
		maxAttempts: maxAttempts,
		retxPeriod:  retxPeriod,
	}
}

// Request allocates the first free slot for addr, or ErrNoFreeSlot if
// the Service is at capacity.
func (s *Service) Request(addr geonet.Address) (Handle, error) {
	for i := range s.slots {
		if !s.slots[i].occupied {
			s.slots[i] = slot{occupied: true, state: StatePending, addr: addr}
			return Handle(i), nil
		}
	}
	return -1, ErrNoFreeSlot
}

// Cancel frees h's slot. It panics if the slot is already free, since
// that indicates a programmer error (double cancel, or a stale handle).
func (s *Service) Cancel(h Handle) {
	sl := &s.slots[h]
	if !sl.occupied {
		panic("locservice: cancel of an already-free slot")
	}
	*sl = slot{}
}

// Lookup returns the address and state tracked by h, if still occupied.
func (s *Service) Lookup(h Handle) (geonet.Address, State, bool) {
	sl := &s.slots[h]
	if !sl.occupied {
		return geonet.Address{}, 0, false
	}
	return sl.addr, sl.state, true
}

// Emission is one LS Request the Service wants broadcast on this tick.
type Emission struct {
	Handle  Handle
	Address geonet.Address
}

// Tick advances every Pending slot's schedule. At most one LS Request
// is emitted per call, matching the spec's "beacon timer is deferred
// after emission" rule (the interface's single egress-per-tick
// discipline). Slots whose attempts exceed maxAttempts move to
// Failure; Failure slots are reported via reap so the caller can drop
// their buffered traffic and free them.
func (s *Service) Tick(now time.Time) (emit *Emission, reap []Handle) {
	for i := range s.slots {
		sl := &s.slots[i]
		if !sl.occupied {
			continue
		}
		switch sl.state {
		case StatePending:
			if sl.attempts > s.maxAttempts {
				sl.state = StateFailure
				continue
			}
			if emit == nil && !now.Before(sl.retransmitAt) {
				if sl.retransmitAt.IsZero() {
					sl.retransmitAt = now
				}
				sl.attempts++
				sl.retransmitAt = sl.retransmitAt.Add(s.retxPeriod)
				emit = &Emission{Handle: Handle(i), Address: sl.addr}
			}
		case StateFailure:
			reap = append(reap, Handle(i))
		}
	}
	return emit, reap
}

// Reap frees every slot named in handles; called after the caller has
// dropped the corresponding buffered traffic.
func (s *Service) Reap(handles []Handle) {
	for _, h := range handles {
		s.slots[h] = slot{}
	}
}

// Counts reports how many slots are currently Pending and Failure,
// for the telemetry snapshot.
func (s *Service) Counts() (pending, failure int) {
	for i := range s.slots {
		if !s.slots[i].occupied {
			continue
		}
		if s.slots[i].state == StateFailure {
			failure++
		} else {
			pending++
		}
	}
	return pending, failure
}
