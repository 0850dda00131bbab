package dcc

import (
	"time"

	"github.com/kurkpitaine/veloce-sub004/geonet"
)

// Outcome reports what the Scheduler did with a transmit request.
type Outcome int

const (
	// ImmediateTx means the request bypassed queuing and is ready for
	// the device to send right away.
	ImmediateTx Outcome = iota
	// Enqueued means the request was buffered behind the gate.
	Enqueued
	// Exhausted means the AC's queue was at capacity and the request
	// was dropped.
	Exhausted
)

// Scheduler drives one Controller plus its Queues: it gates immediate
// transmission on the controller's duty cycle, and otherwise buffers
// per access category (spec clause 4.6). There is exactly one
// scheduler per DCC-managed interface; it is polled from the
// interface loop, never from a goroutine.
type Scheduler struct {
	Controller *Controller
	Queues     *Queues
	queueCap   int
}

// NewScheduler builds a Scheduler over ctrl, capping each AC queue at
// queueCap entries (0 means unbounded).
func NewScheduler(ctrl *Controller, queueCap int) *Scheduler {
	return &Scheduler{Controller: ctrl, Queues: NewQueues(), queueCap: queueCap}
}

// Request asks the scheduler to transmit e under access category ac
// at time now. It bypasses queuing (returning ImmediateTx) when no
// higher-or-equal-priority queue is pending and the gate is open;
// otherwise the entry is queued.
func (s *Scheduler) Request(ac geonet.AccessCategory, e Entry, now time.Time) Outcome {
	if !s.Queues.HigherPriorityPending(ac) && s.Queues.queueFor(ac).length() == 0 && s.Controller.GateOpen(now) {
		return ImmediateTx
	}
	if s.queueCap > 0 && s.Queues.queueFor(ac).length() >= s.queueCap {
		return Exhausted
	}
	s.Queues.Push(ac, e)
	return Enqueued
}

// Poll is called once per interface tick: if the gate is open and some
// queue is non-empty, it pops and returns the highest-priority ready
// entry for transmission. The caller must call NotifyTx afterward.
func (s *Scheduler) Poll(now time.Time) (Entry, bool) {
	if !s.Controller.GateOpen(now) {
		return Entry{}, false
	}
	e, ac, ok := s.Queues.NextReady()
	if !ok {
		return Entry{}, false
	}
	s.Queues.Pop(ac)
	return e, true
}

// NotifyTx feeds a completed transmission back to the controller.
func (s *Scheduler) NotifyTx(now time.Time, dur time.Duration) {
	s.Controller.NotifyTx(now, dur)
}
