package telemetry

import "sync/atomic"

// Publisher holds the most recent Snapshot behind an atomic pointer:
// the poll loop calls Publish once per step, and the websocket server
// goroutine calls Latest whenever it wants to push, with no lock and
// no possibility of blocking the data plane (spec clause 5's "lock-free
// end-of-poll snapshot").
type Publisher struct {
	value atomic.Pointer[Snapshot]
}

// Publish stores s as the latest snapshot.
func (p *Publisher) Publish(s Snapshot) {
	p.value.Store(&s)
}

// Latest returns the most recently published Snapshot, or the zero
// value if Publish has never been called.
func (p *Publisher) Latest() Snapshot {
	if s := p.value.Load(); s != nil {
		return *s
	}
	return Snapshot{}
}
