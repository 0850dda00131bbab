// Package timer provides a fancier timer than time.Timer for a
// single-threaded, cooperatively-polled engine: a plain deadline value
// compared against the caller's notion of "now" inside a poll loop,
// instead of a goroutine callback. GeoNetworking's Interface owns every
// mutable structure from one task (spec clause 5); firing a callback on
// its own goroutine would break that single-owner invariant, so unlike
// the callback-based timer this package is adapted from, Deadline never
// spawns anything — the poll loop decides when time has passed.
package timer

import "time"

// Deadline is a point in time after which an action is due, plus the
// interval used to reschedule it.
type Deadline struct {
	at       time.Time
	interval time.Duration
}

// New creates a Deadline due at now+d, recurring every d once armed.
func New(now time.Time, d time.Duration) *Deadline {
	return &Deadline{at: now.Add(d), interval: d}
}

// Due reports whether the deadline has passed as of now.
func (d *Deadline) Due(now time.Time) bool {
	return !now.Before(d.at)
}

// At returns the instant the deadline is due.
func (d *Deadline) At() time.Time { return d.at }

// Reset reschedules the deadline to now plus its configured interval.
func (d *Deadline) Reset(now time.Time) {
	d.at = now.Add(d.interval)
}

// ResetWith reschedules the deadline to now plus a new interval,
// remembering the new interval for subsequent Reset calls.
func (d *Deadline) ResetWith(now time.Time, interval time.Duration) {
	d.interval = interval
	d.at = now.Add(interval)
}

// Advance pushes the deadline forward by its interval, relative to its
// own current value rather than now.
func (d *Deadline) Advance() {
	d.at = d.at.Add(d.interval)
}
