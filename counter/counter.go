// Package counter provides a small 64-bit counter type. No other
// package in this module uses it; the telemetry snapshot carries no
// counter values.
package counter

import "fmt"

// Counter is a 64 bit counter.
type Counter struct {
	count uint64
}

// New creates a new 64 bit counter.
func New() *Counter {
	return new(Counter)
}

// Reset zeroes the counter.
func (c *Counter) Reset() {
	c.count = 0
}

// Increment adds one to the counter.
func (c *Counter) Increment() {
	c.count++
}

// Add adds n to the counter, used for byte totals.
func (c *Counter) Add(n uint64) {
	c.count += n
}

// Value returns the current count.
func (c *Counter) Value() uint64 {
	return c.count
}

// String implements fmt.Stringer.
func (c *Counter) String() string {
	return fmt.Sprintf("%d", c.count)
}

// Group is a named set of counters, snapshotted as a plain map for
// telemetry export.
type Group struct {
	counters map[string]*Counter
}

// NewGroup creates an empty counter group.
func NewGroup() *Group {
	return &Group{counters: make(map[string]*Counter)}
}

// Get returns the counter for name, creating it on first use.
func (g *Group) Get(name string) *Counter {
	c, ok := g.counters[name]
	if !ok {
		c = New()
		g.counters[name] = c
	}
	return c
}

// Snapshot returns a name->value copy of every counter in the group.
func (g *Group) Snapshot() map[string]uint64 {
	out := make(map[string]uint64, len(g.counters))
	for name, c := range g.counters {
		out[name] = c.Value()
	}
	return out
}
