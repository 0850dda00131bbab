// Package loctable implements the Location Table: a bounded neighbour
// cache keyed by link-layer address, with position-vector freshness
// arbitration, a per-neighbour duplicate sequence-number ring, and
// EMA-smoothed packet-data-rate tracking.
package loctable

import (
	"time"

	"github.com/kurkpitaine/veloce-sub004/geonet"
)

// pdrSmoothing is the EMA weight given to the prior PDR estimate (beta
// in the spec's pdr <- beta*pdr + (1-beta)*instant).
const pdrSmoothing = 0.9

// Entry is a single Location Table record.
type Entry struct {
	PV            geonet.LongPositionVector
	LsPending     *int
	IsNeighbour   bool
	dupRing       []geonet.SequenceNumber
	dupRingCap    int
	PDR           float64
	pdrUpdatedAt  time.Time
	ExpiresAt     time.Time
	LocalCBR      float64
}

func newEntry(pv geonet.LongPositionVector, ringCap int, now, expiresAt time.Time) *Entry {
	return &Entry{
		PV:           pv,
		dupRingCap:   ringCap,
		pdrUpdatedAt: now,
		ExpiresAt:    expiresAt,
	}
}

func (e *Entry) hasSeq(seq geonet.SequenceNumber) bool {
	for _, s := range e.dupRing {
		if s == seq {
			return true
		}
	}
	return false
}

// InsertSeq records seq as seen, evicting the oldest entry in the ring
// if it is at capacity. Insertion is the caller's responsibility, per
// the two distinct behaviours the forwarder needs from duplicate
// detection.
func (e *Entry) InsertSeq(seq geonet.SequenceNumber) {
	if e.dupRingCap <= 0 {
		return
	}
	if len(e.dupRing) >= e.dupRingCap {
		e.dupRing = e.dupRing[1:]
	}
	e.dupRing = append(e.dupRing, seq)
}

// UpdatePDR folds a newly observed packet of size bytes at time t into
// the entry's smoothed packet-data-rate estimate.
func (e *Entry) UpdatePDR(sizeBytes int, t time.Time) {
	dt := t.Sub(e.pdrUpdatedAt).Seconds()
	if dt > 0 {
		instant := float64(sizeBytes) / dt
		e.PDR = pdrSmoothing*e.PDR + (1-pdrSmoothing)*instant
	}
	e.pdrUpdatedAt = t
}

// Table is the bounded Location Table, keyed by the neighbour's
// 6-byte link-layer address.
type Table struct {
	entries    map[geonet.HardwareAddr]*Entry
	capacity   int
	lifetime   time.Duration
	ringCap    int
}

// New builds an empty Table with capacity entries, each carrying a
// LOC_LIFETIME of lifetime and a duplicate-sequence ring of ringCap
// slots.
func New(capacity int, lifetime time.Duration, ringCap int) *Table {
	return &Table{
		entries:  make(map[geonet.HardwareAddr]*Entry, capacity),
		capacity: capacity,
		lifetime: lifetime,
		ringCap:  ringCap,
	}
}

// Find returns the entry for mac, if present.
func (t *Table) Find(mac geonet.HardwareAddr) (*Entry, bool) {
	e, ok := t.entries[mac]
	return e, ok
}

// Len reports the current entry count.
func (t *Table) Len() int { return len(t.entries) }

// Update merges pv into the table: if an entry exists for pv's MAC, its
// PV is replaced only if pv is fresher (per the wrap-aware freshness
// relation); expiry is always refreshed. If absent, a new entry is
// inserted, evicting the minimum-expiry entry first if the table is
// full. The resulting entry is returned.
func (t *Table) Update(pv geonet.LongPositionVector, now time.Time) *Entry {
	return t.UpdateIf(pv, now, func(*Entry) bool { return true })
}

// UpdateIf is Update, but the PV replacement additionally requires
// pred(existing) to hold. Insertion of a missing entry is unconditional.
func (t *Table) UpdateIf(pv geonet.LongPositionVector, now time.Time, pred func(*Entry) bool) *Entry {
	mac := pv.Address.Mac
	expiresAt := now.Add(t.lifetime)

	if e, ok := t.entries[mac]; ok {
		if pred(e) && pv.Fresher(e.PV) {
			e.PV = pv
		}
		e.ExpiresAt = expiresAt
		return e
	}

	if len(t.entries) >= t.capacity {
		t.evictMinExpiry()
	}
	e := newEntry(pv, t.ringCap, now, expiresAt)
	t.entries[mac] = e
	return e
}

func (t *Table) evictMinExpiry() {
	var victim geonet.HardwareAddr
	var min time.Time
	first := true
	for mac, e := range t.entries {
		if first || e.ExpiresAt.Before(min) {
			victim, min = mac, e.ExpiresAt
			first = false
		}
	}
	if !first {
		delete(t.entries, victim)
	}
}

// DuplicatePacketDetection reports whether seq has already been seen
// from addr: (false, false) if addr has no entry, (true/false, true)
// otherwise. It does not insert seq; InsertSeq is the caller's job.
func (t *Table) DuplicatePacketDetection(mac geonet.HardwareAddr, seq geonet.SequenceNumber) (dup bool, known bool) {
	e, ok := t.entries[mac]
	if !ok {
		return false, false
	}
	return e.hasSeq(seq), true
}

// HasNeighbour reports whether mac is a known one-hop neighbour.
func (t *Table) HasNeighbour(mac geonet.HardwareAddr) bool {
	e, ok := t.entries[mac]
	return ok && e.IsNeighbour
}

// NeighbourList returns every entry currently marked as a one-hop
// neighbour.
func (t *Table) NeighbourList() []*Entry {
	out := make([]*Entry, 0, len(t.entries))
	for _, e := range t.entries {
		if e.IsNeighbour {
			out = append(out, e)
		}
	}
	return out
}

// Flush removes every expired entry (ExpiresAt <= now).
func (t *Table) Flush(now time.Time) {
	for mac, e := range t.entries {
		if !e.ExpiresAt.After(now) {
			delete(t.entries, mac)
		}
	}
}

// LocalOneHopCBRValues returns the Channel Busy Ratio values reported
// by current one-hop neighbours, for the DCC global-CBR computation
// (ETSI TS 102 636-4-2).
func (t *Table) LocalOneHopCBRValues(now time.Time) []float64 {
	out := make([]float64, 0, len(t.entries))
	for _, e := range t.entries {
		if e.IsNeighbour && e.ExpiresAt.After(now) {
			out = append(out, e.LocalCBR)
		}
	}
	return out
}
