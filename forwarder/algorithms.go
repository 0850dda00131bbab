package forwarder

import (
	"github.com/kurkpitaine/veloce-sub004/area"
	"github.com/kurkpitaine/veloce-sub004/geonet"
	"github.com/kurkpitaine/veloce-sub004/loctable"
)

// AreaAlgorithm selects the geo-broadcast/anycast forwarding strategy
// used once the packet is known to be inside its target area.
type AreaAlgorithm int

const (
	AreaSimple AreaAlgorithm = iota
	AreaCBF
	AreaAdvanced
)

// NonAreaAlgorithm selects the unicast forwarding strategy.
type NonAreaAlgorithm int

const (
	NonAreaGreedyAlgorithm NonAreaAlgorithm = iota
	NonAreaCBF
)

// ErrCBFUnimplemented is returned by ValidateAlgorithms when a
// configuration requests contention-based forwarding: the engine does
// not implement CBF and refuses to silently fall back to something
// else (spec clause 9, open question).
type ErrCBFUnimplemented struct{ Which string }

func (e ErrCBFUnimplemented) Error() string {
	return "forwarder: CBF forwarding algorithm (" + e.Which + ") is not implemented"
}

// ValidateAlgorithms rejects any configuration that asks for CBF,
// rather than silently downgrading it to Simple/Greedy.
func ValidateAlgorithms(area AreaAlgorithm, nonArea NonAreaAlgorithm) error {
	if area == AreaCBF {
		return ErrCBFUnimplemented{Which: "area"}
	}
	if nonArea == NonAreaCBF {
		return ErrCBFUnimplemented{Which: "non-area"}
	}
	return nil
}

// ForwardDecision is the result of running a forwarding algorithm.
type ForwardDecision int

const (
	// DecisionBroadcast means emit to the link-layer broadcast address.
	DecisionBroadcast ForwardDecision = iota
	// DecisionUnicast means emit to NextHop.
	DecisionUnicast
	// DecisionBuffer means store-carry-forward: the caller should
	// enqueue the packet rather than transmit it now.
	DecisionBuffer
	// DecisionDrop means the packet must not be forwarded at all.
	DecisionDrop
)

// Result carries a ForwardDecision plus the next-hop address when
// DecisionUnicast is returned.
type Result struct {
	Decision ForwardDecision
	NextHop  geonet.HardwareAddr
}

// NonAreaGreedy implements the greedy-forwarding algorithm: it picks
// the neighbour strictly closer to dest than ego is, or falls back to
// buffering (if the traffic class allows store-carry-forward) or
// broadcast.
func NonAreaGreedy(table *loctable.Table, egoLat geonet.Latitude, egoLon geonet.Longitude, destLat geonet.Latitude, destLon geonet.Longitude, scf bool) Result {
	d := area.Distance(egoLat, egoLon, destLat, destLon)

	var best *loctable.Entry
	bestDist := d
	for _, n := range table.NeighbourList() {
		nd := area.Distance(n.PV.Latitude, n.PV.Longitude, destLat, destLon)
		if nd < bestDist {
			bestDist = nd
			best = n
		}
	}
	if best != nil {
		return Result{Decision: DecisionUnicast, NextHop: best.PV.Address.Mac}
	}
	if scf {
		return Result{Decision: DecisionBuffer}
	}
	return Result{Decision: DecisionBroadcast}
}

// AreaSimpleForward implements the trivial area forwarding algorithm:
// broadcast unconditionally.
func AreaSimpleForward() Result {
	return Result{Decision: DecisionBroadcast}
}

// Selector implements the spec's forwarding-algorithm selector for
// geo-broadcast/anycast packets that are NOT inside their area: if the
// packet's sender is a known neighbour whose PV is accurate and lies
// inside a, fall back to non-area greedy; otherwise the packet is
// dropped (it reached us, but we are outside the area and the sender
// isn't inside it either).
func Selector(table *loctable.Table, senderMAC geonet.HardwareAddr, a area.Area, egoLat geonet.Latitude, egoLon geonet.Longitude, destLat geonet.Latitude, destLon geonet.Longitude, scf bool) Result {
	sender, ok := table.Find(senderMAC)
	if ok && sender.PV.PositionAccurate && a.Contains(sender.PV.Latitude, sender.PV.Longitude) {
		return NonAreaGreedy(table, egoLat, egoLon, destLat, destLon, scf)
	}
	return Result{Decision: DecisionDrop}
}
