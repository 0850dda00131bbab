package dcc

import "github.com/kurkpitaine/veloce-sub004/geonet"

// Entry is one queued frame awaiting transmission: its link-layer
// next hop and the already-encoded GeoNetworking packet.
type Entry struct {
	Destination geonet.HardwareAddr
	Packet      []byte
}

// acQueue is a plain FIFO of Entry, adapted from the teacher's
// queue.Queue: push at the tail, pop from the head, no internal
// locking (the Interface is the single owner).
type acQueue struct {
	items []Entry
}

func newACQueue() *acQueue {
	return &acQueue{items: make([]Entry, 0, 16)}
}

func (q *acQueue) push(e Entry) {
	q.items = append(q.items, e)
}

func (q *acQueue) pop() (Entry, bool) {
	if len(q.items) == 0 {
		return Entry{}, false
	}
	e := q.items[0]
	q.items = q.items[1:]
	return e, true
}

func (q *acQueue) peek() (Entry, bool) {
	if len(q.items) == 0 {
		return Entry{}, false
	}
	return q.items[0], true
}

func (q *acQueue) length() int { return len(q.items) }

// Queues holds the four per-access-category egress buffers, ordered
// from highest to lowest priority.
type Queues struct {
	voice      *acQueue
	video      *acQueue
	bestEffort *acQueue
	background *acQueue
}

// NewQueues builds an empty set of per-AC queues.
func NewQueues() *Queues {
	return &Queues{
		voice:      newACQueue(),
		video:      newACQueue(),
		bestEffort: newACQueue(),
		background: newACQueue(),
	}
}

func (q *Queues) queueFor(ac geonet.AccessCategory) *acQueue {
	switch ac {
	case geonet.ACVoice:
		return q.voice
	case geonet.ACVideo:
		return q.video
	case geonet.ACBestEffort:
		return q.bestEffort
	default:
		return q.background
	}
}

// Push enqueues e onto ac's buffer.
func (q *Queues) Push(ac geonet.AccessCategory, e Entry) {
	q.queueFor(ac).push(e)
}

// HigherPriorityPending reports whether any queue with priority
// strictly above ac is non-empty.
func (q *Queues) HigherPriorityPending(ac geonet.AccessCategory) bool {
	switch ac {
	case geonet.ACVoice:
		return false
	case geonet.ACVideo:
		return q.voice.length() > 0
	case geonet.ACBestEffort:
		return q.voice.length() > 0 || q.video.length() > 0
	default:
		return q.voice.length() > 0 || q.video.length() > 0 || q.bestEffort.length() > 0
	}
}

// NextReady scans the four queues, highest priority first, and
// returns the head entry of the first non-empty one along with its
// access category. Scheduling within an AC is strict FIFO.
func (q *Queues) NextReady() (Entry, geonet.AccessCategory, bool) {
	for _, ac := range [...]geonet.AccessCategory{geonet.ACVoice, geonet.ACVideo, geonet.ACBestEffort, geonet.ACBackground} {
		if e, ok := q.queueFor(ac).peek(); ok {
			return e, ac, true
		}
	}
	return Entry{}, 0, false
}

// Pop removes and returns the head entry of ac's queue.
func (q *Queues) Pop(ac geonet.AccessCategory) (Entry, bool) {
	return q.queueFor(ac).pop()
}

// Empty reports whether every queue is empty.
func (q *Queues) Empty() bool {
	return q.voice.length() == 0 && q.video.length() == 0 && q.bestEffort.length() == 0 && q.background.length() == 0
}
