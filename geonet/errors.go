// Package geonet holds the types and constants shared by every layer of
// the GeoNetworking stack: the station address, position vector value
// types, traffic class, and the error kinds the forwarder drops packets
// on.
package geonet

import "errors"

// Error kinds returned by the wire codecs and the forwarder. The
// forwarder's policy (spec ETSI EN 302 636-4-1 clause 9.3) is to drop
// silently on any of these during ingress; they are surfaced to callers
// only at the socket and Location Service boundaries.
var (
	// ErrTruncated means the buffer is too short to hold the field being read.
	ErrTruncated = errors.New("geonet: truncated buffer")
	// ErrMalformed means a field holds a value that is structurally invalid.
	ErrMalformed = errors.New("geonet: malformed header")
	// ErrUnrecognized means a well-formed field carries a value this
	// implementation does not know how to handle (e.g. unknown packet type).
	ErrUnrecognized = errors.New("geonet: unrecognized header")
	// ErrDropped is returned by ingress handlers that made a deliberate
	// decision to drop a packet (duplicate, RHL exhausted, DAD self-detect).
	ErrDropped = errors.New("geonet: packet dropped")
	// ErrExhausted means a buffer or device queue has no room.
	ErrExhausted = errors.New("geonet: buffer exhausted")
	// ErrIllegal means the caller asked for an operation invalid in the
	// current state (e.g. cancelling an already-free Location Service slot).
	ErrIllegal = errors.New("geonet: illegal state")
	// ErrUnaddressable means a BTP port of zero was used.
	ErrUnaddressable = errors.New("geonet: unaddressable port")
	// ErrNotFound means no Location Table entry exists for the address.
	ErrNotFound = errors.New("geonet: station not found")
	// ErrBadValue means a caller-supplied configuration value is out of range.
	ErrBadValue = errors.New("geonet: bad value")
)
