// Package security declares the seam the forwarder leaves open for a
// secured-envelope collaborator (spec clause 9: the security
// next-header kind is declared on the wire, but the security service
// itself is out of scope for this engine). Nothing in this package
// implements ETSI TS 103 097 signing or validation; it only gives a
// caller that does a place to plug in.
package security

import "errors"

// ErrUnsupported is returned by NopBackend for every operation.
var ErrUnsupported = errors.New("security: no backend configured")

// Backend wraps and unwraps a GeoNetworking packet's basic, common and
// extended headers inside a secured envelope. The Forwarder takes no
// Backend: it drops every packet whose Common Header advertises
// wire.CommonNextHeaderSecured, per the engine's silent-drop policy.
type Backend interface {
	// Sign wraps headers+payload into a secured envelope ready to
	// transmit.
	Sign(headers []byte, payload []byte) ([]byte, error)
	// Verify unwraps a secured envelope, returning the original
	// headers and payload if the envelope validates.
	Verify(envelope []byte) (headers []byte, payload []byte, err error)
}

// NopBackend rejects every envelope. It gives a caller a Backend-shaped
// value when no real security stack is present; neither the forwarder
// nor the interface poll loop takes a Backend.
type NopBackend struct{}

// Sign always fails: NopBackend has no signing key material.
func (NopBackend) Sign(headers, payload []byte) ([]byte, error) {
	return nil, ErrUnsupported
}

// Verify always fails: NopBackend cannot validate a secured envelope.
func (NopBackend) Verify(envelope []byte) ([]byte, []byte, error) {
	return nil, nil, ErrUnsupported
}
