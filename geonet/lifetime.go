package geonet

import "time"

// lifetimeBase enumerates the 2-bit base selector of the Basic Header
// lifetime field (spec clause 6): 50 ms, 1 s, 10 s, 100 s.
var lifetimeBase = [4]time.Duration{
	50 * time.Millisecond,
	1 * time.Second,
	10 * time.Second,
	100 * time.Second,
}

// Lifetime is the Basic Header variable-precision packet lifetime: a
// 6-bit multiplier and a 2-bit base selector packed into one byte.
type Lifetime struct {
	Multiplier uint8 // 6 bits, 0..63
	Base       uint8 // 2 bits, index into lifetimeBase
}

// LifetimeFromDuration picks the finest base whose 6-bit multiplier can
// hold d, truncating d down to a whole number of base units; a d shorter
// than the finest (50ms) base encodes with a zero multiplier.
func LifetimeFromDuration(d time.Duration) Lifetime {
	if d <= 0 {
		return Lifetime{}
	}
	for i, base := range lifetimeBase {
		mult := d / base
		if mult <= 63 {
			return Lifetime{Multiplier: uint8(mult), Base: uint8(i)}
		}
	}
	// Too large even for the coarsest (100s) base: saturate.
	return Lifetime{Multiplier: 63, Base: 3}
}

// Duration returns the decoded lifetime as a time.Duration.
func (l Lifetime) Duration() time.Duration {
	return time.Duration(l.Multiplier) * lifetimeBase[l.Base&0x03]
}

// Byte serializes l into its 1-byte wire representation: 6-bit
// multiplier in the high bits, 2-bit base in the low bits.
func (l Lifetime) Byte() byte {
	return (l.Multiplier&0x3f)<<2 | (l.Base & 0x03)
}

// LifetimeFromByte parses a Lifetime from its 1-byte wire representation.
func LifetimeFromByte(b byte) Lifetime {
	return Lifetime{Multiplier: (b >> 2) & 0x3f, Base: b & 0x03}
}

// SequenceNumber is the interface-wide monotonically wrapping 16-bit
// sequence number used on every GN packet type that carries one (spec
// clause 4.4.4).
type SequenceNumber uint16

// Next returns the next sequence number, wrapping at 2^16.
func (s SequenceNumber) Next() SequenceNumber { return s + 1 }
