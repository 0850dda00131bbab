// Package stream provides the byte-buffer read/write helpers the wire
// codecs build their header (de)serialization on top of. All
// GeoNetworking wire values are big-endian (network byte order).
package stream

import (
	"bytes"
	"encoding/binary"
	"io"
)

// Read consumes up to count bytes from r and returns them. It is used by
// the device adapters that hand raw frames to the wire decoders.
func Read(r io.Reader, count int) []byte {
	if count == 0 {
		return nil
	}
	b := make([]byte, count)
	n, _ := io.ReadFull(r, b)
	return b[:n]
}

// ReadBytes reads n bytes from the byte buffer and returns them.
func ReadBytes(n int, buf *bytes.Buffer) []byte {
	bs := make([]byte, n)
	for i := range bs {
		bs[i], _ = buf.ReadByte()
	}
	return bs
}

// ReadByte reads a single byte off the given byte buffer and returns it.
func ReadByte(buf *bytes.Buffer) byte {
	return ReadBytes(1, buf)[0]
}

// ReadUint16 reads 2 bytes off the buffer and returns them as a uint16.
func ReadUint16(buf *bytes.Buffer) uint16 {
	return binary.BigEndian.Uint16(ReadBytes(2, buf))
}

// ReadUint32 reads 4 bytes off the buffer and returns them as a uint32.
func ReadUint32(buf *bytes.Buffer) uint32 {
	return binary.BigEndian.Uint32(ReadBytes(4, buf))
}

// ReadInt32 reads 4 bytes off the buffer and returns them as a signed int32.
func ReadInt32(buf *bytes.Buffer) int32 {
	return int32(ReadUint32(buf))
}

// WriteByte appends a single byte to buf.
func WriteByte(buf *bytes.Buffer, v byte) {
	buf.WriteByte(v)
}

// WriteUint16 appends v to buf as a big-endian uint16.
func WriteUint16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

// WriteUint32 appends v to buf as a big-endian uint32.
func WriteUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

// WriteInt32 appends v to buf as a big-endian signed int32.
func WriteInt32(buf *bytes.Buffer, v int32) {
	WriteUint32(buf, uint32(v))
}
