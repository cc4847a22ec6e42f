package codec

import (
	"bytes"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
)

// Encoder appends SCALE-encoded values to an in-memory buffer.
type Encoder struct {
	buf    bytes.Buffer
	enc    *scale.Encoder
	layout Layout
}

// NewEncoder returns an empty encoder for the given layout.
func NewEncoder(layout Layout) *Encoder {
	e := &Encoder{layout: layout}
	e.enc = scale.NewEncoder(&e.buf)
	return e
}

// Bytes returns the encoded bytes. The slice aliases the encoder's
// buffer until the next write.
func (e *Encoder) Bytes() []byte { return e.buf.Bytes() }

// Len returns the number of bytes written so far.
func (e *Encoder) Len() int { return e.buf.Len() }

// Layout returns the layout the encoder was created with.
func (e *Encoder) Layout() Layout { return e.layout }

// PutByte writes a single byte.
func (e *Encoder) PutByte(b byte) error {
	return e.enc.PushByte(b)
}

// PutBytes writes p verbatim, without a length prefix.
func (e *Encoder) PutBytes(p []byte) error {
	return e.enc.Write(p)
}

// PutUint16 writes v as 2 little-endian bytes.
func (e *Encoder) PutUint16(v uint16) error {
	return e.enc.Encode(v)
}

// PutUint32 writes v as 4 little-endian bytes.
func (e *Encoder) PutUint32(v uint32) error {
	return e.enc.Encode(v)
}

// PutUint64 writes v as 8 little-endian bytes.
func (e *Encoder) PutUint64(v uint64) error {
	return e.enc.Encode(v)
}

// PutBool writes v as a single 0x00 or 0x01 byte.
func (e *Encoder) PutBool(v bool) error {
	if v {
		return e.PutByte(1)
	}
	return e.PutByte(0)
}
