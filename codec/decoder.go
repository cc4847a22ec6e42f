package codec

import (
	"fmt"
	"io"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"

	"github.com/blockberries/rtcall"
)

// source is an io.Reader over a byte slice that remembers whether any
// read came up short, so scale errors can be classified as truncation.
type source struct {
	data  []byte
	off   int
	short bool
}

func (s *source) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if s.off >= len(s.data) {
		s.short = true
		return 0, io.EOF
	}
	n := copy(p, s.data[s.off:])
	s.off += n
	if n < len(p) {
		s.short = true
	}
	return n, nil
}

// Decoder reads SCALE-encoded values from a byte slice. The slice must
// not be modified while decoding is in progress.
type Decoder struct {
	src    *source
	dec    *scale.Decoder
	layout Layout
}

// NewDecoder returns a decoder reading data under the given layout.
func NewDecoder(layout Layout, data []byte) *Decoder {
	src := &source{data: data}
	return &Decoder{src: src, dec: scale.NewDecoder(src), layout: layout}
}

// Layout returns the layout the decoder was created with.
func (d *Decoder) Layout() Layout { return d.layout }

// Offset returns the number of bytes consumed so far.
func (d *Decoder) Offset() int { return d.src.off }

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int { return len(d.src.data) - d.src.off }

// Finish reports ErrTrailingBytes if any input is left unread.
func (d *Decoder) Finish() error {
	if n := d.Remaining(); n > 0 {
		return fmt.Errorf("%w: %d bytes at offset %d", rtcall.ErrTrailingBytes, n, d.src.off)
	}
	return nil
}

// fail converts a scale error into the codec's taxonomy.
func (d *Decoder) fail(what string, err error) error {
	if d.src.short {
		return fmt.Errorf("reading %s: %w", what, rtcall.ErrTruncated)
	}
	return fmt.Errorf("reading %s: %w", what, err)
}

// ReadByte reads a single byte.
func (d *Decoder) ReadByte() (byte, error) {
	b, err := d.dec.ReadOneByte()
	if err != nil || d.src.short {
		return 0, d.fail("byte", err)
	}
	return b, nil
}

// ReadBytes reads exactly n bytes into a fresh slice.
func (d *Decoder) ReadBytes(n int) ([]byte, error) {
	if n > d.Remaining() {
		return nil, fmt.Errorf("reading %d bytes: %w", n, rtcall.ErrTruncated)
	}
	buf := make([]byte, n)
	if err := d.dec.Read(buf); err != nil {
		return nil, d.fail("bytes", err)
	}
	return buf, nil
}

// Uint16 reads 2 little-endian bytes.
func (d *Decoder) Uint16() (uint16, error) {
	var v uint16
	if err := d.decodeFixed("uint16", &v); err != nil {
		return 0, err
	}
	return v, nil
}

// Uint32 reads 4 little-endian bytes.
func (d *Decoder) Uint32() (uint32, error) {
	var v uint32
	if err := d.decodeFixed("uint32", &v); err != nil {
		return 0, err
	}
	return v, nil
}

// Uint64 reads 8 little-endian bytes.
func (d *Decoder) Uint64() (uint64, error) {
	var v uint64
	if err := d.decodeFixed("uint64", &v); err != nil {
		return 0, err
	}
	return v, nil
}

// Bool reads a single byte that must be 0x00 or 0x01.
func (d *Decoder) Bool() (bool, error) {
	b, err := d.ReadByte()
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("invalid bool byte 0x%02x", b)
	}
}

func (d *Decoder) decodeFixed(what string, target any) error {
	if err := d.dec.Decode(target); err != nil || d.src.short {
		return d.fail(what, err)
	}
	return nil
}
