package codec

import (
	"fmt"
	"math"

	"github.com/blockberries/rtcall"
	"github.com/blockberries/rtcall/types"
)

// Address tag bytes. Tags 0x00..0xef are the index itself.
const (
	maxInlineIndex      = 0xef
	tagIndex16     byte = 0xfc
	tagIndex32     byte = 0xfd
	tagIndexFull   byte = 0xfe
	tagAccountID   byte = 0xff
)

// narrowUint32 returns v as a uint32 when it fits.
func narrowUint32(v uint64) (uint32, bool) {
	if v > math.MaxUint32 {
		return 0, false
	}
	return uint32(v), true
}

// PutAddress writes a in its canonical tiered form.
func (e *Encoder) PutAddress(a types.Address) error {
	switch a.Kind {
	case types.KindID:
		if len(a.ID) != e.layout.AccountIDWidth {
			return fmt.Errorf("%w: got %d bytes, want %d", rtcall.ErrAccountIDWidth, len(a.ID), e.layout.AccountIDWidth)
		}
		if err := e.PutByte(tagAccountID); err != nil {
			return err
		}
		return e.PutBytes(a.ID)
	case types.KindIndex:
		return e.putIndex(a.Index)
	default:
		return fmt.Errorf("unknown address kind %s", a.Kind)
	}
}

func (e *Encoder) putIndex(index uint64) error {
	if e.layout.IndexWidth == 4 && index > math.MaxUint32 {
		return fmt.Errorf("%w: %d does not fit in 4 bytes", rtcall.ErrIndexOverflow, index)
	}

	x, ok := narrowUint32(index)
	switch {
	case !ok:
		if err := e.PutByte(tagIndexFull); err != nil {
			return err
		}
		return e.putIndexFull(index)
	case x > 0xffff:
		if err := e.PutByte(tagIndex32); err != nil {
			return err
		}
		return e.PutUint32(x)
	case x > maxInlineIndex:
		if err := e.PutByte(tagIndex16); err != nil {
			return err
		}
		return e.PutUint16(uint16(x))
	default:
		return e.PutByte(byte(x))
	}
}

// putIndexFull writes index at the layout's native index width.
func (e *Encoder) putIndexFull(index uint64) error {
	if e.layout.IndexWidth == 4 {
		return e.PutUint32(uint32(index))
	}
	return e.PutUint64(index)
}

// Address reads an account reference, enforcing that each index tier
// only carries values too large for the tier below it.
func (d *Decoder) Address() (types.Address, error) {
	tag, err := d.ReadByte()
	if err != nil {
		return types.Address{}, fmt.Errorf("address tag: %w", err)
	}

	switch {
	case tag <= maxInlineIndex:
		return types.IndexAddress(uint64(tag)), nil

	case tag == tagIndex16:
		v, err := d.Uint16()
		if err != nil {
			return types.Address{}, err
		}
		if v <= maxInlineIndex {
			return types.Address{}, rtcall.NewNonCanonicalError("address", tag, uint64(v))
		}
		return types.IndexAddress(uint64(v)), nil

	case tag == tagIndex32:
		v, err := d.Uint32()
		if err != nil {
			return types.Address{}, err
		}
		if v <= 0xffff {
			return types.Address{}, rtcall.NewNonCanonicalError("address", tag, uint64(v))
		}
		return types.IndexAddress(uint64(v)), nil

	case tag == tagIndexFull:
		v, err := d.indexFull()
		if err != nil {
			return types.Address{}, err
		}
		if v <= math.MaxUint32 {
			return types.Address{}, rtcall.NewNonCanonicalError("address", tag, v)
		}
		return types.IndexAddress(v), nil

	case tag == tagAccountID:
		id, err := d.ReadBytes(d.layout.AccountIDWidth)
		if err != nil {
			return types.Address{}, fmt.Errorf("account id: %w", err)
		}
		return types.IDAddress(id), nil

	default:
		return types.Address{}, &rtcall.InvalidTagError{Tag: tag}
	}
}

// indexFull reads an index at the layout's native index width.
func (d *Decoder) indexFull() (uint64, error) {
	if d.layout.IndexWidth == 4 {
		v, err := d.Uint32()
		return uint64(v), err
	}
	return d.Uint64()
}
