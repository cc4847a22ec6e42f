package codec

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"

	"github.com/blockberries/rtcall"
)

// PutCompact writes v in SCALE compact form.
func (e *Encoder) PutCompact(v *big.Int) error {
	if v.Sign() < 0 {
		return fmt.Errorf("compact: negative value %s", v)
	}
	return e.enc.EncodeUintCompact(*v)
}

// PutAmount writes a balance amount as a compact integer, rejecting
// values wider than the layout's balance width.
func (e *Encoder) PutAmount(v *uint256.Int) error {
	if v.BitLen() > 8*e.layout.BalanceWidth {
		return fmt.Errorf("%w: %d bits, limit %d", rtcall.ErrAmountOverflow, v.BitLen(), 8*e.layout.BalanceWidth)
	}
	return e.PutCompact(v.ToBig())
}

// Compact reads a compact integer. A value that is not in its
// shortest compact form is rejected with a NonCanonicalError.
func (d *Decoder) Compact() (*big.Int, error) {
	start := d.src.off
	v, err := d.dec.DecodeUintCompact()
	// DecodeUintCompact swallows a failed first read, so truncation
	// is detected from the source rather than from err.
	if err != nil || d.src.short {
		return nil, d.fail("compact", err)
	}
	if n := d.src.off - start; n != compactLen(v) {
		return nil, &rtcall.NonCanonicalError{Field: "compact", Tag: d.src.data[start], Value: v}
	}
	return v, nil
}

// Amount reads a compact balance amount bounded by the layout's
// balance width.
func (d *Decoder) Amount() (uint256.Int, error) {
	v, err := d.Compact()
	if err != nil {
		return uint256.Int{}, err
	}
	if v.BitLen() > 8*d.layout.BalanceWidth {
		return uint256.Int{}, fmt.Errorf("%w: %d bits, limit %d", rtcall.ErrAmountOverflow, v.BitLen(), 8*d.layout.BalanceWidth)
	}
	amount, overflow := uint256.FromBig(v)
	if overflow {
		return uint256.Int{}, fmt.Errorf("%w: %d bits", rtcall.ErrAmountOverflow, v.BitLen())
	}
	return *amount, nil
}

// compactLen is the length of the shortest compact encoding of v.
func compactLen(v *big.Int) int {
	if v.IsUint64() {
		switch x := v.Uint64(); {
		case x < 1<<6:
			return 1
		case x < 1<<14:
			return 2
		case x < 1<<30:
			return 4
		}
	}
	n := (v.BitLen() + 7) / 8
	if n < 4 {
		n = 4
	}
	return 1 + n
}
