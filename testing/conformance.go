package rtcalltest

import (
	"bytes"
	"errors"
	"testing"

	"github.com/blockberries/rtcall"
	"github.com/blockberries/rtcall/codec"
)

// RunConformanceSuite checks a codec configured for the reference
// node runtime (64-bit index layout, Balances at index 5) against the
// reference wire vectors. Any byte difference means calls would be
// misrouted or rejected by the ledger.
func RunConformanceSuite(t *testing.T, c *codec.Codec) {
	t.Helper()

	t.Run("address_encode", func(t *testing.T) {
		for _, v := range AddressVectors() {
			got, err := c.EncodeAddress(v.Address)
			if err != nil {
				t.Errorf("%s: encode failed: %v", v.Name, err)
				continue
			}
			if want := Bytes(v.Hex); !bytes.Equal(got, want) {
				t.Errorf("%s: got %x, want %x", v.Name, got, want)
			}
		}
	})

	t.Run("address_decode", func(t *testing.T) {
		for _, v := range AddressVectors() {
			got, err := c.DecodeAddress(Bytes(v.Hex))
			if err != nil {
				t.Errorf("%s: decode failed: %v", v.Name, err)
				continue
			}
			if !got.Equal(v.Address) {
				t.Errorf("%s: got %s, want %s", v.Name, got, v.Address)
			}
		}
	})

	t.Run("address_reject", func(t *testing.T) {
		for _, v := range AddressRejects() {
			_, err := c.DecodeAddress(Bytes(v.Hex))
			checkReject(t, v, err)
		}
	})

	t.Run("call_encode", func(t *testing.T) {
		for _, v := range CallVectors() {
			got, err := c.EncodeCall(v.Call)
			if err != nil {
				t.Errorf("%s: encode failed: %v", v.Name, err)
				continue
			}
			if want := Bytes(v.Hex); !bytes.Equal(got, want) {
				t.Errorf("%s: got %x, want %x", v.Name, got, want)
			}
		}
	})

	t.Run("call_round_trip", func(t *testing.T) {
		for _, v := range CallVectors() {
			decoded, err := c.DecodeCall(Bytes(v.Hex))
			if err != nil {
				t.Errorf("%s: decode failed: %v", v.Name, err)
				continue
			}
			if decoded.Module() != v.Call.Module() || decoded.Name() != v.Call.Name() {
				t.Errorf("%s: decoded %s.%s", v.Name, decoded.Module(), decoded.Name())
				continue
			}
			again, err := c.EncodeCall(decoded)
			if err != nil {
				t.Errorf("%s: re-encode failed: %v", v.Name, err)
				continue
			}
			if want := Bytes(v.Hex); !bytes.Equal(again, want) {
				t.Errorf("%s: re-encoded %x, want %x", v.Name, again, want)
			}
		}
	})

	t.Run("call_reject", func(t *testing.T) {
		for _, v := range CallRejects() {
			_, err := c.DecodeCall(Bytes(v.Hex))
			checkReject(t, v, err)
		}
	})
}

func checkReject(t *testing.T, v RejectVector, err error) {
	t.Helper()
	if err == nil {
		t.Errorf("%s: expected %s error, decode succeeded", v.Name, v.Kind)
		return
	}
	if !MatchesKind(err, v.Kind) {
		t.Errorf("%s: expected %s error, got %v", v.Name, v.Kind, err)
	}
	op, isOperand := rtcall.IsOperand(err)
	switch {
	case v.Operand < 0 && isOperand:
		t.Errorf("%s: unexpected operand error at position %d", v.Name, op.Position)
	case v.Operand >= 0 && !isOperand:
		t.Errorf("%s: expected operand %d annotation, got %v", v.Name, v.Operand, err)
	case v.Operand >= 0 && op.Position != v.Operand:
		t.Errorf("%s: expected operand %d, got %d", v.Name, v.Operand, op.Position)
	}
}

// MatchesKind reports whether err belongs to the named reject kind.
func MatchesKind(err error, kind string) bool {
	switch kind {
	case "non-canonical":
		_, ok := rtcall.IsNonCanonical(err)
		return ok
	case "invalid-tag":
		_, ok := rtcall.IsInvalidTag(err)
		return ok
	case "unknown-module":
		_, ok := rtcall.IsUnknownModule(err)
		return ok
	case "unknown-operation":
		_, ok := rtcall.IsUnknownOperation(err)
		return ok
	case "truncated":
		return errors.Is(err, rtcall.ErrTruncated)
	case "trailing":
		return errors.Is(err, rtcall.ErrTrailingBytes)
	case "overflow":
		return errors.Is(err, rtcall.ErrAmountOverflow) || errors.Is(err, rtcall.ErrIndexOverflow)
	default:
		return false
	}
}
