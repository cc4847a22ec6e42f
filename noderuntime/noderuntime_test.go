package noderuntime_test

import (
	"bytes"
	"testing"

	"github.com/holiman/uint256"

	"github.com/blockberries/rtcall/balances"
	"github.com/blockberries/rtcall/codec"
	"github.com/blockberries/rtcall/noderuntime"
	rtcalltest "github.com/blockberries/rtcall/testing"
	"github.com/blockberries/rtcall/types"
)

func TestCodecIsShared(t *testing.T) {
	if noderuntime.Codec() != noderuntime.Codec() {
		t.Fatal("Codec should return the same instance")
	}
	if noderuntime.Codec().Layout() != noderuntime.Layout() {
		t.Error("shared codec does not use the reference layout")
	}
}

func TestBalancesIndex(t *testing.T) {
	mi, oi, ok := noderuntime.Table().Lookup(balances.ModuleName, balances.OpTransfer)
	if !ok || mi != noderuntime.BalancesIndex || oi != 0 {
		t.Fatalf("Lookup = %d, %d, %v", mi, oi, ok)
	}
}

func TestLayout32MatchesBelowFullWidth(t *testing.T) {
	c32, err := codec.New(noderuntime.Layout32(), noderuntime.Table())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	// The two index widths share every tier except 0xfe.
	for _, v := range rtcalltest.AddressVectors() {
		if !v.Address.IsID() && v.Address.Index > 0xffffffff {
			continue
		}
		got, err := c32.EncodeAddress(v.Address)
		if err != nil {
			t.Fatalf("%s: encode failed: %v", v.Name, err)
		}
		if want := rtcalltest.Bytes(v.Hex); !bytes.Equal(got, want) {
			t.Errorf("%s: got %x, want %x", v.Name, got, want)
		}
	}
}

func TestAccountID(t *testing.T) {
	var raw [noderuntime.AccountIDWidth]byte
	raw[31] = 0x01
	id := noderuntime.AccountID(raw)
	data, err := noderuntime.Codec().EncodeCall(balances.NewTransfer(types.IDAddress(id), uint256.NewInt(1)))
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if len(data) != 2+1+32+1 || data[2+32] != 0x01 {
		t.Errorf("unexpected encoding %x", data)
	}
}
