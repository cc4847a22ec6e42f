// Package noderuntime describes the reference Substrate node runtime
// deployment: 32-byte account ids, u128 balances, and the Balances
// module registered at index 5.
package noderuntime

import (
	"sync"

	"github.com/blockberries/rtcall/balances"
	"github.com/blockberries/rtcall/codec"
	"github.com/blockberries/rtcall/types"
)

const (
	// AccountIDWidth is the size of an sr25519 public key account id.
	AccountIDWidth = 32
	// BalanceWidth is the size of the runtime's u128 Balance.
	BalanceWidth = 16
	// BalancesIndex is the Balances module's position in the
	// runtime's construct_runtime! declaration.
	BalancesIndex byte = 5
)

// Layout returns the node runtime layout with a 64-bit account index.
func Layout() codec.Layout {
	return codec.Layout{
		AccountIDWidth: AccountIDWidth,
		IndexWidth:     8,
		BalanceWidth:   BalanceWidth,
	}
}

// Layout32 returns the node runtime layout with the runtime's native
// u32 account index. Under this layout the 0xfe address tier never
// appears.
func Layout32() codec.Layout {
	l := Layout()
	l.IndexWidth = 4
	return l
}

// Table returns the node runtime dispatch table.
func Table() *codec.Table {
	t, err := codec.NewTable(balances.Module(BalancesIndex))
	if err != nil {
		panic("noderuntime: invalid dispatch table: " + err.Error())
	}
	return t
}

var (
	defaultOnce  sync.Once
	defaultCodec *codec.Codec
)

// Codec returns a shared codec for Layout and Table.
func Codec() *codec.Codec {
	defaultOnce.Do(func() {
		c, err := codec.New(Layout(), Table())
		if err != nil {
			panic("noderuntime: " + err.Error())
		}
		defaultCodec = c
	})
	return defaultCodec
}

// AccountID converts a 32-byte array to an account id.
func AccountID(b [AccountIDWidth]byte) types.AccountID {
	return types.AccountID(b[:])
}
