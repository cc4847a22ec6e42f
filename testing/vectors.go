package rtcalltest

import (
	"bytes"
	"encoding/hex"

	"github.com/holiman/uint256"

	"github.com/blockberries/rtcall/balances"
	"github.com/blockberries/rtcall/codec"
	"github.com/blockberries/rtcall/types"
)

// AddressVector pairs an account reference with the bytes the
// reference node runtime produces for it.
type AddressVector struct {
	Name    string
	Address types.Address
	Hex     string
}

// CallVector pairs a call with the bytes the reference node runtime
// produces for it.
type CallVector struct {
	Name string
	Call codec.Operation
	Hex  string
}

// RejectVector is input the reference node runtime refuses to decode.
// Kind names the expected failure: "non-canonical", "invalid-tag",
// "truncated", "unknown-module", "unknown-operation", "trailing" or
// "overflow".
type RejectVector struct {
	Name string
	Hex  string
	Kind string
	// Operand is the failing operand position for call vectors, or -1.
	Operand int
}

// Bytes decodes a vector's hex, ignoring spaces. It panics on bad hex
// since vectors are compile-time constants.
func Bytes(s string) []byte {
	b, err := hex.DecodeString(string(bytes.ReplaceAll([]byte(s), []byte(" "), nil)))
	if err != nil {
		panic("rtcalltest: bad vector hex: " + err.Error())
	}
	return b
}

// ZeroAccount is the all-zero 32-byte account id.
func ZeroAccount() types.AccountID {
	return make(types.AccountID, 32)
}

// PatternAccount returns a 32-byte account id whose bytes count up
// from start.
func PatternAccount(start byte) types.AccountID {
	id := make(types.AccountID, 32)
	for i := range id {
		id[i] = start + byte(i)
	}
	return id
}

// AddressVectors covers every tier boundary of the account reference
// encoding under the 64-bit index layout.
func AddressVectors() []AddressVector {
	return []AddressVector{
		{"index_zero", types.IndexAddress(0), "00"},
		{"index_one", types.IndexAddress(1), "01"},
		{"index_inline_max", types.IndexAddress(0xef), "ef"},
		{"index16_min", types.IndexAddress(0xf0), "fc f000"},
		{"index16_mid", types.IndexAddress(0x1234), "fc 3412"},
		{"index16_max", types.IndexAddress(0xffff), "fc ffff"},
		{"index32_min", types.IndexAddress(0x10000), "fd 00000100"},
		{"index32_max", types.IndexAddress(0xffffffff), "fd ffffffff"},
		{"index64_min", types.IndexAddress(0x100000000), "fe 0000000001000000"},
		{"index64_max", types.IndexAddress(0xffffffffffffffff), "fe ffffffffffffffff"},
		{"id_zero", types.IDAddress(ZeroAccount()), "ff" + hex.EncodeToString(make([]byte, 32))},
		{"id_pattern", types.IDAddress(PatternAccount(1)),
			"ff 0102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f20"},
	}
}

// AddressRejects are account reference encodings that must not
// decode under the 64-bit index layout.
func AddressRejects() []RejectVector {
	return []RejectVector{
		{"index16_inline_value", "fc e000", "non-canonical", -1},
		{"index16_inline_max", "fc ef00", "non-canonical", -1},
		{"index16_zero", "fc 0000", "non-canonical", -1},
		{"index32_fits16", "fd ffff0000", "non-canonical", -1},
		{"index32_zero", "fd 00000000", "non-canonical", -1},
		{"index64_fits32", "fe ffffffff00000000", "non-canonical", -1},
		{"index64_small", "fe 0100000000000000", "non-canonical", -1},
		{"tag_f0", "f0", "invalid-tag", -1},
		{"tag_fb", "fb", "invalid-tag", -1},
		{"empty", "", "truncated", -1},
		{"index16_short", "fc f0", "truncated", -1},
		{"index32_short", "fd 000001", "truncated", -1},
		{"index64_short", "fe 00000000010000", "truncated", -1},
		{"id_short", "ff" + hex.EncodeToString(make([]byte, 31)), "truncated", -1},
		{"trailing", "00 00", "trailing", -1},
	}
}

// CallVectors covers both Balances operations across address tiers
// and compact amount modes.
func CallVectors() []CallVector {
	return []CallVector{
		{"transfer_index0", balances.NewTransfer(types.IndexAddress(0), uint256.NewInt(10000)),
			"05 00 00 419c"},
		{"transfer_id_zero", balances.NewTransfer(types.IDAddress(ZeroAccount()), uint256.NewInt(10000)),
			"05 00 ff" + hex.EncodeToString(make([]byte, 32)) + "419c"},
		{"transfer_index16_value_zero", balances.NewTransfer(types.IndexAddress(0xf0), uint256.NewInt(0)),
			"05 00 fc f000 00"},
		{"transfer_index32_compact4", balances.NewTransfer(types.IndexAddress(0x10000), uint256.NewInt(123456789)),
			"05 00 fd 00000100 56346f1d"},
		{"transfer_index64_big", balances.NewTransfer(types.IndexAddress(0x100000000), uint256.NewInt(1<<32)),
			"05 00 fe 0000000001000000 070000000001"},
		{"transfer_u128_max", balances.NewTransfer(types.IndexAddress(1), u128Max()),
			"05 00 01 33ffffffffffffffffffffffffffffffff"},
		{"set_balance_index32", balances.NewSetBalance(types.IndexAddress(0x10000), uint256.NewInt(1_000_000_000_000), uint256.NewInt(0)),
			"05 01 fd 00000100 070010a5d4e8 00"},
		{"set_balance_compact_modes", balances.NewSetBalance(types.IndexAddress(0xef), uint256.NewInt(63), uint256.NewInt(64)),
			"05 01 ef fc 0101"},
		{"set_balance_mode_edges", balances.NewSetBalance(types.IndexAddress(0xffff), uint256.NewInt(16383), uint256.NewInt(1<<30)),
			"05 01 fc ffff fdff 0300000040"},
	}
}

// CallRejects are call envelopes that must not decode under the
// reference node runtime.
func CallRejects() []RejectVector {
	return []RejectVector{
		{"empty", "", "truncated", -1},
		{"module_only", "05", "truncated", -1},
		{"unknown_module", "06 00 00 00", "unknown-module", -1},
		{"unknown_module_short", "00", "unknown-module", -1},
		{"unknown_operation", "05 02 00 00", "unknown-operation", -1},
		{"dest_non_canonical", "05 00 fc e000 419c", "non-canonical", 0},
		{"dest_invalid_tag", "05 00 f5 419c", "invalid-tag", 0},
		{"value_missing", "05 00 00", "truncated", 1},
		{"value_two_byte_zero", "05 00 00 0100", "non-canonical", 1},
		{"value_four_byte_small", "05 00 00 02010000", "non-canonical", 1},
		{"value_big_mode_small", "05 00 00 0300000010", "non-canonical", 1},
		{"value_big_mode_padded", "05 00 00 070000004000", "non-canonical", 1},
		{"value_over_u128", "05 00 00 37" + "0000000000000000000000000000000001", "overflow", 1},
		{"reserved_missing", "05 01 00 00", "truncated", 2},
		{"trailing", "05 00 00 00 00", "trailing", -1},
	}
}

func u128Max() *uint256.Int {
	v := new(uint256.Int).Lsh(uint256.NewInt(1), 128)
	return v.Sub(v, uint256.NewInt(1))
}
