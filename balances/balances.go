// Package balances defines the calls of the host runtime's Balances
// module.
//
// Operand order follows the runtime's declaration:
//
//	transfer(dest: Address, #[compact] value: Balance)
//	set_balance(who: Address, #[compact] free: Balance, #[compact] reserved: Balance)
package balances

import (
	"github.com/holiman/uint256"

	"github.com/blockberries/rtcall/codec"
	"github.com/blockberries/rtcall/types"
)

// ModuleName is the runtime module these calls belong to.
const ModuleName = "Balances"

// Operation names as registered by the runtime.
const (
	OpTransfer   = "transfer"
	OpSetBalance = "set_balance"
)

// Compile-time interface checks.
var (
	_ codec.Operation = (*Transfer)(nil)
	_ codec.Operation = (*SetBalance)(nil)
)

// Transfer moves Value from the caller to Dest.
type Transfer struct {
	Dest  types.Address
	Value uint256.Int
}

func (*Transfer) Module() string { return ModuleName }
func (*Transfer) Name() string   { return OpTransfer }

func (t *Transfer) Operands() []any {
	return []any{&t.Dest, &t.Value}
}

// SetBalance sets the free and reserved balance of Who. The ledger
// only accepts it from a privileged origin.
type SetBalance struct {
	Who      types.Address
	Free     uint256.Int
	Reserved uint256.Int
}

func (*SetBalance) Module() string { return ModuleName }
func (*SetBalance) Name() string   { return OpSetBalance }

func (s *SetBalance) Operands() []any {
	return []any{&s.Who, &s.Free, &s.Reserved}
}

// NewTransfer builds a transfer of value to dest.
func NewTransfer(dest types.Address, value *uint256.Int) *Transfer {
	return &Transfer{Dest: dest, Value: *value}
}

// NewSetBalance builds a set_balance call for who.
func NewSetBalance(who types.Address, free, reserved *uint256.Int) *SetBalance {
	return &SetBalance{Who: who, Free: *free, Reserved: *reserved}
}

// Constructors returns the operation constructors keyed by name, for
// building dispatch tables from configuration.
func Constructors() map[string]func() codec.Operation {
	return map[string]func() codec.Operation{
		OpTransfer:   func() codec.Operation { return new(Transfer) },
		OpSetBalance: func() codec.Operation { return new(SetBalance) },
	}
}

// Module returns the Balances module spec at the given module index,
// with operation discriminants in declaration order.
func Module(index byte) codec.ModuleSpec {
	ctors := Constructors()
	return codec.ModuleSpec{
		Name:  ModuleName,
		Index: index,
		Operations: []codec.OperationSpec{
			{Name: OpTransfer, Index: 0, New: ctors[OpTransfer]},
			{Name: OpSetBalance, Index: 1, New: ctors[OpSetBalance]},
		},
	}
}
