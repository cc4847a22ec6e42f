package types

import "fmt"

// AddressKind selects the variant of an Address.
type AddressKind uint8

const (
	// KindIndex is a compact numeric alias that the ledger resolves
	// through its account index table.
	KindIndex AddressKind = iota
	// KindID is a full account identifier.
	KindID
)

func (k AddressKind) String() string {
	switch k {
	case KindIndex:
		return "Index"
	case KindID:
		return "Id"
	default:
		return fmt.Sprintf("unknown(%d)", k)
	}
}

// Address is a reference to a ledger account: either a full
// identifier or a numeric alias. Only the field matching Kind is
// meaningful.
type Address struct {
	Kind  AddressKind
	ID    AccountID
	Index uint64
}

// IDAddress returns an Address naming id directly.
func IDAddress(id AccountID) Address {
	return Address{Kind: KindID, ID: id}
}

// IndexAddress returns an Address for the account alias index.
func IndexAddress(index uint64) Address {
	return Address{Kind: KindIndex, Index: index}
}

// IsID reports whether a is the identifier variant.
func (a Address) IsID() bool { return a.Kind == KindID }

// Equal compares the meaningful fields of two addresses.
func (a Address) Equal(other Address) bool {
	if a.Kind != other.Kind {
		return false
	}
	if a.Kind == KindID {
		return a.ID.Equal(other.ID)
	}
	return a.Index == other.Index
}

func (a Address) String() string {
	if a.Kind == KindID {
		return fmt.Sprintf("Id(%s)", a.ID)
	}
	return fmt.Sprintf("Index(%d)", a.Index)
}
