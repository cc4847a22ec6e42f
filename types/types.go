// Package types defines the plain data types exchanged with the host
// ledger: account identifiers and the tagged account reference.
//
// These types carry no wire rules of their own. Encoding and the
// deployment-specific widths are handled by the codec package.
package types

import (
	"bytes"
	"encoding/hex"
)

// AccountID is a fixed-width opaque account identifier. The width is
// a deployment parameter (32 bytes on the reference node runtime),
// checked by the codec rather than by the type.
type AccountID []byte

// Equal reports whether two identifiers hold the same bytes.
func (id AccountID) Equal(other AccountID) bool {
	return bytes.Equal(id, other)
}

// String returns the identifier as 0x-prefixed hex.
func (id AccountID) String() string {
	return "0x" + hex.EncodeToString(id)
}

// Clone returns a copy that does not alias id.
func (id AccountID) Clone() AccountID {
	if id == nil {
		return nil
	}
	return append(AccountID(nil), id...)
}
