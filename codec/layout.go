// Package codec implements the host ledger's SCALE wire rules for
// account references and dispatchable call envelopes.
//
// Primitive reads and writes (single bytes, fixed-width little-endian
// integers, compact integers) are delegated to the go-substrate-rpc-client
// scale package. This package adds the account reference tiers, the
// canonical-form checks and the data-driven dispatch table on top.
//
// A [Codec] is immutable after construction and safe for concurrent
// use. [Encoder] and [Decoder] are single-use and not.
package codec

import "fmt"

// Layout holds the deployment-specific widths that shape the wire
// format. All widths are in bytes.
type Layout struct {
	// AccountIDWidth is the length of a full account identifier.
	AccountIDWidth int `yaml:"account_id_width"`
	// IndexWidth is the width of the account alias integer, used by
	// the full-width (0xfe) address tier. Must be 4 or 8.
	IndexWidth int `yaml:"index_width"`
	// BalanceWidth bounds compact amounts. 16 for a u128 balance.
	BalanceWidth int `yaml:"balance_width"`
}

// Validate checks that the layout describes a supported deployment.
func (l Layout) Validate() error {
	if l.AccountIDWidth <= 0 {
		return fmt.Errorf("layout: account id width must be positive, got %d", l.AccountIDWidth)
	}
	if l.IndexWidth != 4 && l.IndexWidth != 8 {
		return fmt.Errorf("layout: index width must be 4 or 8, got %d", l.IndexWidth)
	}
	if l.BalanceWidth <= 0 || l.BalanceWidth > 32 {
		return fmt.Errorf("layout: balance width must be in [1, 32], got %d", l.BalanceWidth)
	}
	return nil
}
