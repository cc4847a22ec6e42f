// Package rtcall lets a program embedded in a host ledger build
// binary-encoded runtime calls and exchange account references with
// the ledger in its native SCALE wire format.
//
// The codec itself lives in [github.com/blockberries/rtcall/codec].
// This package holds the boundary to the host: the [Dispatcher] that
// accepts finished call bytes, and the typed errors every layer
// returns.
package rtcall

import "context"

// Dispatcher is the host's "submit call" capability. It receives a
// fully encoded call envelope and forwards it to the ledger's
// extrinsic submission path.
//
// The codec never inspects what happens after Dispatch returns. A
// nil error only means the payload was handed off, not that the
// ledger executed it.
//
// Implementations MUST be safe for concurrent use.
type Dispatcher interface {
	Dispatch(ctx context.Context, call []byte) error
}

// DispatcherFunc adapts an ordinary function to the Dispatcher
// interface.
type DispatcherFunc func(ctx context.Context, call []byte) error

// Dispatch calls f(ctx, call).
func (f DispatcherFunc) Dispatch(ctx context.Context, call []byte) error {
	return f(ctx, call)
}
