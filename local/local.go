// Package local provides an in-process Dispatcher for programs that
// run off-chain, in tests or in tooling.
//
// Instead of submitting calls to a ledger, Env validates each payload
// with the deployment codec, exactly as the host would, and records
// it in a journal. The journal can be inspected, exported in a
// deterministic binary form, and replayed into another Dispatcher.
package local

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/blockberries/rtcall"
	"github.com/blockberries/rtcall/codec"
)

// Compile-time interface check.
var _ rtcall.Dispatcher = (*Env)(nil)

// Env records dispatched calls. It is safe for concurrent use.
type Env struct {
	codec  *codec.Codec
	logger *slog.Logger

	mu      sync.Mutex
	records []Record
	ops     []codec.Operation
}

// Option configures an Env.
type Option func(*Env)

// WithLogger sets the logger used for dispatch and rejection events.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Env) { e.logger = logger }
}

// NewEnv creates an empty environment that validates calls with c.
func NewEnv(c *codec.Codec, opts ...Option) *Env {
	e := &Env{
		codec:  c,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Dispatch decodes call and records it. Payloads the host ledger
// would reject are rejected here with the codec's error and are not
// recorded.
func (e *Env) Dispatch(ctx context.Context, call []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	op, err := e.codec.DecodeCall(call)
	if err != nil {
		e.logger.Warn("rejected runtime call", "bytes", len(call), "error", err)
		return fmt.Errorf("local: rejecting call: %w", err)
	}

	e.mu.Lock()
	rec := Record{
		Seq:       uint64(len(e.records)),
		Module:    op.Module(),
		Operation: op.Name(),
		Payload:   append([]byte(nil), call...),
	}
	e.records = append(e.records, rec)
	e.ops = append(e.ops, op)
	e.mu.Unlock()

	e.logger.Debug("dispatched runtime call",
		"seq", rec.Seq,
		"module", rec.Module,
		"operation", rec.Operation,
		"bytes", len(call),
	)
	return nil
}

// DispatchedCalls returns the decoded calls in dispatch order.
func (e *Env) DispatchedCalls() []codec.Operation {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]codec.Operation(nil), e.ops...)
}

// Len returns the number of recorded calls.
func (e *Env) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.records)
}

// Journal returns a copy of the recorded calls.
func (e *Env) Journal() Journal {
	e.mu.Lock()
	defer e.mu.Unlock()
	j := Journal{Records: make([]Record, len(e.records))}
	for i, r := range e.records {
		r.Payload = append([]byte(nil), r.Payload...)
		j.Records[i] = r
	}
	return j
}

// Reset drops all recorded calls.
func (e *Env) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.records = nil
	e.ops = nil
}

// Codec returns the codec the environment validates with.
func (e *Env) Codec() *codec.Codec {
	return e.codec
}
