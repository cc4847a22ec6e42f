package rtcalltest

import (
	"bytes"
	"context"
	"testing"

	"github.com/blockberries/rtcall/codec"
	"github.com/blockberries/rtcall/local"
	"github.com/blockberries/rtcall/noderuntime"
)

// Harness wraps a local environment for tests that dispatch calls and
// then inspect what reached the ledger boundary.
type Harness struct {
	t   *testing.T
	env *local.Env
}

// NewHarness creates a harness validating calls with c.
func NewHarness(t *testing.T, c *codec.Codec) *Harness {
	t.Helper()
	return &Harness{t: t, env: local.NewEnv(c)}
}

// NewNodeRuntimeHarness creates a harness for the reference node
// runtime deployment.
func NewNodeRuntimeHarness(t *testing.T) *Harness {
	t.Helper()
	return NewHarness(t, noderuntime.Codec())
}

// Env returns the underlying environment, usable as a Dispatcher.
func (h *Harness) Env() *local.Env {
	return h.env
}

// Dispatch encodes op and dispatches it, failing the test on error.
// It returns the encoded payload.
func (h *Harness) Dispatch(op codec.Operation) []byte {
	h.t.Helper()
	payload, err := h.env.Codec().EncodeCall(op)
	if err != nil {
		h.t.Fatalf("EncodeCall(%s.%s) failed: %v", op.Module(), op.Name(), err)
	}
	if err := h.env.Dispatch(context.Background(), payload); err != nil {
		h.t.Fatalf("Dispatch(%s.%s) failed: %v", op.Module(), op.Name(), err)
	}
	return payload
}

// RequireCount fails the test unless exactly n calls were recorded.
func (h *Harness) RequireCount(n int) {
	h.t.Helper()
	if got := h.env.Len(); got != n {
		h.t.Fatalf("expected %d dispatched calls, got %d", n, got)
	}
}

// RequireCall fails the test unless the i-th recorded call encodes to
// the same bytes as want.
func (h *Harness) RequireCall(i int, want codec.Operation) {
	h.t.Helper()
	journal := h.env.Journal()
	if i >= len(journal.Records) {
		h.t.Fatalf("call %d not dispatched (have %d)", i, len(journal.Records))
	}
	wantBytes, err := h.env.Codec().EncodeCall(want)
	if err != nil {
		h.t.Fatalf("EncodeCall(%s.%s) failed: %v", want.Module(), want.Name(), err)
	}
	if got := journal.Records[i].Payload; !bytes.Equal(got, wantBytes) {
		h.t.Fatalf("call %d: got %x, want %x", i, got, wantBytes)
	}
}
