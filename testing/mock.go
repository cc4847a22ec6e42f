// Package rtcalltest provides test utilities for programs that build
// runtime calls: a configurable mock dispatcher, a harness around the
// in-process environment, and a conformance suite of reference wire
// vectors for codec implementations.
package rtcalltest

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/blockberries/rtcall"
)

// Compile-time interface check.
var _ rtcall.Dispatcher = (*MockDispatcher)(nil)

// MockDispatcher is a configurable Dispatcher for testing callers.
// It records every payload it receives. If DispatchFn is nil, every
// call succeeds.
type MockDispatcher struct {
	mu       sync.Mutex
	payloads [][]byte

	// DispatchFn, if set, decides the result of each call.
	DispatchFn func(context.Context, []byte) error

	// DispatchCalls counts calls, including failed ones.
	DispatchCalls atomic.Int64
}

func (m *MockDispatcher) Dispatch(ctx context.Context, call []byte) error {
	m.DispatchCalls.Add(1)
	m.mu.Lock()
	m.payloads = append(m.payloads, append([]byte(nil), call...))
	m.mu.Unlock()
	if m.DispatchFn != nil {
		return m.DispatchFn(ctx, call)
	}
	return nil
}

// Payloads returns copies of the received payloads in call order.
func (m *MockDispatcher) Payloads() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.payloads))
	for i, p := range m.payloads {
		out[i] = append([]byte(nil), p...)
	}
	return out
}

// Last returns the most recent payload, or nil if none was received.
func (m *MockDispatcher) Last() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.payloads) == 0 {
		return nil
	}
	return append([]byte(nil), m.payloads[len(m.payloads)-1]...)
}
