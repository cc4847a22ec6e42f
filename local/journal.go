package local

import (
	"context"
	"fmt"

	"github.com/blockberries/cramberry/pkg/cramberry"

	"github.com/blockberries/rtcall"
)

// Record is one dispatched call.
type Record struct {
	Seq       uint64 `cramberry:"1"`
	Module    string `cramberry:"2"`
	Operation string `cramberry:"3"`
	// Payload is the exact call envelope handed to Dispatch.
	Payload []byte `cramberry:"4"`
}

// Journal is an ordered list of dispatched calls.
type Journal struct {
	Records []Record `cramberry:"1"`
}

// Marshal encodes the journal with cramberry's deterministic binary
// encoding. Equal journals always produce identical bytes.
func (j Journal) Marshal() ([]byte, error) {
	data, err := cramberry.Marshal(j)
	if err != nil {
		return nil, fmt.Errorf("cramberry marshal: %w", err)
	}
	return data, nil
}

// UnmarshalJournal decodes a journal produced by Journal.Marshal.
func UnmarshalJournal(data []byte) (Journal, error) {
	var j Journal
	if err := cramberry.Unmarshal(data, &j); err != nil {
		return Journal{}, fmt.Errorf("cramberry unmarshal: %w", err)
	}
	for i, r := range j.Records {
		if r.Seq != uint64(i) {
			return Journal{}, fmt.Errorf("journal: record %d has sequence %d", i, r.Seq)
		}
	}
	return j, nil
}

// Replay dispatches every payload in j, in order, to d. It stops at
// the first error and reports the sequence number that failed.
func Replay(ctx context.Context, j Journal, d rtcall.Dispatcher) error {
	for _, r := range j.Records {
		if err := d.Dispatch(ctx, r.Payload); err != nil {
			return fmt.Errorf("replay seq %d (%s.%s): %w", r.Seq, r.Module, r.Operation, err)
		}
	}
	return nil
}
