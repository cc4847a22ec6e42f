package codec_test

import (
	"bytes"
	"errors"
	"math/big"
	"testing"

	"github.com/holiman/uint256"

	"github.com/blockberries/rtcall"
	"github.com/blockberries/rtcall/balances"
	"github.com/blockberries/rtcall/codec"
	"github.com/blockberries/rtcall/noderuntime"
)

func TestLayoutValidate(t *testing.T) {
	if err := noderuntime.Layout().Validate(); err != nil {
		t.Fatalf("reference layout invalid: %v", err)
	}
	bad := []codec.Layout{
		{AccountIDWidth: 0, IndexWidth: 8, BalanceWidth: 16},
		{AccountIDWidth: 32, IndexWidth: 2, BalanceWidth: 16},
		{AccountIDWidth: 32, IndexWidth: 16, BalanceWidth: 16},
		{AccountIDWidth: 32, IndexWidth: 8, BalanceWidth: 0},
		{AccountIDWidth: 32, IndexWidth: 8, BalanceWidth: 33},
	}
	for _, l := range bad {
		if err := l.Validate(); err == nil {
			t.Errorf("expected %+v to be rejected", l)
		}
		if _, err := codec.New(l, noderuntime.Table()); err == nil {
			t.Errorf("New accepted %+v", l)
		}
	}
	if _, err := codec.New(noderuntime.Layout(), nil); err == nil {
		t.Error("New accepted a nil table")
	}
}

func TestFixedWidthLittleEndian(t *testing.T) {
	e := codec.NewEncoder(noderuntime.Layout())
	steps := []error{
		e.PutByte(0x7f),
		e.PutUint16(0xbeef),
		e.PutUint32(0xdeadbeef),
		e.PutUint64(0x0102030405060708),
		e.PutBool(true),
		e.PutBytes([]byte{0xaa, 0xbb}),
	}
	for i, err := range steps {
		if err != nil {
			t.Fatalf("step %d failed: %v", i, err)
		}
	}
	want := []byte{
		0x7f,
		0xef, 0xbe,
		0xef, 0xbe, 0xad, 0xde,
		0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01,
		0x01,
		0xaa, 0xbb,
	}
	if !bytes.Equal(e.Bytes(), want) {
		t.Fatalf("got %x, want %x", e.Bytes(), want)
	}
	if e.Len() != len(want) {
		t.Errorf("Len = %d, want %d", e.Len(), len(want))
	}

	d := codec.NewDecoder(noderuntime.Layout(), want)
	b, _ := d.ReadByte()
	u16, _ := d.Uint16()
	u32, _ := d.Uint32()
	u64, _ := d.Uint64()
	flag, _ := d.Bool()
	tail, err := d.ReadBytes(2)
	if err != nil {
		t.Fatalf("ReadBytes failed: %v", err)
	}
	if b != 0x7f || u16 != 0xbeef || u32 != 0xdeadbeef || u64 != 0x0102030405060708 || !flag || !bytes.Equal(tail, []byte{0xaa, 0xbb}) {
		t.Errorf("decoded %x %x %x %x %v %x", b, u16, u32, u64, flag, tail)
	}
	if err := d.Finish(); err != nil {
		t.Errorf("Finish failed: %v", err)
	}
}

func TestDecoderTruncation(t *testing.T) {
	layout := noderuntime.Layout()
	reads := map[string]func(*codec.Decoder) error{
		"byte":    func(d *codec.Decoder) error { _, err := d.ReadByte(); return err },
		"uint16":  func(d *codec.Decoder) error { _, err := d.Uint16(); return err },
		"uint32":  func(d *codec.Decoder) error { _, err := d.Uint32(); return err },
		"uint64":  func(d *codec.Decoder) error { _, err := d.Uint64(); return err },
		"bytes":   func(d *codec.Decoder) error { _, err := d.ReadBytes(32); return err },
		"compact": func(d *codec.Decoder) error { _, err := d.Compact(); return err },
	}
	for name, read := range reads {
		if err := read(codec.NewDecoder(layout, nil)); !errors.Is(err, rtcall.ErrTruncated) {
			t.Errorf("%s on empty input: expected ErrTruncated, got %v", name, err)
		}
	}

	if _, err := codec.NewDecoder(layout, []byte{0x01}).Uint16(); !errors.Is(err, rtcall.ErrTruncated) {
		t.Errorf("uint16 on one byte: expected ErrTruncated, got %v", err)
	}
	if _, err := codec.NewDecoder(layout, []byte{0x01, 0x02, 0x03}).Uint32(); !errors.Is(err, rtcall.ErrTruncated) {
		t.Errorf("uint32 on three bytes: expected ErrTruncated, got %v", err)
	}
	// Four-byte compact mode with only two bytes present.
	if _, err := codec.NewDecoder(layout, []byte{0x02, 0x01}).Compact(); !errors.Is(err, rtcall.ErrTruncated) {
		t.Errorf("short compact: expected ErrTruncated, got %v", err)
	}
	// Big-integer compact mode announcing five bytes, carrying three.
	if _, err := codec.NewDecoder(layout, []byte{0x07, 0x01, 0x02, 0x03}).Compact(); !errors.Is(err, rtcall.ErrTruncated) {
		t.Errorf("short big compact: expected ErrTruncated, got %v", err)
	}
}

func TestDecoderFinish(t *testing.T) {
	d := codec.NewDecoder(noderuntime.Layout(), []byte{0x01, 0x02, 0x03})
	if _, err := d.ReadByte(); err != nil {
		t.Fatalf("ReadByte failed: %v", err)
	}
	if d.Offset() != 1 || d.Remaining() != 2 {
		t.Errorf("offset %d remaining %d", d.Offset(), d.Remaining())
	}
	if err := d.Finish(); !errors.Is(err, rtcall.ErrTrailingBytes) {
		t.Errorf("expected ErrTrailingBytes, got %v", err)
	}
}

func TestCompactModes(t *testing.T) {
	cases := []struct {
		value string
		want  []byte
	}{
		{"0", []byte{0x00}},
		{"1", []byte{0x04}},
		{"63", []byte{0xfc}},
		{"64", []byte{0x01, 0x01}},
		{"16383", []byte{0xfd, 0xff}},
		{"16384", []byte{0x02, 0x00, 0x01, 0x00}},
		{"1073741823", []byte{0xfe, 0xff, 0xff, 0xff}},
		{"1073741824", []byte{0x03, 0x00, 0x00, 0x00, 0x40}},
		{"4294967296", []byte{0x07, 0x00, 0x00, 0x00, 0x00, 0x01}},
	}
	layout := noderuntime.Layout()
	for _, tc := range cases {
		v, _ := new(big.Int).SetString(tc.value, 10)
		e := codec.NewEncoder(layout)
		if err := e.PutCompact(v); err != nil {
			t.Fatalf("%s: encode failed: %v", tc.value, err)
		}
		if !bytes.Equal(e.Bytes(), tc.want) {
			t.Errorf("%s: got %x, want %x", tc.value, e.Bytes(), tc.want)
		}
		d := codec.NewDecoder(layout, tc.want)
		got, err := d.Compact()
		if err != nil {
			t.Fatalf("%s: decode failed: %v", tc.value, err)
		}
		if got.Cmp(v) != 0 {
			t.Errorf("%s: decoded %s", tc.value, got)
		}
	}

	if err := codec.NewEncoder(layout).PutCompact(big.NewInt(-1)); err == nil {
		t.Error("expected negative compact to be rejected")
	}
}

func TestCompactRejectsNonMinimal(t *testing.T) {
	layout := noderuntime.Layout()
	inputs := [][]byte{
		{0x01, 0x00},                         // 0 in two-byte mode
		{0xfd, 0x00},                         // 63 in two-byte mode
		{0x02, 0x00, 0x00, 0x00},             // 0 in four-byte mode
		{0xfe, 0xff, 0x00, 0x00},             // 16383 in four-byte mode
		{0x03, 0xff, 0xff, 0xff, 0x3f},       // below 2^30 in big mode
		{0x07, 0x00, 0x00, 0x00, 0x40, 0x00}, // zero high byte
	}
	for _, in := range inputs {
		_, err := codec.NewDecoder(layout, in).Compact()
		nc, ok := rtcall.IsNonCanonical(err)
		if !ok {
			t.Errorf("%x: expected non-canonical error, got %v", in, err)
			continue
		}
		if nc.Field != "compact" || nc.Tag != in[0] {
			t.Errorf("%x: unexpected detail %+v", in, nc)
		}
	}
}

func TestAmountBalanceWidth(t *testing.T) {
	layout := noderuntime.Layout()
	layout.BalanceWidth = 8

	max := new(uint256.Int).SetUint64(^uint64(0))
	e := codec.NewEncoder(layout)
	if err := e.PutAmount(max); err != nil {
		t.Fatalf("u64 max rejected: %v", err)
	}
	got, err := codec.NewDecoder(layout, e.Bytes()).Amount()
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !got.Eq(max) {
		t.Errorf("got %s, want %s", got.ToBig(), max.ToBig())
	}

	over := new(uint256.Int).Add(max, uint256.NewInt(1))
	if err := codec.NewEncoder(layout).PutAmount(over); !errors.Is(err, rtcall.ErrAmountOverflow) {
		t.Errorf("expected ErrAmountOverflow on encode, got %v", err)
	}
	wide := codec.NewEncoder(noderuntime.Layout())
	if err := wide.PutAmount(over); err != nil {
		t.Fatalf("u128 layout rejected 2^64: %v", err)
	}
	if _, err := codec.NewDecoder(layout, wide.Bytes()).Amount(); !errors.Is(err, rtcall.ErrAmountOverflow) {
		t.Errorf("expected ErrAmountOverflow on decode, got %v", err)
	}
}

func TestTableValidation(t *testing.T) {
	transfer := func() codec.Operation { return new(balances.Transfer) }
	setBalance := func() codec.Operation { return new(balances.SetBalance) }

	cases := map[string][]codec.ModuleSpec{
		"unnamed module": {{Index: 1}},
		"duplicate module index": {
			balances.Module(5),
			{Name: "Other", Index: 5},
		},
		"duplicate module name": {
			balances.Module(5),
			balances.Module(6),
		},
		"duplicate operation index": {{Name: balances.ModuleName, Index: 5, Operations: []codec.OperationSpec{
			{Name: balances.OpTransfer, Index: 0, New: transfer},
			{Name: balances.OpSetBalance, Index: 0, New: setBalance},
		}}},
		"duplicate operation name": {{Name: balances.ModuleName, Index: 5, Operations: []codec.OperationSpec{
			{Name: balances.OpTransfer, Index: 0, New: transfer},
			{Name: balances.OpTransfer, Index: 1, New: transfer},
		}}},
		"missing constructor": {{Name: balances.ModuleName, Index: 5, Operations: []codec.OperationSpec{
			{Name: balances.OpTransfer, Index: 0},
		}}},
		"constructor for other operation": {{Name: balances.ModuleName, Index: 5, Operations: []codec.OperationSpec{
			{Name: balances.OpTransfer, Index: 0, New: setBalance},
		}}},
		"constructor for other module": {{Name: "Assets", Index: 9, Operations: []codec.OperationSpec{
			{Name: balances.OpTransfer, Index: 0, New: transfer},
		}}},
	}
	for name, modules := range cases {
		if _, err := codec.NewTable(modules...); err == nil {
			t.Errorf("%s: expected NewTable to fail", name)
		}
	}
}

func TestTableLookupAndResolve(t *testing.T) {
	table, err := codec.NewTable(balances.Module(9), codec.ModuleSpec{Name: "System", Index: 0})
	if err != nil {
		t.Fatalf("NewTable failed: %v", err)
	}

	mi, oi, ok := table.Lookup(balances.ModuleName, balances.OpSetBalance)
	if !ok || mi != 9 || oi != 1 {
		t.Errorf("Lookup = %d, %d, %v", mi, oi, ok)
	}
	if _, _, ok := table.Lookup(balances.ModuleName, "burn"); ok {
		t.Error("Lookup found an unregistered operation")
	}
	if _, _, ok := table.Lookup("Staking", balances.OpTransfer); ok {
		t.Error("Lookup found an unregistered module")
	}

	module, spec, err := table.Resolve(9, 0)
	if err != nil || module != balances.ModuleName || spec.Name != balances.OpTransfer {
		t.Errorf("Resolve(9, 0) = %s, %s, %v", module, spec.Name, err)
	}
	if _, _, err := table.Resolve(0, 0); err == nil {
		t.Error("Resolve found an operation in an empty module")
	} else if _, ok := rtcall.IsUnknownOperation(err); !ok {
		t.Errorf("expected unknown operation error, got %v", err)
	}

	mods := table.Modules()
	if len(mods) != 2 || mods[0].Name != "System" || mods[1].Name != balances.ModuleName {
		t.Errorf("Modules = %+v", mods)
	}
}
