package codec

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/blockberries/rtcall"
	"github.com/blockberries/rtcall/types"
)

// Operation is one dispatchable call of a runtime module.
//
// Operands returns pointers to the operation's fields in declaration
// order. The call codec writes them in that order and decodes into
// them, so the order must match the host runtime's declaration.
//
// Supported operand pointer types: *types.Address, *uint256.Int
// (compact amount), *types.AccountID (fixed width), *uint8, *uint16,
// *uint32, *uint64 and *bool.
type Operation interface {
	Module() string
	Name() string
	Operands() []any
}

// Codec encodes and decodes account references and call envelopes for
// one deployment.
type Codec struct {
	layout Layout
	table  *Table
}

// New creates a codec for the given layout and dispatch table.
func New(layout Layout, table *Table) (*Codec, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	if table == nil {
		return nil, fmt.Errorf("codec: nil dispatch table")
	}
	return &Codec{layout: layout, table: table}, nil
}

// Layout returns the codec's layout.
func (c *Codec) Layout() Layout { return c.layout }

// Table returns the codec's dispatch table.
func (c *Codec) Table() *Table { return c.table }

// NewEncoder returns an empty encoder using the codec's layout.
func (c *Codec) NewEncoder() *Encoder { return NewEncoder(c.layout) }

// NewDecoder returns a decoder over data using the codec's layout.
func (c *Codec) NewDecoder(data []byte) *Decoder { return NewDecoder(c.layout, data) }

// EncodeAddress returns the canonical encoding of a.
func (c *Codec) EncodeAddress(a types.Address) ([]byte, error) {
	e := c.NewEncoder()
	if err := e.PutAddress(a); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}

// DecodeAddress decodes an account reference that must span all of
// data.
func (c *Codec) DecodeAddress(data []byte) (types.Address, error) {
	d := c.NewDecoder(data)
	a, err := d.Address()
	if err != nil {
		return types.Address{}, err
	}
	if err := d.Finish(); err != nil {
		return types.Address{}, err
	}
	return a, nil
}

// EncodeCall returns the call envelope for op: module discriminant,
// operation discriminant, then operands.
func (c *Codec) EncodeCall(op Operation) ([]byte, error) {
	e := c.NewEncoder()
	if err := c.PutCall(e, op); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}

// PutCall appends the call envelope for op to e.
func (c *Codec) PutCall(e *Encoder, op Operation) error {
	moduleIndex, opIndex, ok := c.table.Lookup(op.Module(), op.Name())
	if !ok {
		return &rtcall.UnregisteredOperationError{Module: op.Module(), Operation: op.Name()}
	}
	if err := e.PutByte(moduleIndex); err != nil {
		return err
	}
	if err := e.PutByte(opIndex); err != nil {
		return err
	}
	for i, operand := range op.Operands() {
		if err := e.PutOperand(operand); err != nil {
			return &rtcall.OperandError{Module: op.Module(), Operation: op.Name(), Position: i, Err: err}
		}
	}
	return nil
}

// DecodeCall decodes a call envelope that must span all of data.
func (c *Codec) DecodeCall(data []byte) (Operation, error) {
	d := c.NewDecoder(data)
	op, err := c.ReadCall(d)
	if err != nil {
		return nil, err
	}
	if err := d.Finish(); err != nil {
		return nil, err
	}
	return op, nil
}

// DecodeCallInto decodes data into op, which must be the operation the
// envelope's discriminants name. On error op is left untouched.
func (c *Codec) DecodeCallInto(data []byte, op Operation) error {
	decoded, err := c.DecodeCall(data)
	if err != nil {
		return err
	}
	if decoded.Module() != op.Module() || decoded.Name() != op.Name() {
		return fmt.Errorf("codec: envelope is %s.%s, want %s.%s",
			decoded.Module(), decoded.Name(), op.Module(), op.Name())
	}
	dst, src := op.Operands(), decoded.Operands()
	if len(dst) != len(src) {
		return fmt.Errorf("codec: %s.%s has %d operands, decoded %d", op.Module(), op.Name(), len(dst), len(src))
	}
	for i := range dst {
		if err := assignOperand(dst[i], src[i]); err != nil {
			return &rtcall.OperandError{Module: op.Module(), Operation: op.Name(), Position: i, Err: err}
		}
	}
	return nil
}

// assignOperand copies the value src points to into dst. Both must be
// pointers of the same supported operand type.
func assignOperand(dst, src any) error {
	switch d := dst.(type) {
	case *types.Address:
		s, ok := src.(*types.Address)
		if ok {
			*d = *s
			return nil
		}
	case *uint256.Int:
		s, ok := src.(*uint256.Int)
		if ok {
			*d = *s
			return nil
		}
	case *types.AccountID:
		s, ok := src.(*types.AccountID)
		if ok {
			*d = *s
			return nil
		}
	case *uint8:
		s, ok := src.(*uint8)
		if ok {
			*d = *s
			return nil
		}
	case *uint16:
		s, ok := src.(*uint16)
		if ok {
			*d = *s
			return nil
		}
	case *uint32:
		s, ok := src.(*uint32)
		if ok {
			*d = *s
			return nil
		}
	case *uint64:
		s, ok := src.(*uint64)
		if ok {
			*d = *s
			return nil
		}
	case *bool:
		s, ok := src.(*bool)
		if ok {
			*d = *s
			return nil
		}
	default:
		return fmt.Errorf("%w: %T", rtcall.ErrUnsupportedOperand, dst)
	}
	return fmt.Errorf("operand type mismatch: %T into %T", src, dst)
}

// ReadCall reads one call envelope from d.
func (c *Codec) ReadCall(d *Decoder) (Operation, error) {
	moduleIndex, err := d.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("module discriminant: %w", err)
	}
	// Resolve the module first so an unknown module is reported even
	// when the operation byte is missing.
	if _, ok := c.table.byIndex[moduleIndex]; !ok {
		return nil, &rtcall.UnknownModuleError{Index: moduleIndex}
	}
	opIndex, err := d.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("operation discriminant: %w", err)
	}
	module, spec, err := c.table.Resolve(moduleIndex, opIndex)
	if err != nil {
		return nil, err
	}

	op := spec.New()
	for i, operand := range op.Operands() {
		if err := d.Operand(operand); err != nil {
			return nil, &rtcall.OperandError{Module: module, Operation: spec.Name, Position: i, Err: err}
		}
	}
	return op, nil
}

// PutOperand writes one operand according to its pointer type.
func (e *Encoder) PutOperand(v any) error {
	switch v := v.(type) {
	case *types.Address:
		return e.PutAddress(*v)
	case *uint256.Int:
		return e.PutAmount(v)
	case *types.AccountID:
		if len(*v) != e.layout.AccountIDWidth {
			return fmt.Errorf("%w: got %d bytes, want %d", rtcall.ErrAccountIDWidth, len(*v), e.layout.AccountIDWidth)
		}
		return e.PutBytes(*v)
	case *uint8:
		return e.PutByte(*v)
	case *uint16:
		return e.PutUint16(*v)
	case *uint32:
		return e.PutUint32(*v)
	case *uint64:
		return e.PutUint64(*v)
	case *bool:
		return e.PutBool(*v)
	default:
		return fmt.Errorf("%w: %T", rtcall.ErrUnsupportedOperand, v)
	}
}

// Operand decodes one operand into the value v points to.
func (d *Decoder) Operand(v any) error {
	var err error
	switch v := v.(type) {
	case *types.Address:
		*v, err = d.Address()
	case *uint256.Int:
		*v, err = d.Amount()
	case *types.AccountID:
		*v, err = d.ReadBytes(d.layout.AccountIDWidth)
	case *uint8:
		*v, err = d.ReadByte()
	case *uint16:
		*v, err = d.Uint16()
	case *uint32:
		*v, err = d.Uint32()
	case *uint64:
		*v, err = d.Uint64()
	case *bool:
		*v, err = d.Bool()
	default:
		err = fmt.Errorf("%w: %T", rtcall.ErrUnsupportedOperand, v)
	}
	return err
}
