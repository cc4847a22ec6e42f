package rtcall

import (
	"errors"
	"fmt"
	"math/big"
)

// Sentinel errors. Decoders wrap them with the field being read, so
// match with errors.Is.
var (
	// ErrTruncated means the input ended before a fixed-width value,
	// an identifier or a compact integer was complete.
	ErrTruncated = errors.New("truncated input")

	// ErrTrailingBytes means a top-level decode finished with input
	// left over.
	ErrTrailingBytes = errors.New("trailing bytes after value")

	// ErrIndexOverflow means an account index does not fit the
	// deployment's configured index width.
	ErrIndexOverflow = errors.New("account index exceeds configured width")

	// ErrAmountOverflow means a compact amount is wider than the
	// deployment's configured balance width.
	ErrAmountOverflow = errors.New("amount exceeds configured balance width")

	// ErrAccountIDWidth means an account identifier does not have the
	// deployment's configured width.
	ErrAccountIDWidth = errors.New("account id has wrong width")

	// ErrUnsupportedOperand means an operation exposed an operand type
	// the call codec has no wire rule for.
	ErrUnsupportedOperand = errors.New("unsupported operand type")
)

// NonCanonicalError reports a value that is structurally decodable
// but not in its unique minimal encoding. The host ledger rejects
// such payloads, so the codec does too.
type NonCanonicalError struct {
	// Field is what was being decoded ("address" or "compact").
	Field string
	// Tag is the leading byte that selected the encoding tier.
	Tag byte
	// Value is the decoded value that the tier should not carry.
	Value *big.Int
}

func (e *NonCanonicalError) Error() string {
	return fmt.Sprintf("non-canonical %s encoding: value %s under tag 0x%02x", e.Field, e.Value, e.Tag)
}

// NewNonCanonicalError creates a NonCanonicalError for a value that
// fits in 64 bits.
func NewNonCanonicalError(field string, tag byte, value uint64) *NonCanonicalError {
	return &NonCanonicalError{Field: field, Tag: tag, Value: new(big.Int).SetUint64(value)}
}

// InvalidTagError reports an address tag byte with no defined meaning.
type InvalidTagError struct {
	Tag byte
}

func (e *InvalidTagError) Error() string {
	return fmt.Sprintf("invalid address tag 0x%02x", e.Tag)
}

// UnknownModuleError reports a module discriminant that is not in the
// dispatch table.
type UnknownModuleError struct {
	Index byte
}

func (e *UnknownModuleError) Error() string {
	return fmt.Sprintf("unknown module %d", e.Index)
}

// UnknownOperationError reports an operation discriminant that the
// module does not declare.
type UnknownOperationError struct {
	Module string
	Index  byte
}

func (e *UnknownOperationError) Error() string {
	return fmt.Sprintf("unknown operation %d in module %s", e.Index, e.Module)
}

// UnregisteredOperationError is returned when encoding an operation
// whose module or name has no entry in the dispatch table.
type UnregisteredOperationError struct {
	Module    string
	Operation string
}

func (e *UnregisteredOperationError) Error() string {
	return fmt.Sprintf("operation %s.%s is not in the dispatch table", e.Module, e.Operation)
}

// OperandError annotates an operand failure with its position in the
// operation's declaration.
type OperandError struct {
	Module    string
	Operation string
	Position  int
	Err       error
}

func (e *OperandError) Error() string {
	return fmt.Sprintf("%s.%s operand %d: %v", e.Module, e.Operation, e.Position, e.Err)
}

func (e *OperandError) Unwrap() error { return e.Err }

// IsNonCanonical checks whether an error is a NonCanonicalError and
// returns it.
func IsNonCanonical(err error) (*NonCanonicalError, bool) {
	var e *NonCanonicalError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsInvalidTag checks whether an error is an InvalidTagError and
// returns it.
func IsInvalidTag(err error) (*InvalidTagError, bool) {
	var e *InvalidTagError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsUnknownModule checks whether an error is an UnknownModuleError.
func IsUnknownModule(err error) (*UnknownModuleError, bool) {
	var e *UnknownModuleError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsUnknownOperation checks whether an error is an
// UnknownOperationError.
func IsUnknownOperation(err error) (*UnknownOperationError, bool) {
	var e *UnknownOperationError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsOperand checks whether an error carries an operand position and
// returns the outermost OperandError.
func IsOperand(err error) (*OperandError, bool) {
	var e *OperandError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
