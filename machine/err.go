package machine

import (
	"errors"

	"github.com/ezrec/divarema/translate"
)

var f = translate.From

var (
	// Engine errors
	ErrAddress        = errors.New(f("address out of bounds"))
	ErrMalformedInput = errors.New(f("malformed input"))
	ErrIoFailure      = errors.New(f("io failure"))
	ErrOpcodeInvalid  = errors.New(f("opcode invalid"))
	ErrSnapshotSize   = errors.New(f("snapshot memory size mismatch"))
	ErrSnapshotState  = errors.New(f("snapshot state invalid"))
	ErrSnapshotIp     = errors.New(f("snapshot ip out of bounds"))

	// Loader errors
	ErrMissingOpcode   = errors.New(f("Missing OpCode"))
	ErrInvalidOpcode   = errors.New(f("Invalid OpCode"))
	ErrMissingArgument = errors.New(f("Missing Argument"))
	ErrInvalidArgument = errors.New(f("Invalid Argument"))
	ErrEquateSyntax    = errors.New(f(".equ syntax"))
	ErrEquateDuplicate = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate  = errors.New(f("label duplicated"))
)

// ErrAddressOutOfBounds reports an operand outside of memory, or a jump
// target past the end of the program.
type ErrAddressOutOfBounds struct {
	Ip          uint
	Instruction Instruction
	Limit       uint
}

func (err *ErrAddressOutOfBounds) Error() string {
	return f("ip %d '%v' address %d out of bounds (limit %d)",
		err.Ip, err.Instruction, err.Instruction.Arg, err.Limit)
}

func (err *ErrAddressOutOfBounds) Unwrap() error {
	return ErrAddress
}

// ErrLabelMissing reports a label that was used but never defined.
type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

func (el ErrLabelMissing) Unwrap() error {
	return ErrInvalidArgument
}

// ErrParseExpression reports a $(...) expression that is not an integer.
type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

func (err ErrParseExpression) Unwrap() error {
	return ErrInvalidArgument
}

// ErrSyntax locates a loader error in the source text.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}
