package cpu

import (
	"errors"

	"github.com/ezrec/sim86/translate"
)

var f = translate.From

var (
	// Decode and execute errors
	ErrOpcodeUnsupported  = errors.New(f("opcode unsupported"))
	ErrOperandUnsupported = errors.New(f("operand combination unsupported"))
	ErrOutOfBounds        = errors.New(f("out of bounds"))

	// Encoder errors
	ErrEncodeInvalid      = errors.New(f("no encoding"))
	ErrDisplacementRange  = errors.New(f("branch displacement out of range"))
	ErrImmediateRange     = errors.New(f("immediate out of range"))
	ErrWidthMismatch      = errors.New(f("operand width mismatch"))
	ErrEncodeIncompatible = errors.New(f("operand kind not encodable"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrOpcodeInvalid      = errors.New(f("opcode invalid"))
	ErrMemoryInvalid      = errors.New(f("memory reference invalid"))
	ErrWidthMissing       = errors.New(f("operand width missing"))
)

// ErrOpcode is the leading byte of an encoding outside the supported subset.
type ErrOpcode byte

func (eo ErrOpcode) Error() string {
	return f("bad opcode 0x%02x (%08b)", byte(eo), byte(eo))
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	if err == ErrOpcodeUnsupported {
		return true
	}
	_, ok = err.(ErrOpcode)
	return
}

// ErrOperand is an instruction whose operand kinds have no defined semantics.
type ErrOperand struct {
	Op   Op
	Dest OperandKind
	Src  OperandKind
}

func (eo *ErrOperand) Error() string {
	return f("%v: %v <- %v unsupported", eo.Op, eo.Dest, eo.Src)
}

func (eo *ErrOperand) Unwrap() error {
	return ErrOperandUnsupported
}

// ErrWindow is a decode window shorter than the instruction it holds.
type ErrWindow struct {
	Need int
	Have int
}

func (ew *ErrWindow) Error() string {
	return f("decode window has %d bytes, need %d", ew.Have, ew.Need)
}

func (ew *ErrWindow) Unwrap() error {
	return ErrOutOfBounds
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseOperand string

func (err ErrParseOperand) Error() string {
	return f("'%v' is not a register, memory reference or value", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
