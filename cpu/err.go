package cpu

import (
	"errors"

	"github.com/ezrec/rvmon/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrHalted             = errors.New(f("program execution has ended"))
	ErrFetch              = errors.New(f("instruction fetch"))
	ErrLoad               = errors.New(f("load"))
	ErrStore              = errors.New(f("store"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))

	// Assembler errors
	ErrEquateSyntax     = errors.New(f(".equ syntax"))
	ErrEquateDuplicate  = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate   = errors.New(f("label duplicated"))
	ErrLabelSyntax      = errors.New(f("label syntax"))
	ErrOpcodeExtraArgs  = errors.New(f("excessive arguments"))
	ErrOpcodeMissing    = errors.New(f("operand missing"))
	ErrMnemonicInvalid  = errors.New(f("mnemonic invalid"))
	ErrRegisterInvalid  = errors.New(f("register invalid"))
	ErrImmediateRange   = errors.New(f("immediate out of range"))
	ErrOffsetAlign      = errors.New(f("jump offset misaligned"))
	ErrAddressingSyntax = errors.New(f("expected offset(register)"))
)

// ErrPattern reports a malformed decoder bit pattern.
type ErrPattern string

func (err ErrPattern) Error() string {
	return f("decode pattern '%v' malformed", string(err))
}

// ErrOpcode decorates an execution error with the failing instruction.
type ErrOpcode Instruction

func (eo ErrOpcode) Error() string {
	return f("instruction 0x%08x at pc 0x%08x (%v)", eo.Word, eo.Pc, Instruction(eo).String())
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
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

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
