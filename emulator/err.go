package emulator

import (
	"errors"

	"github.com/ezrec/rvmon/translate"
)

var f = translate.From

var (
	ErrConfigMemSize = errors.New(f("memory size must be positive"))
	ErrConfigEntry   = errors.New(f("entry point outside of memory"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	LineNo int
	Pc     uint32
	Err    error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo == 0 {
		return f("pc 0x%08x: %v", err.Pc, err.Err)
	}
	return f("line %d (pc 0x%08x): %v", err.LineNo, err.Pc, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
