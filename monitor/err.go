package monitor

import (
	"errors"

	"github.com/ezrec/rvmon/translate"
)

var f = translate.From

var (
	ErrCountInvalid = errors.New(f("please input a non-negative integer"))
	ErrInfoMissing  = errors.New(f("please input [r] for registers or [w] for watchpoints"))
	ErrExprMissing  = errors.New(f("please input [EXPR]"))
	ErrWordsMissing = errors.New(f("please input [N] for the number of words"))
	ErrAddrMissing  = errors.New(f("please input [EXPR] for the beginning address"))
	ErrWpMissing    = errors.New(f("please input [N] for the watchpoint number"))
)

// ErrUnknownCommand reports a command not in the command table.
type ErrUnknownCommand string

func (err ErrUnknownCommand) Error() string {
	return f("Unknown command '%v'", string(err))
}
