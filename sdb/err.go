package sdb

import (
	"errors"

	"github.com/ezrec/rvmon/translate"
)

var f = translate.From

var (
	// Tokenizer errors
	ErrTokenize = errors.New(f("tokenize"))

	// Evaluator errors
	ErrParse        = errors.New(f("parse"))
	ErrEmptyRange   = errors.New(f("empty expression"))
	ErrMalformed    = errors.New(f("malformed expression"))
	ErrParenthesis  = errors.New(f("unbalanced parentheses"))
	ErrNoOperator   = errors.New(f("no operator found"))
	ErrLiteralRange = errors.New(f("literal out of range"))
	ErrDivideByZero = errors.New(f("division by zero"))
	ErrDereference  = errors.New(f("dereference"))

	// Watchpoint errors
	ErrIllegalExpression = errors.New(f("illegal expression"))
	ErrPoolExhausted     = errors.New(f("no free watchpoints"))
)

// ErrRule reports a tokenizer rule that does not compile.
type ErrRule struct {
	Pattern string
	Err     error
}

func (err *ErrRule) Error() string {
	return f("rule '%v': %v", err.Pattern, err.Err)
}

func (err *ErrRule) Unwrap() error {
	return err.Err
}

// ErrExpression attaches an error class such as ErrParse to its cause.
type ErrExpression struct {
	Kind error
	Err  error
}

func (err *ErrExpression) Error() string {
	return f("%v: %v", err.Kind, err.Err)
}

func (err *ErrExpression) Unwrap() []error {
	return []error{err.Kind, err.Err}
}

// ErrNoMatch reports an input position where no tokenizer rule matches.
type ErrNoMatch struct {
	Position int
	Text     string
}

func (err *ErrNoMatch) Error() string {
	return f("no match at position %d in '%v'", err.Position, err.Text)
}

func (err *ErrNoMatch) Unwrap() error {
	return ErrTokenize
}

// ErrTokenLength reports a literal or register token that is too long.
type ErrTokenLength string

func (err ErrTokenLength) Error() string {
	return f("token '%v' longer than %d characters", string(err), TOKEN_LEN_MAX)
}

func (err ErrTokenLength) Unwrap() error {
	return ErrTokenize
}

// ErrRegisterUnknown reports an unresolved register reference.
type ErrRegisterUnknown string

func (err ErrRegisterUnknown) Error() string {
	return f("register '%v' unknown", string(err))
}

func (err ErrRegisterUnknown) Unwrap() error {
	return ErrParse
}

// ErrUnknownWatchpoint reports a watchpoint number that is not active.
type ErrUnknownWatchpoint int

func (err ErrUnknownWatchpoint) Error() string {
	return f("watchpoint %d not found", int(err))
}
