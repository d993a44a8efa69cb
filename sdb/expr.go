package sdb

import (
	"log"
	"strconv"

	"github.com/ezrec/rvmon/cpu"
)

// Evaluator computes the value of debugger expressions against the
// current machine state. It never modifies the machine.
type Evaluator struct {
	Verbose   bool
	Cpu       *cpu.Cpu   // Register and memory source.
	Tokenizer *Tokenizer // If nil, DefaultRules are used.
}

// NewEvaluator creates an evaluator with the default rules.
func NewEvaluator(c *cpu.Cpu) *Evaluator {
	return &Evaluator{
		Cpu:       c,
		Tokenizer: defaultTokenizer,
	}
}

// Eval tokenizes and evaluates an expression.
func (e *Evaluator) Eval(text string) (value uint32, err error) {
	tk := e.Tokenizer
	if tk == nil {
		tk = defaultTokenizer
	}

	tokens, err := tk.Tokenize(text)
	if err != nil {
		return
	}

	value, err = e.EvalTokens(tokens, 0, len(tokens)-1)
	if e.Verbose {
		log.Printf("sdb: %v = 0x%08x (%v)", tokens, value, err)
	}

	return
}

// EvalTokens evaluates the inclusive token range [begin, end].
func (e *Evaluator) EvalTokens(tokens []Token, begin, end int) (value uint32, err error) {
	ev := &evaluation{
		cpu:    e.Cpu,
		tokens: tokens,
	}

	value = ev.eval(begin, end)
	err = ev.err
	if err != nil {
		value = 0
	}

	return
}

// evaluation is the state of one evaluation; the first recorded error
// stops all further work.
type evaluation struct {
	cpu    *cpu.Cpu
	tokens []Token
	err    error
}

func (ev *evaluation) fail(err error) uint32 {
	if ev.err == nil {
		ev.err = err
	}
	return 0
}

func (ev *evaluation) parseFail(err error) uint32 {
	return ev.fail(&ErrExpression{Kind: ErrParse, Err: err})
}

func precedence(tt TokenType) int {
	switch tt {
	case TK_PLUS, TK_MINUS:
		return 1
	case TK_TIMES, TK_DIVIDE:
		return 2
	case TK_DEREF:
		return 3
	}
	return 0
}

// single evaluates a one token range.
func (ev *evaluation) single(tk Token) uint32 {
	switch tk.Type {
	case TK_DEC, TK_HEX:
		var value uint64
		var err error
		if tk.Type == TK_HEX {
			value, err = strconv.ParseUint(tk.Text[2:], 16, 32)
		} else {
			value, err = strconv.ParseUint(tk.Text, 10, 32)
		}
		if err != nil {
			return ev.parseFail(ErrLiteralRange)
		}
		return uint32(value)
	case TK_REG:
		value, ok := ev.cpu.RegStr2Val(tk.Text)
		if !ok {
			return ev.fail(ErrRegisterUnknown(tk.Text))
		}
		return value
	}

	return ev.parseFail(ErrMalformed)
}

// enclosed returns true if the range is wrapped by a matching pair of
// parentheses.
func (ev *evaluation) enclosed(begin, end int) bool {
	if ev.tokens[begin].Type != TK_LPAREN || ev.tokens[end].Type != TK_RPAREN {
		return false
	}

	depth := 0
	for n := begin; n <= end; n++ {
		switch ev.tokens[n].Type {
		case TK_LPAREN:
			depth++
		case TK_RPAREN:
			depth--
		}
		if depth <= 0 && n < end {
			return false
		}
	}

	return depth == 0
}

// mainOperator finds the operator to split the range at: the rightmost
// depth 0 operator of lowest precedence. A dereference is only selected
// when it starts the range.
func (ev *evaluation) mainOperator(begin, end int) (op int, err error) {
	op = -1
	chosen := 0
	depth := 0

	for n := begin; n <= end; n++ {
		tt := ev.tokens[n].Type
		switch tt {
		case TK_LPAREN:
			depth++
			continue
		case TK_RPAREN:
			depth--
			if depth < 0 {
				err = ErrParenthesis
				return
			}
			continue
		}

		if depth != 0 {
			continue
		}

		prec := precedence(tt)
		if prec == 0 {
			continue
		}

		if tt == TK_DEREF {
			if n == begin {
				op = n
				chosen = prec
			}
			continue
		}

		if op < 0 || prec <= chosen {
			op = n
			chosen = prec
		}
	}

	if depth != 0 {
		err = ErrParenthesis
		return
	}

	if op < 0 {
		err = ErrNoOperator
	}

	return
}

func (ev *evaluation) eval(begin, end int) uint32 {
	if ev.err != nil {
		return 0
	}

	if begin > end || begin < 0 || end >= len(ev.tokens) {
		return ev.parseFail(ErrEmptyRange)
	}

	if begin == end {
		return ev.single(ev.tokens[begin])
	}

	if ev.enclosed(begin, end) {
		return ev.eval(begin+1, end-1)
	}

	op, err := ev.mainOperator(begin, end)
	if err != nil {
		return ev.parseFail(err)
	}

	if ev.tokens[op].Type == TK_DEREF {
		addr := ev.eval(op+1, end)
		if ev.err != nil {
			return 0
		}
		value, err := ev.cpu.Memory.Read(addr, 4)
		if err != nil {
			return ev.fail(&ErrExpression{Kind: ErrDereference, Err: err})
		}
		return value
	}

	left := ev.eval(begin, op-1)
	right := ev.eval(op+1, end)
	if ev.err != nil {
		return 0
	}

	switch ev.tokens[op].Type {
	case TK_PLUS:
		return left + right
	case TK_MINUS:
		return left - right
	case TK_TIMES:
		return left * right
	case TK_DIVIDE:
		if right == 0 {
			return ev.fail(ErrDivideByZero)
		}
		return left / right
	}

	return ev.parseFail(ErrMalformed)
}
