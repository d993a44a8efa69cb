package sdb

import (
	"regexp"
)

// TOKEN_LEN_MAX is the longest literal or register token accepted.
const TOKEN_LEN_MAX = 31

// TokenType is the tag of a token.
type TokenType int

//go:generate go tool stringer -linecomment -type=TokenType
const (
	TK_NOTYPE = TokenType(0)  // notype
	TK_DEC    = TokenType(1)  // dec
	TK_HEX    = TokenType(2)  // hex
	TK_REG    = TokenType(3)  // reg
	TK_DEREF  = TokenType(4)  // deref
	TK_LPAREN = TokenType(5)  // (
	TK_RPAREN = TokenType(6)  // )
	TK_PLUS   = TokenType(7)  // +
	TK_MINUS  = TokenType(8)  // -
	TK_TIMES  = TokenType(9)  // *
	TK_DIVIDE = TokenType(10) // /
	TK_EQ     = TokenType(11) // ==
)

// IsValue returns true for literal and register tokens.
func (tt TokenType) IsValue() bool {
	switch tt {
	case TK_DEC, TK_HEX, TK_REG:
		return true
	}
	return false
}

// Token is a single lexical item of an expression.
type Token struct {
	Type TokenType
	Text string
}

func (tk Token) String() string {
	if tk.Type.IsValue() {
		return tk.Text
	}
	return tk.Type.String()
}

// Rule maps a regular expression to a token type.
// Matches of TK_NOTYPE rules are discarded.
type Rule struct {
	Pattern string
	Type    TokenType
}

// DefaultRules are the expression rules, in priority order.
var DefaultRules = []Rule{
	{`0x[0-9a-fA-F]+`, TK_HEX},
	{`[0-9]+`, TK_DEC},
	{`\s+`, TK_NOTYPE},
	{`\$\S+`, TK_REG},
	{`\(`, TK_LPAREN},
	{`\)`, TK_RPAREN},
	{`\+`, TK_PLUS},
	{`-`, TK_MINUS},
	{`\*`, TK_TIMES},
	{`/`, TK_DIVIDE},
	{`==`, TK_EQ},
}

type rule struct {
	re    *regexp.Regexp
	token TokenType
}

// Tokenizer splits text into tokens.
// At each position the first rule that matches wins.
type Tokenizer struct {
	rules []rule
}

// NewTokenizer compiles a rule table. Each pattern is anchored at the
// current input position.
func NewTokenizer(rules ...Rule) (tk *Tokenizer, err error) {
	tk = &Tokenizer{}

	for _, r := range rules {
		var re *regexp.Regexp
		re, err = regexp.Compile(`^(?:` + r.Pattern + `)`)
		if err != nil {
			err = &ErrRule{Pattern: r.Pattern, Err: err}
			tk = nil
			return
		}
		tk.rules = append(tk.rules, rule{re: re, token: r.Type})
	}

	return
}

// MustTokenizer is NewTokenizer that panics on a malformed rule table.
func MustTokenizer(rules ...Rule) *Tokenizer {
	tk, err := NewTokenizer(rules...)
	if err != nil {
		panic(err)
	}
	return tk
}

var defaultTokenizer = MustTokenizer(DefaultRules...)

// match returns the first rule matching at the start of text.
func (tk *Tokenizer) match(text string) (token TokenType, size int, ok bool) {
	for _, r := range tk.rules {
		loc := r.re.FindStringIndex(text)
		if loc == nil || loc[1] == 0 {
			continue
		}
		return r.token, loc[1], true
	}
	return
}

// Tokenize splits text into tokens, and marks prefix '*' operators as
// dereferences.
func (tk *Tokenizer) Tokenize(text string) (tokens []Token, err error) {
	for pos := 0; pos < len(text); {
		token, size, ok := tk.match(text[pos:])
		if !ok {
			err = &ErrNoMatch{Position: pos, Text: text}
			tokens = nil
			return
		}

		str := text[pos : pos+size]
		pos += size

		if token == TK_NOTYPE {
			continue
		}

		if token.IsValue() && len(str) > TOKEN_LEN_MAX {
			err = ErrTokenLength(str)
			tokens = nil
			return
		}

		tokens = append(tokens, Token{Type: token, Text: str})
	}

	for n := range tokens {
		if tokens[n].Type != TK_TIMES {
			continue
		}
		if n == 0 {
			tokens[n].Type = TK_DEREF
			continue
		}
		prev := tokens[n-1].Type
		if !prev.IsValue() && prev != TK_RPAREN {
			tokens[n].Type = TK_DEREF
		}
	}

	return
}
