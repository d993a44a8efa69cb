// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":       "0",
	"RESET_VECTOR": fmt.Sprintf("0x%x", RESET_VECTOR),
	"WORD_TRAP":    fmt.Sprintf("0x%x", WORD_TRAP),
}

var (
	reParen    = regexp.MustCompile(`\$\([^\$]*\)`)
	reMemory   = regexp.MustCompile(`^(.*)\(([[:alnum:]$]+)\)$`)
	reRegister = regexp.MustCompile(`^x([0-9]|[12][0-9]|3[01])$`)
	reLabel    = regexp.MustCompile(`^[[:alpha:]_.][[:alnum:]_.]*$`)
)

// Assembler is a two pass assembler for the rvmon instruction subset.
//
// The first pass expands $(...) expressions and equates, assigns label
// addresses and sizes each line; the second pass encodes the instructions
// with all labels known.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Origin  uint32   // Address of the first instruction.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string // Predefines
	Label     map[string]uint32 // Map of labels to addresses.
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// value resolves a word to a number: an equate, a label or a literal.
func (asm *Assembler) value(word string) (value int64, err error) {
	if equate, ok := asm.Equate[word]; ok && equate != word {
		word = equate
	}

	if addr, ok := asm.Label[word]; ok {
		value = int64(addr)
		return
	}

	value, err = strconv.ParseInt(word, 0, 64)
	if err != nil {
		if reLabel.MatchString(word) {
			err = ErrLabelMissing(word)
		} else {
			err = ErrParseNumber(word)
		}
		return
	}

	return
}

// word32 resolves a word to a 32-bit value, signed or unsigned.
func (asm *Assembler) word32(word string) (value uint32, err error) {
	v64, err := asm.value(word)
	if err != nil {
		return
	}

	if v64 > 0xffffffff || v64 < -int64(0x80000000) {
		err = ErrImmediateRange
		return
	}

	value = uint32(v64)
	return
}

// imm12 resolves a signed 12-bit immediate.
func (asm *Assembler) imm12(word string) (imm int32, err error) {
	v64, err := asm.value(word)
	if err != nil {
		return
	}

	if v64 < -2048 || v64 > 2047 {
		err = ErrImmediateRange
		return
	}

	imm = int32(v64)
	return
}

// imm20 resolves an upper immediate.
func (asm *Assembler) imm20(word string) (imm uint32, err error) {
	v64, err := asm.value(word)
	if err != nil {
		return
	}

	if v64 < -(1<<19) || v64 > (1<<20)-1 {
		err = ErrImmediateRange
		return
	}

	imm = uint32(v64) & 0xfffff
	return
}

// register resolves a register name.
func (asm *Assembler) register(word string) (reg uint8, err error) {
	if equate, ok := asm.Equate[word]; ok {
		word = equate
	}

	if n, ok := RegIndex(word); ok {
		reg = uint8(n)
		return
	}

	switch word {
	case "zero":
		return 0, nil
	case "fp":
		return 8, nil
	}

	if m := reRegister.FindStringSubmatch(word); m != nil {
		n, _ := strconv.Atoi(m[1])
		reg = uint8(n)
		return
	}

	err = ErrRegisterInvalid
	return
}

// memory resolves an `offset(register)` operand.
func (asm *Assembler) memory(word string) (base uint8, offset int32, err error) {
	m := reMemory.FindStringSubmatch(word)
	if m == nil {
		err = ErrAddressingSyntax
		return
	}

	if len(m[1]) != 0 {
		offset, err = asm.imm12(m[1])
		if err != nil {
			return
		}
	}

	base, err = asm.register(m[2])
	return
}

// offset resolves a pc-relative jump target.
func (asm *Assembler) offset(word string, pc uint32) (offset int32, err error) {
	target, err := asm.word32(word)
	if err != nil {
		return
	}

	offset = int32(target - pc)
	if offset&1 != 0 {
		err = ErrOffsetAlign
		return
	}
	if offset < -(1<<20) || offset > (1<<20)-2 {
		err = ErrImmediateRange
		return
	}

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value uint32, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		v64, err := strconv.ParseInt(str, 0, 64)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = uint32(st_int64)
	return
}

// parseLine expands a single line into words, defining any equates and
// labels it contains.
func (asm *Assembler) parseLine(line string, lineno int, pc uint32) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	line = reParen.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%#v", value)
	})
	if err != nil {
		return
	}

	words = strings.Fields(strings.ReplaceAll(line, ",", " "))
	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		if len(label) == 0 {
			err = ErrLabelSyntax
			return
		}
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}
		asm.Label[label] = pc
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	for n, word := range words {
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	return
}

// sizeOf returns the number of instruction words a line assembles into.
func sizeOf(words []string) (size int, err error) {
	switch words[0] {
	case "li", "la":
		size = 2
	case ".word":
		size = len(words) - 1
		if size == 0 {
			err = ErrOpcodeMissing
		}
	case "lui", "auipc", "lw", "sw", "addi", "jal", "jalr", "trap",
		"nop", "mv", "j", "call", "ret":
		size = 1
	default:
		err = ErrMnemonicInvalid
	}

	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Opcode = asm.Opcode[:0]
	asm.Label = make(map[string]uint32, 16)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	lines := make(map[int]string)
	pc := asm.Origin

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		if n := strings.IndexAny(text, ";#"); n >= 0 {
			text = text[:n]
		}
		line = strings.TrimSpace(text)

		var words []string
		words, err = asm.parseLine(line, lineno, pc)
		if err != nil {
			return
		}
		if len(words) == 0 {
			continue
		}

		var size int
		size, err = sizeOf(words)
		if err != nil {
			return
		}

		lines[lineno] = line
		asm.Opcode = append(asm.Opcode, Opcode{LineNo: lineno, Pc: pc, Words: words})
		pc += uint32(4 * size)
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Encode with all labels known.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]
		lineno = op.LineNo
		line = lines[lineno]

		op.Codes, err = asm.encode(op.Words, op.Pc)
		if err != nil {
			return
		}
	}

	prog = &Program{
		Origin:  asm.Origin,
		Opcodes: append([]Opcode(nil), asm.Opcode...),
	}

	return
}

// operands checks the operand count of an instruction.
func operands(words []string, count int) (args []string, err error) {
	args = words[1:]
	if len(args) < count {
		err = ErrOpcodeMissing
		return
	}
	if len(args) > count {
		err = ErrOpcodeExtraArgs
		return
	}
	return
}

// split returns the high and low parts of a value, such that
// (hi << 12) + sext(lo) == value.
func split(value uint32) (hi uint32, lo int32) {
	lo = int32(value<<20) >> 20
	hi = ((value - uint32(lo)) >> 12) & 0xfffff
	return
}

// encode assembles the words of one line at pc.
func (asm *Assembler) encode(words []string, pc uint32) (codes []uint32, err error) {
	var args []string
	var rd, rs uint8
	var imm int32

	switch words[0] {
	case "lui", "auipc":
		if args, err = operands(words, 2); err != nil {
			return
		}
		if rd, err = asm.register(args[0]); err != nil {
			return
		}
		var imm20 uint32
		if imm20, err = asm.imm20(args[1]); err != nil {
			return
		}
		if words[0] == "lui" {
			codes = append(codes, MakeLui(rd, imm20))
		} else {
			codes = append(codes, MakeAuipc(rd, imm20))
		}
	case "addi":
		if args, err = operands(words, 3); err != nil {
			return
		}
		if rd, err = asm.register(args[0]); err != nil {
			return
		}
		if rs, err = asm.register(args[1]); err != nil {
			return
		}
		if imm, err = asm.imm12(args[2]); err != nil {
			return
		}
		codes = append(codes, MakeAddi(rd, rs, imm))
	case "lw", "sw":
		if args, err = operands(words, 2); err != nil {
			return
		}
		if rd, err = asm.register(args[0]); err != nil {
			return
		}
		if rs, imm, err = asm.memory(args[1]); err != nil {
			return
		}
		if words[0] == "lw" {
			codes = append(codes, MakeLw(rd, rs, imm))
		} else {
			codes = append(codes, MakeSw(rd, rs, imm))
		}
	case "jal":
		rd = 1
		args = words[1:]
		switch len(args) {
		case 0:
			err = ErrOpcodeMissing
			return
		case 1:
		case 2:
			if rd, err = asm.register(args[0]); err != nil {
				return
			}
			args = args[1:]
		default:
			err = ErrOpcodeExtraArgs
			return
		}
		if imm, err = asm.offset(args[0], pc); err != nil {
			return
		}
		codes = append(codes, MakeJal(rd, imm))
	case "jalr":
		rd = 1
		args = words[1:]
		switch len(args) {
		case 0:
			err = ErrOpcodeMissing
			return
		case 1:
			// jalr rs1
			if rs, err = asm.register(args[0]); err != nil {
				return
			}
		case 2:
			// jalr rd, imm(rs1)
			if rd, err = asm.register(args[0]); err != nil {
				return
			}
			if rs, imm, err = asm.memory(args[1]); err != nil {
				return
			}
		case 3:
			// jalr rd, rs1, imm
			if rd, err = asm.register(args[0]); err != nil {
				return
			}
			if rs, err = asm.register(args[1]); err != nil {
				return
			}
			if imm, err = asm.imm12(args[2]); err != nil {
				return
			}
		default:
			err = ErrOpcodeExtraArgs
			return
		}
		codes = append(codes, MakeJalr(rd, rs, imm))
	case "trap":
		if _, err = operands(words, 0); err != nil {
			return
		}
		codes = append(codes, MakeTrap())
	case "nop":
		if _, err = operands(words, 0); err != nil {
			return
		}
		codes = append(codes, MakeAddi(0, 0, 0))
	case "ret":
		if _, err = operands(words, 0); err != nil {
			return
		}
		codes = append(codes, MakeJalr(0, 1, 0))
	case "mv":
		if args, err = operands(words, 2); err != nil {
			return
		}
		if rd, err = asm.register(args[0]); err != nil {
			return
		}
		if rs, err = asm.register(args[1]); err != nil {
			return
		}
		codes = append(codes, MakeAddi(rd, rs, 0))
	case "j", "call":
		if args, err = operands(words, 1); err != nil {
			return
		}
		if imm, err = asm.offset(args[0], pc); err != nil {
			return
		}
		if words[0] == "call" {
			rd = 1
		}
		codes = append(codes, MakeJal(rd, imm))
	case "li", "la":
		if args, err = operands(words, 2); err != nil {
			return
		}
		if rd, err = asm.register(args[0]); err != nil {
			return
		}
		var value uint32
		if value, err = asm.word32(args[1]); err != nil {
			return
		}
		if words[0] == "la" {
			hi, lo := split(value - pc)
			codes = append(codes, MakeAuipc(rd, hi), MakeAddi(rd, rd, lo))
		} else {
			hi, lo := split(value)
			codes = append(codes, MakeLui(rd, hi), MakeAddi(rd, rd, lo))
		}
	case ".word":
		for _, word := range words[1:] {
			var value uint32
			if value, err = asm.word32(word); err != nil {
				return
			}
			codes = append(codes, value)
		}
	default:
		err = ErrMnemonicInvalid
		return
	}

	return
}
