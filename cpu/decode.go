package cpu

import (
	"strings"
)

// pattern is a compiled instruction bit pattern.
type pattern struct {
	Mask   uint32
	Match  uint32
	Op     Op
	Format Format
}

// The instruction table. Patterns are written MSB first, with '?' for
// don't-care bits; spaces are ignored. The first matching entry wins.
var patternSource = []struct {
	text   string
	op     Op
	format Format
}{
	{"??????? ????? ????? ??? ????? 01101 11", OP_LUI, FORMAT_U},
	{"??????? ????? ????? ??? ????? 00101 11", OP_AUIPC, FORMAT_U},
	{"??????? ????? ????? 010 ????? 00000 11", OP_LW, FORMAT_I},
	{"??????? ????? ????? 000 ????? 00100 11", OP_ADDI, FORMAT_I},
	{"??????? ????? ????? 000 ????? 11001 11", OP_JALR, FORMAT_I},
	{"??????? ????? ????? 010 ????? 01000 11", OP_SW, FORMAT_S},
	{"??????? ????? ????? ??? ????? 11011 11", OP_JAL, FORMAT_J},
	{"??????? ????? ????? ??? ????? 11010 11", OP_TRAP, FORMAT_N},
}

var patterns []pattern

func init() {
	for _, src := range patternSource {
		pat, err := compilePattern(src.text)
		if err != nil {
			panic(err)
		}
		pat.Op = src.op
		pat.Format = src.format
		patterns = append(patterns, pat)
	}
}

// compilePattern converts a textual bit pattern into a mask and match.
func compilePattern(text string) (pat pattern, err error) {
	bits := strings.ReplaceAll(text, " ", "")
	if len(bits) != 32 {
		err = ErrPattern(text)
		return
	}

	for _, c := range bits {
		pat.Mask <<= 1
		pat.Match <<= 1
		switch c {
		case '0':
			pat.Mask |= 1
		case '1':
			pat.Mask |= 1
			pat.Match |= 1
		case '?':
		default:
			err = ErrPattern(text)
			return
		}
	}

	return
}

func immI(word uint32) int32 {
	return int32(word) >> 20
}

func immU(word uint32) int32 {
	return int32(word & 0xffff_f000)
}

func immS(word uint32) int32 {
	imm := ((word >> 25) << 5) | ((word >> 7) & 0x1f)
	return int32(imm<<20) >> 20
}

func immJ(word uint32) int32 {
	imm := ((word >> 31) << 20) |
		(((word >> 21) & 0x3ff) << 1) |
		(((word >> 20) & 1) << 11) |
		(((word >> 12) & 0xff) << 12)
	return int32(imm<<11) >> 11
}

// Decode decodes an instruction word fetched from pc.
// Words that match no pattern decode as OP_INVALID.
func Decode(word uint32, pc uint32) (inst Instruction) {
	inst = Instruction{Op: OP_INVALID, Format: FORMAT_N, Word: word, Pc: pc}

	for _, pat := range patterns {
		if word&pat.Mask != pat.Match {
			continue
		}

		inst.Op = pat.Op
		inst.Format = pat.Format

		rd := uint8((word >> 7) & 0x1f)
		rs1 := uint8((word >> 15) & 0x1f)
		rs2 := uint8((word >> 20) & 0x1f)

		switch pat.Format {
		case FORMAT_I:
			inst.Rd = rd
			inst.Src1 = Reg(rs1)
			inst.Src2 = Imm(immI(word))
		case FORMAT_U:
			inst.Rd = rd
			inst.Src1 = Imm(immU(word))
		case FORMAT_S:
			inst.Rd = rs2
			inst.Src1 = Reg(rs1)
			inst.Src2 = Imm(immS(word))
		case FORMAT_J:
			inst.Rd = rd
			inst.Src1 = Imm(immJ(word))
		}
		break
	}

	return
}
