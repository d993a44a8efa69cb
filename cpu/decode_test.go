package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompilePattern(t *testing.T) {
	assert := assert.New(t)

	pat, err := compilePattern("??????? ????? ????? 010 ????? 00000 11")
	assert.NoError(err)
	assert.Equal(uint32(0x0000707f), pat.Mask)
	assert.Equal(uint32(0x00002003), pat.Match)

	_, err = compilePattern("0101")
	assert.ErrorIs(err, ErrPattern("0101"))

	_, err = compilePattern("??????? ????? ????? 0x0 ????? 00000 11")
	assert.Error(err)
}

func TestDecode(t *testing.T) {
	assert := assert.New(t)

	const pc = uint32(0x8000_0000)

	table := [](struct {
		name string
		word uint32
		inst Instruction
	}){
		{"lui", MakeLui(10, 0x80000),
			Instruction{Op: OP_LUI, Format: FORMAT_U, Rd: 10, Src1: Imm(-0x8000_0000)}},
		{"auipc", MakeAuipc(5, 0x1),
			Instruction{Op: OP_AUIPC, Format: FORMAT_U, Rd: 5, Src1: Imm(0x1000)}},
		{"lw", MakeLw(10, 2, -4),
			Instruction{Op: OP_LW, Format: FORMAT_I, Rd: 10, Src1: Reg(2), Src2: Imm(-4)}},
		{"sw", MakeSw(11, 2, -2048),
			Instruction{Op: OP_SW, Format: FORMAT_S, Rd: 11, Src1: Reg(2), Src2: Imm(-2048)}},
		{"addi", MakeAddi(1, 1, 2047),
			Instruction{Op: OP_ADDI, Format: FORMAT_I, Rd: 1, Src1: Reg(1), Src2: Imm(2047)}},
		{"jalr", MakeJalr(1, 6, 3),
			Instruction{Op: OP_JALR, Format: FORMAT_I, Rd: 1, Src1: Reg(6), Src2: Imm(3)}},
		{"jal+", MakeJal(1, 8),
			Instruction{Op: OP_JAL, Format: FORMAT_J, Rd: 1, Src1: Imm(8)}},
		{"jal-", MakeJal(0, -0x10_0000),
			Instruction{Op: OP_JAL, Format: FORMAT_J, Rd: 0, Src1: Imm(-0x10_0000)}},
		{"jal_bit11", MakeJal(0, 0x800),
			Instruction{Op: OP_JAL, Format: FORMAT_J, Rd: 0, Src1: Imm(0x800)}},
		{"trap", MakeTrap(),
			Instruction{Op: OP_TRAP, Format: FORMAT_N}},
		{"zero", 0x0000_0000,
			Instruction{Op: OP_INVALID, Format: FORMAT_N}},
		{"add", 0x0020_8033, // add x0, x1, x2
			Instruction{Op: OP_INVALID, Format: FORMAT_N}},
		{"lb", 0x0000_0003, // lb x0, 0(x0)
			Instruction{Op: OP_INVALID, Format: FORMAT_N}},
	}

	for _, entry := range table {
		inst := Decode(entry.word, pc)
		expected := entry.inst
		expected.Word = entry.word
		expected.Pc = pc
		assert.Equal(expected, inst, entry.name)
	}
}

func TestInstruction_String(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		word uint32
		text string
	}){
		{MakeLui(10, 0x80000), "lui a0, 0x80000"},
		{MakeLw(10, 2, 8), "lw a0, 8(sp)"},
		{MakeSw(11, 2, -4), "sw a1, -4(sp)"},
		{MakeAddi(5, 0, 42), "addi t0, $0, 42"},
		{MakeJalr(0, 1, 0), "jalr $0, ra, 0"},
		{MakeJal(1, 8), "jal ra, 0x1008"},
		{MakeTrap(), "trap"},
		{0xffff_ffff, "inv"},
	}

	for _, entry := range table {
		assert.Equal(entry.text, Decode(entry.word, 0x1000).String())
	}
}
