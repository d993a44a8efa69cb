package cpu

import (
	"fmt"
)

// Op is a decoded operation.
type Op int

//go:generate go tool stringer -linecomment -type=Op
const (
	OP_INVALID = Op(0) // inv
	OP_LUI     = Op(1) // lui
	OP_AUIPC   = Op(2) // auipc
	OP_LW      = Op(3) // lw
	OP_ADDI    = Op(4) // addi
	OP_JALR    = Op(5) // jalr
	OP_SW      = Op(6) // sw
	OP_JAL     = Op(7) // jal
	OP_TRAP    = Op(8) // trap
)

// Format is the operand layout of an instruction word.
type Format int

const (
	FORMAT_N = Format(0) // No operands.
	FORMAT_I = Format(1) // rd, rs1, imm[11:0]
	FORMAT_U = Format(2) // rd, imm[31:12]
	FORMAT_S = Format(3) // rs2, rs1, imm[11:0]
	FORMAT_J = Format(4) // rd, imm[20:1]
)

// Major opcodes (bits 6:0).
const (
	MAJOR_LOAD   = uint32(0b000_0011)
	MAJOR_OP_IMM = uint32(0b001_0011)
	MAJOR_AUIPC  = uint32(0b001_0111)
	MAJOR_STORE  = uint32(0b010_0011)
	MAJOR_LUI    = uint32(0b011_0111)
	MAJOR_JALR   = uint32(0b110_0111)
	MAJOR_TRAP   = uint32(0b110_1011)
	MAJOR_JAL    = uint32(0b110_1111)
)

// WORD_TRAP is the canonical trap instruction.
const WORD_TRAP = MAJOR_TRAP

// OperandKind discriminates an Operand.
type OperandKind int

const (
	OPERAND_NONE = OperandKind(0)
	OPERAND_REG  = OperandKind(1)
	OPERAND_IMM  = OperandKind(2)
)

// Operand is a source operand: a register reference or a sign-extended
// immediate.
type Operand struct {
	Kind OperandKind
	Reg  uint8
	Imm  int32
}

// Reg makes a register operand.
func Reg(n uint8) Operand {
	return Operand{Kind: OPERAND_REG, Reg: n}
}

// Imm makes an immediate operand.
func Imm(value int32) Operand {
	return Operand{Kind: OPERAND_IMM, Imm: value}
}

func (op Operand) String() string {
	switch op.Kind {
	case OPERAND_REG:
		return RegName(int(op.Reg))
	case OPERAND_IMM:
		return fmt.Sprintf("%d", op.Imm)
	}
	return "-"
}

// Instruction is a decoded instruction word.
// For stores, Rd names the register holding the data to store.
type Instruction struct {
	Op     Op
	Format Format
	Word   uint32
	Pc     uint32
	Rd     uint8
	Src1   Operand
	Src2   Operand
}

// String returns the assembly language representation of the instruction.
func (inst Instruction) String() (out string) {
	rd := RegName(int(inst.Rd))

	switch inst.Op {
	case OP_LUI, OP_AUIPC:
		out = fmt.Sprintf("%v %v, 0x%x", inst.Op, rd, uint32(inst.Src1.Imm)>>12)
	case OP_LW:
		out = fmt.Sprintf("%v %v, %v(%v)", inst.Op, rd, inst.Src2, inst.Src1)
	case OP_SW:
		out = fmt.Sprintf("%v %v, %v(%v)", inst.Op, rd, inst.Src2, inst.Src1)
	case OP_ADDI, OP_JALR:
		out = fmt.Sprintf("%v %v, %v, %v", inst.Op, rd, inst.Src1, inst.Src2)
	case OP_JAL:
		out = fmt.Sprintf("%v %v, 0x%x", inst.Op, rd, inst.Pc+uint32(inst.Src1.Imm))
	default:
		out = inst.Op.String()
	}

	return
}

func encodeI(major, funct3 uint32, rd, rs1 uint8, imm int32) uint32 {
	return (uint32(imm) << 20) | (uint32(rs1&0x1f) << 15) | (funct3 << 12) | (uint32(rd&0x1f) << 7) | major
}

func encodeS(major, funct3 uint32, rs2, rs1 uint8, imm int32) uint32 {
	u := uint32(imm)
	return (((u >> 5) & 0x7f) << 25) | (uint32(rs2&0x1f) << 20) | (uint32(rs1&0x1f) << 15) |
		(funct3 << 12) | ((u & 0x1f) << 7) | major
}

func encodeU(major uint32, rd uint8, imm20 uint32) uint32 {
	return ((imm20 & 0xfffff) << 12) | (uint32(rd&0x1f) << 7) | major
}

func encodeJ(major uint32, rd uint8, offset int32) uint32 {
	u := uint32(offset)
	return (((u >> 20) & 1) << 31) | (((u >> 1) & 0x3ff) << 21) | (((u >> 11) & 1) << 20) |
		(((u >> 12) & 0xff) << 12) | (uint32(rd&0x1f) << 7) | major
}

// MakeLui creates `lui rd, imm20`.
func MakeLui(rd uint8, imm20 uint32) uint32 {
	return encodeU(MAJOR_LUI, rd, imm20)
}

// MakeAuipc creates `auipc rd, imm20`.
func MakeAuipc(rd uint8, imm20 uint32) uint32 {
	return encodeU(MAJOR_AUIPC, rd, imm20)
}

// MakeLw creates `lw rd, imm(rs1)`.
func MakeLw(rd, rs1 uint8, imm int32) uint32 {
	return encodeI(MAJOR_LOAD, 0b010, rd, rs1, imm)
}

// MakeSw creates `sw rs2, imm(rs1)`.
func MakeSw(rs2, rs1 uint8, imm int32) uint32 {
	return encodeS(MAJOR_STORE, 0b010, rs2, rs1, imm)
}

// MakeAddi creates `addi rd, rs1, imm`.
func MakeAddi(rd, rs1 uint8, imm int32) uint32 {
	return encodeI(MAJOR_OP_IMM, 0b000, rd, rs1, imm)
}

// MakeJal creates `jal rd, offset`, with offset relative to the instruction.
func MakeJal(rd uint8, offset int32) uint32 {
	return encodeJ(MAJOR_JAL, rd, offset)
}

// MakeJalr creates `jalr rd, imm(rs1)`.
func MakeJalr(rd, rs1 uint8, imm int32) uint32 {
	return encodeI(MAJOR_JALR, 0b000, rd, rs1, imm)
}

// MakeTrap creates the program-termination instruction.
func MakeTrap() uint32 {
	return WORD_TRAP
}
