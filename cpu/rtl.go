package cpu

import (
	"errors"
)

// rtl carries the effects of one instruction while it executes.
// Register writes go straight to the register file; the next pc is only
// committed by the caller once the instruction completes.
type rtl struct {
	cpu  *Cpu
	pc   uint32 // Address of the executing instruction.
	snpc uint32 // Static next pc.
	dnpc uint32 // Dynamic next pc.
}

// src returns the value of an operand.
func (s *rtl) src(op Operand) (value uint32) {
	switch op.Kind {
	case OPERAND_REG:
		value = s.cpu.Reg(int(op.Reg))
	case OPERAND_IMM:
		value = uint32(op.Imm)
	}
	return
}

// li loads an immediate into rd.
func (s *rtl) li(rd uint8, imm uint32) {
	s.cpu.SetReg(int(rd), imm)
}

// j redirects the next pc to target.
func (s *rtl) j(target uint32) {
	s.dnpc = target
}

// addi stores src + imm into rd.
func (s *rtl) addi(rd uint8, src uint32, imm uint32) {
	s.cpu.SetReg(int(rd), src+imm)
}

// lm loads width bytes at addr into rd.
func (s *rtl) lm(rd uint8, addr uint32, width int) (err error) {
	value, err := s.cpu.Memory.Read(addr, width)
	if err != nil {
		err = errors.Join(ErrLoad, err)
		return
	}
	s.cpu.SetReg(int(rd), value)
	return
}

// sm stores the low width bytes of value at addr.
func (s *rtl) sm(value uint32, addr uint32, width int) (err error) {
	err = s.cpu.Memory.Write(addr, width, value)
	if err != nil {
		err = errors.Join(ErrStore, err)
	}
	return
}

type executor func(s *rtl, inst Instruction) error

// executors is indexed by Op; every Op has an entry.
var executors = [...]executor{
	OP_INVALID: execInvalid,
	OP_LUI:     execLui,
	OP_AUIPC:   execAuipc,
	OP_LW:      execLw,
	OP_ADDI:    execAddi,
	OP_JALR:    execJalr,
	OP_SW:      execSw,
	OP_JAL:     execJal,
	OP_TRAP:    execTrap,
}

func execInvalid(s *rtl, inst Instruction) error {
	s.cpu.halt(STATE_HALTED_INVALID, s.pc)
	return ErrInstructionInvalid
}

func execLui(s *rtl, inst Instruction) error {
	s.li(inst.Rd, s.src(inst.Src1))
	return nil
}

func execAuipc(s *rtl, inst Instruction) error {
	s.li(inst.Rd, s.pc+s.src(inst.Src1))
	return nil
}

func execLw(s *rtl, inst Instruction) error {
	return s.lm(inst.Rd, s.src(inst.Src1)+s.src(inst.Src2), 4)
}

func execSw(s *rtl, inst Instruction) error {
	return s.sm(s.cpu.Reg(int(inst.Rd)), s.src(inst.Src1)+s.src(inst.Src2), 4)
}

func execAddi(s *rtl, inst Instruction) error {
	s.addi(inst.Rd, s.src(inst.Src1), s.src(inst.Src2))
	return nil
}

func execJal(s *rtl, inst Instruction) error {
	s.j(s.pc + s.src(inst.Src1))
	s.li(inst.Rd, s.snpc)
	return nil
}

func execJalr(s *rtl, inst Instruction) error {
	target := (s.src(inst.Src1) + s.src(inst.Src2)) & ^uint32(1)
	s.j(target)
	s.li(inst.Rd, s.snpc)
	return nil
}

func execTrap(s *rtl, inst Instruction) error {
	s.cpu.halt(STATE_HALTED_TRAP, s.pc)
	return nil
}
