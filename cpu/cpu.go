// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/rvmon/memory"
)

// Memory is the guest memory interface.
type Memory memory.Memory

// RESET_VECTOR is the default pc after a reset.
const RESET_VECTOR = uint32(0x8000_0000)

var _cpu_defines = map[string]string{
	"RESET_VECTOR": fmt.Sprintf("0x%x", RESET_VECTOR),
	"WORD_TRAP":    fmt.Sprintf("0x%x", WORD_TRAP),
}

// State is the execution state of the guest program.
type State int

//go:generate go tool stringer -linecomment -type=State
const (
	STATE_RUNNING        = State(0) // running
	STATE_HALTED_TRAP    = State(1) // trap
	STATE_HALTED_INVALID = State(2) // invalid
)

// Cpu is the simulation context for the RV32 core.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Memory Memory // Guest memory.

	Pc    uint32     // Current program counter.
	Gpr   [32]uint32 // General-purpose registers.
	State State      // Execution state.

	HaltPc  uint32 // Pc of the instruction that halted the guest.
	HaltRet uint32 // Value of a0 when the guest trapped.

	Ticks int // Retired instruction counter.
}

// NewCpu creates a new CPU attached to guest memory, reset to RESET_VECTOR.
func NewCpu(mem Memory) (cpu *Cpu) {
	cpu = &Cpu{
		Memory: mem,
	}

	cpu.Reset(RESET_VECTOR)

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset the CPU state.
// - Clears the registers.
// - Zeros the retired instruction counter.
// - Sets the pc, and returns to the running state.
func (cpu *Cpu) Reset(pc uint32) {
	if cpu.Verbose {
		log.Printf("cpu: reset to 0x%08x", pc)
	}

	clear(cpu.Gpr[:])
	cpu.Pc = pc
	cpu.State = STATE_RUNNING
	cpu.HaltPc = 0
	cpu.HaltRet = 0
	cpu.Ticks = 0
}

// Reg reads a register. Register 0 always reads as zero.
func (cpu *Cpu) Reg(n int) uint32 {
	if n <= 0 || n >= len(cpu.Gpr) {
		return 0
	}
	return cpu.Gpr[n]
}

// SetReg writes a register. Writes to register 0 are discarded.
func (cpu *Cpu) SetReg(n int, value uint32) {
	if n <= 0 || n >= len(cpu.Gpr) {
		return
	}
	cpu.Gpr[n] = value
}

// Halted returns true once the guest has trapped or hit an invalid opcode.
func (cpu *Cpu) Halted() bool {
	return cpu.State != STATE_RUNNING
}

// halt records the end of guest execution.
func (cpu *Cpu) halt(state State, pc uint32) {
	cpu.State = state
	cpu.HaltPc = pc
	cpu.HaltRet = cpu.Reg(10)

	if cpu.Verbose {
		log.Printf("cpu: %v at 0x%08x", state, pc)
	}
}

// String returns the register file as a table.
func (cpu *Cpu) String() (text string) {
	for n := range cpu.Gpr {
		val := cpu.Gpr[n]
		text += fmt.Sprintf("%-4s 0x%08x %d\n", RegName(n), val, val)
	}
	text += fmt.Sprintf("%-4s 0x%08x %d\n", "pc", cpu.Pc, cpu.Pc)

	return
}

// Fetch reads the instruction word at the current pc.
func (cpu *Cpu) Fetch() (word uint32, err error) {
	word, err = cpu.Memory.Read(cpu.Pc, 4)
	if err != nil {
		err = errors.Join(ErrFetch, err)
	}
	return
}

// Tick fetches, decodes and executes a single instruction.
// The pc only advances when the instruction retires and the guest is
// still running.
func (cpu *Cpu) Tick() (err error) {
	if cpu.Halted() {
		err = ErrHalted
		return
	}

	word, err := cpu.Fetch()
	if err != nil {
		return
	}

	inst := Decode(word, cpu.Pc)

	next_pc, err := cpu.Execute(inst)
	if err != nil {
		return
	}

	cpu.Ticks++

	if cpu.Halted() {
		return
	}

	cpu.Pc = next_pc

	return
}

// Execute executes a single decoded instruction, and returns the address
// of the next instruction.
func (cpu *Cpu) Execute(inst Instruction) (next_pc uint32, err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode(inst), err)
		}
	}()

	if cpu.Verbose {
		log.Printf("%08x: %08x %v", inst.Pc, inst.Word, inst)
	}

	s := &rtl{
		cpu:  cpu,
		pc:   inst.Pc,
		snpc: inst.Pc + 4,
	}
	s.dnpc = s.snpc

	op := inst.Op
	if op < 0 || int(op) >= len(executors) {
		op = OP_INVALID
	}

	err = executors[op](s, inst)
	if err != nil {
		return
	}

	next_pc = s.dnpc

	return
}
