// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"bytes"
	"fmt"
	"io"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/rvmon/cpu"
	"github.com/ezrec/rvmon/internal"
	"github.com/ezrec/rvmon/memory"
)

// Stop is the reason Exec returned.
type Stop int

//go:generate go tool stringer -linecomment -type=Stop
const (
	STOP_BUDGET  = Stop(0) // budget
	STOP_WATCH   = Stop(1) // watch
	STOP_TRAP    = Stop(2) // trap
	STOP_INVALID = Stop(3) // invalid
	STOP_FAULT   = Stop(4) // fault
)

// Watcher is consulted after every retired instruction. Returning true
// pauses execution.
type Watcher interface {
	Check(pc uint32) bool
}

// Emulator state. CPU + RAM + program listing.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Ram      *memory.Ram  // Guest memory.
	Program  *cpu.Program // Reference to the currently loaded program listing.
	Watcher  Watcher      // Optional; checked after each retired instruction.
	Entry    uint32       // Reset pc.
}

// NewEmulator creates a new emulator from a configuration.
func NewEmulator(cfg *Config) (emu *Emulator, err error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	err = cfg.Validate()
	if err != nil {
		return
	}

	ram := memory.NewRam(cfg.MemBase, cfg.MemSize)

	emu = &Emulator{
		Verbose: cfg.Verbose,
		Cpu:     cpu.NewCpu(ram),
		Ram:     ram,
		Program: &cpu.Program{Origin: cfg.Entry},
		Entry:   cfg.Entry,
	}

	emu.Reset()

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.Concat2(maps.All(map[string]string{
		"ENTRY": fmt.Sprintf("0x%x", emu.Entry),
	}),
		emu.Cpu.Defines(),
		emu.Ram.Defines(),
	)
}

// Reset the cpu to the entry point. Memory is preserved.
func (emu *Emulator) Reset() {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset(emu.Entry)
}

// Assemble parses source at the entry point, with the emulator defines
// available as equates, and loads the resulting program.
func (emu *Emulator) Assemble(source io.Reader) (prog *cpu.Program, err error) {
	asm := &cpu.Assembler{
		Verbose: emu.Verbose,
		Origin:  emu.Entry,
	}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}

	prog, err = asm.Parse(source)
	if err != nil {
		return
	}

	err = emu.LoadProgram(prog)
	return
}

// LoadProgram copies an assembled program into memory, and keeps its
// listing for source line lookups.
func (emu *Emulator) LoadProgram(prog *cpu.Program) (err error) {
	_, err = emu.Ram.Load(prog.Origin, bytes.NewReader(prog.Binary()))
	if err != nil {
		return
	}

	emu.Program = prog

	return
}

// LoadImage copies a raw image into memory at the entry point.
func (emu *Emulator) LoadImage(image io.Reader) (size int, err error) {
	size, err = emu.Ram.Load(emu.Entry, image)
	if err != nil {
		return
	}

	if emu.Verbose {
		log.Printf("emulator: loaded %d bytes at 0x%08x", size, emu.Entry)
	}

	return
}

// LineNo returns the source line number of the instruction at pc, or 0
// if there is no listing for it.
func (emu *Emulator) LineNo(pc uint32) int {
	if emu.Program == nil {
		return 0
	}

	dbg := emu.Program.Debug(pc)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// haltStop maps a halted cpu state to its Stop.
func (emu *Emulator) haltStop() Stop {
	if emu.Cpu.State == cpu.STATE_HALTED_INVALID {
		return STOP_INVALID
	}
	return STOP_TRAP
}

// Exec runs up to n instructions; n < 0 runs until the guest halts or a
// watcher pauses it.
func (emu *Emulator) Exec(n int) (stop Stop, err error) {
	emu.Cpu.Verbose = emu.Verbose

	if emu.Cpu.Halted() {
		stop = emu.haltStop()
		err = cpu.ErrHalted
		return
	}

	for n != 0 {
		pc := emu.Cpu.Pc

		err = emu.Cpu.Tick()
		if err != nil {
			err = &ErrRuntime{LineNo: emu.LineNo(pc), Pc: pc, Err: err}
			if emu.Cpu.Halted() {
				stop = emu.haltStop()
			} else {
				stop = STOP_FAULT
			}
			return
		}

		hit := emu.Watcher != nil && emu.Watcher.Check(pc)

		if emu.Cpu.Halted() {
			stop = emu.haltStop()
			return
		}

		if hit {
			stop = STOP_WATCH
			return
		}

		if n > 0 {
			n--
		}
	}

	stop = STOP_BUDGET

	return
}
