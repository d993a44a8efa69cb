package monitor

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strings"
	"unicode"

	"github.com/fatih/color"
	"github.com/mattn/go-shellwords"

	"github.com/ezrec/rvmon/cpu"
	"github.com/ezrec/rvmon/emulator"
	"github.com/ezrec/rvmon/sdb"
	"github.com/ezrec/rvmon/translate"
)

// PROMPT is the interactive prompt.
const PROMPT = "(rvmon) "

var (
	colorGood = color.New(color.FgGreen, color.Bold)
	colorBad  = color.New(color.FgRed, color.Bold)
	colorHit  = color.New(color.FgYellow)
)

// Monitor drives an emulator from debugger commands.
type Monitor struct {
	Verbose bool      // If set, logs each command.
	Batch   bool      // If set, Run continues to completion without reading commands.
	Output  io.Writer // Command output.

	Emulator *emulator.Emulator
	Eval     *sdb.Evaluator
	Pool     *sdb.Pool
}

// NewMonitor attaches a monitor to an emulator, and installs itself as
// the emulator's watcher.
func NewMonitor(emu *emulator.Emulator, output io.Writer) (mon *Monitor) {
	eval := sdb.NewEvaluator(emu.Cpu)

	mon = &Monitor{
		Output:   output,
		Emulator: emu,
		Eval:     eval,
		Pool:     sdb.NewPool(eval),
	}

	emu.Watcher = mon

	return
}

// Check reports watchpoint hits after the instruction at pc retired.
func (mon *Monitor) Check(pc uint32) (hit bool) {
	for _, h := range mon.Pool.Check(pc) {
		colorHit.Fprintln(mon.Output, h.String())
		if h.Err == nil {
			fmt.Fprintf(mon.Output, "  0x%08x => 0x%08x\n", h.Old, h.New)
		}
		hit = true
	}

	return
}

func (mon *Monitor) printf(key string, args ...any) {
	translate.Fprintf(mon.Output, key, args...)
}

func (mon *Monitor) println(err error) {
	fmt.Fprintln(mon.Output, err)
}

// Run reads and executes commands from input until end of input or a
// quit command.
func (mon *Monitor) Run(input io.Reader) (err error) {
	if mon.Batch {
		mon.Exec("c")
		return
	}

	scanner := bufio.NewScanner(input)
	for {
		fmt.Fprint(mon.Output, PROMPT)
		if !scanner.Scan() {
			break
		}

		if mon.Exec(scanner.Text()) {
			return
		}
	}

	fmt.Fprintln(mon.Output)
	err = scanner.Err()

	return
}

// Exec executes a single command line, and returns true if the monitor
// should quit.
func (mon *Monitor) Exec(line string) (quit bool) {
	if mon.Verbose {
		log.Printf("monitor: %v", line)
	}

	name, args := cut(line)
	if len(name) == 0 {
		return
	}

	cmd, ok := lookup(name)
	if !ok {
		mon.println(ErrUnknownCommand(name))
		return
	}

	err := cmd.handler(mon, args)
	if err == errQuit {
		quit = true
		return
	}
	if err != nil {
		mon.println(err)
	}

	return
}

// cut splits the first word from the rest of a line.
func cut(line string) (word string, rest string) {
	line = strings.TrimSpace(line)
	n := strings.IndexFunc(line, unicode.IsSpace)
	if n < 0 {
		return line, ""
	}
	return line[:n], strings.TrimSpace(line[n:])
}

// words splits command arguments with shell quoting rules.
func words(args string) (argv []string, err error) {
	return shellwords.Parse(args)
}

// report describes why execution stopped.
func (mon *Monitor) report(stop emulator.Stop, err error) {
	c := mon.Emulator.Cpu

	switch stop {
	case emulator.STOP_TRAP:
		if err != nil {
			mon.printf("Program execution has ended.\n")
			return
		}
		if c.HaltRet == 0 {
			colorGood.Fprintln(mon.Output, f("HIT GOOD TRAP at pc = 0x%08x", c.HaltPc))
		} else {
			colorBad.Fprintln(mon.Output, f("HIT BAD TRAP at pc = 0x%08x", c.HaltPc))
		}
		mon.printf("trap: %d instructions retired\n", c.Ticks)
	case emulator.STOP_INVALID:
		if err != nil && !isInvalid(err) {
			mon.printf("Program execution has ended.\n")
			return
		}
		word, _ := c.Memory.Read(c.HaltPc, 4)
		colorBad.Fprintln(mon.Output, f("invalid instruction 0x%08x at pc 0x%08x", word, c.HaltPc))
	case emulator.STOP_FAULT:
		colorBad.Fprintln(mon.Output, err.Error())
	}
}

// listing prints the instruction at the current pc, and its source line
// when known.
func (mon *Monitor) listing() {
	c := mon.Emulator.Cpu

	word, err := c.Fetch()
	if err != nil {
		mon.println(err)
		return
	}

	text := fmt.Sprintf("0x%08x: %08x\t%v", c.Pc, word, cpu.Decode(word, c.Pc))
	if prog := mon.Emulator.Program; prog != nil {
		dbg := prog.Debug(c.Pc)
		if dbg.Opcode != nil {
			text += fmt.Sprintf("\t; %d: %v", dbg.LineNo, strings.Join(dbg.Words, " "))
		}
	}

	fmt.Fprintln(mon.Output, text)
}
