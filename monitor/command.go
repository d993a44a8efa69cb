package monitor

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/ezrec/rvmon/cpu"
)

// errQuit is returned by the quit command handler.
var errQuit = errors.New("quit")

type command struct {
	name        string
	description string
	handler     func(mon *Monitor, args string) error
}

var commands []command

func init() {
	commands = []command{
		{"help", "Display information about all supported commands", cmdHelp},
		{"c", "Continue the execution of the program", cmdContinue},
		{"q", "Exit rvmon", cmdQuit},
		{"si", "Run [N] instructions", cmdStep},
		{"info", "Print the information of [r]egisters or [w]atchpoints", cmdInfo},
		{"p", "Print the value of [EXPR]", cmdPrint},
		{"x", "Scan the memory for [N] words begins with the value of [EXPR]", cmdExamine},
		{"w", "Pause execution when the value of [EXPR] changes", cmdWatch},
		{"d", "Delete watchpoint [N]", cmdDelete},
	}
}

func lookup(name string) (cmd command, ok bool) {
	for _, cmd = range commands {
		if cmd.name == name {
			ok = true
			return
		}
	}
	return
}

func isInvalid(err error) bool {
	return errors.Is(err, cpu.ErrInstructionInvalid)
}

func cmdHelp(mon *Monitor, line string) (err error) {
	args, err := words(line)
	if err != nil {
		return
	}

	if len(args) == 0 {
		for _, cmd := range commands {
			fmt.Fprintf(mon.Output, "%s - %s\n", cmd.name, f(cmd.description))
		}
		return
	}

	cmd, ok := lookup(args[0])
	if !ok {
		err = ErrUnknownCommand(args[0])
		return
	}

	fmt.Fprintf(mon.Output, "%s - %s\n", cmd.name, f(cmd.description))
	return
}

func cmdContinue(mon *Monitor, line string) (err error) {
	mon.report(mon.Emulator.Exec(-1))
	return
}

func cmdQuit(mon *Monitor, line string) (err error) {
	return errQuit
}

func cmdStep(mon *Monitor, line string) (err error) {
	args, err := words(line)
	if err != nil {
		return
	}

	steps := 1
	if len(args) > 0 {
		steps, err = strconv.Atoi(args[0])
		if err != nil || steps < 0 {
			err = ErrCountInvalid
			return
		}
	}

	stop, err := mon.Emulator.Exec(steps)
	mon.report(stop, err)
	err = nil

	if !mon.Emulator.Cpu.Halted() {
		mon.listing()
	}

	return
}

func cmdInfo(mon *Monitor, line string) (err error) {
	args, err := words(line)
	if err != nil {
		return
	}

	if len(args) == 0 {
		err = ErrInfoMissing
		return
	}

	switch args[0] {
	case "r":
		fmt.Fprint(mon.Output, mon.Emulator.Cpu.String())
	case "w":
		err = mon.Pool.Display(mon.Output)
	default:
		err = ErrInfoMissing
	}

	return
}

func cmdPrint(mon *Monitor, expr string) (err error) {
	if len(expr) == 0 {
		err = ErrExprMissing
		return
	}

	value, err := mon.Eval.Eval(expr)
	if err != nil {
		return
	}

	fmt.Fprintf(mon.Output, "%d\n", value)
	return
}

func cmdExamine(mon *Monitor, line string) (err error) {
	countText, expr := cut(line)
	if len(countText) == 0 {
		err = ErrWordsMissing
		return
	}
	if len(expr) == 0 {
		err = ErrAddrMissing
		return
	}

	count, err := strconv.Atoi(countText)
	if err != nil || count < 0 {
		err = ErrCountInvalid
		return
	}

	addr, err := mon.Eval.Eval(expr)
	if err != nil {
		return
	}

	mem := mon.Emulator.Cpu.Memory
	for count > 0 {
		text := fmt.Sprintf("0x%08x: ", addr)
		for n := 4; n > 0 && count > 0; n, count, addr = n-1, count-1, addr+4 {
			var word uint32
			word, err = mem.Read(addr, 4)
			if err != nil {
				fmt.Fprintln(mon.Output, text)
				return
			}
			text += fmt.Sprintf("%08x ", word)
		}
		fmt.Fprintln(mon.Output, text)
	}

	return
}

func cmdWatch(mon *Monitor, expr string) (err error) {
	if len(expr) == 0 {
		err = ErrExprMissing
		return
	}

	no, err := mon.Pool.Add(expr)
	if err != nil {
		return
	}

	mon.printf("Watchpoint %d: %v\n", no, expr)
	return
}

func cmdDelete(mon *Monitor, line string) (err error) {
	args, err := words(line)
	if err != nil {
		return
	}

	if len(args) == 0 {
		err = ErrWpMissing
		return
	}

	no, err := strconv.Atoi(args[0])
	if err != nil {
		err = ErrWpMissing
		return
	}

	err = mon.Pool.Remove(no)
	if err != nil {
		return
	}

	mon.printf("Deleted watchpoint %d\n", no)
	return
}
