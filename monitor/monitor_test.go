package monitor

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/ezrec/rvmon/emulator"
)

var testProgram = []string{
	"    la s0, data",
	"    lw a1, 0(s0)",
	"    addi a1, a1, 1",
	"    sw a1, 0(s0)",
	"    li a0, 0",
	"    trap",
	"data: .word 41",
}

func newTestMonitor(t *testing.T, program ...string) (mon *Monitor, out *bytes.Buffer) {
	color.NoColor = true

	cfg := emulator.DefaultConfig()
	cfg.MemSize = 0x1000

	emu, err := emulator.NewEmulator(cfg)
	assert.NoError(t, err)
	if err != nil {
		t.Fatal(err)
	}

	_, err = emu.Assemble(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(t, err)
	if err != nil {
		t.Fatal(err)
	}

	out = &bytes.Buffer{}
	mon = NewMonitor(emu, out)

	return
}

// run executes each command, and returns the output of each.
func run(mon *Monitor, out *bytes.Buffer, cmds ...string) (outputs []string) {
	for _, cmd := range cmds {
		out.Reset()
		mon.Exec(cmd)
		outputs = append(outputs, out.String())
	}
	return
}

func TestMonitor_Help(t *testing.T) {
	assert := assert.New(t)

	mon, out := newTestMonitor(t, testProgram...)

	outputs := run(mon, out, "help", "help si", "help bogus", "bogus 1 2", "")
	assert.Contains(outputs[0], "help - Display information about all supported commands\n")
	assert.Contains(outputs[0], "x - Scan the memory for [N] words begins with the value of [EXPR]\n")
	assert.Equal(len(commands), strings.Count(outputs[0], "\n"))
	assert.Equal("si - Run [N] instructions\n", outputs[1])
	assert.Equal("Unknown command 'bogus'\n", outputs[2])
	assert.Equal("Unknown command 'bogus'\n", outputs[3])
	assert.Equal("", outputs[4])
}

func TestMonitor_Print(t *testing.T) {
	assert := assert.New(t)

	mon, out := newTestMonitor(t, testProgram...)

	outputs := run(mon, out,
		"p 2+3*4",
		"p (2+3)*4",
		"p 10 - 3 - 2",
		"p $pc",
		"p *0x80000020",
		"p $bogus",
		"p",
		"p (1",
	)
	assert.Equal("14\n", outputs[0])
	assert.Equal("20\n", outputs[1])
	assert.Equal("5\n", outputs[2])
	assert.Equal("2147483648\n", outputs[3])
	assert.Equal("41\n", outputs[4])
	assert.Contains(outputs[5], "$bogus")
	assert.Equal(ErrExprMissing.Error()+"\n", outputs[6])
	assert.Equal("parse: unbalanced parentheses\n", outputs[7])
}

func TestMonitor_Examine(t *testing.T) {
	assert := assert.New(t)

	mon, out := newTestMonitor(t, testProgram...)

	outputs := run(mon, out,
		"x 1 $pc + 0x20",
		"x 6 0x80000010",
		"x 2 0x80000ffc",
		"x",
		"x 1",
		"x z 0",
	)
	assert.Equal("0x80000020: 00000029 \n", outputs[0])
	assert.Equal("0x80000010: 00b42023 00000537 00050513 0000006b \n"+
		"0x80000020: 00000029 00000000 \n", outputs[1])
	assert.True(strings.HasPrefix(outputs[2], "0x80000ffc: 00000000 \n"))
	assert.Equal(ErrWordsMissing.Error()+"\n", outputs[3])
	assert.Equal(ErrAddrMissing.Error()+"\n", outputs[4])
	assert.Equal(ErrCountInvalid.Error()+"\n", outputs[5])
}

func TestMonitor_Step(t *testing.T) {
	assert := assert.New(t)

	mon, out := newTestMonitor(t, testProgram...)

	outputs := run(mon, out, "si", "si 2", "si -1", "si x", "si 0")
	assert.Equal("0x80000004: 02040413\taddi s0, s0, 32\t; 1: la s0 data\n", outputs[0])
	assert.Equal("0x8000000c: 00158593\taddi a1, a1, 1\t; 3: addi a1 a1 1\n", outputs[1])
	assert.Equal("please input a non-negative integer\n", outputs[2])
	assert.Equal(ErrCountInvalid.Error()+"\n", outputs[3])
	assert.Equal(outputs[1], outputs[4])

	outputs = run(mon, out, "si 10")
	assert.Equal("HIT GOOD TRAP at pc = 0x8000001c\ntrap: 8 instructions retired\n", outputs[0])
}

func TestMonitor_Watch(t *testing.T) {
	assert := assert.New(t)

	mon, out := newTestMonitor(t, testProgram...)

	outputs := run(mon, out,
		"w *0x80000020",
		"w $a1",
		"w $nope",
		"info w",
		"d 1",
		"d 1",
		"d",
		"info w",
	)
	assert.Equal("Watchpoint 0: *0x80000020\n", outputs[0])
	assert.Equal("Watchpoint 1: $a1\n", outputs[1])
	assert.Contains(outputs[2], "illegal expression")
	assert.Equal("      NO\t    EXPR\n       1\t     $a1\n       0\t*0x80000020\n", outputs[3])
	assert.Equal("Deleted watchpoint 1\n", outputs[4])
	assert.Equal("watchpoint 1 not found\n", outputs[5])
	assert.Equal(ErrWpMissing.Error()+"\n", outputs[6])
	assert.Equal("      NO\t    EXPR\n       0\t*0x80000020\n", outputs[7])

	outputs = run(mon, out, "c")
	assert.Equal("Hit watchpoint 0 at 0x80000010.\n  0x00000029 => 0x0000002a\n", outputs[0])
	assert.Equal(uint32(0x8000_0014), mon.Emulator.Cpu.Pc)

	outputs = run(mon, out, "c", "c")
	assert.Equal("HIT GOOD TRAP at pc = 0x8000001c\ntrap: 8 instructions retired\n", outputs[0])
	assert.Equal("Program execution has ended.\n", outputs[1])
}

func TestMonitor_Info(t *testing.T) {
	assert := assert.New(t)

	mon, out := newTestMonitor(t, testProgram...)

	outputs := run(mon, out, "info r", "info", "info z")
	assert.Contains(outputs[0], "$0   0x00000000 0\n")
	assert.Contains(outputs[0], "pc   0x80000000 2147483648\n")
	assert.Equal(33, strings.Count(outputs[0], "\n"))
	assert.Equal(ErrInfoMissing.Error()+"\n", outputs[1])
	assert.Equal(ErrInfoMissing.Error()+"\n", outputs[2])
}

func TestMonitor_BadTrap(t *testing.T) {
	assert := assert.New(t)

	mon, out := newTestMonitor(t, "li a0, 1", "trap")

	outputs := run(mon, out, "c")
	assert.Equal("HIT BAD TRAP at pc = 0x80000008\ntrap: 3 instructions retired\n", outputs[0])
}

func TestMonitor_Invalid(t *testing.T) {
	assert := assert.New(t)

	mon, out := newTestMonitor(t, "nop", ".word 0xffffffff")

	outputs := run(mon, out, "c", "c", "p 1")
	assert.Equal("invalid instruction 0xffffffff at pc 0x80000004\n", outputs[0])
	assert.Equal("Program execution has ended.\n", outputs[1])
	assert.Equal("1\n", outputs[2])
}

func TestMonitor_Fault(t *testing.T) {
	assert := assert.New(t)

	mon, out := newTestMonitor(t, "lw a0, 0(zero)")

	outputs := run(mon, out, "c")
	assert.Contains(outputs[0], "pc 0x80000000")
	assert.Contains(outputs[0], "load")
	assert.False(mon.Emulator.Cpu.Halted())
}

func TestMonitor_Run(t *testing.T) {
	assert := assert.New(t)

	mon, out := newTestMonitor(t, testProgram...)

	err := mon.Run(strings.NewReader("p 1\nq\np 2\n"))
	assert.NoError(err)
	assert.Equal(PROMPT+"1\n"+PROMPT, out.String())

	out.Reset()
	err = mon.Run(strings.NewReader("p 3\n"))
	assert.NoError(err)
	assert.Equal(PROMPT+"3\n"+PROMPT+"\n", out.String())
}

func TestMonitor_Batch(t *testing.T) {
	assert := assert.New(t)

	mon, out := newTestMonitor(t, testProgram...)
	mon.Batch = true

	err := mon.Run(strings.NewReader("q\n"))
	assert.NoError(err)
	assert.Equal("HIT GOOD TRAP at pc = 0x8000001c\ntrap: 8 instructions retired\n", out.String())
}
