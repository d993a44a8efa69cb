package cpu

import (
	"strings"
)

// regNames are the ABI register names, indexed by register number.
var regNames = [32]string{
	"$0", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

// RegName returns the ABI name of register n.
func RegName(n int) string {
	if n < 0 || n >= len(regNames) {
		return "?"
	}
	return regNames[n]
}

// RegIndex returns the register number for an ABI name (without '$',
// except for "$0").
func RegIndex(name string) (n int, ok bool) {
	for n, reg := range regNames {
		if reg == name {
			return n, true
		}
	}
	return
}

// RegStr2Val resolves a debugger register reference.
// "$0" is always zero, "$pc" is the program counter, and "$name" is the
// register with ABI name.
func (cpu *Cpu) RegStr2Val(ref string) (value uint32, ok bool) {
	switch ref {
	case regNames[0]:
		return 0, true
	case "$pc":
		return cpu.Pc, true
	}

	name, found := strings.CutPrefix(ref, "$")
	if !found {
		return
	}

	n, ok := RegIndex(name)
	if !ok || n == 0 {
		return 0, false
	}

	value = cpu.Gpr[n]
	return
}
