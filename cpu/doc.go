// Package cpu implements the RV32 processor core and assembler for rvmon.
//
// The core consists of a program counter and 32 general-purpose registers
// (x0 reads as zero). Instruction words are matched against a table of bit
// patterns to produce a decoded Instruction, which is then executed as a
// short sequence of register-transfer (RTL) micro-operations: load immediate,
// jump, add immediate, and memory load/store through the Memory interface.
//
// Only a small subset of RV32I is supported (lui, auipc, lw, sw, addi, jal,
// jalr), plus a trap opcode that marks the end of a guest program. Any other
// word decodes as an invalid instruction, which halts the guest.
//
// The assembler provides a line-oriented assembly language for the same
// subset, supporting labels, equates, a few pseudo-instructions, and
// compile-time expression evaluation.
package cpu
