package cpu

import (
	"encoding/binary"
	"iter"
)

// Opcode represents a line of assembled code with its source location and
// generated instruction words.
type Opcode struct {
	LineNo int
	Pc     uint32
	Words  []string
	Codes  []uint32
}

// Program is an assembled listing.
type Program struct {
	Origin  uint32
	Opcodes []Opcode
}

// Debug maps a program address to its source line.
type Debug struct {
	*Opcode
	Index int
}

// Debug finds the opcode that generated the word at pc.
func (prog *Program) Debug(pc uint32) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if pc >= op.Pc && pc < op.Pc+uint32(4*len(op.Codes)) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  int(pc-op.Pc) / 4,
			}
			break
		}
	}

	return
}

// Codes returns an iterator over all (address, word) pairs.
func (prog *Program) Codes() iter.Seq2[uint32, uint32] {
	return func(yield func(pc uint32, code uint32) bool) {
		for _, op := range prog.Opcodes {
			for n, code := range op.Codes {
				if !yield(op.Pc+uint32(4*n), code) {
					return
				}
			}
		}
	}
}

// Binary returns the little-endian memory image of the program, starting
// at Origin.
func (prog *Program) Binary() (bin []byte) {
	for pc, code := range prog.Codes() {
		offset := int(pc - prog.Origin)
		for len(bin) < offset+4 {
			bin = append(bin, 0)
		}
		binary.LittleEndian.PutUint32(bin[offset:], code)
	}

	return
}
