package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/rvmon/memory"
)

func FuzzCpu(f *testing.F) {
	f.Add(uint32(0))
	f.Add(uint32(0xffff_ffff))
	f.Add(MakeJal(1, 8))
	f.Add(MakeJalr(1, 6, 3))
	f.Add(MakeLw(10, 2, -4))
	f.Add(MakeSw(10, 2, 4))
	f.Add(MakeTrap())

	f.Fuzz(func(t *testing.T, word uint32) {
		assert := assert.New(t)

		ram := memory.NewRam(RESET_VECTOR, 0x100)
		cpu := NewCpu(ram)
		err := ram.Write(cpu.Pc, 4, word)
		assert.NoError(err)
		for n := range cpu.Gpr {
			cpu.Gpr[n] = RESET_VECTOR + uint32(8*n)
		}
		cpu.Gpr[0] = 0

		inst := Decode(word, cpu.Pc)
		err = cpu.Tick()

		assert.Equal(uint32(0), cpu.Gpr[0])

		switch inst.Op {
		case OP_INVALID:
			assert.ErrorIs(err, ErrInstructionInvalid)
			assert.Equal(STATE_HALTED_INVALID, cpu.State)
			assert.Equal(RESET_VECTOR, cpu.Pc)
		case OP_TRAP:
			assert.NoError(err)
			assert.Equal(STATE_HALTED_TRAP, cpu.State)
			assert.Equal(RESET_VECTOR, cpu.Pc)
		case OP_LW, OP_SW:
			if err != nil {
				assert.Equal(RESET_VECTOR, cpu.Pc)
				assert.Equal(STATE_RUNNING, cpu.State)
			} else {
				assert.Equal(RESET_VECTOR+4, cpu.Pc)
			}
		case OP_JAL, OP_JALR:
			assert.NoError(err)
			assert.Equal(uint32(0), cpu.Pc&1)
			if inst.Rd != 0 {
				assert.Equal(RESET_VECTOR+4, cpu.Gpr[inst.Rd])
			}
		default:
			assert.NoError(err)
			assert.Equal(RESET_VECTOR+4, cpu.Pc)
		}
	})
}
