package sdb

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func activeNos(pool *Pool) (nos []int) {
	for wp := range pool.All() {
		nos = append(nos, wp.No)
	}
	return
}

func TestPool_RoundTrip(t *testing.T) {
	assert := assert.New(t)

	eval, ram := newTestEvaluator(t)
	pool := NewPool(eval)

	no, err := pool.Add("*0x1000")
	assert.NoError(err)
	assert.Equal(0, no)

	for range 3 {
		assert.Empty(pool.Check(0x8000_0000))
	}

	assert.NoError(ram.Write(0x1000, 4, 0x1))
	hits := pool.Check(0x8000_0004)
	if assert.Equal(1, len(hits)) {
		assert.Equal(Hit{No: 0, Expr: "*0x1000", Pc: 0x8000_0004, Old: 0xcafebabe, New: 0x1}, hits[0])
		assert.Equal("Hit watchpoint 0 at 0x80000004.", hits[0].String())
	}

	assert.Empty(pool.Check(0x8000_0008))
}

func TestPool_Check_Multiple(t *testing.T) {
	assert := assert.New(t)

	eval, ram := newTestEvaluator(t)
	pool := NewPool(eval)

	_, err := pool.Add("*0x1000")
	assert.NoError(err)
	_, err = pool.Add("$a0")
	assert.NoError(err)
	_, err = pool.Add("$sp")
	assert.NoError(err)

	assert.NoError(ram.Write(0x1000, 4, 0))
	eval.Cpu.Gpr[10] = 8

	hits := pool.Check(0x10)
	if assert.Equal(2, len(hits)) {
		assert.Equal(1, hits[0].No)
		assert.Equal(0, hits[1].No)
	}
}

func TestPool_Check_Failure(t *testing.T) {
	assert := assert.New(t)

	eval, _ := newTestEvaluator(t)
	pool := NewPool(eval)

	_, err := pool.Add("*$sp")
	assert.NoError(err)

	eval.Cpu.Gpr[2] = 0
	hits := pool.Check(0x20)
	if assert.Equal(1, len(hits)) {
		assert.ErrorIs(hits[0].Err, ErrDereference)
		assert.Equal(uint32(0x1000), hits[0].Old)
	}

	eval.Cpu.Gpr[2] = 0x1010
	assert.Empty(pool.Check(0x24))
}

func TestPool_AddIllegal(t *testing.T) {
	assert := assert.New(t)

	eval, _ := newTestEvaluator(t)
	pool := NewPool(eval)

	_, err := pool.Add("$bogus")
	assert.ErrorIs(err, ErrIllegalExpression)
	assert.ErrorIs(err, ErrRegisterUnknown("$bogus"))
	assert.Equal(0, pool.Len())

	no, err := pool.Add("1")
	assert.NoError(err)
	assert.Equal(0, no)
}

func TestPool_Remove(t *testing.T) {
	assert := assert.New(t)

	eval, _ := newTestEvaluator(t)
	pool := NewPool(eval)

	for n := range 4 {
		no, err := pool.Add("$pc")
		assert.NoError(err)
		assert.Equal(n, no)
	}
	assert.Equal([]int{3, 2, 1, 0}, activeNos(pool))

	assert.NoError(pool.Remove(2))
	assert.Equal([]int{3, 1, 0}, activeNos(pool))

	assert.NoError(pool.Remove(3))
	assert.Equal([]int{1, 0}, activeNos(pool))

	err := pool.Remove(3)
	assert.ErrorIs(err, ErrUnknownWatchpoint(3))
	err = pool.Remove(31)
	assert.ErrorIs(err, ErrUnknownWatchpoint(31))
	err = pool.Remove(-1)
	assert.ErrorIs(err, ErrUnknownWatchpoint(-1))

	// Most recently freed is reused first.
	no, err := pool.Add("1")
	assert.NoError(err)
	assert.Equal(3, no)
	no, err = pool.Add("2")
	assert.NoError(err)
	assert.Equal(2, no)
	no, err = pool.Add("3")
	assert.NoError(err)
	assert.Equal(4, no)
}

func TestPool_Exhausted(t *testing.T) {
	assert := assert.New(t)

	eval, _ := newTestEvaluator(t)
	pool := NewPool(eval)

	for n := range NR_WP {
		no, err := pool.Add("$a0")
		assert.NoError(err)
		assert.Equal(n, no)
	}

	before := activeNos(pool)

	_, err := pool.Add("$sp")
	assert.ErrorIs(err, ErrPoolExhausted)
	assert.Equal(NR_WP, pool.Len())
	assert.Equal(before, activeNos(pool))
	for wp := range pool.All() {
		assert.Equal("$a0", wp.Expr)
		assert.Equal(uint32(7), wp.Value)
	}
}

func TestPool_Display(t *testing.T) {
	assert := assert.New(t)

	eval, _ := newTestEvaluator(t)
	pool := NewPool(eval)

	var buf bytes.Buffer
	assert.NoError(pool.Display(&buf))
	assert.Equal("There is no watchpoint set.\n", buf.String())

	_, err := pool.Add("$a0")
	assert.NoError(err)
	_, err = pool.Add("*0x1000")
	assert.NoError(err)

	buf.Reset()
	assert.NoError(pool.Display(&buf))
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if assert.Equal(3, len(lines)) {
		assert.Equal("      NO\t    EXPR", lines[0])
		assert.Equal("       1\t *0x1000", lines[1])
		assert.Equal("       0\t     $a0", lines[2])
	}
}
