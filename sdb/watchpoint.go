package sdb

import (
	"io"
	"iter"
	"log"

	"github.com/ezrec/rvmon/translate"
)

// NR_WP is the number of watchpoint slots.
const NR_WP = 32

// ExprEvaluator evaluates a watchpoint expression.
type ExprEvaluator interface {
	Eval(expr string) (uint32, error)
}

// Watchpoint is a watched expression and its last observed value.
type Watchpoint struct {
	No    int    // Slot number, fixed for the life of the pool.
	Expr  string // Watched expression.
	Value uint32 // Last observed value.

	next int
}

// Hit reports a change of a watched value, or a failure to re-evaluate it.
type Hit struct {
	No   int
	Expr string
	Pc   uint32
	Old  uint32
	New  uint32
	Err  error
}

func (hit Hit) String() string {
	if hit.Err != nil {
		return f("Watchpoint %d at 0x%08x: %v", hit.No, hit.Pc, hit.Err)
	}
	return f("Hit watchpoint %d at 0x%08x.", hit.No, hit.Pc)
}

// Pool holds NR_WP watchpoint slots, each on either the free list or the
// active list. Both lists are LIFO, linked by slot index, -1 terminated.
type Pool struct {
	Verbose bool

	eval   ExprEvaluator
	slot   [NR_WP]Watchpoint
	active int
	free   int
}

// NewPool creates a pool with all slots free, slot 0 first.
func NewPool(eval ExprEvaluator) (pool *Pool) {
	pool = &Pool{
		eval:   eval,
		active: -1,
		free:   0,
	}

	for n := range pool.slot {
		pool.slot[n].No = n
		pool.slot[n].next = n + 1
	}
	pool.slot[NR_WP-1].next = -1

	return
}

// Add evaluates expr, and on success watches it with that value as the
// baseline. The pool is unchanged on error.
func (pool *Pool) Add(expr string) (no int, err error) {
	value, err := pool.eval.Eval(expr)
	if err != nil {
		err = &ErrExpression{Kind: ErrIllegalExpression, Err: err}
		return
	}

	if pool.free < 0 {
		err = ErrPoolExhausted
		return
	}

	no = pool.free
	wp := &pool.slot[no]
	pool.free = wp.next

	wp.Expr = expr
	wp.Value = value
	wp.next = pool.active
	pool.active = no

	if pool.Verbose {
		log.Printf("sdb: watchpoint %d: %v = 0x%08x", no, expr, value)
	}

	return
}

// Remove stops watching slot no, and returns it to the free list.
func (pool *Pool) Remove(no int) (err error) {
	prev := -1
	n := pool.active
	for n >= 0 && n != no {
		prev = n
		n = pool.slot[n].next
	}

	if n < 0 {
		err = ErrUnknownWatchpoint(no)
		return
	}

	wp := &pool.slot[n]
	if prev < 0 {
		pool.active = wp.next
	} else {
		pool.slot[prev].next = wp.next
	}

	wp.Expr = ""
	wp.Value = 0
	wp.next = pool.free
	pool.free = n

	if pool.Verbose {
		log.Printf("sdb: watchpoint %d removed", no)
	}

	return
}

// Check re-evaluates every active watchpoint after the instruction at pc
// retired. Changed values are reported and become the new baseline.
// Evaluation failures are reported with the baseline left unchanged.
func (pool *Pool) Check(pc uint32) (hits []Hit) {
	for wp := range pool.All() {
		value, err := pool.eval.Eval(wp.Expr)
		if err != nil {
			hits = append(hits, Hit{No: wp.No, Expr: wp.Expr, Pc: pc, Old: wp.Value, Err: err})
			continue
		}

		if value == wp.Value {
			continue
		}

		hits = append(hits, Hit{No: wp.No, Expr: wp.Expr, Pc: pc, Old: wp.Value, New: value})
		wp.Value = value
	}

	return
}

// All returns the active watchpoints, most recently added first.
func (pool *Pool) All() iter.Seq[*Watchpoint] {
	return func(yield func(wp *Watchpoint) bool) {
		for n := pool.active; n >= 0; n = pool.slot[n].next {
			if !yield(&pool.slot[n]) {
				return
			}
		}
	}
}

// Len returns the number of active watchpoints.
func (pool *Pool) Len() (count int) {
	for range pool.All() {
		count++
	}
	return
}

// Display writes the active watchpoints as a table.
func (pool *Pool) Display(w io.Writer) (err error) {
	if pool.active < 0 {
		_, err = translate.Fprintf(w, "There is no watchpoint set.\n")
		return
	}

	_, err = translate.Fprintf(w, "%8s\t%8s\n", "NO", "EXPR")
	if err != nil {
		return
	}

	for wp := range pool.All() {
		_, err = translate.Fprintf(w, "%8d\t%8s\n", wp.No, wp.Expr)
		if err != nil {
			return
		}
	}

	return
}
