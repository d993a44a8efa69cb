// Package sdb is the simple debugger core: an expression tokenizer, a
// recursive evaluator over machine state, and a fixed pool of watchpoints.
package sdb
