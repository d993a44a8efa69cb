// Package memory provides the guest physical memory for the rvmon simulator.
// The CPU and the debugger only depend on the Memory interface; Ram is the
// flat, base-relative backing store used by the emulator.
package memory

// Memory defines the interface for guest memory accesses.
// Accesses are little-endian, and width is 1, 2 or 4 bytes.
type Memory interface {
	// Read returns the zero-extended value of width bytes at addr.
	Read(addr uint32, width int) (value uint32, err error)
	// Write stores the low width bytes of value at addr.
	Write(addr uint32, width int, value uint32) (err error)
}
