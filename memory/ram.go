package memory

import (
	"fmt"
	"io"
	"iter"
	"maps"
)

const (
	MEM_BASE_DEFAULT = uint32(0x8000_0000) // Default physical base address.
	MEM_SIZE_DEFAULT = 128 * 1024 * 1024   // Default size in bytes.
)

// Ram is a flat block of guest memory starting at Base.
type Ram struct {
	Base uint32
	Data []byte
}

var _ Memory = (*Ram)(nil)

// NewRam creates a zeroed memory of size bytes at base.
func NewRam(base uint32, size int) (ram *Ram) {
	ram = &Ram{
		Base: base,
		Data: make([]byte, size),
	}

	return
}

// Defines returns the assembler equates describing the memory layout.
func (ram *Ram) Defines() iter.Seq2[string, string] {
	return maps.All(map[string]string{
		"MEM_BASE": fmt.Sprintf("0x%x", ram.Base),
		"MEM_SIZE": fmt.Sprintf("0x%x", len(ram.Data)),
	})
}

// InRange returns true if all width bytes at addr are backed.
func (ram *Ram) InRange(addr uint32, width int) bool {
	if addr < ram.Base {
		return false
	}
	offset := uint64(addr - ram.Base)
	return offset+uint64(width) <= uint64(len(ram.Data))
}

// offset validates an access and returns its index into Data.
func (ram *Ram) offset(addr uint32, width int) (index int, err error) {
	switch width {
	case 1, 2, 4:
	default:
		err = ErrWidth
		return
	}

	if !ram.InRange(addr, width) {
		err = &ErrAddress{Addr: addr, Width: width, Base: ram.Base, Size: len(ram.Data)}
		return
	}

	index = int(addr - ram.Base)
	return
}

// Read returns the little-endian value of width bytes at addr.
func (ram *Ram) Read(addr uint32, width int) (value uint32, err error) {
	index, err := ram.offset(addr, width)
	if err != nil {
		return
	}

	for n := width - 1; n >= 0; n-- {
		value = (value << 8) | uint32(ram.Data[index+n])
	}

	return
}

// Write stores the low width bytes of value, little-endian, at addr.
func (ram *Ram) Write(addr uint32, width int, value uint32) (err error) {
	index, err := ram.offset(addr, width)
	if err != nil {
		return
	}

	for n := range width {
		ram.Data[index+n] = byte(value >> (8 * n))
	}

	return
}

// Load copies a raw image from file into memory at addr, and returns
// the number of bytes loaded.
func (ram *Ram) Load(addr uint32, file io.Reader) (size int, err error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return
	}

	if len(data) == 0 {
		return
	}

	if !ram.InRange(addr, len(data)) {
		err = ErrFull
		return
	}

	size = copy(ram.Data[addr-ram.Base:], data)

	return
}

// Marshal writes the whole memory image to a writer.
func (ram *Ram) Marshal(file io.Writer) (err error) {
	_, err = file.Write(ram.Data)

	return
}
