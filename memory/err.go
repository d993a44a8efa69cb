package memory

import (
	"errors"

	"github.com/ezrec/rvmon/translate"
)

var f = translate.From

var (
	// Memory errors
	ErrWidth = errors.New(f("access width invalid"))
	ErrFull  = errors.New(f("image larger than memory"))
)

// ErrAddress reports an access outside of the backing store.
type ErrAddress struct {
	Addr  uint32
	Width int
	Base  uint32
	Size  int
}

func (err *ErrAddress) Error() string {
	return f("address 0x%08x (width %d) out of bound [0x%08x, 0x%08x]",
		err.Addr, err.Width, err.Base, err.Base+uint32(err.Size)-1)
}
