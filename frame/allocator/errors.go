package allocator

import (
	"errors"
)

var (
	ErrOutOfMemory    = errors.New("out of memory")
	ErrZeroAllocation = errors.New("a zero-sized allocation requested")
)
