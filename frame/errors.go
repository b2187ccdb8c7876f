package frame

import (
	"errors"
)

var (
	ErrAlreadyHoldingData = errors.New("the frame already holds data")
	ErrUnknownPixelFormat = errors.New("unknown pixel format")
	ErrZeroSize           = errors.New("the frame has zero size")
	ErrShortBuffer        = errors.New("the allocator returned a buffer shorter than requested")
	ErrNilCallback        = errors.New("allocate, deallocate and fill callbacks are required")
)
