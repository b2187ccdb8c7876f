package sink

import (
	"errors"
)

var (
	ErrFrameIsEmpty    = errors.New("the frame holds no data")
	ErrEnqueueTimeout  = errors.New("timed out waiting for a free slot in the sink")
	ErrClosed          = errors.New("the sink is closed")
	ErrAlreadyRunning  = errors.New("the sink is already running")
	ErrInvalidCapacity = errors.New("the capacity must be at least 1")
)
