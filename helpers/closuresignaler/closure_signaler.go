// Package closuresignaler provides a one-shot signal that a resource is closed.
package closuresignaler

import (
	"context"

	"go.uber.org/atomic"

	"github.com/xaionaro-go/avframebuffer/logger"
)

type ClosureSignaler struct {
	isClosed atomic.Bool
	doneCh   chan struct{}
}

func New() *ClosureSignaler {
	return &ClosureSignaler{
		doneCh: make(chan struct{}),
	}
}

// CloseChan is closed once Close is called.
func (c *ClosureSignaler) CloseChan() <-chan struct{} {
	return c.doneCh
}

// Close returns true only for the call that actually closed the signal.
func (c *ClosureSignaler) Close(ctx context.Context) (closedNow bool) {
	if !c.isClosed.CompareAndSwap(false, true) {
		logger.Tracef(ctx, "already closed")
		return false
	}
	logger.Debugf(ctx, "closing")
	close(c.doneCh)
	return true
}

// IsClosed may report true slightly before CloseChan is closed.
func (c *ClosureSignaler) IsClosed() bool {
	return c.isClosed.Load()
}
