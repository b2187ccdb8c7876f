// debug.go implements an unbounded sink that logs every frame.

package sink

import (
	"context"
	"fmt"

	"github.com/davecgh/go-spew/spew"

	"github.com/xaionaro-go/avframebuffer/deque"
	"github.com/xaionaro-go/avframebuffer/frame"
	"github.com/xaionaro-go/avframebuffer/helpers/closuresignaler"
	"github.com/xaionaro-go/avframebuffer/logger"
	"github.com/xaionaro-go/xsync"
)

// Debug never applies backpressure: the capacity is only reported. Every
// frame is presented exactly once and released right after; nothing is
// re-presented.
type Debug struct {
	capacity      uint32
	queue         *deque.Deque[*frame.Frame]
	enqueueLocker xsync.Mutex
	runLocker     xsync.Mutex
	closer        *closuresignaler.ClosureSignaler
	onPresent     OnPresentFunc
	counters      counters
}

var _ Sink = (*Debug)(nil)

type debugFrameInfo struct {
	PixelFormat string
	Width       uint32
	Height      uint32
	Size        uint64
}

func NewDebug(capacity uint32, opts ...Option) *Debug {
	return &Debug{
		capacity:  capacity,
		queue:     deque.New[*frame.Frame](),
		closer:    closuresignaler.New(),
		onPresent: Options(opts).config().OnPresent,
	}
}

func (s *Debug) String() string {
	return fmt.Sprintf("Debug(%d)", s.queue.Len())
}

func (s *Debug) FramesCount() uint32 {
	return s.capacity
}

func (s *Debug) EnqueueFrame(
	ctx context.Context,
	f *frame.Frame,
) error {
	if !f.IsHoldingData() {
		return ErrFrameIsEmpty
	}
	if logger.TraceEnabled() {
		logger.Tracef(ctx, "EnqueueFrame: %s", spew.Sdump(debugFrameInfo{
			PixelFormat: f.PixelFormat().String(),
			Width:       f.Width(),
			Height:      f.Height(),
			Size:        f.Size(),
		}))
	}
	size := f.Size()
	err := xsync.DoR1(xsync.WithNoLogging(ctx, true), &s.enqueueLocker, func() error {
		if s.closer.IsClosed() {
			return ErrClosed
		}
		s.queue.PushBack(ctx, f.Move())
		return nil
	})
	if err != nil {
		return err
	}
	s.counters.Enqueued.Increment(size)
	return nil
}

func (s *Debug) Run(
	ctx context.Context,
	presenter Presenter,
) (_err error) {
	logger.Debugf(ctx, "Run[%s]", s)
	defer func() { logger.Debugf(ctx, "/Run[%s]: %v", s, _err) }()

	if !s.runLocker.ManualTryLock(ctx) {
		return ErrAlreadyRunning
	}
	defer s.runLocker.ManualUnlock(ctx)

	for {
		nonEmpty := s.queue.NonEmptyChan()
		if v := s.queue.PopFront(ctx); v.IsSet() {
			f := v.Get()
			present(ctx, presenter, f, false, &s.counters, s.onPresent)
			release(f, &s.counters)
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.closer.CloseChan():
			return nil
		case <-nonEmpty:
		}
	}
}

func (s *Debug) Close(ctx context.Context) error {
	closedNow := xsync.DoR1(xsync.WithNoLogging(ctx, true), &s.enqueueLocker, func() bool {
		return s.closer.Close(ctx)
	})
	if closedNow {
		s.queue.DrainFront(ctx, func(f *frame.Frame) {
			release(f, &s.counters)
		})
	}
	return nil
}

func (s *Debug) Stats() Statistics {
	stats := s.counters.ToStats()
	stats.Capacity = s.capacity
	stats.QueueLength = s.queue.Len()
	return stats
}
