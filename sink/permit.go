// permit.go implements a sink with exact backpressure based on slot permits.

package sink

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/atomic"

	"github.com/xaionaro-go/avframebuffer/deque"
	"github.com/xaionaro-go/avframebuffer/frame"
	"github.com/xaionaro-go/avframebuffer/helpers/closuresignaler"
	"github.com/xaionaro-go/avframebuffer/logger"
	"github.com/xaionaro-go/xsync"
)

// Permit is a Sink holding at most FramesCount() frames.
//
// A slot permit is acquired by EnqueueFrame and given back once Run takes the
// frame out of the queue; an item permit is given by EnqueueFrame and taken
// by Run, so Run sleeps while the queue is empty.
type Permit struct {
	capacity uint32
	queue    *deque.Deque[*frame.Frame]
	slots    chan struct{}
	items    chan struct{}

	enqueueLocker xsync.Mutex
	runLocker     xsync.Mutex
	isRunning     atomic.Bool
	closer        *closuresignaler.ClosureSignaler

	enqueueTimeout  atomic.Duration
	refreshInterval atomic.Duration
	onPresent       OnPresentFunc

	counters counters
}

var _ Sink = (*Permit)(nil)

func NewPermit(
	capacity uint32,
	opts ...Option,
) (*Permit, error) {
	if capacity == 0 {
		return nil, ErrInvalidCapacity
	}
	cfg := Options(opts).config()
	s := &Permit{
		capacity:  capacity,
		queue:     deque.New[*frame.Frame](),
		slots:     make(chan struct{}, capacity),
		items:     make(chan struct{}, capacity),
		closer:    closuresignaler.New(),
		onPresent: cfg.OnPresent,
	}
	s.enqueueTimeout.Store(cfg.EnqueueTimeout)
	s.refreshInterval.Store(cfg.RefreshInterval)
	return s, nil
}

func (s *Permit) String() string {
	return fmt.Sprintf("Permit(%d/%d)", s.queue.Len(), s.capacity)
}

func (s *Permit) FramesCount() uint32 {
	return s.capacity
}

// Len is the amount of frames waiting to be presented.
func (s *Permit) Len() int {
	return s.queue.Len()
}

func (s *Permit) IsRunning() bool {
	return s.isRunning.Load()
}

func (s *Permit) SetEnqueueTimeout(timeout time.Duration) {
	s.enqueueTimeout.Store(timeout)
}

// SetRefreshInterval takes effect after the next presented frame.
func (s *Permit) SetRefreshInterval(interval time.Duration) {
	s.refreshInterval.Store(interval)
}

func (s *Permit) EnqueueFrame(
	ctx context.Context,
	f *frame.Frame,
) (_err error) {
	logger.Tracef(ctx, "EnqueueFrame[%s]: %s", s, f)
	defer func() { logger.Tracef(ctx, "/EnqueueFrame[%s]: %s: %v", s, f, _err) }()

	if !f.IsHoldingData() {
		return ErrFrameIsEmpty
	}
	if s.closer.IsClosed() {
		return ErrClosed
	}
	if err := s.acquireSlot(ctx); err != nil {
		return err
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
		<-s.slots
		return err
	}
	s.items <- struct{}{}
	s.counters.Enqueued.Increment(size)
	return nil
}

func (s *Permit) acquireSlot(ctx context.Context) error {
	select {
	case s.slots <- struct{}{}:
		return nil
	default:
	}

	s.counters.EnqueueWaits.Inc()
	logger.Tracef(ctx, "waiting for a free slot")
	t := time.NewTimer(s.enqueueTimeout.Load())
	defer t.Stop()
	select {
	case s.slots <- struct{}{}:
		return nil
	case <-t.C:
		s.counters.EnqueueTimeouts.Inc()
		return ErrEnqueueTimeout
	case <-ctx.Done():
		return ctx.Err()
	case <-s.closer.CloseChan():
		return ErrClosed
	}
}

func (s *Permit) Run(
	ctx context.Context,
	presenter Presenter,
) (_err error) {
	logger.Debugf(ctx, "Run[%s]", s)
	defer func() { logger.Debugf(ctx, "/Run[%s]: %v", s, _err) }()

	if !s.runLocker.ManualTryLock(ctx) {
		return ErrAlreadyRunning
	}
	defer s.runLocker.ManualUnlock(ctx)
	s.isRunning.Store(true)
	defer s.isRunning.Store(false)

	var lastShown *frame.Frame
	defer func() { release(lastShown, &s.counters) }()

	refreshTimer := time.NewTimer(time.Hour)
	refreshTimer.Stop()
	defer refreshTimer.Stop()
	resetRefresh := func() {
		if interval := s.refreshInterval.Load(); interval > 0 {
			refreshTimer.Reset(interval)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.closer.CloseChan():
			return nil
		case <-s.items:
			v := s.queue.PopFront(ctx)
			if !v.IsSet() {
				continue
			}
			f := v.Get()
			<-s.slots
			present(ctx, presenter, f, false, &s.counters, s.onPresent)
			release(lastShown, &s.counters)
			lastShown = f
			resetRefresh()
		case <-refreshTimer.C:
			if lastShown == nil {
				continue
			}
			present(ctx, presenter, lastShown, true, &s.counters, s.onPresent)
			resetRefresh()
		}
	}
}

// Close wakes up everybody waiting on the sink and releases the queued
// frames. The last presented frame is released by Run when it returns.
func (s *Permit) Close(ctx context.Context) (_err error) {
	logger.Debugf(ctx, "Close[%s]", s)
	defer func() { logger.Debugf(ctx, "/Close[%s]: %v", s, _err) }()

	closedNow := xsync.DoR1(xsync.WithNoLogging(ctx, true), &s.enqueueLocker, func() bool {
		return s.closer.Close(ctx)
	})
	if !closedNow {
		return nil
	}
	released := s.queue.DrainFront(ctx, func(f *frame.Frame) {
		release(f, &s.counters)
	})
	logger.Debugf(ctx, "released %d queued frames", released)
	return nil
}

func (s *Permit) Stats() Statistics {
	stats := s.counters.ToStats()
	stats.Capacity = s.capacity
	stats.QueueLength = s.queue.Len()
	return stats
}
