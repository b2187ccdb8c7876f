// decoder.go implements the producer side: the state machine and the decode goroutine.

// Package decoder drives a decoding Kernel on its own goroutine and feeds the
// produced frames to a sink.
//
// The control methods (LoadFile, Play, Stop) never wait for the decode
// goroutine: they switch the state, cancel or spawn the goroutine and return.
package decoder

import (
	"context"
	"fmt"

	"github.com/facebookincubator/go-belt/tool/experimental/errmon"
	"github.com/xaionaro-go/observability"
	"github.com/xaionaro-go/xcontext"
	"github.com/xaionaro-go/xsync"

	"github.com/xaionaro-go/avframebuffer/frame"
	"github.com/xaionaro-go/avframebuffer/logger"
	"github.com/xaionaro-go/avframebuffer/sink"
)

const errorQueueSize = 16

type Decoder struct {
	Sink   sink.Sink
	Kernel Kernel

	allocate   frame.AllocateFunc
	deallocate frame.DeallocateFunc

	locker     xsync.Mutex
	state      State
	source     string
	generation uint64
	cancelFn   context.CancelFunc
	doneCh     chan struct{}
	isClosed   bool

	errCh    chan error
	counters counters
}

var _ Emitter = (*Decoder)(nil)

func New(
	sink sink.Sink,
	kernel Kernel,
	allocate frame.AllocateFunc,
	deallocate frame.DeallocateFunc,
) *Decoder {
	return &Decoder{
		Sink:       sink,
		Kernel:     kernel,
		allocate:   allocate,
		deallocate: deallocate,
		state:      StateIdle,
		errCh:      make(chan error, errorQueueSize),
	}
}

func (d *Decoder) String() string {
	return fmt.Sprintf("Decoder(%s)", d.Kernel)
}

func (d *Decoder) State() State {
	return xsync.DoR1(xsync.WithNoLogging(context.TODO(), true), &d.locker, func() State {
		return d.state
	})
}

// Source is the name of the currently loaded source.
func (d *Decoder) Source() string {
	return xsync.DoR1(xsync.WithNoLogging(context.TODO(), true), &d.locker, func() string {
		return d.source
	})
}

// FramesCount is the capacity of the sink the decoder feeds.
func (d *Decoder) FramesCount() uint32 {
	return d.Sink.FramesCount()
}

// ErrorChan receives the errors that terminated a decode goroutine.
func (d *Decoder) ErrorChan() <-chan error {
	return d.errCh
}

func (d *Decoder) Stats() Statistics {
	return d.counters.ToStats()
}

// LoadFile probes the source and makes it the current one. A decode in
// progress is cancelled (without waiting for it to finish).
func (d *Decoder) LoadFile(
	ctx context.Context,
	name string,
) (_err error) {
	logger.Debugf(ctx, "LoadFile(%q)", name)
	defer func() { logger.Debugf(ctx, "/LoadFile(%q): %v", name, _err) }()

	if err := d.Kernel.Probe(ctx, name); err != nil {
		return fmt.Errorf("%w: %q: %w", ErrSourceNotFound, name, err)
	}

	return xsync.DoR1(ctx, &d.locker, func() error {
		if d.isClosed {
			return ErrClosed
		}
		d.cancelDecodeLocked(ctx)
		d.source = name
		d.setStateLocked(ctx, StateLoaded)
		return nil
	})
}

// Play starts decoding the loaded source from the beginning.
func (d *Decoder) Play(ctx context.Context) (_err error) {
	logger.Debugf(ctx, "Play")
	defer func() { logger.Debugf(ctx, "/Play: %v", _err) }()

	return xsync.DoR1(ctx, &d.locker, func() error {
		if d.isClosed {
			return ErrClosed
		}
		switch d.state {
		case StateLoaded, StateStopped:
		default:
			return fmt.Errorf("%w: cannot play in state %s", ErrInvalidTransition, d.state)
		}

		d.cancelDecodeLocked(ctx)
		decodeCtx, cancelFn := context.WithCancel(xcontext.DetachDone(ctx))
		doneCh := make(chan struct{})
		generation := d.generation
		source := d.source
		d.cancelFn = cancelFn
		d.doneCh = doneCh
		d.setStateLocked(ctx, StatePlaying)
		d.counters.Plays.Inc()

		observability.Go(decodeCtx, func(ctx context.Context) {
			defer close(doneCh)
			defer cancelFn()
			d.decode(ctx, generation, source)
		})
		return nil
	})
}

// Stop cancels the decoding; the frames already in the sink stay there.
func (d *Decoder) Stop(ctx context.Context) (_err error) {
	logger.Debugf(ctx, "Stop")
	defer func() { logger.Debugf(ctx, "/Stop: %v", _err) }()

	return xsync.DoR1(ctx, &d.locker, func() error {
		if d.state != StatePlaying {
			return fmt.Errorf("%w: cannot stop in state %s", ErrInvalidTransition, d.state)
		}
		d.cancelDecodeLocked(ctx)
		d.setStateLocked(ctx, StateStopped)
		return nil
	})
}

// Wait waits until the current decode goroutine (if any) finishes.
func (d *Decoder) Wait(ctx context.Context) error {
	doneCh := xsync.DoR1(ctx, &d.locker, func() chan struct{} {
		return d.doneCh
	})
	if doneCh == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-doneCh:
		return nil
	}
}

// Close stops the decoding and waits for the decode goroutine to finish.
// It does not close the sink.
func (d *Decoder) Close(ctx context.Context) (_err error) {
	logger.Debugf(ctx, "Close")
	defer func() { logger.Debugf(ctx, "/Close: %v", _err) }()

	d.locker.Do(ctx, func() {
		d.isClosed = true
		d.cancelDecodeLocked(ctx)
		if d.state == StatePlaying {
			d.setStateLocked(ctx, StateStopped)
		}
	})
	return d.Wait(ctx)
}

func (d *Decoder) setStateLocked(ctx context.Context, state State) {
	if d.state == state {
		return
	}
	logger.Debugf(ctx, "state: %s -> %s", d.state, state)
	d.state = state
}

// cancelDecodeLocked cancels the current decode goroutine and invalidates its
// generation, so its completion will not affect the state anymore.
func (d *Decoder) cancelDecodeLocked(ctx context.Context) {
	d.generation++
	if d.cancelFn == nil {
		return
	}
	logger.Debugf(ctx, "cancelling the decoding of %q", d.source)
	d.cancelFn()
	d.cancelFn = nil
}

func (d *Decoder) decode(
	ctx context.Context,
	generation uint64,
	source string,
) {
	ctx = logger.CtxWithField(ctx, "source", source)
	logger.Debugf(ctx, "decode")
	defer func() { logger.Debugf(ctx, "/decode") }()

	err := d.Kernel.Decode(ctx, source, d)
	logger.Debugf(ctx, "Kernel.Decode result: %v", err)

	d.locker.Do(ctx, func() {
		if d.generation != generation {
			logger.Debugf(ctx, "the decoding was superseded (generation %d != %d)", generation, d.generation)
			return
		}
		d.cancelFn = nil
		if err == nil {
			d.setStateLocked(ctx, StateStopped)
			return
		}
		d.setStateLocked(ctx, StateIdle)
		d.counters.Failures.Inc()
		d.sendError(ctx, ErrDecode{Source: source, Err: err})
	})
}

func (d *Decoder) sendError(ctx context.Context, err error) {
	errmon.ObserveErrorCtx(ctx, err)
	select {
	case d.errCh <- err:
	default:
		logger.Errorf(ctx, "error queue is full, cannot send error: %v", err)
	}
}
