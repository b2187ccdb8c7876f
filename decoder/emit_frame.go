package decoder

import (
	"context"
	"errors"
	"fmt"

	"github.com/xaionaro-go/xcontext"

	"github.com/xaionaro-go/avframebuffer/frame"
	"github.com/xaionaro-go/avframebuffer/logger"
	"github.com/xaionaro-go/avframebuffer/sink"
)

// EmitFrame creates a frame, fills it and enqueues it into the sink.
//
// A cancelled ctx does not interrupt an enqueue attempt already in progress:
// the attempt ends only when the sink accepts the frame, the sink is closed or
// the sink's enqueue timeout expires. While ctx is alive a timed out attempt
// is retried; once ctx is done the frame is released and ctx.Err() is returned.
func (d *Decoder) EmitFrame(
	ctx context.Context,
	pixelFormat frame.PixelFormat,
	width, height uint32,
	fill frame.FillFunc,
) (_err error) {
	logger.Tracef(ctx, "EmitFrame(%s, %dx%d)", pixelFormat, width, height)
	defer func() { logger.Tracef(ctx, "/EmitFrame(%s, %dx%d): %v", pixelFormat, width, height, _err) }()

	if err := ctx.Err(); err != nil {
		return err
	}

	f := frame.New(pixelFormat, width, height)
	if err := f.StoreData(ctx, d.allocate, d.deallocate, fill); err != nil {
		return fmt.Errorf("unable to store the data of frame %s: %w", f, err)
	}
	size := f.Size()

	// the source could have been replaced while filling
	if err := ctx.Err(); err != nil {
		logger.Debugf(ctx, "the decoding was cancelled while filling frame %s", f)
		d.counters.Dropped.Increment(size)
		f.Release()
		return err
	}

	enqueueCtx := xcontext.DetachDone(ctx)
	for {
		err := d.Sink.EnqueueFrame(enqueueCtx, f)
		switch {
		case err == nil:
			d.counters.Emitted.Increment(size)
			return nil
		case errors.Is(err, sink.ErrEnqueueTimeout):
			d.counters.EnqueueRetries.Inc()
			if ctx.Err() == nil {
				logger.Debugf(ctx, "the sink %s is full, retrying", d.Sink)
				continue
			}
			logger.Warnf(ctx, "the decoding was cancelled and the sink %s is still full; releasing frame %s", d.Sink, f)
			err = ctx.Err()
		default:
			err = fmt.Errorf("unable to enqueue frame %s: %w", f, err)
		}
		d.counters.Dropped.Increment(size)
		f.Release()
		return err
	}
}
