// Package sink provides bounded buffered outputs for decoded frames.
//
// A Sink decouples the goroutine producing frames (a decoder) from the
// goroutine presenting them (Run): EnqueueFrame never blocks longer than the
// configured timeout, and Run keeps re-presenting the last frame when nothing
// new arrives.
package sink

import (
	"context"
	"fmt"

	"github.com/xaionaro-go/avframebuffer/frame"
)

type Sink interface {
	fmt.Stringer

	// EnqueueFrame takes over the data of a filled frame. On success the
	// caller's frame is left empty; on error the caller still owns it.
	EnqueueFrame(ctx context.Context, f *frame.Frame) error

	// Run presents frames until ctx is done or the sink is closed.
	Run(ctx context.Context, presenter Presenter) error

	// FramesCount is the capacity the sink was constructed with.
	FramesCount() uint32

	Close(ctx context.Context) error
}

// Presenter shows a frame. The frame is owned by the sink and must not be
// retained after Present returns.
type Presenter interface {
	Present(ctx context.Context, f *frame.Frame, repeated bool) error
}

type PresenterFunc func(ctx context.Context, f *frame.Frame, repeated bool) error

func (fn PresenterFunc) Present(ctx context.Context, f *frame.Frame, repeated bool) error {
	return fn(ctx, f, repeated)
}
