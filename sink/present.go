package sink

import (
	"context"

	"github.com/xaionaro-go/avframebuffer/frame"
	"github.com/xaionaro-go/avframebuffer/logger"
)

func present(
	ctx context.Context,
	presenter Presenter,
	f *frame.Frame,
	repeated bool,
	counters *counters,
	onPresent OnPresentFunc,
) {
	if err := presenter.Present(ctx, f, repeated); err != nil {
		counters.PresenterErrors.Inc()
		logger.Errorf(ctx, "unable to present frame %s (repeated: %t): %v", f, repeated, err)
		return
	}
	if repeated {
		counters.Repeated.Increment(f.Size())
	} else {
		counters.Presented.Increment(f.Size())
	}
	if onPresent != nil {
		onPresent(ctx, f, repeated)
	}
}

func release(f *frame.Frame, counters *counters) {
	if !f.IsHoldingData() {
		return
	}
	counters.Released.Increment(f.Size())
	f.Release()
}
