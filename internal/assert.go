// Package internal contains helpers shared by the avframebuffer packages.
package internal

import (
	"context"

	"github.com/xaionaro-go/avframebuffer/logger"
)

// Assert reports a violated precondition. Builds with the debug_assert tag
// panic, release builds only log the violation and let the caller return an
// error value.
func Assert(
	ctx context.Context,
	mustBeTrue bool,
	extraArgs ...any,
) {
	if mustBeTrue {
		return
	}

	if assertsEnabled {
		logger.Panic(ctx, "assertion failed", extraArgs)
		return
	}
	logger.Errorf(ctx, "assertion failed: %v", extraArgs)
}
