//go:build !debug_trace
// +build !debug_trace

package logger

import (
	"context"
)

// Tracef is compiled out unless the debug_trace build tag is set; it is
// called on every queue operation.
func Tracef(ctx context.Context, format string, args ...any) {}

func TraceEnabled() bool { return false }
