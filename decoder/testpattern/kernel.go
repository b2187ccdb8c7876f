// Package testpattern provides a decoder kernel generating moving color bars.
package testpattern

import (
	"context"
	"fmt"
	"time"

	"github.com/xaionaro-go/avframebuffer/decoder"
	"github.com/xaionaro-go/avframebuffer/frame"
	"github.com/xaionaro-go/avframebuffer/logger"
)

type Kernel struct{}

var _ decoder.Kernel = (*Kernel)(nil)

func New() *Kernel {
	return &Kernel{}
}

func (*Kernel) String() string {
	return "TestPattern"
}

func (*Kernel) Probe(ctx context.Context, source string) error {
	_, err := ParseSource(source)
	return err
}

func (*Kernel) Decode(
	ctx context.Context,
	source string,
	emitter decoder.Emitter,
) (_err error) {
	logger.Debugf(ctx, "Decode(%q)", source)
	defer func() { logger.Debugf(ctx, "/Decode(%q): %v", source, _err) }()

	cfg, err := ParseSource(source)
	if err != nil {
		return err
	}

	var tick <-chan time.Time
	if cfg.FrameRate > 0 {
		ticker := time.NewTicker(time.Duration(float64(time.Second) / cfg.FrameRate))
		defer ticker.Stop()
		tick = ticker.C
	}

	for index := uint64(0); cfg.Frames == 0 || index < cfg.Frames; index++ {
		if tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		err := emitter.EmitFrame(ctx, cfg.PixelFormat, cfg.Width, cfg.Height, func(buf frame.Buffer) error {
			return Draw(buf, cfg.PixelFormat, cfg.Width, cfg.Height, index)
		})
		if err != nil {
			return fmt.Errorf("unable to emit frame #%d: %w", index, err)
		}
	}
	return nil
}
