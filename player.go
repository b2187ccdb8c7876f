// player.go assembles an allocator, a sink and a decoder into a ready-to-use player.

// Package avframebuffer is a buffering layer between a video decoder and a
// presentation loop: the decoder never waits for the screen and the screen
// never goes blank while waiting for the decoder.
package avframebuffer

import (
	"context"
	"errors"
	"fmt"

	"github.com/xaionaro-go/avframebuffer/decoder"
	"github.com/xaionaro-go/avframebuffer/frame/allocator"
	"github.com/xaionaro-go/avframebuffer/logger"
	"github.com/xaionaro-go/avframebuffer/sink"
)

type Player struct {
	*decoder.Decoder
	Sink      *sink.Permit
	Allocator allocator.Allocator
}

func NewPlayer(
	ctx context.Context,
	cfg PlayerConfig,
) (*Player, error) {
	logger.Debugf(ctx, "NewPlayer: %#+v", cfg)

	var alloc allocator.Allocator
	switch cfg.Allocator {
	case AllocatorTypeHeap:
		alloc = allocator.NewHeap()
	case AllocatorTypePooled, AllocatorTypeUndefined:
		alloc = allocator.NewPooled()
	default:
		return nil, fmt.Errorf("unknown allocator type: %s", cfg.Allocator)
	}
	if cfg.MemoryBudget > 0 {
		alloc = allocator.NewBudget(alloc, cfg.MemoryBudget)
	}

	s, err := sink.NewPermit(
		cfg.FramesCount,
		sink.OptionEnqueueTimeout(cfg.EnqueueTimeout),
		sink.OptionRefreshInterval(cfg.RefreshInterval),
		sink.OptionOnPresent(cfg.OnPresent),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to initialize the sink: %w", err)
	}

	kernel := cfg.Kernel
	if kernel == nil {
		kernel = NewSourceKernel(cfg.PixelFormat)
	}

	return &Player{
		Decoder:   decoder.New(s, kernel, alloc.Allocate, alloc.Deallocate),
		Sink:      s,
		Allocator: alloc,
	}, nil
}

func (p *Player) String() string {
	return fmt.Sprintf("Player(%s -> %s)", p.Decoder.Kernel, p.Sink)
}

// Run presents frames until ctx is done or the player is closed.
func (p *Player) Run(ctx context.Context, presenter sink.Presenter) error {
	return p.Sink.Run(ctx, presenter)
}

func (p *Player) Close(ctx context.Context) error {
	return errors.Join(
		p.Decoder.Close(ctx),
		p.Sink.Close(ctx),
	)
}

func (p *Player) Stats() *Statistics {
	return ptr(Statistics{
		State:     p.Decoder.State().String(),
		Decoder:   p.Decoder.Stats(),
		Sink:      p.Sink.Stats(),
		Allocator: p.Allocator.Stats(),
	})
}
