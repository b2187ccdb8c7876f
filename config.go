package avframebuffer

import (
	"fmt"
	"strings"
	"time"

	"github.com/xaionaro-go/avframebuffer/decoder"
	"github.com/xaionaro-go/avframebuffer/frame"
	"github.com/xaionaro-go/avframebuffer/sink"
)

type AllocatorType int

const (
	AllocatorTypeUndefined = AllocatorType(iota)
	AllocatorTypeHeap
	AllocatorTypePooled
)

func (t AllocatorType) String() string {
	switch t {
	case AllocatorTypeUndefined:
		return "undefined"
	case AllocatorTypeHeap:
		return "heap"
	case AllocatorTypePooled:
		return "pooled"
	default:
		return fmt.Sprintf("<unknown:%d>", int(t))
	}
}

func ParseAllocatorType(s string) (AllocatorType, error) {
	switch strings.ToLower(s) {
	case "heap":
		return AllocatorTypeHeap, nil
	case "pooled":
		return AllocatorTypePooled, nil
	default:
		return AllocatorTypeUndefined, fmt.Errorf("unknown allocator type %q (expected: heap, pooled)", s)
	}
}

// Set implements pflag.Value.
func (t *AllocatorType) Set(s string) error {
	v, err := ParseAllocatorType(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Type implements pflag.Value.
func (t *AllocatorType) Type() string {
	return "allocator"
}

type PlayerConfig struct {
	FramesCount     uint32
	EnqueueTimeout  time.Duration
	RefreshInterval time.Duration
	Allocator       AllocatorType

	// MemoryBudget limits the memory held by frames; zero means unlimited.
	MemoryBudget uint64

	// PixelFormat is the format media files are converted to.
	PixelFormat frame.PixelFormat

	// Kernel overrides the source-dependent kernel selection.
	Kernel decoder.Kernel

	OnPresent sink.OnPresentFunc
}

func DefaultPlayerConfig() PlayerConfig {
	return PlayerConfig{
		FramesCount:     8,
		EnqueueTimeout:  sink.DefaultEnqueueTimeout,
		RefreshInterval: sink.DefaultRefreshInterval,
		Allocator:       AllocatorTypePooled,
		PixelFormat:     frame.PixelFormatRGBA64,
	}
}
