package avframebuffer

import (
	"context"
	"fmt"

	"github.com/xaionaro-go/avframebuffer/decoder"
	"github.com/xaionaro-go/avframebuffer/decoder/libav"
	"github.com/xaionaro-go/avframebuffer/decoder/testpattern"
	"github.com/xaionaro-go/avframebuffer/frame"
	"github.com/xaionaro-go/avframebuffer/urltools"
)

// SourceKernel picks the kernel by the kind of the source: "testpattern://"
// sources are generated, everything else is decoded by FFmpeg.
type SourceKernel struct {
	Synthetic decoder.Kernel
	Media     decoder.Kernel
}

var _ decoder.Kernel = (*SourceKernel)(nil)

func NewSourceKernel(pixelFormat frame.PixelFormat) *SourceKernel {
	return &SourceKernel{
		Synthetic: testpattern.New(),
		Media:     libav.New(pixelFormat),
	}
}

func (k *SourceKernel) String() string {
	return fmt.Sprintf("Source(%s|%s)", k.Synthetic, k.Media)
}

func (k *SourceKernel) kernelFor(source string) (decoder.Kernel, error) {
	switch kind := urltools.KindOf(source); kind {
	case urltools.SourceKindSynthetic:
		return k.Synthetic, nil
	case urltools.SourceKindFile, urltools.SourceKindNetwork:
		return k.Media, nil
	default:
		return nil, fmt.Errorf("unsupported source %q (kind: %s)", source, kind)
	}
}

func (k *SourceKernel) Probe(ctx context.Context, source string) error {
	kernel, err := k.kernelFor(source)
	if err != nil {
		return err
	}
	return kernel.Probe(ctx, source)
}

func (k *SourceKernel) Decode(ctx context.Context, source string, emitter decoder.Emitter) error {
	kernel, err := k.kernelFor(source)
	if err != nil {
		return err
	}
	return kernel.Decode(ctx, source, emitter)
}
