package decoder

import (
	"context"
	"fmt"

	"github.com/xaionaro-go/avframebuffer/frame"
)

// Kernel is the actual decoding algorithm run by a Decoder.
type Kernel interface {
	fmt.Stringer

	// Probe checks that the source could be decoded. It must be quick:
	// it is called synchronously by LoadFile.
	Probe(ctx context.Context, source string) error

	// Decode decodes the source and calls emitter.EmitFrame for every
	// picture. It must return when ctx is done, checking it at least once
	// per decoded packet.
	Decode(ctx context.Context, source string, emitter Emitter) error
}

type Emitter interface {
	// EmitFrame allocates a frame, fills it synchronously using fill and
	// passes it to the sink.
	EmitFrame(
		ctx context.Context,
		pixelFormat frame.PixelFormat,
		width, height uint32,
		fill frame.FillFunc,
	) error
}
