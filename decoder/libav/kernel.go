// Package libav provides a decoder kernel decoding video with FFmpeg.
package libav

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/asticode/go-astiav"
	"github.com/asticode/go-astikit"

	"github.com/xaionaro-go/avframebuffer/decoder"
	"github.com/xaionaro-go/avframebuffer/frame"
	"github.com/xaionaro-go/avframebuffer/logger"
	"github.com/xaionaro-go/avframebuffer/urltools"
)

// Kernel decodes the first video stream of the source and emits every
// picture converted to PixelFormat.
type Kernel struct {
	PixelFormat frame.PixelFormat
}

var _ decoder.Kernel = (*Kernel)(nil)

func New(pixelFormat frame.PixelFormat) *Kernel {
	return &Kernel{
		PixelFormat: pixelFormat,
	}
}

func (k *Kernel) String() string {
	return fmt.Sprintf("LibAV(%s)", k.PixelFormat)
}

// Probe checks that a local file exists; network sources are accepted as-is.
func (k *Kernel) Probe(ctx context.Context, source string) error {
	if _, err := pixelFormatToAV(k.PixelFormat); err != nil {
		return err
	}
	if !urltools.IsFileURL(source) {
		return nil
	}
	path := strings.TrimPrefix(source, "file://")
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%q is a directory", path)
	}
	return nil
}

func (k *Kernel) Decode(
	ctx context.Context,
	source string,
	emitter decoder.Emitter,
) (_err error) {
	logger.Debugf(ctx, "Decode(%q)", source)
	defer func() { logger.Debugf(ctx, "/Decode(%q): %v", source, _err) }()

	closer := astikit.NewCloser()
	defer closer.Close()

	sc, err := newScaler(k.PixelFormat)
	if err != nil {
		return err
	}
	closer.Add(sc.Close)

	formatContext := astiav.AllocFormatContext()
	if formatContext == nil {
		return errors.New("unable to allocate a format context")
	}
	closer.Add(formatContext.Free)

	if err := formatContext.OpenInput(source, nil, nil); err != nil {
		return fmt.Errorf("unable to open %q: %w", source, err)
	}
	closer.Add(formatContext.CloseInput)

	if err := formatContext.FindStreamInfo(nil); err != nil {
		return fmt.Errorf("unable to find stream info: %w", err)
	}

	var stream *astiav.Stream
	for _, s := range formatContext.Streams() {
		if s.CodecParameters().MediaType() == astiav.MediaTypeVideo {
			stream = s
			break
		}
	}
	if stream == nil {
		return fmt.Errorf("no video stream in %q", source)
	}

	codec := astiav.FindDecoder(stream.CodecParameters().CodecID())
	if codec == nil {
		return fmt.Errorf("unable to find a decoder for %s", stream.CodecParameters().CodecID())
	}
	codecContext := astiav.AllocCodecContext(codec)
	if codecContext == nil {
		return errors.New("unable to allocate a codec context")
	}
	closer.Add(codecContext.Free)
	if err := stream.CodecParameters().ToCodecContext(codecContext); err != nil {
		return fmt.Errorf("codecParameters.ToCodecContext(...) returned error: %w", err)
	}
	if err := codecContext.Open(codec, nil); err != nil {
		return fmt.Errorf("unable to open the codec context: %w", err)
	}

	pkt := astiav.AllocPacket()
	closer.Add(pkt.Free)
	decoded := astiav.AllocFrame()
	closer.Add(decoded.Free)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := formatContext.ReadFrame(pkt)
		if errors.Is(err, astiav.ErrEof) {
			break
		}
		if err != nil {
			return fmt.Errorf("unable to read a packet: %w", err)
		}

		if pkt.StreamIndex() != stream.Index() {
			pkt.Unref()
			continue
		}
		err = codecContext.SendPacket(pkt)
		pkt.Unref()
		if err != nil && !errors.Is(err, astiav.ErrEagain) {
			return fmt.Errorf("unable to send a packet to the decoder: %w", err)
		}
		if err := k.receiveFrames(ctx, codecContext, decoded, sc, emitter); err != nil {
			return err
		}
	}

	logger.Debugf(ctx, "flushing the decoder")
	if err := codecContext.SendPacket(nil); err != nil && !errors.Is(err, astiav.ErrEof) {
		return fmt.Errorf("unable to flush the decoder: %w", err)
	}
	return k.receiveFrames(ctx, codecContext, decoded, sc, emitter)
}

func (k *Kernel) receiveFrames(
	ctx context.Context,
	codecContext *astiav.CodecContext,
	decoded *astiav.Frame,
	sc *scaler,
	emitter decoder.Emitter,
) error {
	for {
		err := codecContext.ReceiveFrame(decoded)
		if errors.Is(err, astiav.ErrEof) || errors.Is(err, astiav.ErrEagain) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("unable to receive a frame: %w", err)
		}

		err = k.emit(ctx, decoded, sc, emitter)
		decoded.Unref()
		if err != nil {
			return err
		}
	}
}

func (k *Kernel) emit(
	ctx context.Context,
	decoded *astiav.Frame,
	sc *scaler,
	emitter decoder.Emitter,
) error {
	width, height, err := sc.Scale(ctx, decoded)
	if err != nil {
		return err
	}
	return emitter.EmitFrame(ctx, k.PixelFormat, width, height, sc.CopyTo)
}
