package libav

import (
	"context"
	"fmt"

	"github.com/asticode/go-astiav"

	"github.com/xaionaro-go/avframebuffer/frame"
	"github.com/xaionaro-go/avframebuffer/logger"
)

// scaler converts decoded pictures to a packed pixel format of the same
// resolution. The scale context is recreated when the input changes.
type scaler struct {
	pixelFormat   frame.PixelFormat
	avPixelFormat astiav.PixelFormat

	swsCtx    *astiav.SoftwareScaleContext
	dst       *astiav.Frame
	srcWidth  int
	srcHeight int
	srcPixFmt astiav.PixelFormat
}

func newScaler(pf frame.PixelFormat) (*scaler, error) {
	avPixFmt, err := pixelFormatToAV(pf)
	if err != nil {
		return nil, err
	}
	return &scaler{
		pixelFormat:   pf,
		avPixelFormat: avPixFmt,
	}, nil
}

func (s *scaler) String() string {
	if s.swsCtx == nil {
		return fmt.Sprintf("SoftwareScaler(-> %s)", s.pixelFormat)
	}
	return fmt.Sprintf(
		"SoftwareScaler(%dx%d:%s -> %dx%d:%s)",
		s.swsCtx.SourceWidth(),
		s.swsCtx.SourceHeight(),
		s.swsCtx.SourcePixelFormat(),
		s.swsCtx.DestinationWidth(),
		s.swsCtx.DestinationHeight(),
		s.swsCtx.DestinationPixelFormat(),
	)
}

func (s *scaler) Close() {
	if s.dst != nil {
		s.dst.Free()
		s.dst = nil
	}
	if s.swsCtx != nil {
		s.swsCtx.Free()
		s.swsCtx = nil
	}
}

func (s *scaler) ensure(ctx context.Context, src *astiav.Frame) error {
	if s.swsCtx != nil &&
		src.Width() == s.srcWidth &&
		src.Height() == s.srcHeight &&
		src.PixelFormat() == s.srcPixFmt {
		return nil
	}
	s.Close()

	swsCtx, err := astiav.CreateSoftwareScaleContext(
		src.Width(), src.Height(), src.PixelFormat(),
		src.Width(), src.Height(), s.avPixelFormat,
		astiav.NewSoftwareScaleContextFlags(),
	)
	if err != nil {
		return fmt.Errorf("unable to create a software scale context: %w", err)
	}

	dst := astiav.AllocFrame()
	dst.SetWidth(src.Width())
	dst.SetHeight(src.Height())
	dst.SetPixelFormat(s.avPixelFormat)
	if err := dst.AllocBuffer(1); err != nil {
		dst.Free()
		swsCtx.Free()
		return fmt.Errorf("unable to allocate the buffer of the scaled frame: %w", err)
	}

	s.swsCtx = swsCtx
	s.dst = dst
	s.srcWidth, s.srcHeight, s.srcPixFmt = src.Width(), src.Height(), src.PixelFormat()
	logger.Debugf(ctx, "scaler is ready: %s", s)
	return nil
}

// Scale converts src into the internal destination frame and returns its resolution.
func (s *scaler) Scale(
	ctx context.Context,
	src *astiav.Frame,
) (_width, _height uint32, _err error) {
	logger.Tracef(ctx, "Scale")
	defer func() { logger.Tracef(ctx, "/Scale: %v", _err) }()

	if err := s.ensure(ctx, src); err != nil {
		return 0, 0, err
	}
	if err := s.swsCtx.ScaleFrame(src, s.dst); err != nil {
		return 0, 0, fmt.Errorf("unable to scale a frame: %w", err)
	}
	return uint32(s.dst.Width()), uint32(s.dst.Height()), nil
}

// CopyTo copies the last scaled picture into buf, tightly packed.
func (s *scaler) CopyTo(buf frame.Buffer) error {
	size, err := s.dst.ImageBufferSize(1)
	if err != nil {
		return fmt.Errorf("unable to get the image buffer size: %w", err)
	}
	if size > len(buf) {
		return fmt.Errorf("%w: %d < %d", frame.ErrShortBuffer, len(buf), size)
	}
	if _, err := s.dst.ImageCopyToBuffer(buf[:size], 1); err != nil {
		return fmt.Errorf("unable to copy the image: %w", err)
	}
	return nil
}
