package libav

import (
	"fmt"

	"github.com/asticode/go-astiav"

	"github.com/xaionaro-go/avframebuffer/frame"
)

func pixelFormatToAV(pf frame.PixelFormat) (astiav.PixelFormat, error) {
	switch pf {
	case frame.PixelFormatRGBA:
		return astiav.PixelFormatRgba, nil
	case frame.PixelFormatBGRA:
		return astiav.PixelFormatBgra, nil
	case frame.PixelFormatRGB:
		return astiav.PixelFormatRgb24, nil
	case frame.PixelFormatRGBA64:
		return astiav.PixelFormatRgba64Le, nil
	case frame.PixelFormatBGRA64:
		return astiav.PixelFormatBgra64Le, nil
	case frame.PixelFormatGray:
		return astiav.PixelFormatGray8, nil
	case frame.PixelFormatGray16:
		return astiav.PixelFormatGray16Le, nil
	default:
		return astiav.PixelFormatNone, fmt.Errorf("%w: %s", frame.ErrUnknownPixelFormat, pf)
	}
}
