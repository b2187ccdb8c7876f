package presenter

import (
	"fmt"
	"image"

	"github.com/xaionaro-go/avframebuffer/frame"
)

// ToImage copies the picture of the frame into a Go image.
func ToImage(f *frame.Frame) (image.Image, error) {
	if !f.IsHoldingData() {
		return nil, fmt.Errorf("the frame %s holds no data", f)
	}
	src := f.Bytes()
	rect := image.Rect(0, 0, int(f.Width()), int(f.Height()))

	switch f.PixelFormat() {
	case frame.PixelFormatRGBA:
		img := image.NewRGBA(rect)
		copy(img.Pix, src)
		return img, nil
	case frame.PixelFormatBGRA:
		img := image.NewRGBA(rect)
		for i := 0; i+3 < len(src); i += 4 {
			img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = src[i+2], src[i+1], src[i], src[i+3]
		}
		return img, nil
	case frame.PixelFormatRGB:
		img := image.NewRGBA(rect)
		for i, j := 0, 0; i+2 < len(src); i, j = i+3, j+4 {
			img.Pix[j], img.Pix[j+1], img.Pix[j+2], img.Pix[j+3] = src[i], src[i+1], src[i+2], 255
		}
		return img, nil
	case frame.PixelFormatRGBA64:
		img := image.NewRGBA64(rect)
		swapBytes16(img.Pix, src, [4]int{0, 1, 2, 3})
		return img, nil
	case frame.PixelFormatBGRA64:
		img := image.NewRGBA64(rect)
		swapBytes16(img.Pix, src, [4]int{2, 1, 0, 3})
		return img, nil
	case frame.PixelFormatGray:
		img := image.NewGray(rect)
		copy(img.Pix, src)
		return img, nil
	case frame.PixelFormatGray16:
		img := image.NewGray16(rect)
		for i := 0; i+1 < len(src); i += 2 {
			img.Pix[i], img.Pix[i+1] = src[i+1], src[i]
		}
		return img, nil
	default:
		return nil, fmt.Errorf("%w: %s", frame.ErrUnknownPixelFormat, f.PixelFormat())
	}
}

// swapBytes16 converts 4-channel little-endian 16-bit pixels into the
// big-endian layout of image.RGBA64, reordering the channels by order.
func swapBytes16(dst, src []byte, order [4]int) {
	for px := 0; px+7 < len(src); px += 8 {
		for dstCh, srcCh := range order {
			dst[px+2*dstCh] = src[px+2*srcCh+1]
			dst[px+2*dstCh+1] = src[px+2*srcCh]
		}
	}
}
