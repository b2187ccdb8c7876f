// pixel_format.go defines the PixelFormat enum and its byte-size table.

package frame

import (
	"fmt"
	"strings"
)

// PixelFormat is the memory layout of a single pixel of a Frame.
type PixelFormat int

const (
	// PixelFormatUndefined is the zero value; a Frame of this format cannot hold data.
	PixelFormatUndefined PixelFormat = iota
	// PixelFormatRGBA is 8 bits per channel, R-G-B-A byte order.
	PixelFormatRGBA
	// PixelFormatBGRA is 8 bits per channel, B-G-R-A byte order.
	PixelFormatBGRA
	// PixelFormatRGB is 8 bits per channel without alpha.
	PixelFormatRGB
	// PixelFormatRGBA64 is 16 bits per channel (little endian), R-G-B-A order.
	PixelFormatRGBA64
	// PixelFormatBGRA64 is 16 bits per channel (little endian), B-G-R-A order.
	PixelFormatBGRA64
	// PixelFormatGray is a single 8-bit luma channel.
	PixelFormatGray
	// PixelFormatGray16 is a single 16-bit luma channel.
	PixelFormatGray16
	endOfPixelFormat
)

// pixelSizes must be extended together with the enum above.
var pixelSizes = [endOfPixelFormat]uint64{
	PixelFormatUndefined: 0,
	PixelFormatRGBA:      4,
	PixelFormatBGRA:      4,
	PixelFormatRGB:       3,
	PixelFormatRGBA64:    8,
	PixelFormatBGRA64:    8,
	PixelFormatGray:      1,
	PixelFormatGray16:    2,
}

func PixelFormats() []PixelFormat {
	result := make([]PixelFormat, 0, int(endOfPixelFormat)-1)
	for pf := PixelFormatUndefined + 1; pf < endOfPixelFormat; pf++ {
		result = append(result, pf)
	}
	return result
}

// PixelSize returns the amount of bytes a single pixel occupies, or zero
// for an unknown format.
func (pf PixelFormat) PixelSize() uint64 {
	if pf < 0 || pf >= endOfPixelFormat {
		return 0
	}
	return pixelSizes[pf]
}

// BufferSize returns the amount of bytes a width×height picture occupies.
func (pf PixelFormat) BufferSize(width, height uint32) uint64 {
	return pf.PixelSize() * uint64(width) * uint64(height)
}

func (pf PixelFormat) String() string {
	switch pf {
	case PixelFormatUndefined:
		return "<undefined>"
	case PixelFormatRGBA:
		return "RGBA"
	case PixelFormatBGRA:
		return "BGRA"
	case PixelFormatRGB:
		return "RGB"
	case PixelFormatRGBA64:
		return "RGBA64"
	case PixelFormatBGRA64:
		return "BGRA64"
	case PixelFormatGray:
		return "GRAY"
	case PixelFormatGray16:
		return "GRAY16"
	default:
		return fmt.Sprintf("<unknown:%d>", int(pf))
	}
}

func ParsePixelFormat(s string) (PixelFormat, error) {
	for _, pf := range PixelFormats() {
		if strings.EqualFold(pf.String(), s) {
			return pf, nil
		}
	}
	return PixelFormatUndefined, fmt.Errorf("unknown pixel format '%s'", s)
}

// Set implements pflag.Value.
func (pf *PixelFormat) Set(s string) error {
	v, err := ParsePixelFormat(s)
	if err != nil {
		return err
	}
	*pf = v
	return nil
}

// Type implements pflag.Value.
func (pf *PixelFormat) Type() string {
	return "pixel-format"
}
