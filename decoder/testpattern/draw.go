package testpattern

import (
	"github.com/xaionaro-go/avframebuffer/frame"
)

type color struct {
	R, G, B uint8
}

var bars = [...]color{
	{255, 255, 255},
	{255, 255, 0},
	{0, 255, 255},
	{0, 255, 0},
	{255, 0, 255},
	{255, 0, 0},
	{0, 0, 255},
	{0, 0, 0},
}

func (c color) luma() uint8 {
	return uint8((299*uint32(c.R) + 587*uint32(c.G) + 114*uint32(c.B)) / 1000)
}

// putPixel writes one pixel; 16-bit channels repeat the byte, so the
// result does not depend on the byte order.
func putPixel(pf frame.PixelFormat, dst []byte, c color) {
	switch pf {
	case frame.PixelFormatRGBA:
		dst[0], dst[1], dst[2], dst[3] = c.R, c.G, c.B, 255
	case frame.PixelFormatBGRA:
		dst[0], dst[1], dst[2], dst[3] = c.B, c.G, c.R, 255
	case frame.PixelFormatRGB:
		dst[0], dst[1], dst[2] = c.R, c.G, c.B
	case frame.PixelFormatRGBA64:
		for i, v := range [4]uint8{c.R, c.G, c.B, 255} {
			dst[2*i], dst[2*i+1] = v, v
		}
	case frame.PixelFormatBGRA64:
		for i, v := range [4]uint8{c.B, c.G, c.R, 255} {
			dst[2*i], dst[2*i+1] = v, v
		}
	case frame.PixelFormatGray:
		dst[0] = c.luma()
	case frame.PixelFormatGray16:
		l := c.luma()
		dst[0], dst[1] = l, l
	}
}

// Draw renders the color bars shifted proportionally to the frame index.
func Draw(
	buf frame.Buffer,
	pf frame.PixelFormat,
	width, height uint32,
	index uint64,
) error {
	pixelSize := pf.PixelSize()
	if pixelSize == 0 {
		return frame.ErrUnknownPixelFormat
	}
	rowSize := uint64(width) * pixelSize
	if uint64(len(buf)) < rowSize*uint64(height) {
		return frame.ErrShortBuffer
	}

	shift := (index * 4) % uint64(width)
	row := buf[:rowSize]
	for x := uint64(0); x < uint64(width); x++ {
		bar := ((x + shift) % uint64(width)) * uint64(len(bars)) / uint64(width)
		putPixel(pf, row[x*pixelSize:], bars[bar])
	}
	for y := uint64(1); y < uint64(height); y++ {
		copy(buf[y*rowSize:(y+1)*rowSize], row)
	}
	return nil
}
