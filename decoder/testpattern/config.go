package testpattern

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/xaionaro-go/avframebuffer/frame"
)

const Scheme = "testpattern"

type Config struct {
	Width       uint32
	Height      uint32
	PixelFormat frame.PixelFormat

	// Frames is the amount of frames to generate; zero means endless.
	Frames uint64

	// FrameRate limits the generation speed; zero means as fast as the
	// sink accepts frames.
	FrameRate float64
}

func DefaultConfig() Config {
	return Config{
		Width:       640,
		Height:      480,
		PixelFormat: frame.PixelFormatRGBA,
	}
}

func (cfg Config) String() string {
	return fmt.Sprintf("%s://%dx%d?frames=%d&fps=%g&format=%s",
		Scheme, cfg.Width, cfg.Height, cfg.Frames, cfg.FrameRate, cfg.PixelFormat)
}

// ParseSource parses sources like "testpattern://640x480?frames=100&fps=30&format=RGBA".
func ParseSource(source string) (Config, error) {
	u, err := url.Parse(source)
	if err != nil {
		return Config{}, fmt.Errorf("unable to parse %q: %w", source, err)
	}
	if u.Scheme != Scheme {
		return Config{}, fmt.Errorf("unexpected scheme %q, expected %q", u.Scheme, Scheme)
	}

	cfg := DefaultConfig()
	if u.Host != "" {
		w, h, ok := strings.Cut(u.Host, "x")
		if !ok {
			return Config{}, fmt.Errorf("invalid resolution %q, expected WIDTHxHEIGHT", u.Host)
		}
		width, err := strconv.ParseUint(w, 10, 32)
		if err != nil {
			return Config{}, fmt.Errorf("invalid width %q: %w", w, err)
		}
		height, err := strconv.ParseUint(h, 10, 32)
		if err != nil {
			return Config{}, fmt.Errorf("invalid height %q: %w", h, err)
		}
		if width == 0 || height == 0 {
			return Config{}, fmt.Errorf("the resolution must not be zero: %q", u.Host)
		}
		cfg.Width, cfg.Height = uint32(width), uint32(height)
	}

	query := u.Query()
	if v := query.Get("frames"); v != "" {
		cfg.Frames, err = strconv.ParseUint(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid frames count %q: %w", v, err)
		}
	}
	if v := query.Get("fps"); v != "" {
		cfg.FrameRate, err = strconv.ParseFloat(v, 64)
		if err != nil || cfg.FrameRate < 0 {
			return Config{}, fmt.Errorf("invalid frame rate %q: %v", v, err)
		}
	}
	if v := query.Get("format"); v != "" {
		cfg.PixelFormat, err = frame.ParsePixelFormat(v)
		if err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}
