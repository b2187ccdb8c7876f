// option.go defines functional options for configuring sinks.

package sink

import (
	"context"
	"time"

	"github.com/xaionaro-go/avframebuffer/frame"
)

const (
	DefaultEnqueueTimeout  = time.Second
	DefaultRefreshInterval = time.Second / 30
)

type OnPresentFunc func(ctx context.Context, f *frame.Frame, repeated bool)

type config struct {
	EnqueueTimeout  time.Duration
	RefreshInterval time.Duration
	OnPresent       OnPresentFunc
}

func defaultConfig() config {
	return config{
		EnqueueTimeout:  DefaultEnqueueTimeout,
		RefreshInterval: DefaultRefreshInterval,
	}
}

type Option interface {
	apply(*config)
}

type Options []Option

func (s Options) apply(cfg *config) {
	for _, opt := range s {
		opt.apply(cfg)
	}
}

func (s Options) config() config {
	cfg := defaultConfig()
	s.apply(&cfg)
	return cfg
}

// OptionEnqueueTimeout is the maximal time EnqueueFrame waits for a free slot.
type OptionEnqueueTimeout time.Duration

func (opt OptionEnqueueTimeout) apply(cfg *config) {
	cfg.EnqueueTimeout = time.Duration(opt)
}

// OptionRefreshInterval is how often the last frame is re-presented while
// no new frames arrive; zero disables re-presenting.
type OptionRefreshInterval time.Duration

func (opt OptionRefreshInterval) apply(cfg *config) {
	cfg.RefreshInterval = time.Duration(opt)
}

// OptionOnPresent is called after every Present (including repeats).
type OptionOnPresent OnPresentFunc

func (opt OptionOnPresent) apply(cfg *config) {
	cfg.OnPresent = OnPresentFunc(opt)
}
