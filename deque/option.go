package deque

type config struct {
	RecycleNodes bool
}

func defaultConfig() config {
	return config{
		RecycleNodes: true,
	}
}

type Option interface {
	apply(*config)
}

type Options []Option

func (s Options) config() config {
	cfg := defaultConfig()
	for _, opt := range s {
		opt.apply(&cfg)
	}
	return cfg
}

// OptionRecycleNodes defines if removed nodes are returned to a pool for
// reuse by later pushes.
type OptionRecycleNodes bool

func (opt OptionRecycleNodes) apply(cfg *config) {
	cfg.RecycleNodes = bool(opt)
}
