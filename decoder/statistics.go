package decoder

import (
	"go.uber.org/atomic"

	"github.com/xaionaro-go/avframebuffer/types"
)

type Statistics struct {
	Emitted        types.StatisticsItem `json:",omitempty"`
	Dropped        types.StatisticsItem `json:",omitempty"`
	EnqueueRetries uint64               `json:",omitempty"`
	Plays          uint64               `json:",omitempty"`
	Failures       uint64               `json:",omitempty"`
}

type counters struct {
	Emitted        types.CountersItem
	Dropped        types.CountersItem
	EnqueueRetries atomic.Uint64
	Plays          atomic.Uint64
	Failures       atomic.Uint64
}

func (c *counters) ToStats() Statistics {
	return Statistics{
		Emitted:        c.Emitted.ToStats(),
		Dropped:        c.Dropped.ToStats(),
		EnqueueRetries: c.EnqueueRetries.Load(),
		Plays:          c.Plays.Load(),
		Failures:       c.Failures.Load(),
	}
}
