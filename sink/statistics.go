package sink

import (
	"go.uber.org/atomic"

	"github.com/xaionaro-go/avframebuffer/types"
)

type Statistics struct {
	Capacity        uint32
	QueueLength     int
	Enqueued        types.StatisticsItem `json:",omitempty"`
	Presented       types.StatisticsItem `json:",omitempty"`
	Repeated        types.StatisticsItem `json:",omitempty"`
	Released        types.StatisticsItem `json:",omitempty"`
	EnqueueWaits    uint64               `json:",omitempty"`
	EnqueueTimeouts uint64               `json:",omitempty"`
	PresenterErrors uint64               `json:",omitempty"`
}

type counters struct {
	Enqueued        types.CountersItem
	Presented       types.CountersItem
	Repeated        types.CountersItem
	Released        types.CountersItem
	EnqueueWaits    atomic.Uint64
	EnqueueTimeouts atomic.Uint64
	PresenterErrors atomic.Uint64
}

func (c *counters) ToStats() Statistics {
	return Statistics{
		Enqueued:        c.Enqueued.ToStats(),
		Presented:       c.Presented.ToStats(),
		Repeated:        c.Repeated.ToStats(),
		Released:        c.Released.ToStats(),
		EnqueueWaits:    c.EnqueueWaits.Load(),
		EnqueueTimeouts: c.EnqueueTimeouts.Load(),
		PresenterErrors: c.PresenterErrors.Load(),
	}
}
