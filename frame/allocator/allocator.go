// Package allocator provides thread-safe implementations of the frame
// allocate/deallocate pair.
//
// A decoder allocates on its decode goroutine while frames are released on the
// presentation goroutine, so every allocator here is safe for concurrent use.
package allocator

import (
	"github.com/xaionaro-go/avframebuffer/frame"
	"github.com/xaionaro-go/avframebuffer/types"
)

type Allocator interface {
	Allocate(size uint64) (frame.Buffer, error)
	Deallocate(buf frame.Buffer)
	Stats() Statistics
}

type Statistics struct {
	Allocated   types.StatisticsItem
	Deallocated types.StatisticsItem
	InUse       types.StatisticsItem
}

type counters struct {
	Allocated   types.CountersItem
	Deallocated types.CountersItem
	InUse       types.GaugeItem
}

func (c *counters) allocated(size uint64) {
	c.Allocated.Increment(size)
	c.InUse.Add(size)
}

func (c *counters) deallocated(size uint64) {
	c.Deallocated.Increment(size)
	c.InUse.Sub(size)
}

func (c *counters) ToStats() Statistics {
	return Statistics{
		Allocated:   c.Allocated.ToStats(),
		Deallocated: c.Deallocated.ToStats(),
		InUse:       c.InUse.ToStats(),
	}
}
