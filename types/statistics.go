package types

import (
	"sync/atomic"
)

type StatisticsItem struct {
	Count uint64 `json:",omitempty"`
	Bytes uint64 `json:",omitempty"`
}

func (c StatisticsItem) ToCounters() *CountersItem {
	result := CountersItem{}
	result.Count.Store(c.Count)
	result.Bytes.Store(c.Bytes)
	return &result
}

func (c StatisticsItem) Sub(other StatisticsItem) StatisticsItem {
	return StatisticsItem{
		Count: c.Count - other.Count,
		Bytes: c.Bytes - other.Bytes,
	}
}

type CountersItem struct {
	Count atomic.Uint64
	Bytes atomic.Uint64
}

func NewCountersItem() *CountersItem {
	return &CountersItem{}
}

func (c *CountersItem) Increment(size uint64) {
	c.Count.Add(1)
	c.Bytes.Add(size)
}

func (c *CountersItem) ToStats() StatisticsItem {
	return StatisticsItem{
		Count: c.Count.Load(),
		Bytes: c.Bytes.Load(),
	}
}

// GaugeItem is a counter that goes both ways (e.g. buffers in use).
type GaugeItem struct {
	Count atomic.Int64
	Bytes atomic.Int64
}

func (g *GaugeItem) Add(size uint64) {
	g.Count.Add(1)
	g.Bytes.Add(int64(size))
}

func (g *GaugeItem) Sub(size uint64) {
	g.Count.Add(-1)
	g.Bytes.Add(-int64(size))
}

func (g *GaugeItem) ToStats() StatisticsItem {
	return StatisticsItem{
		Count: uint64(max(g.Count.Load(), 0)),
		Bytes: uint64(max(g.Bytes.Load(), 0)),
	}
}
