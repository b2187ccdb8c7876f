package presenter

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/xaionaro-go/avframebuffer/frame"
	"github.com/xaionaro-go/avframebuffer/indicator"
	"github.com/xaionaro-go/avframebuffer/sink"
	"github.com/xaionaro-go/avframebuffer/types"
)

// Stats measures the presentation: the amount of fresh and repeated frames
// and the smoothed rate of the fresh ones.
type Stats struct {
	Presented types.CountersItem
	Repeated  types.CountersItem
	Rate      *indicator.Rate

	nowFunc func() time.Time
}

var _ sink.Presenter = (*Stats)(nil)

func NewStats() *Stats {
	return &Stats{
		Rate:    indicator.NewRateDefault(),
		nowFunc: time.Now,
	}
}

func (p *Stats) Present(ctx context.Context, f *frame.Frame, repeated bool) error {
	if repeated {
		p.Repeated.Increment(f.Size())
		return nil
	}
	p.Presented.Increment(f.Size())
	p.Rate.Observe(p.nowFunc())
	return nil
}

func (p *Stats) FPS() float64 {
	return p.Rate.PerSecond()
}

func (p *Stats) String() string {
	presented := p.Presented.ToStats()
	repeated := p.Repeated.ToStats()
	return fmt.Sprintf(
		"presented %d frames (%s), repeated %d frames, %s",
		presented.Count, humanize.IBytes(presented.Bytes),
		repeated.Count,
		humanize.SI(p.FPS(), "fps"),
	)
}
