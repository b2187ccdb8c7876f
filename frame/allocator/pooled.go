package allocator

import (
	"context"

	"github.com/xaionaro-go/avframebuffer/frame"
	"github.com/xaionaro-go/avframebuffer/pool"
	"github.com/xaionaro-go/xsync"
)

// Pooled recycles buffers of equal size; a playing stream allocates
// same-sized pictures over and over, so after warm-up nothing is allocated.
type Pooled struct {
	locker   xsync.Mutex
	pools    map[uint64]*pool.Pool[frame.Buffer]
	tracker  tracker
	counters counters
}

var _ Allocator = (*Pooled)(nil)

func NewPooled() *Pooled {
	return &Pooled{
		pools: map[uint64]*pool.Pool[frame.Buffer]{},
	}
}

func (p *Pooled) getPool(size uint64) *pool.Pool[frame.Buffer] {
	ctx := xsync.WithNoLogging(context.TODO(), true)
	return xsync.DoR1(ctx, &p.locker, func() *pool.Pool[frame.Buffer] {
		bucket := p.pools[size]
		if bucket == nil {
			bucket = pool.NewPool(
				func() *frame.Buffer {
					buf := make(frame.Buffer, size)
					return &buf
				},
				nil,
				nil,
			)
			p.pools[size] = bucket
		}
		return bucket
	})
}

func (p *Pooled) Allocate(size uint64) (frame.Buffer, error) {
	if size == 0 {
		return nil, ErrZeroAllocation
	}
	buf := *p.getPool(size).Get()
	p.tracker.add(buf, size)
	p.counters.allocated(size)
	return buf, nil
}

func (p *Pooled) Deallocate(buf frame.Buffer) {
	size, ok := p.tracker.remove(buf)
	if !ok {
		return
	}
	p.counters.deallocated(size)
	buf = buf[:size:size]
	p.getPool(size).Put(&buf)
}

// Outstanding is the amount of buffers allocated and not yet deallocated.
func (p *Pooled) Outstanding() int {
	return p.tracker.count()
}

func (p *Pooled) Stats() Statistics {
	return p.counters.ToStats()
}
