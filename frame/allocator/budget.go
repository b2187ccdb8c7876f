package allocator

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/xaionaro-go/avframebuffer/frame"
	"go.uber.org/atomic"
)

// Budget limits the amount of bytes that may be outstanding in the wrapped
// allocator; an allocation that would exceed the limit fails with ErrOutOfMemory.
type Budget struct {
	Backend Allocator
	Limit   uint64

	used     atomic.Uint64
	tracker  tracker
	counters counters
}

var _ Allocator = (*Budget)(nil)

func NewBudget(backend Allocator, limit uint64) *Budget {
	return &Budget{
		Backend: backend,
		Limit:   limit,
	}
}

func (b *Budget) Allocate(size uint64) (frame.Buffer, error) {
	if size == 0 {
		return nil, ErrZeroAllocation
	}
	for {
		used := b.used.Load()
		if used+size > b.Limit {
			return nil, fmt.Errorf("%w: requested %s, in use %s of %s",
				ErrOutOfMemory, humanize.IBytes(size), humanize.IBytes(used), humanize.IBytes(b.Limit))
		}
		if b.used.CompareAndSwap(used, used+size) {
			break
		}
	}

	buf, err := b.Backend.Allocate(size)
	if err != nil {
		b.used.Sub(size)
		return nil, err
	}
	b.tracker.add(buf, size)
	b.counters.allocated(size)
	return buf, nil
}

func (b *Budget) Deallocate(buf frame.Buffer) {
	size, ok := b.tracker.remove(buf)
	if !ok {
		return
	}
	b.Backend.Deallocate(buf)
	b.used.Sub(size)
	b.counters.deallocated(size)
}

// Used is the amount of bytes currently outstanding.
func (b *Budget) Used() uint64 {
	return b.used.Load()
}

func (b *Budget) Stats() Statistics {
	return b.counters.ToStats()
}

func (b *Budget) String() string {
	return fmt.Sprintf("Budget(%s/%s)", humanize.IBytes(b.used.Load()), humanize.IBytes(b.Limit))
}
