package allocator

import (
	"github.com/xaionaro-go/avframebuffer/frame"
)

// Heap allocates with make and leaves deallocation to the GC.
type Heap struct {
	counters counters
}

var _ Allocator = (*Heap)(nil)

func NewHeap() *Heap {
	return &Heap{}
}

func (h *Heap) Allocate(size uint64) (frame.Buffer, error) {
	if size == 0 {
		return nil, ErrZeroAllocation
	}
	h.counters.allocated(size)
	return make(frame.Buffer, size), nil
}

func (h *Heap) Deallocate(buf frame.Buffer) {
	h.counters.deallocated(uint64(cap(buf)))
}

func (h *Heap) Stats() Statistics {
	return h.counters.ToStats()
}
