// pool.go implements a generic object pool used to recycle queue nodes and pixel buffers.

// Package pool provides a generic object pool with optional finalizers.
package pool

import (
	"sync"

	"github.com/xaionaro-go/avframebuffer/internal"
	"go.uber.org/atomic"
)

// ReuseMemory may be switched off to make every Get allocate (useful when
// hunting use-after-put bugs).
var ReuseMemory = true

type Pool[T any] struct {
	sync.Pool
	ResetFunc func(*T)

	Allocated atomic.Uint64
	Gets      atomic.Uint64
	Puts      atomic.Uint64
}

// NewPool returns a pool that builds new objects with allocFunc.
//
// resetFunc (if not nil) is called on every object returned with Put;
// freeFunc (if not nil) is installed as a finalizer on every newly allocated object.
func NewPool[T any](
	allocFunc func() *T,
	resetFunc func(*T),
	freeFunc func(*T),
) *Pool[T] {
	p := &Pool[T]{
		ResetFunc: resetFunc,
	}
	p.Pool.New = func() any {
		p.Allocated.Inc()
		v := allocFunc()
		if freeFunc != nil {
			internal.SetFinalizer(v, func(v *T) {
				freeFunc(v)
			})
		}
		return v
	}
	return p
}

func (p *Pool[T]) Get() *T {
	p.Gets.Inc()
	if !ReuseMemory {
		return p.Pool.New().(*T)
	}
	return p.Pool.Get().(*T)
}

func (p *Pool[T]) Put(items ...*T) {
	if !ReuseMemory {
		return
	}
	for _, item := range items {
		if item == nil {
			continue
		}
		if p.ResetFunc != nil {
			p.ResetFunc(item)
		}
		p.Puts.Inc()
		p.Pool.Put(item)
	}
}

// Reused is the amount of Get calls served without allocating.
func (p *Pool[T]) Reused() uint64 {
	gets, allocated := p.Gets.Load(), p.Allocated.Load()
	if allocated > gets {
		return 0
	}
	return gets - allocated
}
