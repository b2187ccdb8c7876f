// deque.go implements a concurrent double-ended queue with per-end locking.

// Package deque provides a double-ended queue that is safe for concurrent use
// and lets one front operation and one back operation proceed in parallel.
//
// Each end has its own locker. An operation takes the locker of its end and
// checks the amount of linked elements: with at least coordinationThreshold
// elements the two ends touch disjoint nodes, otherwise the operation
// re-acquires both lockers (front first, then back) before touching the links.
// The element counter is a lower bound of the amount of linked nodes: pops
// decrement it before unlinking and pushes increment it after linking.
package deque

import (
	"context"
	"fmt"

	"github.com/go-ng/xatomic"
	"github.com/xaionaro-go/avframebuffer/pool"
	"github.com/xaionaro-go/typing"
	"github.com/xaionaro-go/xsync"
	"go.uber.org/atomic"
)

const coordinationThreshold = 3

type Deque[T any] struct {
	frontLocker xsync.Mutex
	backLocker  xsync.Mutex
	head        *node[T]
	tail        *node[T]
	count       atomic.Int64

	nodePool     *pool.Pool[node[T]]
	nonEmptyChan *chan struct{}
	config       config
}

func New[T any](opts ...Option) *Deque[T] {
	d := &Deque[T]{
		nonEmptyChan: ptr(make(chan struct{})),
		config:       Options(opts).config(),
	}
	d.nodePool = pool.NewPool(
		func() *node[T] { return &node[T]{} },
		(*node[T]).reset,
		nil,
	)
	return d
}

func (d *Deque[T]) String() string {
	return fmt.Sprintf("Deque(len:%d)", d.Len())
}

// Len returns the amount of elements; it is approximate while other
// goroutines push or pop.
func (d *Deque[T]) Len() int {
	return int(d.count.Load())
}

func (d *Deque[T]) IsEmpty() bool {
	return d.count.Load() == 0
}

// NonEmptyChan returns a channel that is closed the next time the queue
// transitions from empty to non-empty.
func (d *Deque[T]) NonEmptyChan() <-chan struct{} {
	return *xatomic.LoadPointer(&d.nonEmptyChan)
}

func (d *Deque[T]) signalNonEmpty() {
	close(*xatomic.SwapPointer(&d.nonEmptyChan, ptr(make(chan struct{}))))
}

func (d *Deque[T]) newNode(v T) *node[T] {
	var n *node[T]
	if d.config.RecycleNodes {
		n = d.nodePool.Get()
	} else {
		n = &node[T]{}
	}
	n.Value = v
	return n
}

func (d *Deque[T]) freeNode(n *node[T]) T {
	v := n.Value
	if d.config.RecycleNodes {
		d.nodePool.Put(n)
	} else {
		n.reset()
	}
	return v
}

// lockEnd acquires the locker of one end, or both lockers if the queue is too
// short for the ends to be independent. The returned function releases what
// was acquired; the boolean reports if both lockers are held.
func (d *Deque[T]) lockEnd(ctx context.Context, own *xsync.Mutex) (func(), bool) {
	ctx = xsync.WithNoLogging(ctx, true)
	own.ManualLock(ctx)
	if d.count.Load() >= coordinationThreshold {
		return func() { own.ManualUnlock(ctx) }, false
	}
	own.ManualUnlock(ctx)

	d.frontLocker.ManualLock(ctx)
	d.backLocker.ManualLock(ctx)
	return func() {
		d.backLocker.ManualUnlock(ctx)
		d.frontLocker.ManualUnlock(ctx)
	}, true
}

func (d *Deque[T]) PushBack(ctx context.Context, v T) {
	n := d.newNode(v)
	unlock, both := d.lockEnd(ctx, &d.backLocker)
	defer unlock()

	n.Prev = d.tail
	if d.tail != nil {
		d.tail.Next = n
	}
	d.tail = n
	if both && d.head == nil {
		d.head = n
	}
	if d.count.Inc() == 1 {
		d.signalNonEmpty()
	}
}

func (d *Deque[T]) PushFront(ctx context.Context, v T) {
	n := d.newNode(v)
	unlock, both := d.lockEnd(ctx, &d.frontLocker)
	defer unlock()

	n.Next = d.head
	if d.head != nil {
		d.head.Prev = n
	}
	d.head = n
	if both && d.tail == nil {
		d.tail = n
	}
	if d.count.Inc() == 1 {
		d.signalNonEmpty()
	}
}

// PopFront removes the first element; the result is unset if the queue is empty.
func (d *Deque[T]) PopFront(ctx context.Context) typing.Optional[T] {
	unlock, both := d.lockEnd(ctx, &d.frontLocker)
	defer unlock()

	n := d.head
	if n == nil {
		return typing.Optional[T]{}
	}
	d.count.Dec()
	d.head = n.Next
	if d.head != nil {
		d.head.Prev = nil
	} else if both {
		d.tail = nil
	}
	return typing.Opt(d.freeNode(n))
}

// PopBack removes the last element; the result is unset if the queue is empty.
func (d *Deque[T]) PopBack(ctx context.Context) typing.Optional[T] {
	unlock, both := d.lockEnd(ctx, &d.backLocker)
	defer unlock()

	n := d.tail
	if n == nil {
		return typing.Optional[T]{}
	}
	d.count.Dec()
	d.tail = n.Prev
	if d.tail != nil {
		d.tail.Next = nil
	} else if both {
		d.head = nil
	}
	return typing.Opt(d.freeNode(n))
}

// WaitPopFront is PopFront that waits for an element until ctx is done.
func (d *Deque[T]) WaitPopFront(ctx context.Context) (T, error) {
	return d.waitPop(ctx, d.PopFront)
}

// WaitPopBack is PopBack that waits for an element until ctx is done.
func (d *Deque[T]) WaitPopBack(ctx context.Context) (T, error) {
	return d.waitPop(ctx, d.PopBack)
}

func (d *Deque[T]) waitPop(
	ctx context.Context,
	pop func(context.Context) typing.Optional[T],
) (T, error) {
	for {
		ch := d.NonEmptyChan()
		if v := pop(ctx); v.IsSet() {
			return v.Get(), nil
		}
		select {
		case <-ctx.Done():
			var zeroValue T
			return zeroValue, ctx.Err()
		case <-ch:
		}
	}
}

// DrainFront pops every element from the front and passes it to callback.
// Returns the amount of drained elements.
func (d *Deque[T]) DrainFront(ctx context.Context, callback func(T)) int {
	count := 0
	for {
		v := d.PopFront(ctx)
		if !v.IsSet() {
			return count
		}
		count++
		if callback != nil {
			callback(v.Get())
		}
	}
}
