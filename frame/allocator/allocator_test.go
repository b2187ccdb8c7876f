package allocator

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/avframebuffer/frame"
	"github.com/xaionaro-go/avframebuffer/types"
)

func TestHeap(t *testing.T) {
	h := NewHeap()
	buf, err := h.Allocate(16)
	require.NoError(t, err)
	require.Len(t, buf, 16)
	h.Deallocate(buf)

	_, err = h.Allocate(0)
	require.ErrorIs(t, err, ErrZeroAllocation)

	stats := h.Stats()
	require.Equal(t, types.StatisticsItem{Count: 1, Bytes: 16}, stats.Allocated)
	require.Equal(t, types.StatisticsItem{}, stats.InUse)
}

func TestPooledReusesAndDetectsDoubleFree(t *testing.T) {
	p := NewPooled()
	a, err := p.Allocate(64)
	require.NoError(t, err)
	b, err := p.Allocate(32)
	require.NoError(t, err)
	require.Equal(t, 2, p.Outstanding())

	p.Deallocate(a)
	p.Deallocate(a)
	require.Equal(t, 1, p.Outstanding())
	require.Equal(t, uint64(1), p.Stats().Deallocated.Count, "a double free must not be counted")

	p.Deallocate(b)
	require.Zero(t, p.Outstanding())
	require.Equal(t, types.StatisticsItem{}, p.Stats().InUse)
}

func TestBudget(t *testing.T) {
	b := NewBudget(NewHeap(), 100)

	a, err := b.Allocate(60)
	require.NoError(t, err)

	_, err = b.Allocate(41)
	require.ErrorIs(t, err, ErrOutOfMemory)
	require.Equal(t, uint64(60), b.Used())

	c, err := b.Allocate(40)
	require.NoError(t, err)
	require.Equal(t, uint64(100), b.Used())

	b.Deallocate(a)
	b.Deallocate(a)
	require.Equal(t, uint64(40), b.Used())
	b.Deallocate(c)
	require.Zero(t, b.Used())
	require.Equal(t, uint64(2), b.Stats().Deallocated.Count)
}

func TestBudgetWithFrames(t *testing.T) {
	ctx := context.Background()
	b := NewBudget(NewPooled(), frame.PixelFormatRGBA.BufferSize(4, 4)*2)

	var frames []*frame.Frame
	for range 2 {
		f := frame.New(frame.PixelFormatRGBA, 4, 4)
		require.NoError(t, f.StoreData(ctx, b.Allocate, b.Deallocate, func(frame.Buffer) error { return nil }))
		frames = append(frames, f)
	}

	f := frame.New(frame.PixelFormatRGBA, 4, 4)
	err := f.StoreData(ctx, b.Allocate, b.Deallocate, func(frame.Buffer) error { return nil })
	require.ErrorIs(t, err, ErrOutOfMemory)
	require.False(t, f.IsHoldingData())

	frames[0].Release()
	require.NoError(t, f.StoreData(ctx, b.Allocate, b.Deallocate, func(frame.Buffer) error { return nil }))
	f.Release()
	frames[1].Release()
	require.Zero(t, b.Used())
}

func TestConcurrentAllocations(t *testing.T) {
	b := NewBudget(NewPooled(), 1<<20)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 1000 {
				buf, err := b.Allocate(128)
				if err != nil {
					continue
				}
				b.Deallocate(buf)
			}
		}()
	}
	wg.Wait()

	require.Zero(t, b.Used())
	stats := b.Stats()
	require.Equal(t, stats.Allocated.Count, stats.Deallocated.Count)
	require.Equal(t, types.StatisticsItem{}, stats.InUse)
}
