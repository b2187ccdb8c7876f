package frame

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

type trackingAllocator struct {
	allocated   map[*byte]uint64
	deallocated map[*byte]int
}

func newTrackingAllocator() *trackingAllocator {
	return &trackingAllocator{
		allocated:   map[*byte]uint64{},
		deallocated: map[*byte]int{},
	}
}

func (a *trackingAllocator) Allocate(size uint64) (Buffer, error) {
	buf := make(Buffer, size)
	a.allocated[&buf[0]] = size
	return buf, nil
}

func (a *trackingAllocator) Deallocate(buf Buffer) {
	a.deallocated[&buf[0]]++
}

func fillWith(v byte) FillFunc {
	return func(buf Buffer) error {
		for i := range buf {
			buf[i] = v
		}
		return nil
	}
}

func TestPixelSize(t *testing.T) {
	require.Equal(t, uint64(8), PixelFormatRGBA64.PixelSize())
	require.Equal(t, uint64(4), PixelFormatRGBA.PixelSize())
	require.Equal(t, uint64(0), PixelFormatUndefined.PixelSize())
	require.Equal(t, uint64(0), PixelFormat(100).PixelSize())
	require.Equal(t, uint64(8*640*480), PixelFormatRGBA64.BufferSize(640, 480))

	for _, pf := range PixelFormats() {
		require.NotZero(t, pf.PixelSize(), pf.String())
		parsed, err := ParsePixelFormat(pf.String())
		require.NoError(t, err)
		require.Equal(t, pf, parsed)
	}
	_, err := ParsePixelFormat("YUV420P")
	require.Error(t, err)
}

func TestStoreData(t *testing.T) {
	ctx := context.Background()
	a := newTrackingAllocator()

	f := New(PixelFormatRGBA, 4, 2)
	require.False(t, f.IsHoldingData())
	require.Nil(t, f.Bytes())

	fillCalls := 0
	err := f.StoreData(ctx, a.Allocate, a.Deallocate, func(buf Buffer) error {
		fillCalls++
		require.Len(t, buf, 4*4*2)
		return fillWith(0x7f)(buf)
	})
	require.NoError(t, err)
	require.Equal(t, 1, fillCalls)
	require.True(t, f.IsHoldingData())
	require.Len(t, f.Bytes(), 32)
	require.Equal(t, byte(0x7f), f.Bytes()[31])

	err = f.StoreData(ctx, a.Allocate, a.Deallocate, fillWith(0))
	require.ErrorIs(t, err, ErrAlreadyHoldingData)
	require.Len(t, a.allocated, 1, "a second buffer must not be allocated")
	require.Equal(t, byte(0x7f), f.Bytes()[0])

	f.Release()
	require.False(t, f.IsHoldingData())
	f.Release()
	for ptr := range a.allocated {
		require.Equal(t, 1, a.deallocated[ptr])
	}
}

func TestStoreDataFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("allocation", func(t *testing.T) {
		errOOM := errors.New("out of memory")
		f := New(PixelFormatRGBA64, 1920, 1080)
		fillCalled := false
		err := f.StoreData(ctx,
			func(uint64) (Buffer, error) { return nil, errOOM },
			NoopDeallocate,
			func(Buffer) error { fillCalled = true; return nil },
		)
		require.ErrorIs(t, err, errOOM)
		require.False(t, fillCalled)
		require.False(t, f.IsHoldingData())
	})

	t.Run("fill", func(t *testing.T) {
		a := newTrackingAllocator()
		errFill := errors.New("broken picture")
		f := New(PixelFormatGray, 8, 8)
		err := f.StoreData(ctx, a.Allocate, a.Deallocate, func(Buffer) error { return errFill })
		require.ErrorIs(t, err, errFill)
		require.False(t, f.IsHoldingData())
		require.Len(t, a.deallocated, 1)
	})

	t.Run("short_buffer", func(t *testing.T) {
		deallocated := 0
		f := New(PixelFormatRGB, 8, 8)
		err := f.StoreData(ctx,
			func(size uint64) (Buffer, error) { return make(Buffer, size-1), nil },
			func(Buffer) { deallocated++ },
			fillWith(1),
		)
		require.ErrorIs(t, err, ErrShortBuffer)
		require.Equal(t, 1, deallocated)
		require.False(t, f.IsHoldingData())
	})

	t.Run("zero_size", func(t *testing.T) {
		f := New(PixelFormatRGBA, 0, 100)
		err := f.StoreData(ctx, newTrackingAllocator().Allocate, NoopDeallocate, fillWith(0))
		require.ErrorIs(t, err, ErrZeroSize)
	})

	t.Run("unknown_format", func(t *testing.T) {
		f := New(PixelFormatUndefined, 10, 10)
		err := f.StoreData(ctx, newTrackingAllocator().Allocate, NoopDeallocate, fillWith(0))
		require.ErrorIs(t, err, ErrUnknownPixelFormat)
	})
}

func TestMoveIntegrity(t *testing.T) {
	ctx := context.Background()
	a := newTrackingAllocator()

	f := New(PixelFormatBGRA, 3, 3)
	require.NoError(t, f.StoreData(ctx, a.Allocate, a.Deallocate, fillWith(5)))
	held := &f.Bytes()[0]

	g := f.Move()
	require.False(t, f.IsHoldingData())
	require.True(t, g.IsHoldingData())
	require.Equal(t, held, &g.Bytes()[0])
	require.Equal(t, PixelFormatBGRA, g.PixelFormat())
	require.Equal(t, uint32(3), g.Width())
	require.Equal(t, uint32(3), g.Height())

	f.Release()
	require.Zero(t, a.deallocated[held], "releasing a moved-from frame must not deallocate")

	g.Release()
	require.Equal(t, 1, a.deallocated[held])
}

func TestMoveFromReleasesDestination(t *testing.T) {
	ctx := context.Background()
	a := newTrackingAllocator()

	dst := New(PixelFormatRGBA, 2, 2)
	require.NoError(t, dst.StoreData(ctx, a.Allocate, a.Deallocate, fillWith(1)))
	oldBuf := &dst.Bytes()[0]

	src := New(PixelFormatGray16, 5, 1)
	require.NoError(t, src.StoreData(ctx, a.Allocate, a.Deallocate, fillWith(2)))
	newBuf := &src.Bytes()[0]

	dst.MoveFrom(src)
	require.Equal(t, 1, a.deallocated[oldBuf])
	require.Zero(t, a.deallocated[newBuf])
	require.False(t, src.IsHoldingData())
	require.Equal(t, PixelFormatGray16, dst.PixelFormat())
	require.Equal(t, uint32(5), dst.Width())

	dst.MoveFrom(dst)
	require.True(t, dst.IsHoldingData())

	dst.Release()
	src.Release()
	require.Equal(t, 1, a.deallocated[newBuf])
}

func TestNoDoubleFreeOnRandomMoves(t *testing.T) {
	ctx := context.Background()
	a := newTrackingAllocator()
	rng := rand.New(rand.NewSource(1))

	frames := make([]*Frame, 16)
	for i := range frames {
		frames[i] = New(PixelFormatRGBA, 2, 2)
		require.NoError(t, frames[i].StoreData(ctx, a.Allocate, a.Deallocate, fillWith(byte(i))))
	}

	for range 1000 {
		i, j := rng.Intn(len(frames)), rng.Intn(len(frames))
		switch rng.Intn(3) {
		case 0:
			moved := frames[i].Move()
			frames[j].Release()
			frames[j] = moved
		case 1:
			frames[j].MoveFrom(frames[i])
		case 2:
			frames[i].Release()
		}
	}
	for _, f := range frames {
		f.Release()
	}

	require.Len(t, a.allocated, 16)
	for ptr := range a.allocated {
		require.Equal(t, 1, a.deallocated[ptr])
	}
}
