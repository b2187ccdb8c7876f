package decoder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/avframebuffer/frame"
	"github.com/xaionaro-go/avframebuffer/frame/allocator"
	"github.com/xaionaro-go/avframebuffer/sink"
)

type fakeKernel struct {
	Frames   int
	ProbeErr error
	Err      error
}

func (k *fakeKernel) String() string {
	return "fake"
}

func (k *fakeKernel) Probe(ctx context.Context, source string) error {
	if source == "missing" {
		return fmt.Errorf("no such file")
	}
	return k.ProbeErr
}

func (k *fakeKernel) Decode(ctx context.Context, source string, emitter Emitter) error {
	for i := 0; k.Frames < 0 || i < k.Frames; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := emitter.EmitFrame(ctx, frame.PixelFormatGray, 2, 2, func(buf frame.Buffer) error {
			for idx := range buf {
				buf[idx] = byte(i)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return k.Err
}

func newSink(t *testing.T, capacity uint32, timeout time.Duration) *sink.Permit {
	s, err := sink.NewPermit(capacity, sink.OptionEnqueueTimeout(timeout), sink.OptionRefreshInterval(0))
	require.NoError(t, err)
	return s
}

func waitForState(t *testing.T, d *Decoder, state State) {
	require.Eventually(t, func() bool { return d.State() == state }, 2*time.Second, time.Millisecond, "expected state %s, got %s", state, d.State())
}

func TestStateMachine(t *testing.T) {
	ctx := context.Background()
	a := allocator.NewHeap()
	s := newSink(t, 8, time.Second)
	d := New(s, &fakeKernel{Frames: 3}, a.Allocate, a.Deallocate)
	require.Equal(t, StateIdle, d.State())
	require.Equal(t, uint32(8), d.FramesCount())

	require.ErrorIs(t, d.Play(ctx), ErrInvalidTransition)
	require.ErrorIs(t, d.Stop(ctx), ErrInvalidTransition)
	require.Equal(t, StateIdle, d.State())

	require.ErrorIs(t, d.LoadFile(ctx, "missing"), ErrSourceNotFound)
	require.Equal(t, StateIdle, d.State())

	require.NoError(t, d.LoadFile(ctx, "video.mkv"))
	require.Equal(t, StateLoaded, d.State())
	require.Equal(t, "video.mkv", d.Source())
	require.ErrorIs(t, d.Stop(ctx), ErrInvalidTransition)

	require.NoError(t, d.Play(ctx))
	require.NoError(t, d.Wait(ctx))
	waitForState(t, d, StateStopped)
	require.Equal(t, uint64(3), d.Stats().Emitted.Count)
	require.Equal(t, 3, s.Len())

	require.NoError(t, d.Play(ctx), "a stopped decoder may be replayed")
	require.NoError(t, d.Wait(ctx))
	waitForState(t, d, StateStopped)
	require.Equal(t, uint64(6), d.Stats().Emitted.Count)
	require.Equal(t, uint64(2), d.Stats().Plays)

	require.NoError(t, d.Close(ctx))
	require.NoError(t, s.Close(ctx))
	require.Zero(t, a.Stats().InUse.Count)
}

func TestControlIsNonBlocking(t *testing.T) {
	ctx := context.Background()
	a := allocator.NewPooled()
	s := newSink(t, 1, time.Hour)
	d := New(s, &fakeKernel{Frames: -1}, a.Allocate, a.Deallocate)

	require.NoError(t, d.LoadFile(ctx, "endless"))
	require.NoError(t, d.Play(ctx))
	require.Eventually(t, func() bool { return s.Stats().EnqueueWaits > 0 }, time.Second, time.Millisecond)
	require.Equal(t, StatePlaying, d.State())

	startedAt := time.Now()
	require.NoError(t, d.Stop(ctx))
	require.Equal(t, StateStopped, d.State())
	require.NoError(t, d.LoadFile(ctx, "another"))
	require.Equal(t, StateLoaded, d.State())
	require.Less(t, time.Since(startedAt), 100*time.Millisecond)
	require.Equal(t, 1, s.Len())

	// the frame waiting for a slot is kept and enters the sink once a slot is freed
	runCtx, cancelFn := context.WithCancel(ctx)
	defer cancelFn()
	runErr := make(chan error, 1)
	go func() {
		runErr <- s.Run(runCtx, sink.PresenterFunc(func(ctx context.Context, f *frame.Frame, repeated bool) error {
			return nil
		}))
	}()

	require.NoError(t, d.Wait(ctx))
	require.Equal(t, StateLoaded, d.State(), "a superseded decoding must not change the state")
	require.Equal(t, uint64(2), d.Stats().Emitted.Count)
	require.Zero(t, d.Stats().Dropped.Count)
	require.Eventually(t, func() bool { return s.Stats().Presented.Count == 2 }, time.Second, time.Millisecond)

	cancelFn()
	<-runErr
	require.NoError(t, s.Close(ctx))
	require.Zero(t, a.Outstanding())
	require.NoError(t, d.Close(ctx))
}

type blockingFillKernel struct {
	fillStarted chan struct{}
	fillRelease chan struct{}
}

func (k *blockingFillKernel) String() string {
	return "blocking-fill"
}

func (k *blockingFillKernel) Probe(ctx context.Context, source string) error {
	return nil
}

func (k *blockingFillKernel) Decode(ctx context.Context, source string, emitter Emitter) error {
	return emitter.EmitFrame(ctx, frame.PixelFormatGray, 2, 2, func(buf frame.Buffer) error {
		close(k.fillStarted)
		<-k.fillRelease
		return nil
	})
}

func TestCancelledWhileFillingIsNotEnqueued(t *testing.T) {
	ctx := context.Background()
	a := allocator.NewPooled()
	s := newSink(t, 4, time.Hour)
	k := &blockingFillKernel{
		fillStarted: make(chan struct{}),
		fillRelease: make(chan struct{}),
	}
	d := New(s, k, a.Allocate, a.Deallocate)

	require.NoError(t, d.LoadFile(ctx, "old"))
	require.NoError(t, d.Play(ctx))
	<-k.fillStarted
	require.NoError(t, d.LoadFile(ctx, "new"))
	close(k.fillRelease)
	require.NoError(t, d.Wait(ctx))

	require.Zero(t, s.Len(), "a frame of a replaced source must not reach the sink")
	require.Zero(t, d.Stats().Emitted.Count)
	require.Equal(t, uint64(1), d.Stats().Dropped.Count)
	require.Zero(t, a.Outstanding())
	require.Equal(t, StateLoaded, d.State())

	require.NoError(t, d.Close(ctx))
	require.NoError(t, s.Close(ctx))
}

func TestLoadFileWhilePlaying(t *testing.T) {
	ctx := context.Background()
	a := allocator.NewHeap()
	s := newSink(t, 2, 10*time.Millisecond)
	d := New(s, &fakeKernel{Frames: -1}, a.Allocate, a.Deallocate)

	require.NoError(t, d.LoadFile(ctx, "first"))
	require.NoError(t, d.Play(ctx))
	require.NoError(t, d.LoadFile(ctx, "second"))
	require.Equal(t, StateLoaded, d.State())
	require.Equal(t, "second", d.Source())
	require.NoError(t, d.Wait(ctx))
	require.Equal(t, StateLoaded, d.State())

	require.NoError(t, d.Close(ctx))
	require.NoError(t, s.Close(ctx))
	require.ErrorIs(t, d.Play(ctx), ErrClosed)
}

func TestFatalErrorGoesIdle(t *testing.T) {
	ctx := context.Background()
	budget := allocator.NewBudget(allocator.NewHeap(), 3*frame.PixelFormatGray.BufferSize(2, 2))
	s := newSink(t, 8, time.Hour)
	d := New(s, &fakeKernel{Frames: 10}, budget.Allocate, budget.Deallocate)

	require.NoError(t, d.LoadFile(ctx, "big"))
	require.NoError(t, d.Play(ctx))

	select {
	case err := <-d.ErrorChan():
		require.ErrorIs(t, err, allocator.ErrOutOfMemory)
		var errDecode ErrDecode
		require.True(t, errors.As(err, &errDecode))
		require.Equal(t, "big", errDecode.Source)
	case <-time.After(2 * time.Second):
		t.Fatal("no error received")
	}
	waitForState(t, d, StateIdle)
	require.Equal(t, 3, s.Len(), "no partial frame may be enqueued")
	require.Equal(t, uint64(1), d.Stats().Failures)

	require.ErrorIs(t, d.Play(ctx), ErrInvalidTransition)
	require.NoError(t, s.Close(ctx))
	require.Zero(t, budget.Used())
}

func TestDecodeErrorGoesIdle(t *testing.T) {
	ctx := context.Background()
	a := allocator.NewHeap()
	errBroken := errors.New("broken stream")
	s := newSink(t, 4, time.Hour)
	d := New(s, &fakeKernel{Frames: 1, Err: errBroken}, a.Allocate, a.Deallocate)

	require.NoError(t, d.LoadFile(ctx, "broken"))
	require.NoError(t, d.Play(ctx))
	require.ErrorIs(t, <-d.ErrorChan(), errBroken)
	waitForState(t, d, StateIdle)
	require.NoError(t, s.Close(ctx))
}

func TestPlaybackThroughSink(t *testing.T) {
	ctx := context.Background()
	a := allocator.NewPooled()
	s := newSink(t, 8, 5*time.Millisecond)
	d := New(s, &fakeKernel{Frames: 10}, a.Allocate, a.Deallocate)

	require.NoError(t, d.LoadFile(ctx, "ten"))
	require.NoError(t, d.Play(ctx))
	require.Eventually(t, func() bool { return s.Len() == 8 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, StatePlaying, d.State())
	require.NotZero(t, d.Stats().EnqueueRetries)

	var (
		locker sync.Mutex
		ids    []byte
	)
	runCtx, cancelFn := context.WithCancel(ctx)
	defer cancelFn()
	runErr := make(chan error, 1)
	go func() {
		runErr <- s.Run(runCtx, sink.PresenterFunc(func(ctx context.Context, f *frame.Frame, repeated bool) error {
			locker.Lock()
			defer locker.Unlock()
			ids = append(ids, f.Bytes()[0])
			return nil
		}))
	}()

	require.NoError(t, d.Wait(ctx))
	waitForState(t, d, StateStopped)
	require.Eventually(t, func() bool {
		locker.Lock()
		defer locker.Unlock()
		return len(ids) == 10
	}, time.Second, time.Millisecond)
	locker.Lock()
	require.Equal(t, []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, ids)
	locker.Unlock()
	require.Zero(t, d.Stats().Dropped.Count)

	cancelFn()
	<-runErr
	require.NoError(t, s.Close(ctx))
	require.Zero(t, a.Outstanding())
}

func TestStateString(t *testing.T) {
	require.Equal(t, "playing", StatePlaying.String())
	require.Equal(t, "<unknown:42>", State(42).String())
}
