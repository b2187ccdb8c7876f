package allocator

import (
	"context"

	"github.com/xaionaro-go/avframebuffer/frame"
	"github.com/xaionaro-go/avframebuffer/logger"
	"github.com/xaionaro-go/xsync"
)

// tracker remembers buffers handed out and not yet returned, keyed by the
// address of the first byte.
type tracker struct {
	locker      xsync.Mutex
	outstanding map[*byte]uint64
}

func bufferKey(buf frame.Buffer) *byte {
	if cap(buf) == 0 {
		return nil
	}
	return &buf[:1][0]
}

func (t *tracker) add(buf frame.Buffer, size uint64) {
	ctx := xsync.WithNoLogging(context.TODO(), true)
	t.locker.Do(ctx, func() {
		if t.outstanding == nil {
			t.outstanding = map[*byte]uint64{}
		}
		t.outstanding[bufferKey(buf)] = size
	})
}

// remove returns the size the buffer was allocated with; false means the
// buffer is not ours or was already returned.
func (t *tracker) remove(buf frame.Buffer) (uint64, bool) {
	ctx := xsync.WithNoLogging(context.TODO(), true)
	size, ok := xsync.DoR2(ctx, &t.locker, func() (uint64, bool) {
		key := bufferKey(buf)
		size, ok := t.outstanding[key]
		if ok {
			delete(t.outstanding, key)
		}
		return size, ok
	})
	if !ok {
		logger.Errorf(context.TODO(), "deallocating a buffer of %d bytes that is not outstanding (double free?)", cap(buf))
	}
	return size, ok
}

func (t *tracker) count() int {
	ctx := xsync.WithNoLogging(context.TODO(), true)
	return xsync.DoR1(ctx, &t.locker, func() int {
		return len(t.outstanding)
	})
}
