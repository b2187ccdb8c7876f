// frame.go defines the move-only Frame type.

// Package frame provides the decoded picture value passed from a decoder to a sink.
//
// A Frame owns at most one pixel buffer obtained from an externally supplied
// allocator and gives it back to the paired deallocator exactly once. Frames
// are never copied: ownership is transferred with Move/MoveFrom, which leaves
// the source empty.
package frame

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/xaionaro-go/avframebuffer/internal"
	"github.com/xaionaro-go/avframebuffer/logger"
)

// Frame is a single decoded picture. A Frame is owned by exactly one
// goroutine at a time and is not safe for concurrent use.
type Frame struct {
	noCopy noCopy

	pixelFormat PixelFormat
	width       uint32
	height      uint32

	buffer     Buffer
	deallocate DeallocateFunc
}

// New returns an empty frame; no memory is allocated until StoreData.
func New(
	pixelFormat PixelFormat,
	width uint32,
	height uint32,
) *Frame {
	return &Frame{
		pixelFormat: pixelFormat,
		width:       width,
		height:      height,
		deallocate:  NoopDeallocate,
	}
}

func (f *Frame) PixelFormat() PixelFormat {
	return f.pixelFormat
}

func (f *Frame) Width() uint32 {
	return f.width
}

func (f *Frame) Height() uint32 {
	return f.height
}

// Size is the amount of bytes the picture occupies (whether or not the data
// is stored yet).
func (f *Frame) Size() uint64 {
	return f.pixelFormat.BufferSize(f.width, f.height)
}

// IsHoldingData returns true iff the frame currently owns a buffer.
func (f *Frame) IsHoldingData() bool {
	return f != nil && f.buffer != nil
}

// Bytes gives read access to the stored pixels. The slice must not be
// retained after the frame is released or moved.
func (f *Frame) Bytes() []byte {
	if !f.IsHoldingData() {
		return nil
	}
	size := f.Size()
	return f.buffer[:size:size]
}

// StoreData allocates the buffer, fills it synchronously and binds the
// deallocator that will release it.
//
// Filling an already filled frame is a precondition violation: it is
// reported as ErrAlreadyHoldingData and the held buffer is kept intact.
func (f *Frame) StoreData(
	ctx context.Context,
	allocate AllocateFunc,
	deallocate DeallocateFunc,
	fill FillFunc,
) (_err error) {
	logger.Tracef(ctx, "StoreData[%s]", f)
	defer func() { logger.Tracef(ctx, "/StoreData[%s]: %v", f, _err) }()

	internal.Assert(ctx, !f.IsHoldingData(), "StoreData on a frame that already holds data", f.String())
	if f.IsHoldingData() {
		return ErrAlreadyHoldingData
	}
	if allocate == nil || deallocate == nil || fill == nil {
		return ErrNilCallback
	}
	if f.pixelFormat.PixelSize() == 0 {
		return fmt.Errorf("%w: %s", ErrUnknownPixelFormat, f.pixelFormat)
	}
	size := f.Size()
	if size == 0 {
		return fmt.Errorf("%w: %dx%d", ErrZeroSize, f.width, f.height)
	}

	buf, err := allocate(size)
	if err != nil {
		return fmt.Errorf("unable to allocate %s for a %s frame: %w", humanize.IBytes(size), f, err)
	}
	if buf == nil || uint64(len(buf)) < size {
		if buf != nil {
			deallocate(buf)
		}
		return fmt.Errorf("%w: %d < %d", ErrShortBuffer, len(buf), size)
	}

	if err := fill(buf); err != nil {
		deallocate(buf)
		return fmt.Errorf("unable to fill the frame %s: %w", f, err)
	}

	f.buffer = buf
	f.deallocate = deallocate
	internal.SetFinalizer(f, (*Frame).releaseLeaked)
	return nil
}

// Move transfers the buffer and the deallocator into a new Frame; the
// receiver is left empty with the no-op deallocator.
func (f *Frame) Move() *Frame {
	if f == nil {
		return nil
	}
	dst := New(f.pixelFormat, f.width, f.height)
	dst.takeFrom(f)
	return dst
}

// MoveFrom is the move-assignment: whatever the receiver holds is released
// first, then the buffer of src is taken over and src is left empty.
func (f *Frame) MoveFrom(src *Frame) {
	if src == f || src == nil {
		return
	}
	f.Release()
	f.pixelFormat = src.pixelFormat
	f.width = src.width
	f.height = src.height
	f.takeFrom(src)
}

func (f *Frame) takeFrom(src *Frame) {
	if !src.IsHoldingData() {
		return
	}
	f.buffer, src.buffer = src.buffer, nil
	f.deallocate, src.deallocate = src.deallocate, NoopDeallocate
	internal.ClearFinalizer(src)
	internal.SetFinalizer(f, (*Frame).releaseLeaked)
}

// Release gives the buffer back to its deallocator. Calling it on an empty
// (or moved-from) frame is a no-op.
func (f *Frame) Release() {
	if !f.IsHoldingData() {
		return
	}
	buf, deallocate := f.buffer, f.deallocate
	f.buffer = nil
	f.deallocate = NoopDeallocate
	internal.ClearFinalizer(f)
	deallocate(buf)
}

func (f *Frame) releaseLeaked() {
	logger.Debugf(context.Background(), "a frame %s was garbage collected without being released", f)
	f.Release()
}

func (f *Frame) String() string {
	if f == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s:%dx%d(holding:%t)", f.pixelFormat, f.width, f.height, f.buffer != nil)
}
