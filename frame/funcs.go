package frame

// Buffer is the raw pixel storage of a Frame. It is produced by an
// AllocateFunc and must be given back to the matching DeallocateFunc.
type Buffer []byte

// AllocateFunc returns a buffer of at least `size` bytes. It is called from
// the decode goroutine and must be safe for concurrent use.
type AllocateFunc func(size uint64) (Buffer, error)

// DeallocateFunc releases a buffer previously returned by the paired
// AllocateFunc. It is called from whichever goroutine drops the Frame
// (usually the presentation one), so it must be safe for concurrent use.
type DeallocateFunc func(buf Buffer)

// FillFunc writes exactly the frame size worth of pixel data into buf. It is
// called synchronously, exactly once per StoreData.
type FillFunc func(buf Buffer) error

// NoopDeallocate is the deallocator bound to frames that hold no data.
func NoopDeallocate(Buffer) {}
