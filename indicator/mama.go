// mama.go smooths values with the MESA Adaptive Moving Average (MAMA).
//
// MAMA follows a real change of the frame rate quickly while filtering
// single late frames out.

// Package indicator provides the moving averages used to smooth playback
// statistics.
package indicator

import (
	"sync"

	indicators "github.com/lmpizarro/go_ehlers_indicators"
	"golang.org/x/exp/constraints"
)

type Number interface {
	constraints.Integer | constraints.Float
}

type MovingAverage[T Number] interface {
	Update(v T) T
	InitPeriod() int64
	Valid() bool
	Reset()
}

// MAMA keeps the last `window` samples in a ring and runs the indicator
// over them in chronological order.
type MAMA[T Number] struct {
	FastLimit float64
	SlowLimit float64

	locker  sync.Mutex
	ring    []float64
	series  []float64
	head    int
	samples int
}

var _ MovingAverage[int64] = (*MAMA[int64])(nil)

func NewMAMADefault[T Number](window int) *MAMA[T] {
	return NewMAMA[T](window, 0.5, 0.05)
}

func NewMAMA[T Number](
	window int,
	fastLimit float64,
	slowLimit float64,
) *MAMA[T] {
	return &MAMA[T]{
		FastLimit: fastLimit,
		SlowLimit: slowLimit,
		ring:      make([]float64, window),
		series:    make([]float64, window),
	}
}

// Update adds a sample and returns the smoothed value. Until the window is
// filled the sample itself is returned.
func (m *MAMA[T]) Update(v T) T {
	m.locker.Lock()
	defer m.locker.Unlock()

	m.ring[m.head] = float64(v)
	m.head = (m.head + 1) % len(m.ring)
	m.samples++
	if m.samples < len(m.ring) {
		return v
	}

	for i := range m.series {
		m.series[i] = m.ring[(m.head+i)%len(m.ring)]
	}
	smoothed := indicators.MAMA(m.series, m.FastLimit, m.SlowLimit)
	return T(smoothed[len(smoothed)-1])
}

func (m *MAMA[T]) Reset() {
	m.locker.Lock()
	defer m.locker.Unlock()
	clear(m.ring)
	m.head = 0
	m.samples = 0
}

func (m *MAMA[T]) InitPeriod() int64 {
	return int64(len(m.ring))
}

func (m *MAMA[T]) Valid() bool {
	m.locker.Lock()
	defer m.locker.Unlock()
	return m.samples >= len(m.ring)
}
