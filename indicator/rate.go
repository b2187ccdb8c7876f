package indicator

import (
	"sync"
	"time"
)

// Rate estimates how often an event happens (e.g. frames presented per
// second) by smoothing the intervals between the events.
type Rate struct {
	locker   sync.Mutex
	average  MovingAverage[int64]
	last     time.Time
	interval time.Duration
}

func NewRate(average MovingAverage[int64]) *Rate {
	return &Rate{
		average: average,
	}
}

func NewRateDefault() *Rate {
	return NewRate(NewMAMADefault[int64](30))
}

func (r *Rate) Observe(ts time.Time) {
	r.locker.Lock()
	defer r.locker.Unlock()
	if !r.last.IsZero() && ts.After(r.last) {
		r.interval = time.Duration(r.average.Update(int64(ts.Sub(r.last))))
	}
	r.last = ts
}

// Interval is the smoothed interval between two events.
func (r *Rate) Interval() time.Duration {
	r.locker.Lock()
	defer r.locker.Unlock()
	return r.interval
}

func (r *Rate) PerSecond() float64 {
	interval := r.Interval()
	if interval <= 0 {
		return 0
	}
	return float64(time.Second) / float64(interval)
}

func (r *Rate) Reset() {
	r.locker.Lock()
	defer r.locker.Unlock()
	r.average.Reset()
	r.last = time.Time{}
	r.interval = 0
}
