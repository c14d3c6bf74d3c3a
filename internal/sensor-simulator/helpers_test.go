package sensor_simulator

import (
	"sync"
	"time"
)

var t0 = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newManualClock(at time.Time) *manualClock { return &manualClock{now: at} }

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// constRandom always returns the same draw; 0.5 makes every uniform noise term zero
// and never triggers a cloud.
type constRandom float64

func (r constRandom) Float64() float64 { return float64(r) }

// scriptedRandom replays draws in order, then repeats the last one.
type scriptedRandom struct {
	draws []float64
	i     int
}

func (r *scriptedRandom) Float64() float64 {
	if r.i >= len(r.draws) {
		return r.draws[len(r.draws)-1]
	}
	v := r.draws[r.i]
	r.i++
	return v
}

func newTestGenerator(clock Clock, rnd RandomSource) *SignalGenerator {
	return NewSignalGenerator("SIM_TEST", WithClock(clock), WithRandom(rnd))
}
