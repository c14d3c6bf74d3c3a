package sensor_simulator

import (
	"math"
	"time"
)

// DefaultCycleDuration compresses a full day into two minutes so the
// day/night shape is visible on a dashboard within a short session.
const DefaultCycleDuration = 120 * time.Second

// Clock provides the current instant. Tests inject a manual clock.
type Clock interface {
	Now() time.Time
}

// RealClock reads the wall clock in UTC.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now().UTC() }

// SimulatedClock is the virtual time base of one generator, anchored at its creation.
type SimulatedClock struct {
	start time.Time
	cycle time.Duration
}

// NewSimulatedClock anchors a clock at start. A non-positive cycle falls back to DefaultCycleDuration.
func NewSimulatedClock(start time.Time, cycle time.Duration) SimulatedClock {
	if cycle <= 0 {
		cycle = DefaultCycleDuration
	}
	return SimulatedClock{start: start, cycle: cycle}
}

func (c SimulatedClock) Start() time.Time { return c.start }

func (c SimulatedClock) CycleDuration() time.Duration { return c.cycle }

// Elapsed is the time since the anchor; instants before the anchor count as zero.
func (c SimulatedClock) Elapsed(now time.Time) time.Duration {
	d := now.Sub(c.start)
	if d < 0 {
		return 0
	}
	return d
}

// DayPhase is the position within the current cycle, in [0,1).
func (c SimulatedClock) DayPhase(now time.Time) float64 {
	return float64(c.Elapsed(now)%c.cycle) / float64(c.cycle)
}

// DayFactor is the diurnal intensity: 0 at cycle start (midnight), 1 at mid-cycle (noon).
func (c SimulatedClock) DayFactor(now time.Time) float64 {
	return (math.Sin(2*math.Pi*c.DayPhase(now)-math.Pi/2) + 1) / 2
}
