package sensor_simulator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSimulatedClock_DayFactorEndpoints(t *testing.T) {
	c := NewSimulatedClock(t0, DefaultCycleDuration)

	assert.InDelta(t, 0.0, c.DayFactor(t0), 1e-12)
	assert.InDelta(t, 1.0, c.DayFactor(t0.Add(60*time.Second)), 1e-12)
	assert.InDelta(t, 0.5, c.DayFactor(t0.Add(30*time.Second)), 1e-9)
	assert.InDelta(t, 0.5, c.DayFactor(t0.Add(90*time.Second)), 1e-9)
}

func TestSimulatedClock_Periodic(t *testing.T) {
	c := NewSimulatedClock(t0, DefaultCycleDuration)

	for _, off := range []time.Duration{0, 7 * time.Second, 45 * time.Second, 119 * time.Second} {
		at := t0.Add(off)
		assert.InDelta(t, c.DayFactor(at), c.DayFactor(at.Add(DefaultCycleDuration)), 1e-9, "offset %s", off)
		assert.InDelta(t, c.DayFactor(at), c.DayFactor(at.Add(5*DefaultCycleDuration)), 1e-9, "offset %s", off)
	}
}

func TestSimulatedClock_ContinuousAcrossCycleBoundary(t *testing.T) {
	c := NewSimulatedClock(t0, DefaultCycleDuration)

	before := c.DayFactor(t0.Add(DefaultCycleDuration - time.Millisecond))
	after := c.DayFactor(t0.Add(DefaultCycleDuration))
	assert.InDelta(t, before, after, 1e-6)
}

func TestSimulatedClock_PhaseRange(t *testing.T) {
	c := NewSimulatedClock(t0, 10*time.Second)

	for i := 0; i < 200; i++ {
		at := t0.Add(time.Duration(i) * 370 * time.Millisecond)
		p := c.DayPhase(at)
		assert.GreaterOrEqual(t, p, 0.0)
		assert.Less(t, p, 1.0)
		df := c.DayFactor(at)
		assert.GreaterOrEqual(t, df, 0.0)
		assert.LessOrEqual(t, df, 1.0)
	}
}

func TestSimulatedClock_Defaults(t *testing.T) {
	c := NewSimulatedClock(t0, 0)
	assert.Equal(t, DefaultCycleDuration, c.CycleDuration())
	assert.Equal(t, t0, c.Start())

	// prima dell'ancora il tempo trascorso è zero
	assert.Equal(t, time.Duration(0), c.Elapsed(t0.Add(-time.Minute)))
	assert.Equal(t, 90*time.Second, c.Elapsed(t0.Add(90*time.Second)))
}
