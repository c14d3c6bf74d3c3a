package sensor_simulator

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.observe(newTestGenerator(newManualClock(t0), constRandom(0.5)).NextReading())
		m.failure("cache")
		m.irrigation("threshold")
		m.alert(2)
	})
}

func TestMetrics_Observe(t *testing.T) {
	m := NewMetrics("SIM_TEST")
	r := newTestGenerator(newManualClock(t0), constRandom(0.5)).NextReading()

	m.observe(r)
	m.observe(r)
	m.alert(0)
	m.alert(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.readings))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.alerts))
	assert.Equal(t, 84.8, testutil.ToFloat64(m.last.WithLabelValues("humidity")))
	assert.Equal(t, 500.0, testutil.ToFloat64(m.last.WithLabelValues("light_intensity")))

	// registri separati: due simulatori non collidono
	other := NewMetrics("SIM_OTHER")
	assert.NotSame(t, m.Registry(), other.Registry())
}
