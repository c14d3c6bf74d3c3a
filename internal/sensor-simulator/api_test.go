package sensor_simulator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/LeonardoBeccarini/farmtwin/internal/model"
	"github.com/LeonardoBeccarini/farmtwin/pkg/rediscache"
)

func setupAPI(t *testing.T) (*miniredis.Miniredis, *rediscache.Transport, *SensorSimulator, http.Handler) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	tr := rediscache.New(client)

	gen := newTestGenerator(newManualClock(t0), constRandom(0.5))
	m := NewMetrics(gen.DeviceID())
	sim := NewSensorSimulator(gen, tr, Settings{}, m, zap.NewNop())
	return mr, tr, sim, NewHTTPMux(sim, tr, m, zap.NewNop())
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestLatest_NotFoundBeforeFirstReading(t *testing.T) {
	_, _, _, h := setupAPI(t)

	rec := get(t, h, "/readings/latest")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLatest_ServedFromCache(t *testing.T) {
	mr, _, sim, h := setupAPI(t)
	r := sim.Step(context.Background())
	require.True(t, mr.Exists("sensor:current"))

	rec := get(t, h, "/readings/latest")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cache", rec.Header().Get("X-Data-Source"))

	var got model.SensorReading
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, r.DeviceID, got.DeviceID)
	assert.Equal(t, r.SoilMoisture, got.SoilMoisture)
}

func TestLatest_FallsBackToMemoryWhenExpired(t *testing.T) {
	mr, _, sim, h := setupAPI(t)
	sim.Step(context.Background())
	mr.FastForward(301 * time.Second)

	rec := get(t, h, "/readings/latest")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "memory", rec.Header().Get("X-Data-Source"))
}

func TestLatest_FallsBackToMemoryOnGarbage(t *testing.T) {
	mr, _, sim, h := setupAPI(t)
	sim.Step(context.Background())
	require.NoError(t, mr.Set("sensor:current", "{garbage"))

	rec := get(t, h, "/readings/latest")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "memory", rec.Header().Get("X-Data-Source"))
}

func TestLatest_MethodNotAllowed(t *testing.T) {
	_, _, _, h := setupAPI(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/readings/latest", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealthAndReadiness(t *testing.T) {
	mr, _, _, h := setupAPI(t)

	assert.Equal(t, http.StatusOK, get(t, h, "/healthz").Code)

	rec := get(t, h, "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ready":true}`, rec.Body.String())

	mr.Close()
	rec = get(t, h, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"ready":false}`, rec.Body.String())
	// liveness non dipende da redis
	assert.Equal(t, http.StatusOK, get(t, h, "/healthz").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	_, _, sim, h := setupAPI(t)
	sim.Step(context.Background())

	rec := get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `farmtwin_simulator_readings_total{device_id="SIM_TEST"} 1`), body)
	assert.Contains(t, body, `farmtwin_simulator_last_value{device_id="SIM_TEST",quantity="temperature"} 15.5`)
}
