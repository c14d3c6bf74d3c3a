package persistence

import (
	"context"
	"fmt"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/LeonardoBeccarini/farmtwin/internal/model"
)

// Configurazione Influx
type InfluxConfig struct {
	InfluxURL       string
	InfluxToken     string
	InfluxOrg       string
	InfluxBucket    string
	MeasurementName string // es. "greenhouse_reading"
}

// BreakerConfig: dopo Failures errori consecutivi il writer resta aperto per OpenFor.
type BreakerConfig struct {
	Failures uint32
	OpenFor  time.Duration
}

// pointWriter is the part of api.WriteAPIBlocking the writer uses.
type pointWriter interface {
	WritePoint(ctx context.Context, point ...*write.Point) error
}

// ReadingWriter stores every reading as an Influx point. Writes go through a
// circuit breaker so a down Influx fails fast instead of stalling each tick.
type ReadingWriter struct {
	client      influxdb2.Client
	writeAPI    pointWriter
	measurement string
	breaker     *gobreaker.CircuitBreaker
	logger      *zap.Logger
}

func NewReadingWriter(cfg InfluxConfig, bc BreakerConfig, logger *zap.Logger) (*ReadingWriter, error) {
	if cfg.InfluxURL == "" || cfg.InfluxToken == "" || cfg.InfluxOrg == "" || cfg.InfluxBucket == "" {
		return nil, fmt.Errorf("influx config incomplete")
	}

	client := influxdb2.NewClient(cfg.InfluxURL, cfg.InfluxToken)
	w := newReadingWriter(client.WriteAPIBlocking(cfg.InfluxOrg, cfg.InfluxBucket), cfg.MeasurementName, bc, logger)
	w.client = client
	return w, nil
}

func newReadingWriter(wa pointWriter, measurement string, bc BreakerConfig, logger *zap.Logger) *ReadingWriter {
	if measurement == "" {
		measurement = "greenhouse_reading"
	}
	if bc.Failures == 0 {
		bc.Failures = 3
	}
	if bc.OpenFor <= 0 {
		bc.OpenFor = 30 * time.Second
	}

	w := &ReadingWriter{
		writeAPI:    wa,
		measurement: sanitizeMeasurement(measurement),
		logger:      logger,
	}
	w.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "influx",
		Timeout: bc.OpenFor,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= bc.Failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("breaker", name), zap.String("from", from.String()), zap.String("to", to.String()))
		},
	})
	return w
}

func (w *ReadingWriter) Name() string { return "influx" }

// State exposes the breaker state for health reporting.
func (w *ReadingWriter) State() gobreaker.State { return w.breaker.State() }

// Write stores r; while the breaker is open it returns gobreaker.ErrOpenState without contacting Influx.
func (w *ReadingWriter) Write(ctx context.Context, r model.SensorReading) error {
	point := w.point(r)
	_, err := w.breaker.Execute(func() (interface{}, error) {
		return nil, w.writeAPI.WritePoint(ctx, point)
	})
	if err != nil {
		return fmt.Errorf("influx write: %w", err)
	}
	w.logger.Debug("persistence: wrote point",
		zap.String("measurement", w.measurement), zap.String("device_id", r.DeviceID))
	return nil
}

func (w *ReadingWriter) Close() {
	if w.client != nil {
		w.client.Close()
	}
}

func (w *ReadingWriter) point(r model.SensorReading) *write.Point {
	t := r.Timestamp
	if t.IsZero() {
		t = time.Now()
	}
	tags := map[string]string{
		"device_id": r.DeviceID,
	}
	fields := map[string]interface{}{
		"temperature":     r.Temperature,
		"humidity":        r.Humidity,
		"soil_moisture":   r.SoilMoisture,
		"light_intensity": r.LightIntensity,
	}
	return influxdb2.NewPoint(w.measurement, tags, fields, t)
}

func sanitizeMeasurement(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9',
			r == '_', r == ':', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
