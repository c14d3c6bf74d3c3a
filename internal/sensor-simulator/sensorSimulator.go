package sensor_simulator

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/LeonardoBeccarini/farmtwin/internal/analysis"
	"github.com/LeonardoBeccarini/farmtwin/internal/model"
	"github.com/LeonardoBeccarini/farmtwin/pkg/dedup"
	"github.com/LeonardoBeccarini/farmtwin/pkg/rabbitmq"
)

// CacheTransport is the publish/cache collaborator (Redis in production).
type CacheTransport interface {
	Publish(ctx context.Context, channel, payload string) error
	SetWithExpiry(ctx context.Context, key, payload string, ttl time.Duration) error
	Close() error
}

// DefaultInterval is the pause between two readings.
const DefaultInterval = 2 * time.Second

// Settings names where readings go and how long the cached copy lives.
type Settings struct {
	Channel        string
	CacheKey       string
	CacheTTL       time.Duration
	PublishTimeout time.Duration
}

func (s Settings) withDefaults() Settings {
	if s.Channel == "" {
		s.Channel = "sensor:updates"
	}
	if s.CacheKey == "" {
		s.CacheKey = "sensor:current"
	}
	if s.CacheTTL <= 0 {
		s.CacheTTL = 300 * time.Second
	}
	if s.PublishTimeout <= 0 {
		s.PublishTimeout = time.Second
	}
	return s
}

// SensorSimulator drives one SignalGenerator: every tick it generates a reading,
// caches and publishes it, then fans it out to the optional sinks.
type SensorSimulator struct {
	mu        sync.RWMutex
	generator *SignalGenerator
	transport CacheTransport
	sinks     []ReadingSink
	consumer  rabbitmq.IConsumer
	deduper   *dedup.Deduper
	settings  Settings
	metrics   *Metrics
	logger    *zap.Logger
	last      *model.SensorReading
}

func NewSensorSimulator(gen *SignalGenerator, transport CacheTransport, settings Settings,
	metrics *Metrics, logger *zap.Logger) *SensorSimulator {
	return &SensorSimulator{
		generator: gen,
		transport: transport,
		settings:  settings.withDefaults(),
		metrics:   metrics,
		logger:    logger.With(zap.String("device_id", gen.DeviceID())),
		deduper:   dedup.New(2*time.Minute, 10000), // TTL e cap
	}
}

// AddSink registers an extra destination; call before Start.
func (s *SensorSimulator) AddSink(sink ReadingSink) {
	s.sinks = append(s.sinks, sink)
}

// SetCommandConsumer enables actuator commands; call before Start.
func (s *SensorSimulator) SetCommandConsumer(c rabbitmq.IConsumer) {
	s.consumer = c
}

func (s *SensorSimulator) Settings() Settings { return s.settings }

// Latest returns the last reading produced in this process.
func (s *SensorSimulator) Latest() (model.SensorReading, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return model.SensorReading{}, false
	}
	return *s.last, true
}

// Start runs one generate+publish cycle immediately and then every interval
// until ctx is done, after which it releases the transport and the sinks.
// A non-positive interval falls back to DefaultInterval.
func (s *SensorSimulator) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultInterval
	}

	var wg sync.WaitGroup
	if s.consumer != nil {
		s.consumer.SetHandler(s.handleCommand)
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.consumer.ConsumeMessage(ctx)
		}()
	}

	s.logger.Info("starting sensor simulation",
		zap.Duration("interval", interval),
		zap.Duration("cycle", s.generator.SimulatedClock().CycleDuration()),
		zap.String("channel", s.settings.Channel),
		zap.String("cache_key", s.settings.CacheKey))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.Step(ctx)
	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			s.shutdown()
			return
		case <-ticker.C:
			s.Step(ctx)
		}
	}
}

// Step performs a single cycle. Delivery failures are logged and counted, never returned:
// the next tick is a fresh attempt.
func (s *SensorSimulator) Step(ctx context.Context) model.SensorReading {
	r, irrigated := s.generator.next()
	if irrigated {
		s.logger.Info("irrigation event: soil moisture reset", zap.Float64("soil_moisture", r.SoilMoisture))
		s.metrics.irrigation("threshold")
	}

	s.mu.Lock()
	s.last = &r
	s.mu.Unlock()
	s.metrics.observe(r)

	if err := s.deliver(ctx, r); err != nil {
		s.logger.Error("error publishing data", zap.Error(err))
	} else {
		s.logger.Info("reading published",
			zap.Time("timestamp", r.Timestamp),
			zap.Float64("temperature", r.Temperature),
			zap.Float64("humidity", r.Humidity),
			zap.Float64("soil_moisture", r.SoilMoisture),
			zap.Float64("light_intensity", r.LightIntensity))
	}

	for _, sink := range s.sinks {
		sctx, cancel := context.WithTimeout(ctx, s.settings.PublishTimeout)
		if err := sink.Write(sctx, r); err != nil {
			s.metrics.failure(sink.Name())
			s.logger.Warn("sink write failed", zap.String("sink", sink.Name()), zap.Error(err))
		}
		cancel()
	}

	if a := analysis.Assess(r); !a.Empty() {
		s.metrics.alert(len(a.Alerts))
		s.logger.Warn("reading outside thresholds",
			zap.Strings("alerts", a.Alerts), zap.Strings("warnings", a.Warnings))
	}
	return r
}

// deliver caches then publishes; a cache failure skips the publish for this tick.
func (s *SensorSimulator) deliver(ctx context.Context, r model.SensorReading) error {
	payload, err := r.Encode()
	if err != nil {
		return err
	}

	cctx, cancel := context.WithTimeout(ctx, s.settings.PublishTimeout)
	defer cancel()

	if err := s.transport.SetWithExpiry(cctx, s.settings.CacheKey, payload, s.settings.CacheTTL); err != nil {
		s.metrics.failure("cache")
		return err
	}
	if err := s.transport.Publish(cctx, s.settings.Channel, payload); err != nil {
		s.metrics.failure("publish")
		return err
	}
	return nil
}

func (s *SensorSimulator) handleCommand(topic string, payload []byte) error {
	if s.deduper != nil && !s.deduper.ShouldProcessPayload(payload) {
		return nil // duplicato → ignora
	}

	var cmd model.ActuatorCommand
	if err := json.Unmarshal(payload, &cmd); err != nil {
		return fmt.Errorf("invalid ActuatorCommand on %s: %w", topic, err)
	}
	if cmd.DeviceID != "" && cmd.DeviceID != s.generator.DeviceID() {
		return nil
	}

	if cmd.StartsIrrigation() {
		s.generator.Irrigate()
		s.metrics.irrigation("command")
		s.logger.Info("irrigation command applied",
			zap.String("actuator", string(cmd.ActuatorType)),
			zap.Float64("soil_baseline", s.generator.SoilBaseline()))
		return nil
	}

	s.logger.Info("actuator command acknowledged",
		zap.String("actuator", string(cmd.ActuatorType)), zap.String("action", string(cmd.Action)))
	return nil
}

func (s *SensorSimulator) shutdown() {
	s.logger.Info("simulator stopping")
	for _, sink := range s.sinks {
		sink.Close()
	}
	if err := s.transport.Close(); err != nil {
		s.logger.Warn("error closing transport", zap.Error(err))
		return
	}
	s.logger.Info("transport connection closed")
}
