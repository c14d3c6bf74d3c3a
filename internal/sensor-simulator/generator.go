package sensor_simulator

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/LeonardoBeccarini/farmtwin/internal/model"
	"github.com/LeonardoBeccarini/farmtwin/internal/model/entities"
)

// ====== Tunables ======
const (
	baseTemperature    = 22.0
	baseHumidity       = 60.0
	baseSoilMoisture   = 50.0
	baseLightIntensity = 500.0

	// temperatureSwing: ±6.5°C tra notte e giorno.
	temperatureSwing = 6.5
	// humidityPerDegree: -1.5% per ogni grado sopra la base.
	humidityPerDegree = 1.5
	// humidityNightBoost: +15% a mezzanotte, 0 a mezzogiorno.
	humidityNightBoost = 15.0
	lightSwing         = 600.0

	// depletionPerMin: -0.2% per minuto di consumo idrico delle piante.
	depletionPerMin     = 0.2
	irrigationThreshold = 30.0
	irrigationLevel     = 65.0

	cloudProbability = 0.2
	cloudMaxDrop     = 100.0
)

// RandomSource yields uniform draws in [0,1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

// SignalGenerator produces correlated greenhouse readings for one simulated device.
// It owns the simulated clock and the soil-moisture baseline; each device needs its own instance.
type SignalGenerator struct {
	mu          sync.Mutex
	deviceID    string
	clock       Clock
	rnd         RandomSource
	sim         SimulatedClock
	soilLevel   float64 // baseline carried across readings
	irrigations uint64
}

// Option configures a SignalGenerator at construction.
type Option func(*generatorOptions)

type generatorOptions struct {
	clock Clock
	rnd   RandomSource
	cycle time.Duration
}

// WithClock replaces the wall clock, e.g. with a manual clock in tests.
func WithClock(c Clock) Option {
	return func(o *generatorOptions) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithRandom replaces the noise source; a seeded *rand.Rand makes runs reproducible.
func WithRandom(r RandomSource) Option {
	return func(o *generatorOptions) {
		if r != nil {
			o.rnd = r
		}
	}
}

// WithCycleDuration sets the length of one simulated day.
func WithCycleDuration(d time.Duration) Option {
	return func(o *generatorOptions) {
		if d > 0 {
			o.cycle = d
		}
	}
}

// NewSignalGenerator anchors the simulated clock at the current instant of the configured clock.
func NewSignalGenerator(deviceID string, opts ...Option) *SignalGenerator {
	o := generatorOptions{
		clock: RealClock{},
		cycle: DefaultCycleDuration,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rnd == nil {
		o.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &SignalGenerator{
		deviceID:  deviceID,
		clock:     o.clock,
		rnd:       o.rnd,
		sim:       NewSimulatedClock(o.clock.Now(), o.cycle),
		soilLevel: baseSoilMoisture,
	}
}

func (g *SignalGenerator) DeviceID() string { return g.deviceID }

// SimulatedClock returns the generator's time base.
func (g *SignalGenerator) SimulatedClock() SimulatedClock { return g.sim }

// SoilBaseline returns the current soil-moisture baseline.
func (g *SignalGenerator) SoilBaseline() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.soilLevel
}

// Irrigations counts baseline resets, automatic or commanded.
func (g *SignalGenerator) Irrigations() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.irrigations
}

// NextReading samples all four quantities at the clock's current instant.
// The only persistent effect is the soil baseline reset on an irrigation event.
func (g *SignalGenerator) NextReading() model.SensorReading {
	r, _ := g.next()
	return r
}

// next also reports whether this reading triggered an irrigation reset.
func (g *SignalGenerator) next() (model.SensorReading, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	before := g.irrigations
	now := g.clock.Now()
	df := g.sim.DayFactor(now)

	// l'ordine delle estrazioni è fisso: temperatura, umidità, suolo, luce
	temperature := g.temperature(df)
	humidity := g.humidity(df, temperature)
	soil := g.soilMoisture(now)
	light := g.lightIntensity(df)

	return model.SensorReading{
		DeviceID:       g.deviceID,
		Timestamp:      now.UTC(),
		Temperature:    temperature,
		Humidity:       humidity,
		SoilMoisture:   soil,
		LightIntensity: light,
	}, g.irrigations > before
}

// Irrigate applies a manual watering: the baseline jumps to the irrigation level.
func (g *SignalGenerator) Irrigate() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.irrigate()
}

func (g *SignalGenerator) irrigate() {
	g.soilLevel = irrigationLevel
	g.irrigations++
}

// Temperature is deliberately not clamped: noise may leave the nominal 15-28°C band.
func (g *SignalGenerator) temperature(df float64) float64 {
	v := baseTemperature + temperatureSwing*(2*df-1) + g.uniform(-0.5, 0.5)
	return round1(v)
}

func (g *SignalGenerator) humidity(df, temperature float64) float64 {
	v := baseHumidity -
		humidityPerDegree*(temperature-baseTemperature) +
		humidityNightBoost*(1-df) +
		g.uniform(-2, 2)
	return round1(entities.HumidityBounds.Clamp(v))
}

// Elapsed time counts from the generator start, not from the last irrigation:
// only the baseline resets.
func (g *SignalGenerator) soilMoisture(now time.Time) float64 {
	minutes := g.sim.Elapsed(now).Minutes()
	v := g.soilLevel - depletionPerMin*minutes + g.uniform(-1, 1)
	if v < irrigationThreshold {
		g.irrigate()
		return irrigationLevel
	}
	return round1(entities.SoilMoistureBounds.Clamp(v))
}

func (g *SignalGenerator) lightIntensity(df float64) float64 {
	v := baseLightIntensity + lightSwing*df + g.uniform(-20, 20)
	if g.rnd.Float64() >= 1-cloudProbability {
		v += g.uniform(-cloudMaxDrop, 0)
	}
	return math.Round(entities.LightIntensityBounds.Clamp(v))
}

func (g *SignalGenerator) uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*g.rnd.Float64()
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
