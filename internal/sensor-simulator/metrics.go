package sensor_simulator

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/LeonardoBeccarini/farmtwin/internal/model"
	"github.com/LeonardoBeccarini/farmtwin/internal/model/entities"
)

// Metrics are registered on a private registry so several simulators (and tests) can coexist.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry    *prometheus.Registry
	readings    prometheus.Counter
	failures    *prometheus.CounterVec
	irrigations *prometheus.CounterVec
	alerts      prometheus.Counter
	last        *prometheus.GaugeVec
}

func NewMetrics(deviceID string) *Metrics {
	labels := prometheus.Labels{"device_id": deviceID}
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		readings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "farmtwin", Subsystem: "simulator", Name: "readings_total",
			Help: "Readings generated.", ConstLabels: labels,
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "farmtwin", Subsystem: "simulator", Name: "publish_failures_total",
			Help: "Failed deliveries by stage (cache, publish, or sink name).", ConstLabels: labels,
		}, []string{"stage"}),
		irrigations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "farmtwin", Subsystem: "simulator", Name: "irrigations_total",
			Help: "Soil baseline resets by trigger.", ConstLabels: labels,
		}, []string{"trigger"}),
		alerts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "farmtwin", Subsystem: "simulator", Name: "threshold_alerts_total",
			Help: "Threshold alerts raised on generated readings.", ConstLabels: labels,
		}),
		last: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "farmtwin", Subsystem: "simulator", Name: "last_value",
			Help: "Last generated value per quantity.", ConstLabels: labels,
		}, []string{"quantity"}),
	}
	m.registry.MustRegister(
		m.readings, m.failures, m.irrigations, m.alerts, m.last,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) observe(r model.SensorReading) {
	if m == nil {
		return
	}
	m.readings.Inc()
	m.last.WithLabelValues(string(entities.QuantityTemperature)).Set(r.Temperature)
	m.last.WithLabelValues(string(entities.QuantityHumidity)).Set(r.Humidity)
	m.last.WithLabelValues(string(entities.QuantitySoilMoisture)).Set(r.SoilMoisture)
	m.last.WithLabelValues(string(entities.QuantityLightIntensity)).Set(r.LightIntensity)
}

func (m *Metrics) failure(stage string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(stage).Inc()
}

func (m *Metrics) irrigation(trigger string) {
	if m == nil {
		return
	}
	m.irrigations.WithLabelValues(trigger).Inc()
}

func (m *Metrics) alert(n int) {
	if m == nil || n == 0 {
		return
	}
	m.alerts.Add(float64(n))
}
