package analysis

import (
	"github.com/LeonardoBeccarini/farmtwin/internal/model"
	"github.com/LeonardoBeccarini/farmtwin/internal/model/entities"
)

// Threshold holds the hard limits of a quantity and, optionally, its optimal band.
type Threshold struct {
	Limits  model.Range
	Optimal *model.Range
}

// Thresholds for a tomato greenhouse.
var Thresholds = map[model.Quantity]Threshold{
	entities.QuantityTemperature:    {Limits: model.Range{Min: 15, Max: 30}, Optimal: &model.Range{Min: 20, Max: 25}},
	entities.QuantityHumidity:       {Limits: model.Range{Min: 40, Max: 80}, Optimal: &model.Range{Min: 50, Max: 70}},
	entities.QuantitySoilMoisture:   {Limits: model.Range{Min: 30, Max: 70}, Optimal: &model.Range{Min: 40, Max: 60}},
	entities.QuantityLightIntensity: {Limits: model.Range{Min: 200, Max: 800}, Optimal: &model.Range{Min: 400, Max: 600}},
}

// Assessment is the outcome of checking one reading.
// Alerts need action; warnings only flag a drift from the optimal band.
type Assessment struct {
	Alerts   []string
	Warnings []string
}

func (a Assessment) Valid() bool { return len(a.Alerts) == 0 }

func (a Assessment) Empty() bool { return len(a.Alerts) == 0 && len(a.Warnings) == 0 }

// Assess checks a reading against Thresholds.
func Assess(r model.SensorReading) Assessment {
	var a Assessment

	t := Thresholds[entities.QuantityTemperature]
	switch {
	case r.Temperature < t.Limits.Min:
		a.Alerts = append(a.Alerts, "Temperature below minimum threshold")
	case r.Temperature > t.Limits.Max:
		a.Alerts = append(a.Alerts, "Temperature above maximum threshold")
	case !t.Optimal.Contains(r.Temperature):
		a.Warnings = append(a.Warnings, "Temperature outside optimal range")
	}

	h := Thresholds[entities.QuantityHumidity]
	switch {
	case r.Humidity < h.Limits.Min:
		a.Alerts = append(a.Alerts, "Humidity below minimum threshold")
	case r.Humidity > h.Limits.Max:
		a.Alerts = append(a.Alerts, "Humidity above maximum threshold")
	}

	s := Thresholds[entities.QuantitySoilMoisture]
	switch {
	case r.SoilMoisture < s.Limits.Min:
		a.Alerts = append(a.Alerts, "Soil moisture critically low - irrigation recommended")
	case r.SoilMoisture > s.Limits.Max:
		a.Alerts = append(a.Alerts, "Soil moisture too high - check drainage")
	}

	// la luce non genera mai alert, solo warning
	l := Thresholds[entities.QuantityLightIntensity]
	if !l.Limits.Contains(r.LightIntensity) {
		a.Warnings = append(a.Warnings, "Light intensity outside expected range")
	}

	return a
}
