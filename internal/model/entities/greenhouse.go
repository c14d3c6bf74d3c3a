package entities

// Quantity names a simulated physical quantity, used as a label in metrics and logs.
type Quantity string

const (
	QuantityTemperature    Quantity = "temperature"
	QuantityHumidity       Quantity = "humidity"
	QuantitySoilMoisture   Quantity = "soil_moisture"
	QuantityLightIntensity Quantity = "light_intensity"
)

// Range is a closed interval [Min, Max].
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies inside the range, bounds included.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Clamp restricts v to the range.
func (r Range) Clamp(v float64) float64 {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// Physical bounds of the simulated greenhouse sensors.
var (
	HumidityBounds       = Range{Min: 30, Max: 90}
	SoilMoistureBounds   = Range{Min: 20, Max: 80}
	LightIntensityBounds = Range{Min: 0, Max: 1000}
)
