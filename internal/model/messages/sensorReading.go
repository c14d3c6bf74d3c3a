package messages

import (
	"encoding/json"
	"fmt"
	"time"
)

// SensorReading is one consistent sample of the four greenhouse quantities.
// Field names are the wire contract shared with dashboards and the ESP32 firmware.
type SensorReading struct {
	DeviceID       string    `json:"deviceId"`
	Timestamp      time.Time `json:"timestamp"`
	Temperature    float64   `json:"temperature"`    // °C
	Humidity       float64   `json:"humidity"`       // %
	SoilMoisture   float64   `json:"soilMoisture"`   // %
	LightIntensity float64   `json:"lightIntensity"` // lux
}

// Encode returns the JSON text published on the channel and stored in the cache.
func (r SensorReading) Encode() (string, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("encode reading: %w", err)
	}
	return string(b), nil
}

// DecodeSensorReading parses a payload produced by Encode.
func DecodeSensorReading(payload string) (SensorReading, error) {
	var r SensorReading
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		return SensorReading{}, fmt.Errorf("invalid SensorReading: %w", err)
	}
	return r, nil
}
