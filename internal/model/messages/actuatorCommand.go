package messages

import (
	"time"

	"github.com/LeonardoBeccarini/farmtwin/internal/model/entities"
)

// ActuatorCommand arriva dal control loop sul topic comandi del device.
type ActuatorCommand struct {
	DeviceID     string                  `json:"deviceId"`
	ActuatorType entities.ActuatorType   `json:"actuatorType"`
	Action       entities.ActuatorAction `json:"action"`
	Value        *float64                `json:"value,omitempty"` // 0-100 for gradual controls
	Timestamp    time.Time               `json:"timestamp"`
}

// StartsIrrigation reports whether the command turns on a watering actuator.
func (c ActuatorCommand) StartsIrrigation() bool {
	return c.ActuatorType.Waters() && c.Action == entities.ActionOn
}
