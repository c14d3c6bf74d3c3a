package entities

// ActuatorType identifies the greenhouse equipment a command targets.
type ActuatorType string

const (
	ActuatorPump   ActuatorType = "pump"
	ActuatorFan    ActuatorType = "fan"
	ActuatorHeater ActuatorType = "heater"
	ActuatorLight  ActuatorType = "light"
	ActuatorValve  ActuatorType = "valve"
)

// ActuatorAction is the requested transition.
type ActuatorAction string

const (
	ActionOn  ActuatorAction = "on"
	ActionOff ActuatorAction = "off"
	ActionSet ActuatorAction = "set"
)

// Waters reports whether the actuator delivers water to the soil.
func (a ActuatorType) Waters() bool {
	return a == ActuatorPump || a == ActuatorValve
}
