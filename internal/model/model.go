package model

import (
	"github.com/LeonardoBeccarini/farmtwin/internal/model/entities"
	"github.com/LeonardoBeccarini/farmtwin/internal/model/messages"
)

// Alias per esporre tipi comuni ai servizi

type (
	SensorReading   = messages.SensorReading
	ActuatorCommand = messages.ActuatorCommand
	ActuatorType    = entities.ActuatorType
	Quantity        = entities.Quantity
	Range           = entities.Range
)

const (
	ActionOn  = entities.ActionOn
	ActionOff = entities.ActionOff
	ActionSet = entities.ActionSet
)
