package sensor_simulator

import (
	"context"

	"github.com/LeonardoBeccarini/farmtwin/internal/model"
	"github.com/LeonardoBeccarini/farmtwin/pkg/rabbitmq"
)

// ReadingSink is an optional extra destination for readings (MQTT mirror, Influx history).
type ReadingSink interface {
	Name() string
	Write(ctx context.Context, r model.SensorReading) error
	Close()
}

// MQTTSink mirrors readings on an MQTT topic.
type MQTTSink struct {
	publisher rabbitmq.IPublisher
}

func NewMQTTSink(p rabbitmq.IPublisher) *MQTTSink {
	return &MQTTSink{publisher: p}
}

func (s *MQTTSink) Name() string { return "mqtt" }

func (s *MQTTSink) Write(_ context.Context, r model.SensorReading) error {
	payload, err := r.Encode()
	if err != nil {
		return err
	}
	return s.publisher.PublishMessage(payload)
}

func (s *MQTTSink) Close() { s.publisher.Close() }
