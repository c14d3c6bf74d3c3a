package rabbitmq

import (
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// IPublisher interface defines the method to publish a message
type IPublisher interface {
	PublishMessage(message interface{}) error
	Close()
}

// Publisher sends messages on a single MQTT topic.
type Publisher struct {
	client   mqtt.Client
	topic    string
	retained bool
}

func NewPublisher(client mqtt.Client, topic string) *Publisher {
	return &Publisher{client: client, topic: topic}
}

// SetRetained makes the broker keep the last message for new subscribers.
func (p *Publisher) SetRetained(retained bool) { p.retained = retained }

func (p *Publisher) Topic() string { return p.topic }

// PublishMessage accepts string or []byte payloads.
func (p *Publisher) PublishMessage(message interface{}) error {
	var payload []byte
	switch m := message.(type) {
	case string:
		payload = []byte(m)
	case []byte:
		payload = m
	default:
		return fmt.Errorf("invalid message format %T, expected string or []byte", message)
	}

	token := p.client.Publish(p.topic, qosFor(p.topic), p.retained, payload)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish message on %s: %w", p.topic, err)
	}
	return nil
}

// Close disconnects the shared client; call it from the owner of the connection only.
func (p *Publisher) Close() {
	if p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}
