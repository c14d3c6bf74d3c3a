package rabbitmq

import (
	"context"
	"strings"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

// Handler processes one message payload; errors are logged, never fatal.
type Handler func(topic string, payload []byte) error

// IConsumer subscribes and dispatches to a handler until the context ends.
type IConsumer interface {
	ConsumeMessage(ctx context.Context)
	SetHandler(handler Handler)
}

type Consumer struct {
	client  mqtt.Client
	topic   string
	handler Handler
	logger  *zap.Logger
}

func NewConsumer(client mqtt.Client, topic string, handler Handler, logger *zap.Logger) *Consumer {
	return &Consumer{client: client, topic: topic, handler: handler, logger: logger}
}

func (c *Consumer) SetHandler(handler Handler) {
	c.handler = handler
}

// comandi in QoS1, letture in QoS0
func qosFor(topic string) byte {
	t := strings.TrimSpace(topic)
	if strings.HasSuffix(t, "/commands") || strings.HasPrefix(t, "greenhouse/commands") {
		return 1
	}
	return 0
}

// ConsumeMessage subscribes to the topic and blocks until ctx is cancelled.
func (c *Consumer) ConsumeMessage(ctx context.Context) {
	token := c.client.Subscribe(c.topic, qosFor(c.topic), func(_ mqtt.Client, msg mqtt.Message) {
		c.dispatch(msg)
	})
	if token.Wait() && token.Error() != nil {
		c.logger.Error("error subscribing", zap.String("topic", c.topic), zap.Error(token.Error()))
		return
	}
	c.logger.Info("subscribed", zap.String("topic", c.topic))

	<-ctx.Done()

	unsub := c.client.Unsubscribe(c.topic)
	unsub.Wait()
}

func (c *Consumer) dispatch(msg mqtt.Message) {
	if c.handler == nil {
		c.logger.Warn("no handler set", zap.String("topic", c.topic))
		return
	}
	if err := c.handler(msg.Topic(), msg.Payload()); err != nil {
		c.logger.Warn("error handling message", zap.String("topic", msg.Topic()), zap.Error(err))
	}
}
