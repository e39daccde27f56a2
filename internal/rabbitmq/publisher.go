package rabbitmq

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
)

// Publisher publishes JSON messages to the alerts exchange.
type Publisher struct {
	ch *amqp.Channel
}

// NewPublisher wraps an already set up channel.
func NewPublisher(ch *amqp.Channel) *Publisher {
	return &Publisher{ch: ch}
}

// PublishEmail publishes a rendered email event as a persistent message.
func (p *Publisher) PublishEmail(message any) error {
	const op = "rabbitmq.PublishEmail"
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = p.ch.Publish(
		Exchange,
		RoutingKeyEmail,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
