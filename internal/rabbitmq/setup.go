package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"
)

// Exchange is the direct exchange all alert emails flow through.
const Exchange = "alerts"

// RoutingKeyEmail routes rendered email events to the email queue.
const RoutingKeyEmail = "email"

// SetupChannel opens a channel and declares the exchange, the email queue
// and its binding. Safe to call from both publisher and consumer sides.
func SetupChannel(conn *amqp.Connection, emailQueue string) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := ch.Qos(10, 0, false); err != nil {
		return nil, fmt.Errorf("%s: failed to set QoS: %w", op, err)
	}

	if err := ch.ExchangeDeclare(
		Exchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := ch.QueueDeclare(
		emailQueue,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return nil, fmt.Errorf("%s: failed to declare queue %s: %w", op, emailQueue, err)
	}

	if err := ch.QueueBind(emailQueue, RoutingKeyEmail, Exchange, false, nil); err != nil {
		return nil, fmt.Errorf("%s: failed to bind queue %s: %w", op, emailQueue, err)
	}

	return ch, nil
}
