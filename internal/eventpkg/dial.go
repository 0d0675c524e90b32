package eventpkg

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Connection owns the broker connection behind an AMQPPublisher.
type Connection struct {
	*AMQPPublisher
	conn *amqp.Connection
}

// DialAMQP connects to the broker at url and declares the durable topic exchange.
func DialAMQP(url, exchange string) (*Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()

		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &Connection{
		AMQPPublisher: NewAMQPPublisher(ch, exchange),
		conn:          conn,
	}, nil
}

// Close closes the channel and then the connection.
func (c *Connection) Close() error {
	chErr := c.AMQPPublisher.Close()

	if err := c.conn.Close(); err != nil {
		return err
	}

	return chErr
}
