// Package eventpkg publishes ledger events to a message broker.
package eventpkg

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/go-petr/pet-ledger/internal/domain"
)

// RoutingKeyTransactionExecuted is the routing key of TransactionExecuted events.
const RoutingKeyTransactionExecuted = "transaction.executed"

// TransactionExecuted is published after a transaction has been durably applied.
type TransactionExecuted struct {
	Event       string             `json:"event"`
	OccurredAt  time.Time          `json:"occurredAt"`
	Transaction domain.Transaction `json:"transaction"`
}

// Channel is the subset of *amqp.Channel used by AMQPPublisher.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher publishes ledger events to a topic exchange.
type AMQPPublisher struct {
	ch       Channel
	exchange string
	now      func() time.Time
}

// NewAMQPPublisher returns AMQPPublisher writing to exchange over ch.
func NewAMQPPublisher(ch Channel, exchange string) *AMQPPublisher {
	return &AMQPPublisher{
		ch:       ch,
		exchange: exchange,
		now:      time.Now,
	}
}

// PublishTransaction publishes TransactionExecuted for t.
func (p *AMQPPublisher) PublishTransaction(ctx context.Context, t domain.Transaction) error {
	body, err := json.Marshal(TransactionExecuted{
		Event:       RoutingKeyTransactionExecuted,
		OccurredAt:  p.now().UTC(),
		Transaction: t,
	})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    t.ID.String(),
		Timestamp:    p.now().UTC(),
		Type:         RoutingKeyTransactionExecuted,
		Body:         body,
	}

	if err := p.ch.PublishWithContext(ctx, p.exchange, RoutingKeyTransactionExecuted, false, false, msg); err != nil {
		return fmt.Errorf("publish: %w", err)
	}

	return nil
}

// Close closes the underlying channel.
func (p *AMQPPublisher) Close() error {
	return p.ch.Close()
}

// NopPublisher drops every event.
type NopPublisher struct{}

// PublishTransaction does nothing.
func (NopPublisher) PublishTransaction(context.Context, domain.Transaction) error { return nil }

// Close does nothing.
func (NopPublisher) Close() error { return nil }
