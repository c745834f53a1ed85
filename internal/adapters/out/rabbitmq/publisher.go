// Package rabbitmq publishes outbox messages to a topic exchange. The
// routing key is the event name, so consumers bind with patterns such as
// "order.*" or "courier.wallet_negative".
package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"lastmile/internal/core/ports"

	amqp "github.com/rabbitmq/amqp091-go"
)

const DefaultExchange = "lastmile.events"

var ErrPublishNacked = errors.New("rabbitmq: broker did not acknowledge the message")

type Config struct {
	URL      string
	Exchange string
}

// Publisher implements ports.EventPublisher with publisher confirms. Publish
// waits for the broker's ack, so a nil error means the message reached the
// exchange.
type Publisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	confirms <-chan amqp.Confirmation
	exchange string

	mu sync.Mutex
}

var _ ports.EventPublisher = (*Publisher)(nil)

func Dial(cfg Config) (*Publisher, error) {
	if cfg.Exchange == "" {
		cfg.Exchange = DefaultExchange
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err = ch.ExchangeDeclare(cfg.Exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq declare exchange %s: %w", cfg.Exchange, err)
	}

	if err = ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq confirm mode: %w", err)
	}

	return &Publisher{
		conn:     conn,
		ch:       ch,
		confirms: ch.NotifyPublish(make(chan amqp.Confirmation, 1)),
		exchange: cfg.Exchange,
	}, nil
}

func (p *Publisher) Exchange() string {
	return p.exchange
}

// Publish is serialized on the channel. Confirms left over from a publish
// whose caller gave up are skipped by delivery tag.
func (p *Publisher) Publish(ctx context.Context, msg ports.OutboxMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	tag := p.ch.GetNextPublishSeqNo()
	if err := p.ch.PublishWithContext(ctx, p.exchange, msg.Name, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		MessageId:    msg.ID,
		Type:         msg.Name,
		Timestamp:    msg.OccurredAt.UTC(),
		Headers: amqp.Table{
			"x-aggregate-id": msg.AggregateID,
			"x-attempt":      int32(msg.Attempts + 1),
		},
		Body: msg.Payload,
	}); err != nil {
		return fmt.Errorf("rabbitmq publish %s: %w", msg.Name, err)
	}

	for {
		select {
		case confirm, ok := <-p.confirms:
			if !ok {
				return errors.New("rabbitmq: channel closed while waiting for confirm")
			}
			if confirm.DeliveryTag < tag {
				continue
			}
			if !confirm.Ack {
				return ErrPublishNacked
			}
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Ping reports whether the connection is still open.
func (p *Publisher) Ping() error {
	if p.conn == nil || p.conn.IsClosed() {
		return errors.New("rabbitmq connection is closed")
	}
	return nil
}

func (p *Publisher) Close() error {
	return errors.Join(p.ch.Close(), p.conn.Close())
}
