// Package rabbitmq publishes outbox events to a RabbitMQ topic exchange with
// publisher confirms. The routing key is the event topic.
package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

var (
	ErrNacked         = errors.New("rabbitmq: publish nacked by broker")
	ErrConfirmTimeout = errors.New("rabbitmq: timed out waiting for publish confirm")
	ErrClosed         = errors.New("rabbitmq: confirm channel closed")
)

const defaultConfirmTimeout = 5 * time.Second

// Channel is the subset of *amqp.Channel the publisher needs.
type Channel interface {
	Confirm(noWait bool) error
	NotifyPublish(confirm chan amqp.Confirmation) chan amqp.Confirmation
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher implements ports.EventPublisher. Publishes are serialized so
// each confirm can be matched to its delivery tag.
type Publisher struct {
	mu       sync.Mutex
	ch       Channel
	conn     *amqp.Connection
	exchange string
	timeout  time.Duration
	confirms chan amqp.Confirmation
	nextTag  uint64
	now      func() time.Time
}

// NewPublisher puts ch into confirm mode.
func NewPublisher(ch Channel, exchange string, confirmTimeout time.Duration) (*Publisher, error) {
	if confirmTimeout <= 0 {
		confirmTimeout = defaultConfirmTimeout
	}
	if err := ch.Confirm(false); err != nil {
		return nil, fmt.Errorf("enable publisher confirms: %w", err)
	}
	return &Publisher{
		ch:       ch,
		exchange: exchange,
		timeout:  confirmTimeout,
		confirms: ch.NotifyPublish(make(chan amqp.Confirmation, 16)),
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

// Dial connects to url, declares the durable topic exchange and returns a
// confirm-mode publisher owning the connection.
func Dial(url, exchange string, confirmTimeout time.Duration, log zerolog.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	p, err := NewPublisher(ch, exchange, confirmTimeout)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	p.conn = conn

	log.Info().Str("exchange", exchange).Msg("RabbitMQ publisher ready")
	return p, nil
}

// Publish sends one persistent message and waits for its confirm.
func (p *Publisher) Publish(ctx context.Context, topic, key string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    key,
		Timestamp:    p.now(),
		Headers:      amqp.Table{"key": key},
		Body:         payload,
	}
	if err := p.ch.PublishWithContext(ctx, p.exchange, topic, false, false, msg); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	p.nextTag++

	return p.waitConfirm(ctx, p.nextTag)
}

// waitConfirm skips confirms of earlier publishes that timed out.
func (p *Publisher) waitConfirm(ctx context.Context, tag uint64) error {
	timer := time.NewTimer(p.timeout)
	defer timer.Stop()

	for {
		select {
		case c, ok := <-p.confirms:
			if !ok {
				return ErrClosed
			}
			if c.DeliveryTag < tag {
				continue
			}
			if !c.Ack {
				return fmt.Errorf("%w: delivery_tag=%d", ErrNacked, c.DeliveryTag)
			}
			return nil
		case <-timer.C:
			return ErrConfirmTimeout
		case <-ctx.Done():
			return fmt.Errorf("wait for confirm: %w", ctx.Err())
		}
	}
}

// Close closes the channel and, for dialed publishers, the connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	err := p.ch.Close()
	if p.conn != nil {
		err = errors.Join(err, p.conn.Close())
	}
	return err
}
