package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

// AMQPPublisher forwards events to a topic exchange of a message broker.
//
// Every event is published as a JSON message with its routing key, e.g.
// "budget.expense.updated", so that consumers can bind to the resources
// they care about.
//
// When the broker closes the connection, the next Publish dials again.
type AMQPPublisher struct {
	mu       sync.Mutex
	url      string
	exchange string
	conn     *amqp091.Connection
	channel  *amqp091.Channel
}

// NewAMQPPublisher connects to the broker and declares the exchange.
func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	p := &AMQPPublisher{
		url:      url,
		exchange: exchange,
	}

	err := p.connect()
	if err != nil {
		return nil, err
	}

	return p, nil
}

// connect dials the broker, opens a channel and declares the exchange.
// p.mu must be held or p not shared yet.
func (p *AMQPPublisher) connect() error {
	conn, err := amqp091.Dial(p.url)
	if err != nil {
		return fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		p.exchange, // name
		"topic",    // type
		true,       // durable
		false,      // auto-deleted
		false,      // internal
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return fmt.Errorf("declare exchange: %w", err)
	}

	// The channel is closed with nil on a regular Close
	closed := channel.NotifyClose(make(chan *amqp091.Error, 1))
	go func(exchange string) {
		if err, ok := <-closed; ok && err != nil {
			log.Warn().Str("exchange", exchange).Int("code", err.Code).Str("reason", err.Reason).Msg("AMQP channel closed, reconnecting on next publish")
		}
	}(p.exchange)

	p.conn = conn
	p.channel = channel

	return nil
}

// message builds the message for an event.
func message(e Event) (amqp091.Publishing, error) {
	body, err := json.Marshal(e)
	if err != nil {
		return amqp091.Publishing{}, fmt.Errorf("marshal event: %w", err)
	}

	return amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    e.Time,
		Type:         e.RoutingKey(),
		Body:         body,
	}, nil
}

// Publish sends all events to the exchange.
func (p *AMQPPublisher) Publish(ctx context.Context, events ...Event) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// amqp091 channels are not safe for concurrent publishing
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil || p.channel.IsClosed() {
		p.release()

		err := p.connect()
		if err != nil {
			return err
		}
		log.Info().Str("exchange", p.exchange).Msg("AMQP reconnected")
	}

	for _, e := range events {
		msg, err := message(e)
		if err != nil {
			return err
		}

		err = p.channel.PublishWithContext(
			ctx,
			p.exchange,     // exchange
			e.RoutingKey(), // routing key
			false,          // mandatory
			false,          // immediate
			msg,
		)
		if err != nil {
			return fmt.Errorf("publish event: %w", err)
		}

		log.Debug().Str("exchange", p.exchange).Str("routingKey", e.RoutingKey()).Uint64("id", e.ID).Msg("AMQP")
	}

	return nil
}

// release closes what is left of the current connection.
func (p *AMQPPublisher) release() error {
	if p.channel != nil && !p.channel.IsClosed() {
		p.channel.Close()
	}
	p.channel = nil

	var err error
	if p.conn != nil && !p.conn.IsClosed() {
		err = p.conn.Close()
	}
	p.conn = nil

	return err
}

// Close closes the channel and the connection.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.release()
}
