package service

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/iliyamo/floorplan-seat-planner/internal/queue"
)

// Publisher sends SeatingChangedEvent messages to RabbitMQ.  Each publish
// opens its own connection; mutations are rare enough that pooling is not
// worth the reconnect handling.
type Publisher struct {
	url     string
	timeout time.Duration
	log     zerolog.Logger
}

// NewPublisher returns a Publisher for the broker at url.
func NewPublisher(url string, log zerolog.Logger) *Publisher {
	return &Publisher{url: url, timeout: 5 * time.Second, log: log}
}

// PublishSeatingChanged publishes ev to the seating.changed queue.  Errors
// are logged and returned so callers can choose to ignore them.  Messages
// are persistent.
func (p *Publisher) PublishSeatingChanged(ctx context.Context, ev queue.SeatingChangedEvent) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.log.Warn().Err(err).Msg("rabbitmq: dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Warn().Err(err).Msg("rabbitmq: channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		queue.SeatingChangedQueue, // name
		true,                      // durable
		false,                     // autoDelete
		false,                     // exclusive
		false,                     // noWait
		nil,                       // args
	); err != nil {
		p.log.Warn().Err(err).Msg("rabbitmq: queue declare failed")
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx,
		"",                        // default exchange
		queue.SeatingChangedQueue, // routing key = queue name
		false,                     // mandatory
		false,                     // immediate
		pub,
	); err != nil {
		p.log.Warn().Err(err).Msg("rabbitmq: publish failed")
		return err
	}
	return nil
}

// Hook adapts the publisher to an engine ChangeHook.  Publishing happens in
// the background with its own timeout so a slow broker never delays the
// request that caused the change.
func (p *Publisher) Hook() ChangeHook {
	return func(ctx context.Context, ev queue.SeatingChangedEvent) {
		bg := context.WithoutCancel(ctx)
		go func() {
			ctx, cancel := context.WithTimeout(bg, p.timeout)
			defer cancel()
			_ = p.PublishSeatingChanged(ctx, ev)
		}()
	}
}
