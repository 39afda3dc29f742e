// Package queue_publisher provides a publisher for audit events on
// RabbitMQ. Delivery happens in the background; a failure is logged and
// the event dropped, so the main request flow is never held up by the
// broker.
package queue_publisher

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/akhmetov/bookstore-api/internal/queue"
)

// publishTimeout bounds a single background delivery, dial included.
const publishTimeout = 5 * time.Second

// Publisher publishes audit events to the bookstore.audit queue.  The
// zero value is not usable; construct with New.  A connection is dialed
// per publish, which keeps the publisher stateless at the cost of some
// latency on a path that is already fire-and-forget.
type Publisher struct {
	URL string
}

func New(url string) *Publisher {
	if url == "" {
		url = q.BrokerURL()
	}
	return &Publisher{URL: url}
}

// Publish hands an AuditEvent to a background goroutine and returns
// immediately; the caller's context is not used for delivery.  An
// unreachable broker costs the request nothing: the attempt times out
// on its own clock and the event is logged as dropped.
func (p *Publisher) Publish(_ context.Context, event q.AuditEvent) error {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := p.deliver(ctx, event); err != nil {
			log.Printf("rabbitmq: audit event dropped (%s): %v", event.Action, err)
		}
	}()
	return nil
}

func (p *Publisher) deliver(ctx context.Context, event q.AuditEvent) error {
	conn, err := amqp.DialConfig(p.URL, amqp.Config{
		Dial: amqp.DefaultDial(publishTimeout),
	})
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent).
	if _, err := ch.QueueDeclare(
		q.AuditQueueName, // name
		true,             // durable
		false,            // autoDelete
		false,            // exclusive
		false,            // noWait
		nil,              // args
	); err != nil {
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	// Persistent so messages survive broker restarts.
	return ch.PublishWithContext(ctx,
		"",               // default exchange
		q.AuditQueueName, // routing key = queue name
		false,            // mandatory
		false,            // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
}
