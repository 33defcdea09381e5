package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
)

// Publisher enqueues insight requests on a durable AMQP queue.
type Publisher struct {
	queue string

	mu sync.Mutex
	ch *amqp.Channel
}

func declareQueue(ch *amqp.Channel, queue string) error {
	_, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	return err
}

func NewPublisher(conn *amqp.Connection, queue string) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}
	if err := declareQueue(ch, queue); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare queue %s: %w", queue, err)
	}
	return &Publisher{queue: queue, ch: ch}, nil
}

// Publish assigns req an id when it has none and returns the enqueued copy.
func (p *Publisher) Publish(ctx context.Context, req Request) (Request, error) {
	if err := req.Validate(); err != nil {
		return Request{}, err
	}
	if err := ctx.Err(); err != nil {
		return Request{}, err
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	body, err := json.Marshal(req)
	if err != nil {
		return Request{}, err
	}

	// amqp channels are not safe for concurrent publishing.
	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.ch.Publish(
		"", // default exchange routes by queue name
		p.queue,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    req.ID,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		return Request{}, fmt.Errorf("publish %s: %w", req.Type, err)
	}
	return req, nil
}

func (p *Publisher) Close() error {
	if p == nil || p.ch == nil {
		return nil
	}
	return p.ch.Close()
}
