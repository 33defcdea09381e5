package worker

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/streadway/amqp"
)

type Consumer struct {
	conn       *amqp.Connection
	queue      string
	workers    int
	dispatcher *Dispatcher
	log        *log.Logger
}

func NewConsumer(conn *amqp.Connection, queue string, workers int, dispatcher *Dispatcher, logger *log.Logger) *Consumer {
	if workers <= 0 {
		workers = 1
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Consumer{conn: conn, queue: queue, workers: workers, dispatcher: dispatcher, log: logger}
}

// Run starts the worker pool and blocks until ctx ends or the broker closes
// every delivery stream.
func (c *Consumer) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	for i := range c.workers {
		ch, deliveries, err := c.subscribe()
		if err != nil {
			cancel()
			wg.Wait()
			return err
		}
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			defer ch.Close()
			c.log.Printf("component=worker worker=%d status=started queue=%s", id, c.queue)
			c.work(ctx, deliveries)
			c.log.Printf("component=worker worker=%d status=stopped", id)
		}(i + 1)
	}

	wg.Wait()
	return ctx.Err()
}

func (c *Consumer) subscribe() (*amqp.Channel, <-chan amqp.Delivery, error) {
	ch, err := c.conn.Channel()
	if err != nil {
		return nil, nil, fmt.Errorf("open amqp channel: %w", err)
	}
	if err := declareQueue(ch, c.queue); err != nil {
		_ = ch.Close()
		return nil, nil, fmt.Errorf("declare queue %s: %w", c.queue, err)
	}
	// one unacked message per worker keeps long model calls from piling up
	if err := ch.Qos(1, 0, false); err != nil {
		_ = ch.Close()
		return nil, nil, fmt.Errorf("set qos: %w", err)
	}
	deliveries, err := ch.Consume(
		c.queue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		return nil, nil, fmt.Errorf("consume %s: %w", c.queue, err)
	}
	return ch, deliveries, nil
}

func (c *Consumer) work(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-deliveries:
			if !ok {
				return
			}
			c.handle(ctx, msg)
		}
	}
}

// handle acknowledges every decodable message once processed. The engine
// does not retry, so engine failures are acked after the dispatcher logs
// them. A dispatch cut short by shutdown is requeued for the next worker.
// Undecodable bodies are rejected without requeue.
func (c *Consumer) handle(ctx context.Context, msg amqp.Delivery) {
	req, err := DecodeRequest(msg.Body)
	if err != nil {
		c.log.Printf("component=worker message_id=%s status=rejected err=%v", msg.MessageId, err)
		_ = msg.Nack(false, false)
		return
	}
	if req.ID == "" {
		req.ID = msg.MessageId
	}
	if err := c.dispatcher.Dispatch(ctx, req); err != nil && ctx.Err() != nil {
		c.log.Printf("component=worker request_id=%s status=requeued err=%v", req.ID, err)
		_ = msg.Nack(false, true)
		return
	}
	_ = msg.Ack(false)
}
