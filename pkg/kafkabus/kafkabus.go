// Package kafkabus publishes order events to a Kafka topic.
package kafkabus

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// WriteTimeout bounds one publish, retries included, so a dead broker cannot
// hold a checkout for long.
const WriteTimeout = 2 * time.Second

// Publisher writes one message per event. The routing key travels in the
// event_type header; the message key is the order id so the events of one
// order land on one partition in order.
type Publisher struct {
	writer  *kafka.Writer
	timeout time.Duration
}

// NewPublisher builds a writer for topic on brokers. No connection is made
// until the first publish.
func NewPublisher(topic string, brokers ...string) *Publisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireAll,
		MaxAttempts:            3,
		BatchTimeout:           10 * time.Millisecond,
		WriteTimeout:           WriteTimeout,
		ReadTimeout:            WriteTimeout,
	}
	return &Publisher{writer: w, timeout: WriteTimeout}
}

// Topic returns the destination topic.
func (p *Publisher) Topic() string {
	return p.writer.Topic
}

// Publish writes an unkeyed message; the balancer spreads it over partitions.
func (p *Publisher) Publish(ctx context.Context, routingKey string, body []byte) error {
	return p.write(ctx, message(routingKey, "", body))
}

// PublishWithKey writes a message partitioned by key.
func (p *Publisher) PublishWithKey(ctx context.Context, routingKey, key string, body []byte) error {
	return p.write(ctx, message(routingKey, key, body))
}

func (p *Publisher) write(ctx context.Context, msg kafka.Message) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka write %s: %w", eventType(msg), err)
	}
	return nil
}

func message(routingKey, key string, body []byte) kafka.Message {
	msg := kafka.Message{
		Value: body,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(routingKey)},
		},
	}
	if key != "" {
		msg.Key = []byte(key)
	}
	return msg
}

func eventType(msg kafka.Message) string {
	for _, h := range msg.Headers {
		if h.Key == "event_type" {
			return string(h.Value)
		}
	}
	return ""
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
