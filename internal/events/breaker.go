package events

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"
)

// BreakerPublisher stops calling the broker after repeated failures and
// rejects immediately until the open period has elapsed.
type BreakerPublisher struct {
	next Publisher
	cb   *gobreaker.CircuitBreaker[struct{}]
}

// NewBreakerPublisher wraps next. The breaker opens after maxFailures
// consecutive errors and half-opens again after openFor. A caller giving up
// on its request is not held against the broker.
func NewBreakerPublisher(name string, next Publisher, maxFailures uint32, openFor time.Duration) *BreakerPublisher {
	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:    name,
		Timeout: openFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
	return &BreakerPublisher{next: next, cb: cb}
}

func (b *BreakerPublisher) Publish(ctx context.Context, routingKey string, body []byte) error {
	_, err := b.cb.Execute(func() (struct{}, error) {
		return struct{}{}, b.next.Publish(ctx, routingKey, body)
	})
	return err
}

// PublishWithKey keeps the partition key when next understands one.
func (b *BreakerPublisher) PublishWithKey(ctx context.Context, routingKey, key string, body []byte) error {
	_, err := b.cb.Execute(func() (struct{}, error) {
		return struct{}{}, publish(ctx, b.next, routingKey, key, body)
	})
	return err
}

// State exposes the breaker state for health reporting.
func (b *BreakerPublisher) State() gobreaker.State {
	return b.cb.State()
}

func (b *BreakerPublisher) Close() error {
	return b.next.Close()
}
