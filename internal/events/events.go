// Package events describes the order lifecycle notifications sent to a message broker.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Routing keys of the published events.
const (
	OrderCreatedKey       = "order.created"
	OrderStatusChangedKey = "order.status_changed"
	OrderDeletedKey       = "order.deleted"
)

// Publisher delivers a serialized event under a routing key.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
	Close() error
}

type OrderCreatedLine struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

type OrderCreated struct {
	OrderID       string             `json:"order_id"`
	CustomerID    string             `json:"customer_id"`
	PaymentMethod string             `json:"payment_method"`
	Total         decimal.Decimal    `json:"total"`
	SoldAt        time.Time          `json:"sold_at"`
	DeliveryDate  *time.Time         `json:"delivery_date,omitempty"`
	Note          string             `json:"note,omitempty"`
	Lines         []OrderCreatedLine `json:"lines"`
}

type OrderStatusChanged struct {
	OrderID string    `json:"order_id"`
	From    string    `json:"from"`
	To      string    `json:"to"`
	At      time.Time `json:"at"`
}

type OrderDeleted struct {
	OrderID string    `json:"order_id"`
	At      time.Time `json:"at"`
}

// KeyedPublisher is implemented by brokers that partition by message key.
type KeyedPublisher interface {
	PublishWithKey(ctx context.Context, routingKey, key string, body []byte) error
}

// PublishJSON marshals payload and publishes it. key (the order id) groups
// the events of one order on brokers that support it.
func PublishJSON(ctx context.Context, p Publisher, routingKey, key string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", routingKey, err)
	}
	return publish(ctx, p, routingKey, key, body)
}

func publish(ctx context.Context, p Publisher, routingKey, key string, body []byte) error {
	if kp, ok := p.(KeyedPublisher); ok && key != "" {
		return kp.PublishWithKey(ctx, routingKey, key, body)
	}
	return p.Publish(ctx, routingKey, body)
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, string, []byte) error { return nil }
func (Nop) Close() error                                  { return nil }
