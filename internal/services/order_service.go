package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"bakery/internal/cart"
	"bakery/internal/events"
	"bakery/internal/models"
	"bakery/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CheckoutRequest carries the header fields chosen at checkout.
type CheckoutRequest struct {
	CustomerID    string
	PaymentMethod string
	DeliveryDate  *time.Time
	Note          string
}

// OrderService turns carts into persisted orders and manages them afterwards.
type OrderService struct {
	orders    repositories.OrderRepository
	customers repositories.CustomerRepository
	publisher events.Publisher
	workflow  models.StatusWorkflow
	logger    *zap.Logger
	now       func() time.Time
}

// NewOrderService creates a new OrderService. A nil publisher disables events.
func NewOrderService(
	orders repositories.OrderRepository,
	customers repositories.CustomerRepository,
	publisher events.Publisher,
	workflow models.StatusWorkflow,
	logger *zap.Logger,
) *OrderService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &OrderService{
		orders:    orders,
		customers: customers,
		publisher: publisher,
		workflow:  workflow,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock replaces the time source used for SoldAt and event timestamps.
func (s *OrderService) WithClock(now func() time.Time) *OrderService {
	s.now = now
	return s
}

// Workflow returns the status transition table in use.
func (s *OrderService) Workflow() models.StatusWorkflow {
	return s.workflow
}

// Checkout writes the cart as one order. The header and all lines are stored
// together or not at all, and c is cleared only once the write succeeded.
func (s *OrderService) Checkout(ctx context.Context, c *cart.Cart, req CheckoutRequest) (*models.Order, error) {
	if c == nil || c.IsEmpty() {
		return nil, NewValidation("cart is empty")
	}
	customerID := strings.TrimSpace(req.CustomerID)
	if customerID == "" {
		return nil, NewValidation("customer is required")
	}
	paymentMethod := strings.TrimSpace(req.PaymentMethod)
	if paymentMethod == "" {
		return nil, NewValidation("payment method is required")
	}
	if _, err := s.customers.GetByID(ctx, customerID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewValidation("customer %s does not exist", customerID)
		}
		return nil, NewStorage("failed to load customer", err)
	}

	lines := make([]models.OrderLine, 0, c.Len())
	for i, l := range c.Snapshot() {
		if l.Quantity < 1 {
			return nil, NewValidation("line %d: %s", i+1, cart.ErrInvalidQuantity)
		}
		lines = append(lines, models.NewOrderLine(l.ProductID, l.ProductName, l.UnitPrice, l.Quantity))
	}

	var delivery *time.Time
	if req.DeliveryDate != nil {
		d := req.DeliveryDate.UTC()
		delivery = &d
	}
	order := &models.Order{
		ID:            uuid.New().String(),
		SoldAt:        s.now().UTC(),
		DeliveryDate:  delivery,
		CustomerID:    customerID,
		PaymentMethod: paymentMethod,
		Note:          strings.TrimSpace(req.Note),
		Status:        models.OrderStatusPending,
		Total:         c.Total(),
		Lines:         lines,
	}

	if err := s.orders.CreateWithLines(ctx, order); err != nil {
		s.logger.Error("checkout failed", zap.String("customer_id", customerID), zap.Error(err))
		return nil, NewStorage("failed to store order", err)
	}
	c.Clear()

	s.logger.Info("order created",
		zap.String("order_id", order.ID),
		zap.String("customer_id", order.CustomerID),
		zap.String("total", order.Total.StringFixed(2)),
		zap.Int("lines", len(order.Lines)),
	)
	s.publish(ctx, events.OrderCreatedKey, order.ID, orderCreatedEvent(order))
	return order, nil
}

func (s *OrderService) GetAll(ctx context.Context) ([]models.Order, error) {
	orders, err := s.orders.GetAll(ctx, repositories.OrderFilter{})
	if err != nil {
		return nil, fromRepo(err, "order")
	}
	return orders, nil
}

func (s *OrderService) GetByID(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "order "+id)
	}
	return order, nil
}

// UpdateStatus moves an order to the status named by raw, as far as the
// configured workflow allows.
func (s *OrderService) UpdateStatus(ctx context.Context, id, raw string) (*models.Order, error) {
	status, err := models.ParseOrderStatus(raw)
	if err != nil {
		return nil, &Error{Kind: KindValidation, Message: "invalid status", Err: err}
	}
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "order "+id)
	}
	from := order.Status
	if !s.workflow.CanTransition(from, status) {
		return nil, NewValidation("cannot move order from %s to %s", from, status)
	}
	if err := s.orders.UpdateStatus(ctx, id, status); err != nil {
		return nil, fromRepo(err, "order "+id)
	}
	order.Status = status

	s.logger.Info("order status changed",
		zap.String("order_id", id),
		zap.Stringer("from", from),
		zap.Stringer("to", status),
	)
	s.publish(ctx, events.OrderStatusChangedKey, id, events.OrderStatusChanged{
		OrderID: id,
		From:    from.String(),
		To:      status.String(),
		At:      s.now().UTC(),
	})
	return order, nil
}

// Delete removes an order and its lines.
func (s *OrderService) Delete(ctx context.Context, id string) error {
	if err := s.orders.Delete(ctx, id); err != nil {
		return fromRepo(err, "order "+id)
	}
	s.logger.Info("order deleted", zap.String("order_id", id))
	s.publish(ctx, events.OrderDeletedKey, id, events.OrderDeleted{OrderID: id, At: s.now().UTC()})
	return nil
}

// publish never fails the caller; the order is already stored.
func (s *OrderService) publish(ctx context.Context, routingKey, orderID string, payload interface{}) {
	if err := events.PublishJSON(ctx, s.publisher, routingKey, orderID, payload); err != nil {
		s.logger.Warn("failed to publish order event",
			zap.String("routing_key", routingKey),
			zap.String("order_id", orderID),
			zap.Error(err),
		)
	}
}

func orderCreatedEvent(order *models.Order) events.OrderCreated {
	lines := make([]events.OrderCreatedLine, 0, len(order.Lines))
	for _, l := range order.Lines {
		lines = append(lines, events.OrderCreatedLine{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
		})
	}
	return events.OrderCreated{
		OrderID:       order.ID,
		CustomerID:    order.CustomerID,
		PaymentMethod: order.PaymentMethod,
		Total:         order.Total,
		SoldAt:        order.SoldAt,
		DeliveryDate:  order.DeliveryDate,
		Note:          order.Note,
		Lines:         lines,
	}
}
