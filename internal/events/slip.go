package events

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// SlipLogger turns order events into production slip log entries for the kitchen.
type SlipLogger struct {
	logger *zap.Logger
}

func NewSlipLogger(logger *zap.Logger) *SlipLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SlipLogger{logger: logger}
}

// Handle processes one delivery. Unknown routing keys are ignored.
func (s *SlipLogger) Handle(routingKey string, body []byte) error {
	switch routingKey {
	case OrderCreatedKey:
		var evt OrderCreated
		if err := json.Unmarshal(body, &evt); err != nil {
			return fmt.Errorf("decode %s: %w", routingKey, err)
		}
		for _, line := range evt.Lines {
			s.logger.Info("production slip",
				zap.String("order_id", evt.OrderID),
				zap.String("product", line.ProductName),
				zap.Int("quantity", line.Quantity),
				zap.Timep("delivery_date", evt.DeliveryDate),
				zap.String("note", evt.Note),
			)
		}
	case OrderStatusChangedKey:
		var evt OrderStatusChanged
		if err := json.Unmarshal(body, &evt); err != nil {
			return fmt.Errorf("decode %s: %w", routingKey, err)
		}
		s.logger.Info("order status changed",
			zap.String("order_id", evt.OrderID),
			zap.String("from", evt.From),
			zap.String("to", evt.To),
		)
	case OrderDeletedKey:
		var evt OrderDeleted
		if err := json.Unmarshal(body, &evt); err != nil {
			return fmt.Errorf("decode %s: %w", routingKey, err)
		}
		s.logger.Info("order cancelled", zap.String("order_id", evt.OrderID))
	default:
		s.logger.Debug("ignoring event", zap.String("routing_key", routingKey))
	}
	return nil
}
