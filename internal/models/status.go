package models

import "fmt"

// OrderStatus is the production stage of an order.
type OrderStatus string

const (
	OrderStatusPending      OrderStatus = "pending"
	OrderStatusInProduction OrderStatus = "in_production"
	OrderStatusReady        OrderStatus = "ready"
	OrderStatusDelivered    OrderStatus = "delivered"
)

// orderStatusRank orders the stages from first to last.
var orderStatusRank = map[OrderStatus]int{
	OrderStatusPending:      0,
	OrderStatusInProduction: 1,
	OrderStatusReady:        2,
	OrderStatusDelivered:    3,
}

// String returns the string representation of the status.
func (s OrderStatus) String() string {
	return string(s)
}

// Valid reports whether s is one of the known stages.
func (s OrderStatus) Valid() bool {
	_, ok := orderStatusRank[s]
	return ok
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	s := OrderStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("invalid order status: %s", raw)
	}
	return s, nil
}

// StatusWorkflow is a transition table: from -> set of allowed targets.
type StatusWorkflow struct {
	name    string
	allowed map[OrderStatus]map[OrderStatus]bool
}

// Name returns the workflow identifier used in configuration.
func (w StatusWorkflow) Name() string {
	return w.name
}

// CanTransition reports whether an order in status from may move to status to.
func (w StatusWorkflow) CanTransition(from, to OrderStatus) bool {
	return w.allowed[from][to]
}

// FreeWorkflow lets any stage be set from any other stage.
func FreeWorkflow() StatusWorkflow {
	allowed := make(map[OrderStatus]map[OrderStatus]bool, len(orderStatusRank))
	for from := range orderStatusRank {
		allowed[from] = make(map[OrderStatus]bool, len(orderStatusRank))
		for to := range orderStatusRank {
			allowed[from][to] = true
		}
	}
	return StatusWorkflow{name: "free", allowed: allowed}
}

// ForwardWorkflow only allows moving to a later stage, or staying put.
func ForwardWorkflow() StatusWorkflow {
	allowed := make(map[OrderStatus]map[OrderStatus]bool, len(orderStatusRank))
	for from, fromRank := range orderStatusRank {
		allowed[from] = make(map[OrderStatus]bool)
		for to, toRank := range orderStatusRank {
			if toRank >= fromRank {
				allowed[from][to] = true
			}
		}
	}
	return StatusWorkflow{name: "forward", allowed: allowed}
}

// WorkflowByName resolves "free" or "forward".
func WorkflowByName(name string) (StatusWorkflow, error) {
	switch name {
	case "", "free":
		return FreeWorkflow(), nil
	case "forward":
		return ForwardWorkflow(), nil
	default:
		return StatusWorkflow{}, fmt.Errorf("unknown order status workflow: %s", name)
	}
}
