package handlers

import (
	"bakery/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// OrderHandler handles HTTP requests for stored orders.
type OrderHandler struct {
	orders   *services.OrderService
	reports  *services.ReportService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orders *services.OrderService, reports *services.ReportService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orders:   orders,
		reports:  reports,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterRoutes registers the order routes with the Fiber app. Orders are
// created through the cart checkout.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Patch("/:id/status", h.HandleUpdateOrderStatus)
	orderRoutes.Delete("/:id", h.HandleDeleteOrder)
}

// HandleGetOrders lists orders newest first with customer names.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.reports.ListOrders(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve orders", err)
	}
	return c.JSON(orders)
}

// HandleGetOrderByID returns the order header, customer name and lines.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	detail, err := h.reports.OrderDetail(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve order", err)
	}
	return c.JSON(detail)
}

// HandleUpdateOrderStatus updates the status of an existing order.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	var req struct {
		Status string `json:"status" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if ok, err := validate(c, h.validate, req); !ok {
		return err
	}

	order, err := h.orders.UpdateStatus(c.UserContext(), c.Params("id"), req.Status)
	if err != nil {
		return respondError(c, h.logger, "Could not update order status", err)
	}
	return c.JSON(order)
}

// HandleDeleteOrder removes the order and its lines.
func (h *OrderHandler) HandleDeleteOrder(c *fiber.Ctx) error {
	if err := h.orders.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, h.logger, "Could not delete order", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
