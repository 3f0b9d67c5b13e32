package handlers

import (
	"time"

	"bakery/internal/cart"
	"bakery/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// deliveryDateLayout is the accepted format of checkout delivery dates.
const deliveryDateLayout = "2006-01-02"

// CartHandler exposes the authenticated user's cart.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewCartHandler(service *services.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/lines", h.HandleAddLine)
	cartRoutes.Delete("/", h.HandleClearCart)
	cartRoutes.Post("/checkout", h.HandleCheckout)
}

type cartResponse struct {
	Lines []cart.Line     `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

func newCartResponse(c *cart.Cart) cartResponse {
	lines := c.Snapshot()
	return cartResponse{Lines: lines, Total: c.Total()}
}

type addLineRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

type checkoutRequest struct {
	CustomerID    string `json:"customer_id" validate:"required"`
	PaymentMethod string `json:"payment_method" validate:"required,max=50"`
	DeliveryDate  string `json:"delivery_date" validate:"omitempty"`
	Note          string `json:"note"`
}

func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	current, err := h.service.Get(c.UserContext(), sessionID(c))
	if err != nil {
		return respondError(c, h.logger, "Could not load cart", err)
	}
	return c.JSON(newCartResponse(current))
}

func (h *CartHandler) HandleAddLine(c *fiber.Ctx) error {
	var req addLineRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if ok, err := validate(c, h.validate, req); !ok {
		return err
	}

	current, err := h.service.AddLine(c.UserContext(), sessionID(c), req.ProductID, req.Quantity)
	if err != nil {
		return respondError(c, h.logger, "Could not add line", err)
	}
	return c.Status(fiber.StatusCreated).JSON(newCartResponse(current))
}

func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	if err := h.service.Clear(c.UserContext(), sessionID(c)); err != nil {
		return respondError(c, h.logger, "Could not clear cart", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleCheckout turns the cart into an order and answers with the order.
func (h *CartHandler) HandleCheckout(c *fiber.Ctx) error {
	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if ok, err := validate(c, h.validate, req); !ok {
		return err
	}

	var delivery *time.Time
	if req.DeliveryDate != "" {
		d, err := time.Parse(deliveryDateLayout, req.DeliveryDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "delivery_date must be formatted as YYYY-MM-DD",
				"error":   err.Error(),
			})
		}
		delivery = &d
	}

	order, err := h.service.Checkout(c.UserContext(), sessionID(c), services.CheckoutRequest{
		CustomerID:    req.CustomerID,
		PaymentMethod: req.PaymentMethod,
		DeliveryDate:  delivery,
		Note:          req.Note,
	})
	if err != nil {
		return respondError(c, h.logger, "Checkout failed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}
