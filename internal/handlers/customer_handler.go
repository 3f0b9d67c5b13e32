package handlers

import (
	"bakery/internal/models"
	"bakery/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CustomerHandler handles HTTP requests for customers.
type CustomerHandler struct {
	service  *services.CustomerService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewCustomerHandler(service *services.CustomerService, logger *zap.Logger) *CustomerHandler {
	return &CustomerHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterRoutes registers the customer routes with the Fiber app.
func (h *CustomerHandler) RegisterRoutes(router fiber.Router) {
	customerRoutes := router.Group("/customers")
	customerRoutes.Get("/", h.HandleGetCustomers)
	customerRoutes.Get("/:id", h.HandleGetCustomerByID)
	customerRoutes.Post("/", h.HandleCreateCustomer)
	customerRoutes.Put("/:id", h.HandleUpdateCustomer)
	customerRoutes.Delete("/:id", h.HandleDeleteCustomer)
}

type customerRequest struct {
	Name    string `json:"name" validate:"required,max=120"`
	Phone   string `json:"phone" validate:"omitempty,max=30"`
	Address string `json:"address" validate:"omitempty,max=255"`
}

func (h *CustomerHandler) HandleGetCustomers(c *fiber.Ctx) error {
	customers, err := h.service.GetAll(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve customers", err)
	}
	return c.JSON(customers)
}

func (h *CustomerHandler) HandleGetCustomerByID(c *fiber.Ctx) error {
	customer, err := h.service.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve customer", err)
	}
	return c.JSON(customer)
}

func (h *CustomerHandler) HandleCreateCustomer(c *fiber.Ctx) error {
	var req customerRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if ok, err := validate(c, h.validate, req); !ok {
		return err
	}

	customer := models.Customer{Name: req.Name, Phone: req.Phone, Address: req.Address}
	if err := h.service.Create(c.UserContext(), &customer); err != nil {
		return respondError(c, h.logger, "Could not create customer", err)
	}
	return c.Status(fiber.StatusCreated).JSON(customer)
}

func (h *CustomerHandler) HandleUpdateCustomer(c *fiber.Ctx) error {
	var req customerRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if ok, err := validate(c, h.validate, req); !ok {
		return err
	}

	customer := models.Customer{ID: c.Params("id"), Name: req.Name, Phone: req.Phone, Address: req.Address}
	if err := h.service.Update(c.UserContext(), &customer); err != nil {
		return respondError(c, h.logger, "Could not update customer", err)
	}
	return c.JSON(customer)
}

// HandleDeleteCustomer keeps the customer's past orders.
func (h *CustomerHandler) HandleDeleteCustomer(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, h.logger, "Could not delete customer", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
