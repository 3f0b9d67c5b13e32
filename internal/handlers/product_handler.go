package handlers

import (
	"strconv"

	"bakery/internal/models"
	"bakery/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductHandler handles HTTP requests for the catalog.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Patch("/:id/active", h.HandleSetActive)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// productRequest leaves Active nil when the caller omits it: new products
// are then sellable and updated ones keep their stored flag.
type productRequest struct {
	Name   string          `json:"name" validate:"required,max=100"`
	Price  decimal.Decimal `json:"price"`
	Size   string          `json:"size" validate:"omitempty,max=50"`
	Active *bool           `json:"active"`
}

func (r productRequest) product(id string) models.Product {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return models.Product{ID: id, Name: r.Name, Price: r.Price, Size: r.Size, Active: active}
}

// HandleGetProducts lists the catalog; ?active=true restricts it to sellable products.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	onlyActive := false
	if raw := c.Query("active"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Query parameter 'active' must be a boolean",
			})
		}
		onlyActive = parsed
	}

	var (
		products []models.Product
		err      error
	)
	if onlyActive {
		products, err = h.service.ListActive(c.UserContext())
	} else {
		products, err = h.service.GetAll(c.UserContext())
	}
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve products", err)
	}
	return c.JSON(products)
}

func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve product", err)
	}
	return c.JSON(product)
}

func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if ok, err := validate(c, h.validate, req); !ok {
		return err
	}

	product := req.product("")
	if err := h.service.Create(c.UserContext(), &product); err != nil {
		return respondError(c, h.logger, "Could not create product", err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if ok, err := validate(c, h.validate, req); !ok {
		return err
	}

	id := c.Params("id")
	if req.Active == nil {
		current, err := h.service.GetByID(c.UserContext(), id)
		if err != nil {
			return respondError(c, h.logger, "Could not update product", err)
		}
		req.Active = &current.Active
	}

	product := req.product(id)
	if err := h.service.Update(c.UserContext(), &product); err != nil {
		return respondError(c, h.logger, "Could not update product", err)
	}
	return c.JSON(product)
}

// HandleSetActive toggles whether the product can be added to carts.
func (h *ProductHandler) HandleSetActive(c *fiber.Ctx) error {
	var req struct {
		Active *bool `json:"active" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if ok, err := validate(c, h.validate, req); !ok {
		return err
	}

	id := c.Params("id")
	if err := h.service.SetActive(c.UserContext(), id, *req.Active); err != nil {
		return respondError(c, h.logger, "Could not change product availability", err)
	}
	return c.JSON(fiber.Map{
		"id":     id,
		"active": *req.Active,
	})
}

func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, h.logger, "Could not delete product", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
