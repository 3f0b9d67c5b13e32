package handlers

import (
	"context"
	"time"

	"bakery/internal/middleware"
	"bakery/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Services groups everything the HTTP API calls into.
type Services struct {
	Auth      *services.AuthService
	Customers *services.CustomerService
	Products  *services.ProductService
	Carts     *services.CartService
	Orders    *services.OrderService
	Reports   *services.ReportService
}

// HealthCheck reports whether a dependency is usable.
type HealthCheck func(ctx context.Context) error

// RegisterRoutes mounts /health and the /api/v1 routes on app. Everything
// except registration and login requires a bearer token.
func RegisterRoutes(app *fiber.App, svc Services, logger *zap.Logger, checks map[string]HealthCheck) {
	app.Get("/health", healthHandler(checks))

	apiV1 := app.Group("/api/v1")
	NewAuthHandler(svc.Auth, logger).RegisterRoutes(apiV1)

	protectedRoutes := apiV1.Group("", middleware.AuthRequired(svc.Auth, logger))
	NewCustomerHandler(svc.Customers, logger).RegisterRoutes(protectedRoutes)
	NewProductHandler(svc.Products, logger).RegisterRoutes(protectedRoutes)
	NewCartHandler(svc.Carts, logger).RegisterRoutes(protectedRoutes)
	NewOrderHandler(svc.Orders, svc.Reports, logger).RegisterRoutes(protectedRoutes)
	NewReportHandler(svc.Reports, logger).RegisterRoutes(protectedRoutes)
}

func healthHandler(checks map[string]HealthCheck) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status := fiber.StatusOK
		components := make(fiber.Map, len(checks))
		for name, check := range checks {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			err := check(ctx)
			cancel()
			if err != nil {
				status = fiber.StatusServiceUnavailable
				components[name] = err.Error()
				continue
			}
			components[name] = "ok"
		}
		state := "healthy"
		if status != fiber.StatusOK {
			state = "degraded"
		}
		return c.Status(status).JSON(fiber.Map{
			"status":     state,
			"time":       time.Now().Format(time.RFC3339),
			"components": components,
		})
	}
}
