package handlers

import (
	"bytes"
	"fmt"
	"time"

	"bakery/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const defaultTopProducts = 10

// ReportHandler serves the sales views.
type ReportHandler struct {
	service *services.ReportService
	logger  *zap.Logger
}

func NewReportHandler(service *services.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{service: service, logger: logger}
}

// RegisterRoutes registers the report routes with the Fiber app.
func (h *ReportHandler) RegisterRoutes(router fiber.Router) {
	reportRoutes := router.Group("/reports")
	reportRoutes.Get("/summary", h.HandleSummary)
	reportRoutes.Get("/top-products", h.HandleTopProducts)
	reportRoutes.Get("/customers", h.HandleCustomerRanking)
	reportRoutes.Get("/export.csv", h.HandleExport)
}

// HandleSummary answers revenue and order count for ?period=all|today|7d|30d.
func (h *ReportHandler) HandleSummary(c *fiber.Ctx) error {
	period, err := services.ParsePeriod(c.Query("period"))
	if err != nil {
		return respondError(c, h.logger, "Invalid period", err)
	}
	summary, err := h.service.SalesSummary(c.UserContext(), period)
	if err != nil {
		return respondError(c, h.logger, "Could not compute sales summary", err)
	}
	return c.JSON(summary)
}

func (h *ReportHandler) HandleTopProducts(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultTopProducts)
	if limit < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Query parameter 'limit' must be a positive integer",
		})
	}
	top, err := h.service.TopProducts(c.UserContext(), limit)
	if err != nil {
		return respondError(c, h.logger, "Could not compute top products", err)
	}
	return c.JSON(top)
}

func (h *ReportHandler) HandleCustomerRanking(c *fiber.Ctx) error {
	ranking, err := h.service.CustomerRanking(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, "Could not compute customer ranking", err)
	}
	return c.JSON(ranking)
}

// HandleExport sends the per-line sales export as a CSV attachment.
func (h *ReportHandler) HandleExport(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.service.ExportCSV(c.UserContext(), &buf); err != nil {
		return respondError(c, h.logger, "Could not export sales", err)
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="sales-%s.csv"`, time.Now().Format("20060102")))
	return c.Send(buf.Bytes())
}
