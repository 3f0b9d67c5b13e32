package services_test

import (
	"context"
	"testing"
	"time"

	"bakery/internal/models"
	"bakery/internal/repositories"
	"bakery/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var ctx = context.Background()

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// fixture wires the services over in-memory repositories.
type fixture struct {
	products  *repositories.MemoryProductRepository
	customers *repositories.MemoryCustomerRepository
	orders    *repositories.MemoryOrderRepository
	carts     *repositories.MemoryCartRepository

	productSvc  *services.ProductService
	customerSvc *services.CustomerService
	orderSvc    *services.OrderService
	cartSvc     *services.CartService
	reportSvc   *services.ReportService
}

func newFixture(t *testing.T, workflow models.StatusWorkflow) *fixture {
	t.Helper()
	f := &fixture{
		products:  repositories.NewMemoryProductRepository(),
		customers: repositories.NewMemoryCustomerRepository(),
		orders:    repositories.NewMemoryOrderRepository(),
		carts:     repositories.NewMemoryCartRepository(),
	}
	logger := zap.NewNop()
	f.productSvc = services.NewProductService(f.products, logger)
	f.customerSvc = services.NewCustomerService(f.customers, logger)
	f.orderSvc = services.NewOrderService(f.orders, f.customers, nil, workflow, logger)
	f.cartSvc = services.NewCartService(f.carts, f.products, f.orderSvc, logger)
	f.reportSvc = services.NewReportService(f.orders, f.customers)
	return f
}

func (f *fixture) product(t *testing.T, name, price string) models.Product {
	t.Helper()
	p := models.Product{Name: name, Price: dec(price), Active: true}
	require.NoError(t, f.productSvc.Create(ctx, &p))
	return p
}

func (f *fixture) customer(t *testing.T, name string) models.Customer {
	t.Helper()
	c := models.Customer{Name: name}
	require.NoError(t, f.customerSvc.Create(ctx, &c))
	return c
}

// sale stores an order directly, bypassing checkout, so tests control SoldAt.
func (f *fixture) sale(t *testing.T, customerID string, soldAt time.Time, lines ...models.OrderLine) models.Order {
	t.Helper()
	o := models.Order{
		SoldAt:        soldAt,
		CustomerID:    customerID,
		PaymentMethod: "cash",
		Status:        models.OrderStatusPending,
		Lines:         lines,
	}
	o.Total = o.LinesTotal()
	require.NoError(t, f.orders.CreateWithLines(ctx, &o))
	return o
}

func line(p models.Product, quantity int) models.OrderLine {
	return models.NewOrderLine(p.ID, p.Name, p.Price, quantity)
}
