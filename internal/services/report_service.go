package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"bakery/internal/models"
	"bakery/internal/repositories"

	"github.com/shopspring/decimal"
)

// Period selects the trailing window of a sales summary.
type Period string

const (
	PeriodAll    Period = "all"
	PeriodToday  Period = "today"
	Period7Days  Period = "7d"
	Period30Days Period = "30d"
)

// ParsePeriod accepts "all", "today", "7d" and "30d". Empty means "all".
func ParsePeriod(raw string) (Period, error) {
	switch p := Period(raw); p {
	case "":
		return PeriodAll, nil
	case PeriodAll, PeriodToday, Period7Days, Period30Days:
		return p, nil
	default:
		return "", NewValidation("unknown period %q", raw)
	}
}

// Since returns the lower bound of the window ending at now. Zero for PeriodAll.
func (p Period) Since(now time.Time) time.Time {
	switch p {
	case PeriodToday:
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	case Period7Days:
		return now.Add(-7 * 24 * time.Hour)
	case Period30Days:
		return now.Add(-30 * 24 * time.Hour)
	default:
		return time.Time{}
	}
}

// OrderSummary is one row of the order listing.
type OrderSummary struct {
	ID            string             `json:"id"`
	SoldAt        time.Time          `json:"sold_at"`
	DeliveryDate  *time.Time         `json:"delivery_date,omitempty"`
	CustomerID    string             `json:"customer_id"`
	CustomerName  string             `json:"customer_name"`
	PaymentMethod string             `json:"payment_method"`
	Status        models.OrderStatus `json:"status"`
	Total         decimal.Decimal    `json:"total"`
}

type SalesSummary struct {
	Period     Period          `json:"period"`
	Revenue    decimal.Decimal `json:"revenue"`
	OrderCount int             `json:"order_count"`
}

type ProductSales struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
}

type CustomerRank struct {
	CustomerID    string          `json:"customer_id"`
	CustomerName  string          `json:"customer_name"`
	TotalSpent    decimal.Decimal `json:"total_spent"`
	OrderCount    int             `json:"order_count"`
	AverageTicket decimal.Decimal `json:"average_ticket"`
}

// OrderDetail is an order with the name of its customer resolved.
type OrderDetail struct {
	models.Order
	CustomerName string `json:"customer_name"`
}

// ReportService derives read-only views from the stored orders. Nothing is
// cached; each call reads the repositories again.
type ReportService struct {
	orders    repositories.OrderRepository
	customers repositories.CustomerRepository
	now       func() time.Time
}

func NewReportService(orders repositories.OrderRepository, customers repositories.CustomerRepository) *ReportService {
	return &ReportService{
		orders:    orders,
		customers: customers,
		now:       time.Now,
	}
}

// WithClock replaces the time source used to anchor the summary windows.
func (s *ReportService) WithClock(now func() time.Time) *ReportService {
	s.now = now
	return s
}

// ListOrders returns every order newest first with its customer's name. An
// order whose customer was deleted gets a blank name.
func (s *ReportService) ListOrders(ctx context.Context) ([]OrderSummary, error) {
	orders, err := s.loadOrders(ctx, repositories.OrderFilter{})
	if err != nil {
		return nil, err
	}
	names, err := s.customerNames(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]OrderSummary, 0, len(orders))
	for _, o := range orders {
		out = append(out, OrderSummary{
			ID:            o.ID,
			SoldAt:        o.SoldAt,
			DeliveryDate:  o.DeliveryDate,
			CustomerID:    o.CustomerID,
			CustomerName:  names[o.CustomerID],
			PaymentMethod: o.PaymentMethod,
			Status:        o.Status,
			Total:         o.Total,
		})
	}
	return out, nil
}

// SalesSummary totals revenue and order count inside the period.
func (s *ReportService) SalesSummary(ctx context.Context, period Period) (*SalesSummary, error) {
	if _, err := ParsePeriod(string(period)); err != nil {
		return nil, err
	}
	if period == "" {
		period = PeriodAll
	}
	orders, err := s.loadOrders(ctx, repositories.OrderFilter{Since: period.Since(s.now())})
	if err != nil {
		return nil, err
	}
	summary := &SalesSummary{Period: period, Revenue: decimal.Zero}
	for _, o := range orders {
		summary.Revenue = summary.Revenue.Add(o.Total)
		summary.OrderCount++
	}
	return summary, nil
}

// TopProducts ranks products by quantity sold. Ties are ordered by product
// name, then id. A limit of zero or less returns every product.
func (s *ReportService) TopProducts(ctx context.Context, limit int) ([]ProductSales, error) {
	orders, err := s.loadOrders(ctx, repositories.OrderFilter{})
	if err != nil {
		return nil, err
	}
	byProduct := make(map[string]*ProductSales)
	for _, o := range orders {
		for _, l := range o.Lines {
			ps, ok := byProduct[l.ProductID]
			if !ok {
				// orders arrive newest first, so the first name seen is the latest one
				ps = &ProductSales{ProductID: l.ProductID, ProductName: l.ProductName, Revenue: decimal.Zero}
				byProduct[l.ProductID] = ps
			}
			ps.Quantity += l.Quantity
			ps.Revenue = ps.Revenue.Add(l.Total)
		}
	}
	out := make([]ProductSales, 0, len(byProduct))
	for _, ps := range byProduct {
		out = append(out, *ps)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		if out[i].ProductName != out[j].ProductName {
			return out[i].ProductName < out[j].ProductName
		}
		return out[i].ProductID < out[j].ProductID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// CustomerRanking lists every customer by total spend, highest first. Ties
// are ordered by name. Orders of deleted customers are ranked under a blank
// name.
func (s *ReportService) CustomerRanking(ctx context.Context) ([]CustomerRank, error) {
	customers, err := s.customers.GetAll(ctx)
	if err != nil {
		return nil, fromRepo(err, "customer")
	}
	orders, err := s.loadOrders(ctx, repositories.OrderFilter{})
	if err != nil {
		return nil, err
	}

	byCustomer := make(map[string]*CustomerRank, len(customers))
	for _, c := range customers {
		byCustomer[c.ID] = &CustomerRank{CustomerID: c.ID, CustomerName: c.Name, TotalSpent: decimal.Zero}
	}
	for _, o := range orders {
		rank, ok := byCustomer[o.CustomerID]
		if !ok {
			rank = &CustomerRank{CustomerID: o.CustomerID, TotalSpent: decimal.Zero}
			byCustomer[o.CustomerID] = rank
		}
		rank.TotalSpent = rank.TotalSpent.Add(o.Total)
		rank.OrderCount++
	}

	out := make([]CustomerRank, 0, len(byCustomer))
	for _, rank := range byCustomer {
		rank.AverageTicket = decimal.Zero
		if rank.OrderCount > 0 {
			rank.AverageTicket = rank.TotalSpent.Div(decimal.NewFromInt(int64(rank.OrderCount))).Round(2)
		}
		out = append(out, *rank)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].TotalSpent.Cmp(out[j].TotalSpent); c != 0 {
			return c > 0
		}
		if out[i].CustomerName != out[j].CustomerName {
			return out[i].CustomerName < out[j].CustomerName
		}
		return out[i].CustomerID < out[j].CustomerID
	})
	return out, nil
}

// OrderDetail returns one order with its lines and customer name.
func (s *ReportService) OrderDetail(ctx context.Context, id string) (*OrderDetail, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "order "+id)
	}
	detail := &OrderDetail{Order: *order}
	customer, err := s.customers.GetByID(ctx, order.CustomerID)
	switch {
	case err == nil:
		detail.CustomerName = customer.Name
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, NewStorage(fmt.Sprintf("failed to load customer of order %s", id), err)
	}
	return detail, nil
}

func (s *ReportService) loadOrders(ctx context.Context, filter repositories.OrderFilter) ([]models.Order, error) {
	orders, err := s.orders.GetAll(ctx, filter)
	if err != nil {
		return nil, fromRepo(err, "order")
	}
	return orders, nil
}

func (s *ReportService) customerNames(ctx context.Context) (map[string]string, error) {
	customers, err := s.customers.GetAll(ctx)
	if err != nil {
		return nil, fromRepo(err, "customer")
	}
	names := make(map[string]string, len(customers))
	for _, c := range customers {
		names[c.ID] = c.Name
	}
	return names, nil
}
