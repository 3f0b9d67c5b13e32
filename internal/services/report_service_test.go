package services_test

import (
	"testing"
	"time"

	"bakery/internal/models"
	"bakery/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	for _, raw := range []string{"all", "today", "7d", "30d"} {
		p, err := services.ParsePeriod(raw)
		require.NoError(t, err)
		assert.Equal(t, services.Period(raw), p)
	}
	p, err := services.ParsePeriod("")
	require.NoError(t, err)
	assert.Equal(t, services.PeriodAll, p)

	_, err = services.ParsePeriod("90d")
	assert.Equal(t, services.KindValidation, services.KindOf(err))
}

func TestPeriodSince(t *testing.T) {
	now := time.Date(2024, 5, 10, 14, 30, 0, 0, time.UTC)
	assert.True(t, services.PeriodAll.Since(now).IsZero())
	assert.Equal(t, time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), services.PeriodToday.Since(now))
	assert.Equal(t, now.Add(-7*24*time.Hour), services.Period7Days.Since(now))
	assert.Equal(t, now.Add(-30*24*time.Hour), services.Period30Days.Since(now))
}

func TestSalesSummary_Windows(t *testing.T) {
	f := newFixture(t, models.FreeWorkflow())
	f.reportSvc.WithClock(func() time.Time { return fixedNow })
	customer := f.customer(t, "Ana")
	cake := f.product(t, "Cake", "10.00")

	f.sale(t, customer.ID, fixedNow.Add(-time.Hour), line(cake, 1))      // today
	f.sale(t, customer.ID, fixedNow.Add(-3*24*time.Hour), line(cake, 2)) // this week
	f.sale(t, customer.ID, fixedNow.Add(-20*24*time.Hour), line(cake, 4))
	f.sale(t, customer.ID, fixedNow.Add(-60*24*time.Hour), line(cake, 8))

	cases := []struct {
		period  services.Period
		revenue string
		count   int
	}{
		{services.PeriodToday, "10", 1},
		{services.Period7Days, "30", 2},
		{services.Period30Days, "70", 3},
		{services.PeriodAll, "150", 4},
	}
	for _, tc := range cases {
		t.Run(string(tc.period), func(t *testing.T) {
			summary, err := f.reportSvc.SalesSummary(ctx, tc.period)
			require.NoError(t, err)
			assert.Equal(t, tc.period, summary.Period)
			assert.True(t, dec(tc.revenue).Equal(summary.Revenue), "revenue %s", summary.Revenue)
			assert.Equal(t, tc.count, summary.OrderCount)
		})
	}

	_, err := f.reportSvc.SalesSummary(ctx, services.Period("year"))
	assert.Equal(t, services.KindValidation, services.KindOf(err))
}

func TestSalesSummary_Empty(t *testing.T) {
	f := newFixture(t, models.FreeWorkflow())

	summary, err := f.reportSvc.SalesSummary(ctx, services.PeriodAll)
	require.NoError(t, err)
	assert.True(t, summary.Revenue.IsZero())
	assert.Equal(t, 0, summary.OrderCount)
}

func TestTopProducts_TieBreakByName(t *testing.T) {
	f := newFixture(t, models.FreeWorkflow())
	customer := f.customer(t, "Ana")
	cakeY := f.product(t, "CakeY", "10.00")
	cakeX := f.product(t, "CakeX", "12.00")
	pie := f.product(t, "Pie", "4.00")

	f.sale(t, customer.ID, fixedNow, line(cakeY, 1), line(cakeX, 2))
	f.sale(t, customer.ID, fixedNow.Add(time.Minute), line(cakeY, 2), line(cakeX, 1), line(pie, 1))

	top, err := f.reportSvc.TopProducts(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, "CakeX", top[0].ProductName)
	assert.Equal(t, 3, top[0].Quantity)
	assert.True(t, dec("36.00").Equal(top[0].Revenue))
	assert.Equal(t, "CakeY", top[1].ProductName)
	assert.Equal(t, 3, top[1].Quantity)
	assert.Equal(t, "Pie", top[2].ProductName)

	limited, err := f.reportSvc.TopProducts(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, cakeX.ID, limited[0].ProductID)
}

func TestTopProducts_DeletedProductStillReported(t *testing.T) {
	f := newFixture(t, models.FreeWorkflow())
	customer := f.customer(t, "Ana")
	cake := f.product(t, "Seasonal Cake", "20.00")
	f.sale(t, customer.ID, fixedNow, line(cake, 2))

	require.NoError(t, f.productSvc.Delete(ctx, cake.ID))

	top, err := f.reportSvc.TopProducts(ctx, 0)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "Seasonal Cake", top[0].ProductName)
	assert.Equal(t, 2, top[0].Quantity)
}

func TestCustomerRanking(t *testing.T) {
	f := newFixture(t, models.FreeWorkflow())
	a := f.customer(t, "A")
	b := f.customer(t, "B")
	idle := f.customer(t, "C")
	treat := f.product(t, "Treat", "1.00")

	f.sale(t, a.ID, fixedNow, line(treat, 30))
	f.sale(t, a.ID, fixedNow, line(treat, 70))
	f.sale(t, b.ID, fixedNow, line(treat, 200))

	ranking, err := f.reportSvc.CustomerRanking(ctx)
	require.NoError(t, err)
	require.Len(t, ranking, 3)

	assert.Equal(t, b.ID, ranking[0].CustomerID)
	assert.True(t, dec("200").Equal(ranking[0].TotalSpent))
	assert.Equal(t, 1, ranking[0].OrderCount)

	assert.Equal(t, a.ID, ranking[1].CustomerID)
	assert.True(t, dec("100").Equal(ranking[1].TotalSpent))
	assert.Equal(t, 2, ranking[1].OrderCount)
	assert.True(t, dec("50").Equal(ranking[1].AverageTicket))

	assert.Equal(t, idle.ID, ranking[2].CustomerID)
	assert.True(t, ranking[2].TotalSpent.IsZero())
	assert.True(t, ranking[2].AverageTicket.IsZero())
}

func TestCustomerRanking_TiesByName(t *testing.T) {
	f := newFixture(t, models.FreeWorkflow())
	zoe := f.customer(t, "Zoe")
	bia := f.customer(t, "Bia")
	treat := f.product(t, "Treat", "5.00")

	f.sale(t, zoe.ID, fixedNow, line(treat, 2))
	f.sale(t, bia.ID, fixedNow, line(treat, 2))

	ranking, err := f.reportSvc.CustomerRanking(ctx)
	require.NoError(t, err)
	require.Len(t, ranking, 2)
	assert.Equal(t, "Bia", ranking[0].CustomerName)
	assert.Equal(t, "Zoe", ranking[1].CustomerName)
}

func TestListOrders_DanglingCustomer(t *testing.T) {
	f := newFixture(t, models.FreeWorkflow())
	ana := f.customer(t, "Ana")
	gone := f.customer(t, "Gone")
	cake := f.product(t, "Cake", "10.00")

	first := f.sale(t, ana.ID, fixedNow.Add(-time.Hour), line(cake, 1))
	second := f.sale(t, gone.ID, fixedNow, line(cake, 2))
	require.NoError(t, f.customerSvc.Delete(ctx, gone.ID))

	orders, err := f.reportSvc.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, second.ID, orders[0].ID)
	assert.Equal(t, "", orders[0].CustomerName)
	assert.Equal(t, gone.ID, orders[0].CustomerID)
	assert.Equal(t, first.ID, orders[1].ID)
	assert.Equal(t, "Ana", orders[1].CustomerName)
	assert.True(t, dec("10").Equal(orders[1].Total))

	ranking, err := f.reportSvc.CustomerRanking(ctx)
	require.NoError(t, err)
	require.Len(t, ranking, 2)
	assert.Equal(t, gone.ID, ranking[0].CustomerID)
	assert.Equal(t, "", ranking[0].CustomerName)
}

func TestOrderDetail(t *testing.T) {
	f := newFixture(t, models.FreeWorkflow())
	ana := f.customer(t, "Ana")
	cake := f.product(t, "Cake", "10.00")
	pie := f.product(t, "Pie", "4.50")
	order := f.sale(t, ana.ID, fixedNow, line(cake, 1), line(pie, 2))

	detail, err := f.reportSvc.OrderDetail(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", detail.CustomerName)
	require.Len(t, detail.Lines, 2)
	assert.Equal(t, "Cake", detail.Lines[0].ProductName)
	assert.Equal(t, "Pie", detail.Lines[1].ProductName)
	assert.True(t, dec("19.00").Equal(detail.Total))

	require.NoError(t, f.customerSvc.Delete(ctx, ana.ID))
	detail, err = f.reportSvc.OrderDetail(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "", detail.CustomerName)

	_, err = f.reportSvc.OrderDetail(ctx, "missing")
	assert.Equal(t, services.KindNotFound, services.KindOf(err))
}
