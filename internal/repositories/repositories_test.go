package repositories_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"bakery/internal/database"
	"bakery/internal/models"
	"bakery/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Open("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

type backend struct {
	name      string
	products  repositories.ProductRepository
	customers repositories.CustomerRepository
	orders    repositories.OrderRepository
	users     repositories.UserRepository
}

func backends(t *testing.T) []backend {
	db := setupDB(t)
	return []backend{
		{
			name:      "gorm",
			products:  repositories.NewGORMProductRepository(db),
			customers: repositories.NewGORMCustomerRepository(db),
			orders:    repositories.NewGORMOrderRepository(db),
			users:     repositories.NewGORMUserRepository(db),
		},
		{
			name:      "memory",
			products:  repositories.NewMemoryProductRepository(),
			customers: repositories.NewMemoryCustomerRepository(),
			orders:    repositories.NewMemoryOrderRepository(),
			users:     repositories.NewMemoryUserRepository(),
		},
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestProductRepository(t *testing.T) {
	for _, b := range backends(t) {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			repo := b.products

			cake := &models.Product{Name: "Chocolate Cake", Price: dec("45.50"), Size: "M", Active: true}
			pie := &models.Product{Name: "Apple Pie", Price: dec("30"), Size: "S", Active: false}
			require.NoError(t, repo.Create(ctx, cake))
			require.NoError(t, repo.Create(ctx, pie))
			assert.NotEmpty(t, cake.ID)
			assert.False(t, pie.Active)

			stored, err := repo.GetByID(ctx, pie.ID)
			require.NoError(t, err)
			assert.False(t, stored.Active)

			all, err := repo.GetAll(ctx)
			require.NoError(t, err)
			require.Len(t, all, 2)
			assert.Equal(t, "Apple Pie", all[0].Name)

			active, err := repo.ListActive(ctx)
			require.NoError(t, err)
			require.Len(t, active, 1)
			assert.Equal(t, cake.ID, active[0].ID)

			fetched, err := repo.GetByID(ctx, cake.ID)
			require.NoError(t, err)
			assert.True(t, dec("45.5").Equal(fetched.Price))
			assert.True(t, fetched.Active)

			fetched.Price = dec("50")
			fetched.Name = "Dark Chocolate Cake"
			require.NoError(t, repo.Update(ctx, fetched))
			fetched, err = repo.GetByID(ctx, cake.ID)
			require.NoError(t, err)
			assert.Equal(t, "Dark Chocolate Cake", fetched.Name)
			assert.True(t, dec("50").Equal(fetched.Price))

			require.NoError(t, repo.SetActive(ctx, pie.ID, true))
			active, err = repo.ListActive(ctx)
			require.NoError(t, err)
			assert.Len(t, active, 2)

			require.NoError(t, repo.Delete(ctx, pie.ID))
			_, err = repo.GetByID(ctx, pie.ID)
			assert.ErrorIs(t, err, repositories.ErrNotFound)

			assert.ErrorIs(t, repo.Delete(ctx, "missing"), repositories.ErrNotFound)
			assert.ErrorIs(t, repo.SetActive(ctx, "missing", false), repositories.ErrNotFound)
			assert.ErrorIs(t, repo.Update(ctx, &models.Product{ID: "missing", Name: "x"}), repositories.ErrNotFound)
		})
	}
}

func TestCustomerRepository(t *testing.T) {
	for _, b := range backends(t) {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			repo := b.customers

			maria := &models.Customer{Name: "Maria", Phone: "1199999", Address: "Rua A, 10"}
			require.NoError(t, repo.Create(ctx, maria))

			maria.Phone = "1188888"
			require.NoError(t, repo.Update(ctx, maria))

			got, err := repo.GetByID(ctx, maria.ID)
			require.NoError(t, err)
			assert.Equal(t, "1188888", got.Phone)

			all, err := repo.GetAll(ctx)
			require.NoError(t, err)
			assert.Len(t, all, 1)

			require.NoError(t, repo.Delete(ctx, maria.ID))
			_, err = repo.GetByID(ctx, maria.ID)
			assert.ErrorIs(t, err, repositories.ErrNotFound)
			assert.ErrorIs(t, repo.Delete(ctx, maria.ID), repositories.ErrNotFound)
		})
	}
}

func newOrder(customerID string, soldAt time.Time, lines ...models.OrderLine) *models.Order {
	o := &models.Order{
		SoldAt:        soldAt,
		CustomerID:    customerID,
		PaymentMethod: "Pix",
		Status:        models.OrderStatusPending,
		Lines:         lines,
	}
	o.Total = o.LinesTotal()
	return o
}

func TestOrderRepository_CreateReadUpdateDelete(t *testing.T) {
	for _, b := range backends(t) {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			repo := b.orders

			now := time.Now().UTC().Truncate(time.Second)
			order := newOrder("c1", now,
				models.NewOrderLine("pa", "Product A", dec("45"), 2),
				models.NewOrderLine("pb", "Product B", dec("30"), 1),
			)
			require.NoError(t, repo.CreateWithLines(ctx, order))
			require.NotEmpty(t, order.ID)

			got, err := repo.GetByID(ctx, order.ID)
			require.NoError(t, err)
			require.Len(t, got.Lines, 2)
			assert.Equal(t, "pa", got.Lines[0].ProductID)
			assert.Equal(t, "pb", got.Lines[1].ProductID)
			assert.Equal(t, order.ID, got.Lines[0].OrderID)
			assert.True(t, dec("120").Equal(got.Total))
			assert.True(t, got.Total.Equal(got.LinesTotal()))
			assert.Equal(t, models.OrderStatusPending, got.Status)

			require.NoError(t, repo.UpdateStatus(ctx, order.ID, models.OrderStatusReady))
			got, err = repo.GetByID(ctx, order.ID)
			require.NoError(t, err)
			assert.Equal(t, models.OrderStatusReady, got.Status)
			assert.ErrorIs(t, repo.UpdateStatus(ctx, "missing", models.OrderStatusReady), repositories.ErrNotFound)

			require.NoError(t, repo.Delete(ctx, order.ID))
			_, err = repo.GetByID(ctx, order.ID)
			assert.ErrorIs(t, err, repositories.ErrNotFound)
			assert.ErrorIs(t, repo.Delete(ctx, order.ID), repositories.ErrNotFound)
		})
	}
}

func TestOrderRepository_GetAllFiltersAndSorts(t *testing.T) {
	for _, b := range backends(t) {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			repo := b.orders

			now := time.Now().UTC().Truncate(time.Second)
			old := newOrder("c1", now.Add(-10*24*time.Hour), models.NewOrderLine("p", "P", dec("10"), 1))
			recent := newOrder("c1", now.Add(-time.Hour), models.NewOrderLine("p", "P", dec("20"), 1))
			require.NoError(t, repo.CreateWithLines(ctx, old))
			require.NoError(t, repo.CreateWithLines(ctx, recent))

			all, err := repo.GetAll(ctx, repositories.OrderFilter{})
			require.NoError(t, err)
			require.Len(t, all, 2)
			assert.Equal(t, recent.ID, all[0].ID)
			assert.Len(t, all[1].Lines, 1)

			week, err := repo.GetAll(ctx, repositories.OrderFilter{Since: now.Add(-7 * 24 * time.Hour)})
			require.NoError(t, err)
			require.Len(t, week, 1)
			assert.Equal(t, recent.ID, week[0].ID)
		})
	}
}

func TestGORMOrderRepository_DeleteRemovesLines(t *testing.T) {
	db := setupDB(t)
	repo := repositories.NewGORMOrderRepository(db)
	ctx := context.Background()

	order := newOrder("c1", time.Now().UTC(), models.NewOrderLine("p", "P", dec("5"), 3))
	require.NoError(t, repo.CreateWithLines(ctx, order))

	var count int64
	require.NoError(t, db.Model(&models.OrderLine{}).Where("order_id = ?", order.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	require.NoError(t, repo.Delete(ctx, order.ID))
	require.NoError(t, db.Model(&models.OrderLine{}).Where("order_id = ?", order.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestGORMOrderRepository_CreateRollsBackOnLineFailure(t *testing.T) {
	db := setupDB(t)
	repo := repositories.NewGORMOrderRepository(db)
	ctx := context.Background()

	existing := newOrder("c1", time.Now().UTC(), models.NewOrderLine("p", "P", dec("5"), 1))
	require.NoError(t, repo.CreateWithLines(ctx, existing))

	// The second line reuses a primary key that is already taken.
	dup := models.NewOrderLine("p", "P", dec("5"), 1)
	dup.ID = existing.Lines[0].ID
	broken := newOrder("c1", time.Now().UTC(), models.NewOrderLine("p", "P", dec("5"), 1), dup)

	err := repo.CreateWithLines(ctx, broken)
	require.Error(t, err)

	_, err = repo.GetByID(ctx, broken.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	var count int64
	require.NoError(t, db.Model(&models.OrderLine{}).Where("order_id = ?", broken.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestUserRepository(t *testing.T) {
	for _, b := range backends(t) {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			repo := b.users

			user := &models.User{Username: "baker", Email: "baker@example.com", Password: "hash"}
			require.NoError(t, repo.Create(ctx, user))

			byName, err := repo.GetByUsername(ctx, "baker")
			require.NoError(t, err)
			assert.Equal(t, user.ID, byName.ID)

			byEmail, err := repo.GetByEmail(ctx, "baker@example.com")
			require.NoError(t, err)
			assert.Equal(t, user.ID, byEmail.ID)

			byID, err := repo.GetByID(ctx, user.ID)
			require.NoError(t, err)
			assert.Equal(t, "baker", byID.Username)

			_, err = repo.GetByUsername(ctx, "nobody")
			assert.ErrorIs(t, err, repositories.ErrNotFound)

			err = repo.Create(ctx, &models.User{Username: "baker", Email: "other@example.com", Password: "hash"})
			assert.ErrorIs(t, err, repositories.ErrDuplicate)
		})
	}
}
