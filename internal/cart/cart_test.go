package cart_test

import (
	"testing"

	"bakery/internal/cart"
	"bakery/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id, name, price string) models.Product {
	return models.Product{ID: id, Name: name, Price: decimal.RequireFromString(price), Active: true}
}

func TestAddLine_SnapshotsPriceAndName(t *testing.T) {
	c := cart.New()
	p := product("p1", "Chocolate Cake", "45.00")

	require.NoError(t, c.AddLine(p, 2))

	p.Price = decimal.RequireFromString("99.00")
	p.Name = "Renamed"

	require.Len(t, c.Lines, 1)
	assert.Equal(t, "Chocolate Cake", c.Lines[0].ProductName)
	assert.True(t, decimal.RequireFromString("45").Equal(c.Lines[0].UnitPrice))
	assert.True(t, decimal.RequireFromString("90").Equal(c.Lines[0].Subtotal))
}

func TestAddLine_RepeatedProductAddsNewLine(t *testing.T) {
	c := cart.New()
	p := product("p1", "Chocolate Cake", "45.00")

	require.NoError(t, c.AddLine(p, 1))
	require.NoError(t, c.AddLine(p, 1))

	assert.Equal(t, 2, c.Len())
	assert.True(t, decimal.RequireFromString("90").Equal(c.Total()))
}

func TestAddLine_Rejections(t *testing.T) {
	c := cart.New()

	err := c.AddLine(product("p1", "Cake", "10"), 0)
	assert.ErrorIs(t, err, cart.ErrInvalidQuantity)

	err = c.AddLine(product("p1", "Cake", "10"), -3)
	assert.ErrorIs(t, err, cart.ErrInvalidQuantity)

	inactive := product("p2", "Old Cake", "10")
	inactive.Active = false
	err = c.AddLine(inactive, 1)
	assert.ErrorIs(t, err, cart.ErrInactiveProduct)

	err = c.AddLine(models.Product{Name: "No id", Active: true}, 1)
	assert.ErrorIs(t, err, cart.ErrUnknownProduct)

	assert.True(t, c.IsEmpty())
}

func TestTotalAndClear(t *testing.T) {
	c := cart.New()
	assert.True(t, decimal.Zero.Equal(c.Total()))

	require.NoError(t, c.AddLine(product("a", "A", "45.00"), 2))
	require.NoError(t, c.AddLine(product("b", "B", "30.00"), 1))
	assert.True(t, decimal.RequireFromString("120").Equal(c.Total()))

	snap := c.Snapshot()
	c.Clear()
	assert.True(t, c.IsEmpty())
	assert.True(t, decimal.Zero.Equal(c.Total()))
	assert.Len(t, snap, 2)
}
