// Package cart holds the in-progress lines of a single ordering session.
package cart

import (
	"errors"

	"bakery/internal/models"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrInactiveProduct = errors.New("product is not available for sale")
	ErrUnknownProduct  = errors.New("product reference is required")
)

// Line is a draft order line. ProductName and UnitPrice are copied from the
// catalog when the line is added; later catalog edits do not touch them.
type Line struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// Cart is owned by exactly one session. It is not safe for concurrent use.
type Cart struct {
	Lines []Line `json:"lines"`
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// AddLine appends a snapshot of product. Adding the same product twice
// yields two lines.
func (c *Cart) AddLine(product models.Product, quantity int) error {
	if product.ID == "" {
		return ErrUnknownProduct
	}
	if !product.Active {
		return ErrInactiveProduct
	}
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	c.Lines = append(c.Lines, Line{
		ProductID:   product.ID,
		ProductName: product.Name,
		UnitPrice:   product.Price,
		Quantity:    quantity,
		Subtotal:    product.Price.Mul(decimal.NewFromInt(int64(quantity))),
	})
	return nil
}

// Clear drops every line.
func (c *Cart) Clear() {
	c.Lines = nil
}

// Total is recomputed from unit price and quantity on every call.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

func (c *Cart) Len() int {
	return len(c.Lines)
}

// Snapshot returns a copy of the lines so callers can iterate while the cart
// is cleared.
func (c *Cart) Snapshot() []Line {
	out := make([]Line, len(c.Lines))
	copy(out, c.Lines)
	return out
}
