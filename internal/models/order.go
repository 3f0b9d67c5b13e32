package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLine is one product sold within an order. Name and price are copied
// from the catalog at sale time and never change afterwards.
type OrderLine struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID     string          `json:"order_id" gorm:"type:varchar(36);index;not null"`
	ProductID   string          `json:"product_id" gorm:"type:varchar(36);index;not null"`
	ProductName string          `json:"product_name" gorm:"type:varchar(100)"`
	UnitPrice   decimal.Decimal `json:"unit_price" gorm:"type:decimal(12,2);not null"`
	Quantity    int             `json:"quantity" gorm:"not null"`
	Total       decimal.Decimal `json:"total" gorm:"type:decimal(12,2);not null"`
	Position    int             `json:"-" gorm:"not null;default:0"`
}

// NewOrderLine builds a line whose total is always unitPrice * quantity.
func NewOrderLine(productID, productName string, unitPrice decimal.Decimal, quantity int) OrderLine {
	return OrderLine{
		ProductID:   productID,
		ProductName: productName,
		UnitPrice:   unitPrice,
		Quantity:    quantity,
		Total:       unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
	}
}

// Order is the persisted header of a completed sale.
type Order struct {
	ID            string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	SoldAt        time.Time       `json:"sold_at" gorm:"index;not null"`
	DeliveryDate  *time.Time      `json:"delivery_date,omitempty"`
	CustomerID    string          `json:"customer_id" gorm:"type:varchar(36);index;not null"`
	PaymentMethod string          `json:"payment_method" gorm:"type:varchar(50);not null"`
	Note          string          `json:"note,omitempty" gorm:"type:text"`
	Status        OrderStatus     `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	Total         decimal.Decimal `json:"total" gorm:"type:decimal(12,2);not null"`
	Lines         []OrderLine     `json:"lines" gorm:"foreignKey:OrderID"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// LinesTotal sums the totals of the order lines.
func (o *Order) LinesTotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range o.Lines {
		total = total.Add(line.Total)
	}
	return total
}
