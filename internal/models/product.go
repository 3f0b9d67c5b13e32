package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents an item of the bakery catalog.
type Product struct {
	ID        string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name      string          `json:"name" gorm:"type:varchar(100);not null" validate:"required,max=100"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	Size      string          `json:"size" gorm:"type:varchar(50)" validate:"omitempty,max=50"`
	Active    bool            `json:"active" gorm:"not null"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
