package models

import "time"

// Customer is a registered buyer. Orders keep their CustomerID even after the
// customer is deleted.
type Customer struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name      string    `json:"name" gorm:"type:varchar(120);not null" validate:"required,max=120"`
	Phone     string    `json:"phone" gorm:"type:varchar(30)" validate:"omitempty,max=30"`
	Address   string    `json:"address" gorm:"type:varchar(255)" validate:"omitempty,max=255"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
