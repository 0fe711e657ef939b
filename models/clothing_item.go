package models

import (
	"time"

	"gorm.io/gorm"
)

// ClothingItem represents an outlet store item. Stock is mutated only through
// the reconciler's guarded decrement and the admin stock edit endpoint.
type ClothingItem struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	Category  string         `gorm:"index" json:"category"`
	Price     float64        `gorm:"not null" json:"price"`
	Stock     int            `gorm:"not null;default:0;check:stock >= 0" json:"stock"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the ClothingItem model
func (ClothingItem) TableName() string {
	return "clothing_items"
}
