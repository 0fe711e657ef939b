package models

import (
	"time"

	"gorm.io/gorm"
)

// ClothCustomizer represents an order produced by the design tool. It is a
// second order source with the same conceptual lifecycle as CustomOrder but
// no native status column; assignment state lives on the OrderAssignment
// record.
type ClothCustomizer struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	UserID           uint           `gorm:"not null;index" json:"user_id"`
	User             User           `gorm:"foreignKey:UserID" json:"user"`
	DesignData       string         `gorm:"type:text" json:"design_data"` // serialized design tool output
	Placement        string         `json:"placement"`                    // print/embroidery placement
	BaseItem         string         `json:"base_item"`
	Price            *float64       `json:"price"`
	AssignedTailorID *uint          `gorm:"index" json:"assigned_tailor_id"` // legacy pointer, superseded by OrderAssignment
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the ClothCustomizer model
func (ClothCustomizer) TableName() string {
	return "cloth_customizers"
}
