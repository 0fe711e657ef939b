package models

import (
	"time"

	"gorm.io/gorm"
)

// BusyOrderThreshold is the active-order count above which a tailor is
// reported as busy. Busy is derived at read time and never stored.
const BusyOrderThreshold = 10

// Tailor represents a tailor profile, owned by exactly one user
type Tailor struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"uniqueIndex;not null" json:"user_id"` // owning user, one profile per user
	User        User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	DisplayName string         `gorm:"not null" json:"display_name"`
	Phone       string         `json:"phone"`
	Skills      []string       `gorm:"serializer:json" json:"skills"`
	IsActive    bool           `gorm:"not null;default:true" json:"is_active"`
	Rating      float64        `json:"rating"`
	PayoutEmail string         `json:"payout_email"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Tailor model
func (Tailor) TableName() string {
	return "tailors"
}
