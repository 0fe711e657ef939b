package models

import (
	"time"

	"gorm.io/gorm"
)

// CustomOrder statuses
const (
	OrderStatusPending    = "pending"
	OrderStatusAssigned   = "assigned"
	OrderStatusAccepted   = "accepted"
	OrderStatusInProgress = "in_progress"
	OrderStatusCompleted  = "completed"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// CustomOrder represents a customer-authored design order
type CustomOrder struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	CustomerID       uint           `gorm:"not null;index" json:"customer_id"`
	Customer         User           `gorm:"foreignKey:CustomerID" json:"customer"`
	ClothingType     string         `gorm:"not null" json:"clothing_type"`
	Size             string         `gorm:"not null" json:"size"`
	Color            string         `json:"color"`
	Quantity         int            `gorm:"not null;check:quantity > 0" json:"quantity"`
	Notes            string         `json:"notes"`
	DesignSnapshot   string         `gorm:"type:text" json:"design_snapshot"` // serialized design at submission time
	Measurements     map[string]float64 `gorm:"serializer:json" json:"measurements"`
	Status           string         `gorm:"not null;default:'pending';index" json:"status"`
	AssignedTailorID *uint          `gorm:"index" json:"assigned_tailor_id"` // mirror of the assignment record, set by the engine
	AssignedTailor   *Tailor        `gorm:"foreignKey:AssignedTailorID" json:"assigned_tailor,omitempty"`
	AssignedAt       *time.Time     `json:"assigned_at"`
	Price            *float64       `json:"price"` // nullable, set when the order is priced
	PayoutAmount     *float64       `json:"payout_amount"`
	PayoutAt         *time.Time     `json:"payout_at"`
	PreviewKeys      []string       `gorm:"serializer:json" json:"preview_keys"` // storage keys for the preview gallery
	PreviewURLs      []string       `gorm:"-" json:"preview_urls,omitempty"`     // computed, presigned URLs for the gallery
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the CustomOrder model
func (CustomOrder) TableName() string {
	return "custom_orders"
}

// TerminalOrderStatus reports whether a CustomOrder status is terminal
func TerminalOrderStatus(status string) bool {
	return status == OrderStatusDelivered || status == OrderStatusCancelled
}
