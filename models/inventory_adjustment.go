package models

import (
	"time"

	"gorm.io/gorm"
)

// Adjustment statuses. "applying" is a transient guard state: exactly one
// caller may hold it at a time, and every apply path exits it by persisting
// either "applied" or "failed".
const (
	AdjustmentStatusPending  = "pending"
	AdjustmentStatusApplying = "applying"
	AdjustmentStatusApplied  = "applied"
	AdjustmentStatusFailed   = "failed"
)

// Adjustment sources
const (
	AdjustmentSourceOutlet = "outlet"
)

// Line-item statuses
const (
	AdjustmentItemPending = "pending"
	AdjustmentItemApplied = "applied"
	AdjustmentItemFailed  = "failed"
)

// InventoryAdjustment is a ledger entry representing the stock decrement owed
// for one payment. PaymentID is the idempotency key: exactly one adjustment
// exists per payment, and it is applied at most once.
type InventoryAdjustment struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	Reference string           `gorm:"uniqueIndex;not null" json:"reference"` // opaque id used in responses and logs
	PaymentID string           `gorm:"uniqueIndex;not null" json:"payment_id"`
	Source    string           `gorm:"not null;default:'outlet'" json:"source"`
	Status    string           `gorm:"not null;default:'pending';index" json:"status"`
	Items     []AdjustmentItem `gorm:"foreignKey:AdjustmentID" json:"items"`
	AppliedAt *time.Time       `json:"applied_at"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	DeletedAt gorm.DeletedAt   `gorm:"index" json:"-"`
}

// TableName specifies the table name for the InventoryAdjustment model
func (InventoryAdjustment) TableName() string {
	return "inventory_adjustments"
}

// AdjustmentItem is one line of an adjustment. Each line records its own
// outcome so a retry of a failed adjustment only attempts lines that have not
// already been decremented.
type AdjustmentItem struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	AdjustmentID   uint      `gorm:"not null;index" json:"adjustment_id"`
	ClothingItemID uint      `gorm:"not null;index" json:"clothing_item_id"`
	Quantity       int       `gorm:"not null;check:quantity > 0" json:"quantity"`
	Status         string    `gorm:"not null;default:'pending'" json:"status"`
	Reason         string    `json:"reason,omitempty"` // failure reason, empty unless status is failed
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName specifies the table name for the AdjustmentItem model
func (AdjustmentItem) TableName() string {
	return "adjustment_items"
}
