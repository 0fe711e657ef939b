package models

import (
	"time"

	"gorm.io/gorm"
)

// Order sources. Orders are identified by (source, id) pairs because ids are
// not unique across the two collections.
const (
	OrderSourceCustomOrder     = "CustomOrder"
	OrderSourceClothCustomizer = "ClothCustomizer"
)

// Assignment statuses
const (
	AssignmentStatusUnassigned = "unassigned"
	AssignmentStatusAssigned   = "assigned"
	AssignmentStatusAccepted   = "accepted"
	AssignmentStatusInProgress = "in_progress"
	AssignmentStatusCompleted  = "completed"
	AssignmentStatusRejected   = "rejected"
)

// OrderAssignment is the authoritative binding between an order and a tailor.
// At most one assignment record exists per (source, order) pair; reassignment
// overwrites in place, no history is kept.
type OrderAssignment struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	OrderSource string         `gorm:"not null;uniqueIndex:idx_assignment_source_order" json:"order_source"`
	OrderID     uint           `gorm:"not null;uniqueIndex:idx_assignment_source_order" json:"order_id"`
	TailorID    uint           `gorm:"not null;index" json:"tailor_id"`
	Tailor      Tailor         `gorm:"foreignKey:TailorID" json:"tailor,omitempty"`
	Status      string         `gorm:"not null;default:'unassigned';index" json:"status"`
	AssignedAt  *time.Time     `json:"assigned_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the OrderAssignment model
func (OrderAssignment) TableName() string {
	return "order_assignments"
}

// ValidOrderSource reports whether source names a known order collection
func ValidOrderSource(source string) bool {
	return source == OrderSourceCustomOrder || source == OrderSourceClothCustomizer
}

// SupportsNativeStatus reports whether the order source carries its own
// multi-state status column. ClothCustomizer orders do not; their lifecycle
// lives entirely on the assignment record.
func SupportsNativeStatus(source string) bool {
	return source == OrderSourceCustomOrder
}

// TerminalAssignmentStatus reports whether an assignment status is terminal
func TerminalAssignmentStatus(status string) bool {
	return status == AssignmentStatusCompleted || status == AssignmentStatusRejected
}
