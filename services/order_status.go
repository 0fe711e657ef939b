package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/threadline/threadline-api/models"
)

// orderTransitions is the allowed-next table for CustomOrder status changes
// made by non-admin callers. "cancelled" is reachable only through the admin
// override and is deliberately absent here.
var orderTransitions = map[string][]string{
	models.OrderStatusPending:    {models.OrderStatusAssigned},
	models.OrderStatusAssigned:   {models.OrderStatusAccepted},
	models.OrderStatusAccepted:   {models.OrderStatusInProgress},
	models.OrderStatusInProgress: {models.OrderStatusCompleted},
	models.OrderStatusCompleted:  {models.OrderStatusDelivered},
}

// knownOrderStatuses is the full status vocabulary, used to reject garbage
// even on the admin path (the override bypasses transition checks, not the
// status domain itself)
var knownOrderStatuses = map[string]bool{
	models.OrderStatusPending:    true,
	models.OrderStatusAssigned:   true,
	models.OrderStatusAccepted:   true,
	models.OrderStatusInProgress: true,
	models.OrderStatusCompleted:  true,
	models.OrderStatusDelivered:  true,
	models.OrderStatusCancelled:  true,
}

// OrderStatusService enforces the order-aware transition table when a
// CustomOrder document's own status field is updated directly
type OrderStatusService struct {
	db *gorm.DB
}

// NewOrderStatusService creates an order status service on the given database
func NewOrderStatusService(db *gorm.DB) *OrderStatusService {
	return &OrderStatusService{db: db}
}

// AllowedNext returns the statuses reachable from the given status by a
// non-admin caller
func AllowedNext(status string) []string {
	return orderTransitions[status]
}

// UpdateStatus changes a CustomOrder's status. Admins set any known status
// unconditionally. Other callers must own the tailor profile the order is
// assigned to, and the change must follow the transition table.
func (s *OrderStatusService) UpdateStatus(actor *models.User, orderID uint, newStatus string) (*models.CustomOrder, error) {
	if !knownOrderStatuses[newStatus] {
		return nil, &ValidationError{Message: "unknown order status: " + newStatus}
	}

	var order models.CustomOrder
	if err := s.db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "order"}
		}
		return nil, err
	}

	if !actor.IsAdmin() {
		var tailor models.Tailor
		err := s.db.Where("user_id = ?", actor.ID).First(&tailor).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ForbiddenError{Message: "no tailor profile for caller"}
		}
		if err != nil {
			return nil, err
		}
		if order.AssignedTailorID == nil || *order.AssignedTailorID != tailor.ID {
			return nil, &ForbiddenError{Message: "order is not assigned to caller"}
		}

		allowed := false
		for _, next := range orderTransitions[order.Status] {
			if next == newStatus {
				allowed = true
				break
			}
		}
		if !allowed {
			return nil, &InvalidTransitionError{From: order.Status, To: newStatus}
		}
	}

	if err := s.db.Model(&order).Update("status", newStatus).Error; err != nil {
		return nil, err
	}

	if order.AssignedTailorID != nil {
		InvalidateActiveOrderCount(*order.AssignedTailorID)
	}

	return &order, nil
}
