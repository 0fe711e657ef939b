package services

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/threadline/threadline-api/config"
	"github.com/threadline/threadline-api/models"
)

// Statuses a tailor may set on their own assignment. Admins bypass this set.
var tailorAssignmentStatuses = map[string]bool{
	models.AssignmentStatusAssigned:   true,
	models.AssignmentStatusAccepted:   true,
	models.AssignmentStatusInProgress: true,
	models.AssignmentStatusCompleted:  true,
	models.AssignmentStatusRejected:   true,
}

// AssignmentService owns the order-to-tailor binding. The OrderAssignment
// record is authoritative; the fields mirrored onto CustomOrder documents are
// a read optimization kept in sync here, never by triggers.
type AssignmentService struct {
	db  *gorm.DB
	log *logrus.Logger
}

// NewAssignmentService creates an assignment service on the given database
func NewAssignmentService(db *gorm.DB) *AssignmentService {
	return &AssignmentService{db: db, log: config.GetLogger()}
}

// AssignResult reports the outcome of an assignment write. Mirrored is false
// when the best-effort mirror onto the CustomOrder document failed.
type AssignResult struct {
	Assignment *models.OrderAssignment `json:"assignment"`
	Mirrored   bool                    `json:"mirrored"`
}

// AssignedOrder pairs an assignment with its resolved order view
type AssignedOrder struct {
	Assignment *models.OrderAssignment `json:"assignment"`
	Order      *OrderView              `json:"order"`
}

// AssignmentFilters narrows assignment listings
type AssignmentFilters struct {
	Status      string
	TailorID    uint
	OrderSource string
}

// TailorGroup is one tailor's bucket in the grouped admin view
type TailorGroup struct {
	TailorID    uint                     `json:"tailor_id"`
	DisplayName string                   `json:"display_name"`
	IsActive    bool                     `json:"is_active"`
	Assignments []models.OrderAssignment `json:"assignments"`
}

// Assign binds the order identified by (source, orderID) to the given tailor.
// Admin only. The tailor must exist and be active. Re-assigning an already
// assigned order overwrites the previous binding in place; no history is kept.
func (s *AssignmentService) Assign(actor *models.User, source string, orderID, tailorID uint) (*AssignResult, error) {
	if !actor.IsAdmin() {
		return nil, &ForbiddenError{Message: "only admins can assign orders"}
	}
	if !models.ValidOrderSource(source) {
		return nil, &ValidationError{Message: "invalid order source: " + source}
	}

	var tailor models.Tailor
	if err := s.db.First(&tailor, tailorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ValidationError{Message: "tailor does not exist"}
		}
		return nil, err
	}
	if !tailor.IsActive {
		return nil, &ValidationError{Message: "tailor is not active"}
	}

	// The order must resolve before any write happens
	view, err := ResolveOrder(s.db, source, orderID)
	if err != nil {
		return nil, err
	}
	if view == nil {
		return nil, &NotFoundError{Resource: "order"}
	}

	now := time.Now()

	// Upsert keyed on (source, orderID): at most one assignment per order
	var assignment models.OrderAssignment
	err = s.db.Where("order_source = ? AND order_id = ?", source, orderID).First(&assignment).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		assignment = models.OrderAssignment{
			OrderSource: source,
			OrderID:     orderID,
			TailorID:    tailorID,
			Status:      models.AssignmentStatusAssigned,
			AssignedAt:  &now,
		}
		if err := s.db.Create(&assignment).Error; err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		updates := map[string]interface{}{
			"tailor_id":   tailorID,
			"status":      models.AssignmentStatusAssigned,
			"assigned_at": now,
		}
		if err := s.db.Model(&assignment).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	result := &AssignResult{Assignment: &assignment, Mirrored: true}

	// Best-effort mirror onto the CustomOrder document. Not atomic with the
	// assignment upsert: a failure here leaves the authoritative record in
	// place and is reported to the caller instead of rolled back.
	if source == models.OrderSourceCustomOrder {
		mirror := map[string]interface{}{
			"assigned_tailor_id": tailorID,
			"status":             models.OrderStatusAssigned,
			"assigned_at":        now,
		}
		if err := s.db.Model(&models.CustomOrder{}).Where("id = ?", orderID).Updates(mirror).Error; err != nil {
			s.log.WithFields(logrus.Fields{
				"order_id":  orderID,
				"tailor_id": tailorID,
			}).Warnf("Failed to mirror assignment onto custom order: %v", err)
			result.Mirrored = false
		}
	}

	InvalidateActiveOrderCount(tailorID)

	return result, nil
}

// UpdateStatus changes an assignment's status. Admins may set any status
// unconditionally; otherwise the caller must be the assignment's tailor and
// the status must belong to the fixed tailor-settable set. The stricter
// order-aware transition table applies only to CustomOrder documents, not to
// assignment records.
func (s *AssignmentService) UpdateStatus(actor *models.User, assignmentID uint, newStatus string) (*models.OrderAssignment, error) {
	var assignment models.OrderAssignment
	if err := s.db.First(&assignment, assignmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "assignment"}
		}
		return nil, err
	}

	if !actor.IsAdmin() {
		var tailor models.Tailor
		err := s.db.Where("user_id = ?", actor.ID).First(&tailor).Error
		if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && tailor.ID != assignment.TailorID) {
			return nil, &ForbiddenError{Message: "not the assignment's tailor"}
		}
		if err != nil {
			return nil, err
		}
		if !tailorAssignmentStatuses[newStatus] {
			return nil, &ValidationError{Message: "invalid assignment status: " + newStatus}
		}
	}

	if err := s.db.Model(&assignment).Update("status", newStatus).Error; err != nil {
		return nil, err
	}

	InvalidateActiveOrderCount(assignment.TailorID)

	return &assignment, nil
}

// ListForTailor returns every assignment of the calling user's tailor profile
// joined with the resolved order view. Assignments whose order no longer
// resolves are dropped from the result.
func (s *AssignmentService) ListForTailor(tailorUserID uint) ([]AssignedOrder, error) {
	var tailor models.Tailor
	if err := s.db.Where("user_id = ?", tailorUserID).First(&tailor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "tailor profile"}
		}
		return nil, err
	}

	var assignments []models.OrderAssignment
	if err := s.db.Where("tailor_id = ?", tailor.ID).Order("assigned_at DESC").Find(&assignments).Error; err != nil {
		return nil, err
	}

	result := make([]AssignedOrder, 0, len(assignments))
	for i := range assignments {
		view, err := ResolveOrder(s.db, assignments[i].OrderSource, assignments[i].OrderID)
		if err != nil {
			return nil, err
		}
		if view == nil {
			// Order was deleted after assignment; tolerate and skip
			continue
		}
		result = append(result, AssignedOrder{Assignment: &assignments[i], Order: view})
	}

	return result, nil
}

// List returns assignments matching the given filters, tailor preloaded
func (s *AssignmentService) List(filters AssignmentFilters) ([]models.OrderAssignment, error) {
	query := s.db.Preload("Tailor")
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.TailorID != 0 {
		query = query.Where("tailor_id = ?", filters.TailorID)
	}
	if filters.OrderSource != "" {
		if !models.ValidOrderSource(filters.OrderSource) {
			return nil, &ValidationError{Message: "invalid order source: " + filters.OrderSource}
		}
		query = query.Where("order_source = ?", filters.OrderSource)
	}

	var assignments []models.OrderAssignment
	if err := query.Order("assigned_at DESC").Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

// ListGroupedByTailor groups matching assignments by tailor with a summary
// of each tailor attached. Tailor rows are fetched once per group.
func (s *AssignmentService) ListGroupedByTailor(filters AssignmentFilters) ([]TailorGroup, error) {
	assignments, err := s.List(filters)
	if err != nil {
		return nil, err
	}

	groupIndex := make(map[uint]int)
	groups := make([]TailorGroup, 0)
	for _, a := range assignments {
		idx, ok := groupIndex[a.TailorID]
		if !ok {
			group := TailorGroup{TailorID: a.TailorID}
			var tailor models.Tailor
			if err := s.db.First(&tailor, a.TailorID).Error; err == nil {
				group.DisplayName = tailor.DisplayName
				group.IsActive = tailor.IsActive
			}
			groups = append(groups, group)
			idx = len(groups) - 1
			groupIndex[a.TailorID] = idx
		}
		a.Tailor = models.Tailor{}
		groups[idx].Assignments = append(groups[idx].Assignments, a)
	}

	return groups, nil
}
