package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/threadline/threadline-api/config"
	"github.com/threadline/threadline-api/models"
)

// InventoryService applies exactly one stock decrement per payment. Creation
// is idempotent through the unique payment_id index; application is guarded
// by an atomic pending|failed -> applying status flip so concurrent callers
// for the same payment cannot both proceed. Line items persist their own
// outcome, so retrying a failed adjustment only touches lines that have not
// already been decremented.
type InventoryService struct {
	db  *gorm.DB
	log *logrus.Logger
}

// NewInventoryService creates an inventory service on the given database
func NewInventoryService(db *gorm.DB) *InventoryService {
	return &InventoryService{db: db, log: config.GetLogger()}
}

// AdjustmentLine is one requested decrement in a createPending call
type AdjustmentLine struct {
	ItemID   uint `json:"item_id" binding:"required"`
	Quantity int  `json:"quantity" binding:"required,gt=0"`
}

// FailedItem describes one line that could not be decremented
type FailedItem struct {
	ItemID    uint   `json:"item_id"`
	Requested int    `json:"requested"`
	Reason    string `json:"reason"`
}

// ApplyResult summarizes an applyByPayment call. Decremented counts every
// unit confirmed decremented for this payment, including units applied by
// earlier attempts.
type ApplyResult struct {
	Reference   string       `json:"reference"`
	PaymentID   string       `json:"payment_id"`
	Status      string       `json:"status"`
	Attempted   bool         `json:"attempted"`
	Decremented int          `json:"decremented"`
	Failed      []FailedItem `json:"failed"`
	AppliedAt   *time.Time   `json:"applied_at"`
}

// decrementError marks a guard violation (missing item or insufficient
// stock), as opposed to an infrastructure failure of the store itself
type decrementError struct {
	lineID    uint
	itemID    uint
	requested int
	reason    string
}

func (e *decrementError) Error() string {
	return fmt.Sprintf("cannot decrement item %d: %s", e.itemID, e.reason)
}

// CreatePending records the stock decrement owed for a payment. If an
// adjustment already exists for the payment id, the existing one is returned
// with alreadyExists=true; the duplicate attempt is a success, not an error.
func (s *InventoryService) CreatePending(paymentID string, lines []AdjustmentLine, source string) (*models.InventoryAdjustment, bool, error) {
	if strings.TrimSpace(paymentID) == "" {
		return nil, false, &ValidationError{Message: "paymentId is required"}
	}
	if len(lines) == 0 {
		return nil, false, &ValidationError{Message: "items must not be empty"}
	}
	for _, line := range lines {
		if line.ItemID == 0 {
			return nil, false, &ValidationError{Message: "every item needs a valid item reference"}
		}
		if line.Quantity <= 0 {
			return nil, false, &ValidationError{Message: fmt.Sprintf("quantity for item %d must be positive", line.ItemID)}
		}
	}
	if source == "" {
		source = models.AdjustmentSourceOutlet
	}
	if source != models.AdjustmentSourceOutlet {
		return nil, false, &ValidationError{Message: "unsupported adjustment source: " + source}
	}

	adjustment := models.InventoryAdjustment{
		Reference: uuid.NewString(),
		PaymentID: paymentID,
		Source:    source,
		Status:    models.AdjustmentStatusPending,
	}
	for _, line := range lines {
		adjustment.Items = append(adjustment.Items, models.AdjustmentItem{
			ClothingItemID: line.ItemID,
			Quantity:       line.Quantity,
			Status:         models.AdjustmentItemPending,
		})
	}

	if err := s.db.Create(&adjustment).Error; err != nil {
		// Unique index on payment_id: a duplicate insert means the ledger
		// entry already exists (works with both PostgreSQL and SQLite)
		errMsg := strings.ToLower(err.Error())
		if strings.Contains(errMsg, "duplicate") || strings.Contains(errMsg, "unique") {
			var existing models.InventoryAdjustment
			if err := s.db.Preload("Items").Where("payment_id = ?", paymentID).First(&existing).Error; err != nil {
				return nil, false, err
			}
			return &existing, true, nil
		}
		return nil, false, err
	}

	return &adjustment, false, nil
}

// ApplyByPayment applies the adjustment recorded for the given payment.
// Safe to call repeatedly: an already applied adjustment returns its stored
// outcome without touching stock, and a concurrent application of the same
// payment is rejected with a conflict.
func (s *InventoryService) ApplyByPayment(ctx context.Context, paymentID string) (*ApplyResult, error) {
	var adjustment models.InventoryAdjustment
	err := s.db.Preload("Items").Where("payment_id = ?", paymentID).First(&adjustment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Resource: "adjustment"}
	}
	if err != nil {
		return nil, err
	}

	if adjustment.Status == models.AdjustmentStatusApplied {
		return s.summarize(&adjustment, false), nil
	}

	// Atomic guard: only one caller may move the adjustment into "applying".
	// The loser of a race sees zero rows affected.
	flip := s.db.Model(&models.InventoryAdjustment{}).
		Where("id = ? AND status IN ?", adjustment.ID, []string{models.AdjustmentStatusPending, models.AdjustmentStatusFailed}).
		Update("status", models.AdjustmentStatusApplying)
	if flip.Error != nil {
		return nil, flip.Error
	}
	if flip.RowsAffected == 0 {
		if err := s.db.Preload("Items").First(&adjustment, adjustment.ID).Error; err != nil {
			return nil, err
		}
		if adjustment.Status == models.AdjustmentStatusApplied {
			return s.summarize(&adjustment, false), nil
		}
		return nil, &ConflictError{Message: "adjustment application already in progress for payment " + paymentID}
	}

	// Every path below persists a terminal status before returning. If a
	// write fails on the way there, the row would stay in "applying" and
	// every retry would lose the flip above, so park it as failed on exit.
	defer func() {
		release := s.db.Model(&models.InventoryAdjustment{}).
			Where("id = ? AND status = ?", adjustment.ID, models.AdjustmentStatusApplying).
			Update("status", models.AdjustmentStatusFailed)
		if release.Error != nil {
			s.log.WithFields(logrus.Fields{
				"payment_id": paymentID,
			}).Warnf("Could not release in-flight adjustment: %v", release.Error)
		}
	}()

	// Only lines not confirmed decremented by an earlier attempt are retried
	var pendingItems []models.AdjustmentItem
	for _, item := range adjustment.Items {
		if item.Status != models.AdjustmentItemApplied {
			pendingItems = append(pendingItems, item)
		}
	}

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range pendingItems {
			if err := s.decrement(tx, &pendingItems[i]); err != nil {
				return err
			}
			lineUpdate := map[string]interface{}{
				"status": models.AdjustmentItemApplied,
				"reason": "",
			}
			if err := tx.Model(&models.AdjustmentItem{}).Where("id = ?", pendingItems[i].ID).Updates(lineUpdate).Error; err != nil {
				return err
			}
		}
		now := time.Now()
		return tx.Model(&models.InventoryAdjustment{}).Where("id = ?", adjustment.ID).
			Updates(map[string]interface{}{
				"status":     models.AdjustmentStatusApplied,
				"applied_at": now,
			}).Error
	})

	if txErr == nil {
		return s.reloadAndSummarize(adjustment.ID)
	}

	var guardErr *decrementError
	if errors.As(txErr, &guardErr) {
		// The whole transaction rolled back: no partial decrements survive.
		// Record the offending line and park the adjustment as failed.
		s.log.WithFields(logrus.Fields{
			"payment_id": paymentID,
			"item_id":    guardErr.itemID,
			"requested":  guardErr.requested,
		}).Warnf("Inventory adjustment failed: %s", guardErr.reason)

		lineUpdate := map[string]interface{}{
			"status": models.AdjustmentItemFailed,
			"reason": guardErr.reason,
		}
		if err := s.db.Model(&models.AdjustmentItem{}).Where("id = ?", guardErr.lineID).Updates(lineUpdate).Error; err != nil {
			return nil, err
		}
		if err := s.db.Model(&models.InventoryAdjustment{}).Where("id = ?", adjustment.ID).
			Update("status", models.AdjustmentStatusFailed).Error; err != nil {
			return nil, err
		}
		return s.reloadAndSummarize(adjustment.ID)
	}

	// The store could not run the transaction at all (e.g. no replica-set
	// semantics). Nothing was written, so fall back to a best-effort loop of
	// independent guarded decrements.
	s.log.WithFields(logrus.Fields{
		"payment_id": paymentID,
	}).Warnf("Transactional apply unavailable, falling back to best-effort: %v", txErr)

	return s.applyBestEffort(ctx, &adjustment, pendingItems)
}

// applyBestEffort attempts each line independently. One line's failure does
// not undo other lines' committed decrements; the adjustment only becomes
// applied when every line has been confirmed.
func (s *InventoryService) applyBestEffort(ctx context.Context, adjustment *models.InventoryAdjustment, pendingItems []models.AdjustmentItem) (*ApplyResult, error) {
	failures := 0
	db := s.db.WithContext(ctx)

	for i := range pendingItems {
		err := s.decrement(db, &pendingItems[i])

		lineUpdate := map[string]interface{}{
			"status": models.AdjustmentItemApplied,
			"reason": "",
		}
		if err != nil {
			failures++
			reason := err.Error()
			var guardErr *decrementError
			if errors.As(err, &guardErr) {
				reason = guardErr.reason
			}
			s.log.WithFields(logrus.Fields{
				"payment_id": adjustment.PaymentID,
				"item_id":    pendingItems[i].ClothingItemID,
				"requested":  pendingItems[i].Quantity,
			}).Warnf("Best-effort decrement failed: %s", reason)
			lineUpdate["status"] = models.AdjustmentItemFailed
			lineUpdate["reason"] = reason
		}
		if err := db.Model(&models.AdjustmentItem{}).Where("id = ?", pendingItems[i].ID).Updates(lineUpdate).Error; err != nil {
			return nil, err
		}
	}

	finalUpdate := map[string]interface{}{"status": models.AdjustmentStatusFailed}
	if failures == 0 {
		now := time.Now()
		finalUpdate["status"] = models.AdjustmentStatusApplied
		finalUpdate["applied_at"] = now
	}
	if err := db.Model(&models.InventoryAdjustment{}).Where("id = ?", adjustment.ID).Updates(finalUpdate).Error; err != nil {
		return nil, err
	}

	return s.reloadAndSummarize(adjustment.ID)
}

// decrement performs the guarded conditional update "subtract quantity only
// if enough stock exists" as a single atomic write. Zero rows affected means
// the guard rejected the write; the reason is resolved afterwards.
func (s *InventoryService) decrement(db *gorm.DB, line *models.AdjustmentItem) error {
	res := db.Model(&models.ClothingItem{}).
		Where("id = ? AND stock >= ?", line.ClothingItemID, line.Quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", line.Quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var item models.ClothingItem
	err := db.First(&item, line.ClothingItemID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &decrementError{
			lineID:    line.ID,
			itemID:    line.ClothingItemID,
			requested: line.Quantity,
			reason:    "Item not found",
		}
	}
	if err != nil {
		return err
	}
	return &decrementError{
		lineID:    line.ID,
		itemID:    line.ClothingItemID,
		requested: line.Quantity,
		reason:    fmt.Sprintf("Insufficient stock: %d available, %d requested", item.Stock, line.Quantity),
	}
}

func (s *InventoryService) reloadAndSummarize(adjustmentID uint) (*ApplyResult, error) {
	var adjustment models.InventoryAdjustment
	if err := s.db.Preload("Items").First(&adjustment, adjustmentID).Error; err != nil {
		return nil, err
	}
	return s.summarize(&adjustment, true), nil
}

func (s *InventoryService) summarize(adjustment *models.InventoryAdjustment, attempted bool) *ApplyResult {
	result := &ApplyResult{
		Reference: adjustment.Reference,
		PaymentID: adjustment.PaymentID,
		Status:    adjustment.Status,
		Attempted: attempted,
		Failed:    []FailedItem{},
		AppliedAt: adjustment.AppliedAt,
	}
	for _, item := range adjustment.Items {
		switch item.Status {
		case models.AdjustmentItemApplied:
			result.Decremented += item.Quantity
		case models.AdjustmentItemFailed:
			result.Failed = append(result.Failed, FailedItem{
				ItemID:    item.ClothingItemID,
				Requested: item.Quantity,
				Reason:    item.Reason,
			})
		}
	}
	return result
}
