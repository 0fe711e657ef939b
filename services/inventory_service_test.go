package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/threadline/threadline-api/models"
)

func TestCreatePendingValidation(t *testing.T) {
	db := setupServiceDB(t)
	service := NewInventoryService(db)

	tests := []struct {
		name      string
		paymentID string
		lines     []AdjustmentLine
		source    string
		message   string
	}{
		{
			name:      "Empty payment id",
			paymentID: "  ",
			lines:     []AdjustmentLine{{ItemID: 1, Quantity: 1}},
			message:   "paymentId is required",
		},
		{
			name:      "No lines",
			paymentID: "pay_1",
			lines:     nil,
			message:   "items must not be empty",
		},
		{
			name:      "Zero item reference",
			paymentID: "pay_1",
			lines:     []AdjustmentLine{{ItemID: 0, Quantity: 1}},
			message:   "every item needs a valid item reference",
		},
		{
			name:      "Non-positive quantity",
			paymentID: "pay_1",
			lines:     []AdjustmentLine{{ItemID: 1, Quantity: 0}},
			message:   "quantity for item 1 must be positive",
		},
		{
			name:      "Unsupported source",
			paymentID: "pay_1",
			lines:     []AdjustmentLine{{ItemID: 1, Quantity: 1}},
			source:    "Warehouse",
			message:   "unsupported adjustment source: Warehouse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := service.CreatePending(tt.paymentID, tt.lines, tt.source)
			var validationErr *ValidationError
			assert.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.message, validationErr.Message)
		})
	}
}

func TestCreatePendingIdempotent(t *testing.T) {
	db := setupServiceDB(t)
	service := NewInventoryService(db)
	item := seedItem(t, db, "Hoodie", 10)

	first, existed, err := service.CreatePending("pay_dup", []AdjustmentLine{{ItemID: item.ID, Quantity: 2}}, "")
	assert.NoError(t, err)
	assert.False(t, existed)
	assert.Equal(t, models.AdjustmentStatusPending, first.Status)
	assert.Equal(t, models.AdjustmentSourceOutlet, first.Source)
	assert.NotEmpty(t, first.Reference)
	assert.Len(t, first.Items, 1)
	assert.Equal(t, models.AdjustmentItemPending, first.Items[0].Status)

	// Same payment again, even with different lines: the original wins
	second, existed, err := service.CreatePending("pay_dup", []AdjustmentLine{{ItemID: item.ID, Quantity: 7}}, "")
	assert.NoError(t, err)
	assert.True(t, existed)
	assert.Equal(t, first.Reference, second.Reference)
	assert.Len(t, second.Items, 1)
	assert.Equal(t, 2, second.Items[0].Quantity)

	var count int64
	db.Model(&models.InventoryAdjustment{}).Where("payment_id = ?", "pay_dup").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestApplyByPaymentNeverOversells(t *testing.T) {
	db := setupServiceDB(t)
	service := NewInventoryService(db)
	item := seedItem(t, db, "Cap", 5)

	_, _, err := service.CreatePending("pay_a", []AdjustmentLine{{ItemID: item.ID, Quantity: 3}}, "")
	assert.NoError(t, err)
	_, _, err = service.CreatePending("pay_b", []AdjustmentLine{{ItemID: item.ID, Quantity: 3}}, "")
	assert.NoError(t, err)

	first, err := service.ApplyByPayment(context.Background(), "pay_a")
	assert.NoError(t, err)
	assert.Equal(t, models.AdjustmentStatusApplied, first.Status)
	assert.Equal(t, 3, first.Decremented)

	// Only 2 left: the guard refuses the second payment outright
	second, err := service.ApplyByPayment(context.Background(), "pay_b")
	assert.NoError(t, err)
	assert.Equal(t, models.AdjustmentStatusFailed, second.Status)
	assert.Equal(t, 0, second.Decremented)
	assert.Len(t, second.Failed, 1)
	assert.Equal(t, "Insufficient stock: 2 available, 3 requested", second.Failed[0].Reason)

	var persisted models.ClothingItem
	db.First(&persisted, item.ID)
	assert.Equal(t, 2, persisted.Stock)
}

func TestApplyByPaymentIdempotent(t *testing.T) {
	db := setupServiceDB(t)
	service := NewInventoryService(db)
	item := seedItem(t, db, "Socks", 20)

	_, _, err := service.CreatePending("pay_once", []AdjustmentLine{{ItemID: item.ID, Quantity: 4}}, "")
	assert.NoError(t, err)

	first, err := service.ApplyByPayment(context.Background(), "pay_once")
	assert.NoError(t, err)
	assert.True(t, first.Attempted)
	assert.Equal(t, 4, first.Decremented)
	assert.NotNil(t, first.AppliedAt)

	second, err := service.ApplyByPayment(context.Background(), "pay_once")
	assert.NoError(t, err)
	assert.False(t, second.Attempted)
	assert.Equal(t, models.AdjustmentStatusApplied, second.Status)
	assert.Equal(t, 4, second.Decremented)

	var persisted models.ClothingItem
	db.First(&persisted, item.ID)
	assert.Equal(t, 16, persisted.Stock)
}

func TestApplyByPaymentMissing(t *testing.T) {
	db := setupServiceDB(t)
	service := NewInventoryService(db)

	_, err := service.ApplyByPayment(context.Background(), "pay_missing")
	var notFoundErr *NotFoundError
	assert.ErrorAs(t, err, &notFoundErr)
}

func TestApplyByPaymentConcurrentConflict(t *testing.T) {
	db := setupServiceDB(t)
	service := NewInventoryService(db)
	item := seedItem(t, db, "Beanie", 5)

	adjustment, _, err := service.CreatePending("pay_race", []AdjustmentLine{{ItemID: item.ID, Quantity: 1}}, "")
	assert.NoError(t, err)

	// Another worker already holds the adjustment
	db.Model(&models.InventoryAdjustment{}).Where("id = ?", adjustment.ID).
		Update("status", models.AdjustmentStatusApplying)

	_, err = service.ApplyByPayment(context.Background(), "pay_race")
	var conflictErr *ConflictError
	assert.ErrorAs(t, err, &conflictErr)

	var persisted models.ClothingItem
	db.First(&persisted, item.ID)
	assert.Equal(t, 5, persisted.Stock)
}

func TestApplyReleasesAdjustmentOnWriteFailure(t *testing.T) {
	db := setupServiceDB(t)
	service := NewInventoryService(db)
	item := seedItem(t, db, "Vest", 10)

	_, _, err := service.CreatePending("pay_flaky", []AdjustmentLine{{ItemID: item.ID, Quantity: 2}}, "")
	assert.NoError(t, err)

	// Every write after the adjustment is claimed fails mid-flight
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = service.ApplyByPayment(cancelled, "pay_flaky")
	assert.Error(t, err)

	// The failed attempt must not keep the adjustment claimed: it is parked
	// as failed so a later attempt can take it over
	var adjustment models.InventoryAdjustment
	assert.NoError(t, db.Where("payment_id = ?", "pay_flaky").First(&adjustment).Error)
	assert.Equal(t, models.AdjustmentStatusFailed, adjustment.Status)

	retried, err := service.ApplyByPayment(context.Background(), "pay_flaky")
	assert.NoError(t, err)
	assert.Equal(t, models.AdjustmentStatusApplied, retried.Status)
	assert.Equal(t, 2, retried.Decremented)

	var persisted models.ClothingItem
	db.First(&persisted, item.ID)
	assert.Equal(t, 8, persisted.Stock)
}

func TestFailedAdjustmentRetriesAfterRestock(t *testing.T) {
	db := setupServiceDB(t)
	service := NewInventoryService(db)
	item := seedItem(t, db, "Gloves", 1)

	_, _, err := service.CreatePending("pay_retry", []AdjustmentLine{{ItemID: item.ID, Quantity: 3}}, "")
	assert.NoError(t, err)

	failed, err := service.ApplyByPayment(context.Background(), "pay_retry")
	assert.NoError(t, err)
	assert.Equal(t, models.AdjustmentStatusFailed, failed.Status)

	db.Model(&models.ClothingItem{}).Where("id = ?", item.ID).Update("stock", 5)

	retried, err := service.ApplyByPayment(context.Background(), "pay_retry")
	assert.NoError(t, err)
	assert.Equal(t, models.AdjustmentStatusApplied, retried.Status)
	assert.Equal(t, 3, retried.Decremented)
	assert.Empty(t, retried.Failed)

	var persisted models.ClothingItem
	db.First(&persisted, item.ID)
	assert.Equal(t, 2, persisted.Stock)
}

func TestBestEffortPartialProgressSticks(t *testing.T) {
	db := setupServiceDB(t)
	service := NewInventoryService(db)
	plentiful := seedItem(t, db, "Tote", 10)
	scarce := seedItem(t, db, "Parka", 1)

	adjustment, _, err := service.CreatePending("pay_partial", []AdjustmentLine{
		{ItemID: plentiful.ID, Quantity: 2},
		{ItemID: scarce.ID, Quantity: 5},
	}, "")
	assert.NoError(t, err)

	// Drive the fallback path directly: each line commits or fails on its own
	result, err := service.applyBestEffort(context.Background(), adjustment, adjustment.Items)
	assert.NoError(t, err)
	assert.Equal(t, models.AdjustmentStatusFailed, result.Status)
	assert.Equal(t, 2, result.Decremented)
	assert.Len(t, result.Failed, 1)
	assert.Equal(t, scarce.ID, result.Failed[0].ItemID)

	var tote models.ClothingItem
	db.First(&tote, plentiful.ID)
	assert.Equal(t, 8, tote.Stock)

	// Retry after restock: the line already applied must not decrement again
	db.Model(&models.ClothingItem{}).Where("id = ?", scarce.ID).Update("stock", 5)

	retried, err := service.ApplyByPayment(context.Background(), "pay_partial")
	assert.NoError(t, err)
	assert.Equal(t, models.AdjustmentStatusApplied, retried.Status)
	assert.Equal(t, 7, retried.Decremented)

	db.First(&tote, plentiful.ID)
	assert.Equal(t, 8, tote.Stock)

	var parka models.ClothingItem
	db.First(&parka, scarce.ID)
	assert.Equal(t, 0, parka.Stock)
}
