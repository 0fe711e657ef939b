package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/threadline/threadline-api/config"
	"github.com/threadline/threadline-api/models"
)

const activeOrderCountTTL = time.Minute

func activeOrderCountKey(tailorID uint) string {
	return fmt.Sprintf("tailor_active_orders:%d", tailorID)
}

// ActiveOrderCount returns the number of non-terminal orders bound to a
// tailor: CustomOrders through the mirrored assigned_tailor_id field,
// ClothCustomizer orders through their assignment records. Counts are cached
// in Redis for a minute when Redis is configured; assignment and status
// writes invalidate the entry.
func ActiveOrderCount(db *gorm.DB, tailorID uint) (int64, error) {
	rdb := config.GetRedis()
	if rdb != nil {
		if cached, err := rdb.Get(context.Background(), activeOrderCountKey(tailorID)).Int64(); err == nil {
			return cached, nil
		}
	}

	var customOrders int64
	err := db.Model(&models.CustomOrder{}).
		Where("assigned_tailor_id = ? AND status NOT IN ?", tailorID,
			[]string{models.OrderStatusCompleted, models.OrderStatusDelivered, models.OrderStatusCancelled}).
		Count(&customOrders).Error
	if err != nil {
		return 0, err
	}

	var customizerAssignments int64
	err = db.Model(&models.OrderAssignment{}).
		Where("tailor_id = ? AND order_source = ? AND status NOT IN ?", tailorID,
			models.OrderSourceClothCustomizer,
			[]string{models.AssignmentStatusCompleted, models.AssignmentStatusRejected}).
		Count(&customizerAssignments).Error
	if err != nil {
		return 0, err
	}

	total := customOrders + customizerAssignments

	if rdb != nil {
		// Cache failures only cost a recount next time
		if err := rdb.Set(context.Background(), activeOrderCountKey(tailorID), total, activeOrderCountTTL).Err(); err != nil {
			config.GetLogger().Warnf("Failed to cache active-order count for tailor %d: %v", tailorID, err)
		}
	}

	return total, nil
}

// IsBusy reports whether the tailor's active-order count exceeds the busy
// threshold. Derived at read time, never stored.
func IsBusy(db *gorm.DB, tailorID uint) (bool, error) {
	count, err := ActiveOrderCount(db, tailorID)
	if err != nil {
		return false, err
	}
	return count > models.BusyOrderThreshold, nil
}

// InvalidateActiveOrderCount drops the cached count for a tailor
func InvalidateActiveOrderCount(tailorID uint) {
	rdb := config.GetRedis()
	if rdb == nil {
		return
	}
	if err := rdb.Del(context.Background(), activeOrderCountKey(tailorID)).Err(); err != nil {
		config.GetLogger().Warnf("Failed to invalidate active-order count for tailor %d: %v", tailorID, err)
	}
}
