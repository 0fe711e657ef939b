package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/threadline/threadline-api/config"
	"github.com/threadline/threadline-api/models"
	"github.com/threadline/threadline-api/services"
	"github.com/threadline/threadline-api/utils"
)

// CreateAdjustmentRequest represents the request body from the payment flow
type CreateAdjustmentRequest struct {
	PaymentID string                    `json:"payment_id" binding:"required"`
	Source    string                    `json:"source"`
	Items     []services.AdjustmentLine `json:"items" binding:"required"`
}

// ApplyAdjustmentRequest represents the request body for applying an adjustment
type ApplyAdjustmentRequest struct {
	PaymentID string `json:"payment_id" binding:"required"`
}

// UpdateStockRequest represents the request body for an admin stock edit
type UpdateStockRequest struct {
	Stock *int `json:"stock" binding:"required,gte=0"`
}

// ListItems handles GET /api/v1/items - the outlet catalog
func ListItems(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	db := config.GetDB()
	var items []models.ClothingItem
	if err := db.Order("name ASC").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"code":    "DATABASE_ERROR",
			"message": "Failed to fetch items",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"data":   items,
	})
}

// UpdateItemStock handles PATCH /api/v1/items/:id/stock - admin only. This is
// the only stock write path outside the reconciler's guarded decrement.
func UpdateItemStock(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}

	itemID, err := utils.ParseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"code":    "VALIDATION_ERROR",
			"message": err.Error(),
		})
		return
	}

	var req UpdateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"code":    "VALIDATION_ERROR",
			"message": "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	db := config.GetDB()
	var item models.ClothingItem
	if err := db.First(&item, itemID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"code":    "NOT_FOUND",
			"message": "Item not found",
		})
		return
	}

	if err := db.Model(&item).Update("stock", *req.Stock).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"code":    "DATABASE_ERROR",
			"message": "Failed to update stock",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"data":   item,
	})
}

// CreateAdjustment handles POST /api/v1/inventory/adjustments - records the
// stock decrement owed for a payment. Re-creating an adjustment for a known
// payment id is a benign no-op, not an error.
func CreateAdjustment(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}

	var req CreateAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"code":    "VALIDATION_ERROR",
			"message": "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	reconciler := services.NewInventoryService(config.GetDB())
	adjustment, alreadyExists, err := reconciler.CreatePending(req.PaymentID, req.Items, req.Source)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	status := http.StatusCreated
	if alreadyExists {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{
		"status": "ok",
		"data": gin.H{
			"adjustment":     adjustment,
			"already_exists": alreadyExists,
		},
	})
}

// ApplyAdjustment handles POST /api/v1/inventory/adjustments/apply - applies
// the decrements for a payment. Safe to call repeatedly.
func ApplyAdjustment(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}

	var req ApplyAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"code":    "VALIDATION_ERROR",
			"message": "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	reconciler := services.NewInventoryService(config.GetDB())
	result, err := reconciler.ApplyByPayment(c.Request.Context(), req.PaymentID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"data":   result,
	})
}
