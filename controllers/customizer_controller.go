package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/threadline/threadline-api/config"
	"github.com/threadline/threadline-api/models"
)

// CreateCustomizerRequest represents the request body from the design tool
type CreateCustomizerRequest struct {
	DesignData string   `json:"design_data" binding:"required"`
	Placement  string   `json:"placement"`
	BaseItem   string   `json:"base_item" binding:"required"`
	Price      *float64 `json:"price"`
}

// CreateCustomizer handles POST /api/v1/customizers - records a design-tool
// order. Customizer orders have no status of their own; their lifecycle lives
// on the assignment record.
func CreateCustomizer(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if user.Role != models.RoleCustomer {
		c.JSON(http.StatusForbidden, gin.H{
			"status":  "error",
			"code":    "FORBIDDEN",
			"message": "Only customers can submit customizer orders",
		})
		return
	}

	var req CreateCustomizerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"code":    "VALIDATION_ERROR",
			"message": "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	customizer := models.ClothCustomizer{
		UserID:     user.ID,
		DesignData: req.DesignData,
		Placement:  req.Placement,
		BaseItem:   req.BaseItem,
		Price:      req.Price,
	}

	db := config.GetDB()
	if err := db.Create(&customizer).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"code":    "DATABASE_ERROR",
			"message": "Failed to create customizer order",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "ok",
		"data":   customizer,
	})
}
