package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/threadline/threadline-api/config"
	"github.com/threadline/threadline-api/models"
	"github.com/threadline/threadline-api/services"
	"github.com/threadline/threadline-api/utils"
)

// RegisterTailorRequest represents the request body for tailor self-registration
type RegisterTailorRequest struct {
	DisplayName string   `json:"display_name" binding:"required"`
	Phone       string   `json:"phone"`
	Skills      []string `json:"skills"`
	PayoutEmail string   `json:"payout_email" binding:"omitempty,email"`
}

// tailorSummary is the admin listing shape with the derived busy flag
type tailorSummary struct {
	models.Tailor
	ActiveOrders int64 `json:"active_orders"`
	Busy         bool  `json:"busy"`
}

// RegisterTailor handles POST /api/v1/tailors - creates the caller's tailor profile
func RegisterTailor(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	// Only users tagged with the tailor role get a profile
	if !user.IsTailor() && !user.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{
			"status":  "error",
			"code":    "FORBIDDEN",
			"message": "Only tailors can register a tailor profile",
		})
		return
	}

	var req RegisterTailorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"code":    "VALIDATION_ERROR",
			"message": "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	tailor := models.Tailor{
		UserID:      user.ID,
		DisplayName: req.DisplayName,
		Phone:       req.Phone,
		Skills:      req.Skills,
		IsActive:    true,
		PayoutEmail: req.PayoutEmail,
	}

	db := config.GetDB()
	if err := db.Create(&tailor).Error; err != nil {
		// user_id is unique: one profile per user
		errMsg := strings.ToLower(err.Error())
		if strings.Contains(errMsg, "duplicate") || strings.Contains(errMsg, "unique") {
			c.JSON(http.StatusConflict, gin.H{
				"status":  "error",
				"code":    "TAILOR_EXISTS",
				"message": "A tailor profile already exists for this user",
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"code":    "DATABASE_ERROR",
			"message": "Failed to create tailor profile",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "ok",
		"data":   tailor,
	})
}

// ListTailors handles GET /api/v1/tailors - admin listing with busy flags
func ListTailors(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}

	db := config.GetDB()
	var tailors []models.Tailor
	if err := db.Order("display_name ASC").Find(&tailors).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"code":    "DATABASE_ERROR",
			"message": "Failed to fetch tailors",
		})
		return
	}

	summaries := make([]tailorSummary, 0, len(tailors))
	for _, tailor := range tailors {
		count, err := services.ActiveOrderCount(db, tailor.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":  "error",
				"code":    "DATABASE_ERROR",
				"message": "Failed to compute tailor workload",
			})
			return
		}
		summaries = append(summaries, tailorSummary{
			Tailor:       tailor,
			ActiveOrders: count,
			Busy:         count > models.BusyOrderThreshold,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"data":   summaries,
	})
}

// DeactivateTailor handles PATCH /api/v1/tailors/:id/deactivate - admin only.
// Tailors are never hard-deleted, only deactivated.
func DeactivateTailor(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}

	tailorID, err := utils.ParseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"code":    "VALIDATION_ERROR",
			"message": err.Error(),
		})
		return
	}

	db := config.GetDB()
	var tailor models.Tailor
	if err := db.First(&tailor, tailorID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"code":    "NOT_FOUND",
			"message": "Tailor not found",
		})
		return
	}

	if err := db.Model(&tailor).Update("is_active", false).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"code":    "DATABASE_ERROR",
			"message": "Failed to deactivate tailor",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"data":   tailor,
	})
}
