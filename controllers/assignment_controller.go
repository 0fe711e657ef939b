package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/threadline/threadline-api/config"
	"github.com/threadline/threadline-api/services"
	"github.com/threadline/threadline-api/utils"
)

// AssignOrderRequest represents the request body for assigning an order
type AssignOrderRequest struct {
	OrderSource string `json:"order_source" binding:"required"`
	OrderID     uint   `json:"order_id" binding:"required"`
	TailorID    uint   `json:"tailor_id" binding:"required"`
}

// UpdateAssignmentStatusRequest represents the request body for a status change
type UpdateAssignmentStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// AssignOrder handles POST /api/v1/order-assignments/assign - admin only
func AssignOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req AssignOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"code":    "VALIDATION_ERROR",
			"message": "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	engine := services.NewAssignmentService(config.GetDB())
	result, err := engine.Assign(user, req.OrderSource, req.OrderID, req.TailorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"data":   result,
	})
}

// ListAssignments handles GET /api/v1/order-assignments - admin only, with
// optional status/tailorId/orderSource filters
func ListAssignments(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}

	filters := services.AssignmentFilters{
		Status:      c.Query("status"),
		OrderSource: c.Query("orderSource"),
	}
	if raw := c.Query("tailorId"); raw != "" {
		tailorID, err := utils.ParseID(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"code":    "VALIDATION_ERROR",
				"message": err.Error(),
			})
			return
		}
		filters.TailorID = tailorID
	}

	engine := services.NewAssignmentService(config.GetDB())
	assignments, err := engine.List(filters)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"data":   assignments,
	})
}

// ListAssignmentsByTailor handles GET /api/v1/order-assignments/by-tailor -
// admin only, assignments grouped per tailor with a tailor summary
func ListAssignmentsByTailor(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}

	filters := services.AssignmentFilters{
		Status:      c.Query("status"),
		OrderSource: c.Query("orderSource"),
	}

	engine := services.NewAssignmentService(config.GetDB())
	groups, err := engine.ListGroupedByTailor(filters)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"data":   groups,
	})
}

// ListMyAssignments handles GET /api/v1/order-assignments/mine - the calling
// tailor's assignments joined with the resolved order views
func ListMyAssignments(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	engine := services.NewAssignmentService(config.GetDB())
	assignments, err := engine.ListForTailor(user.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"data":   assignments,
	})
}

// UpdateAssignmentStatus handles PATCH /api/v1/order-assignments/:id/status
func UpdateAssignmentStatus(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	assignmentID, err := utils.ParseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"code":    "VALIDATION_ERROR",
			"message": err.Error(),
		})
		return
	}

	var req UpdateAssignmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"code":    "VALIDATION_ERROR",
			"message": "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	engine := services.NewAssignmentService(config.GetDB())
	assignment, err := engine.UpdateStatus(user, assignmentID, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"data":   assignment,
	})
}
