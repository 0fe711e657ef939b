package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/threadline/threadline-api/config"
	"github.com/threadline/threadline-api/models"
	"github.com/threadline/threadline-api/services"
	"github.com/threadline/threadline-api/utils"
)

// CreateCustomOrderRequest represents the request body for creating a custom order
type CreateCustomOrderRequest struct {
	ClothingType   string             `json:"clothing_type" binding:"required"`
	Size           string             `json:"size" binding:"required"`
	Color          string             `json:"color"`
	Quantity       int                `json:"quantity" binding:"required,gt=0"`
	Notes          string             `json:"notes"`
	DesignSnapshot string             `json:"design_snapshot"`
	Measurements   map[string]float64 `json:"measurements"`
	PreviewKeys    []string           `json:"preview_keys"`
}

// UpdateOrderStatusRequest represents the request body for a status change
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateCustomOrder handles POST /api/v1/custom-orders - customers only
func CreateCustomOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if user.Role != models.RoleCustomer {
		c.JSON(http.StatusForbidden, gin.H{
			"status":  "error",
			"code":    "FORBIDDEN",
			"message": "Only customers can create orders",
		})
		return
	}

	var req CreateCustomOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"code":    "VALIDATION_ERROR",
			"message": "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	order := models.CustomOrder{
		CustomerID:     user.ID,
		ClothingType:   req.ClothingType,
		Size:           req.Size,
		Color:          req.Color,
		Quantity:       req.Quantity,
		Notes:          req.Notes,
		DesignSnapshot: req.DesignSnapshot,
		Measurements:   req.Measurements,
		Status:         models.OrderStatusPending,
		PreviewKeys:    req.PreviewKeys,
	}

	db := config.GetDB()
	if err := db.Create(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"code":    "DATABASE_ERROR",
			"message": "Failed to create order",
		})
		return
	}

	// Load the customer relationship to return complete data
	if err := db.Preload("Customer").First(&order, order.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"code":    "DATABASE_ERROR",
			"message": "Failed to load order details",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "ok",
		"data":   order,
	})
}

// ListMyCustomOrders handles GET /api/v1/custom-orders/mine
func ListMyCustomOrders(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var orders []models.CustomOrder
	if err := db.Where("customer_id = ?", user.ID).
		Preload("AssignedTailor").
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"code":    "DATABASE_ERROR",
			"message": "Failed to fetch orders",
		})
		return
	}

	// Resolve preview galleries when the preview backend is configured
	if preview := services.GetPreviewService(); preview != nil {
		for i := range orders {
			orders[i].PreviewURLs = preview.GalleryURLs(orders[i].PreviewKeys)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"data":   orders,
	})
}

// GetOrder handles GET /api/v1/orders/:source/:id - the normalized order view
// over both physical collections. Admins see any order, customers only their
// own.
func GetOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	source, err := utils.ParseOrderSource(c.Param("source"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"code":    "VALIDATION_ERROR",
			"message": err.Error(),
		})
		return
	}

	orderID, err := utils.ParseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"code":    "VALIDATION_ERROR",
			"message": err.Error(),
		})
		return
	}

	view, err := services.ResolveOrder(config.GetDB(), source, orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if view == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"code":    "NOT_FOUND",
			"message": "Order not found",
		})
		return
	}

	if !user.IsAdmin() && (view.Customer == nil || view.Customer.ID != user.ID) {
		c.JSON(http.StatusForbidden, gin.H{
			"status":  "error",
			"code":    "FORBIDDEN",
			"message": "You do not have permission to view this order",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"data":   view,
	})
}

// UpdateCustomOrderStatus handles PATCH /api/v1/custom-orders/:id/status.
// Admins set any status; the order's assigned tailor may only follow the
// transition table.
func UpdateCustomOrderStatus(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	orderID, err := utils.ParseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"code":    "VALIDATION_ERROR",
			"message": err.Error(),
		})
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"code":    "VALIDATION_ERROR",
			"message": "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	statusService := services.NewOrderStatusService(config.GetDB())
	order, err := statusService.UpdateStatus(user, orderID, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"data":   order,
	})
}
