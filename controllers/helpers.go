package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/threadline/threadline-api/config"
	"github.com/threadline/threadline-api/middleware"
	"github.com/threadline/threadline-api/models"
	"github.com/threadline/threadline-api/services"
)

// currentUser resolves the authenticated caller to a user record. On failure
// it writes the error response and returns ok=false.
func currentUser(c *gin.Context) (*models.User, bool) {
	auth0ID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"code":    "UNAUTHORIZED",
			"message": "Could not extract user information",
		})
		return nil, false
	}

	db := config.GetDB()
	var user models.User
	if err := db.Where("auth0_id = ?", auth0ID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"code":    "USER_NOT_FOUND",
			"message": "User profile not found. Please create a profile first.",
		})
		return nil, false
	}

	return &user, true
}

// requireAdmin resolves the caller and rejects non-admin users
func requireAdmin(c *gin.Context) (*models.User, bool) {
	user, ok := currentUser(c)
	if !ok {
		return nil, false
	}
	if !user.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{
			"status":  "error",
			"code":    "FORBIDDEN",
			"message": "Admin privileges required",
		})
		return nil, false
	}
	return user, true
}

// respondServiceError maps a typed service error onto the response envelope
func respondServiceError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	var notFoundErr *services.NotFoundError
	var forbiddenErr *services.ForbiddenError
	var transitionErr *services.InvalidTransitionError
	var conflictErr *services.ConflictError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"code":    "VALIDATION_ERROR",
			"message": validationErr.Message,
		})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"code":    "NOT_FOUND",
			"message": notFoundErr.Error(),
		})
	case errors.As(err, &forbiddenErr):
		c.JSON(http.StatusForbidden, gin.H{
			"status":  "error",
			"code":    "FORBIDDEN",
			"message": forbiddenErr.Message,
		})
	case errors.As(err, &transitionErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"code":    "INVALID_TRANSITION",
			"message": transitionErr.Error(),
		})
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, gin.H{
			"status":  "error",
			"code":    "CONFLICT",
			"message": conflictErr.Message,
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"code":    "DATABASE_ERROR",
			"message": "Operation failed",
		})
	}
}
