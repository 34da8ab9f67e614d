package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/egnner/project-delivery-sub001/config"
	"github.com/egnner/project-delivery-sub001/middleware"
	"github.com/egnner/project-delivery-sub001/models"
	"github.com/egnner/project-delivery-sub001/services"
)

// respondError writes the standard error envelope
func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// respondServiceError maps order-service errors onto HTTP statuses. Every
// error carries its machine code and human message; retryable kinds
// (STORE_CLOSED) get their own status so callers can tell them apart from
// terminal business-rule violations.
func respondServiceError(c *gin.Context, err error) {
	var (
		validationErr  *services.ValidationError
		closedErr      *services.StoreClosedError
		stateErr       *services.InvalidStateError
		transitionErr  *services.InvalidTransitionError
		decidedErr     *services.AlreadyDecidedError
		persistenceErr *services.PersistenceError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    validationErr.Code(),
				"message": validationErr.Error(),
				"fields":  validationErr.Fields,
			},
		})
	case errors.As(err, &closedErr):
		respondError(c, http.StatusServiceUnavailable, closedErr.Code(), closedErr.Error())
	case errors.As(err, &stateErr):
		respondError(c, http.StatusConflict, stateErr.Code(), stateErr.Error())
	case errors.As(err, &transitionErr):
		respondError(c, http.StatusConflict, transitionErr.Code(), transitionErr.Error())
	case errors.As(err, &decidedErr):
		respondError(c, http.StatusConflict, decidedErr.Code(), decidedErr.Error())
	case errors.As(err, &persistenceErr):
		respondError(c, http.StatusInternalServerError, persistenceErr.Code(), "A storage error occurred")
	case errors.Is(err, gorm.ErrRecordNotFound):
		respondError(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found")
	default:
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred")
	}
}

// parseIDParam reads the :id path parameter as an unsigned integer
func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid id parameter")
		return 0, false
	}
	return uint(id), true
}

// currentStaff resolves the authenticated staff member from the JWT subject.
// Writes the error response itself when resolution fails.
func currentStaff(c *gin.Context) (*models.User, bool) {
	auth0ID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return nil, false
	}

	db := config.GetDB()
	var user models.User
	if err := db.Where("auth0_id = ?", auth0ID).First(&user).Error; err != nil {
		respondError(c, http.StatusNotFound, "USER_NOT_FOUND", "Staff profile not found. Please create a profile first.")
		return nil, false
	}

	return &user, true
}
