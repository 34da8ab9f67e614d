package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/egnner/project-delivery-sub001/config"
	"github.com/egnner/project-delivery-sub001/models"
	"github.com/egnner/project-delivery-sub001/services"
)

// GetSettings handles GET /api/v1/settings - returns the store settings plus
// a computed open_now flag so the storefront can show "closed" without
// re-implementing the schedule logic (public)
func GetSettings(c *gin.Context) {
	db := config.GetDB()

	var settings models.StoreSettings
	if err := db.First(&settings).Error; err != nil {
		respondError(c, http.StatusNotFound, "SETTINGS_NOT_FOUND", "Store settings are not configured")
		return
	}

	openNow := services.IsOpenNow(services.ParseOpeningHours(settings.OpeningHours), time.Now())

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"settings": settings,
			"open_now": openNow,
		},
	})
}

// SettingsRequest represents the request body for updating the store
// settings
type SettingsRequest struct {
	StoreName    string `json:"store_name" binding:"required"`
	ContactPhone string `json:"contact_phone"`
	DeliveryInfo string `json:"delivery_info"`
	OpeningHours string `json:"opening_hours"`
}

// UpdateSettings handles PUT /api/v1/staff/settings - upserts the single
// settings row. The opening-hours JSON must be well-formed; the gate itself
// stays fail-open for rows that predate this check.
func UpdateSettings(c *gin.Context) {
	if _, ok := currentStaff(c); !ok {
		return
	}

	var req SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data")
		return
	}

	if req.OpeningHours != "" {
		var hours services.OpeningHours
		if err := json.Unmarshal([]byte(req.OpeningHours), &hours); err != nil {
			respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "opening_hours is not valid JSON")
			return
		}
	}

	db := config.GetDB()
	var settings models.StoreSettings
	err := db.First(&settings).Error
	switch {
	case err == nil:
	case err == gorm.ErrRecordNotFound:
		settings = models.StoreSettings{}
	default:
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load settings")
		return
	}

	settings.StoreName = req.StoreName
	settings.ContactPhone = req.ContactPhone
	settings.DeliveryInfo = req.DeliveryInfo
	settings.OpeningHours = req.OpeningHours

	if err := db.Save(&settings).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to save settings")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    settings,
	})
}
