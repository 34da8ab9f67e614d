package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/egnner/project-delivery-sub001/config"
	"github.com/egnner/project-delivery-sub001/models"
)

func newSettingsRouter(auth gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	v1 := router.Group("/api/v1")
	v1.GET("/settings", GetSettings)

	staff := v1.Group("/staff")
	staff.Use(auth)
	staff.PUT("/settings", UpdateSettings)
	return router
}

func TestGetSettingsComputesOpenFlag(t *testing.T) {
	db, _ := setupControllerTest(t)
	router := newSettingsRouter(fakeAuth("auth0|staff123"))

	// No settings yet
	req, _ := http.NewRequest("GET", "/api/v1/settings", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// A schedule that is closed every day
	db.Create(&models.StoreSettings{
		StoreName: "Cantina da Ana",
		OpeningHours: `{"monday":{"closed":true},"tuesday":{"closed":true},"wednesday":{"closed":true},` +
			`"thursday":{"closed":true},"friday":{"closed":true},"saturday":{"closed":true},"sunday":{"closed":true}}`,
	})

	req, _ = http.NewRequest("GET", "/api/v1/settings", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	data := response["data"].(map[string]interface{})
	assert.False(t, data["open_now"].(bool))
	settings := data["settings"].(map[string]interface{})
	assert.Equal(t, "Cantina da Ana", settings["store_name"])
}

func TestUpdateSettings(t *testing.T) {
	db, _ := setupControllerTest(t)
	staff := createStaffUser(t, db)
	router := newSettingsRouter(fakeAuth(staff.Auth0ID))

	// Upsert creates the row the first time
	w := postJSON(router, "PUT", "/api/v1/staff/settings", map[string]interface{}{
		"store_name":    "Cantina da Ana",
		"contact_phone": "+55 11 3333-4444",
		"opening_hours": `{"monday":{"open":"11:00","close":"23:00"}}`,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.StoreSettings{}).Count(&count)
	assert.Equal(t, int64(1), count)

	// Updating again reuses the same row
	w = postJSON(router, "PUT", "/api/v1/staff/settings", map[string]interface{}{
		"store_name": "Cantina da Ana Renovada",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	db.Model(&models.StoreSettings{}).Count(&count)
	assert.Equal(t, int64(1), count)

	var settings models.StoreSettings
	assert.NoError(t, config.GetDB().First(&settings).Error)
	assert.Equal(t, "Cantina da Ana Renovada", settings.StoreName)
}

func TestUpdateSettingsRejectsBrokenHoursJSON(t *testing.T) {
	db, _ := setupControllerTest(t)
	staff := createStaffUser(t, db)
	router := newSettingsRouter(fakeAuth(staff.Auth0ID))

	w := postJSON(router, "PUT", "/api/v1/staff/settings", map[string]interface{}{
		"store_name":    "Cantina da Ana",
		"opening_hours": "{not json",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "VALIDATION_ERROR", response["error"].(map[string]interface{})["code"])
}
