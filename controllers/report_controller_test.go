package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/egnner/project-delivery-sub001/models"
	"github.com/egnner/project-delivery-sub001/services"
)

func newReportRouter(auth gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	staff := router.Group("/api/v1/staff")
	staff.Use(auth)
	staff.GET("/reports/summary", SalesSummary)
	return router
}

// seedOrder inserts an order with a fixed creation time in store-local terms
func seedOrder(t *testing.T, db *gorm.DB, payment models.PaymentStatus, fulfillment models.FulfillmentStatus, amount float64, createdAt time.Time) {
	t.Helper()

	order := models.Order{
		CustomerName:      "Ana Lima",
		CustomerPhone:     "+55 11 98888-7777",
		DeliveryMode:      models.ModePickup,
		PaymentMethod:     models.PaymentPix,
		PaymentStatus:     payment,
		FulfillmentStatus: fulfillment,
		TotalAmount:       amount,
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("Failed to seed order: %v", err)
	}
	if err := db.Model(&order).Update("created_at", createdAt).Error; err != nil {
		t.Fatalf("Failed to set order creation time: %v", err)
	}
}

func getSummary(t *testing.T, router *gin.Engine, query string) map[string]interface{} {
	t.Helper()

	req, _ := http.NewRequest("GET", "/api/v1/staff/reports/summary"+query, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response["data"].(map[string]interface{})
}

func TestSalesSummary(t *testing.T) {
	db, _ := setupControllerTest(t)
	staff := createStaffUser(t, db)
	router := newReportRouter(fakeAuth(staff.Auth0ID))

	day := time.Date(2026, 8, 31, 12, 0, 0, 0, services.StoreTimezone)
	seedOrder(t, db, models.PaymentConfirmed, models.StatusCompleted, 51.80, day)
	seedOrder(t, db, models.PaymentConfirmed, models.StatusPreparing, 30.00, day.Add(time.Hour))
	seedOrder(t, db, models.PaymentPending, models.StatusNew, 10.00, day.Add(2*time.Hour))
	seedOrder(t, db, models.PaymentRejected, models.StatusCancelled, 20.00, day.Add(3*time.Hour))
	// Outside the window
	seedOrder(t, db, models.PaymentConfirmed, models.StatusCompleted, 99.00, day.AddDate(0, 0, 3))

	data := getSummary(t, router, "?from=2026-08-31&to=2026-08-31")
	assert.Equal(t, float64(4), data["total_orders"])
	assert.Equal(t, float64(2), data["confirmed_orders"])
	assert.Equal(t, float64(1), data["cancelled_orders"])
	assert.InDelta(t, 81.80, data["revenue"], 1e-9)
	assert.Equal(t, "2026-08-31", data["from"])
	assert.Equal(t, "2026-08-31", data["to"])
}

func TestSalesSummaryUsesStoreLocalDays(t *testing.T) {
	db, _ := setupControllerTest(t)
	staff := createStaffUser(t, db)
	router := newReportRouter(fakeAuth(staff.Auth0ID))

	// 23:30 store time on the 31st is already 02:30 UTC on September 1st;
	// the order still belongs to the store's August 31st
	lateEvening := time.Date(2026, 8, 31, 23, 30, 0, 0, services.StoreTimezone)
	seedOrder(t, db, models.PaymentConfirmed, models.StatusCompleted, 51.80, lateEvening)

	data := getSummary(t, router, "?from=2026-08-31&to=2026-08-31")
	assert.Equal(t, float64(1), data["total_orders"])
	assert.Equal(t, 51.80, data["revenue"])

	data = getSummary(t, router, "?from=2026-09-01&to=2026-09-01")
	assert.Equal(t, float64(0), data["total_orders"])
}

func TestSalesSummaryRejectsBadDates(t *testing.T) {
	db, _ := setupControllerTest(t)
	staff := createStaffUser(t, db)
	router := newReportRouter(fakeAuth(staff.Auth0ID))

	req, _ := http.NewRequest("GET", "/api/v1/staff/reports/summary?from=31-08-2026", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "INVALID_REQUEST", response["error"].(map[string]interface{})["code"])
}
