package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/egnner/project-delivery-sub001/config"
	"github.com/egnner/project-delivery-sub001/models"
	"github.com/egnner/project-delivery-sub001/services"
)

// SalesSummary handles GET /api/v1/staff/reports/summary?from=&to= - order
// counts and confirmed revenue for a date range (dates in YYYY-MM-DD,
// defaulting to the current day). Day boundaries are store-local, so a late
// evening order counts toward the store's business day, not the UTC one.
func SalesSummary(c *gin.Context) {
	if _, ok := currentStaff(c); !ok {
		return
	}

	now := time.Now().In(services.StoreTimezone)
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, services.StoreTimezone)
	to := from.AddDate(0, 0, 1)

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, services.StoreTimezone)
		if err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "from must be a YYYY-MM-DD date")
			return
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, services.StoreTimezone)
		if err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "to must be a YYYY-MM-DD date")
			return
		}
		to = parsed.AddDate(0, 0, 1)
	}

	db := config.GetDB()

	var totalOrders int64
	if err := db.Model(&models.Order{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&totalOrders).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to count orders")
		return
	}

	var confirmedOrders int64
	var revenue float64
	row := db.Model(&models.Order{}).
		Where("created_at >= ? AND created_at < ? AND payment_status = ?", from, to, models.PaymentConfirmed).
		Select("COUNT(*), COALESCE(SUM(total_amount), 0)").
		Row()
	if err := row.Scan(&confirmedOrders, &revenue); err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to compute revenue")
		return
	}

	var cancelledOrders int64
	if err := db.Model(&models.Order{}).
		Where("created_at >= ? AND created_at < ? AND fulfillment_status = ?", from, to, models.StatusCancelled).
		Count(&cancelledOrders).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to count cancelled orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"from":             from.Format("2006-01-02"),
			"to":               to.AddDate(0, 0, -1).Format("2006-01-02"),
			"total_orders":     totalOrders,
			"confirmed_orders": confirmedOrders,
			"cancelled_orders": cancelledOrders,
			"revenue":          revenue,
		},
	})
}
