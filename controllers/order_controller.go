package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/egnner/project-delivery-sub001/models"
	"github.com/egnner/project-delivery-sub001/services"
)

// CreateOrder handles POST /api/v1/orders - creates a new order (public,
// customers do not authenticate)
func CreateOrder(c *gin.Context) {
	var req services.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data")
		return
	}

	order, err := services.GetOrderService().CreateOrder(&req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
	})
}

// GetOrder handles GET /api/v1/orders/:id - fetches one order with its items
// (public; the order id is the customer's tracking capability)
func GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	order, err := services.GetOrderService().GetOrder(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// ListOrders handles GET /api/v1/staff/orders - lists orders for the
// dashboard, optionally filtered by payment_status, fulfillment_status and
// delivery_mode
func ListOrders(c *gin.Context) {
	if _, ok := currentStaff(c); !ok {
		return
	}

	filters := services.OrderFilters{
		PaymentStatus:     c.Query("payment_status"),
		FulfillmentStatus: c.Query("fulfillment_status"),
		DeliveryMode:      c.Query("delivery_mode"),
	}

	orders, err := services.GetOrderService().ListOrders(filters)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// ConfirmPayment handles POST /api/v1/staff/orders/:id/confirm-payment -
// marks the order's payment as confirmed (one-shot)
func ConfirmPayment(c *gin.Context) {
	staff, ok := currentStaff(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	order, err := services.GetOrderService().ConfirmPayment(id, staff.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// RejectPayment handles POST /api/v1/staff/orders/:id/reject-payment -
// rejects the payment and cancels the order in one update (one-shot)
func RejectPayment(c *gin.Context) {
	staff, ok := currentStaff(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	order, err := services.GetOrderService().RejectPayment(id, staff.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// UpdateStatusRequest represents the request body for a fulfillment
// transition
type UpdateStatusRequest struct {
	Status     models.FulfillmentStatus `json:"status" binding:"required"`
	AdminNotes string                   `json:"admin_notes"`
}

// UpdateOrderStatus handles PATCH /api/v1/staff/orders/:id/status - advances
// the order along its delivery or pickup chain
func UpdateOrderStatus(c *gin.Context) {
	if _, ok := currentStaff(c); !ok {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data")
		return
	}

	order, err := services.GetOrderService().UpdateStatus(id, req.Status, req.AdminNotes)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"order":         order,
			"next_statuses": services.NextStatuses(order.DeliveryMode, order.FulfillmentStatus),
		},
	})
}
