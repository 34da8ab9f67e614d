package services

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/egnner/project-delivery-sub001/config"
	"github.com/egnner/project-delivery-sub001/models"
)

// CreateOrderItemRequest is one line of an incoming order. The unit price is
// taken as supplied by the caller; re-deriving it from the catalog is the
// caller's trust boundary, not the pipeline's.
type CreateOrderItemRequest struct {
	ProductID   *uint   `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

// CreateOrderRequest is the payload for creating a new order.
type CreateOrderRequest struct {
	CustomerName    string                   `json:"customer_name"`
	CustomerPhone   string                   `json:"customer_phone"`
	CustomerEmail   string                   `json:"customer_email"`
	CustomerAddress string                   `json:"customer_address"`
	DeliveryMode    models.DeliveryMode      `json:"delivery_mode"`
	PaymentMethod   models.PaymentMethod     `json:"payment_method"`
	Notes           string                   `json:"notes"`
	Items           []CreateOrderItemRequest `json:"items"`
}

// OrderFilters narrows ListOrders. Empty fields match everything.
type OrderFilters struct {
	PaymentStatus     string
	FulfillmentStatus string
	DeliveryMode      string
}

// OrderService owns the order lifecycle: creation, the one-shot payment
// decision, and fulfillment transitions. Every state change it commits is
// handed to the publisher after the commit, never before.
type OrderService struct {
	publisher Publisher
	now       func() time.Time
	hours     func() OpeningHours
}

// NewOrderService creates an order service publishing to the given publisher.
func NewOrderService(publisher Publisher) *OrderService {
	return &OrderService{
		publisher: publisher,
		now:       time.Now,
		hours:     LoadOpeningHours,
	}
}

// SetClock overrides the time source (primarily for testing)
func (s *OrderService) SetClock(now func() time.Time) {
	s.now = now
}

// SetHoursSource overrides where opening hours are read from (primarily for testing)
func (s *OrderService) SetHoursSource(hours func() OpeningHours) {
	s.hours = hours
}

// validateCreate checks the request structurally and per delivery mode,
// collecting every violated field.
func validateCreate(req *CreateOrderRequest) *ValidationError {
	var fields []string

	if strings.TrimSpace(req.CustomerName) == "" {
		fields = append(fields, "customer_name is required")
	}
	if strings.TrimSpace(req.CustomerPhone) == "" {
		fields = append(fields, "customer_phone is required")
	}
	switch req.DeliveryMode {
	case models.ModeDelivery, models.ModePickup:
	default:
		fields = append(fields, "delivery_mode must be delivery or pickup")
	}
	switch req.PaymentMethod {
	case models.PaymentPix, models.PaymentCard, models.PaymentCash:
	default:
		fields = append(fields, "payment_method must be pix, card or cash")
	}
	if len(req.Items) == 0 {
		fields = append(fields, "items must not be empty")
	}
	for i, item := range req.Items {
		if item.Quantity <= 0 {
			fields = append(fields, fmt.Sprintf("items[%d].quantity must be positive", i))
		}
		if item.UnitPrice <= 0 {
			fields = append(fields, fmt.Sprintf("items[%d].unit_price must be positive", i))
		}
	}
	if req.DeliveryMode == models.ModeDelivery && strings.TrimSpace(req.CustomerAddress) == "" {
		fields = append(fields, "customer_address is required for delivery orders")
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// CreateOrder validates the request, checks the store-hours gate, computes
// the total and persists the order with its items as one transaction. On
// success it publishes the order-created event and returns the order.
func (s *OrderService) CreateOrder(req *CreateOrderRequest) (*models.Order, error) {
	if verr := validateCreate(req); verr != nil {
		return nil, verr
	}

	if !IsOpenNow(s.hours(), s.now()) {
		return nil, &StoreClosedError{}
	}

	var total float64
	for _, item := range req.Items {
		total += item.UnitPrice * float64(item.Quantity)
	}

	order := models.Order{
		CustomerName:      strings.TrimSpace(req.CustomerName),
		CustomerPhone:     strings.TrimSpace(req.CustomerPhone),
		DeliveryMode:      req.DeliveryMode,
		PaymentMethod:     req.PaymentMethod,
		PaymentStatus:     models.PaymentPending,
		FulfillmentStatus: models.StatusNew,
		TotalAmount:       total,
	}
	if email := strings.TrimSpace(req.CustomerEmail); email != "" {
		order.CustomerEmail = &email
	}
	if address := strings.TrimSpace(req.CustomerAddress); address != "" {
		order.CustomerAddress = &address
	}
	if notes := strings.TrimSpace(req.Notes); notes != "" {
		order.Notes = &notes
	}

	db := config.GetDB()
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		for _, item := range req.Items {
			line := models.OrderItem{
				OrderID:     order.ID,
				ProductID:   item.ProductID,
				ProductName: item.ProductName,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
				TotalPrice:  item.UnitPrice * float64(item.Quantity),
			}
			if err := tx.Create(&line).Error; err != nil {
				return err
			}
			order.Items = append(order.Items, line)
		}
		return nil
	})
	if err != nil {
		return nil, &PersistenceError{Op: "failed to create order", Err: err}
	}

	s.publisher.Publish(Event{
		Kind:    EventOrderCreated,
		Order:   &order,
		Message: fmt.Sprintf("New %s order #%d from %s", order.DeliveryMode, order.ID, order.CustomerName),
	})

	return &order, nil
}

// GetOrder fetches an order with its items.
func (s *OrderService) GetOrder(id uint) (*models.Order, error) {
	db := config.GetDB()

	var order models.Order
	if err := db.Preload("Items").First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders fetches orders matching the filters, newest first.
func (s *OrderService) ListOrders(filters OrderFilters) ([]models.Order, error) {
	db := config.GetDB()

	query := db.Preload("Items").Order("created_at DESC")
	if filters.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filters.PaymentStatus)
	}
	if filters.FulfillmentStatus != "" {
		query = query.Where("fulfillment_status = ?", filters.FulfillmentStatus)
	}
	if filters.DeliveryMode != "" {
		query = query.Where("delivery_mode = ?", filters.DeliveryMode)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, &PersistenceError{Op: "failed to list orders", Err: err}
	}
	return orders, nil
}

// ConfirmPayment marks a pending order's payment as confirmed. The decision
// is one-shot: a second call fails with AlreadyDecidedError. The update is
// guarded on the pending status, so of two concurrent staff confirmations
// the first wins and the second fails.
func (s *OrderService) ConfirmPayment(orderID uint, staffID uint) (*models.Order, error) {
	db := config.GetDB()

	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus != models.PaymentPending {
		return nil, &AlreadyDecidedError{PaymentStatus: order.PaymentStatus}
	}

	now := s.now()
	result := db.Model(&models.Order{}).
		Where("id = ? AND payment_status = ?", orderID, models.PaymentPending).
		Updates(map[string]interface{}{
			"payment_status":  models.PaymentConfirmed,
			"confirmed_by_id": staffID,
			"confirmed_at":    now,
		})
	if result.Error != nil {
		return nil, &PersistenceError{Op: "failed to confirm payment", Err: result.Error}
	}
	if result.RowsAffected == 0 {
		// Lost the race: someone decided the payment in between.
		fresh, err := s.GetOrder(orderID)
		if err != nil {
			return nil, err
		}
		return nil, &AlreadyDecidedError{PaymentStatus: fresh.PaymentStatus}
	}

	order, err = s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(Event{
		Kind:    EventPaymentConfirmed,
		Order:   order,
		Message: fmt.Sprintf("Payment for order #%d was confirmed", order.ID),
	})

	return order, nil
}

// RejectPayment marks a pending order's payment as rejected and cancels its
// fulfillment in the same update, so no reader ever sees a rejected order
// that is not also cancelled. One-shot, same guard as ConfirmPayment.
func (s *OrderService) RejectPayment(orderID uint, staffID uint) (*models.Order, error) {
	db := config.GetDB()

	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus != models.PaymentPending {
		return nil, &AlreadyDecidedError{PaymentStatus: order.PaymentStatus}
	}

	now := s.now()
	result := db.Model(&models.Order{}).
		Where("id = ? AND payment_status = ?", orderID, models.PaymentPending).
		Updates(map[string]interface{}{
			"payment_status":     models.PaymentRejected,
			"fulfillment_status": models.StatusCancelled,
			"confirmed_by_id":    staffID,
			"confirmed_at":       now,
		})
	if result.Error != nil {
		return nil, &PersistenceError{Op: "failed to reject payment", Err: result.Error}
	}
	if result.RowsAffected == 0 {
		fresh, err := s.GetOrder(orderID)
		if err != nil {
			return nil, err
		}
		return nil, &AlreadyDecidedError{PaymentStatus: fresh.PaymentStatus}
	}

	order, err = s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(Event{
		Kind:    EventPaymentRejected,
		Order:   order,
		Message: fmt.Sprintf("Payment for order #%d was rejected", order.ID),
	})

	return order, nil
}

// UpdateStatus advances the order's fulfillment status. The payment must
// already be confirmed and the target must be reachable from the current
// status in the order's mode. The update is guarded on the current status:
// when two requests race, the loser is re-evaluated against the fresh state
// and fails with InvalidTransitionError instead of double-applying.
func (s *OrderService) UpdateStatus(orderID uint, target models.FulfillmentStatus, adminNotes string) (*models.Order, error) {
	db := config.GetDB()

	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus != models.PaymentConfirmed {
		return nil, &InvalidStateError{PaymentStatus: order.PaymentStatus, Requested: target}
	}
	if !CanTransition(order.DeliveryMode, order.FulfillmentStatus, target) {
		return nil, &InvalidTransitionError{Mode: order.DeliveryMode, From: order.FulfillmentStatus, To: target}
	}

	updates := map[string]interface{}{
		"fulfillment_status": target,
	}
	if notes := strings.TrimSpace(adminNotes); notes != "" {
		updates["admin_notes"] = notes
	}

	result := db.Model(&models.Order{}).
		Where("id = ? AND fulfillment_status = ?", orderID, order.FulfillmentStatus).
		Updates(updates)
	if result.Error != nil {
		return nil, &PersistenceError{Op: "failed to update order status", Err: result.Error}
	}
	if result.RowsAffected == 0 {
		// Lost the race: re-evaluate against the state that actually won.
		fresh, err := s.GetOrder(orderID)
		if err != nil {
			return nil, err
		}
		return nil, &InvalidTransitionError{Mode: fresh.DeliveryMode, From: fresh.FulfillmentStatus, To: target}
	}

	order, err = s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(Event{
		Kind:    EventStatusUpdated,
		Order:   order,
		Message: fmt.Sprintf("Order #%d %s", order.ID, statusMessage(order.FulfillmentStatus)),
	})

	return order, nil
}

// statusMessage renders a fulfillment status for customer-facing toasts.
func statusMessage(status models.FulfillmentStatus) string {
	switch status {
	case models.StatusPreparing:
		return "is being prepared"
	case models.StatusReady:
		return "is ready"
	case models.StatusOutForDelivery:
		return "is out for delivery"
	case models.StatusDelivered:
		return "has been delivered"
	case models.StatusReadyForPickup:
		return "is ready for pickup"
	case models.StatusPickedUp:
		return "has been picked up"
	case models.StatusCompleted:
		return "is completed"
	case models.StatusCancelled:
		return "was cancelled"
	default:
		return fmt.Sprintf("moved to %s", status)
	}
}

var orderServiceInstance *OrderService

// InitOrderService initializes the order service with the given publisher
func InitOrderService(publisher Publisher) *OrderService {
	orderServiceInstance = NewOrderService(publisher)
	return orderServiceInstance
}

// GetOrderService returns the initialized order service instance
func GetOrderService() *OrderService {
	return orderServiceInstance
}

// SetOrderService sets the order service instance (primarily for testing)
func SetOrderService(service *OrderService) {
	orderServiceInstance = service
}
