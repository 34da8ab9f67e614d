package models

import (
	"time"
)

// DeliveryMode determines how the customer receives the order and which
// fulfillment chain applies to it.
type DeliveryMode string

const (
	ModeDelivery DeliveryMode = "delivery"
	ModePickup   DeliveryMode = "pickup"
)

// PaymentMethod is how the customer intends to pay.
type PaymentMethod string

const (
	PaymentPix  PaymentMethod = "pix"
	PaymentCard PaymentMethod = "card"
	PaymentCash PaymentMethod = "cash"
)

// PaymentStatus is the one-shot payment decision: pending until staff confirm
// or reject, then frozen.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentConfirmed PaymentStatus = "confirmed"
	PaymentRejected  PaymentStatus = "rejected"
)

// FulfillmentStatus is the order's position in its delivery or pickup chain.
type FulfillmentStatus string

const (
	StatusNew            FulfillmentStatus = "new"
	StatusPreparing      FulfillmentStatus = "preparing"
	StatusReady          FulfillmentStatus = "ready"
	StatusOutForDelivery FulfillmentStatus = "out_for_delivery"
	StatusDelivered      FulfillmentStatus = "delivered"
	StatusReadyForPickup FulfillmentStatus = "ready_for_pickup"
	StatusPickedUp       FulfillmentStatus = "picked_up"
	StatusCompleted      FulfillmentStatus = "completed"
	StatusCancelled      FulfillmentStatus = "cancelled"
)

// Order represents a customer order. Orders are never deleted: cancellation is
// a terminal fulfillment status, not a row removal.
type Order struct {
	ID                uint              `gorm:"primaryKey" json:"id"`
	CustomerName      string            `gorm:"not null" json:"customer_name"`
	CustomerPhone     string            `gorm:"not null" json:"customer_phone"`
	CustomerEmail     *string           `json:"customer_email,omitempty"`
	CustomerAddress   *string           `json:"customer_address,omitempty"` // required when delivery_mode is delivery
	DeliveryMode      DeliveryMode      `gorm:"not null" json:"delivery_mode"`
	PaymentMethod     PaymentMethod     `gorm:"not null" json:"payment_method"`
	PaymentStatus     PaymentStatus     `gorm:"not null;default:'pending'" json:"payment_status"`
	FulfillmentStatus FulfillmentStatus `gorm:"not null;default:'new'" json:"fulfillment_status"`
	TotalAmount       float64           `gorm:"not null" json:"total_amount"` // computed at creation, never recomputed
	Notes             *string           `gorm:"type:text" json:"notes,omitempty"`
	AdminNotes        *string           `gorm:"type:text" json:"admin_notes,omitempty"`
	ConfirmedByID     *uint             `gorm:"index" json:"confirmed_by_id,omitempty"` // staff member who made the payment decision
	ConfirmedBy       *User             `gorm:"foreignKey:ConfirmedByID" json:"confirmed_by,omitempty"`
	ConfirmedAt       *time.Time        `json:"confirmed_at,omitempty"`
	Items             []OrderItem       `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// Terminal reports whether the order's fulfillment chain has ended.
func (o *Order) Terminal() bool {
	return o.FulfillmentStatus == StatusCompleted || o.FulfillmentStatus == StatusCancelled
}
