package models

import (
	"time"
)

// OrderItem is a single line of an order. Name and unit price are snapshots
// captured at order time, so later product edits never change past orders.
// Items are created alongside their order and never mutated afterward.
type OrderItem struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OrderID     uint      `gorm:"not null;index" json:"order_id"`
	ProductID   *uint     `gorm:"index" json:"product_id,omitempty"`
	ProductName string    `gorm:"not null" json:"product_name"`
	Quantity    int       `gorm:"not null;check:quantity > 0" json:"quantity"`
	UnitPrice   float64   `gorm:"not null" json:"unit_price"`
	TotalPrice  float64   `gorm:"not null" json:"total_price"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}
