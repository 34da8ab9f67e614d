package models

import (
	"time"
)

// StoreSettings is the single store's configuration row. Exactly one row is
// expected; OpeningHours holds the weekly schedule as JSON keyed by lowercase
// weekday name, e.g. {"monday":{"open":"11:00","close":"23:00"},"sunday":{"closed":true}}.
type StoreSettings struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	StoreName    string    `gorm:"not null" json:"store_name"`
	ContactPhone string    `json:"contact_phone"`
	DeliveryInfo string    `gorm:"type:text" json:"delivery_info"`
	OpeningHours string    `gorm:"type:text" json:"opening_hours"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for the StoreSettings model
func (StoreSettings) TableName() string {
	return "store_settings"
}
