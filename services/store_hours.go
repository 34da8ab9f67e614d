package services

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/egnner/project-delivery-sub001/config"
	"github.com/egnner/project-delivery-sub001/models"
)

// StoreTimezone is the store's fixed local timezone (GMT-3). The store serves
// a single city; all opening-hours math happens in this zone.
var StoreTimezone = time.FixedZone("GMT-3", -3*60*60)

// DayHours is one weekday's entry in the opening-hours table. Open and Close
// are fixed-width "HH:MM" strings, so lexicographic comparison is safe.
type DayHours struct {
	Open   string `json:"open"`
	Close  string `json:"close"`
	Closed bool   `json:"closed"`
}

// OpeningHours maps lowercase weekday names ("monday".."sunday") to that
// day's hours.
type OpeningHours map[string]DayHours

// ParseOpeningHours decodes the JSON schedule stored in store settings. A
// decode failure returns nil, which IsOpenNow treats as "always open".
func ParseOpeningHours(raw string) OpeningHours {
	if raw == "" {
		return nil
	}
	var hours OpeningHours
	if err := json.Unmarshal([]byte(raw), &hours); err != nil {
		return nil
	}
	return hours
}

// IsOpenNow reports whether the store accepts new orders at the given moment.
// The window is inclusive-open: [open, close). Malformed or missing
// configuration fails open: the store prefers taking an order it has to
// refuse manually over silently rejecting customers because of a bad
// config row.
func IsOpenNow(hours OpeningHours, now time.Time) bool {
	if len(hours) == 0 {
		return true
	}

	local := now.In(StoreTimezone)
	weekday := strings.ToLower(local.Weekday().String())

	day, ok := hours[weekday]
	if !ok {
		return true
	}
	if day.Closed {
		return false
	}
	if len(day.Open) != 5 || len(day.Close) != 5 {
		return true
	}

	current := local.Format("15:04")
	return current >= day.Open && current < day.Close
}

// LoadOpeningHours reads the schedule from the store settings row. A missing
// settings row yields nil (store treated as open).
func LoadOpeningHours() OpeningHours {
	db := config.GetDB()

	var settings models.StoreSettings
	if err := db.First(&settings).Error; err != nil {
		return nil
	}
	return ParseOpeningHours(settings.OpeningHours)
}
