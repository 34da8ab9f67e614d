package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// at builds a timestamp on the given weekday at hh:mm store time.
// 2026-08-31 is a Monday.
func at(t *testing.T, weekday time.Weekday, hhmm string) time.Time {
	t.Helper()

	parsed, err := time.Parse("15:04", hhmm)
	if err != nil {
		t.Fatalf("bad time literal %q: %v", hhmm, err)
	}

	base := time.Date(2026, 8, 31, parsed.Hour(), parsed.Minute(), 0, 0, StoreTimezone)
	offset := (int(weekday) - int(base.Weekday()) + 7) % 7
	return base.AddDate(0, 0, offset)
}

func TestIsOpenNow(t *testing.T) {
	hours := OpeningHours{
		"monday":  {Open: "11:00", Close: "23:00"},
		"tuesday": {Closed: true},
	}

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"inside window", at(t, time.Monday, "12:30"), true},
		{"exactly at open", at(t, time.Monday, "11:00"), true},
		{"exactly at close", at(t, time.Monday, "23:00"), false},
		{"before open", at(t, time.Monday, "10:59"), false},
		{"after close", at(t, time.Monday, "23:30"), false},
		{"closed day", at(t, time.Tuesday, "12:00"), false},
		{"day missing from table fails open", at(t, time.Wednesday, "03:00"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsOpenNow(hours, tt.now))
		})
	}
}

func TestIsOpenNowFailsOpen(t *testing.T) {
	noon := at(t, time.Monday, "12:00")

	// No configuration at all
	assert.True(t, IsOpenNow(nil, noon))
	assert.True(t, IsOpenNow(OpeningHours{}, noon))

	// Malformed time strings
	assert.True(t, IsOpenNow(OpeningHours{"monday": {Open: "9", Close: "23:00"}}, noon))
	assert.True(t, IsOpenNow(OpeningHours{"monday": {Open: "", Close: ""}}, noon))

	// Malformed JSON parses to nil, which is treated as open
	assert.Nil(t, ParseOpeningHours("{not json"))
	assert.Nil(t, ParseOpeningHours(""))
}

func TestIsOpenNowUsesStoreTimezone(t *testing.T) {
	hours := OpeningHours{
		"monday": {Open: "11:00", Close: "23:00"},
	}

	// 13:00 UTC on a Monday is 10:00 in GMT-3, one hour before open
	utc := time.Date(2026, 8, 31, 13, 0, 0, 0, time.UTC)
	assert.False(t, IsOpenNow(hours, utc))

	// 15:00 UTC is 12:00 store time
	assert.True(t, IsOpenNow(hours, utc.Add(2*time.Hour)))
}

func TestParseOpeningHours(t *testing.T) {
	hours := ParseOpeningHours(`{"monday":{"open":"11:00","close":"23:00"},"sunday":{"closed":true}}`)
	assert.Len(t, hours, 2)
	assert.Equal(t, "11:00", hours["monday"].Open)
	assert.True(t, hours["sunday"].Closed)
}
