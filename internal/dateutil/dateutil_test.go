package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWeekStart(t *testing.T) {
	// 2024-03-24 is a Sunday.
	sunday := time.Date(2024, 3, 24, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		in   time.Time
	}{
		{"sunday maps to itself", sunday},
		{"tuesday", time.Date(2024, 3, 26, 0, 0, 0, 0, time.UTC)},
		{"saturday", time.Date(2024, 3, 30, 0, 0, 0, 0, time.UTC)},
		{"tuesday with time of day", time.Date(2024, 3, 26, 18, 45, 12, 0, time.UTC)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, sunday, WeekStart(tc.in))
		})
	}
}

func TestWeekStartAcrossMonthBoundary(t *testing.T) {
	// 2024-04-01 is a Monday; its week starts on Sunday 2024-03-31.
	monday := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), WeekStart(monday))
}

func TestDayIndex(t *testing.T) {
	assert.Equal(t, 0, DayIndex(time.Date(2024, 3, 24, 0, 0, 0, 0, time.UTC))) // Sunday
	assert.Equal(t, 2, DayIndex(time.Date(2024, 3, 26, 0, 0, 0, 0, time.UTC))) // Tuesday
	assert.Equal(t, 6, DayIndex(time.Date(2024, 3, 30, 0, 0, 0, 0, time.UTC))) // Saturday
}

func TestDayOfWeekDate(t *testing.T) {
	weekStart := time.Date(2024, 3, 24, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 26, 0, 0, 0, 0, time.UTC), DayOfWeekDate(weekStart, 2))
	assert.Equal(t, weekStart, DayOfWeekDate(weekStart, 0))
}

func TestDateOnlyDropsTime(t *testing.T) {
	in := time.Date(2024, 3, 26, 23, 59, 59, 999, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 26, 0, 0, 0, 0, time.UTC), DateOnly(in))
}

func TestSameDay(t *testing.T) {
	morning := time.Date(2024, 3, 26, 6, 0, 0, 0, time.UTC)
	night := time.Date(2024, 3, 26, 23, 0, 0, 0, time.UTC)
	assert.True(t, SameDay(morning, night))
	assert.False(t, SameDay(morning, morning.AddDate(0, 0, 1)))
}
