// Package dateutil holds the date arithmetic the scheduling engine is
// built on. Weeks start on Sunday and all stored dates are UTC
// midnights, so the same calendar day compares equal regardless of
// where the caller's wall clock came from.
package dateutil

import "time"

// Clock supplies the current time. The engine takes a Clock instead of
// calling time.Now directly so target propagation and "is today"
// behavior can be pinned down in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// DateOnly truncates t to UTC midnight of its calendar day.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DayIndex returns the day-of-week index used by schedule slots:
// 0 = Sunday .. 6 = Saturday.
func DayIndex(t time.Time) int {
	return int(t.UTC().Weekday())
}

// WeekStart normalizes any date to the Sunday that begins its week,
// at UTC midnight. A Sunday maps to itself.
func WeekStart(t time.Time) time.Time {
	d := DateOnly(t)
	return d.AddDate(0, 0, -DayIndex(d))
}

// DayOfWeekDate returns the concrete date of slot day dayOfWeek within
// the week starting at weekStart.
func DayOfWeekDate(weekStart time.Time, dayOfWeek int) time.Time {
	return DateOnly(weekStart).AddDate(0, 0, dayOfWeek)
}

// SameDay reports whether a and b fall on the same UTC calendar day.
func SameDay(a, b time.Time) bool {
	return DateOnly(a).Equal(DateOnly(b))
}
