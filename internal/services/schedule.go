package services

import (
	"time"

	"github.com/ChongZhe001025/FinTrack-sub000/internal/core"
)

// DueDays returns the template days that fire on now's calendar day. On the
// last day of a month every larger day (up to 31) fires as well, so day-31
// templates still run in 30-day months and in February.
func DueDays(now time.Time) []int {
	today := now.Day()
	days := []int{today}

	if last := core.YearMonthOf(now).LastDay(); today == last {
		for d := last + 1; d <= 31; d++ {
			days = append(days, d)
		}
	}
	return days
}

// IsDue reports whether a template scheduled on day fires on now's date.
func IsDue(day int, now time.Time) bool {
	for _, d := range DueDays(now) {
		if d == day {
			return true
		}
	}
	return false
}
