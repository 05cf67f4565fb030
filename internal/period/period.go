// Package period maps timestamps to calendar-day and ISO-week period keys.
// All functions are pure and total over any valid timestamp.
package period

import (
	"fmt"
	"time"

	"github.com/ecomove/mobility-backend-go/internal/models"
)

// DayKey returns the ISO calendar date of t, e.g. "2025-04-07".
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// WeekKey returns the ISO week identifier of t, e.g. "2025-W15".
// The ISO year may differ from the calendar year at year boundaries.
func WeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// WeekBounds returns the Monday and Sunday of the ISO week containing t,
// truncated to dates in t's location.
func WeekBounds(t time.Time) (start, end time.Time) {
	weekday := int(t.Weekday())
	if weekday == 0 { // time.Sunday
		weekday = 7
	}
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	start = day.AddDate(0, 0, -(weekday - 1))
	end = start.AddDate(0, 0, 6)
	return start, end
}

// Key returns the period key of t for the given granularity.
// Unknown granularities fall back to the week key.
func Key(granularity models.Granularity, t time.Time) string {
	if granularity == models.GranularityDay {
		return DayKey(t)
	}
	return WeekKey(t)
}
