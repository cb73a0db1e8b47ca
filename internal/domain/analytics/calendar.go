package analytics

import (
	"fmt"
	"time"
)

// Calendar bucketing used by every rollup. All reports must agree on which
// bucket a record falls into, so nothing else in the codebase is allowed to
// do its own hour/weekday/month arithmetic.

// WeekdayNames is the fixed Sunday-first weekday order used by weekday rollups.
var WeekdayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// HourBucket returns the hour-of-day bucket (0-23) for a sale timestamp.
func HourBucket(ts time.Time) int {
	return ts.Hour()
}

// WeekdayBucket returns the weekday bucket (0=Sunday .. 6=Saturday) for a sale date.
func WeekdayBucket(date time.Time) int {
	return int(date.Weekday())
}

// MonthKey returns the calendar month key ("YYYY-MM") for a date.
func MonthKey(date time.Time) string {
	return date.Format("2006-01")
}

// DateKey returns the calendar date key ("YYYY-MM-DD") for a date.
func DateKey(date time.Time) string {
	return date.Format("2006-01-02")
}

// FormatMonthKey builds the "YYYY-MM" key for a numeric year and month.
func FormatMonthKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// MonthRange returns the half-open range [start, end) covering the given
// calendar month in UTC. December rolls over into January of the next year.
func MonthRange(year, month int) (start, end time.Time) {
	start = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 1, 0)
	return start, end
}

// YearRange returns the half-open range [Jan 1, Jan 1 of the next year) in UTC.
func YearRange(year int) (start, end time.Time) {
	start = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(1, 0, 0)
	return start, end
}
