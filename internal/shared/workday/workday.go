// Package workday counts Monday to Friday calendar days. Holidays are not
// considered.
package workday

import (
	"sort"
	"time"
)

const DateLayout = "2006-01-02"

func IsWorkingDay(d time.Time) bool {
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	default:
		return true
	}
}

// CountBetween counts working days in the inclusive range [from, to].
// It returns 0 when from is after to.
func CountBetween(from, to time.Time) int {
	from = truncate(from)
	to = truncate(to)

	count := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if IsWorkingDay(d) {
			count++
		}
	}
	return count
}

// Count counts the working days in an arbitrary date list.
func Count(dates []time.Time) int {
	count := 0
	for _, d := range dates {
		if IsWorkingDay(d) {
			count++
		}
	}
	return count
}

// Sorted returns a copy of dates truncated to midnight UTC, ascending.
func Sorted(dates []time.Time) []time.Time {
	out := make([]time.Time, len(dates))
	for i, d := range dates {
		out[i] = truncate(d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

func Parse(v string) (time.Time, error) {
	return time.Parse(DateLayout, v)
}

func truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
