package core

import "time"

// DateOnly strips the time-of-day, returning t's calendar date as a UTC
// midnight. Normalizing to UTC keeps whole-day arithmetic exact across DST
// transitions in the wall-clock zone.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// daysBetween returns the whole-day count from one calendar date to another.
// Both arguments must be DateOnly-normalized midnights.
func daysBetween(from, to time.Time) int {
	return int(to.Sub(from) / (24 * time.Hour))
}

// monthsBetween returns the calendar-month count from one date to another,
// ignoring the day-of-month of both.
func monthsBetween(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}

// atTimeOfDay re-anchors the time-of-day of tod onto day's calendar date,
// keeping tod's location.
func atTimeOfDay(day, tod time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(),
		tod.Hour(), tod.Minute(), tod.Second(), tod.Nanosecond(), tod.Location())
}
