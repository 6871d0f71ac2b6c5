package core

import (
	"slices"
	"time"
)

// OccursOn reports whether e has an occurrence on day's calendar date.
// Non-recurring events and events without a rule always report false; an
// unknown rule type reports false rather than failing.
func OccursOn(e Event, day time.Time) bool {
	if !e.IsRecurring || e.Recurrence == nil {
		return false
	}

	rule := e.Recurrence

	date := DateOnly(day)
	start := DateOnly(e.Start)

	if date.Before(start) {
		return false
	}

	if rule.EndDate != nil && date.After(DateOnly(*rule.EndDate)) {
		return false
	}

	interval := rule.Interval
	if interval < 1 {
		interval = 1
	}

	diffDays := daysBetween(start, date)

	switch rule.Type {
	case RuleDaily, RuleCustom:
		return diffDays%interval == 0

	case RuleWeekly:
		// Weeks are counted from the event start, not from week boundaries:
		// an interval-2 rule still fires on every selected weekday of the
		// start week, then skips the following week entirely.
		if (diffDays/7)%interval != 0 {
			return false
		}

		if len(rule.Weekdays) == 0 {
			return day.Weekday() == e.Start.Weekday()
		}

		return slices.Contains(rule.Weekdays, int(day.Weekday()))

	case RuleMonthly:
		if monthsBetween(e.Start, day)%interval != 0 {
			return false
		}

		target := e.Start.Day()
		if rule.MonthDay != nil {
			target = *rule.MonthDay
		}

		// A target day the month does not have (e.g. 31 in February) simply
		// never matches; months shorter than the target produce no occurrence.
		return day.Day() == target

	default:
		return false
	}
}
