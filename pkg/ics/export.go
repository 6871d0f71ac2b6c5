// Package ics renders the stored event collection as an iCalendar document.
// Recurrence rules are mapped onto RRULE properties; the engine's evaluator
// stays authoritative for occurrence semantics, the export is for consumption
// by external calendar clients.
package ics

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"calendar-engine/core"
)

const untilLayout = "20060102T150405Z"

// byDayNames indexes iCalendar weekday codes by the 0-6 Sunday-first
// numbering the rules use.
var byDayNames = [7]string{"SU", "MO", "TU", "WE", "TH", "FR", "SA"}

// Export serializes events into an iCalendar document. now is used as the
// DTSTAMP of every component so output is reproducible in tests.
func Export(events []core.Event, now time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//calendar-engine//EN")

	for _, e := range events {
		ve := cal.AddEvent(e.ID)
		ve.SetDtStampTime(now)
		ve.SetStartAt(e.Start)
		ve.SetEndAt(e.End)
		ve.SetSummary(e.Title)

		if e.Description != "" {
			ve.SetDescription(e.Description)
		}

		if e.Color != "" {
			ve.SetProperty(ical.ComponentProperty("COLOR"), string(e.Color))
		}

		if e.IsRecurring && e.Recurrence != nil {
			ve.AddRrule(RRuleString(*e.Recurrence))
		}
	}

	return cal.Serialize()
}

// RRuleString renders a recurrence rule as an RFC 5545 RRULE value. Custom
// rules are day-stepped and map onto FREQ=DAILY.
func RRuleString(rule core.RecurrenceRule) string {
	parts := make([]string, 0, 5)

	switch rule.Type {
	case core.RuleWeekly:
		parts = append(parts, "FREQ=WEEKLY")
	case core.RuleMonthly:
		parts = append(parts, "FREQ=MONTHLY")
	case core.RuleDaily, core.RuleCustom:
		parts = append(parts, "FREQ=DAILY")
	default:
		parts = append(parts, "FREQ=DAILY")
	}

	interval := rule.Interval
	if interval < 1 {
		interval = 1
	}

	parts = append(parts, fmt.Sprintf("INTERVAL=%d", interval))

	if rule.Type == core.RuleWeekly && len(rule.Weekdays) > 0 {
		days := make([]string, 0, len(rule.Weekdays))

		for _, wd := range rule.Weekdays {
			if wd >= 0 && wd < len(byDayNames) {
				days = append(days, byDayNames[wd])
			}
		}

		if len(days) > 0 {
			parts = append(parts, "BYDAY="+strings.Join(days, ","))
		}
	}

	if rule.Type == core.RuleMonthly && rule.MonthDay != nil {
		parts = append(parts, "BYMONTHDAY="+strconv.Itoa(*rule.MonthDay))
	}

	if rule.EndDate != nil {
		parts = append(parts, "UNTIL="+rule.EndDate.UTC().Format(untilLayout))
	}

	if rule.Count != nil {
		parts = append(parts, "COUNT="+strconv.Itoa(*rule.Count))
	}

	return strings.Join(parts, ";")
}
