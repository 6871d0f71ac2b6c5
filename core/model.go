package core

import (
	"slices"
	"time"
)

// Event is a stored calendar entry. Start/End are the raw stored interval;
// for recurring events they also anchor the recurrence (time-of-day and
// duration of every occurrence).
type Event struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Start       time.Time       `json:"start"`
	End         time.Time       `json:"end"`
	Color       Color           `json:"color"`
	IsRecurring bool            `json:"isRecurring"`
	Recurrence  *RecurrenceRule `json:"recurrence"`
}

// RecurrenceRule defines how an event repeats. Type determines which of
// Weekdays/MonthDay is consulted; the other is ignored even if populated.
// Count is carried and serialized verbatim but never consulted by the
// evaluator.
type RecurrenceRule struct {
	Type     RuleType   `json:"type"`
	Interval int        `json:"interval"`
	Weekdays []int      `json:"weekdays,omitempty"`
	MonthDay *int       `json:"monthDay,omitempty"`
	EndDate  *time.Time `json:"endDate"`
	Count    *int       `json:"count"`
}

type RuleType string

const (
	RuleDaily   RuleType = "daily"
	RuleWeekly  RuleType = "weekly"
	RuleMonthly RuleType = "monthly"
	RuleCustom  RuleType = "custom"
)

func (t RuleType) Valid() bool {
	switch t {
	case RuleDaily, RuleWeekly, RuleMonthly, RuleCustom:
		return true
	}

	return false
}

// Color is a display/filtering tag with no scheduling effect.
type Color string

const (
	ColorBlue   Color = "blue"
	ColorPurple Color = "purple"
	ColorPink   Color = "pink"
	ColorRed    Color = "red"
	ColorOrange Color = "orange"
	ColorYellow Color = "yellow"
	ColorGreen  Color = "green"
	ColorIndigo Color = "indigo"
)

func (c Color) Valid() bool {
	switch c {
	case ColorBlue, ColorPurple, ColorPink, ColorRed, ColorOrange, ColorYellow, ColorGreen, ColorIndigo:
		return true
	}

	return false
}

// EventFormData is the form input events are built from. Recurrence fields
// are only consulted when IsRecurring is set.
type EventFormData struct {
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Start          time.Time  `json:"start"`
	End            time.Time  `json:"end"`
	Color          Color      `json:"color"`
	IsRecurring    bool       `json:"isRecurring"`
	RecurrenceType RuleType   `json:"recurrenceType,omitempty"`
	Interval       int        `json:"interval,omitempty"`
	Weekdays       []int      `json:"weekdays,omitempty"`
	MonthDay       *int       `json:"monthDay,omitempty"`
	EndDate        *time.Time `json:"endDate,omitempty"`
	Count          *int       `json:"count,omitempty"`
}

// Duration returns the length of the stored interval.
func (e Event) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// clone returns a deep copy so callers can never reach a stored value
// through shared recurrence pointers.
func (e Event) clone() Event {
	out := e
	if e.Recurrence != nil {
		r := *e.Recurrence
		r.Weekdays = slices.Clone(e.Recurrence.Weekdays)

		if e.Recurrence.MonthDay != nil {
			v := *e.Recurrence.MonthDay
			r.MonthDay = &v
		}

		if e.Recurrence.EndDate != nil {
			v := *e.Recurrence.EndDate
			r.EndDate = &v
		}

		if e.Recurrence.Count != nil {
			v := *e.Recurrence.Count
			r.Count = &v
		}

		out.Recurrence = &r
	}

	return out
}
