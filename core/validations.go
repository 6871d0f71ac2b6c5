package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ValidateForm checks the fields used to build an Event. The store never
// constructs an Event from input that fails here.
func ValidateForm(form EventFormData) error {
	title := strings.TrimSpace(form.Title)
	if len(title) == 0 {
		return errors.New("title is required")
	}

	if len(title) > 100 {
		return errors.New("title is too long (100 characters tops)")
	}

	if !form.End.After(form.Start) {
		return errors.New("end time must be after start time")
	}

	if form.Color != "" && !form.Color.Valid() {
		return fmt.Errorf("unknown color %q", form.Color)
	}

	if !form.IsRecurring {
		return nil
	}

	if !form.RecurrenceType.Valid() {
		return fmt.Errorf("unknown recurrence type %q", form.RecurrenceType)
	}

	if form.Interval < 1 {
		return errors.New("recurrence interval must be at least 1")
	}

	if form.RecurrenceType == RuleWeekly {
		for _, wd := range form.Weekdays {
			if wd < 0 || wd > 6 {
				return fmt.Errorf("weekday %d is out of range 0-6", wd)
			}
		}
	}

	if form.RecurrenceType == RuleMonthly && form.MonthDay != nil {
		if *form.MonthDay < 1 || *form.MonthDay > 31 {
			return fmt.Errorf("month day %d is out of range 1-31", *form.MonthDay)
		}
	}

	return nil
}

// NewEvent validates form and constructs an Event with a fresh id.
func NewEvent(form EventFormData) (Event, error) {
	return buildEvent(uuid.NewString(), form)
}

func buildEvent(id string, form EventFormData) (Event, error) {
	if err := ValidateForm(form); err != nil {
		return Event{}, err
	}

	color := form.Color
	if color == "" {
		color = ColorBlue
	}

	event := Event{
		ID:          id,
		Title:       strings.TrimSpace(form.Title),
		Description: form.Description,
		Start:       form.Start,
		End:         form.End,
		Color:       color,
		IsRecurring: form.IsRecurring,
	}

	if form.IsRecurring {
		event.Recurrence = buildRecurrence(form)
	}

	return event, nil
}

// buildRecurrence keeps only the fields the rule type consults, plus the
// shared end bounds. Form layers may populate both weekdays and monthDay;
// the inactive one is dropped here.
func buildRecurrence(form EventFormData) *RecurrenceRule {
	rule := &RecurrenceRule{
		Type:     form.RecurrenceType,
		Interval: form.Interval,
		EndDate:  form.EndDate,
		Count:    form.Count,
	}

	switch form.RecurrenceType {
	case RuleWeekly:
		rule.Weekdays = form.Weekdays
	case RuleMonthly:
		rule.MonthDay = form.MonthDay
	case RuleDaily, RuleCustom:
	}

	return rule
}
