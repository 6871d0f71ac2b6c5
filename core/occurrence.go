package core

import "time"

// Materialize produces the zero-or-one concrete occurrence of e on day's
// calendar date. Non-recurring events occur exactly on their start date and
// are returned as-is; recurring occurrences are value copies with Start/End
// re-anchored to day at the original time-of-day, so duration and daily time
// window are preserved. The stored event is never mutated.
func Materialize(e Event, day time.Time) (Event, bool) {
	if !e.IsRecurring {
		if SameDay(e.Start, day) {
			return e, true
		}

		return Event{}, false
	}

	if !OccursOn(e, day) {
		return Event{}, false
	}

	occ := e
	occ.Start = atTimeOfDay(day, e.Start)
	occ.End = atTimeOfDay(day, e.End)

	return occ, true
}

// EventsOnDate returns every occurrence landing on day's calendar date, in
// input collection order. Sorting for display is the caller's concern.
func EventsOnDate(day time.Time, events []Event) []Event {
	occurrences := make([]Event, 0)

	for _, e := range events {
		if occ, ok := Materialize(e, day); ok {
			occurrences = append(occurrences, occ)
		}
	}

	return occurrences
}
