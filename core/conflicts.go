package core

import "time"

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) share any instant. An event ending exactly when another
// starts does not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// FindConflicts returns the stored events whose interval overlaps the
// candidate's, skipping the event with excludeID so an edited event never
// conflicts with its own prior value.
//
// Conflicts are checked against each event's raw stored interval, not its
// expanded recurring instances: rules may be unbounded, and full expansion
// would need an artificial horizon the data model does not supply. A
// recurring event therefore participates only with its original Start/End.
func FindConflicts(candidate Event, events []Event, excludeID string) []Event {
	conflicts := make([]Event, 0)

	for _, other := range events {
		if excludeID != "" && other.ID == excludeID {
			continue
		}

		if Overlaps(candidate.Start, candidate.End, other.Start, other.End) {
			conflicts = append(conflicts, other)
		}
	}

	return conflicts
}
