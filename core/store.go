package core

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Port is the persistence collaborator. The store is agnostic to the medium;
// Save is invoked synchronously after every successful mutation, and a Load
// failure means starting from an empty collection rather than failing.
type Port interface {
	Load(ctx context.Context) ([]Event, error)
	Save(ctx context.Context, events []Event) error
}

// Store owns the canonical event collection. Every check-then-commit runs
// inside one critical section so two concurrent adds can never both pass the
// conflict check against the same pre-mutation snapshot.
type Store struct {
	mu     sync.Mutex
	port   Port
	events []Event
}

// NewStore loads the collection through port. A nil port keeps the store
// memory-only.
func NewStore(ctx context.Context, port Port) *Store {
	store := &Store{port: port}

	if port == nil {
		return store
	}

	events, err := port.Load(ctx)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("loading events failed, starting from an empty collection")
		return store
	}

	store.events = events

	return store
}

// Add validates form, constructs an event with a fresh id and appends it if
// its interval conflicts with nothing stored. On conflict nothing changes and
// the conflicting events are returned inside a *ConflictError.
func (s *Store) Add(ctx context.Context, form EventFormData) (Event, error) {
	event, err := NewEvent(form)
	if err != nil {
		return Event{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if conflicts := FindConflicts(event, s.events, ""); len(conflicts) > 0 {
		return Event{}, &ConflictError{Conflicts: cloneAll(conflicts)}
	}

	s.events = append(s.events, event)
	s.persist(ctx)

	log.Ctx(ctx).Info().Str("event_id", event.ID).Msg("event added")

	return event.clone(), nil
}

// Update replaces the stored event with this id in place (position
// preserved), conflict-checked with the event's own prior value excluded.
func (s *Store) Update(ctx context.Context, id string, form EventFormData) (Event, error) {
	candidate, err := buildEvent(id, form)
	if err != nil {
		return Event{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Event{}, ErrEventNotFound
	}

	if conflicts := FindConflicts(candidate, s.events, id); len(conflicts) > 0 {
		return Event{}, &ConflictError{Conflicts: cloneAll(conflicts)}
	}

	s.events[i] = candidate
	s.persist(ctx)

	log.Ctx(ctx).Info().Str("event_id", id).Msg("event updated")

	return candidate.clone(), nil
}

// Move shifts the event's start and end by the whole-day delta between
// newDate and its current start date, preserving time-of-day and duration,
// then commits or rejects like Update.
func (s *Store) Move(ctx context.Context, id string, newDate time.Time) (Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Event{}, ErrEventNotFound
	}

	moved := s.events[i].clone()
	delta := daysBetween(DateOnly(moved.Start), DateOnly(newDate))
	moved.Start = moved.Start.AddDate(0, 0, delta)
	moved.End = moved.End.AddDate(0, 0, delta)

	if conflicts := FindConflicts(moved, s.events, id); len(conflicts) > 0 {
		return Event{}, &ConflictError{Conflicts: cloneAll(conflicts)}
	}

	s.events[i] = moved
	s.persist(ctx)

	log.Ctx(ctx).Info().Str("event_id", id).Int("day_delta", delta).Msg("event moved")

	return moved.clone(), nil
}

// Delete removes the event with this id.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return ErrEventNotFound
	}

	s.events = append(s.events[:i], s.events[i+1:]...)
	s.persist(ctx)

	log.Ctx(ctx).Info().Str("event_id", id).Msg("event deleted")

	return nil
}

// Get returns the event with this id.
func (s *Store) Get(id string) (Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Event{}, ErrEventNotFound
	}

	return s.events[i].clone(), nil
}

// List returns the whole collection in storage order.
func (s *Store) List() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	return cloneAll(s.events)
}

// Search returns events whose title or description contains query,
// case-insensitively. A blank query matches everything.
func (s *Store) Search(query string) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return cloneAll(s.events)
	}

	matches := make([]Event, 0)

	for _, e := range s.events {
		if strings.Contains(strings.ToLower(e.Title), query) ||
			strings.Contains(strings.ToLower(e.Description), query) {
			matches = append(matches, e.clone())
		}
	}

	return matches
}

// FilterByColor returns events tagged with color; an empty color matches
// everything.
func (s *Store) FilterByColor(color Color) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	if color == "" {
		return cloneAll(s.events)
	}

	matches := make([]Event, 0)

	for _, e := range s.events {
		if e.Color == color {
			matches = append(matches, e.clone())
		}
	}

	return matches
}

// OccurrencesOn returns every occurrence landing on day, concrete times
// attached, in collection order.
func (s *Store) OccurrencesOn(day time.Time) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	return cloneAll(EventsOnDate(day, s.events))
}

// Month returns the month-view grid for year/month.
func (s *Store) Month(year int, month time.Month) MonthGrid {
	s.mu.Lock()
	defer s.mu.Unlock()

	return BuildMonth(year, month, s.events)
}

// indexOf requires s.mu held.
func (s *Store) indexOf(id string) int {
	for i, e := range s.events {
		if e.ID == id {
			return i
		}
	}

	return -1
}

// persist writes the collection through the port. A save failure is logged
// and swallowed: the in-memory collection remains authoritative for the
// session and the next mutation retries the write. Requires s.mu held.
func (s *Store) persist(ctx context.Context) {
	if s.port == nil {
		return
	}

	if err := s.port.Save(ctx, s.events); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("saving events failed, in-memory collection remains authoritative")
	}
}

func cloneAll(events []Event) []Event {
	out := make([]Event, 0, len(events))
	for _, e := range events {
		out = append(out, e.clone())
	}

	return out
}
