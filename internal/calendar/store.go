package calendar

import (
	"sort"

	"deskcal/internal/model"
)

// Store maps dates to their events in insertion order. A date is present only
// while it has at least one event. Reads hand out copies.
type Store struct {
	byDate map[model.Date][]model.Event
}

func NewStore() *Store {
	return &Store{byDate: make(map[model.Date][]model.Event)}
}

// Append adds ev at the end of d's list and returns the new list.
func (s *Store) Append(d model.Date, ev model.Event) []model.Event {
	s.byDate[d] = append(s.byDate[d], ev)
	return s.Events(d)
}

// Remove deletes the first event for which match returns true. The date is
// dropped once its list is empty. ok is false when nothing matched.
func (s *Store) Remove(d model.Date, match func(model.Event) bool) (removed model.Event, ok bool) {
	events, found := s.byDate[d]
	if !found {
		return model.Event{}, false
	}
	for i, ev := range events {
		if !match(ev) {
			continue
		}
		rest := make([]model.Event, 0, len(events)-1)
		rest = append(rest, events[:i]...)
		rest = append(rest, events[i+1:]...)
		if len(rest) == 0 {
			delete(s.byDate, d)
		} else {
			s.byDate[d] = rest
		}
		return ev, true
	}
	return model.Event{}, false
}

// Events returns a copy of d's list, or an empty (non-nil) slice.
func (s *Store) Events(d model.Date) []model.Event {
	events := s.byDate[d]
	out := make([]model.Event, len(events))
	copy(out, events)
	return out
}

func (s *Store) Has(d model.Date) bool {
	_, ok := s.byDate[d]
	return ok
}

// HasID reports whether any date holds an event with the given ID.
func (s *Store) HasID(id string) bool {
	for _, events := range s.byDate {
		for _, ev := range events {
			if ev.ID == id {
				return true
			}
		}
	}
	return false
}

// Len is the number of dates with events.
func (s *Store) Len() int { return len(s.byDate) }

// DayEvents pairs a date with its events.
type DayEvents struct {
	Date   model.Date    `json:"date"`
	Events []model.Event `json:"events"`
}

// All returns every non-empty date in ascending order.
func (s *Store) All() []DayEvents {
	out := make([]DayEvents, 0, len(s.byDate))
	for d := range s.byDate {
		out = append(out, DayEvents{Date: d, Events: s.Events(d)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
