package calendar

import (
	"testing"
	"time"

	"deskcal/internal/model"
)

func TestStoreDropsEmptyDates(t *testing.T) {
	s := NewStore()
	d := model.Date{Year: 2024, Month: time.June, Day: 15}

	a := model.Event{ID: "a", Text: "A"}
	b := model.Event{ID: "b", Text: "B"}
	s.Append(d, a)
	s.Append(d, b)
	if s.Len() != 1 || !s.Has(d) {
		t.Fatalf("Len = %d, Has = %v", s.Len(), s.Has(d))
	}

	if _, ok := s.Remove(d, func(ev model.Event) bool { return ev.ID == "a" }); !ok {
		t.Fatalf("remove a failed")
	}
	if got := s.Events(d); len(got) != 1 || got[0] != b {
		t.Fatalf("Events = %+v", got)
	}
	if _, ok := s.Remove(d, func(ev model.Event) bool { return ev.ID == "b" }); !ok {
		t.Fatalf("remove b failed")
	}
	if s.Has(d) || s.Len() != 0 {
		t.Errorf("empty date kept")
	}
	if got := s.Events(d); got == nil || len(got) != 0 {
		t.Errorf("Events on missing date = %#v, want empty slice", got)
	}
}

func TestStoreRemoveMissing(t *testing.T) {
	s := NewStore()
	d := model.Date{Year: 2024, Month: time.June, Day: 15}
	if _, ok := s.Remove(d, func(model.Event) bool { return true }); ok {
		t.Errorf("remove on missing date reported ok")
	}
	s.Append(d, model.Event{ID: "a", Text: "A"})
	if _, ok := s.Remove(d, func(model.Event) bool { return false }); ok {
		t.Errorf("remove without match reported ok")
	}
	if !s.Has(d) {
		t.Errorf("date dropped on failed remove")
	}
}

func TestStoreHasID(t *testing.T) {
	s := NewStore()
	d := model.Date{Year: 2024, Month: time.June, Day: 15}
	s.Append(d, model.Event{ID: "a", Text: "Meeting"})
	if !s.HasID("a") || s.HasID("b") {
		t.Errorf("HasID mismatch")
	}
	s.Remove(d, func(ev model.Event) bool { return ev.ID == "a" })
	if s.HasID("a") {
		t.Errorf("removed id still reported")
	}
}
