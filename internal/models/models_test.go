// ABOUTME: Tests for workout and body metric models.
// ABOUTME: Validates constructors, builders, sanitizers, and ordering helpers.
package models

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewSession(t *testing.T) {
	catID := uuid.New()
	s := NewSession().WithCategory(&catID).WithNotes("push day")

	if s.ID == uuid.Nil {
		t.Error("expected UUID to be set")
	}
	if !s.IsOpen() {
		t.Error("expected new session to be open")
	}
	if s.CategoryID == nil || *s.CategoryID != catID {
		t.Errorf("CategoryID = %v, want %v", s.CategoryID, catID)
	}
	if s.CategoryID == &catID {
		t.Error("expected WithCategory to copy the id")
	}
	if _, ok := s.Duration(); ok {
		t.Error("expected no duration for open session")
	}
}

func TestSessionDurationFloorsAtZero(t *testing.T) {
	start := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(-time.Minute)
	s := NewSession().WithStartedAt(start)
	s.EndedAt = &end

	d, ok := s.Duration()
	if !ok || d != 0 {
		t.Errorf("Duration() = %v, %v; want 0, true", d, ok)
	}
}

func TestClampWeight(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{in: 100, want: 100},
		{in: -5, want: 0},
		{in: math.Inf(1), want: 0},
		{in: math.Inf(-1), want: 0},
		{in: math.NaN(), want: 0},
	}
	for _, tt := range tests {
		if got := ClampWeight(tt.in); got != tt.want {
			t.Errorf("ClampWeight(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if got := ClampReps(-8); got != 0 {
		t.Errorf("ClampReps(-8) = %d, want 0", got)
	}
}

func TestNewSetEntrySanitizes(t *testing.T) {
	s := NewSetEntry(uuid.New(), 1, -8, math.Inf(1))
	if s.Reps != 0 || s.Weight != 0 {
		t.Errorf("got reps=%d weight=%v, want 0, 0", s.Reps, s.Weight)
	}
}

func TestLastLoggedSet(t *testing.T) {
	base := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	e := NewExerciseEntry(uuid.New(), "Bench", 0)
	if e.LastLoggedSet() != nil {
		t.Fatal("expected nil for entry without sets")
	}

	first := NewSetEntry(e.ID, 1, 5, 100)
	first.LoggedAt = base
	second := NewSetEntry(e.ID, 2, 3, 110)
	second.LoggedAt = base.Add(time.Minute)
	// Same timestamp as second but a higher index.
	third := NewSetEntry(e.ID, 3, 1, 120)
	third.LoggedAt = base.Add(time.Minute)
	e.Sets = []*SetEntry{third, first, second}

	if got := e.LastLoggedSet(); got != third {
		t.Errorf("LastLoggedSet() = set %d, want set 3", got.SetIndex)
	}
	if got := e.MaxSetIndex(); got != 3 {
		t.Errorf("MaxSetIndex() = %d, want 3", got)
	}

	e.SortSets()
	for i, s := range e.Sets {
		if s.SetIndex != i+1 {
			t.Errorf("after SortSets position %d has setIndex %d", i, s.SetIndex)
		}
	}
}

func TestCategoryIndex(t *testing.T) {
	c := NewCategory("Back").WithColor("4A5A66").WithIcon("figure.rower").AsBuiltIn()
	idx := NewCategoryIndex([]*Category{c})

	if got := idx.Resolve(&c.ID); got != c {
		t.Error("expected Resolve to return the indexed category")
	}
	if got := idx.Resolve(nil); got != nil {
		t.Error("expected nil for nil id")
	}
	missing := uuid.New()
	if got := idx.NameOf(&missing, "Unassigned"); got != "Unassigned" {
		t.Errorf("NameOf() = %q, want fallback", got)
	}
	if c.ColorHex == nil || *c.ColorHex != "4A5A66" {
		t.Error("expected color to be set")
	}
}

func TestBodyMetric(t *testing.T) {
	m := NewBodyMetric()
	if !m.IsEmpty() {
		t.Error("expected new body metric to be empty")
	}
	m.WithBodyWeight(82.5).WithBodyFat(140)
	if m.BodyWeight == nil || *m.BodyWeight != 82.5 {
		t.Error("expected body weight 82.5")
	}
	if m.BodyFatPercent == nil || *m.BodyFatPercent != 100 {
		t.Error("expected body fat clamped to 100")
	}
}

func TestReindex(t *testing.T) {
	s := NewSession()
	a := NewExerciseEntry(s.ID, "A", 4)
	b := NewExerciseEntry(s.ID, "B", 9)
	c := NewExerciseEntry(s.ID, "C", 0)
	s.Exercises = []*ExerciseEntry{a, b, c}

	changed := s.ReindexExercises()
	if len(changed) != 2 {
		t.Errorf("expected 2 changed entries, got %d", len(changed))
	}
	for i, want := range []*ExerciseEntry{c, a, b} {
		if s.Exercises[i] != want || want.OrderIndex != i {
			t.Errorf("position %d: got %s/%d", i, s.Exercises[i].ExerciseName, s.Exercises[i].OrderIndex)
		}
	}
	if again := s.ReindexExercises(); len(again) != 0 {
		t.Errorf("expected reindex to be stable, got %d changes", len(again))
	}

	base := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	first := NewSetEntry(a.ID, 3, 5, 100)
	first.LoggedAt = base
	second := NewSetEntry(a.ID, 3, 5, 100)
	second.LoggedAt = base.Add(time.Minute)
	a.Sets = []*SetEntry{second, first}

	a.ReindexSets()
	if a.Sets[0] != first || first.SetIndex != 1 || second.SetIndex != 2 {
		t.Errorf("expected loggedAt tiebreak, got %d/%d", first.SetIndex, second.SetIndex)
	}
}
