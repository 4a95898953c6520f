// ABOUTME: Session, ExerciseEntry, and SetEntry models for strength workout logging.
// ABOUTME: Children are owned collections; parents are referenced by plain ids.
package models

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Session is one workout. EndedAt == nil marks the single open session.
type Session struct {
	ID         uuid.UUID        `json:"id"`
	StartedAt  time.Time        `json:"started_at"`
	EndedAt    *time.Time       `json:"ended_at,omitempty"`
	CategoryID *uuid.UUID       `json:"category_id,omitempty"`
	Notes      string           `json:"notes"`
	Exercises  []*ExerciseEntry `json:"exercises"` // Populated when fetching the full graph
}

// NewSession creates an open session started now.
func NewSession() *Session {
	return &Session{
		ID:        uuid.New(),
		StartedAt: time.Now(),
	}
}

// WithStartedAt sets a custom start timestamp.
func (s *Session) WithStartedAt(t time.Time) *Session {
	s.StartedAt = t
	return s
}

// WithCategory sets the weak category reference.
func (s *Session) WithCategory(id *uuid.UUID) *Session {
	if id != nil {
		cid := *id
		s.CategoryID = &cid
	}
	return s
}

// WithNotes sets notes on the session.
func (s *Session) WithNotes(notes string) *Session {
	s.Notes = notes
	return s
}

// IsOpen reports whether the session has not been finished.
func (s *Session) IsOpen() bool {
	return s.EndedAt == nil
}

// Duration returns EndedAt-StartedAt floored at zero; ok is false for open sessions.
func (s *Session) Duration() (d time.Duration, ok bool) {
	if s.EndedAt == nil {
		return 0, false
	}
	d = s.EndedAt.Sub(s.StartedAt)
	if d < 0 {
		d = 0
	}
	return d, true
}

// Exercise finds an owned entry by id.
func (s *Session) Exercise(id uuid.UUID) *ExerciseEntry {
	for _, e := range s.Exercises {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// MaxOrderIndex returns the highest orderIndex, or -1 with no exercises.
func (s *Session) MaxOrderIndex() int {
	highest := -1
	for _, e := range s.Exercises {
		if e.OrderIndex > highest {
			highest = e.OrderIndex
		}
	}
	return highest
}

// SortExercises orders entries by (orderIndex, id).
func (s *Session) SortExercises() {
	sort.SliceStable(s.Exercises, func(i, j int) bool {
		a, b := s.Exercises[i], s.Exercises[j]
		if a.OrderIndex != b.OrderIndex {
			return a.OrderIndex < b.OrderIndex
		}
		return a.ID.String() < b.ID.String()
	})
}

// ExerciseEntry is one exercise performed within a session.
type ExerciseEntry struct {
	ID           uuid.UUID   `json:"id"`
	SessionID    uuid.UUID   `json:"session_id"`
	ExerciseName string      `json:"exercise_name"`
	OrderIndex   int         `json:"order_index"`
	Notes        string      `json:"notes"`
	Sets         []*SetEntry `json:"sets"`
}

// NewExerciseEntry creates an entry owned by sessionID.
func NewExerciseEntry(sessionID uuid.UUID, name string, orderIndex int) *ExerciseEntry {
	return &ExerciseEntry{
		ID:           uuid.New(),
		SessionID:    sessionID,
		ExerciseName: name,
		OrderIndex:   orderIndex,
	}
}

// WithNotes sets notes on the entry.
func (e *ExerciseEntry) WithNotes(notes string) *ExerciseEntry {
	e.Notes = notes
	return e
}

// Set finds an owned set by id.
func (e *ExerciseEntry) Set(id uuid.UUID) *SetEntry {
	for _, s := range e.Sets {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// MaxSetIndex returns the highest setIndex, or 0 with no sets.
func (e *ExerciseEntry) MaxSetIndex() int {
	highest := 0
	for _, s := range e.Sets {
		if s.SetIndex > highest {
			highest = s.SetIndex
		}
	}
	return highest
}

// LastLoggedSet returns the chronologically last set: latest loggedAt, then highest
// setIndex, then id. Nil when there are no sets.
func (e *ExerciseEntry) LastLoggedSet() *SetEntry {
	var last *SetEntry
	for _, s := range e.Sets {
		if last == nil || loggedAfter(s, last) {
			last = s
		}
	}
	return last
}

func loggedAfter(a, b *SetEntry) bool {
	if !a.LoggedAt.Equal(b.LoggedAt) {
		return a.LoggedAt.After(b.LoggedAt)
	}
	if a.SetIndex != b.SetIndex {
		return a.SetIndex > b.SetIndex
	}
	return a.ID.String() > b.ID.String()
}

// SortSets orders sets by (setIndex, loggedAt, id).
func (e *ExerciseEntry) SortSets() {
	sort.SliceStable(e.Sets, func(i, j int) bool {
		a, b := e.Sets[i], e.Sets[j]
		if a.SetIndex != b.SetIndex {
			return a.SetIndex < b.SetIndex
		}
		if !a.LoggedAt.Equal(b.LoggedAt) {
			return a.LoggedAt.Before(b.LoggedAt)
		}
		return a.ID.String() < b.ID.String()
	})
}

// SetEntry is one logged set.
type SetEntry struct {
	ID         uuid.UUID `json:"id"`
	ExerciseID uuid.UUID `json:"exercise_id"`
	SetIndex   int       `json:"set_index"`
	Reps       int       `json:"reps"`
	Weight     float64   `json:"weight"`
	IsWarmup   bool      `json:"is_warmup"`
	Notes      string    `json:"notes"`
	LoggedAt   time.Time `json:"logged_at"`
}

// NewSetEntry creates a set owned by exerciseID with sanitized reps and weight.
func NewSetEntry(exerciseID uuid.UUID, setIndex, reps int, weight float64) *SetEntry {
	return &SetEntry{
		ID:         uuid.New(),
		ExerciseID: exerciseID,
		SetIndex:   setIndex,
		Reps:       ClampReps(reps),
		Weight:     ClampWeight(weight),
		LoggedAt:   time.Now(),
	}
}

// Volume is weight × reps.
func (s *SetEntry) Volume() float64 {
	return s.Weight * float64(s.Reps)
}

// ClampReps floors reps at zero.
func ClampReps(reps int) int {
	if reps < 0 {
		return 0
	}
	return reps
}

// ClampWeight floors weight at zero and maps NaN/±Inf to zero.
func ClampWeight(weight float64) float64 {
	if math.IsNaN(weight) || math.IsInf(weight, 0) || weight < 0 {
		return 0
	}
	return weight
}

// ReindexExercises sorts entries by (orderIndex, id) and renumbers them 0..n-1.
// It returns the entries whose orderIndex changed.
func (s *Session) ReindexExercises() []*ExerciseEntry {
	s.SortExercises()
	var changed []*ExerciseEntry
	for i, e := range s.Exercises {
		if e.OrderIndex != i {
			e.OrderIndex = i
			changed = append(changed, e)
		}
	}
	return changed
}

// ReindexSets sorts sets by (setIndex, loggedAt, id) and renumbers them 1..n.
// It returns the sets whose setIndex changed.
func (e *ExerciseEntry) ReindexSets() []*SetEntry {
	e.SortSets()
	var changed []*SetEntry
	for i, s := range e.Sets {
		if s.SetIndex != i+1 {
			s.SetIndex = i + 1
			changed = append(changed, s)
		}
	}
	return changed
}
