// ABOUTME: Session lifecycle manager: start, finish, duplicate, and restart sessions.
// ABOUTME: Every operation runs in one store transaction so no partial graph is committed.
package workout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tmccoy01/healthplus/internal/models"
	"github.com/tmccoy01/healthplus/internal/storage"
)

var (
	// ErrActiveSessionExists is returned when starting a session while another is open.
	ErrActiveSessionExists = errors.New("a session is already in progress")
	// ErrEmptyExerciseName is returned when an exercise name is blank after trimming.
	ErrEmptyExerciseName = errors.New("exercise name cannot be empty")
	// ErrSessionClosed is returned when finishing a session that already ended.
	ErrSessionClosed = errors.New("session is already finished")
)

// Manager owns every mutation of sessions, exercise entries, and sets.
type Manager struct {
	store storage.Repository
	now   func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock replaces the wall clock used for default timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a Manager backed by store.
func NewManager(store storage.Repository, opts ...Option) *Manager {
	m := &Manager{store: store, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// StartOptions describes a new session. A nil StartedAt means now.
type StartOptions struct {
	CategoryID *uuid.UUID
	Notes      string
	StartedAt  *time.Time
}

// StartSession opens a new session. It fails with ErrActiveSessionExists while
// any session is open.
func (m *Manager) StartSession(ctx context.Context, opts StartOptions) (*models.Session, error) {
	var session *models.Session
	err := m.store.Update(ctx, func(tx *storage.Tx) error {
		var err error
		session, err = m.startSession(ctx, tx, opts)
		return err
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (m *Manager) startSession(ctx context.Context, tx *storage.Tx, opts StartOptions) (*models.Session, error) {
	active, err := tx.ActiveSession(ctx)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, ErrActiveSessionExists
	}

	startedAt := m.now()
	if opts.StartedAt != nil {
		startedAt = *opts.StartedAt
	}
	session := models.NewSession().
		WithStartedAt(startedAt).
		WithCategory(opts.CategoryID).
		WithNotes(strings.TrimSpace(opts.Notes))
	if err := tx.InsertSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// FinishSession closes an open session. A nil endedAt means now; an end before
// the start is clamped to the start.
func (m *Manager) FinishSession(ctx context.Context, sessionID uuid.UUID, endedAt *time.Time) (*models.Session, error) {
	var session *models.Session
	err := m.store.Update(ctx, func(tx *storage.Tx) error {
		s, err := tx.GetSession(ctx, sessionID)
		if err != nil {
			return err
		}
		if !s.IsOpen() {
			return ErrSessionClosed
		}

		end := m.now()
		if endedAt != nil {
			end = *endedAt
		}
		if end.Before(s.StartedAt) {
			end = s.StartedAt
		}
		s.EndedAt = &end
		session = s
		return tx.UpdateSession(ctx, s)
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// UpdateSessionNotes replaces a session's notes with the trimmed text.
func (m *Manager) UpdateSessionNotes(ctx context.Context, sessionID uuid.UUID, notes string) (*models.Session, error) {
	var session *models.Session
	err := m.store.Update(ctx, func(tx *storage.Tx) error {
		s, err := tx.GetSession(ctx, sessionID)
		if err != nil {
			return err
		}
		s.Notes = strings.TrimSpace(notes)
		session = s
		return tx.UpdateSession(ctx, s)
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// DeleteSession removes a session with all of its exercises and sets.
func (m *Manager) DeleteSession(ctx context.Context, sessionID uuid.UUID) error {
	return m.store.Update(ctx, func(tx *storage.Tx) error {
		return tx.DeleteSession(ctx, sessionID)
	})
}

// DuplicateSession deep-copies source into a new closed session that ends now
// and lasts as long as the source did. Set timestamps keep their offset from the
// session start.
func (m *Manager) DuplicateSession(ctx context.Context, sourceID uuid.UUID) (*models.Session, error) {
	var session *models.Session
	err := m.store.Update(ctx, func(tx *storage.Tx) error {
		src, err := tx.GetSession(ctx, sourceID)
		if err != nil {
			return err
		}
		session = duplicate(src, m.now())
		return tx.InsertSessionGraph(ctx, session)
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

func duplicate(src *models.Session, end time.Time) *models.Session {
	// An open source has no duration yet.
	duration, _ := src.Duration()
	start := end.Add(-duration)

	copied := models.NewSession().
		WithStartedAt(start).
		WithCategory(src.CategoryID).
		WithNotes(src.Notes)
	copied.EndedAt = &end

	for _, e := range src.Exercises {
		entry := models.NewExerciseEntry(copied.ID, e.ExerciseName, e.OrderIndex).WithNotes(e.Notes)
		for _, set := range e.Sets {
			dup := models.NewSetEntry(entry.ID, set.SetIndex, set.Reps, set.Weight)
			dup.IsWarmup = set.IsWarmup
			dup.Notes = set.Notes
			dup.LoggedAt = clampTime(start.Add(set.LoggedAt.Sub(src.StartedAt)), start, end)
			entry.Sets = append(entry.Sets, dup)
		}
		copied.Exercises = append(copied.Exercises, entry)
	}
	return copied
}

func clampTime(t, lo, hi time.Time) time.Time {
	if t.Before(lo) {
		return lo
	}
	if t.After(hi) {
		return hi
	}
	return t
}

// StartSessionFrom opens a new session with source's category and notes and
// re-adds each of its exercises by name and notes. No sets are carried over.
func (m *Manager) StartSessionFrom(ctx context.Context, sourceID uuid.UUID) (*models.Session, error) {
	var session *models.Session
	err := m.store.Update(ctx, func(tx *storage.Tx) error {
		src, err := tx.GetSession(ctx, sourceID)
		if err != nil {
			return err
		}

		s, err := m.startSession(ctx, tx, StartOptions{CategoryID: src.CategoryID, Notes: src.Notes})
		if err != nil {
			return err
		}
		for _, e := range src.Exercises {
			if _, err := addExercise(ctx, tx, s, e.ExerciseName, e.Notes); err != nil {
				return fmt.Errorf("re-add %q: %w", e.ExerciseName, err)
			}
		}
		session = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}
