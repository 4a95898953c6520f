// ABOUTME: Exercise entry operations: add, remove with reindex, rename, notes.
// ABOUTME: orderIndex stays a contiguous 0-based sequence after every structural change.
package workout

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tmccoy01/healthplus/internal/models"
	"github.com/tmccoy01/healthplus/internal/storage"
)

// AddExercise appends an exercise to a session after its current last entry.
func (m *Manager) AddExercise(ctx context.Context, sessionID uuid.UUID, name, notes string) (*models.ExerciseEntry, error) {
	var entry *models.ExerciseEntry
	err := m.store.Update(ctx, func(tx *storage.Tx) error {
		s, err := tx.GetSession(ctx, sessionID)
		if err != nil {
			return err
		}
		entry, err = addExercise(ctx, tx, s, name, notes)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func addExercise(ctx context.Context, tx *storage.Tx, s *models.Session, name, notes string) (*models.ExerciseEntry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyExerciseName
	}

	entry := models.NewExerciseEntry(s.ID, name, s.MaxOrderIndex()+1).WithNotes(strings.TrimSpace(notes))
	if err := tx.InsertExercise(ctx, entry); err != nil {
		return nil, err
	}
	s.Exercises = append(s.Exercises, entry)
	return entry, nil
}

// RemoveExercise deletes an entry and its sets, then closes the gap in the
// session's ordering.
func (m *Manager) RemoveExercise(ctx context.Context, entryID uuid.UUID) error {
	return m.store.Update(ctx, func(tx *storage.Tx) error {
		s, _, err := loadEntry(ctx, tx, entryID)
		if err != nil {
			return err
		}
		if err := tx.DeleteExercise(ctx, entryID); err != nil {
			return err
		}

		remaining := s.Exercises[:0]
		for _, e := range s.Exercises {
			if e.ID != entryID {
				remaining = append(remaining, e)
			}
		}
		s.Exercises = remaining

		for _, e := range s.ReindexExercises() {
			if err := tx.UpdateExercise(ctx, e); err != nil {
				return err
			}
		}
		return nil
	})
}

// RenameExercise changes an entry's exercise name.
func (m *Manager) RenameExercise(ctx context.Context, entryID uuid.UUID, name string) (*models.ExerciseEntry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyExerciseName
	}
	return m.updateEntry(ctx, entryID, func(e *models.ExerciseEntry) {
		e.ExerciseName = name
	})
}

// UpdateExerciseNotes replaces an entry's notes with the trimmed text.
func (m *Manager) UpdateExerciseNotes(ctx context.Context, entryID uuid.UUID, notes string) (*models.ExerciseEntry, error) {
	notes = strings.TrimSpace(notes)
	return m.updateEntry(ctx, entryID, func(e *models.ExerciseEntry) {
		e.Notes = notes
	})
}

func (m *Manager) updateEntry(ctx context.Context, entryID uuid.UUID, mutate func(*models.ExerciseEntry)) (*models.ExerciseEntry, error) {
	var entry *models.ExerciseEntry
	err := m.store.Update(ctx, func(tx *storage.Tx) error {
		_, e, err := loadEntry(ctx, tx, entryID)
		if err != nil {
			return err
		}
		mutate(e)
		entry = e
		return tx.UpdateExercise(ctx, e)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// loadEntry returns an entry together with its owning session graph.
func loadEntry(ctx context.Context, tx *storage.Tx, entryID uuid.UUID) (*models.Session, *models.ExerciseEntry, error) {
	sessionID, err := tx.SessionIDForExercise(ctx, entryID)
	if err != nil {
		return nil, nil, err
	}
	s, err := tx.GetSession(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	e := s.Exercise(entryID)
	if e == nil {
		return nil, nil, fmt.Errorf("exercise entry %s: %w", entryID, storage.ErrNotFound)
	}
	return s, e, nil
}
