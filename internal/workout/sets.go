// ABOUTME: Set operations: add, repeat last, edit, remove with reindex, and restore.
// ABOUTME: setIndex stays a contiguous 1-based sequence in logged order.
package workout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tmccoy01/healthplus/internal/models"
	"github.com/tmccoy01/healthplus/internal/storage"
)

// SetInput describes a new set. Negative reps and negative or non-finite
// weights are stored as zero. A nil LoggedAt means now.
type SetInput struct {
	Reps     int
	Weight   float64
	IsWarmup bool
	Notes    string
	LoggedAt *time.Time
}

// SetUpdate holds the fields to change on an existing set; nil fields are kept.
type SetUpdate struct {
	Reps     *int
	Weight   *float64
	IsWarmup *bool
	Notes    *string
}

// DeletedSet is a snapshot of a removed set, enough to restore it.
type DeletedSet struct {
	SessionID uuid.UUID
	Set       models.SetEntry
}

// AddSet logs a set after the entry's current highest setIndex.
func (m *Manager) AddSet(ctx context.Context, entryID uuid.UUID, in SetInput) (*models.SetEntry, error) {
	var set *models.SetEntry
	err := m.store.Update(ctx, func(tx *storage.Tx) error {
		_, e, err := loadEntry(ctx, tx, entryID)
		if err != nil {
			return err
		}
		set, err = m.addSet(ctx, tx, e, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

func (m *Manager) addSet(ctx context.Context, tx *storage.Tx, e *models.ExerciseEntry, in SetInput) (*models.SetEntry, error) {
	set := models.NewSetEntry(e.ID, e.MaxSetIndex()+1, in.Reps, in.Weight)
	set.IsWarmup = in.IsWarmup
	set.Notes = strings.TrimSpace(in.Notes)
	set.LoggedAt = m.now()
	if in.LoggedAt != nil {
		set.LoggedAt = *in.LoggedAt
	}

	if err := tx.InsertSet(ctx, set); err != nil {
		return nil, err
	}
	e.Sets = append(e.Sets, set)
	return set, nil
}

// RepeatLastSet copies the chronologically last set of an entry into a new set.
// It returns nil when the entry has no sets.
func (m *Manager) RepeatLastSet(ctx context.Context, entryID uuid.UUID) (*models.SetEntry, error) {
	var set *models.SetEntry
	err := m.store.Update(ctx, func(tx *storage.Tx) error {
		_, e, err := loadEntry(ctx, tx, entryID)
		if err != nil {
			return err
		}
		last := e.LastLoggedSet()
		if last == nil {
			return nil
		}
		set, err = m.addSet(ctx, tx, e, SetInput{
			Reps:     last.Reps,
			Weight:   last.Weight,
			IsWarmup: last.IsWarmup,
			Notes:    last.Notes,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

// UpdateSet edits a set in place with the same sanitizing as AddSet.
func (m *Manager) UpdateSet(ctx context.Context, setID uuid.UUID, upd SetUpdate) (*models.SetEntry, error) {
	var set *models.SetEntry
	err := m.store.Update(ctx, func(tx *storage.Tx) error {
		_, _, s, err := loadSet(ctx, tx, setID)
		if err != nil {
			return err
		}
		if upd.Reps != nil {
			s.Reps = models.ClampReps(*upd.Reps)
		}
		if upd.Weight != nil {
			s.Weight = models.ClampWeight(*upd.Weight)
		}
		if upd.IsWarmup != nil {
			s.IsWarmup = *upd.IsWarmup
		}
		if upd.Notes != nil {
			s.Notes = strings.TrimSpace(*upd.Notes)
		}
		set = s
		return tx.UpdateSet(ctx, s)
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

// RemoveSet deletes a set and renumbers the remaining sets of its entry.
// The returned snapshot can be passed to RestoreSet to undo the removal.
func (m *Manager) RemoveSet(ctx context.Context, setID uuid.UUID) (*DeletedSet, error) {
	var deleted *DeletedSet
	err := m.store.Update(ctx, func(tx *storage.Tx) error {
		session, e, s, err := loadSet(ctx, tx, setID)
		if err != nil {
			return err
		}
		if err := tx.DeleteSet(ctx, setID); err != nil {
			return err
		}

		remaining := e.Sets[:0]
		for _, other := range e.Sets {
			if other.ID != setID {
				remaining = append(remaining, other)
			}
		}
		e.Sets = remaining

		for _, changed := range e.ReindexSets() {
			if err := tx.UpdateSet(ctx, changed); err != nil {
				return err
			}
		}
		deleted = &DeletedSet{SessionID: session.ID, Set: *s}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// RestoreSet re-inserts a removed set at its former position.
func (m *Manager) RestoreSet(ctx context.Context, snapshot DeletedSet) (*models.SetEntry, error) {
	restored := snapshot.Set
	err := m.store.Update(ctx, func(tx *storage.Tx) error {
		_, e, err := loadEntry(ctx, tx, restored.ExerciseID)
		if err != nil {
			return err
		}

		if restored.SetIndex < 1 {
			restored.SetIndex = 1
		}
		for _, other := range e.Sets {
			if other.SetIndex >= restored.SetIndex {
				other.SetIndex++
			}
		}
		if err := tx.InsertSet(ctx, &restored); err != nil {
			return err
		}
		e.Sets = append(e.Sets, &restored)

		e.ReindexSets()
		for _, other := range e.Sets {
			if other.ID == restored.ID {
				continue
			}
			if err := tx.UpdateSet(ctx, other); err != nil {
				return err
			}
		}
		if err := tx.UpdateSet(ctx, &restored); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &restored, nil
}

// loadSet returns a set with its owning entry and session graph.
func loadSet(ctx context.Context, tx *storage.Tx, setID uuid.UUID) (*models.Session, *models.ExerciseEntry, *models.SetEntry, error) {
	sessionID, err := tx.SessionIDForSet(ctx, setID)
	if err != nil {
		return nil, nil, nil, err
	}
	session, err := tx.GetSession(ctx, sessionID)
	if err != nil {
		return nil, nil, nil, err
	}
	for _, e := range session.Exercises {
		if s := e.Set(setID); s != nil {
			return session, e, s, nil
		}
	}
	return nil, nil, nil, fmt.Errorf("set entry %s: %w", setID, storage.ErrNotFound)
}
