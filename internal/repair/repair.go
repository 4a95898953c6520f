// ABOUTME: Startup integrity pass that corrects structurally invalid session graphs.
// ABOUTME: Idempotent: clean data produces zero writes and a report without fixes.
package repair

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tmccoy01/healthplus/internal/models"
	"github.com/tmccoy01/healthplus/internal/storage"
)

// PlaceholderExerciseName replaces exercise names that are blank.
const PlaceholderExerciseName = "Untitled Exercise"

// Report summarizes one repair run.
type Report struct {
	SessionsTouched int  `json:"sessions_touched"`
	TotalFixes      int  `json:"total_fixes"`
	HasFixes        bool `json:"has_fixes"`
}

// Run repairs every session graph in store inside a single transaction.
func Run(ctx context.Context, store storage.Repository) (Report, error) {
	var report Report
	err := store.Update(ctx, func(tx *storage.Tx) error {
		sessions, err := tx.ListSessions(ctx, storage.SessionFilter{})
		if err != nil {
			return err
		}

		var changes []*Changes
		report, changes = Plan(sessions)
		for _, c := range changes {
			if err := c.write(ctx, tx); err != nil {
				return fmt.Errorf("repair session %s: %w", c.Session.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return Report{}, fmt.Errorf("repair: %w", err)
	}
	return report, nil
}

// Changes records the rows of one session graph that a repair modified.
type Changes struct {
	Session        *models.Session
	SessionDirty   bool
	Exercises      []*models.ExerciseEntry
	Sets           []*models.SetEntry
	Fixes          int
	dirtyExercises map[uuid.UUID]bool
	dirtySets      map[uuid.UUID]bool
}

// Plan fixes sessions in memory and reports what changed. It does not persist.
func Plan(sessions []*models.Session) (Report, []*Changes) {
	var report Report
	var all []*Changes
	for _, s := range sessions {
		c := fixSession(s)
		if c.Fixes == 0 {
			continue
		}
		report.SessionsTouched++
		report.TotalFixes += c.Fixes
		all = append(all, c)
	}
	report.HasFixes = report.TotalFixes > 0
	return report, all
}

func fixSession(s *models.Session) *Changes {
	c := &Changes{
		Session:        s,
		dirtyExercises: make(map[uuid.UUID]bool),
		dirtySets:      make(map[uuid.UUID]bool),
	}

	if notes := strings.TrimSpace(s.Notes); notes != s.Notes {
		s.Notes = notes
		c.SessionDirty = true
		c.Fixes++
	}
	if s.EndedAt != nil && s.EndedAt.Before(s.StartedAt) {
		end := s.StartedAt
		s.EndedAt = &end
		c.SessionDirty = true
		c.Fixes++
	}

	for _, e := range s.Exercises {
		if strings.TrimSpace(e.ExerciseName) == "" {
			e.ExerciseName = PlaceholderExerciseName
			c.markExercise(e)
		}
		if notes := strings.TrimSpace(e.Notes); notes != e.Notes {
			e.Notes = notes
			c.markExercise(e)
		}

		for _, set := range e.Sets {
			if reps := models.ClampReps(set.Reps); reps != set.Reps {
				set.Reps = reps
				c.markSet(set)
			}
			if weight := models.ClampWeight(set.Weight); weight != set.Weight {
				set.Weight = weight
				c.markSet(set)
			}
			if notes := strings.TrimSpace(set.Notes); notes != set.Notes {
				set.Notes = notes
				c.markSet(set)
			}
		}
		for _, set := range e.ReindexSets() {
			c.markSet(set)
		}
	}
	for _, e := range s.ReindexExercises() {
		c.markExercise(e)
	}
	return c
}

// markExercise counts one fix and records e for writing once.
func (c *Changes) markExercise(e *models.ExerciseEntry) {
	c.Fixes++
	if !c.dirtyExercises[e.ID] {
		c.dirtyExercises[e.ID] = true
		c.Exercises = append(c.Exercises, e)
	}
}

func (c *Changes) markSet(s *models.SetEntry) {
	c.Fixes++
	if !c.dirtySets[s.ID] {
		c.dirtySets[s.ID] = true
		c.Sets = append(c.Sets, s)
	}
}

func (c *Changes) write(ctx context.Context, tx *storage.Tx) error {
	if c.SessionDirty {
		if err := tx.UpdateSession(ctx, c.Session); err != nil {
			return err
		}
	}
	for _, e := range c.Exercises {
		if err := tx.UpdateExercise(ctx, e); err != nil {
			return err
		}
	}
	for _, s := range c.Sets {
		if err := tx.UpdateSet(ctx, s); err != nil {
			return err
		}
	}
	return nil
}
