// ABOUTME: Previous-value lookup: the most recent set logged for an exercise name.
// ABOUTME: Pure read over already-fetched sessions; "no history" is a nil result, not an error.
package lookup

import (
	"time"

	"github.com/google/uuid"
	"github.com/tmccoy01/healthplus/internal/models"
	"github.com/tmccoy01/healthplus/internal/normalize"
)

// Reference is the "last time" value shown while logging a new set.
type Reference struct {
	Weight       float64   `json:"weight"`
	Reps         int       `json:"reps"`
	LoggedAt     time.Time `json:"logged_at"`
	ExerciseName string    `json:"exercise_name"`
	SessionID    uuid.UUID `json:"session_id"`
}

// LatestReference returns the latest set across all sessions whose exercise
// name normalizes to the same key as exerciseName. Sets in excludingSessionID
// are skipped. The first set found wins a loggedAt tie.
func LatestReference(sessions []*models.Session, exerciseName string, excludingSessionID *uuid.UUID) *Reference {
	key := normalize.Name(exerciseName)
	if key == "" {
		return nil
	}

	var best *Reference
	for _, s := range sessions {
		if excludingSessionID != nil && s.ID == *excludingSessionID {
			continue
		}
		for _, e := range s.Exercises {
			if normalize.Name(e.ExerciseName) != key {
				continue
			}
			for _, set := range e.Sets {
				if best != nil && !set.LoggedAt.After(best.LoggedAt) {
					continue
				}
				best = &Reference{
					Weight:       set.Weight,
					Reps:         set.Reps,
					LoggedAt:     set.LoggedAt,
					ExerciseName: e.ExerciseName,
					SessionID:    s.ID,
				}
			}
		}
	}
	return best
}
