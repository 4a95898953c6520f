// ABOUTME: History filters over closed sessions by category and exercise.
package timeline

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/tmccoy01/healthplus/internal/models"
	"github.com/tmccoy01/healthplus/internal/normalize"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Filter narrows history to closed sessions. Nil/empty fields match everything.
type Filter struct {
	CategoryID  *uuid.UUID
	ExerciseKey string
}

// Apply returns the closed sessions matching f, preserving input order.
func (f Filter) Apply(sessions []*models.Session) []*models.Session {
	key := normalize.Name(f.ExerciseKey)

	var out []*models.Session
	for _, s := range sessions {
		if s.IsOpen() {
			continue
		}
		if f.CategoryID != nil && (s.CategoryID == nil || *s.CategoryID != *f.CategoryID) {
			continue
		}
		if key != "" && !hasExercise(s, key) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func hasExercise(s *models.Session, key string) bool {
	for _, e := range s.Exercises {
		if normalize.Name(e.ExerciseName) == key {
			return true
		}
	}
	return false
}

// Choice is one selectable history filter value.
type Choice struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// CategoryChoices lists categories referenced by closed sessions, by name.
// References that no longer resolve are skipped.
func CategoryChoices(sessions []*models.Session, categories models.CategoryIndex) []Choice {
	seen := make(map[uuid.UUID]bool)
	var choices []Choice
	for _, s := range sessions {
		if s.IsOpen() || s.CategoryID == nil || seen[*s.CategoryID] {
			continue
		}
		c := categories.Resolve(s.CategoryID)
		if c == nil {
			continue
		}
		seen[c.ID] = true
		choices = append(choices, Choice{ID: c.ID.String(), Label: c.Name})
	}
	sortChoices(choices)
	return choices
}

// ExerciseChoices lists distinct exercise names in closed sessions, keyed by
// normalized name and labeled with the first trimmed spelling seen.
func ExerciseChoices(sessions []*models.Session) []Choice {
	labels := make(map[string]string)
	var order []string
	for _, s := range sessions {
		if s.IsOpen() {
			continue
		}
		for _, e := range s.Exercises {
			key := normalize.Name(e.ExerciseName)
			if key == "" {
				continue
			}
			if _, ok := labels[key]; !ok {
				labels[key] = strings.TrimSpace(e.ExerciseName)
				order = append(order, key)
			}
		}
	}

	choices := make([]Choice, 0, len(order))
	for _, key := range order {
		choices = append(choices, Choice{ID: key, Label: labels[key]})
	}
	sortChoices(choices)
	return choices
}

func sortChoices(choices []Choice) {
	sort.SliceStable(choices, func(i, j int) bool {
		return strings.ToLower(choices[i].Label) < strings.ToLower(choices[j].Label)
	})
}

var volumePrinter = message.NewPrinter(language.English)

// FormatVolume renders a volume with thousands separators and no decimals.
func FormatVolume(v float64) string {
	return volumePrinter.Sprintf("%.0f", v)
}
