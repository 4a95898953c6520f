// ABOUTME: Date-range presets, the exercise picker list, and a change signature
// ABOUTME: used to decide when a dashboard needs recomputing.
package stats

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tmccoy01/healthplus/internal/models"
	"github.com/tmccoy01/healthplus/internal/normalize"
)

// RangePreset is a dashboard date window ending at a reference time.
type RangePreset string

const (
	RangeFourWeeks   RangePreset = "4W"
	RangeThreeMonths RangePreset = "3M"
	RangeSixMonths   RangePreset = "6M"
	RangeOneYear     RangePreset = "1Y"
	RangeAll         RangePreset = "All"
)

// RangePresets lists the presets in display order.
var RangePresets = []RangePreset{RangeFourWeeks, RangeThreeMonths, RangeSixMonths, RangeOneYear, RangeAll}

// ParseRangePreset accepts a preset label case-insensitively.
func ParseRangePreset(s string) (RangePreset, error) {
	for _, p := range RangePresets {
		if strings.EqualFold(strings.TrimSpace(s), string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown range %q (want one of 4W, 3M, 6M, 1Y, All)", s)
}

// Interval returns the window ending at ref, or nil for All.
func (p RangePreset) Interval(ref time.Time) *DateRange {
	var start time.Time
	switch p {
	case RangeFourWeeks:
		start = ref.AddDate(0, 0, -28)
	case RangeThreeMonths:
		start = ref.AddDate(0, -3, 0)
	case RangeSixMonths:
		start = ref.AddDate(0, -6, 0)
	case RangeOneYear:
		start = ref.AddDate(-1, 0, 0)
	default:
		return nil
	}
	return &DateRange{Start: start, End: ref}
}

// ExerciseOption is one entry in the exercise picker.
type ExerciseOption struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// ExerciseOptions lists distinct exercises with at least one set in a closed
// session. The label is the first trimmed spelling seen.
func ExerciseOptions(sessions []*models.Session) []ExerciseOption {
	labels := make(map[string]string)
	for _, s := range sessions {
		if s.IsOpen() {
			continue
		}
		for _, e := range s.Exercises {
			if len(e.Sets) == 0 {
				continue
			}
			key := normalize.Name(e.ExerciseName)
			if key == "" {
				continue
			}
			if _, ok := labels[key]; !ok {
				labels[key] = strings.TrimSpace(e.ExerciseName)
			}
		}
	}

	options := make([]ExerciseOption, 0, len(labels))
	for key, label := range labels {
		options = append(options, ExerciseOption{Key: key, Label: label})
	}
	sort.Slice(options, func(i, j int) bool {
		li, lj := strings.ToLower(options[i].Label), strings.ToLower(options[j].Label)
		if li != lj {
			return li < lj
		}
		return options[i].Key < options[j].Key
	})
	return options
}

// Signature fingerprints everything in closed sessions that can change a
// snapshot. Equal signatures mean a recompute would return the same result.
func Signature(sessions []*models.Session) string {
	closed := make([]*models.Session, 0, len(sessions))
	for _, s := range sessions {
		if !s.IsOpen() {
			closed = append(closed, s)
		}
	}
	sort.Slice(closed, func(i, j int) bool {
		return closed[i].ID.String() < closed[j].ID.String()
	})

	var b strings.Builder
	for _, s := range closed {
		b.WriteString(s.ID.String())
		b.WriteByte('~')
		b.WriteString(strconv.FormatInt(s.StartedAt.UnixNano(), 10))

		entries := append([]*models.ExerciseEntry(nil), s.Exercises...)
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].ID.String() < entries[j].ID.String()
		})
		for _, e := range entries {
			b.WriteByte('|')
			b.WriteString(normalize.Name(e.ExerciseName))

			sets := append([]*models.SetEntry(nil), e.Sets...)
			sort.Slice(sets, func(i, j int) bool {
				return sets[i].ID.String() < sets[j].ID.String()
			})
			for _, set := range sets {
				fmt.Fprintf(&b, "#%s:%d:%s:%d", set.ID, set.Reps,
					strconv.FormatFloat(set.Weight, 'g', -1, 64), set.LoggedAt.UnixNano())
			}
		}
		b.WriteByte(';')
	}
	return b.String()
}
