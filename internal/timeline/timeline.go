// ABOUTME: Timeline grouping for the session feed and history: day and week sections,
// ABOUTME: summary lines, duration labels, per-session totals, and history filters.
package timeline

import (
	"fmt"
	"sort"
	"time"

	"github.com/tmccoy01/healthplus/internal/calendar"
	"github.com/tmccoy01/healthplus/internal/models"
)

// DefaultSummaryLines is the summary length used by the feed.
const DefaultSummaryLines = 3

// NoExercisesLine is the summary for a session without exercises.
const NoExercisesLine = "No exercises logged"

// Section is a bucket of sessions sharing a calendar day or week.
type Section struct {
	Start    time.Time         `json:"start"`
	Sessions []*models.Session `json:"sessions"`
}

// GroupByDay buckets sessions by the start of their calendar day. Days are
// most recent first; sessions within a day are newest first.
func GroupByDay(sessions []*models.Session, cal calendar.Calendar) []Section {
	return group(sessions, cal.StartOfDay)
}

// GroupByWeek buckets sessions by the start of their calendar week, in the
// same order as GroupByDay.
func GroupByWeek(sessions []*models.Session, cal calendar.Calendar) []Section {
	return group(sessions, cal.StartOfWeek)
}

func group(sessions []*models.Session, bucket func(time.Time) time.Time) []Section {
	byStart := make(map[int64]*Section)
	for _, s := range sessions {
		start := bucket(s.StartedAt)
		k := start.Unix()
		sec, ok := byStart[k]
		if !ok {
			sec = &Section{Start: start}
			byStart[k] = sec
		}
		sec.Sessions = append(sec.Sessions, s)
	}

	sections := make([]Section, 0, len(byStart))
	for _, sec := range byStart {
		sort.SliceStable(sec.Sessions, func(i, j int) bool {
			a, b := sec.Sessions[i], sec.Sessions[j]
			if !a.StartedAt.Equal(b.StartedAt) {
				return a.StartedAt.After(b.StartedAt)
			}
			return a.ID.String() < b.ID.String()
		})
		sections = append(sections, *sec)
	}
	sort.Slice(sections, func(i, j int) bool {
		return sections[i].Start.After(sections[j].Start)
	})
	return sections
}

// SummaryLines renders one "{sets}x {name}" line per exercise in session order.
// Past maxLines the list is cut to maxLines-1 entries plus a "+N more" line.
func SummaryLines(s *models.Session, maxLines int) []string {
	if maxLines <= 0 {
		maxLines = DefaultSummaryLines
	}
	if len(s.Exercises) == 0 {
		return []string{NoExercisesLine}
	}

	entries := append([]*models.ExerciseEntry(nil), s.Exercises...)
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].OrderIndex != entries[j].OrderIndex {
			return entries[i].OrderIndex < entries[j].OrderIndex
		}
		return entries[i].ID.String() < entries[j].ID.String()
	})

	shown := entries
	if len(entries) > maxLines {
		shown = entries[:maxLines-1]
	}

	lines := make([]string, 0, len(shown)+1)
	for _, e := range shown {
		lines = append(lines, fmt.Sprintf("%dx %s", len(e.Sets), e.ExerciseName))
	}
	if remaining := len(entries) - len(shown); remaining > 0 {
		lines = append(lines, fmt.Sprintf("+%d more", remaining))
	}
	return lines
}

// DurationLabel formats a closed session's length as "<1m", "45m", or "1h 05m".
// ok is false for open sessions.
func DurationLabel(s *models.Session) (label string, ok bool) {
	d, ok := s.Duration()
	if !ok {
		return "", false
	}
	return FormatDuration(d), true
}

// FormatDuration renders d in hours and minutes.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return "<1m"
	}
	total := int(d / time.Minute)
	hours, minutes := total/60, total%60
	if hours == 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %02dm", hours, minutes)
}

// SetCount is the number of sets across all of a session's exercises.
func SetCount(s *models.Session) int {
	n := 0
	for _, e := range s.Exercises {
		n += len(e.Sets)
	}
	return n
}

// TotalVolume sums weight × reps across all of a session's sets.
func TotalVolume(s *models.Session) float64 {
	var total float64
	for _, e := range s.Exercises {
		for _, set := range e.Sets {
			total += set.Volume()
		}
	}
	return total
}

// WeekLabel renders a week section header such as "Jan 6 - Jan 12".
func WeekLabel(weekStart time.Time) string {
	weekEnd := weekStart.AddDate(0, 0, 6)
	return weekStart.Format("Jan 2") + " - " + weekEnd.Format("Jan 2")
}
