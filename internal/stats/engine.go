// ABOUTME: Per-exercise statistics: top sets, estimated 1RM, weekly volume, and trend.
// ABOUTME: Pure and deterministic over an already-fetched session list; holds no cached state.
package stats

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/tmccoy01/healthplus/internal/calendar"
	"github.com/tmccoy01/healthplus/internal/models"
	"github.com/tmccoy01/healthplus/internal/normalize"
)

// recentWindow is how many top sets make up the recent and previous averages.
const recentWindow = 4

// DateRange is a closed interval [Start, End] over session start times.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the closed interval.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// PerformancePoint summarizes one session's sets for the target exercise.
type PerformancePoint struct {
	SessionID          uuid.UUID `json:"session_id"`
	Date               time.Time `json:"date"`
	TopSetWeight       float64   `json:"top_set_weight"`
	EstimatedOneRepMax float64   `json:"estimated_one_rep_max"`
	TotalVolume        float64   `json:"total_volume"`
	SetCount           int       `json:"set_count"`
}

// WeeklyVolumePoint is the summed volume of one calendar week.
type WeeklyVolumePoint struct {
	WeekStart time.Time `json:"week_start"`
	Volume    float64   `json:"volume"`
}

// Snapshot is the full dashboard for one exercise.
type Snapshot struct {
	ExerciseKey            string              `json:"exercise_key"`
	PerformancePoints      []PerformancePoint  `json:"performance_points"`
	WeeklyVolume           []WeeklyVolumePoint `json:"weekly_volume"`
	Trend                  Trend               `json:"trend"`
	LastWorkoutDate        *time.Time          `json:"last_workout_date,omitempty"`
	BestWeight             *float64            `json:"best_weight,omitempty"`
	BestEstimatedOneRepMax *float64            `json:"best_estimated_one_rep_max,omitempty"`
	RecentAverageTopSet    *float64            `json:"recent_average_top_set,omitempty"`
	PreviousAverageTopSet  *float64            `json:"previous_average_top_set,omitempty"`
}

// IsEmpty reports whether no session matched.
func (s Snapshot) IsEmpty() bool {
	return len(s.PerformancePoints) == 0
}

// EstimatedOneRepMax applies the Epley formula: weight × (1 + reps/30).
func EstimatedOneRepMax(weight float64, reps int) float64 {
	weight = models.ClampWeight(weight)
	reps = models.ClampReps(reps)
	return weight * (1 + float64(reps)/30)
}

// Compute builds the snapshot for exerciseName over closed sessions, optionally
// limited to interval, bucketing weeks with cal.
func Compute(sessions []*models.Session, exerciseName string, interval *DateRange, cal calendar.Calendar) Snapshot {
	key := normalize.Name(exerciseName)
	snap := Snapshot{ExerciseKey: key, Trend: TrendInsufficientData}
	if key == "" {
		return snap
	}

	closed := make([]*models.Session, 0, len(sessions))
	for _, s := range sessions {
		if s.IsOpen() {
			continue
		}
		if interval != nil && !interval.Contains(s.StartedAt) {
			continue
		}
		closed = append(closed, s)
	}
	sort.SliceStable(closed, func(i, j int) bool {
		if !closed[i].StartedAt.Equal(closed[j].StartedAt) {
			return closed[i].StartedAt.Before(closed[j].StartedAt)
		}
		return closed[i].ID.String() < closed[j].ID.String()
	})

	for _, s := range closed {
		if p, ok := performanceFor(s, key); ok {
			snap.PerformancePoints = append(snap.PerformancePoints, p)
		}
	}
	if len(snap.PerformancePoints) == 0 {
		return snap
	}

	snap.WeeklyVolume = weeklyVolume(snap.PerformancePoints, cal)

	tops := make([]float64, len(snap.PerformancePoints))
	var best, bestE1RM float64
	for i, p := range snap.PerformancePoints {
		tops[i] = p.TopSetWeight
		if i == 0 || p.TopSetWeight > best {
			best = p.TopSetWeight
		}
		if i == 0 || p.EstimatedOneRepMax > bestE1RM {
			bestE1RM = p.EstimatedOneRepMax
		}
	}
	snap.BestWeight = &best
	snap.BestEstimatedOneRepMax = &bestE1RM

	last := snap.PerformancePoints[len(snap.PerformancePoints)-1].Date
	snap.LastWorkoutDate = &last

	snap.Trend = ClassifyTrend(tops)

	recentStart := max(len(tops)-recentWindow, 0)
	previousStart := max(recentStart-recentWindow, 0)
	snap.RecentAverageTopSet = average(tops[recentStart:])
	snap.PreviousAverageTopSet = average(tops[previousStart:recentStart])

	return snap
}

// performanceFor collects the session's sets for key. ok is false when none match.
func performanceFor(s *models.Session, key string) (PerformancePoint, bool) {
	p := PerformancePoint{SessionID: s.ID, Date: s.StartedAt}
	for _, e := range s.Exercises {
		if normalize.Name(e.ExerciseName) != key {
			continue
		}
		for _, set := range e.Sets {
			weight := models.ClampWeight(set.Weight)
			reps := models.ClampReps(set.Reps)

			if p.SetCount == 0 || weight > p.TopSetWeight {
				p.TopSetWeight = weight
			}
			// Max over every set's own estimate, not the estimate of the top-weight set.
			if e1rm := EstimatedOneRepMax(weight, reps); p.SetCount == 0 || e1rm > p.EstimatedOneRepMax {
				p.EstimatedOneRepMax = e1rm
			}
			p.TotalVolume += weight * float64(reps)
			p.SetCount++
		}
	}
	return p, p.SetCount > 0
}

func weeklyVolume(points []PerformancePoint, cal calendar.Calendar) []WeeklyVolumePoint {
	byWeek := make(map[int64]*WeeklyVolumePoint)
	for _, p := range points {
		week := cal.StartOfWeek(p.Date)
		k := week.Unix()
		if w, ok := byWeek[k]; ok {
			w.Volume += p.TotalVolume
			continue
		}
		byWeek[k] = &WeeklyVolumePoint{WeekStart: week, Volume: p.TotalVolume}
	}

	weeks := make([]WeeklyVolumePoint, 0, len(byWeek))
	for _, w := range byWeek {
		weeks = append(weeks, *w)
	}
	sort.Slice(weeks, func(i, j int) bool {
		return weeks[i].WeekStart.Before(weeks[j].WeekStart)
	})
	return weeks
}

func average(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	avg := sum / float64(len(values))
	return &avg
}
