package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmccoy01/healthplus/internal/models"
)

func TestParseRangePreset(t *testing.T) {
	p, err := ParseRangePreset("3m")
	require.NoError(t, err)
	assert.Equal(t, RangeThreeMonths, p)

	p, err = ParseRangePreset("all")
	require.NoError(t, err)
	assert.Equal(t, RangeAll, p)

	_, err = ParseRangePreset("2W")
	assert.Error(t, err)
}

func TestRangePresetInterval(t *testing.T) {
	ref := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		preset RangePreset
		start  time.Time
	}{
		{RangeFourWeeks, time.Date(2025, 5, 18, 12, 0, 0, 0, time.UTC)},
		{RangeThreeMonths, time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)},
		{RangeSixMonths, time.Date(2024, 12, 15, 12, 0, 0, 0, time.UTC)},
		{RangeOneYear, time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(string(tt.preset), func(t *testing.T) {
			r := tt.preset.Interval(ref)
			require.NotNil(t, r)
			assert.True(t, r.Start.Equal(tt.start), "start = %v", r.Start)
			assert.True(t, r.End.Equal(ref))
		})
	}
	assert.Nil(t, RangeAll.Interval(ref))
}

func TestExerciseOptions(t *testing.T) {
	start := time.Date(2025, 1, 6, 18, 0, 0, 0, time.UTC)
	first := closedSession(start, "  Bench Press ", setSpec{5, 100})
	second := closedSession(start.Add(time.Hour), "BENCH PRESS", setSpec{5, 100})
	curl := closedSession(start.Add(2*time.Hour), "curl", setSpec{10, 20})
	noSets := closedSession(start.Add(3*time.Hour), "Dip")
	open := closedSession(start.Add(4*time.Hour), "Row", setSpec{8, 60})
	open.EndedAt = nil

	options := ExerciseOptions([]*models.Session{first, second, curl, noSets, open})
	assert.Equal(t, []ExerciseOption{
		{Key: "bench press", Label: "Bench Press"},
		{Key: "curl", Label: "curl"},
	}, options)
}

func TestSignature(t *testing.T) {
	start := time.Date(2025, 1, 6, 18, 0, 0, 0, time.UTC)
	a := closedSession(start, "Squat", setSpec{5, 100})
	b := closedSession(start.Add(time.Hour), "Row", setSpec{8, 60})
	open := closedSession(start.Add(2*time.Hour), "Row", setSpec{8, 60})
	open.EndedAt = nil

	base := Signature([]*models.Session{a, b})
	assert.Equal(t, base, Signature([]*models.Session{b, a}), "order independent")
	assert.Equal(t, base, Signature([]*models.Session{a, b, open}), "open sessions ignored")

	a.Exercises[0].Sets[0].Weight = 105
	assert.NotEqual(t, base, Signature([]*models.Session{a, b}))
}

func TestSignatureSeesSmallEdits(t *testing.T) {
	start := time.Date(2025, 1, 6, 18, 0, 0, 0, time.UTC)
	a := closedSession(start, "Squat", setSpec{5, 100})
	sessions := []*models.Session{a}
	set := a.Exercises[0].Sets[0]

	base := Signature(sessions)
	set.Weight = 100.001
	weightEdit := Signature(sessions)
	assert.NotEqual(t, base, weightEdit, "sub-hundredth weight change")

	set.LoggedAt = set.LoggedAt.Add(time.Millisecond)
	assert.NotEqual(t, weightEdit, Signature(sessions), "same-second logged_at change")
}
