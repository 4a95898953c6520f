package repair

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmccoy01/healthplus/internal/models"
	"github.com/tmccoy01/healthplus/internal/storage"
)

func openStore(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// insertRaw writes a graph directly, bypassing the manager's validation.
func insertRaw(t *testing.T, db *storage.DB, s *models.Session) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, db.Update(ctx, func(tx *storage.Tx) error {
		return tx.InsertSessionGraph(ctx, s)
	}))
}

func cleanSession(start time.Time) *models.Session {
	s := models.NewSession().WithStartedAt(start).WithNotes("legs")
	end := start.Add(time.Hour)
	s.EndedAt = &end
	e := models.NewExerciseEntry(s.ID, "Squat", 0)
	for i := 1; i <= 3; i++ {
		set := models.NewSetEntry(e.ID, i, 5, 100+float64(i)*10)
		set.LoggedAt = start.Add(time.Duration(i) * time.Minute)
		e.Sets = append(e.Sets, set)
	}
	s.Exercises = []*models.ExerciseEntry{e}
	return s
}

func TestRun_CleanDataIsNoop(t *testing.T) {
	ctx := context.Background()
	db := openStore(t)
	insertRaw(t, db, cleanSession(time.Date(2025, 1, 5, 9, 0, 0, 0, time.UTC)))
	insertRaw(t, db, models.NewSession())

	report, err := Run(ctx, db)
	require.NoError(t, err)
	assert.False(t, report.HasFixes)
	assert.Zero(t, report.TotalFixes)
	assert.Zero(t, report.SessionsTouched)
}

func TestRun_FixesCorruptGraph(t *testing.T) {
	ctx := context.Background()
	db := openStore(t)

	start := time.Date(2025, 1, 5, 9, 0, 0, 0, time.UTC)
	s := models.NewSession().WithStartedAt(start).WithNotes("  sloppy  ")
	end := start.Add(-30 * time.Minute)
	s.EndedAt = &end

	e := models.NewExerciseEntry(s.ID, "   ", 9)
	e.Notes = " note "
	bad := &models.SetEntry{
		ID:         uuid.New(),
		ExerciseID: e.ID,
		SetIndex:   4,
		Reps:       -5,
		Weight:     -135,
		Notes:      " x ",
		LoggedAt:   start.Add(time.Minute),
	}
	e.Sets = []*models.SetEntry{bad}
	s.Exercises = []*models.ExerciseEntry{e}
	insertRaw(t, db, s)
	insertRaw(t, db, cleanSession(start.Add(48*time.Hour)))

	report, err := Run(ctx, db)
	require.NoError(t, err)
	assert.True(t, report.HasFixes)
	assert.Equal(t, 1, report.SessionsTouched)
	// notes, end, name, exercise notes, reps, weight, set notes, setIndex, orderIndex
	assert.Equal(t, 9, report.TotalFixes)

	got, err := db.GetSession(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "sloppy", got.Notes)
	require.NotNil(t, got.EndedAt)
	assert.True(t, got.EndedAt.Equal(start))

	entry := got.Exercises[0]
	assert.Equal(t, PlaceholderExerciseName, entry.ExerciseName)
	assert.Equal(t, "note", entry.Notes)
	assert.Equal(t, 0, entry.OrderIndex)

	set := entry.Sets[0]
	assert.Equal(t, 0, set.Reps)
	assert.Equal(t, 0.0, set.Weight)
	assert.Equal(t, "x", set.Notes)
	assert.Equal(t, 1, set.SetIndex)

	again, err := Run(ctx, db)
	require.NoError(t, err)
	assert.False(t, again.HasFixes, "second run must be a no-op")
}

func TestRun_ReindexesGapsAndDuplicates(t *testing.T) {
	ctx := context.Background()
	db := openStore(t)

	start := time.Date(2025, 1, 5, 9, 0, 0, 0, time.UTC)
	s := models.NewSession().WithStartedAt(start)
	a := models.NewExerciseEntry(s.ID, "A", 2)
	b := models.NewExerciseEntry(s.ID, "B", 5)
	first := models.NewSetEntry(a.ID, 3, 5, 100)
	first.LoggedAt = start.Add(time.Minute)
	second := models.NewSetEntry(a.ID, 3, 5, 110)
	second.LoggedAt = start.Add(2 * time.Minute)
	third := models.NewSetEntry(a.ID, 7, 5, 120)
	third.LoggedAt = start.Add(3 * time.Minute)
	a.Sets = []*models.SetEntry{first, second, third}
	s.Exercises = []*models.ExerciseEntry{a, b}
	insertRaw(t, db, s)

	report, err := Run(ctx, db)
	require.NoError(t, err)
	assert.True(t, report.HasFixes)

	got, err := db.GetSession(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Exercises[0].OrderIndex)
	assert.Equal(t, 1, got.Exercises[1].OrderIndex)
	var weights []float64
	for i, set := range got.Exercises[0].Sets {
		assert.Equal(t, i+1, set.SetIndex)
		weights = append(weights, set.Weight)
	}
	assert.Equal(t, []float64{100, 110, 120}, weights)
}

func TestPlan_Pure(t *testing.T) {
	s := cleanSession(time.Date(2025, 1, 5, 9, 0, 0, 0, time.UTC))
	s.Exercises[0].Sets[1].Reps = -1

	report, changes := Plan([]*models.Session{s})
	assert.Equal(t, Report{SessionsTouched: 1, TotalFixes: 1, HasFixes: true}, report)
	require.Len(t, changes, 1)
	assert.Len(t, changes[0].Sets, 1)
	assert.False(t, changes[0].SessionDirty)
}
