// ABOUTME: Tests for MCP server, tools, and resources.
// ABOUTME: Covers NewServer, tool handlers, and resource handlers against an in-memory store.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/tmccoy01/healthplus/internal/calendar"
	"github.com/tmccoy01/healthplus/internal/category"
	"github.com/tmccoy01/healthplus/internal/models"
	"github.com/tmccoy01/healthplus/internal/storage"
	"github.com/tmccoy01/healthplus/internal/workout"
)

var utc = calendar.Calendar{Location: time.UTC, FirstWeekday: time.Monday}

// setupTestServer creates a server over a fresh in-memory database with default categories.
func setupTestServer(t *testing.T) (*Server, *storage.DB) {
	t.Helper()

	db, err := storage.OpenMemory()
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := category.NewRegistry(db).SeedDefaults(context.Background()); err != nil {
		t.Fatalf("Failed to seed categories: %v", err)
	}

	server, err := NewServer(db, utc)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return server, db
}

// logClosedSession writes a finished session with one exercise through the manager.
func logClosedSession(t *testing.T, db *storage.DB, start time.Time, exercise string, reps int, weights ...float64) *models.Session {
	t.Helper()
	ctx := context.Background()
	mgr := workout.NewManager(db, workout.WithClock(func() time.Time { return start.Add(time.Hour) }))

	s, err := mgr.StartSession(ctx, workout.StartOptions{StartedAt: &start})
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	e, err := mgr.AddExercise(ctx, s.ID, exercise, "")
	if err != nil {
		t.Fatalf("AddExercise failed: %v", err)
	}
	for i, w := range weights {
		at := start.Add(time.Duration(i+1) * time.Minute)
		if _, err := mgr.AddSet(ctx, e.ID, workout.SetInput{Reps: reps, Weight: w, LoggedAt: &at}); err != nil {
			t.Fatalf("AddSet failed: %v", err)
		}
	}
	s, err = mgr.FinishSession(ctx, s.ID, nil)
	if err != nil {
		t.Fatalf("FinishSession failed: %v", err)
	}
	return s
}

func TestNewServer(t *testing.T) {
	server, _ := setupTestServer(t)

	if server.mcpServer == nil {
		t.Error("Expected non-nil mcpServer")
	}
	if server.repo == nil || server.manager == nil || server.registry == nil {
		t.Error("Expected wired domain services")
	}
}

func TestSessionLifecycleTools(t *testing.T) {
	server, db := setupTestServer(t)
	ctx := context.Background()

	_, started, err := server.handleStartSession(ctx, &mcp.CallToolRequest{}, startSessionInput{Category: "legs", Notes: "  heavy day "})
	if err != nil {
		t.Fatalf("start_session failed: %v", err)
	}
	if started.Category != "Legs" {
		t.Errorf("Category = %q, want Legs", started.Category)
	}
	if started.EndedAt != "" {
		t.Error("new session should be open")
	}

	_, _, err = server.handleStartSession(ctx, &mcp.CallToolRequest{}, startSessionInput{})
	if !errors.Is(err, workout.ErrActiveSessionExists) {
		t.Errorf("second start error = %v, want ErrActiveSessionExists", err)
	}

	_, exercise, err := server.handleAddExercise(ctx, &mcp.CallToolRequest{}, addExerciseInput{Name: "  Back Squat "})
	if err != nil {
		t.Fatalf("add_exercise failed: %v", err)
	}
	if exercise.Name != "Back Squat" || exercise.OrderIndex != 0 {
		t.Errorf("unexpected exercise %+v", exercise)
	}
	if exercise.Previous != nil {
		t.Error("no history yet, previous should be nil")
	}

	_, set, err := server.handleAddSet(ctx, &mcp.CallToolRequest{}, addSetInput{
		ExerciseID: exercise.ID[:8],
		Reps:       5,
		Weight:     -20,
	})
	if err != nil {
		t.Fatalf("add_set failed: %v", err)
	}
	if set.SetIndex != 1 || set.Weight != 0 {
		t.Errorf("set = %+v, want index 1 and weight clamped to 0", set)
	}

	_, repeated, err := server.handleRepeatLastSet(ctx, &mcp.CallToolRequest{}, exerciseRefInput{ExerciseID: exercise.ID})
	if err != nil {
		t.Fatalf("repeat_last_set failed: %v", err)
	}
	if repeated.SetIndex != 2 || repeated.Reps != 5 {
		t.Errorf("repeated = %+v", repeated)
	}

	_, finished, err := server.handleFinishSession(ctx, &mcp.CallToolRequest{}, sessionInput{})
	if err != nil {
		t.Fatalf("finish_session failed: %v", err)
	}
	if finished.EndedAt == "" || finished.Duration == "" {
		t.Errorf("finished = %+v, want end and duration", finished)
	}

	active, err := db.ActiveSession(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if active != nil {
		t.Error("no session should be open after finish")
	}

	_, _, err = server.handleFinishSession(ctx, &mcp.CallToolRequest{}, sessionInput{})
	if !errors.Is(err, errNoActiveSession) {
		t.Errorf("finish without open session error = %v", err)
	}
}

func TestHandleStartSessionUnknownCategory(t *testing.T) {
	server, _ := setupTestServer(t)

	_, _, err := server.handleStartSession(context.Background(), &mcp.CallToolRequest{}, startSessionInput{Category: "Underwater"})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestHandleAddExerciseReportsPrevious(t *testing.T) {
	server, db := setupTestServer(t)
	ctx := context.Background()

	logClosedSession(t, db, time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC), "Bench Press", 8, 60, 70)

	if _, _, err := server.handleStartSession(ctx, &mcp.CallToolRequest{}, startSessionInput{}); err != nil {
		t.Fatal(err)
	}
	_, out, err := server.handleAddExercise(ctx, &mcp.CallToolRequest{}, addExerciseInput{Name: "bench press"})
	if err != nil {
		t.Fatalf("add_exercise failed: %v", err)
	}
	if out.Previous == nil {
		t.Fatal("Expected previous reference")
	}
	if out.Previous.Weight != 70 || out.Previous.Reps != 8 {
		t.Errorf("previous = %+v, want 8 x 70", out.Previous)
	}
	if !strings.Contains(out.Message, "last time 8 x 70") {
		t.Errorf("message %q should mention last time", out.Message)
	}
}

func TestHandleAddExerciseEmptyName(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()

	if _, _, err := server.handleStartSession(ctx, &mcp.CallToolRequest{}, startSessionInput{}); err != nil {
		t.Fatal(err)
	}
	_, _, err := server.handleAddExercise(ctx, &mcp.CallToolRequest{}, addExerciseInput{Name: "   "})
	if !errors.Is(err, workout.ErrEmptyExerciseName) {
		t.Errorf("error = %v, want ErrEmptyExerciseName", err)
	}
}

func TestHandleRepeatLastSetNoSets(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()

	if _, _, err := server.handleStartSession(ctx, &mcp.CallToolRequest{}, startSessionInput{}); err != nil {
		t.Fatal(err)
	}
	_, ex, err := server.handleAddExercise(ctx, &mcp.CallToolRequest{}, addExerciseInput{Name: "Row"})
	if err != nil {
		t.Fatal(err)
	}

	_, out, err := server.handleRepeatLastSet(ctx, &mcp.CallToolRequest{}, exerciseRefInput{ExerciseID: ex.ID})
	if err != nil {
		t.Fatalf("repeat_last_set failed: %v", err)
	}
	if out.ID != "" {
		t.Errorf("Expected no set, got %+v", out)
	}
}

func TestHandleListSessions(t *testing.T) {
	server, db := setupTestServer(t)
	ctx := context.Background()

	monday := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	logClosedSession(t, db, monday, "Squat", 5, 100)
	logClosedSession(t, db, monday.AddDate(0, 0, 2), "Bench", 5, 60)
	logClosedSession(t, db, monday.AddDate(0, 0, 4), "Squat", 5, 110)

	_, all, err := server.handleListSessions(ctx, &mcp.CallToolRequest{}, listSessionsInput{})
	if err != nil {
		t.Fatalf("list_sessions failed: %v", err)
	}
	if len(all.Sessions) != 3 {
		t.Fatalf("len = %d, want 3", len(all.Sessions))
	}
	if all.Sessions[0].Summary[0] != "1x Squat" || all.Sessions[0].Volume != 550 {
		t.Errorf("newest session summary = %+v", all.Sessions[0])
	}

	_, squats, err := server.handleListSessions(ctx, &mcp.CallToolRequest{}, listSessionsInput{Exercise: "SQUAT", Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(squats.Sessions) != 1 || squats.Sessions[0].Volume != 550 {
		t.Errorf("squat filter = %+v", squats.Sessions)
	}

	_, none, err := server.handleListSessions(ctx, &mcp.CallToolRequest{}, listSessionsInput{Category: "Cardio"})
	if err != nil {
		t.Fatal(err)
	}
	if len(none.Sessions) != 0 || none.Message != "No sessions found." {
		t.Errorf("cardio filter = %+v", none)
	}
}

func TestHandleExerciseStats(t *testing.T) {
	server, db := setupTestServer(t)
	ctx := context.Background()

	monday := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	logClosedSession(t, db, monday, "Deadlift", 5, 100, 120)
	logClosedSession(t, db, monday.AddDate(0, 0, 7), "Deadlift", 5, 130)
	server.now = func() time.Time { return monday.AddDate(0, 0, 10) }

	_, out, err := server.handleExerciseStats(ctx, &mcp.CallToolRequest{}, exerciseStatsInput{Exercise: " deadlift ", Range: "4w"})
	if err != nil {
		t.Fatalf("exercise_stats failed: %v", err)
	}
	if out.Range != "4W" {
		t.Errorf("Range = %q, want 4W", out.Range)
	}
	if len(out.Sessions) != 2 || len(out.WeeklyVolume) != 2 {
		t.Fatalf("points = %d, weeks = %d, want 2 and 2", len(out.Sessions), len(out.WeeklyVolume))
	}
	if out.Sessions[0].TopSetWeight != 120 {
		t.Errorf("first top set = %v, want 120", out.Sessions[0].TopSetWeight)
	}
	if out.BestWeight == nil || *out.BestWeight != 130 {
		t.Errorf("BestWeight = %v, want 130", out.BestWeight)
	}
	if out.WeeklyVolume[0].WeekStart != "2025-01-06" {
		t.Errorf("first week = %s", out.WeeklyVolume[0].WeekStart)
	}

	_, _, err = server.handleExerciseStats(ctx, &mcp.CallToolRequest{}, exerciseStatsInput{Exercise: "Deadlift", Range: "2W"})
	if err == nil {
		t.Error("Expected error for unknown range")
	}

	_, empty, err := server.handleExerciseStats(ctx, &mcp.CallToolRequest{}, exerciseStatsInput{Exercise: "Curl"})
	if err != nil {
		t.Fatal(err)
	}
	if len(empty.Sessions) != 0 || empty.Trend != "insufficient_data" {
		t.Errorf("empty stats = %+v", empty)
	}
}

func TestHandlePreviousReference(t *testing.T) {
	server, db := setupTestServer(t)
	ctx := context.Background()

	logClosedSession(t, db, time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC), "Overhead Press", 6, 40, 45)

	_, out, err := server.handlePreviousReference(ctx, &mcp.CallToolRequest{}, previousReferenceInput{Exercise: "  OVERHEAD press "})
	if err != nil {
		t.Fatalf("previous_reference failed: %v", err)
	}
	if !out.Found || out.Reference.Weight != 45 {
		t.Errorf("reference = %+v, want 45", out.Reference)
	}

	// Sets in the open session are skipped by default.
	if _, _, err := server.handleStartSession(ctx, &mcp.CallToolRequest{}, startSessionInput{}); err != nil {
		t.Fatal(err)
	}
	_, ex, err := server.handleAddExercise(ctx, &mcp.CallToolRequest{}, addExerciseInput{Name: "Overhead Press"})
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := server.handleAddSet(ctx, &mcp.CallToolRequest{}, addSetInput{ExerciseID: ex.ID, Reps: 3, Weight: 50}); err != nil {
		t.Fatal(err)
	}
	_, out, err = server.handlePreviousReference(ctx, &mcp.CallToolRequest{}, previousReferenceInput{Exercise: "Overhead Press"})
	if err != nil {
		t.Fatal(err)
	}
	if out.Reference == nil || out.Reference.Weight != 45 {
		t.Errorf("reference = %+v, want the closed session's 45", out.Reference)
	}

	_, missing, err := server.handlePreviousReference(ctx, &mcp.CallToolRequest{}, previousReferenceInput{Exercise: "Snatch"})
	if err != nil {
		t.Fatal(err)
	}
	if missing.Found {
		t.Error("Expected no reference for unseen exercise")
	}
}

func TestHandleListCategories(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()

	_, out, err := server.handleListCategories(ctx, &mcp.CallToolRequest{}, listCategoriesInput{})
	if err != nil {
		t.Fatalf("list_categories failed: %v", err)
	}
	if len(out.Categories) != len(category.Defaults) {
		t.Fatalf("len = %d, want %d", len(out.Categories), len(category.Defaults))
	}
	for i, c := range out.Categories {
		if c.Name != category.Defaults[i].Name || !c.BuiltIn {
			t.Errorf("category %d = %+v", i, c)
		}
	}
}

func TestHandleActiveResource(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()

	result, err := server.handleActiveResource(ctx, &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Contents[0].URI != activeURI {
		t.Errorf("URI = %s, want %s", result.Contents[0].URI, activeURI)
	}
	if !strings.Contains(result.Contents[0].Text, `"active": false`) {
		t.Errorf("Expected inactive payload, got %s", result.Contents[0].Text)
	}

	if _, _, err := server.handleStartSession(ctx, &mcp.CallToolRequest{}, startSessionInput{Category: "Chest"}); err != nil {
		t.Fatal(err)
	}
	if _, _, err := server.handleAddExercise(ctx, &mcp.CallToolRequest{}, addExerciseInput{Name: "Dips"}); err != nil {
		t.Fatal(err)
	}

	result, err = server.handleActiveResource(ctx, &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	text := result.Contents[0].Text
	if !strings.Contains(text, `"active": true`) || !strings.Contains(text, "Dips") || !strings.Contains(text, `"category": "Chest"`) {
		t.Errorf("unexpected active payload: %s", text)
	}
}

func TestHandleTimelineResource(t *testing.T) {
	server, db := setupTestServer(t)
	ctx := context.Background()

	day := time.Date(2025, 1, 6, 7, 0, 0, 0, time.UTC)
	logClosedSession(t, db, day, "Squat", 5, 100)
	logClosedSession(t, db, day.Add(10*time.Hour), "Bench", 5, 60)
	logClosedSession(t, db, day.AddDate(0, 0, 1), "Row", 8, 50)

	result, err := server.handleTimelineResource(ctx, &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Contents[0].URI != timelineURI {
		t.Errorf("URI = %s, want %s", result.Contents[0].URI, timelineURI)
	}

	var payload struct {
		Days  []timelineDay `json:"days"`
		Count int           `json:"count"`
	}
	if err := json.Unmarshal([]byte(result.Contents[0].Text), &payload); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if payload.Count != 3 || len(payload.Days) != 2 {
		t.Fatalf("count = %d, days = %d, want 3 and 2", payload.Count, len(payload.Days))
	}
	if payload.Days[0].Date != "2025-01-07" {
		t.Errorf("first day = %s, want most recent", payload.Days[0].Date)
	}
	if got := payload.Days[1].Sessions[0].Summary; len(got) != 1 || got[0] != "1x Bench" {
		t.Errorf("evening session summary = %v", got)
	}
	if payload.Days[1].Sessions[0].Duration != "1h 00m" {
		t.Errorf("duration = %q", payload.Days[1].Sessions[0].Duration)
	}
}
