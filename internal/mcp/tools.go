// ABOUTME: MCP tool implementations for workout logging.
// ABOUTME: Session lifecycle, exercise and set logging, history, stats, and previous values.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/tmccoy01/healthplus/internal/lookup"
	"github.com/tmccoy01/healthplus/internal/models"
	"github.com/tmccoy01/healthplus/internal/stats"
	"github.com/tmccoy01/healthplus/internal/storage"
	"github.com/tmccoy01/healthplus/internal/timeline"
	"github.com/tmccoy01/healthplus/internal/workout"
)

// errNoActiveSession is returned when a tool defaults to the open session and there is none.
var errNoActiveSession = errors.New("no active session; start one first")

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "start_session",
		Description: "Start a new workout session. Fails if a session is already open.",
	}, s.handleStartSession)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "finish_session",
		Description: "Finish a workout session (defaults to the open one)",
	}, s.handleFinishSession)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_exercise",
		Description: "Add an exercise to a session (defaults to the open one) and report what was lifted last time",
	}, s.handleAddExercise)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_set",
		Description: "Log a set of reps at a weight for an exercise entry",
	}, s.handleAddSet)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "repeat_last_set",
		Description: "Log a copy of the most recently logged set of an exercise entry",
	}, s.handleRepeatLastSet)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_sessions",
		Description: "List recent workout sessions, optionally filtered by category or exercise",
	}, s.handleListSessions)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "exercise_stats",
		Description: "Top sets, estimated one-rep max, weekly volume, and trend for one exercise",
	}, s.handleExerciseStats)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "previous_reference",
		Description: "The most recent set logged for an exercise, outside the current session",
	}, s.handlePreviousReference)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_categories",
		Description: "List workout categories in display order",
	}, s.handleListCategories)
}

// Tool input/output types

type startSessionInput struct {
	Category string `json:"category,omitempty" jsonschema:"Category name or ID prefix"`
	Notes    string `json:"notes,omitempty" jsonschema:"Session notes"`
}

type sessionInput struct {
	SessionID string `json:"session_id,omitempty" jsonschema:"Session ID or prefix; defaults to the open session"`
}

type sessionOutput struct {
	ID        string `json:"id"`
	StartedAt string `json:"started_at"`
	EndedAt   string `json:"ended_at,omitempty"`
	Duration  string `json:"duration,omitempty"`
	Category  string `json:"category,omitempty"`
	Message   string `json:"message"`
}

type addExerciseInput struct {
	SessionID string `json:"session_id,omitempty" jsonschema:"Session ID or prefix; defaults to the open session"`
	Name      string `json:"name" jsonschema:"Exercise name"`
	Notes     string `json:"notes,omitempty" jsonschema:"Exercise notes"`
}

type referenceOutput struct {
	Weight    float64 `json:"weight"`
	Reps      int     `json:"reps"`
	LoggedAt  string  `json:"logged_at"`
	Exercise  string  `json:"exercise"`
	SessionID string  `json:"session_id"`
}

type exerciseOutput struct {
	ID         string           `json:"id"`
	SessionID  string           `json:"session_id"`
	Name       string           `json:"name"`
	OrderIndex int              `json:"order_index"`
	Previous   *referenceOutput `json:"previous,omitempty"`
	Message    string           `json:"message"`
}

type addSetInput struct {
	ExerciseID string  `json:"exercise_id" jsonschema:"Exercise entry ID or prefix"`
	Reps       int     `json:"reps" jsonschema:"Repetitions; negative values are stored as 0"`
	Weight     float64 `json:"weight" jsonschema:"Weight lifted; negative values are stored as 0"`
	Warmup     bool    `json:"warmup,omitempty" jsonschema:"Mark as a warmup set"`
	Notes      string  `json:"notes,omitempty" jsonschema:"Set notes"`
}

type exerciseRefInput struct {
	ExerciseID string `json:"exercise_id" jsonschema:"Exercise entry ID or prefix"`
}

type setOutput struct {
	ID       string  `json:"id,omitempty"`
	SetIndex int     `json:"set_index,omitempty"`
	Reps     int     `json:"reps"`
	Weight   float64 `json:"weight"`
	Warmup   bool    `json:"warmup"`
	Message  string  `json:"message"`
}

type listSessionsInput struct {
	Category string `json:"category,omitempty" jsonschema:"Category name or ID prefix"`
	Exercise string `json:"exercise,omitempty" jsonschema:"Only sessions containing this exercise"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type sessionSummary struct {
	ID        string   `json:"id"`
	StartedAt string   `json:"started_at"`
	Open      bool     `json:"open"`
	Duration  string   `json:"duration,omitempty"`
	Category  string   `json:"category,omitempty"`
	Summary   []string `json:"summary"`
	Sets      int      `json:"sets"`
	Volume    float64  `json:"volume"`
}

type listSessionsOutput struct {
	Sessions []sessionSummary `json:"sessions"`
	Message  string           `json:"message"`
}

type exerciseStatsInput struct {
	Exercise string `json:"exercise" jsonschema:"Exercise name"`
	Range    string `json:"range,omitempty" jsonschema:"One of 4W, 3M, 6M, 1Y, All (default All)"`
}

type performanceOutput struct {
	SessionID          string  `json:"session_id"`
	Date               string  `json:"date"`
	TopSetWeight       float64 `json:"top_set_weight"`
	EstimatedOneRepMax float64 `json:"estimated_one_rep_max"`
	TotalVolume        float64 `json:"total_volume"`
	SetCount           int     `json:"set_count"`
}

type weeklyVolumeOutput struct {
	WeekStart string  `json:"week_start"`
	Volume    float64 `json:"volume"`
}

type exerciseStatsOutput struct {
	Exercise               string               `json:"exercise"`
	Range                  string               `json:"range"`
	Trend                  string               `json:"trend"`
	Sessions               []performanceOutput  `json:"sessions"`
	WeeklyVolume           []weeklyVolumeOutput `json:"weekly_volume"`
	LastWorkoutDate        string               `json:"last_workout_date,omitempty"`
	BestWeight             *float64             `json:"best_weight,omitempty"`
	BestEstimatedOneRepMax *float64             `json:"best_estimated_one_rep_max,omitempty"`
	RecentAverageTopSet    *float64             `json:"recent_average_top_set,omitempty"`
	PreviousAverageTopSet  *float64             `json:"previous_average_top_set,omitempty"`
	Message                string               `json:"message"`
}

type previousReferenceInput struct {
	Exercise         string `json:"exercise" jsonschema:"Exercise name"`
	ExcludeSessionID string `json:"exclude_session_id,omitempty" jsonschema:"Session ID or prefix to skip; defaults to the open session"`
}

type previousReferenceOutput struct {
	Found     bool             `json:"found"`
	Reference *referenceOutput `json:"reference,omitempty"`
	Message   string           `json:"message"`
}

type listCategoriesInput struct {
	IncludeArchived bool `json:"include_archived,omitempty" jsonschema:"Include archived categories"`
}

type categoryOutput struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	BuiltIn   bool   `json:"built_in"`
	Archived  bool   `json:"archived"`
	SortOrder int    `json:"sort_order"`
}

type listCategoriesOutput struct {
	Categories []categoryOutput `json:"categories"`
}

// Tool handlers

func (s *Server) handleStartSession(ctx context.Context, req *mcp.CallToolRequest, input startSessionInput) (*mcp.CallToolResult, sessionOutput, error) {
	opts := workout.StartOptions{Notes: input.Notes}
	label := ""
	if input.Category != "" {
		c, err := s.registry.Resolve(ctx, input.Category)
		if err != nil {
			return nil, sessionOutput{}, err
		}
		opts.CategoryID = &c.ID
		label = c.Name
	}

	session, err := s.manager.StartSession(ctx, opts)
	if err != nil {
		return nil, sessionOutput{}, fmt.Errorf("failed to start session: %w", err)
	}

	out := toSessionOutput(session, label)
	out.Message = fmt.Sprintf("Started session %s", shortID(session.ID))
	return nil, out, nil
}

func (s *Server) handleFinishSession(ctx context.Context, req *mcp.CallToolRequest, input sessionInput) (*mcp.CallToolResult, sessionOutput, error) {
	id, err := s.sessionID(ctx, input.SessionID)
	if err != nil {
		return nil, sessionOutput{}, err
	}

	session, err := s.manager.FinishSession(ctx, id, nil)
	if err != nil {
		return nil, sessionOutput{}, fmt.Errorf("failed to finish session: %w", err)
	}

	label, err := s.categoryName(ctx, session.CategoryID)
	if err != nil {
		return nil, sessionOutput{}, err
	}
	out := toSessionOutput(session, label)
	out.Message = fmt.Sprintf("Finished session %s (%s)", shortID(session.ID), out.Duration)
	return nil, out, nil
}

func (s *Server) handleAddExercise(ctx context.Context, req *mcp.CallToolRequest, input addExerciseInput) (*mcp.CallToolResult, exerciseOutput, error) {
	sessionID, err := s.sessionID(ctx, input.SessionID)
	if err != nil {
		return nil, exerciseOutput{}, err
	}

	entry, err := s.manager.AddExercise(ctx, sessionID, input.Name, input.Notes)
	if err != nil {
		return nil, exerciseOutput{}, fmt.Errorf("failed to add exercise: %w", err)
	}

	sessions, err := s.repo.ListSessions(ctx, storage.SessionFilter{})
	if err != nil {
		return nil, exerciseOutput{}, fmt.Errorf("failed to list sessions: %w", err)
	}

	out := exerciseOutput{
		ID:         entry.ID.String(),
		SessionID:  sessionID.String(),
		Name:       entry.ExerciseName,
		OrderIndex: entry.OrderIndex,
		Message:    fmt.Sprintf("Added %s (ID: %s)", entry.ExerciseName, shortID(entry.ID)),
	}
	if ref := lookup.LatestReference(sessions, entry.ExerciseName, &sessionID); ref != nil {
		out.Previous = toReferenceOutput(ref)
		out.Message += fmt.Sprintf("; last time %d x %g", ref.Reps, ref.Weight)
	}
	return nil, out, nil
}

func (s *Server) handleAddSet(ctx context.Context, req *mcp.CallToolRequest, input addSetInput) (*mcp.CallToolResult, setOutput, error) {
	entryID, err := s.repo.ResolveExerciseID(ctx, input.ExerciseID)
	if err != nil {
		return nil, setOutput{}, fmt.Errorf("failed to resolve exercise: %w", err)
	}

	set, err := s.manager.AddSet(ctx, entryID, workout.SetInput{
		Reps:     input.Reps,
		Weight:   input.Weight,
		IsWarmup: input.Warmup,
		Notes:    input.Notes,
	})
	if err != nil {
		return nil, setOutput{}, fmt.Errorf("failed to add set: %w", err)
	}

	out := toSetOutput(set)
	out.Message = fmt.Sprintf("Logged set %d: %d x %g", set.SetIndex, set.Reps, set.Weight)
	return nil, out, nil
}

func (s *Server) handleRepeatLastSet(ctx context.Context, req *mcp.CallToolRequest, input exerciseRefInput) (*mcp.CallToolResult, setOutput, error) {
	entryID, err := s.repo.ResolveExerciseID(ctx, input.ExerciseID)
	if err != nil {
		return nil, setOutput{}, fmt.Errorf("failed to resolve exercise: %w", err)
	}

	set, err := s.manager.RepeatLastSet(ctx, entryID)
	if err != nil {
		return nil, setOutput{}, fmt.Errorf("failed to repeat set: %w", err)
	}
	if set == nil {
		return nil, setOutput{Message: "No sets logged yet; nothing to repeat."}, nil
	}

	out := toSetOutput(set)
	out.Message = fmt.Sprintf("Repeated set %d: %d x %g", set.SetIndex, set.Reps, set.Weight)
	return nil, out, nil
}

func (s *Server) handleListSessions(ctx context.Context, req *mcp.CallToolRequest, input listSessionsInput) (*mcp.CallToolResult, listSessionsOutput, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	filter := storage.SessionFilter{}
	if input.Category != "" {
		c, err := s.registry.Resolve(ctx, input.Category)
		if err != nil {
			return nil, listSessionsOutput{}, err
		}
		filter.CategoryID = &c.ID
	}
	// Exercise filtering happens in memory, so the SQL limit applies only without it.
	if input.Exercise == "" {
		filter.Limit = input.Limit
	}

	sessions, err := s.repo.ListSessions(ctx, filter)
	if err != nil {
		return nil, listSessionsOutput{}, fmt.Errorf("failed to list sessions: %w", err)
	}
	if input.Exercise != "" {
		sessions = timeline.Filter{ExerciseKey: input.Exercise}.Apply(sessions)
		if len(sessions) > input.Limit {
			sessions = sessions[:input.Limit]
		}
	}

	categories, err := s.categoryIndex(ctx)
	if err != nil {
		return nil, listSessionsOutput{}, err
	}

	out := listSessionsOutput{Sessions: make([]sessionSummary, 0, len(sessions))}
	for _, session := range sessions {
		out.Sessions = append(out.Sessions, toSessionSummary(session, categories))
	}
	if len(sessions) == 0 {
		out.Message = "No sessions found."
	} else {
		out.Message = fmt.Sprintf("%d session(s)", len(sessions))
	}
	return nil, out, nil
}

func (s *Server) handleExerciseStats(ctx context.Context, req *mcp.CallToolRequest, input exerciseStatsInput) (*mcp.CallToolResult, exerciseStatsOutput, error) {
	preset := stats.RangeAll
	if input.Range != "" {
		p, err := stats.ParseRangePreset(input.Range)
		if err != nil {
			return nil, exerciseStatsOutput{}, err
		}
		preset = p
	}

	sessions, err := s.repo.ListSessions(ctx, storage.SessionFilter{ClosedOnly: true})
	if err != nil {
		return nil, exerciseStatsOutput{}, fmt.Errorf("failed to list sessions: %w", err)
	}

	snap := stats.Compute(sessions, input.Exercise, preset.Interval(s.now()), s.cal)
	return nil, toStatsOutput(snap, preset), nil
}

func (s *Server) handlePreviousReference(ctx context.Context, req *mcp.CallToolRequest, input previousReferenceInput) (*mcp.CallToolResult, previousReferenceOutput, error) {
	var exclude *uuid.UUID
	if input.ExcludeSessionID != "" {
		id, err := s.repo.ResolveSessionID(ctx, input.ExcludeSessionID)
		if err != nil {
			return nil, previousReferenceOutput{}, fmt.Errorf("failed to resolve session: %w", err)
		}
		exclude = &id
	} else {
		active, err := s.repo.ActiveSession(ctx)
		if err != nil {
			return nil, previousReferenceOutput{}, fmt.Errorf("failed to load active session: %w", err)
		}
		if active != nil {
			exclude = &active.ID
		}
	}

	sessions, err := s.repo.ListSessions(ctx, storage.SessionFilter{})
	if err != nil {
		return nil, previousReferenceOutput{}, fmt.Errorf("failed to list sessions: %w", err)
	}

	ref := lookup.LatestReference(sessions, input.Exercise, exclude)
	if ref == nil {
		return nil, previousReferenceOutput{Message: fmt.Sprintf("No history for %q.", input.Exercise)}, nil
	}
	return nil, previousReferenceOutput{
		Found:     true,
		Reference: toReferenceOutput(ref),
		Message:   fmt.Sprintf("Last %s: %d x %g on %s", ref.ExerciseName, ref.Reps, ref.Weight, ref.LoggedAt.Format("2006-01-02")),
	}, nil
}

func (s *Server) handleListCategories(ctx context.Context, req *mcp.CallToolRequest, input listCategoriesInput) (*mcp.CallToolResult, listCategoriesOutput, error) {
	categories, err := s.registry.List(ctx, input.IncludeArchived)
	if err != nil {
		return nil, listCategoriesOutput{}, err
	}

	out := listCategoriesOutput{Categories: make([]categoryOutput, 0, len(categories))}
	for _, c := range categories {
		out.Categories = append(out.Categories, categoryOutput{
			ID:        c.ID.String(),
			Name:      c.Name,
			BuiltIn:   c.IsBuiltIn,
			Archived:  c.IsArchived,
			SortOrder: c.SortOrder,
		})
	}
	return nil, out, nil
}

// Helpers

// sessionID resolves an explicit id or prefix, or falls back to the open session.
func (s *Server) sessionID(ctx context.Context, idOrPrefix string) (uuid.UUID, error) {
	if idOrPrefix != "" {
		id, err := s.repo.ResolveSessionID(ctx, idOrPrefix)
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to resolve session: %w", err)
		}
		return id, nil
	}

	active, err := s.repo.ActiveSession(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to load active session: %w", err)
	}
	if active == nil {
		return uuid.Nil, errNoActiveSession
	}
	return active.ID, nil
}

func (s *Server) categoryIndex(ctx context.Context) (models.CategoryIndex, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return models.NewCategoryIndex(categories), nil
}

func (s *Server) categoryName(ctx context.Context, id *uuid.UUID) (string, error) {
	if id == nil {
		return "", nil
	}
	idx, err := s.categoryIndex(ctx)
	if err != nil {
		return "", err
	}
	return idx.NameOf(id, ""), nil
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

func toSessionOutput(session *models.Session, category string) sessionOutput {
	out := sessionOutput{
		ID:        session.ID.String(),
		StartedAt: formatTime(session.StartedAt),
		Category:  category,
	}
	if session.EndedAt != nil {
		out.EndedAt = formatTime(*session.EndedAt)
	}
	if label, ok := timeline.DurationLabel(session); ok {
		out.Duration = label
	}
	return out
}

func toSessionSummary(session *models.Session, categories models.CategoryIndex) sessionSummary {
	sum := sessionSummary{
		ID:        session.ID.String(),
		StartedAt: formatTime(session.StartedAt),
		Open:      session.IsOpen(),
		Category:  categories.NameOf(session.CategoryID, ""),
		Summary:   timeline.SummaryLines(session, timeline.DefaultSummaryLines),
		Sets:      timeline.SetCount(session),
		Volume:    timeline.TotalVolume(session),
	}
	if label, ok := timeline.DurationLabel(session); ok {
		sum.Duration = label
	}
	return sum
}

func toSetOutput(set *models.SetEntry) setOutput {
	return setOutput{
		ID:       set.ID.String(),
		SetIndex: set.SetIndex,
		Reps:     set.Reps,
		Weight:   set.Weight,
		Warmup:   set.IsWarmup,
	}
}

func toReferenceOutput(ref *lookup.Reference) *referenceOutput {
	return &referenceOutput{
		Weight:    ref.Weight,
		Reps:      ref.Reps,
		LoggedAt:  formatTime(ref.LoggedAt),
		Exercise:  ref.ExerciseName,
		SessionID: ref.SessionID.String(),
	}
}

func toStatsOutput(snap stats.Snapshot, preset stats.RangePreset) exerciseStatsOutput {
	out := exerciseStatsOutput{
		Exercise:               snap.ExerciseKey,
		Range:                  string(preset),
		Trend:                  string(snap.Trend),
		Sessions:               make([]performanceOutput, 0, len(snap.PerformancePoints)),
		WeeklyVolume:           make([]weeklyVolumeOutput, 0, len(snap.WeeklyVolume)),
		BestWeight:             snap.BestWeight,
		BestEstimatedOneRepMax: snap.BestEstimatedOneRepMax,
		RecentAverageTopSet:    snap.RecentAverageTopSet,
		PreviousAverageTopSet:  snap.PreviousAverageTopSet,
	}
	for _, p := range snap.PerformancePoints {
		out.Sessions = append(out.Sessions, performanceOutput{
			SessionID:          p.SessionID.String(),
			Date:               formatTime(p.Date),
			TopSetWeight:       p.TopSetWeight,
			EstimatedOneRepMax: p.EstimatedOneRepMax,
			TotalVolume:        p.TotalVolume,
			SetCount:           p.SetCount,
		})
	}
	for _, w := range snap.WeeklyVolume {
		out.WeeklyVolume = append(out.WeeklyVolume, weeklyVolumeOutput{
			WeekStart: w.WeekStart.Format("2006-01-02"),
			Volume:    w.Volume,
		})
	}
	if snap.LastWorkoutDate != nil {
		out.LastWorkoutDate = formatTime(*snap.LastWorkoutDate)
	}

	if snap.IsEmpty() {
		out.Message = fmt.Sprintf("No completed sessions with %q in range %s.", snap.ExerciseKey, preset)
	} else {
		out.Message = fmt.Sprintf("%d session(s), trend: %s", len(snap.PerformancePoints), snap.Trend.Label())
	}
	return out
}
