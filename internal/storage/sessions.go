// ABOUTME: Session, exercise entry, and set entry persistence operations.
// ABOUTME: Reads return the full owned graph; cascades follow the schema's foreign keys.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tmccoy01/healthplus/internal/models"
)

// SessionFilter narrows ListSessions. The zero value matches every session.
type SessionFilter struct {
	ID         *uuid.UUID
	OpenOnly   bool
	ClosedOnly bool
	CategoryID *uuid.UUID
	Limit      int
}

// where builds the session selection subquery shared by the three graph queries.
func (f SessionFilter) where() (string, []any) {
	var conds []string
	var args []any

	if f.ID != nil {
		conds = append(conds, "id = ?")
		args = append(args, f.ID.String())
	}
	if f.OpenOnly {
		conds = append(conds, "ended_at IS NULL")
	}
	if f.ClosedOnly {
		conds = append(conds, "ended_at IS NOT NULL")
	}
	if f.CategoryID != nil {
		conds = append(conds, "category_id = ?")
		args = append(args, f.CategoryID.String())
	}

	query := "SELECT id FROM sessions"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY started_at DESC, id ASC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}
	return query, args
}

// ListSessions returns matching sessions, most recent first, each with its
// exercises (by orderIndex) and their sets (by setIndex).
func (r queries) ListSessions(ctx context.Context, filter SessionFilter) ([]*models.Session, error) {
	selection, args := filter.where()

	sessions, err := r.querySessions(ctx,
		`SELECT id, started_at, ended_at, category_id, notes FROM sessions
		 WHERE id IN (`+selection+`) ORDER BY started_at DESC, id ASC`, args)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return sessions, nil
	}

	byID := make(map[uuid.UUID]*models.Session, len(sessions))
	for _, s := range sessions {
		byID[s.ID] = s
	}

	exercises, err := r.queryExercises(ctx,
		`SELECT id, session_id, exercise_name, order_index, notes FROM exercise_entries
		 WHERE session_id IN (`+selection+`)`, args)
	if err != nil {
		return nil, err
	}
	exercisesByID := make(map[uuid.UUID]*models.ExerciseEntry, len(exercises))
	for _, e := range exercises {
		if s, ok := byID[e.SessionID]; ok {
			s.Exercises = append(s.Exercises, e)
			exercisesByID[e.ID] = e
		}
	}

	sets, err := r.querySets(ctx,
		`SELECT id, exercise_id, set_index, reps, weight, is_warmup, notes, logged_at FROM set_entries
		 WHERE exercise_id IN (SELECT id FROM exercise_entries WHERE session_id IN (`+selection+`))`, args)
	if err != nil {
		return nil, err
	}
	for _, set := range sets {
		if e, ok := exercisesByID[set.ExerciseID]; ok {
			e.Sets = append(e.Sets, set)
		}
	}

	for _, s := range sessions {
		s.SortExercises()
		for _, e := range s.Exercises {
			e.SortSets()
		}
	}
	return sessions, nil
}

// GetSession retrieves one session with its full graph.
func (r queries) GetSession(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	sessions, err := r.ListSessions(ctx, SessionFilter{ID: &id})
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return sessions[0], nil
}

// ActiveSession returns the open session, or nil when none exists.
func (r queries) ActiveSession(ctx context.Context) (*models.Session, error) {
	sessions, err := r.ListSessions(ctx, SessionFilter{OpenOnly: true, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, nil
	}
	return sessions[0], nil
}

func (r queries) querySessions(ctx context.Context, query string, args []any) ([]*models.Session, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*models.Session
	for rows.Next() {
		var s models.Session
		var idStr, startedAt string
		var endedAt, categoryID sql.NullString

		if err := rows.Scan(&idStr, &startedAt, &endedAt, &categoryID, &s.Notes); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if s.ID, err = uuid.Parse(idStr); err != nil {
			return nil, fmt.Errorf("parse session ID: %w", err)
		}
		if s.StartedAt, err = parseTime(startedAt); err != nil {
			return nil, err
		}
		if endedAt.Valid {
			t, err := parseTime(endedAt.String)
			if err != nil {
				return nil, err
			}
			s.EndedAt = &t
		}
		if categoryID.Valid {
			cid, err := uuid.Parse(categoryID.String)
			if err != nil {
				return nil, fmt.Errorf("parse category ID: %w", err)
			}
			s.CategoryID = &cid
		}
		sessions = append(sessions, &s)
	}
	return sessions, rows.Err()
}

func (r queries) queryExercises(ctx context.Context, query string, args []any) ([]*models.ExerciseEntry, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query exercise entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.ExerciseEntry
	for rows.Next() {
		var e models.ExerciseEntry
		var idStr, sessionID string

		if err := rows.Scan(&idStr, &sessionID, &e.ExerciseName, &e.OrderIndex, &e.Notes); err != nil {
			return nil, fmt.Errorf("scan exercise entry: %w", err)
		}
		if e.ID, err = uuid.Parse(idStr); err != nil {
			return nil, fmt.Errorf("parse exercise entry ID: %w", err)
		}
		if e.SessionID, err = uuid.Parse(sessionID); err != nil {
			return nil, fmt.Errorf("parse session ID: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

func (r queries) querySets(ctx context.Context, query string, args []any) ([]*models.SetEntry, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query set entries: %w", err)
	}
	defer rows.Close()

	var sets []*models.SetEntry
	for rows.Next() {
		var s models.SetEntry
		var idStr, exerciseID, loggedAt string

		if err := rows.Scan(&idStr, &exerciseID, &s.SetIndex, &s.Reps, &s.Weight, &s.IsWarmup, &s.Notes, &loggedAt); err != nil {
			return nil, fmt.Errorf("scan set entry: %w", err)
		}
		if s.ID, err = uuid.Parse(idStr); err != nil {
			return nil, fmt.Errorf("parse set entry ID: %w", err)
		}
		if s.ExerciseID, err = uuid.Parse(exerciseID); err != nil {
			return nil, fmt.Errorf("parse exercise entry ID: %w", err)
		}
		if s.LoggedAt, err = parseTime(loggedAt); err != nil {
			return nil, err
		}
		sets = append(sets, &s)
	}
	return sets, rows.Err()
}

// InsertSession stores the session row only; owned entries are inserted separately.
func (t *Tx) InsertSession(ctx context.Context, s *models.Session) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO sessions (id, started_at, ended_at, category_id, notes) VALUES (?, ?, ?, ?, ?)`,
		s.ID.String(), formatTime(s.StartedAt), formatTimePtr(s.EndedAt), uuidPtrString(s.CategoryID), s.Notes,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// InsertSessionGraph stores a session together with every owned entry and set.
func (t *Tx) InsertSessionGraph(ctx context.Context, s *models.Session) error {
	if err := t.InsertSession(ctx, s); err != nil {
		return err
	}
	for _, e := range s.Exercises {
		if err := t.InsertExercise(ctx, e); err != nil {
			return err
		}
		for _, set := range e.Sets {
			if err := t.InsertSet(ctx, set); err != nil {
				return err
			}
		}
	}
	return nil
}

// UpdateSession writes the session row's mutable fields.
func (t *Tx) UpdateSession(ctx context.Context, s *models.Session) error {
	result, err := t.tx.ExecContext(ctx,
		`UPDATE sessions SET started_at = ?, ended_at = ?, category_id = ?, notes = ? WHERE id = ?`,
		formatTime(s.StartedAt), formatTimePtr(s.EndedAt), uuidPtrString(s.CategoryID), s.Notes, s.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return expectAffected(result, "update session", s.ID)
}

// DeleteSession removes a session; its entries and sets cascade.
func (t *Tx) DeleteSession(ctx context.Context, id uuid.UUID) error {
	result, err := t.tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return expectAffected(result, "delete session", id)
}

// InsertExercise stores an exercise entry row.
func (t *Tx) InsertExercise(ctx context.Context, e *models.ExerciseEntry) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO exercise_entries (id, session_id, exercise_name, order_index, notes) VALUES (?, ?, ?, ?, ?)`,
		e.ID.String(), e.SessionID.String(), e.ExerciseName, e.OrderIndex, e.Notes,
	)
	if err != nil {
		return fmt.Errorf("insert exercise entry: %w", err)
	}
	return nil
}

// UpdateExercise writes an exercise entry's name, position, and notes.
func (t *Tx) UpdateExercise(ctx context.Context, e *models.ExerciseEntry) error {
	result, err := t.tx.ExecContext(ctx,
		`UPDATE exercise_entries SET exercise_name = ?, order_index = ?, notes = ? WHERE id = ?`,
		e.ExerciseName, e.OrderIndex, e.Notes, e.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("update exercise entry: %w", err)
	}
	return expectAffected(result, "update exercise entry", e.ID)
}

// DeleteExercise removes an exercise entry; its sets cascade.
func (t *Tx) DeleteExercise(ctx context.Context, id uuid.UUID) error {
	result, err := t.tx.ExecContext(ctx, `DELETE FROM exercise_entries WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete exercise entry: %w", err)
	}
	return expectAffected(result, "delete exercise entry", id)
}

// SessionIDForExercise returns the owning session of an exercise entry.
func (r queries) SessionIDForExercise(ctx context.Context, exerciseID uuid.UUID) (uuid.UUID, error) {
	var sessionID string
	err := r.q.QueryRowContext(ctx,
		`SELECT session_id FROM exercise_entries WHERE id = ?`, exerciseID.String()).Scan(&sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, fmt.Errorf("exercise entry %s: %w", exerciseID, ErrNotFound)
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("get exercise entry: %w", err)
	}
	return uuid.Parse(sessionID)
}

// SessionIDForSet returns the session that owns a set through its exercise entry.
func (r queries) SessionIDForSet(ctx context.Context, setID uuid.UUID) (uuid.UUID, error) {
	var sessionID string
	err := r.q.QueryRowContext(ctx,
		`SELECT e.session_id FROM set_entries s JOIN exercise_entries e ON e.id = s.exercise_id WHERE s.id = ?`,
		setID.String()).Scan(&sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, fmt.Errorf("set entry %s: %w", setID, ErrNotFound)
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("get set entry: %w", err)
	}
	return uuid.Parse(sessionID)
}

// InsertSet stores a set entry row as given.
func (t *Tx) InsertSet(ctx context.Context, s *models.SetEntry) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO set_entries (id, exercise_id, set_index, reps, weight, is_warmup, notes, logged_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID.String(), s.ExerciseID.String(), s.SetIndex, s.Reps, s.Weight, s.IsWarmup, s.Notes, formatTime(s.LoggedAt),
	)
	if err != nil {
		return fmt.Errorf("insert set entry: %w", err)
	}
	return nil
}

// UpdateSet writes every mutable set field.
func (t *Tx) UpdateSet(ctx context.Context, s *models.SetEntry) error {
	result, err := t.tx.ExecContext(ctx,
		`UPDATE set_entries SET set_index = ?, reps = ?, weight = ?, is_warmup = ?, notes = ?, logged_at = ? WHERE id = ?`,
		s.SetIndex, s.Reps, s.Weight, s.IsWarmup, s.Notes, formatTime(s.LoggedAt), s.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("update set entry: %w", err)
	}
	return expectAffected(result, "update set entry", s.ID)
}

// DeleteSet removes a set entry.
func (t *Tx) DeleteSet(ctx context.Context, id uuid.UUID) error {
	result, err := t.tx.ExecContext(ctx, `DELETE FROM set_entries WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete set entry: %w", err)
	}
	return expectAffected(result, "delete set entry", id)
}
