// ABOUTME: Shared query plumbing for DB and Tx, plus encoding helpers.
// ABOUTME: Reads work on both; writes are only exposed on Tx.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when an id or prefix matches no record.
var ErrNotFound = errors.New("not found")

// ErrAmbiguousPrefix is returned when an id prefix matches more than one record.
var ErrAmbiguousPrefix = errors.New("ambiguous prefix")

// timeLayout is fixed width so stored timestamps sort lexicographically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// queries holds the read operations shared by DB and Tx.
type queries struct {
	q querier
}

// Tx is an open transaction handed to Update callbacks.
type Tx struct {
	queries
	tx *sql.Tx
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t.UTC(), nil
}

func uuidPtrString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

// expectAffected turns a zero-row write into ErrNotFound.
func expectAffected(result sql.Result, what string, id uuid.UUID) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s %s: %w", what, id, ErrNotFound)
	}
	return nil
}

// resolveID finds the full ID in table from an ID or unique prefix.
func (r queries) resolveID(ctx context.Context, table, idOrPrefix string) (uuid.UUID, error) {
	idOrPrefix = strings.TrimSpace(idOrPrefix)
	if id, err := uuid.Parse(idOrPrefix); err == nil {
		var found string
		err := r.q.QueryRowContext(ctx, `SELECT id FROM `+table+` WHERE id = ?`, id.String()).Scan(&found)
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, fmt.Errorf("%w: %s", ErrNotFound, idOrPrefix)
		}
		if err != nil {
			return uuid.Nil, fmt.Errorf("resolve %s ID: %w", table, err)
		}
		return id, nil
	}
	if idOrPrefix == "" {
		return uuid.Nil, fmt.Errorf("%w: empty id", ErrNotFound)
	}

	rows, err := r.q.QueryContext(ctx, `SELECT id FROM `+table+` WHERE id LIKE ? || '%' LIMIT 2`, strings.ToLower(idOrPrefix))
	if err != nil {
		return uuid.Nil, fmt.Errorf("resolve %s ID: %w", table, err)
	}
	defer rows.Close()

	var matches []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return uuid.Nil, fmt.Errorf("scan %s ID: %w", table, err)
		}
		matches = append(matches, id)
	}
	if err := rows.Err(); err != nil {
		return uuid.Nil, err
	}

	if len(matches) == 0 {
		return uuid.Nil, fmt.Errorf("%w: %s", ErrNotFound, idOrPrefix)
	}
	if len(matches) > 1 {
		return uuid.Nil, fmt.Errorf("%w %s: matches multiple records", ErrAmbiguousPrefix, idOrPrefix)
	}

	return uuid.Parse(matches[0])
}

// ResolveSessionID finds a session id from an ID or unique prefix.
func (r queries) ResolveSessionID(ctx context.Context, idOrPrefix string) (uuid.UUID, error) {
	return r.resolveID(ctx, "sessions", idOrPrefix)
}

// ResolveExerciseID finds an exercise entry id from an ID or unique prefix.
func (r queries) ResolveExerciseID(ctx context.Context, idOrPrefix string) (uuid.UUID, error) {
	return r.resolveID(ctx, "exercise_entries", idOrPrefix)
}

// ResolveSetID finds a set id from an ID or unique prefix.
func (r queries) ResolveSetID(ctx context.Context, idOrPrefix string) (uuid.UUID, error) {
	return r.resolveID(ctx, "set_entries", idOrPrefix)
}

// ResolveCategoryID finds a category id from an ID or unique prefix.
func (r queries) ResolveCategoryID(ctx context.Context, idOrPrefix string) (uuid.UUID, error) {
	return r.resolveID(ctx, "categories", idOrPrefix)
}

// ResolveBodyMetricID finds a body metric id from an ID or unique prefix.
func (r queries) ResolveBodyMetricID(ctx context.Context, idOrPrefix string) (uuid.UUID, error) {
	return r.resolveID(ctx, "body_metrics", idOrPrefix)
}
