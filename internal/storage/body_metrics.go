// ABOUTME: Body metric persistence operations.
// ABOUTME: Bodyweight and body-fat check-ins are independent of sessions.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/tmccoy01/healthplus/internal/models"
)

// ListBodyMetrics returns body metrics, most recent first. limit <= 0 means no limit.
func (r queries) ListBodyMetrics(ctx context.Context, limit int) ([]*models.BodyMetric, error) {
	query := `SELECT id, recorded_at, body_weight, body_fat_percent, notes FROM body_metrics
		ORDER BY recorded_at DESC, id ASC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query body metrics: %w", err)
	}
	defer rows.Close()

	var metrics []*models.BodyMetric
	for rows.Next() {
		var m models.BodyMetric
		var idStr, recordedAt string
		var weight, fat sql.NullFloat64

		if err := rows.Scan(&idStr, &recordedAt, &weight, &fat, &m.Notes); err != nil {
			return nil, fmt.Errorf("scan body metric: %w", err)
		}
		if m.ID, err = uuid.Parse(idStr); err != nil {
			return nil, fmt.Errorf("parse body metric ID: %w", err)
		}
		if m.RecordedAt, err = parseTime(recordedAt); err != nil {
			return nil, err
		}
		if weight.Valid {
			m.BodyWeight = &weight.Float64
		}
		if fat.Valid {
			m.BodyFatPercent = &fat.Float64
		}
		metrics = append(metrics, &m)
	}
	return metrics, rows.Err()
}

// InsertBodyMetric stores a body metric.
func (t *Tx) InsertBodyMetric(ctx context.Context, m *models.BodyMetric) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO body_metrics (id, recorded_at, body_weight, body_fat_percent, notes) VALUES (?, ?, ?, ?, ?)`,
		m.ID.String(), formatTime(m.RecordedAt), m.BodyWeight, m.BodyFatPercent, m.Notes,
	)
	if err != nil {
		return fmt.Errorf("insert body metric: %w", err)
	}
	return nil
}

// DeleteBodyMetric removes a body metric by id.
func (t *Tx) DeleteBodyMetric(ctx context.Context, id uuid.UUID) error {
	result, err := t.tx.ExecContext(ctx, `DELETE FROM body_metrics WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete body metric: %w", err)
	}
	return expectAffected(result, "delete body metric", id)
}
