// ABOUTME: Body metric log operations (bodyweight and body-fat check-ins).
// ABOUTME: Kept beside the session manager so every write goes through one surface.
package workout

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tmccoy01/healthplus/internal/models"
	"github.com/tmccoy01/healthplus/internal/storage"
)

// ErrEmptyBodyMetric is returned when neither bodyweight nor body fat is given.
var ErrEmptyBodyMetric = errors.New("body metric needs a bodyweight or body-fat value")

// BodyMetricInput describes a check-in. A nil RecordedAt means now.
type BodyMetricInput struct {
	BodyWeight     *float64
	BodyFatPercent *float64
	Notes          string
	RecordedAt     *time.Time
}

// AddBodyMetric records a bodyweight and/or body-fat reading.
func (m *Manager) AddBodyMetric(ctx context.Context, in BodyMetricInput) (*models.BodyMetric, error) {
	metric := models.NewBodyMetric().
		WithRecordedAt(m.now()).
		WithNotes(strings.TrimSpace(in.Notes))
	if in.RecordedAt != nil {
		metric.WithRecordedAt(*in.RecordedAt)
	}
	if in.BodyWeight != nil {
		metric.WithBodyWeight(*in.BodyWeight)
	}
	if in.BodyFatPercent != nil {
		metric.WithBodyFat(*in.BodyFatPercent)
	}
	if metric.IsEmpty() {
		return nil, ErrEmptyBodyMetric
	}

	err := m.store.Update(ctx, func(tx *storage.Tx) error {
		return tx.InsertBodyMetric(ctx, metric)
	})
	if err != nil {
		return nil, err
	}
	return metric, nil
}

// DeleteBodyMetric removes a check-in.
func (m *Manager) DeleteBodyMetric(ctx context.Context, id uuid.UUID) error {
	return m.store.Update(ctx, func(tx *storage.Tx) error {
		return tx.DeleteBodyMetric(ctx, id)
	})
}
