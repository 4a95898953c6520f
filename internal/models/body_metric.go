// ABOUTME: BodyMetric model for bodyweight and body-fat check-ins.
// ABOUTME: Independent of sessions; both measurements are optional.
package models

import (
	"time"

	"github.com/google/uuid"
)

// BodyMetric is a dated bodyweight and/or body-fat reading.
type BodyMetric struct {
	ID             uuid.UUID `json:"id"`
	RecordedAt     time.Time `json:"recorded_at"`
	BodyWeight     *float64  `json:"body_weight,omitempty"`
	BodyFatPercent *float64  `json:"body_fat_percent,omitempty"`
	Notes          string    `json:"notes"`
}

// NewBodyMetric creates a BodyMetric with generated UUID and current timestamp.
func NewBodyMetric() *BodyMetric {
	return &BodyMetric{
		ID:         uuid.New(),
		RecordedAt: time.Now(),
	}
}

// WithBodyWeight sets the bodyweight reading.
func (m *BodyMetric) WithBodyWeight(w float64) *BodyMetric {
	w = ClampWeight(w)
	m.BodyWeight = &w
	return m
}

// WithBodyFat sets the body-fat percentage, clamped to [0, 100].
func (m *BodyMetric) WithBodyFat(pct float64) *BodyMetric {
	pct = ClampWeight(pct)
	if pct > 100 {
		pct = 100
	}
	m.BodyFatPercent = &pct
	return m
}

// WithRecordedAt sets a custom recorded_at timestamp.
func (m *BodyMetric) WithRecordedAt(t time.Time) *BodyMetric {
	m.RecordedAt = t
	return m
}

// WithNotes sets notes on the metric.
func (m *BodyMetric) WithNotes(notes string) *BodyMetric {
	m.Notes = notes
	return m
}

// IsEmpty reports whether neither measurement is set.
func (m *BodyMetric) IsEmpty() bool {
	return m.BodyWeight == nil && m.BodyFatPercent == nil
}
