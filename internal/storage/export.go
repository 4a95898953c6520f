// ABOUTME: Export and import of the workout log.
// ABOUTME: JSON is the full backup format; YAML and Markdown are for reading.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tmccoy01/healthplus/internal/models"
	"github.com/tmccoy01/healthplus/internal/normalize"
	"gopkg.in/yaml.v3"
)

// ExportVersion is written into every export.
const ExportVersion = "1.0"

// ExportData is the full backup format.
type ExportData struct {
	Version     string               `json:"version" yaml:"version"`
	ExportedAt  time.Time            `json:"exported_at" yaml:"exported_at"`
	Tool        string               `json:"tool" yaml:"tool"`
	Categories  []*models.Category   `json:"categories" yaml:"categories"`
	Sessions    []*models.Session    `json:"sessions" yaml:"sessions"`
	BodyMetrics []*models.BodyMetric `json:"body_metrics" yaml:"body_metrics"`
}

// GetAllData reads every category, session graph, and body metric from r.
func GetAllData(ctx context.Context, r Reader) (*ExportData, error) {
	categories, err := r.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	sessions, err := r.ListSessions(ctx, SessionFilter{})
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	metrics, err := r.ListBodyMetrics(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("list body metrics: %w", err)
	}

	return &ExportData{
		Version:     ExportVersion,
		ExportedAt:  time.Now(),
		Tool:        "healthplus",
		Categories:  categories,
		Sessions:    sessions,
		BodyMetrics: metrics,
	}, nil
}

// ImportData writes data into dst in a single transaction. Categories already
// in dst, by id or by normalized name, are not inserted again; sessions that
// referenced a name match are pointed at the existing category. Duplicate
// session or metric ids fail the whole import.
func ImportData(ctx context.Context, dst Repository, data *ExportData) (*CopySummary, error) {
	existing, err := dst.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list destination categories: %w", err)
	}
	byID := make(map[uuid.UUID]bool, len(existing))
	byName := make(map[string]uuid.UUID, len(existing))
	for _, c := range existing {
		byID[c.ID] = true
		byName[normalize.Name(c.Name)] = c.ID
	}
	remap := make(map[uuid.UUID]uuid.UUID)

	summary := &CopySummary{}
	err = dst.Update(ctx, func(tx *Tx) error {
		for _, c := range data.Categories {
			if byID[c.ID] {
				continue
			}
			key := normalize.Name(c.Name)
			if id, ok := byName[key]; ok {
				remap[c.ID] = id
				continue
			}
			if err := tx.InsertCategory(ctx, c); err != nil {
				return fmt.Errorf("import category %s: %w", c.ID, err)
			}
			byName[key] = c.ID
			summary.Categories++
		}

		for _, s := range data.Sessions {
			if s.CategoryID != nil {
				if id, ok := remap[*s.CategoryID]; ok {
					s.CategoryID = &id
				}
			}
			if err := tx.InsertSessionGraph(ctx, s); err != nil {
				return fmt.Errorf("import session %s: %w", s.ID, err)
			}
			summary.Sessions++
			for _, e := range s.Exercises {
				summary.Exercises++
				summary.Sets += len(e.Sets)
			}
		}

		for _, m := range data.BodyMetrics {
			if err := tx.InsertBodyMetric(ctx, m); err != nil {
				return fmt.Errorf("import body metric %s: %w", m.ID, err)
			}
			summary.BodyMetrics++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// ExportJSON exports all data as indented JSON.
func ExportJSON(ctx context.Context, r Reader) ([]byte, error) {
	data, err := GetAllData(ctx, r)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ImportJSON imports a JSON backup produced by ExportJSON.
func ImportJSON(ctx context.Context, dst Repository, raw []byte) (*CopySummary, error) {
	var data ExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("unmarshal JSON: %w", err)
	}
	return ImportData(ctx, dst, &data)
}

// ExportYAML exports a readable YAML view with category names inlined and
// sets written as "reps x weight".
func ExportYAML(ctx context.Context, r Reader) ([]byte, error) {
	data, err := GetAllData(ctx, r)
	if err != nil {
		return nil, err
	}
	categories := models.NewCategoryIndex(data.Categories)

	out := yamlExport{
		Version:     data.Version,
		ExportedAt:  data.ExportedAt.Format(time.RFC3339),
		Tool:        data.Tool,
		Sessions:    make([]yamlSession, 0, len(data.Sessions)),
		BodyMetrics: make([]yamlBodyMetric, 0, len(data.BodyMetrics)),
	}
	for _, c := range data.Categories {
		if !c.IsArchived {
			out.Categories = append(out.Categories, c.Name)
		}
	}

	for _, s := range data.Sessions {
		ys := yamlSession{
			ID:        s.ID.String()[:8],
			Category:  categories.NameOf(s.CategoryID, ""),
			StartedAt: s.StartedAt.Format(time.RFC3339),
			Notes:     s.Notes,
		}
		if s.EndedAt != nil {
			ys.EndedAt = s.EndedAt.Format(time.RFC3339)
		}
		for _, e := range s.Exercises {
			ye := yamlExercise{Name: e.ExerciseName, Notes: e.Notes}
			for _, set := range e.Sets {
				label := fmt.Sprintf("%d x %g", set.Reps, set.Weight)
				if set.IsWarmup {
					label += " (warmup)"
				}
				ye.Sets = append(ye.Sets, label)
			}
			ys.Exercises = append(ys.Exercises, ye)
		}
		out.Sessions = append(out.Sessions, ys)
	}

	for _, m := range data.BodyMetrics {
		out.BodyMetrics = append(out.BodyMetrics, yamlBodyMetric{
			ID:             m.ID.String()[:8],
			RecordedAt:     m.RecordedAt.Format(time.RFC3339),
			BodyWeight:     m.BodyWeight,
			BodyFatPercent: m.BodyFatPercent,
			Notes:          m.Notes,
		})
	}

	return yaml.Marshal(out)
}

type yamlExport struct {
	Version     string           `yaml:"version"`
	ExportedAt  string           `yaml:"exported_at"`
	Tool        string           `yaml:"tool"`
	Categories  []string         `yaml:"categories"`
	Sessions    []yamlSession    `yaml:"sessions"`
	BodyMetrics []yamlBodyMetric `yaml:"body_metrics"`
}

type yamlSession struct {
	ID        string         `yaml:"id"`
	Category  string         `yaml:"category,omitempty"`
	StartedAt string         `yaml:"started_at"`
	EndedAt   string         `yaml:"ended_at,omitempty"`
	Notes     string         `yaml:"notes,omitempty"`
	Exercises []yamlExercise `yaml:"exercises,omitempty"`
}

type yamlExercise struct {
	Name  string   `yaml:"name"`
	Notes string   `yaml:"notes,omitempty"`
	Sets  []string `yaml:"sets,omitempty"`
}

type yamlBodyMetric struct {
	ID             string   `yaml:"id"`
	RecordedAt     string   `yaml:"recorded_at"`
	BodyWeight     *float64 `yaml:"body_weight,omitempty"`
	BodyFatPercent *float64 `yaml:"body_fat_percent,omitempty"`
	Notes          string   `yaml:"notes,omitempty"`
}

// ExportMarkdown renders sessions and body metrics as Markdown tables.
// A non-nil since drops anything that started or was recorded before it.
func ExportMarkdown(ctx context.Context, r Reader, since *time.Time) (string, error) {
	data, err := GetAllData(ctx, r)
	if err != nil {
		return "", err
	}
	categories := models.NewCategoryIndex(data.Categories)
	include := func(t time.Time) bool { return since == nil || !t.Before(*since) }

	var sb strings.Builder
	now := time.Now()
	fmt.Fprintf(&sb, "# Workout Export - %s\n\n", now.Format("2006-01-02"))
	fmt.Fprintf(&sb, "Generated: %s\n\n", now.Format(time.RFC3339))

	sb.WriteString("## Sessions\n\n")
	sb.WriteString("| Date | Category | Duration | Exercises | Notes |\n")
	sb.WriteString("|------|----------|----------|-----------|-------|\n")
	for _, s := range data.Sessions {
		if !include(s.StartedAt) {
			continue
		}
		duration := "open"
		if d, ok := s.Duration(); ok {
			duration = fmt.Sprintf("%d min", int(d/time.Minute))
		}
		names := make([]string, 0, len(s.Exercises))
		for _, e := range s.Exercises {
			names = append(names, fmt.Sprintf("%s (%d)", e.ExerciseName, len(e.Sets)))
		}
		fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s |\n",
			s.StartedAt.Format("2006-01-02 15:04"),
			categories.NameOf(s.CategoryID, "-"),
			duration,
			strings.Join(names, ", "),
			s.Notes)
	}

	var metrics []*models.BodyMetric
	for _, m := range data.BodyMetrics {
		if include(m.RecordedAt) {
			metrics = append(metrics, m)
		}
	}
	if len(metrics) > 0 {
		sb.WriteString("\n## Body\n\n")
		sb.WriteString("| Date | Weight | Body Fat | Notes |\n")
		sb.WriteString("|------|--------|----------|-------|\n")
		for _, m := range metrics {
			weight, fat := "", ""
			if m.BodyWeight != nil {
				weight = fmt.Sprintf("%.1f", *m.BodyWeight)
			}
			if m.BodyFatPercent != nil {
				fat = fmt.Sprintf("%.1f%%", *m.BodyFatPercent)
			}
			fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n",
				m.RecordedAt.Format("2006-01-02 15:04"), weight, fat, m.Notes)
		}
	}

	return sb.String(), nil
}
