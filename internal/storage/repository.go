// ABOUTME: Repository interfaces for workout log storage.
// ABOUTME: Reader covers queries; Repository adds transactional writes and lifecycle.
package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/tmccoy01/healthplus/internal/models"
)

// Reader defines the query surface shared by a DB and an open Tx.
type Reader interface {
	ListCategories(ctx context.Context) ([]*models.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error)

	ListSessions(ctx context.Context, filter SessionFilter) ([]*models.Session, error)
	GetSession(ctx context.Context, id uuid.UUID) (*models.Session, error)
	ActiveSession(ctx context.Context) (*models.Session, error)

	ListBodyMetrics(ctx context.Context, limit int) ([]*models.BodyMetric, error)

	ResolveSessionID(ctx context.Context, idOrPrefix string) (uuid.UUID, error)
	ResolveExerciseID(ctx context.Context, idOrPrefix string) (uuid.UUID, error)
	ResolveSetID(ctx context.Context, idOrPrefix string) (uuid.UUID, error)
	ResolveCategoryID(ctx context.Context, idOrPrefix string) (uuid.UUID, error)
	ResolveBodyMetricID(ctx context.Context, idOrPrefix string) (uuid.UUID, error)
}

// Repository is the persistence collaborator used by the domain packages.
// This interface allows swapping implementations (e.g., for testing).
type Repository interface {
	Reader

	// Update runs fn in one transaction: all of its writes commit or none do.
	Update(ctx context.Context, fn func(tx *Tx) error) error

	InMemory() bool
	Close() error
}

var (
	_ Repository = (*DB)(nil)
	_ Reader     = (*Tx)(nil)
)
