// ABOUTME: Category registry: seed defaults, create, rename, archive, list.
// ABOUTME: Enforces unique normalized names across active and archived categories.
package category

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/tmccoy01/healthplus/internal/models"
	"github.com/tmccoy01/healthplus/internal/normalize"
	"github.com/tmccoy01/healthplus/internal/storage"
)

var (
	// ErrEmptyName is returned when a category name is blank after trimming.
	ErrEmptyName = errors.New("category name cannot be empty")
	// ErrDuplicateName is returned when another category already uses the name.
	ErrDuplicateName = errors.New("a category with that name already exists")
)

// Definition describes a built-in category.
type Definition struct {
	Name      string
	ColorHex  string
	IconToken string
}

// Defaults is the built-in category list, in seeding order.
var Defaults = []Definition{
	{Name: "Back", ColorHex: "4A5A66", IconToken: "figure.rower"},
	{Name: "Triceps", ColorHex: "6A7077", IconToken: "bolt.arm"},
	{Name: "Biceps", ColorHex: "7C6A5A", IconToken: "dumbbell"},
	{Name: "Chest", ColorHex: "8A5A4A", IconToken: "figure.strengthtraining.traditional"},
	{Name: "Shoulders", ColorHex: "5D667F", IconToken: "figure.flexibility"},
	{Name: "Legs", ColorHex: "5E6C5A", IconToken: "figure.run"},
	{Name: "Core", ColorHex: "7D5C50", IconToken: "figure.core.training"},
	{Name: "Cardio", ColorHex: "8C6B3A", IconToken: "heart.circle"},
}

// Registry manages categories through the repository.
type Registry struct {
	store storage.Repository
}

// NewRegistry creates a Registry backed by store.
func NewRegistry(store storage.Repository) *Registry {
	return &Registry{store: store}
}

// MissingDefaults returns the defaults whose normalized name is not among
// existing, with sort orders continuing from the current maximum.
func MissingDefaults(existing []*models.Category) []*models.Category {
	present := make(map[string]bool, len(existing))
	for _, c := range existing {
		present[normalize.Name(c.Name)] = true
	}

	next := nextSortOrder(existing)
	var missing []*models.Category
	for _, def := range Defaults {
		key := normalize.Name(def.Name)
		if present[key] {
			continue
		}
		present[key] = true
		missing = append(missing, models.NewCategory(def.Name).
			WithColor(def.ColorHex).
			WithIcon(def.IconToken).
			WithSortOrder(next).
			AsBuiltIn())
		next++
	}
	return missing
}

// SeedDefaults inserts any missing built-in category. Running it again inserts nothing.
func (r *Registry) SeedDefaults(ctx context.Context) ([]*models.Category, error) {
	var inserted []*models.Category
	err := r.store.Update(ctx, func(tx *storage.Tx) error {
		existing, err := tx.ListCategories(ctx)
		if err != nil {
			return err
		}
		missing := MissingDefaults(existing)
		for _, c := range missing {
			if err := tx.InsertCategory(ctx, c); err != nil {
				return err
			}
		}
		inserted = missing
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("seed categories: %w", err)
	}
	return inserted, nil
}

// Create adds a user category with the next sort order.
func (r *Registry) Create(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	var created *models.Category
	err := r.store.Update(ctx, func(tx *storage.Tx) error {
		existing, err := tx.ListCategories(ctx)
		if err != nil {
			return err
		}
		if err := validateName(name, existing, uuid.Nil); err != nil {
			return err
		}
		created = models.NewCategory(name).WithSortOrder(nextSortOrder(existing))
		return tx.InsertCategory(ctx, created)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Rename changes a category's name, validating uniqueness against every other category.
func (r *Registry) Rename(ctx context.Context, id uuid.UUID, newName string) (*models.Category, error) {
	newName = strings.TrimSpace(newName)
	var renamed *models.Category
	err := r.store.Update(ctx, func(tx *storage.Tx) error {
		existing, err := tx.ListCategories(ctx)
		if err != nil {
			return err
		}
		c := find(existing, id)
		if c == nil {
			return fmt.Errorf("category %s: %w", id, storage.ErrNotFound)
		}
		if err := validateName(newName, existing, id); err != nil {
			return err
		}
		c.Name = newName
		renamed = c
		return tx.UpdateCategory(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	return renamed, nil
}

// Archive hides a category from pickers. Sessions keep their reference.
// Archiving an archived category is a no-op.
func (r *Registry) Archive(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var archived *models.Category
	err := r.store.Update(ctx, func(tx *storage.Tx) error {
		c, err := tx.GetCategory(ctx, id)
		if err != nil {
			return err
		}
		archived = c
		if c.IsArchived {
			return nil
		}
		c.IsArchived = true
		return tx.UpdateCategory(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	return archived, nil
}

// List returns categories by sort order then name, skipping archived ones unless asked.
func (r *Registry) List(ctx context.Context, includeArchived bool) ([]*models.Category, error) {
	all, err := r.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	var out []*models.Category
	for _, c := range all {
		if c.IsArchived && !includeArchived {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

// FindByName returns the category whose normalized name matches, or nil.
func (r *Registry) FindByName(ctx context.Context, name string) (*models.Category, error) {
	key := normalize.Name(name)
	if key == "" {
		return nil, nil
	}
	all, err := r.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	for _, c := range all {
		if normalize.Name(c.Name) == key {
			return c, nil
		}
	}
	return nil, nil
}

func validateName(name string, existing []*models.Category, self uuid.UUID) error {
	key := normalize.Name(name)
	if key == "" {
		return ErrEmptyName
	}
	for _, c := range existing {
		if c.ID != self && normalize.Name(c.Name) == key {
			return fmt.Errorf("%w: %q", ErrDuplicateName, c.Name)
		}
	}
	return nil
}

func nextSortOrder(existing []*models.Category) int {
	highest := -1
	for _, c := range existing {
		if c.SortOrder > highest {
			highest = c.SortOrder
		}
	}
	return highest + 1
}

func find(categories []*models.Category, id uuid.UUID) *models.Category {
	for _, c := range categories {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Resolve finds a category by name first, then by id or id prefix.
func (r *Registry) Resolve(ctx context.Context, nameOrID string) (*models.Category, error) {
	c, err := r.FindByName(ctx, nameOrID)
	if err != nil || c != nil {
		return c, err
	}
	id, err := r.store.ResolveCategoryID(ctx, nameOrID)
	if err != nil {
		return nil, fmt.Errorf("category %q: %w", nameOrID, err)
	}
	return r.store.GetCategory(ctx, id)
}
