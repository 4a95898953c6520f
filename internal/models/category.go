// ABOUTME: Category model for workout types (Back, Legs, Cardio, ...).
// ABOUTME: Sessions hold a weak id reference; CategoryIndex resolves it for display.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Category groups sessions by workout type. Categories are archived, never deleted.
type Category struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	IsBuiltIn  bool      `json:"is_built_in"`
	IsArchived bool      `json:"is_archived"`
	CreatedAt  time.Time `json:"created_at"`
	SortOrder  int       `json:"sort_order"`
	ColorHex   *string   `json:"color_hex,omitempty"`
	IconToken  *string   `json:"icon_token,omitempty"`
}

// NewCategory creates a new user category with generated UUID and current timestamp.
func NewCategory(name string) *Category {
	return &Category{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now(),
	}
}

// WithSortOrder sets the display position.
func (c *Category) WithSortOrder(order int) *Category {
	c.SortOrder = order
	return c
}

// WithColor sets the hex color (without leading #).
func (c *Category) WithColor(hex string) *Category {
	if hex != "" {
		c.ColorHex = &hex
	}
	return c
}

// WithIcon sets the icon token.
func (c *Category) WithIcon(token string) *Category {
	if token != "" {
		c.IconToken = &token
	}
	return c
}

// AsBuiltIn marks the category as one of the seeded defaults.
func (c *Category) AsBuiltIn() *Category {
	c.IsBuiltIn = true
	return c
}

// CategoryIndex resolves weak category references by id.
type CategoryIndex map[uuid.UUID]*Category

// NewCategoryIndex indexes categories by id.
func NewCategoryIndex(categories []*Category) CategoryIndex {
	idx := make(CategoryIndex, len(categories))
	for _, c := range categories {
		idx[c.ID] = c
	}
	return idx
}

// Resolve returns the category for id, or nil when id is nil or unknown.
func (idx CategoryIndex) Resolve(id *uuid.UUID) *Category {
	if id == nil {
		return nil
	}
	return idx[*id]
}

// NameOf returns the category name for id, or fallback when unresolved.
func (idx CategoryIndex) NameOf(id *uuid.UUID, fallback string) string {
	if c := idx.Resolve(id); c != nil {
		return c.Name
	}
	return fallback
}
