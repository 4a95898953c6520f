// ABOUTME: Category persistence operations.
// ABOUTME: Categories are archived, never deleted, so there is no delete query.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tmccoy01/healthplus/internal/models"
)

const categoryColumns = `id, name, is_built_in, is_archived, created_at, sort_order, color_hex, icon_token`

// ListCategories returns every category, active and archived, by sort order then name.
func (r queries) ListCategories(ctx context.Context) ([]*models.Category, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories ORDER BY sort_order ASC, name ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// GetCategory retrieves a category by id.
func (r queries) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id.String())
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("category %s: %w", id, ErrNotFound)
	}
	return c, err
}

// InsertCategory stores a new category.
func (t *Tx) InsertCategory(ctx context.Context, c *models.Category) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO categories (`+categoryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID.String(), c.Name, c.IsBuiltIn, c.IsArchived, formatTime(c.CreatedAt),
		c.SortOrder, c.ColorHex, c.IconToken,
	)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// UpdateCategory writes every mutable category field.
func (t *Tx) UpdateCategory(ctx context.Context, c *models.Category) error {
	result, err := t.tx.ExecContext(ctx,
		`UPDATE categories SET name = ?, is_built_in = ?, is_archived = ?, sort_order = ?, color_hex = ?, icon_token = ?
		 WHERE id = ?`,
		c.Name, c.IsBuiltIn, c.IsArchived, c.SortOrder, c.ColorHex, c.IconToken, c.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return expectAffected(result, "update category", c.ID)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(s rowScanner) (*models.Category, error) {
	var c models.Category
	var idStr, createdAt string
	var color, icon sql.NullString

	if err := s.Scan(&idStr, &c.Name, &c.IsBuiltIn, &c.IsArchived, &createdAt, &c.SortOrder, &color, &icon); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan category: %w", err)
	}

	var err error
	if c.ID, err = uuid.Parse(idStr); err != nil {
		return nil, fmt.Errorf("parse category ID: %w", err)
	}
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if color.Valid {
		c.ColorHex = &color.String
	}
	if icon.Valid {
		c.IconToken = &icon.String
	}
	return &c, nil
}
