package category

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmccoy01/healthplus/internal/models"
	"github.com/tmccoy01/healthplus/internal/storage"
)

func newTestRegistry(t *testing.T) (*Registry, *storage.DB) {
	t.Helper()
	db, err := storage.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRegistry(db), db
}

func TestSeedDefaults_Idempotent(t *testing.T) {
	ctx := context.Background()
	reg, db := newTestRegistry(t)

	inserted, err := reg.SeedDefaults(ctx)
	require.NoError(t, err)
	assert.Len(t, inserted, len(Defaults))

	again, err := reg.SeedDefaults(ctx)
	require.NoError(t, err)
	assert.Empty(t, again)

	all, err := db.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, all, len(Defaults))
	for i, c := range all {
		assert.Equal(t, i, c.SortOrder)
		assert.Equal(t, Defaults[i].Name, c.Name)
		assert.True(t, c.IsBuiltIn)
		require.NotNil(t, c.ColorHex)
		assert.Equal(t, Defaults[i].ColorHex, *c.ColorHex)
	}
}

func TestSeedDefaults_RespectsExistingAndArchived(t *testing.T) {
	ctx := context.Background()
	reg, _ := newTestRegistry(t)

	custom, err := reg.Create(ctx, "  BACK ")
	require.NoError(t, err)
	_, err = reg.Archive(ctx, custom.ID)
	require.NoError(t, err)
	_, err = reg.Create(ctx, "Mobility")
	require.NoError(t, err)

	inserted, err := reg.SeedDefaults(ctx)
	require.NoError(t, err)
	assert.Len(t, inserted, len(Defaults)-1)
	for _, c := range inserted {
		assert.NotEqual(t, "Back", c.Name)
	}
	assert.Equal(t, 2, inserted[0].SortOrder, "sort order continues after existing maximum")
}

func TestMissingDefaults_Pure(t *testing.T) {
	existing := []*models.Category{
		models.NewCategory("légs").WithSortOrder(7),
		models.NewCategory("Cardio").WithSortOrder(2),
	}
	missing := MissingDefaults(existing)
	require.Len(t, missing, len(Defaults)-2)
	assert.Equal(t, "Back", missing[0].Name)
	assert.Equal(t, 8, missing[0].SortOrder)
	assert.Equal(t, 8+len(missing)-1, missing[len(missing)-1].SortOrder)
}

func TestCreate_Validation(t *testing.T) {
	ctx := context.Background()
	reg, _ := newTestRegistry(t)

	_, err := reg.Create(ctx, "   ")
	assert.ErrorIs(t, err, ErrEmptyName)

	c, err := reg.Create(ctx, "  Triceps ")
	require.NoError(t, err)
	assert.Equal(t, "Triceps", c.Name)
	assert.False(t, c.IsBuiltIn)
	assert.Equal(t, 0, c.SortOrder)

	_, err = reg.Create(ctx, "TRICEPS")
	assert.ErrorIs(t, err, ErrDuplicateName)

	_, err = reg.Archive(ctx, c.ID)
	require.NoError(t, err)
	_, err = reg.Create(ctx, "tricéps")
	assert.ErrorIs(t, err, ErrDuplicateName, "archived names stay reserved")

	next, err := reg.Create(ctx, "Forearms")
	require.NoError(t, err)
	assert.Equal(t, 1, next.SortOrder)
}

func TestRename(t *testing.T) {
	ctx := context.Background()
	reg, db := newTestRegistry(t)

	a, err := reg.Create(ctx, "Push")
	require.NoError(t, err)
	_, err = reg.Create(ctx, "Pull")
	require.NoError(t, err)

	renamed, err := reg.Rename(ctx, a.ID, " push ")
	require.NoError(t, err, "renaming to own name is allowed")
	assert.Equal(t, "push", renamed.Name)

	_, err = reg.Rename(ctx, a.ID, "PULL")
	assert.ErrorIs(t, err, ErrDuplicateName)

	_, err = reg.Rename(ctx, a.ID, "")
	assert.ErrorIs(t, err, ErrEmptyName)

	_, err = reg.Rename(ctx, uuid.New(), "Legs")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	got, err := db.GetCategory(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "push", got.Name)
}

func TestArchive_KeepsSessionReference(t *testing.T) {
	ctx := context.Background()
	reg, db := newTestRegistry(t)

	c, err := reg.Create(ctx, "Legs")
	require.NoError(t, err)

	s := models.NewSession().WithCategory(&c.ID)
	require.NoError(t, db.Update(ctx, func(tx *storage.Tx) error { return tx.InsertSession(ctx, s) }))

	archived, err := reg.Archive(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, archived.IsArchived)

	again, err := reg.Archive(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, again.IsArchived)

	got, err := db.GetSession(ctx, s.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CategoryID)
	assert.Equal(t, c.ID, *got.CategoryID)

	active, err := reg.List(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := reg.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestFindByName(t *testing.T) {
	ctx := context.Background()
	reg, _ := newTestRegistry(t)
	_, err := reg.SeedDefaults(ctx)
	require.NoError(t, err)

	c, err := reg.FindByName(ctx, "  shoulders")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "Shoulders", c.Name)

	c, err = reg.FindByName(ctx, "Calves")
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	reg, _ := newTestRegistry(t)

	legs, err := reg.Create(ctx, "Legs")
	require.NoError(t, err)

	byName, err := reg.Resolve(ctx, "  LEGS ")
	require.NoError(t, err)
	assert.Equal(t, legs.ID, byName.ID)

	byPrefix, err := reg.Resolve(ctx, legs.ID.String()[:8])
	require.NoError(t, err)
	assert.Equal(t, legs.ID, byPrefix.ID)

	_, err = reg.Resolve(ctx, "Swimming")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
