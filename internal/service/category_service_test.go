package service

import (
	"context"
	"testing"

	"ideahub/internal/models"
	"ideahub/internal/repository"
	"ideahub/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryCRUD(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := testutil.OpenTestDB(t)
	svc := NewCategoryService(repository.NewCategoryRepository(db))

	admin := testutil.CreateAdmin(t, db, "taxonomist")
	adminViewer := &Viewer{UserID: admin.ID, Admin: true}

	t.Run("creation requires the admin authority", func(t *testing.T) {
		_, err := svc.Create(ctx, nil, "Gardening", "")
		assert.True(t, models.IsCode(err, "FORBIDDEN"))

		_, err = svc.Create(ctx, &Viewer{UserID: 42}, "Gardening", "")
		assert.True(t, models.IsCode(err, "FORBIDDEN"))
	})

	t.Run("name required", func(t *testing.T) {
		_, err := svc.Create(ctx, adminViewer, "   ", "")
		assert.True(t, models.IsCode(err, "VALIDATION_ERROR"))
	})

	category, err := svc.Create(ctx, adminViewer, "Gardening", "green thumbs")
	require.NoError(t, err)

	t.Run("duplicate name rejected", func(t *testing.T) {
		_, err := svc.Create(ctx, adminViewer, "Gardening", "")
		assert.True(t, models.IsCode(err, "VALIDATION_ERROR"))
	})

	t.Run("rename and describe", func(t *testing.T) {
		updated, err := svc.Update(ctx, adminViewer, category.ID, strptr("Horticulture"), strptr("plants"))
		require.NoError(t, err)
		assert.Equal(t, "Horticulture", updated.Name)
		assert.Equal(t, "plants", updated.Description)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, adminViewer, category.ID))
		_, err := svc.Get(ctx, category.ID)
		assert.True(t, models.IsCode(err, "NOT_FOUND"))
	})
}

func TestSystemCategoriesImmutable(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := testutil.OpenTestDB(t)
	svc := NewCategoryService(repository.NewCategoryRepository(db))

	admin := testutil.CreateAdmin(t, db, "keeper")
	adminViewer := &Viewer{UserID: admin.ID, Admin: true}

	system := models.Category{Name: "Technology", SystemCategory: true}
	require.NoError(t, db.Create(&system).Error)

	t.Run("cannot be renamed", func(t *testing.T) {
		_, err := svc.Update(ctx, adminViewer, system.ID, strptr("Tech"), nil)
		assert.True(t, models.IsCode(err, "VALIDATION_ERROR"))
	})

	t.Run("description stays editable", func(t *testing.T) {
		updated, err := svc.Update(ctx, adminViewer, system.ID, nil, strptr("all things digital"))
		require.NoError(t, err)
		assert.Equal(t, "all things digital", updated.Description)
	})

	t.Run("cannot be deleted", func(t *testing.T) {
		err := svc.Delete(ctx, adminViewer, system.ID)
		assert.True(t, models.IsCode(err, "VALIDATION_ERROR"))
	})

	t.Run("listing includes system and custom categories", func(t *testing.T) {
		_, err := svc.Create(ctx, adminViewer, "Custom", "")
		require.NoError(t, err)

		categories, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Len(t, categories, 2)
	})
}
