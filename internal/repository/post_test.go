package repository

import (
	"context"
	"testing"

	"ideahub/internal/models"
	"ideahub/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostListFilters(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := testutil.OpenTestDB(t)
	repo := NewPostRepository(db)

	alice := testutil.CreateUser(t, db, "alice", models.RoleCreator)
	bob := testutil.CreateUser(t, db, "bob", models.RoleCreator)

	project := testutil.CreatePost(t, db, alice, models.PostTypeProject, nil)
	fundraiser := testutil.CreatePost(t, db, alice, models.PostTypeFundraiser, func(p *models.Post) {
		p.Featured = true
	})
	french := testutil.CreatePost(t, db, bob, models.PostTypeInquiry, func(p *models.Post) {
		p.Language = "fr"
	})
	hidden := testutil.CreatePost(t, db, bob, models.PostTypeSurveyOpen, func(p *models.Post) {
		p.Visibility = models.VisibilityHidden
	})
	testutil.CreatePost(t, db, bob, models.PostTypeSurveyOpen, func(p *models.Post) {
		p.Visibility = models.VisibilityDeleted
	})

	ids := func(posts []*models.Post) []uint {
		out := make([]uint, 0, len(posts))
		for _, p := range posts {
			out = append(out, p.ID)
		}
		return out
	}

	t.Run("default listing is active only", func(t *testing.T) {
		posts, total, err := repo.List(ctx, PostFilter{Limit: 10})
		require.NoError(t, err)
		assert.EqualValues(t, 3, total)
		assert.ElementsMatch(t, []uint{project.ID, fundraiser.ID, french.ID}, ids(posts))
	})

	t.Run("IncludeHidden keeps hidden but never deleted", func(t *testing.T) {
		posts, total, err := repo.List(ctx, PostFilter{IncludeHidden: true, Limit: 10})
		require.NoError(t, err)
		assert.EqualValues(t, 4, total)
		assert.Contains(t, ids(posts), hidden.ID)
	})

	t.Run("type filter", func(t *testing.T) {
		posts, _, err := repo.List(ctx, PostFilter{
			Types: []models.PostType{models.PostTypeProject, models.PostTypeFundraiser},
			Limit: 10,
		})
		require.NoError(t, err)
		assert.ElementsMatch(t, []uint{project.ID, fundraiser.ID}, ids(posts))
	})

	t.Run("language filter", func(t *testing.T) {
		posts, _, err := repo.List(ctx, PostFilter{Language: "fr", Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, []uint{french.ID}, ids(posts))
	})

	t.Run("author filter", func(t *testing.T) {
		posts, _, err := repo.List(ctx, PostFilter{AuthorProfileID: alice.Profile.ID, Limit: 10})
		require.NoError(t, err)
		assert.ElementsMatch(t, []uint{project.ID, fundraiser.ID}, ids(posts))
	})

	t.Run("featured filter", func(t *testing.T) {
		featured := true
		posts, _, err := repo.List(ctx, PostFilter{Featured: &featured, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, []uint{fundraiser.ID}, ids(posts))
	})

	t.Run("category filter deduplicates across joins", func(t *testing.T) {
		tech := models.Category{Name: "Technology"}
		design := models.Category{Name: "Design"}
		require.NoError(t, db.Create(&tech).Error)
		require.NoError(t, db.Create(&design).Error)
		require.NoError(t, db.Model(project).Association("Categories").Append(&tech, &design))

		posts, total, err := repo.List(ctx, PostFilter{
			CategoryIDs: []uint{tech.ID, design.ID},
			Limit:       10,
		})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total, "a post in both categories counts once")
		assert.Equal(t, []uint{project.ID}, ids(posts))
	})
}

func TestPostDeleteCascades(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := testutil.OpenTestDB(t)
	repo := NewPostRepository(db)

	author := testutil.CreateUser(t, db, "cascade", models.RoleCreator)
	respondent := testutil.CreateUser(t, db, "cascaderesp", models.RoleCreator)
	survey := testutil.CreatePost(t, db, author, models.PostTypeSurveyOpen, nil)

	require.NoError(t, db.Create(&models.SurveyResponse{
		PostID:      survey.ID,
		ResponderID: respondent.Profile.ID,
		Text:        "doomed",
	}).Error)
	require.NoError(t, repo.AddAttachment(ctx, &models.Attachment{
		PostID: survey.ID,
		URL:    "https://cdn.example.com/x.png",
	}))

	require.NoError(t, repo.Delete(ctx, survey.ID))

	var responses, attachments int64
	require.NoError(t, db.Model(&models.SurveyResponse{}).Where("post_id = ?", survey.ID).Count(&responses).Error)
	require.NoError(t, db.Model(&models.Attachment{}).Where("post_id = ?", survey.ID).Count(&attachments).Error)
	assert.Zero(t, responses)
	assert.Zero(t, attachments)

	_, err := repo.GetByID(ctx, survey.ID)
	assert.Error(t, err)
}
