package service

import (
	"context"
	"testing"

	"ideahub/internal/models"
	"ideahub/internal/repository"
	"ideahub/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newFeedService(db *gorm.DB) FeedService {
	return NewFeedService(
		repository.NewPostRepository(db),
		repository.NewUserRepository(db),
	)
}

func postIDs(posts []*models.Post) []uint {
	ids := make([]uint, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestSuggestedPostsByRole(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := testutil.OpenTestDB(t)
	svc := newFeedService(db)

	author := testutil.CreateUser(t, db, "feedauthor", models.RoleCreator)
	project := testutil.CreatePost(t, db, author, models.PostTypeProject, nil)
	fundraiser := testutil.CreatePost(t, db, author, models.PostTypeFundraiser, nil)
	inquiry := testutil.CreatePost(t, db, author, models.PostTypeInquiry, nil)
	testutil.CreatePost(t, db, author, models.PostTypeSurveyOpen, nil)

	t.Run("professionals see inquiries", func(t *testing.T) {
		pro := testutil.CreateUser(t, db, "profeed", models.RoleProfessional)
		posts, total, err := svc.SuggestedPosts(ctx, pro.ID, 10, 0)
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		assert.Equal(t, []uint{inquiry.ID}, postIDs(posts))
	})

	t.Run("investors see fundraisers and projects", func(t *testing.T) {
		investor := testutil.CreateUser(t, db, "investorfeed", models.RoleInvestor)
		posts, total, err := svc.SuggestedPosts(ctx, investor.ID, 10, 0)
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		assert.ElementsMatch(t, []uint{project.ID, fundraiser.ID}, postIDs(posts))
	})

	t.Run("hidden posts never surface", func(t *testing.T) {
		require.NoError(t, db.Model(&models.Post{}).
			Where("id = ?", inquiry.ID).
			Update("visibility", models.VisibilityHidden).Error)

		pro := testutil.CreateUser(t, db, "profeed2", models.RoleProfessional)
		_, total, err := svc.SuggestedPosts(ctx, pro.ID, 10, 0)
		require.NoError(t, err)
		assert.Zero(t, total)
	})

	t.Run("unknown viewer", func(t *testing.T) {
		_, _, err := svc.SuggestedPosts(ctx, 9999, 10, 0)
		assert.True(t, models.IsCode(err, "NOT_FOUND"))
	})
}

func TestSuggestedPostsForCreators(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := testutil.OpenTestDB(t)
	svc := newFeedService(db)

	tech := models.Category{Name: "Technology"}
	arts := models.Category{Name: "Arts"}
	require.NoError(t, db.Create(&tech).Error)
	require.NoError(t, db.Create(&arts).Error)

	author := testutil.CreateUser(t, db, "interestauthor", models.RoleCreator)
	techPost := testutil.CreatePost(t, db, author, models.PostTypeProject, nil)
	require.NoError(t, db.Model(techPost).Association("Categories").Append(&tech))
	artsPost := testutil.CreatePost(t, db, author, models.PostTypeSurveyOpen, nil)
	require.NoError(t, db.Model(artsPost).Association("Categories").Append(&arts))
	testutil.CreatePost(t, db, author, models.PostTypeFundraiser, nil)

	t.Run("interest overlap drives the feed", func(t *testing.T) {
		creator := testutil.CreateUser(t, db, "interested", models.RoleCreator)
		require.NoError(t, db.Model(creator).Association("Interests").Append(&tech))

		posts, total, err := svc.SuggestedPosts(ctx, creator.ID, 10, 0)
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		assert.Equal(t, []uint{techPost.ID}, postIDs(posts))
	})

	t.Run("no interests yields an empty feed", func(t *testing.T) {
		indifferent := testutil.CreateUser(t, db, "indifferent", models.RoleCreator)
		posts, total, err := svc.SuggestedPosts(ctx, indifferent.ID, 10, 0)
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, posts)
	})
}
