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

func newThreadService(db *gorm.DB) ThreadService {
	return NewThreadService(
		db,
		repository.NewThreadRepository(db),
		repository.NewPostRepository(db),
		repository.NewProfileRepository(db),
	)
}

func TestThreadAddPost(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := testutil.OpenTestDB(t)
	svc := newThreadService(db)

	author := testutil.CreateUser(t, db, "curator", models.RoleCreator)
	other := testutil.CreateUser(t, db, "visitor", models.RoleCreator)
	thread := testutil.CreateThread(t, db, author, "My work")
	post := testutil.CreatePost(t, db, author, models.PostTypeFundraiser, nil)

	require.NoError(t, svc.AddPost(ctx, author.ID, thread.ID, post.ID))

	var stored models.Post
	require.NoError(t, db.First(&stored, post.ID).Error)
	require.NotNil(t, stored.ThreadID)
	assert.Equal(t, thread.ID, *stored.ThreadID)
	assert.False(t, stored.Pinned)

	t.Run("post already in a thread", func(t *testing.T) {
		err := svc.AddPost(ctx, author.ID, thread.ID, post.ID)
		assert.True(t, models.IsCode(err, "VALIDATION_ERROR"))
	})

	t.Run("foreign post rejected", func(t *testing.T) {
		foreign := testutil.CreatePost(t, db, other, models.PostTypeInquiry, nil)
		err := svc.AddPost(ctx, author.ID, thread.ID, foreign.ID)
		assert.True(t, models.IsCode(err, "FORBIDDEN"))
	})

	t.Run("hidden post rejected", func(t *testing.T) {
		hidden := testutil.CreatePost(t, db, author, models.PostTypeInquiry, func(p *models.Post) {
			p.Visibility = models.VisibilityHidden
		})
		err := svc.AddPost(ctx, author.ID, thread.ID, hidden.ID)
		assert.True(t, models.IsCode(err, "VALIDATION_ERROR"))
	})
}

func TestThreadProjectSlotExclusivity(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := testutil.OpenTestDB(t)
	svc := newThreadService(db)

	author := testutil.CreateUser(t, db, "builder", models.RoleCreator)
	thread := testutil.CreateThread(t, db, author, "Project thread")

	first := testutil.CreatePost(t, db, author, models.PostTypeProject, nil)
	second := testutil.CreatePost(t, db, author, models.PostTypeProject, nil)

	require.NoError(t, svc.AddPost(ctx, author.ID, thread.ID, first.ID))

	err := svc.AddPost(ctx, author.ID, thread.ID, second.ID)
	require.Error(t, err)
	assert.True(t, models.IsCode(err, "VALIDATION_ERROR"))
	assert.Contains(t, err.Error(), "project")

	// Removing the occupant frees the slot.
	require.NoError(t, svc.RemovePost(ctx, author.ID, thread.ID, first.ID))
	assert.NoError(t, svc.AddPost(ctx, author.ID, thread.ID, second.ID))
}

func TestThreadPinning(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := testutil.OpenTestDB(t)
	svc := newThreadService(db)

	author := testutil.CreateUser(t, db, "pinner", models.RoleCreator)
	thread := testutil.CreateThread(t, db, author, "Pins")

	fundraiserA := testutil.CreatePost(t, db, author, models.PostTypeFundraiser, nil)
	fundraiserB := testutil.CreatePost(t, db, author, models.PostTypeFundraiser, nil)
	inquiry := testutil.CreatePost(t, db, author, models.PostTypeInquiry, nil)
	project := testutil.CreatePost(t, db, author, models.PostTypeProject, nil)

	for _, p := range []*models.Post{fundraiserA, fundraiserB, inquiry, project} {
		require.NoError(t, svc.AddPost(ctx, author.ID, thread.ID, p.ID))
	}

	require.NoError(t, svc.PinPost(ctx, author.ID, thread.ID, fundraiserA.ID))

	t.Run("same type conflict is rejected, not replaced", func(t *testing.T) {
		err := svc.PinPost(ctx, author.ID, thread.ID, fundraiserB.ID)
		require.Error(t, err)
		assert.True(t, models.IsCode(err, "VALIDATION_ERROR"))

		var stored models.Post
		require.NoError(t, db.First(&stored, fundraiserA.ID).Error)
		assert.True(t, stored.Pinned, "existing pin must survive the conflict")
	})

	t.Run("different type pins independently", func(t *testing.T) {
		assert.NoError(t, svc.PinPost(ctx, author.ID, thread.ID, inquiry.ID))
	})

	t.Run("project posts cannot be pinned", func(t *testing.T) {
		err := svc.PinPost(ctx, author.ID, thread.ID, project.ID)
		assert.True(t, models.IsCode(err, "VALIDATION_ERROR"))
	})

	t.Run("double pin rejected", func(t *testing.T) {
		err := svc.PinPost(ctx, author.ID, thread.ID, fundraiserA.ID)
		assert.True(t, models.IsCode(err, "VALIDATION_ERROR"))
	})

	t.Run("unpin frees the slot", func(t *testing.T) {
		require.NoError(t, svc.UnpinPost(ctx, author.ID, thread.ID, fundraiserA.ID))
		assert.NoError(t, svc.PinPost(ctx, author.ID, thread.ID, fundraiserB.ID))
	})

	t.Run("unpin of unpinned member rejected", func(t *testing.T) {
		err := svc.UnpinPost(ctx, author.ID, thread.ID, fundraiserA.ID)
		assert.True(t, models.IsCode(err, "VALIDATION_ERROR"))
	})
}

func TestThreadGetSortsMembers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := testutil.OpenTestDB(t)
	svc := newThreadService(db)

	author := testutil.CreateUser(t, db, "sorter", models.RoleCreator)
	thread := testutil.CreateThread(t, db, author, "Layout")

	project := testutil.CreatePost(t, db, author, models.PostTypeProject, nil)
	pinned := testutil.CreatePost(t, db, author, models.PostTypeInquiry, nil)
	regular := testutil.CreatePost(t, db, author, models.PostTypeFundraiser, nil)
	hidden := testutil.CreatePost(t, db, author, models.PostTypeSurveyOpen, nil)

	for _, p := range []*models.Post{project, pinned, regular, hidden} {
		require.NoError(t, svc.AddPost(ctx, author.ID, thread.ID, p.ID))
	}
	require.NoError(t, svc.PinPost(ctx, author.ID, thread.ID, pinned.ID))
	require.NoError(t, db.Model(&models.Post{}).
		Where("id = ?", hidden.ID).
		Update("visibility", models.VisibilityHidden).Error)

	got, err := svc.Get(ctx, thread.ID)
	require.NoError(t, err)

	require.NotNil(t, got.ProjectPost)
	assert.Equal(t, project.ID, got.ProjectPost.ID)
	require.Len(t, got.PinnedPosts, 1)
	assert.Equal(t, pinned.ID, got.PinnedPosts[0].ID)
	require.Len(t, got.Posts, 1)
	assert.Equal(t, regular.ID, got.Posts[0].ID, "hidden members are filtered out")
}

func TestThreadDeleteDetachesMembers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := testutil.OpenTestDB(t)
	svc := newThreadService(db)

	author := testutil.CreateUser(t, db, "owner", models.RoleCreator)
	stranger := testutil.CreateUser(t, db, "stranger", models.RoleCreator)
	thread := testutil.CreateThread(t, db, author, "Doomed")

	member := testutil.CreatePost(t, db, author, models.PostTypeFundraiser, nil)
	require.NoError(t, svc.AddPost(ctx, author.ID, thread.ID, member.ID))
	require.NoError(t, svc.PinPost(ctx, author.ID, thread.ID, member.ID))

	err := svc.Delete(ctx, stranger.ID, thread.ID)
	assert.True(t, models.IsCode(err, "FORBIDDEN"))

	require.NoError(t, svc.Delete(ctx, author.ID, thread.ID))

	var stored models.Post
	require.NoError(t, db.First(&stored, member.ID).Error)
	assert.Nil(t, stored.ThreadID, "member must be detached")
	assert.False(t, stored.Pinned)

	_, err = svc.Get(ctx, thread.ID)
	assert.True(t, models.IsCode(err, "NOT_FOUND"))
}
