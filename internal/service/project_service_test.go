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

func newProjectService(db *gorm.DB) ProjectService {
	return NewProjectService(
		db,
		repository.NewPostRepository(db),
		repository.NewProfileRepository(db),
	)
}

func TestRoadmapSteps(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := testutil.OpenTestDB(t)
	svc := newProjectService(db)

	author := testutil.CreateUser(t, db, "roadmapper", models.RoleCreator)
	other := testutil.CreateUser(t, db, "onlooker", models.RoleCreator)
	project := testutil.CreatePost(t, db, author, models.PostTypeProject, nil)
	fundraiser := testutil.CreatePost(t, db, author, models.PostTypeFundraiser, nil)

	t.Run("title required", func(t *testing.T) {
		_, err := svc.AddStep(ctx, author.ID, project.ID, RoadmapStepInput{Title: " "})
		assert.True(t, models.IsCode(err, "VALIDATION_ERROR"))
	})

	t.Run("steps only on projects", func(t *testing.T) {
		_, err := svc.AddStep(ctx, author.ID, fundraiser.ID, RoadmapStepInput{Title: "nope"})
		assert.True(t, models.IsCode(err, "VALIDATION_ERROR"))
	})

	t.Run("only the author adds steps", func(t *testing.T) {
		_, err := svc.AddStep(ctx, other.ID, project.ID, RoadmapStepInput{Title: "intrusion"})
		assert.True(t, models.IsCode(err, "FORBIDDEN"))
	})

	step, err := svc.AddStep(ctx, author.ID, project.ID, RoadmapStepInput{
		Title:      "Prototype",
		OrderIndex: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StepTodo, step.Status, "status defaults to TODO")

	t.Run("unknown status rejected", func(t *testing.T) {
		bad := models.StepStatus("LIMBO")
		_, err := svc.UpdateStep(ctx, author.ID, project.ID, step.ID, UpdateStepInput{Status: &bad})
		assert.True(t, models.IsCode(err, "VALIDATION_ERROR"))
	})

	t.Run("update and reorder", func(t *testing.T) {
		idx := 5
		completed := models.StepCompleted
		updated, err := svc.UpdateStep(ctx, author.ID, project.ID, step.ID, UpdateStepInput{
			Title:      strptr("Prototype v2"),
			OrderIndex: &idx,
			Status:     &completed,
		})
		require.NoError(t, err)
		assert.Equal(t, "Prototype v2", updated.Title)
		assert.Equal(t, 5, updated.OrderIndex)
		assert.Equal(t, models.StepCompleted, updated.Status)
	})

	t.Run("delete step", func(t *testing.T) {
		require.NoError(t, svc.DeleteStep(ctx, author.ID, project.ID, step.ID))
		err := svc.DeleteStep(ctx, author.ID, project.ID, step.ID)
		assert.True(t, models.IsCode(err, "NOT_FOUND"))
	})
}

func TestLinkStep(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := testutil.OpenTestDB(t)
	svc := newProjectService(db)

	author := testutil.CreateUser(t, db, "linker", models.RoleCreator)
	project := testutil.CreatePost(t, db, author, models.PostTypeProject, nil)
	fundraiser := testutil.CreatePost(t, db, author, models.PostTypeFundraiser, nil)
	survey := testutil.CreatePost(t, db, author, models.PostTypeSurveyOpen, nil)

	inProgress := models.StepInProgress
	step, err := svc.AddStep(ctx, author.ID, project.ID, RoadmapStepInput{
		Title:  "Raise funds",
		Status: inProgress,
	})
	require.NoError(t, err)

	t.Run("only fundraisers and inquiries link", func(t *testing.T) {
		err := svc.LinkStep(ctx, author.ID, project.ID, step.ID, survey.ID)
		assert.True(t, models.IsCode(err, "VALIDATION_ERROR"))
	})

	t.Run("hidden posts cannot be linked", func(t *testing.T) {
		hidden := testutil.CreatePost(t, db, author, models.PostTypeFundraiser, func(p *models.Post) {
			p.Visibility = models.VisibilityHidden
		})
		err := svc.LinkStep(ctx, author.ID, project.ID, step.ID, hidden.ID)
		assert.True(t, models.IsCode(err, "VALIDATION_ERROR"))
	})

	t.Run("linking aligns the post's progress", func(t *testing.T) {
		require.NoError(t, svc.LinkStep(ctx, author.ID, project.ID, step.ID, fundraiser.ID))

		var linked models.Post
		require.NoError(t, db.First(&linked, fundraiser.ID).Error)
		assert.Equal(t, models.ProgressInProgress, linked.ProgressStatus)
	})

	t.Run("status changes propagate to the linked post", func(t *testing.T) {
		completed := models.StepCompleted
		_, err := svc.UpdateStep(ctx, author.ID, project.ID, step.ID, UpdateStepInput{Status: &completed})
		require.NoError(t, err)

		var linked models.Post
		require.NoError(t, db.First(&linked, fundraiser.ID).Error)
		assert.Equal(t, models.ProgressCompleted, linked.ProgressStatus)
	})

	t.Run("unlink stops propagation", func(t *testing.T) {
		require.NoError(t, svc.UnlinkStep(ctx, author.ID, project.ID, step.ID))

		todo := models.StepTodo
		_, err := svc.UpdateStep(ctx, author.ID, project.ID, step.ID, UpdateStepInput{Status: &todo})
		require.NoError(t, err)

		var linked models.Post
		require.NoError(t, db.First(&linked, fundraiser.ID).Error)
		assert.Equal(t, models.ProgressCompleted, linked.ProgressStatus, "post keeps its last mirrored status")

		err = svc.UnlinkStep(ctx, author.ID, project.ID, step.ID)
		assert.True(t, models.IsCode(err, "VALIDATION_ERROR"))
	})
}

func TestProjectParticipants(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := testutil.OpenTestDB(t)
	svc := newProjectService(db)

	author := testutil.CreateUser(t, db, "teamlead", models.RoleCreator)
	member := testutil.CreateUser(t, db, "teammate", models.RoleProfessional)
	project := testutil.CreatePost(t, db, author, models.PostTypeProject, nil)

	require.NoError(t, svc.AddParticipant(ctx, author.ID, project.ID, member.Profile.ID))

	t.Run("duplicate participant rejected", func(t *testing.T) {
		err := svc.AddParticipant(ctx, author.ID, project.ID, member.Profile.ID)
		assert.True(t, models.IsCode(err, "VALIDATION_ERROR"))
	})

	t.Run("unknown profile", func(t *testing.T) {
		err := svc.AddParticipant(ctx, author.ID, project.ID, 9999)
		assert.True(t, models.IsCode(err, "NOT_FOUND"))
	})

	t.Run("remove participant", func(t *testing.T) {
		require.NoError(t, svc.RemoveParticipant(ctx, author.ID, project.ID, member.Profile.ID))
		err := svc.RemoveParticipant(ctx, author.ID, project.ID, member.Profile.ID)
		assert.True(t, models.IsCode(err, "VALIDATION_ERROR"))
	})
}

func TestListProjectsByParticipant(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := testutil.OpenTestDB(t)
	svc := newProjectService(db)

	author := testutil.CreateUser(t, db, "founder", models.RoleCreator)
	member := testutil.CreateUser(t, db, "contributor", models.RoleProfessional)

	joined := testutil.CreatePost(t, db, author, models.PostTypeProject, nil)
	hidden := testutil.CreatePost(t, db, author, models.PostTypeProject, func(p *models.Post) {
		p.Visibility = models.VisibilityHidden
	})
	testutil.CreatePost(t, db, author, models.PostTypeProject, nil)

	require.NoError(t, svc.AddParticipant(ctx, author.ID, joined.ID, member.Profile.ID))
	require.NoError(t, db.Model(hidden).Association("Participants").Append(member.Profile))

	t.Run("only active joined projects", func(t *testing.T) {
		projects, total, err := svc.ListByParticipant(ctx, member.Profile.ID, 20, 0)
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, projects, 1)
		assert.Equal(t, joined.ID, projects[0].ID)
	})

	t.Run("unknown profile", func(t *testing.T) {
		_, _, err := svc.ListByParticipant(ctx, 9999, 20, 0)
		assert.True(t, models.IsCode(err, "NOT_FOUND"))
	})
}
