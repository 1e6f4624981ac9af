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

func newInquiryService(db *gorm.DB) InquiryService {
	return NewInquiryService(
		repository.NewPostRepository(db),
		repository.NewApplicationRepository(db),
		repository.NewProfileRepository(db),
	)
}

func TestApplyToInquiry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := testutil.OpenTestDB(t)
	svc := newInquiryService(db)

	author := testutil.CreateUser(t, db, "recruiter", models.RoleCreator)
	applicant := testutil.CreateUser(t, db, "candidate", models.RoleProfessional)
	inquiry := testutil.CreatePost(t, db, author, models.PostTypeInquiry, nil)

	t.Run("blank message rejected", func(t *testing.T) {
		_, err := svc.Apply(ctx, applicant.ID, inquiry.ID, "  ")
		assert.True(t, models.IsCode(err, "VALIDATION_ERROR"))
	})

	t.Run("inquiries only", func(t *testing.T) {
		project := testutil.CreatePost(t, db, author, models.PostTypeProject, nil)
		_, err := svc.Apply(ctx, applicant.ID, project.ID, "hi")
		assert.True(t, models.IsCode(err, "VALIDATION_ERROR"))
	})

	t.Run("hidden inquiry is invisible", func(t *testing.T) {
		hidden := testutil.CreatePost(t, db, author, models.PostTypeInquiry, func(p *models.Post) {
			p.Visibility = models.VisibilityHidden
		})
		_, err := svc.Apply(ctx, applicant.ID, hidden.ID, "hi")
		assert.True(t, models.IsCode(err, "NOT_FOUND"))
	})

	t.Run("authors cannot apply to themselves", func(t *testing.T) {
		_, err := svc.Apply(ctx, author.ID, inquiry.ID, "hire me")
		assert.True(t, models.IsCode(err, "VALIDATION_ERROR"))
	})

	application, err := svc.Apply(ctx, applicant.ID, inquiry.ID, "I fit the role")
	require.NoError(t, err)
	assert.Equal(t, inquiry.ID, application.PostID)
	assert.Equal(t, applicant.Profile.ID, application.ApplicantProfileID)

	t.Run("second application rejected", func(t *testing.T) {
		_, err := svc.Apply(ctx, applicant.ID, inquiry.ID, "me again")
		assert.True(t, models.IsCode(err, "VALIDATION_ERROR"))
	})
}

func TestListApplicationsAuthorOnly(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := testutil.OpenTestDB(t)
	svc := newInquiryService(db)

	author := testutil.CreateUser(t, db, "hiring", models.RoleCreator)
	first := testutil.CreateUser(t, db, "applicant1", models.RoleProfessional)
	second := testutil.CreateUser(t, db, "applicant2", models.RoleProfessional)
	inquiry := testutil.CreatePost(t, db, author, models.PostTypeInquiry, nil)

	_, err := svc.Apply(ctx, first.ID, inquiry.ID, "pick me")
	require.NoError(t, err)
	_, err = svc.Apply(ctx, second.ID, inquiry.ID, "no, me")
	require.NoError(t, err)

	applications, total, err := svc.ListApplications(ctx, author.ID, inquiry.ID, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, applications, 2)

	_, _, err = svc.ListApplications(ctx, first.ID, inquiry.ID, 10, 0)
	assert.True(t, models.IsCode(err, "FORBIDDEN"))
}
