package repository

import (
	"context"
	"testing"

	"ideahub/internal/models"
	"ideahub/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseUniquenessIndex(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := testutil.OpenTestDB(t)
	repo := NewResponseRepository(db)

	author := testutil.CreateUser(t, db, "indexauthor", models.RoleCreator)
	respondent := testutil.CreateUser(t, db, "indexresp", models.RoleCreator)
	survey := testutil.CreatePost(t, db, author, models.PostTypeSurveyOpen, nil)

	first := &models.SurveyResponse{
		PostID:      survey.ID,
		ResponderID: respondent.Profile.ID,
		Text:        "first",
	}
	require.NoError(t, repo.Create(ctx, first))

	// The composite index, not application logic, is the last line of
	// defense against racing submissions.
	dup := &models.SurveyResponse{
		PostID:      survey.ID,
		ResponderID: respondent.Profile.ID,
		Text:        "second",
	}
	err := repo.Create(ctx, dup)
	require.Error(t, err)
	assert.True(t, IsDuplicateKey(err))

	t.Run("same responder on another survey is fine", func(t *testing.T) {
		other := testutil.CreatePost(t, db, author, models.PostTypeSurveyOpen, nil)
		err := repo.Create(ctx, &models.SurveyResponse{
			PostID:      other.ID,
			ResponderID: respondent.Profile.ID,
			Text:        "different survey",
		})
		assert.NoError(t, err)
	})

	t.Run("delete frees the slot", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, first.ID))
		err := repo.Create(ctx, &models.SurveyResponse{
			PostID:      survey.ID,
			ResponderID: respondent.Profile.ID,
			Text:        "retry",
		})
		assert.NoError(t, err)
	})
}

func TestResponseListBySurvey(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := testutil.OpenTestDB(t)
	repo := NewResponseRepository(db)

	author := testutil.CreateUser(t, db, "listauthor", models.RoleCreator)
	survey := testutil.CreatePost(t, db, author, models.PostTypeSurveyOpen, nil)

	for i := 0; i < 3; i++ {
		respondent := testutil.CreateUser(t, db, "lister"+string(rune('a'+i)), models.RoleCreator)
		require.NoError(t, repo.Create(ctx, &models.SurveyResponse{
			PostID:      survey.ID,
			ResponderID: respondent.Profile.ID,
			Text:        "answer",
		}))
	}

	responses, total, err := repo.ListBySurvey(ctx, survey.ID, 2, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, responses, 2)
	for _, r := range responses {
		assert.NotNil(t, r.Responder, "responder profile is preloaded")
	}

	rest, _, err := repo.ListBySurvey(ctx, survey.ID, 2, 2)
	require.NoError(t, err)
	assert.Len(t, rest, 1)
}
