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

func newSurveyService(db *gorm.DB) SurveyService {
	return NewSurveyService(
		repository.NewPostRepository(db),
		repository.NewResponseRepository(db),
		repository.NewProfileRepository(db),
	)
}

func TestSubmitResponseOpenEnded(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := testutil.OpenTestDB(t)
	svc := newSurveyService(db)

	author := testutil.CreateUser(t, db, "asker", models.RoleCreator)
	respondent := testutil.CreateUser(t, db, "answerer", models.RoleProfessional)
	survey := testutil.CreatePost(t, db, author, models.PostTypeSurveyOpen, nil)

	t.Run("blank text rejected", func(t *testing.T) {
		_, err := svc.SubmitResponse(ctx, respondent.ID, survey.ID, SubmitResponseInput{Text: "   "})
		assert.True(t, models.IsCode(err, "VALIDATION_ERROR"))
	})

	t.Run("options rejected on open survey", func(t *testing.T) {
		_, err := svc.SubmitResponse(ctx, respondent.ID, survey.ID, SubmitResponseInput{
			Text:            "fine",
			SelectedOptions: []string{"A"},
		})
		assert.True(t, models.IsCode(err, "VALIDATION_ERROR"))
	})

	t.Run("author cannot respond", func(t *testing.T) {
		_, err := svc.SubmitResponse(ctx, author.ID, survey.ID, SubmitResponseInput{Text: "mine"})
		assert.True(t, models.IsCode(err, "VALIDATION_ERROR"))
	})

	response, err := svc.SubmitResponse(ctx, respondent.ID, survey.ID, SubmitResponseInput{Text: "I would use this"})
	require.NoError(t, err)
	assert.Equal(t, respondent.Profile.ID, response.ResponderID)

	t.Run("second response rejected", func(t *testing.T) {
		_, err := svc.SubmitResponse(ctx, respondent.ID, survey.ID, SubmitResponseInput{Text: "again"})
		require.Error(t, err)
	})
}

func TestSubmitResponseChoice(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := testutil.OpenTestDB(t)
	svc := newSurveyService(db)

	author := testutil.CreateUser(t, db, "pollster", models.RoleCreator)
	single := testutil.CreateUser(t, db, "single", models.RoleCreator)
	multi := testutil.CreateUser(t, db, "multi", models.RoleCreator)

	survey := testutil.CreatePost(t, db, author, models.PostTypeSurveyChoice, func(p *models.Post) {
		p.Options = []string{"A", "B", "C"}
	})
	multiSurvey := testutil.CreatePost(t, db, author, models.PostTypeSurveyChoice, func(p *models.Post) {
		p.Options = []string{"A", "B", "C"}
		p.AllowMultipleAnswers = true
	})

	t.Run("empty selection rejected", func(t *testing.T) {
		_, err := svc.SubmitResponse(ctx, single.ID, survey.ID, SubmitResponseInput{})
		assert.True(t, models.IsCode(err, "VALIDATION_ERROR"))
	})

	t.Run("undeclared option rejected", func(t *testing.T) {
		_, err := svc.SubmitResponse(ctx, single.ID, survey.ID, SubmitResponseInput{SelectedOptions: []string{"Z"}})
		assert.True(t, models.IsCode(err, "VALIDATION_ERROR"))
	})

	t.Run("multiple answers rejected on single survey", func(t *testing.T) {
		_, err := svc.SubmitResponse(ctx, single.ID, survey.ID, SubmitResponseInput{SelectedOptions: []string{"A", "B"}})
		assert.True(t, models.IsCode(err, "VALIDATION_ERROR"))
	})

	t.Run("duplicate selection rejected", func(t *testing.T) {
		_, err := svc.SubmitResponse(ctx, multi.ID, multiSurvey.ID, SubmitResponseInput{SelectedOptions: []string{"A", "A"}})
		assert.True(t, models.IsCode(err, "VALIDATION_ERROR"))
	})

	_, err := svc.SubmitResponse(ctx, single.ID, survey.ID, SubmitResponseInput{SelectedOptions: []string{"B"}})
	require.NoError(t, err)

	_, err = svc.SubmitResponse(ctx, multi.ID, multiSurvey.ID, SubmitResponseInput{SelectedOptions: []string{"A", "C"}})
	require.NoError(t, err)
}

func TestGetStatisticsIncludesZeroCounts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := testutil.OpenTestDB(t)
	svc := newSurveyService(db)

	author := testutil.CreateUser(t, db, "counter", models.RoleCreator)
	survey := testutil.CreatePost(t, db, author, models.PostTypeSurveyChoice, func(p *models.Post) {
		p.Options = []string{"A", "B", "C"}
	})

	for i, pick := range []string{"A", "A", "B"} {
		responder := testutil.CreateUser(t, db, "resp"+string(rune('0'+i)), models.RoleCreator)
		_, err := svc.SubmitResponse(ctx, responder.ID, survey.ID, SubmitResponseInput{SelectedOptions: []string{pick}})
		require.NoError(t, err)
	}

	stats, err := svc.GetStatistics(ctx, survey.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"A": 2, "B": 1, "C": 0}, stats)

	t.Run("open survey has no statistics", func(t *testing.T) {
		open := testutil.CreatePost(t, db, author, models.PostTypeSurveyOpen, nil)
		_, err := svc.GetStatistics(ctx, open.ID)
		assert.True(t, models.IsCode(err, "VALIDATION_ERROR"))
	})
}

func TestListResponsesAuthorOnly(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := testutil.OpenTestDB(t)
	svc := newSurveyService(db)

	author := testutil.CreateUser(t, db, "surveyowner", models.RoleCreator)
	respondent := testutil.CreateUser(t, db, "participant", models.RoleCreator)
	survey := testutil.CreatePost(t, db, author, models.PostTypeSurveyOpen, nil)

	_, err := svc.SubmitResponse(ctx, respondent.ID, survey.ID, SubmitResponseInput{Text: "hello"})
	require.NoError(t, err)

	responses, total, err := svc.ListResponses(ctx, author.ID, survey.ID, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, responses, 1)

	_, _, err = svc.ListResponses(ctx, respondent.ID, survey.ID, 10, 0)
	assert.True(t, models.IsCode(err, "FORBIDDEN"))
}

func TestDeleteResponse(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := testutil.OpenTestDB(t)
	svc := newSurveyService(db)

	author := testutil.CreateUser(t, db, "deleter", models.RoleCreator)
	respondent := testutil.CreateUser(t, db, "regretter", models.RoleCreator)
	outsider := testutil.CreateUser(t, db, "outsider", models.RoleCreator)
	survey := testutil.CreatePost(t, db, author, models.PostTypeSurveyOpen, nil)

	response, err := svc.SubmitResponse(ctx, respondent.ID, survey.ID, SubmitResponseInput{Text: "oops"})
	require.NoError(t, err)

	t.Run("outsider forbidden", func(t *testing.T) {
		err := svc.DeleteResponse(ctx, outsider.ID, response.ID)
		assert.True(t, models.IsCode(err, "FORBIDDEN"))
	})

	t.Run("respondent can delete and respond again", func(t *testing.T) {
		require.NoError(t, svc.DeleteResponse(ctx, respondent.ID, response.ID))
		_, err := svc.SubmitResponse(ctx, respondent.ID, survey.ID, SubmitResponseInput{Text: "second try"})
		assert.NoError(t, err)
	})

	t.Run("author can delete any response", func(t *testing.T) {
		var stored models.SurveyResponse
		require.NoError(t, db.Where("post_id = ?", survey.ID).First(&stored).Error)
		assert.NoError(t, svc.DeleteResponse(ctx, author.ID, stored.ID))
	})
}
