package service

import (
	"context"
	"fmt"
	"strings"

	"ideahub/internal/models"
	"ideahub/internal/observability"
	"ideahub/internal/repository"
)

// SubmitResponseInput carries one participant's answer. Text is used by
// open-ended surveys, SelectedOptions by choice surveys.
type SubmitResponseInput struct {
	Text            string
	SelectedOptions []string
}

// SurveyService accepts responses under uniqueness and self-response
// constraints and aggregates choice statistics. Dispatch between the two
// survey kinds is an explicit check of the type discriminant.
type SurveyService interface {
	SubmitResponse(ctx context.Context, actorUserID, surveyID uint, input SubmitResponseInput) (*models.SurveyResponse, error)
	ListResponses(ctx context.Context, actorUserID, surveyID uint, limit, offset int) ([]*models.SurveyResponse, int64, error)
	GetStatistics(ctx context.Context, surveyID uint) (map[string]int, error)
	DeleteResponse(ctx context.Context, actorUserID, responseID uint) error
}

type surveyService struct {
	posts     repository.PostRepository
	responses repository.ResponseRepository
	profiles  repository.ProfileRepository
}

// NewSurveyService creates a new survey service
func NewSurveyService(
	posts repository.PostRepository,
	responses repository.ResponseRepository,
	profiles repository.ProfileRepository,
) SurveyService {
	return &surveyService{posts: posts, responses: responses, profiles: profiles}
}

// getSurvey loads a live post and rejects non-survey types.
func (s *surveyService) getSurvey(ctx context.Context, surveyID uint) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, surveyID)
	if err != nil {
		return nil, notFoundOrInternal(err, "Survey", surveyID)
	}
	if post.Visibility != models.VisibilityActive {
		return nil, models.NewNotFoundError("Survey", surveyID)
	}
	if !post.Type.IsSurvey() {
		return nil, models.NewValidationError("post is not a survey")
	}
	return post, nil
}

func (s *surveyService) SubmitResponse(ctx context.Context, actorUserID, surveyID uint, input SubmitResponseInput) (*models.SurveyResponse, error) {
	survey, err := s.getSurvey(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	respondent, err := s.profiles.GetByUserID(ctx, actorUserID)
	if err != nil {
		return nil, notFoundOrInternal(err, "User", actorUserID)
	}
	if survey.AuthorProfileID == respondent.ID {
		return nil, models.NewValidationError("authors cannot respond to their own survey")
	}

	exists, err := s.responses.ExistsBySurveyAndResponder(ctx, survey.ID, respondent.ID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if exists {
		return nil, models.NewValidationError("a response to this survey already exists")
	}

	response := &models.SurveyResponse{
		PostID:      survey.ID,
		ResponderID: respondent.ID,
	}
	switch survey.Type {
	case models.PostTypeSurveyOpen:
		if strings.TrimSpace(input.Text) == "" {
			return nil, models.NewValidationError("response text cannot be blank")
		}
		if len(input.SelectedOptions) > 0 {
			return nil, models.NewValidationError("an open-ended survey takes free text, not options")
		}
		response.Text = input.Text
	case models.PostTypeSurveyChoice:
		if err := validateSelection(survey, input.SelectedOptions); err != nil {
			return nil, err
		}
		response.SelectedOptions = input.SelectedOptions
	}

	// The pre-check above can race with a concurrent submission; the
	// composite unique index is the arbiter and the loser gets a conflict.
	if err := s.responses.Create(ctx, response); err != nil {
		if repository.IsDuplicateKey(err) {
			observability.UniquenessConflicts.WithLabelValues("survey_response").Inc()
			return nil, models.NewConflictError("a response to this survey already exists")
		}
		return nil, models.NewInternalError(err)
	}
	response.Responder = respondent
	observability.SurveyResponsesSubmitted.WithLabelValues(string(survey.Type)).Inc()
	return response, nil
}

func validateSelection(survey *models.Post, selected []string) error {
	if len(selected) == 0 {
		return models.NewValidationError("at least one option must be selected")
	}
	if !survey.AllowMultipleAnswers && len(selected) > 1 {
		return models.NewValidationError("this survey accepts a single answer")
	}
	seen := make(map[string]struct{}, len(selected))
	for _, option := range selected {
		if !survey.HasOption(option) {
			return models.NewValidationError(fmt.Sprintf("option %q is not part of this survey", option))
		}
		if _, dup := seen[option]; dup {
			return models.NewValidationError(fmt.Sprintf("option %q selected more than once", option))
		}
		seen[option] = struct{}{}
	}
	return nil
}

// ListResponses returns the raw responses and is restricted to the survey's
// author; everyone else gets the aggregate statistics instead.
func (s *surveyService) ListResponses(ctx context.Context, actorUserID, surveyID uint, limit, offset int) ([]*models.SurveyResponse, int64, error) {
	survey, err := s.getSurvey(ctx, surveyID)
	if err != nil {
		return nil, 0, err
	}
	if !survey.IsAuthoredBy(actorUserID) {
		return nil, 0, models.NewForbiddenError("only the author can list raw responses")
	}
	responses, total, err := s.responses.ListBySurvey(ctx, survey.ID, limit, offset)
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return responses, total, nil
}

// GetStatistics maps every declared option to its selection count. The map
// is initialized from the full option list so options nobody selected still
// appear with a zero count.
func (s *surveyService) GetStatistics(ctx context.Context, surveyID uint) (map[string]int, error) {
	survey, err := s.getSurvey(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	if survey.Type != models.PostTypeSurveyChoice {
		return nil, models.NewValidationError("statistics apply only to choice surveys")
	}

	stats := make(map[string]int, len(survey.Options))
	for _, option := range survey.Options {
		stats[option] = 0
	}
	responses, err := s.responses.AllBySurvey(ctx, survey.ID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	for _, response := range responses {
		for _, option := range response.SelectedOptions {
			if _, declared := stats[option]; declared {
				stats[option]++
			}
		}
	}
	return stats, nil
}

// DeleteResponse is allowed for the respondent and for the survey's author,
// who may remove abusive responses from their own survey.
func (s *surveyService) DeleteResponse(ctx context.Context, actorUserID, responseID uint) error {
	response, err := s.responses.GetByID(ctx, responseID)
	if err != nil {
		return notFoundOrInternal(err, "Response", responseID)
	}
	survey, err := s.posts.GetByID(ctx, response.PostID)
	if err != nil {
		return notFoundOrInternal(err, "Survey", response.PostID)
	}
	isRespondent := response.Responder != nil && response.Responder.UserID == actorUserID
	if !isRespondent && !survey.IsAuthoredBy(actorUserID) {
		return models.NewForbiddenError("only the respondent or the survey author can delete a response")
	}
	if err := s.responses.Delete(ctx, responseID); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
