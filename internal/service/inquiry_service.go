package service

import (
	"context"
	"strings"

	"ideahub/internal/models"
	"ideahub/internal/observability"
	"ideahub/internal/repository"
)

// InquiryService accepts applications to inquiry posts under the
// one-application-per-applicant and no-self-application rules.
type InquiryService interface {
	Apply(ctx context.Context, actorUserID, inquiryID uint, message string) (*models.InquiryApplication, error)
	ListApplications(ctx context.Context, actorUserID, inquiryID uint, limit, offset int) ([]*models.InquiryApplication, int64, error)
}

type inquiryService struct {
	posts        repository.PostRepository
	applications repository.ApplicationRepository
	profiles     repository.ProfileRepository
}

// NewInquiryService creates a new inquiry service
func NewInquiryService(
	posts repository.PostRepository,
	applications repository.ApplicationRepository,
	profiles repository.ProfileRepository,
) InquiryService {
	return &inquiryService{posts: posts, applications: applications, profiles: profiles}
}

func (s *inquiryService) getInquiry(ctx context.Context, inquiryID uint) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, inquiryID)
	if err != nil {
		return nil, notFoundOrInternal(err, "Inquiry", inquiryID)
	}
	if post.Visibility != models.VisibilityActive {
		return nil, models.NewNotFoundError("Inquiry", inquiryID)
	}
	if post.Type != models.PostTypeInquiry {
		return nil, models.NewValidationError("post is not an inquiry")
	}
	return post, nil
}

func (s *inquiryService) Apply(ctx context.Context, actorUserID, inquiryID uint, message string) (*models.InquiryApplication, error) {
	if strings.TrimSpace(message) == "" {
		return nil, models.NewValidationError("application message cannot be blank")
	}
	inquiry, err := s.getInquiry(ctx, inquiryID)
	if err != nil {
		return nil, err
	}
	applicant, err := s.profiles.GetByUserID(ctx, actorUserID)
	if err != nil {
		return nil, notFoundOrInternal(err, "User", actorUserID)
	}
	if inquiry.AuthorProfileID == applicant.ID {
		return nil, models.NewValidationError("authors cannot apply to their own inquiry")
	}

	exists, err := s.applications.ExistsByInquiryAndApplicant(ctx, inquiry.ID, applicant.ID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if exists {
		return nil, models.NewValidationError("an application to this inquiry already exists")
	}

	application := &models.InquiryApplication{
		PostID:             inquiry.ID,
		ApplicantProfileID: applicant.ID,
		Message:            message,
	}
	if err := s.applications.Create(ctx, application); err != nil {
		if repository.IsDuplicateKey(err) {
			observability.UniquenessConflicts.WithLabelValues("inquiry_application").Inc()
			return nil, models.NewConflictError("an application to this inquiry already exists")
		}
		return nil, models.NewInternalError(err)
	}
	application.ApplicantProfile = applicant
	return application, nil
}

// ListApplications is restricted to the inquiry's author.
func (s *inquiryService) ListApplications(ctx context.Context, actorUserID, inquiryID uint, limit, offset int) ([]*models.InquiryApplication, int64, error) {
	inquiry, err := s.getInquiry(ctx, inquiryID)
	if err != nil {
		return nil, 0, err
	}
	if !inquiry.IsAuthoredBy(actorUserID) {
		return nil, 0, models.NewForbiddenError("only the author can list applications")
	}
	applications, total, err := s.applications.ListByInquiry(ctx, inquiry.ID, limit, offset)
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return applications, total, nil
}
