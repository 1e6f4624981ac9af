package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ideahub/internal/models"
	"ideahub/internal/observability"
	"ideahub/internal/repository"
	"ideahub/internal/validation"

	"gorm.io/gorm"
)

// CreatePostInput carries the fields accepted at post creation. Only the
// payload fields matching Type are consulted; the rest are ignored.
type CreatePostInput struct {
	Type        models.PostType
	Title       string
	Description string
	Language    string
	CategoryIDs []uint

	AllowMultipleAnswers bool
	Options              []string

	TargetAmount float64

	ProfessionalRole string
	Location         string
}

// UpdatePostInput is a partial update; nil fields are left untouched.
type UpdatePostInput struct {
	Title       *string
	Description *string
	Language    *string
	CategoryIDs *[]uint

	AllowMultipleAnswers *bool
	Options              *[]string

	ProfessionalRole *string
	Location         *string
}

// ListPostsOptions narrows the public post listing.
type ListPostsOptions struct {
	Types           []models.PostType
	Language        string
	AuthorProfileID uint
	CategoryIDs     []uint
	Featured        *bool
	Limit           int
	Offset          int
}

// PostService handles post creation, mutation and listing uniformly across
// every content variant. Variant-specific rules live in a per-type
// validation table rather than separate services.
type PostService interface {
	Create(ctx context.Context, actorUserID uint, input CreatePostInput) (*models.Post, error)
	Get(ctx context.Context, id uint, viewer *Viewer) (*models.Post, error)
	List(ctx context.Context, opts ListPostsOptions) ([]*models.Post, int64, error)
	Update(ctx context.Context, actorUserID, postID uint, input UpdatePostInput) (*models.Post, error)
	Delete(ctx context.Context, actorUserID, postID uint) error
	SetRaisedAmount(ctx context.Context, actorUserID, postID uint, amount float64) (*models.Post, error)
	SetFeatured(ctx context.Context, viewer *Viewer, postID uint, featured bool) error
	SetFeaturedImage(ctx context.Context, actorUserID, postID uint, url, publicID, alt string) error
	AddAttachment(ctx context.Context, actorUserID, postID uint, url, publicID, alt string) (*models.Attachment, error)
	RemoveAttachment(ctx context.Context, actorUserID, postID, attachmentID uint) error
}

type postService struct {
	posts      repository.PostRepository
	users      repository.UserRepository
	categories repository.CategoryRepository
}

// NewPostService creates a new post service
func NewPostService(
	posts repository.PostRepository,
	users repository.UserRepository,
	categories repository.CategoryRepository,
) PostService {
	return &postService{posts: posts, users: users, categories: categories}
}

// typeValidators holds the variant-specific creation rules, keyed by the
// type discriminant.
var typeValidators = map[models.PostType]func(*CreatePostInput) error{
	models.PostTypeProject: func(in *CreatePostInput) error {
		return nil
	},
	models.PostTypeSurveyOpen: func(in *CreatePostInput) error {
		if len(in.Options) > 0 {
			return models.NewValidationError("an open-ended survey cannot declare options")
		}
		return nil
	},
	models.PostTypeSurveyChoice: func(in *CreatePostInput) error {
		return validateChoiceOptions(in.Options)
	},
	models.PostTypeFundraiser: func(in *CreatePostInput) error {
		if in.TargetAmount <= 0 {
			return models.NewValidationError("target amount must be positive")
		}
		return nil
	},
	models.PostTypeInquiry: func(in *CreatePostInput) error {
		if strings.TrimSpace(in.ProfessionalRole) == "" {
			return models.NewValidationError("professional role is required")
		}
		return nil
	},
}

func validateChoiceOptions(options []string) error {
	if len(options) < 2 {
		return models.NewValidationError("a choice survey requires at least two options")
	}
	seen := make(map[string]struct{}, len(options))
	for _, o := range options {
		if strings.TrimSpace(o) == "" {
			return models.NewValidationError("survey options cannot be blank")
		}
		if _, dup := seen[o]; dup {
			return models.NewValidationError(fmt.Sprintf("duplicate survey option %q", o))
		}
		seen[o] = struct{}{}
	}
	return nil
}

func (s *postService) Create(ctx context.Context, actorUserID uint, input CreatePostInput) (*models.Post, error) {
	if !input.Type.Valid() {
		return nil, models.NewValidationError(fmt.Sprintf("unknown post type %q", input.Type))
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, models.NewValidationError("title is required")
	}
	validate := typeValidators[input.Type]
	if err := validate(&input); err != nil {
		return nil, err
	}

	author, err := s.users.GetByID(ctx, actorUserID)
	if err != nil {
		return nil, notFoundOrInternal(err, "User", actorUserID)
	}
	if author.Status != models.UserStatusActive {
		return nil, models.NewForbiddenError("account is not in good standing")
	}
	if author.Profile == nil {
		return nil, models.NewInternalError(fmt.Errorf("user %d has no profile", actorUserID))
	}

	language := author.PreferredLanguage
	if input.Language != "" {
		normalized, err := validation.NormalizeLanguageCode(input.Language)
		if err != nil {
			return nil, models.NewValidationError(fmt.Sprintf("unsupported language code %q", input.Language))
		}
		language = normalized
	}

	categories, err := resolveCategorySet(ctx, s.categories, input.CategoryIDs)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Type:            input.Type,
		Title:           input.Title,
		Description:     input.Description,
		Language:        language,
		AuthorProfileID: author.Profile.ID,
		Visibility:      models.VisibilityActive,
		Categories:      categories,
	}
	switch input.Type {
	case models.PostTypeSurveyOpen:
		// Nothing beyond the envelope.
	case models.PostTypeSurveyChoice:
		post.AllowMultipleAnswers = input.AllowMultipleAnswers
		post.Options = input.Options
	case models.PostTypeFundraiser:
		post.TargetAmount = input.TargetAmount
		post.ProgressStatus = models.ProgressTodo
	case models.PostTypeInquiry:
		post.ProfessionalRole = input.ProfessionalRole
		post.Location = input.Location
		post.ProgressStatus = models.ProgressTodo
	case models.PostTypeProject:
		post.ProgressStatus = models.ProgressTodo
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, models.NewInternalError(err)
	}
	post.AuthorProfile = author.Profile
	observability.PostsCreated.WithLabelValues(string(input.Type)).Inc()
	return post, nil
}

// Get applies visibility rules: DELETED posts are gone for everyone, HIDDEN
// posts only resolve for their author and for admins.
func (s *postService) Get(ctx context.Context, id uint, viewer *Viewer) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err, "Post", id)
	}
	switch post.Visibility {
	case models.VisibilityDeleted:
		return nil, models.NewNotFoundError("Post", id)
	case models.VisibilityHidden:
		if viewer == nil || (!viewer.Admin && !post.IsAuthoredBy(viewer.UserID)) {
			return nil, models.NewNotFoundError("Post", id)
		}
	}
	return post, nil
}

func (s *postService) List(ctx context.Context, opts ListPostsOptions) ([]*models.Post, int64, error) {
	for _, t := range opts.Types {
		if !t.Valid() {
			return nil, 0, models.NewValidationError(fmt.Sprintf("unknown post type %q", t))
		}
	}
	posts, total, err := s.posts.List(ctx, repository.PostFilter{
		Types:           opts.Types,
		Language:        opts.Language,
		AuthorProfileID: opts.AuthorProfileID,
		CategoryIDs:     opts.CategoryIDs,
		Featured:        opts.Featured,
		Limit:           opts.Limit,
		Offset:          opts.Offset,
	})
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return posts, total, nil
}

// getOwned loads a live post and enforces the ownership predicate shared by
// every author-side mutation.
func (s *postService) getOwned(ctx context.Context, actorUserID, postID uint) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, notFoundOrInternal(err, "Post", postID)
	}
	if post.Visibility == models.VisibilityDeleted {
		return nil, models.NewNotFoundError("Post", postID)
	}
	if !post.IsAuthoredBy(actorUserID) {
		return nil, models.NewForbiddenError("only the author can modify this post")
	}
	return post, nil
}

func (s *postService) Update(ctx context.Context, actorUserID, postID uint, input UpdatePostInput) (*models.Post, error) {
	post, err := s.getOwned(ctx, actorUserID, postID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, models.NewValidationError("title is required")
		}
		post.Title = *input.Title
	}
	if input.Description != nil {
		post.Description = *input.Description
	}
	if input.Language != nil {
		normalized, err := validation.NormalizeLanguageCode(*input.Language)
		if err != nil {
			return nil, models.NewValidationError(fmt.Sprintf("unsupported language code %q", *input.Language))
		}
		post.Language = normalized
	}
	if input.Options != nil {
		if post.Type != models.PostTypeSurveyChoice {
			return nil, models.NewValidationError("options apply only to choice surveys")
		}
		if err := validateChoiceOptions(*input.Options); err != nil {
			return nil, err
		}
		post.Options = *input.Options
	}
	if input.AllowMultipleAnswers != nil {
		if post.Type != models.PostTypeSurveyChoice {
			return nil, models.NewValidationError("allow_multiple_answers applies only to choice surveys")
		}
		post.AllowMultipleAnswers = *input.AllowMultipleAnswers
	}
	if input.ProfessionalRole != nil {
		if post.Type != models.PostTypeInquiry {
			return nil, models.NewValidationError("professional_role applies only to inquiries")
		}
		if strings.TrimSpace(*input.ProfessionalRole) == "" {
			return nil, models.NewValidationError("professional role is required")
		}
		post.ProfessionalRole = *input.ProfessionalRole
	}
	if input.Location != nil {
		if post.Type != models.PostTypeInquiry {
			return nil, models.NewValidationError("location applies only to inquiries")
		}
		post.Location = *input.Location
	}

	// Category sets are replaced wholesale when supplied. Resolution happens
	// before anything is written so an unknown id leaves the post untouched;
	// the field save and the replacement then commit as one transaction.
	var replacement *[]models.Category
	if input.CategoryIDs != nil {
		categories, err := resolveCategorySet(ctx, s.categories, *input.CategoryIDs)
		if err != nil {
			return nil, err
		}
		replacement = &categories
	}

	if err := s.posts.SaveWithCategories(ctx, post, replacement); err != nil {
		return nil, models.NewInternalError(err)
	}
	if replacement != nil {
		post.Categories = *replacement
	}
	return post, nil
}

// Delete is the author-side hard removal, distinct from the moderation
// DELETED visibility which keeps the record.
func (s *postService) Delete(ctx context.Context, actorUserID, postID uint) error {
	post, err := s.getOwned(ctx, actorUserID, postID)
	if err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, post.ID); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// SetRaisedAmount stores a fundraiser's progress. The amount is clamped by
// validation, never silently: out-of-range values are rejected and the
// stored amount is left unchanged.
func (s *postService) SetRaisedAmount(ctx context.Context, actorUserID, postID uint, amount float64) (*models.Post, error) {
	post, err := s.getOwned(ctx, actorUserID, postID)
	if err != nil {
		return nil, err
	}
	if post.Type != models.PostTypeFundraiser {
		return nil, models.NewValidationError("raised amount applies only to fundraisers")
	}
	if amount < 0 {
		return nil, models.NewValidationError("raised amount cannot be negative")
	}
	if amount > post.TargetAmount {
		return nil, models.NewValidationError("raised amount cannot exceed the target amount")
	}
	post.RaisedAmount = amount
	if err := s.posts.Save(ctx, post); err != nil {
		return nil, models.NewInternalError(err)
	}
	return post, nil
}

func (s *postService) SetFeatured(ctx context.Context, viewer *Viewer, postID uint, featured bool) error {
	if viewer == nil || !viewer.Admin {
		return models.NewForbiddenError("featuring posts requires the admin authority")
	}
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return notFoundOrInternal(err, "Post", postID)
	}
	if post.Visibility != models.VisibilityActive {
		return models.NewValidationError("only active posts can be featured")
	}
	post.Featured = featured
	if err := s.posts.Save(ctx, post); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (s *postService) SetFeaturedImage(ctx context.Context, actorUserID, postID uint, url, publicID, alt string) error {
	post, err := s.getOwned(ctx, actorUserID, postID)
	if err != nil {
		return err
	}
	post.FeaturedImageURL = url
	post.FeaturedImagePublicID = publicID
	post.FeaturedImageAlt = alt
	if err := s.posts.Save(ctx, post); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (s *postService) AddAttachment(ctx context.Context, actorUserID, postID uint, url, publicID, alt string) (*models.Attachment, error) {
	if strings.TrimSpace(url) == "" {
		return nil, models.NewValidationError("attachment url is required")
	}
	post, err := s.getOwned(ctx, actorUserID, postID)
	if err != nil {
		return nil, err
	}
	attachment := &models.Attachment{
		PostID:   post.ID,
		URL:      url,
		PublicID: publicID,
		AltText:  alt,
	}
	if err := s.posts.AddAttachment(ctx, attachment); err != nil {
		return nil, models.NewInternalError(err)
	}
	return attachment, nil
}

func (s *postService) RemoveAttachment(ctx context.Context, actorUserID, postID, attachmentID uint) error {
	if _, err := s.getOwned(ctx, actorUserID, postID); err != nil {
		return err
	}
	if err := s.posts.DeleteAttachment(ctx, postID, attachmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Attachment", attachmentID)
		}
		return models.NewInternalError(err)
	}
	return nil
}
