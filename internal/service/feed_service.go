package service

import (
	"context"

	"ideahub/internal/models"
	"ideahub/internal/repository"
)

// FeedService selects candidate posts for a viewer. Dispatch is purely a
// function of the viewer's declared role; there is no ranking.
type FeedService interface {
	SuggestedPosts(ctx context.Context, actorUserID uint, limit, offset int) ([]*models.Post, int64, error)
}

type feedService struct {
	posts repository.PostRepository
	users repository.UserRepository
}

// NewFeedService creates a new feed service
func NewFeedService(posts repository.PostRepository, users repository.UserRepository) FeedService {
	return &feedService{posts: posts, users: users}
}

func (s *feedService) SuggestedPosts(ctx context.Context, actorUserID uint, limit, offset int) ([]*models.Post, int64, error) {
	viewer, err := s.users.GetByID(ctx, actorUserID)
	if err != nil {
		return nil, 0, notFoundOrInternal(err, "User", actorUserID)
	}

	filter := repository.PostFilter{Limit: limit, Offset: offset}
	switch viewer.Role {
	case models.RoleProfessional:
		filter.Types = []models.PostType{models.PostTypeInquiry}
	case models.RoleInvestor:
		filter.Types = []models.PostType{models.PostTypeFundraiser, models.PostTypeProject}
	default:
		// Creators see posts overlapping their declared interests.
		if len(viewer.Interests) == 0 {
			return nil, 0, nil
		}
		ids := make([]uint, 0, len(viewer.Interests))
		for _, interest := range viewer.Interests {
			ids = append(ids, interest.ID)
		}
		filter.CategoryIDs = ids
	}

	posts, total, err := s.posts.List(ctx, filter)
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return posts, total, nil
}
