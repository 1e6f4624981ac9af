package service

import (
	"context"
	"strings"

	"ideahub/internal/models"
	"ideahub/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ThreadService maintains thread membership under two structural rules:
// a thread holds at most one PROJECT post, and among non-project types at
// most one post per type may be pinned. Every mutation is a read-modify-write
// inside one transaction holding the thread row lock, so two concurrent pins
// of the same type cannot both succeed.
type ThreadService interface {
	Create(ctx context.Context, actorUserID uint, title, description string) (*models.Thread, error)
	Get(ctx context.Context, id uint) (*models.Thread, error)
	List(ctx context.Context, limit, offset int) ([]*models.Thread, int64, error)
	AddPost(ctx context.Context, actorUserID, threadID, postID uint) error
	RemovePost(ctx context.Context, actorUserID, threadID, postID uint) error
	PinPost(ctx context.Context, actorUserID, threadID, postID uint) error
	UnpinPost(ctx context.Context, actorUserID, threadID, postID uint) error
	Delete(ctx context.Context, actorUserID, threadID uint) error
}

type threadService struct {
	db       *gorm.DB
	threads  repository.ThreadRepository
	posts    repository.PostRepository
	profiles repository.ProfileRepository
}

// NewThreadService creates a new thread service
func NewThreadService(
	db *gorm.DB,
	threads repository.ThreadRepository,
	posts repository.PostRepository,
	profiles repository.ProfileRepository,
) ThreadService {
	return &threadService{db: db, threads: threads, posts: posts, profiles: profiles}
}

func (s *threadService) Create(ctx context.Context, actorUserID uint, title, description string) (*models.Thread, error) {
	if strings.TrimSpace(title) == "" {
		return nil, models.NewValidationError("title is required")
	}
	profile, err := s.profiles.GetByUserID(ctx, actorUserID)
	if err != nil {
		return nil, notFoundOrInternal(err, "User", actorUserID)
	}
	thread := &models.Thread{
		Title:           title,
		Description:     description,
		AuthorProfileID: profile.ID,
		AuthorProfile:   profile,
	}
	if err := s.threads.Create(ctx, thread); err != nil {
		return nil, models.NewInternalError(err)
	}
	return thread, nil
}

// Get loads the thread and splits its live members into the regular list,
// the pinned set, and the project slot.
func (s *threadService) Get(ctx context.Context, id uint) (*models.Thread, error) {
	thread, err := s.threads.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err, "Thread", id)
	}
	members, err := s.posts.ListByThread(ctx, id)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	visible := members[:0]
	for _, m := range members {
		if m.Visibility == models.VisibilityActive {
			visible = append(visible, m)
		}
	}
	thread.SortMembers(visible)
	return thread, nil
}

func (s *threadService) List(ctx context.Context, limit, offset int) ([]*models.Thread, int64, error) {
	threads, total, err := s.threads.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return threads, total, nil
}

// lockThread loads the thread row under FOR UPDATE, serializing all
// membership mutations per thread.
func lockThread(tx *gorm.DB, threadID uint) (*models.Thread, error) {
	var thread models.Thread
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&thread, threadID).Error
	if err != nil {
		return nil, err
	}
	return &thread, nil
}

func loadMemberCandidate(tx *gorm.DB, postID uint) (*models.Post, error) {
	var post models.Post
	err := tx.Preload("AuthorProfile").First(&post, postID).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *threadService) AddPost(ctx context.Context, actorUserID, threadID, postID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		thread, err := lockThread(tx, threadID)
		if err != nil {
			return notFoundOrInternal(err, "Thread", threadID)
		}
		post, err := loadMemberCandidate(tx, postID)
		if err != nil {
			return notFoundOrInternal(err, "Post", postID)
		}
		if thread.AuthorProfileID != post.AuthorProfileID || !post.IsAuthoredBy(actorUserID) {
			return models.NewForbiddenError("threads can only hold the author's own posts")
		}
		if post.ThreadID != nil {
			return models.NewValidationError("post already belongs to a thread")
		}
		if post.Visibility != models.VisibilityActive {
			return models.NewValidationError("only active posts can join a thread")
		}
		if post.Type == models.PostTypeProject {
			var projects int64
			err := tx.Model(&models.Post{}).
				Where("thread_id = ? AND type = ?", threadID, models.PostTypeProject).
				Count(&projects).Error
			if err != nil {
				return models.NewInternalError(err)
			}
			if projects > 0 {
				return models.NewValidationError("thread already holds a project post")
			}
		}
		err = tx.Model(&models.Post{}).
			Where("id = ?", postID).
			Updates(map[string]interface{}{"thread_id": threadID, "pinned": false}).Error
		if err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
}

func (s *threadService) RemovePost(ctx context.Context, actorUserID, threadID, postID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		thread, err := lockThread(tx, threadID)
		if err != nil {
			return notFoundOrInternal(err, "Thread", threadID)
		}
		post, err := loadMemberCandidate(tx, postID)
		if err != nil {
			return notFoundOrInternal(err, "Post", postID)
		}
		if !post.IsAuthoredBy(actorUserID) {
			return models.NewForbiddenError("only the author can manage thread membership")
		}
		if post.ThreadID == nil || *post.ThreadID != thread.ID {
			return models.NewValidationError("post does not belong to this thread")
		}
		err = tx.Model(&models.Post{}).
			Where("id = ?", postID).
			Updates(map[string]interface{}{"thread_id": nil, "pinned": false}).Error
		if err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
}

func (s *threadService) PinPost(ctx context.Context, actorUserID, threadID, postID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		thread, err := lockThread(tx, threadID)
		if err != nil {
			return notFoundOrInternal(err, "Thread", threadID)
		}
		post, err := loadMemberCandidate(tx, postID)
		if err != nil {
			return notFoundOrInternal(err, "Post", postID)
		}
		if !post.IsAuthoredBy(actorUserID) {
			return models.NewForbiddenError("only the author can manage thread membership")
		}
		if post.ThreadID == nil || *post.ThreadID != thread.ID {
			return models.NewValidationError("post does not belong to this thread")
		}
		if post.Type == models.PostTypeProject {
			return models.NewValidationError("project posts occupy their own slot and cannot be pinned")
		}
		if post.Pinned {
			return models.NewValidationError("post is already pinned")
		}
		var pinnedSameType int64
		err = tx.Model(&models.Post{}).
			Where("thread_id = ? AND type = ? AND pinned = ?", threadID, post.Type, true).
			Count(&pinnedSameType).Error
		if err != nil {
			return models.NewInternalError(err)
		}
		if pinnedSameType > 0 {
			return models.NewValidationError("a post of this type is already pinned")
		}
		err = tx.Model(&models.Post{}).
			Where("id = ?", postID).
			Update("pinned", true).Error
		if err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
}

func (s *threadService) UnpinPost(ctx context.Context, actorUserID, threadID, postID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		thread, err := lockThread(tx, threadID)
		if err != nil {
			return notFoundOrInternal(err, "Thread", threadID)
		}
		post, err := loadMemberCandidate(tx, postID)
		if err != nil {
			return notFoundOrInternal(err, "Post", postID)
		}
		if !post.IsAuthoredBy(actorUserID) {
			return models.NewForbiddenError("only the author can manage thread membership")
		}
		if post.ThreadID == nil || *post.ThreadID != thread.ID || !post.Pinned {
			return models.NewValidationError("post is not pinned in this thread")
		}
		err = tx.Model(&models.Post{}).
			Where("id = ?", postID).
			Update("pinned", false).Error
		if err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
}

// Delete detaches every member post and removes the thread as one atomic
// unit, so no post is left referencing a deleted thread.
func (s *threadService) Delete(ctx context.Context, actorUserID, threadID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		thread, err := lockThread(tx, threadID)
		if err != nil {
			return notFoundOrInternal(err, "Thread", threadID)
		}
		var author models.SocialProfile
		if err := tx.First(&author, thread.AuthorProfileID).Error; err != nil {
			return models.NewInternalError(err)
		}
		if author.UserID != actorUserID {
			return models.NewForbiddenError("only the author can delete this thread")
		}
		err = tx.Model(&models.Post{}).
			Where("thread_id = ?", threadID).
			Updates(map[string]interface{}{"thread_id": nil, "pinned": false}).Error
		if err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Delete(&models.Thread{}, threadID).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
}
