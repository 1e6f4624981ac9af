package repository

import (
	"context"

	"ideahub/internal/cache"
	"ideahub/internal/models"

	"gorm.io/gorm"
)

// PostFilter narrows post listings. Zero values mean "no constraint".
type PostFilter struct {
	Types           []models.PostType
	Language        string
	AuthorProfileID uint
	CategoryIDs     []uint
	Featured        *bool
	IncludeHidden   bool
	Limit           int
	Offset          int
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	Save(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter PostFilter) ([]*models.Post, int64, error)
	ListByThread(ctx context.Context, threadID uint) ([]models.Post, error)
	ListByParticipant(ctx context.Context, profileID uint, limit, offset int) ([]*models.Post, int64, error)
	SaveWithCategories(ctx context.Context, post *models.Post, categories *[]models.Category) error
	AddAttachment(ctx context.Context, attachment *models.Attachment) error
	DeleteAttachment(ctx context.Context, postID, attachmentID uint) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// GetByID loads a post with every association that detail rendering needs.
// Kind-specific collections are preloaded unconditionally; they are empty for
// the kinds that do not use them.
func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("AuthorProfile").
		Preload("Categories").
		Preload("Attachments").
		Preload("RoadmapSteps", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		Preload("Participants").
		First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) Save(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Omit("Categories", "AuthorProfile", "Participants").Save(post).Error; err != nil {
		return err
	}
	cache.InvalidatePost(ctx, post.ID)
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.SurveyResponse{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.InquiryApplication{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Attachment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.RoadmapStep{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
	if err != nil {
		return err
	}
	cache.InvalidatePost(ctx, id)
	return nil
}

func (r *postRepository) List(ctx context.Context, filter PostFilter) ([]*models.Post, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Post{})

	if !filter.IncludeHidden {
		query = query.Where("visibility = ?", models.VisibilityActive)
	} else {
		query = query.Where("visibility <> ?", models.VisibilityDeleted)
	}
	if len(filter.Types) > 0 {
		query = query.Where("type IN ?", filter.Types)
	}
	if filter.Language != "" {
		query = query.Where("language = ?", filter.Language)
	}
	if filter.AuthorProfileID != 0 {
		query = query.Where("author_profile_id = ?", filter.AuthorProfileID)
	}
	if filter.Featured != nil {
		query = query.Where("featured = ?", *filter.Featured)
	}
	if len(filter.CategoryIDs) > 0 {
		query = query.
			Joins("JOIN post_categories ON post_categories.post_id = posts.id").
			Where("post_categories.category_id IN ?", filter.CategoryIDs).
			Distinct("posts.*")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []*models.Post
	err := query.
		Preload("AuthorProfile").
		Preload("Categories").
		Order("posts.created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&posts).Error
	return posts, total, err
}

func (r *postRepository) ListByThread(ctx context.Context, threadID uint) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Preload("AuthorProfile").
		Where("thread_id = ?", threadID).
		Order("created_at ASC").
		Find(&posts).Error
	return posts, err
}

// ListByParticipant returns the active projects a profile participates in.
func (r *postRepository) ListByParticipant(ctx context.Context, profileID uint, limit, offset int) ([]*models.Post, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Post{}).
		Joins("JOIN project_participants ON project_participants.post_id = posts.id").
		Where("project_participants.social_profile_id = ?", profileID).
		Where("type = ? AND visibility = ?", models.PostTypeProject, models.VisibilityActive)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []*models.Post
	err := query.
		Preload("AuthorProfile").
		Preload("Categories").
		Order("posts.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, total, err
}

// SaveWithCategories persists field changes and, when categories is non-nil,
// a wholesale category replacement in the same transaction. A failure on
// either side rolls back both.
func (r *postRepository) SaveWithCategories(ctx context.Context, post *models.Post, categories *[]models.Category) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Categories", "AuthorProfile", "Participants").Save(post).Error; err != nil {
			return err
		}
		if categories != nil {
			return tx.Model(post).Association("Categories").Replace(*categories)
		}
		return nil
	})
	if err != nil {
		return err
	}
	cache.InvalidatePost(ctx, post.ID)
	return nil
}

func (r *postRepository) AddAttachment(ctx context.Context, attachment *models.Attachment) error {
	if err := r.db.WithContext(ctx).Create(attachment).Error; err != nil {
		return err
	}
	cache.InvalidatePost(ctx, attachment.PostID)
	return nil
}

func (r *postRepository) DeleteAttachment(ctx context.Context, postID, attachmentID uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND post_id = ?", attachmentID, postID).
		Delete(&models.Attachment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	cache.InvalidatePost(ctx, postID)
	return nil
}
