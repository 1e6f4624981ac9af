package repository

import (
	"context"

	"ideahub/internal/models"

	"gorm.io/gorm"
)

// ModeratorActionRepository records and reads the moderation audit trail.
// The trail is append-only so there are no update or delete methods.
type ModeratorActionRepository interface {
	Create(ctx context.Context, action *models.ModeratorAction) error
	ListByTargetUser(ctx context.Context, targetUserID uint, limit, offset int) ([]*models.ModeratorAction, int64, error)
	ListByTargetPost(ctx context.Context, targetPostID uint, limit, offset int) ([]*models.ModeratorAction, int64, error)
	ListByModerator(ctx context.Context, moderatorID uint, limit, offset int) ([]*models.ModeratorAction, int64, error)
}

// moderatorActionRepository implements ModeratorActionRepository
type moderatorActionRepository struct {
	db *gorm.DB
}

// NewModeratorActionRepository creates a new moderator action repository
func NewModeratorActionRepository(db *gorm.DB) ModeratorActionRepository {
	return &moderatorActionRepository{db: db}
}

func (r *moderatorActionRepository) Create(ctx context.Context, action *models.ModeratorAction) error {
	return r.db.WithContext(ctx).Create(action).Error
}

func (r *moderatorActionRepository) list(ctx context.Context, column string, id uint, limit, offset int) ([]*models.ModeratorAction, int64, error) {
	var actions []*models.ModeratorAction
	var total int64

	base := r.db.WithContext(ctx).
		Model(&models.ModeratorAction{}).
		Where(column+" = ?", id)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Preload("Moderator").
		Where(column+" = ?", id).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&actions).Error
	return actions, total, err
}

func (r *moderatorActionRepository) ListByTargetUser(ctx context.Context, targetUserID uint, limit, offset int) ([]*models.ModeratorAction, int64, error) {
	return r.list(ctx, "target_user_id", targetUserID, limit, offset)
}

func (r *moderatorActionRepository) ListByTargetPost(ctx context.Context, targetPostID uint, limit, offset int) ([]*models.ModeratorAction, int64, error) {
	return r.list(ctx, "target_post_id", targetPostID, limit, offset)
}

func (r *moderatorActionRepository) ListByModerator(ctx context.Context, moderatorID uint, limit, offset int) ([]*models.ModeratorAction, int64, error) {
	return r.list(ctx, "moderator_id", moderatorID, limit, offset)
}
