package repository

import (
	"context"

	"ideahub/internal/models"

	"gorm.io/gorm"
)

// ThreadRepository defines the interface for thread data operations.
// Membership mutations (add, remove, pin) run inside service-owned
// transactions and are not part of this interface.
type ThreadRepository interface {
	Create(ctx context.Context, thread *models.Thread) error
	GetByID(ctx context.Context, id uint) (*models.Thread, error)
	List(ctx context.Context, limit, offset int) ([]*models.Thread, int64, error)
	ListByAuthor(ctx context.Context, authorProfileID uint) ([]*models.Thread, error)
	Save(ctx context.Context, thread *models.Thread) error
}

// threadRepository implements ThreadRepository
type threadRepository struct {
	db *gorm.DB
}

// NewThreadRepository creates a new thread repository
func NewThreadRepository(db *gorm.DB) ThreadRepository {
	return &threadRepository{db: db}
}

func (r *threadRepository) Create(ctx context.Context, thread *models.Thread) error {
	return r.db.WithContext(ctx).Create(thread).Error
}

func (r *threadRepository) GetByID(ctx context.Context, id uint) (*models.Thread, error) {
	var thread models.Thread
	err := r.db.WithContext(ctx).
		Preload("AuthorProfile").
		First(&thread, id).Error
	if err != nil {
		return nil, err
	}
	return &thread, nil
}

func (r *threadRepository) List(ctx context.Context, limit, offset int) ([]*models.Thread, int64, error) {
	var threads []*models.Thread
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Thread{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Preload("AuthorProfile").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&threads).Error
	return threads, total, err
}

func (r *threadRepository) ListByAuthor(ctx context.Context, authorProfileID uint) ([]*models.Thread, error) {
	var threads []*models.Thread
	err := r.db.WithContext(ctx).
		Where("author_profile_id = ?", authorProfileID).
		Order("created_at DESC").
		Find(&threads).Error
	return threads, err
}

func (r *threadRepository) Save(ctx context.Context, thread *models.Thread) error {
	return r.db.WithContext(ctx).Save(thread).Error
}
