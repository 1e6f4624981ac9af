package repository

import (
	"context"

	"ideahub/internal/models"

	"gorm.io/gorm"
)

// ApplicationRepository defines the interface for inquiry application data operations
type ApplicationRepository interface {
	Create(ctx context.Context, application *models.InquiryApplication) error
	ExistsByInquiryAndApplicant(ctx context.Context, postID, applicantProfileID uint) (bool, error)
	ListByInquiry(ctx context.Context, postID uint, limit, offset int) ([]*models.InquiryApplication, int64, error)
}

// applicationRepository implements ApplicationRepository
type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new inquiry application repository
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

// Create inserts the application. The composite unique index turns a racing
// duplicate into gorm.ErrDuplicatedKey.
func (r *applicationRepository) Create(ctx context.Context, application *models.InquiryApplication) error {
	return r.db.WithContext(ctx).Create(application).Error
}

func (r *applicationRepository) ExistsByInquiryAndApplicant(ctx context.Context, postID, applicantProfileID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.InquiryApplication{}).
		Where("post_id = ? AND applicant_profile_id = ?", postID, applicantProfileID).
		Count(&count).Error
	return count > 0, err
}

func (r *applicationRepository) ListByInquiry(ctx context.Context, postID uint, limit, offset int) ([]*models.InquiryApplication, int64, error) {
	var applications []*models.InquiryApplication
	var total int64

	base := r.db.WithContext(ctx).
		Model(&models.InquiryApplication{}).
		Where("post_id = ?", postID)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Preload("ApplicantProfile").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&applications).Error
	return applications, total, err
}
