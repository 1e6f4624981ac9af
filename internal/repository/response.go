package repository

import (
	"context"
	"errors"

	"ideahub/internal/models"

	"gorm.io/gorm"
)

// ResponseRepository defines the interface for survey response data operations
type ResponseRepository interface {
	Create(ctx context.Context, response *models.SurveyResponse) error
	GetByID(ctx context.Context, id uint) (*models.SurveyResponse, error)
	ExistsBySurveyAndResponder(ctx context.Context, postID, responderID uint) (bool, error)
	ListBySurvey(ctx context.Context, postID uint, limit, offset int) ([]*models.SurveyResponse, int64, error)
	AllBySurvey(ctx context.Context, postID uint) ([]models.SurveyResponse, error)
	Delete(ctx context.Context, id uint) error
}

// responseRepository implements ResponseRepository
type responseRepository struct {
	db *gorm.DB
}

// NewResponseRepository creates a new survey response repository
func NewResponseRepository(db *gorm.DB) ResponseRepository {
	return &responseRepository{db: db}
}

// Create inserts the response. A duplicate (survey, responder) pair surfaces
// as gorm.ErrDuplicatedKey via the composite unique index, which lets two
// racing submissions resolve to exactly one stored response.
func (r *responseRepository) Create(ctx context.Context, response *models.SurveyResponse) error {
	return r.db.WithContext(ctx).Create(response).Error
}

func (r *responseRepository) GetByID(ctx context.Context, id uint) (*models.SurveyResponse, error) {
	var response models.SurveyResponse
	err := r.db.WithContext(ctx).
		Preload("Responder").
		First(&response, id).Error
	if err != nil {
		return nil, err
	}
	return &response, nil
}

func (r *responseRepository) ExistsBySurveyAndResponder(ctx context.Context, postID, responderID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SurveyResponse{}).
		Where("post_id = ? AND responder_id = ?", postID, responderID).
		Count(&count).Error
	return count > 0, err
}

func (r *responseRepository) ListBySurvey(ctx context.Context, postID uint, limit, offset int) ([]*models.SurveyResponse, int64, error) {
	var responses []*models.SurveyResponse
	var total int64

	base := r.db.WithContext(ctx).
		Model(&models.SurveyResponse{}).
		Where("post_id = ?", postID)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Preload("Responder").
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&responses).Error
	return responses, total, err
}

// AllBySurvey loads every response for statistics aggregation.
func (r *responseRepository) AllBySurvey(ctx context.Context, postID uint) ([]models.SurveyResponse, error) {
	var responses []models.SurveyResponse
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Find(&responses).Error
	return responses, err
}

func (r *responseRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.SurveyResponse{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IsDuplicateKey reports whether err is the translated unique-constraint error.
func IsDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
