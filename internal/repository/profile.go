package repository

import (
	"context"

	"ideahub/internal/cache"
	"ideahub/internal/models"

	"gorm.io/gorm"
)

// ProfileRepository defines the interface for social profile data operations
type ProfileRepository interface {
	GetByID(ctx context.Context, id uint) (*models.SocialProfile, error)
	GetByUserID(ctx context.Context, userID uint) (*models.SocialProfile, error)
	GetByUsername(ctx context.Context, username string) (*models.SocialProfile, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	Update(ctx context.Context, profile *models.SocialProfile) error
}

// profileRepository implements ProfileRepository
type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new social profile repository
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByID(ctx context.Context, id uint) (*models.SocialProfile, error) {
	var profile models.SocialProfile
	err := cache.Aside(ctx, cache.ProfileKey(id), &profile, cache.ProfileTTL, func() error {
		return r.db.WithContext(ctx).First(&profile, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uint) (*models.SocialProfile, error) {
	var profile models.SocialProfile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) GetByUsername(ctx context.Context, username string) (*models.SocialProfile, error) {
	var profile models.SocialProfile
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SocialProfile{}).
		Where("username = ?", username).
		Count(&count).Error
	return count > 0, err
}

func (r *profileRepository) Update(ctx context.Context, profile *models.SocialProfile) error {
	if err := r.db.WithContext(ctx).Save(profile).Error; err != nil {
		return err
	}
	cache.InvalidateProfile(ctx, profile.ID)
	return nil
}
