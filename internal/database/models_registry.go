package database

import "ideahub/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Authority{},
		&models.SocialProfile{},
		&models.Category{},
		&models.Post{},
		&models.Thread{},
		&models.RoadmapStep{},
		&models.Attachment{},
		&models.SurveyResponse{},
		&models.InquiryApplication{},
		&models.ModeratorAction{},
	}
}
