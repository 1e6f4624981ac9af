package models

import "time"

// SurveyResponse is one participant's answer to a survey post. Open-ended
// surveys fill Text; choice surveys fill SelectedOptions. The composite
// unique index backs the one-response-per-participant invariant under
// concurrent submissions.
type SurveyResponse struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	PostID uint `gorm:"not null;uniqueIndex:idx_survey_responder" json:"post_id"`
	// ResponderID references the responding user's social profile.
	ResponderID uint           `gorm:"not null;uniqueIndex:idx_survey_responder" json:"responder_id"`
	Responder   *SocialProfile `gorm:"foreignKey:ResponderID" json:"responder,omitempty"`

	Text            string   `gorm:"size:1000" json:"text,omitempty"`
	SelectedOptions []string `gorm:"serializer:json" json:"selected_options,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (SurveyResponse) TableName() string {
	return "survey_responses"
}
