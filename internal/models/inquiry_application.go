package models

import "time"

// InquiryApplication is a profile's application to an inquiry post. The
// composite unique index backs the one-application-per-applicant invariant
// under concurrent submissions.
type InquiryApplication struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	PostID             uint           `gorm:"not null;uniqueIndex:idx_inquiry_applicant" json:"post_id"`
	ApplicantProfileID uint           `gorm:"not null;uniqueIndex:idx_inquiry_applicant" json:"applicant_profile_id"`
	ApplicantProfile   *SocialProfile `gorm:"foreignKey:ApplicantProfileID" json:"applicant_profile,omitempty"`

	Message string `gorm:"size:1000" json:"message"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (InquiryApplication) TableName() string {
	return "inquiry_applications"
}
