package models

import (
	"net/url"
	"time"

	"gorm.io/gorm"
)

const avatarBaseURL = "https://ui-avatars.com/api/?name="

// SocialProfile is the public-facing identity owned by exactly one User.
type SocialProfile struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	UserID    uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	Username  string `gorm:"size:64;uniqueIndex;not null" json:"username"`
	FirstName string `gorm:"size:120" json:"first_name"`
	LastName  string `gorm:"size:120" json:"last_name"`
	Bio       string `gorm:"size:1000" json:"bio"`
	// AvatarURL is derived from the display name unless a custom avatar
	// was uploaded.
	AvatarURL       string `json:"avatar_url"`
	HasCustomAvatar bool   `gorm:"not null;default:false" json:"-"`
	// Links maps platform name to URL.
	Links map[string]string `gorm:"serializer:json" json:"links,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for GORM.
func (SocialProfile) TableName() string {
	return "social_profiles"
}

// RefreshAvatarURL regenerates the derived avatar URL from the display name.
// It is a no-op once a custom avatar has been uploaded.
func (p *SocialProfile) RefreshAvatarURL() {
	if p.HasCustomAvatar || (p.FirstName == "" && p.LastName == "") {
		return
	}
	p.AvatarURL = avatarBaseURL +
		url.QueryEscape(p.FirstName+"+"+p.LastName) +
		"&background=random&rounded=true"
}

// SetCustomAvatar records an uploaded avatar URL and stops derivation.
func (p *SocialProfile) SetCustomAvatar(avatarURL string) {
	p.AvatarURL = avatarURL
	p.HasCustomAvatar = true
}
