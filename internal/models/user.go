// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// UserRole defines what a user declares they are on the platform. It drives
// feed dispatch, not permissions.
type UserRole string

const (
	// RoleProfessional marks users looking for work opportunities.
	RoleProfessional UserRole = "PROFESSIONAL"
	// RoleCreator marks users who publish project ideas.
	RoleCreator UserRole = "CREATOR"
	// RoleInvestor marks users looking for investment opportunities.
	RoleInvestor UserRole = "INVESTOR"
)

// UserStatus defines the moderation standing of a user account.
type UserStatus string

const (
	// UserStatusActive indicates an account in good standing.
	UserStatusActive UserStatus = "ACTIVE"
	// UserStatusSuspended indicates a temporary lockout until SuspensionEndDate.
	UserStatusSuspended UserStatus = "SUSPENDED"
	// UserStatusBanned indicates a permanent lockout until an explicit unban.
	UserStatusBanned UserStatus = "BANNED"
)

// AuthorityAdmin grants access to the moderation surface and makes the
// holder unbannable through the regular moderation path.
const AuthorityAdmin = "ADMIN"

// Authority is a named permission grant attachable to users.
type Authority struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:64;uniqueIndex;not null" json:"name"`
	Description string `json:"description"`
	System      bool   `gorm:"not null;default:false" json:"system"`
}

// TableName specifies the table name for GORM.
func (Authority) TableName() string {
	return "authorities"
}

// User represents an authentication identity with its moderation standing.
// The public-facing identity lives on the owned SocialProfile.
type User struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	Email             string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash      string     `gorm:"not null" json:"-"`
	PreferredLanguage string     `gorm:"size:2;not null;default:'en'" json:"preferred_language"`
	Role              UserRole   `gorm:"type:varchar(20);not null;default:'CREATOR'" json:"role"`
	Status            UserStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'" json:"status"`
	// SuspensionEndDate is only meaningful while Status is SUSPENDED.
	SuspensionEndDate *time.Time `json:"suspension_end_date,omitempty"`
	ModerationReason  string     `gorm:"size:500" json:"moderation_reason,omitempty"`
	LastModeratedAt   *time.Time `json:"last_moderated_at,omitempty"`

	Interests   []Category  `gorm:"many2many:user_interests" json:"interests,omitempty"`
	Authorities []Authority `gorm:"many2many:user_authorities" json:"authorities,omitempty"`

	// Profile is created together with the user and deleted with it.
	Profile *SocialProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"profile,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// HasAuthority reports whether the user holds the named authority.
// Authorities must be preloaded.
func (u *User) HasAuthority(name string) bool {
	for _, a := range u.Authorities {
		if a.Name == name {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the user holds the ADMIN authority.
func (u *User) IsAdmin() bool {
	return u.HasAuthority(AuthorityAdmin)
}

// SuspensionLapsed reports whether a suspended user's lockout window has
// already passed at the given instant.
func (u *User) SuspensionLapsed(now time.Time) bool {
	return u.Status == UserStatusSuspended &&
		u.SuspensionEndDate != nil &&
		now.After(*u.SuspensionEndDate)
}
