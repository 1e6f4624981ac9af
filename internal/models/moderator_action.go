package models

import "time"

// ModeratorActionType identifies an audited moderation transition.
type ModeratorActionType string

const (
	ActionUserBan     ModeratorActionType = "USER_BAN"
	ActionUserSuspend ModeratorActionType = "USER_SUSPEND"
	ActionPostHide    ModeratorActionType = "POST_HIDE"
	ActionPostDelete  ModeratorActionType = "POST_DELETE"
)

// ModeratorAction is an append-only audit record. The repository exposes no
// update or delete for it.
type ModeratorAction struct {
	ID         uint                `gorm:"primaryKey" json:"id"`
	ActionType ModeratorActionType `gorm:"type:varchar(20);not null" json:"action_type"`

	ModeratorID  uint  `gorm:"not null;index" json:"moderator_id"`
	Moderator    *User `gorm:"foreignKey:ModeratorID" json:"moderator,omitempty"`
	TargetUserID *uint `gorm:"index" json:"target_user_id,omitempty"`
	TargetPostID *uint `gorm:"index" json:"target_post_id,omitempty"`

	Reason string `gorm:"size:500;not null" json:"reason"`
	// SuspensionEnd is set only for USER_SUSPEND actions.
	SuspensionEnd *time.Time `json:"suspension_end,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (ModeratorAction) TableName() string {
	return "moderator_actions"
}
