package models

import "time"

// StepStatus is the completion state of a roadmap step.
type StepStatus string

const (
	StepTodo       StepStatus = "TODO"
	StepInProgress StepStatus = "IN_PROGRESS"
	StepCompleted  StepStatus = "COMPLETED"
)

// Valid reports whether s is a known step status.
func (s StepStatus) Valid() bool {
	return s == StepTodo || s == StepInProgress || s == StepCompleted
}

// RoadmapStep is an ordered milestone on a project post. A step may link to
// a fundraiser or inquiry post whose progress mirrors the step status.
type RoadmapStep struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ProjectID   uint       `gorm:"not null;index" json:"project_id"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `json:"description"`
	OrderIndex  int        `gorm:"not null" json:"order_index"`
	Status      StepStatus `gorm:"type:varchar(20);not null;default:'TODO'" json:"status"`

	// LinkedPostID may only reference a FUNDRAISER or INQUIRY post.
	LinkedPostID *uint `json:"linked_post_id,omitempty"`
	LinkedPost   *Post `gorm:"foreignKey:LinkedPostID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (RoadmapStep) TableName() string {
	return "roadmap_steps"
}
