package models

import "time"

// Category is a named tag attachable to posts and user interests.
// System categories are seeded at startup and cannot be renamed or deleted.
type Category struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	Name           string `gorm:"size:120;uniqueIndex;not null" json:"name"`
	Description    string `json:"description"`
	SystemCategory bool   `gorm:"not null;default:false" json:"system_category"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Category) TableName() string {
	return "categories"
}
