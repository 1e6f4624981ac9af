package models

import (
	"time"

	"gorm.io/gorm"
)

// Thread is an author-curated grouping of posts. Membership is stored on the
// Post side (ThreadID + Pinned); the slices here are lookup shortcuts loaded
// by the repository, never an independent source of truth.
type Thread struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"size:1000" json:"description"`

	AuthorProfileID uint           `gorm:"not null;index" json:"author_profile_id"`
	AuthorProfile   *SocialProfile `gorm:"foreignKey:AuthorProfileID" json:"author_profile,omitempty"`

	// Posts holds the regular (unpinned) members ordered by creation time.
	Posts []Post `gorm:"-" json:"posts,omitempty"`
	// PinnedPosts holds at most one post per non-project type.
	PinnedPosts []Post `gorm:"-" json:"pinned_posts,omitempty"`
	// ProjectPost is the occupant of the thread's single project slot.
	ProjectPost *Post `gorm:"-" json:"project_post,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for GORM.
func (Thread) TableName() string {
	return "threads"
}

// SortMembers splits a flat member list into the regular list, the pinned
// set, and the project slot.
func (t *Thread) SortMembers(members []Post) {
	t.Posts = t.Posts[:0]
	t.PinnedPosts = t.PinnedPosts[:0]
	t.ProjectPost = nil
	for i := range members {
		p := members[i]
		switch {
		case p.Type == PostTypeProject:
			t.ProjectPost = &members[i]
		case p.Pinned:
			t.PinnedPosts = append(t.PinnedPosts, p)
		default:
			t.Posts = append(t.Posts, p)
		}
	}
}
