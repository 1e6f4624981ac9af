package models

import (
	"time"

	"gorm.io/gorm"
)

// PostType discriminates the variant payload carried by a Post.
type PostType string

const (
	// PostTypeProject is a project idea with a roadmap and participants.
	PostTypeProject PostType = "PROJECT"
	// PostTypeSurveyOpen is a survey collecting free-text responses.
	PostTypeSurveyOpen PostType = "SURVEY_OPEN"
	// PostTypeSurveyChoice is a survey collecting option selections.
	PostTypeSurveyChoice PostType = "SURVEY_CHOICE"
	// PostTypeFundraiser tracks money raised toward a target.
	PostTypeFundraiser PostType = "FUNDRAISER"
	// PostTypeInquiry is a call for a professional, collecting applications.
	PostTypeInquiry PostType = "INQUIRY"
)

// Valid reports whether t is a known post type.
func (t PostType) Valid() bool {
	switch t {
	case PostTypeProject, PostTypeSurveyOpen, PostTypeSurveyChoice,
		PostTypeFundraiser, PostTypeInquiry:
		return true
	}
	return false
}

// IsSurvey reports whether t is one of the two survey variants.
func (t PostType) IsSurvey() bool {
	return t == PostTypeSurveyOpen || t == PostTypeSurveyChoice
}

// Visibility is a post's moderation-controlled display state.
type Visibility string

const (
	// VisibilityActive indicates a post is publicly visible.
	VisibilityActive Visibility = "ACTIVE"
	// VisibilityHidden indicates a post was hidden by moderation and can be restored.
	VisibilityHidden Visibility = "HIDDEN"
	// VisibilityDeleted is terminal; there is no inverse transition.
	VisibilityDeleted Visibility = "DELETED"
)

// ProgressStatus tracks fundraiser and inquiry completion, mirrored from
// linked roadmap steps.
type ProgressStatus string

const (
	ProgressTodo       ProgressStatus = "TODO"
	ProgressInProgress ProgressStatus = "IN_PROGRESS"
	ProgressCompleted  ProgressStatus = "COMPLETED"
)

// Post is the common envelope for every content variant. Variant-specific
// payload lives in nullable columns and associations selected by Type; all
// cross-cutting behavior (ownership, visibility, thread membership) operates
// on the envelope alone.
type Post struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	Type        PostType `gorm:"type:varchar(20);not null;index" json:"type"`
	Title       string   `gorm:"not null" json:"title"`
	Description string   `gorm:"size:1000" json:"description"`
	// Language is a lowercase ISO 639-1 code; defaults to the author's
	// preferred language when no valid override is supplied.
	Language string `gorm:"size:2;not null;index" json:"language"`

	AuthorProfileID uint           `gorm:"not null;index" json:"author_profile_id"`
	AuthorProfile   *SocialProfile `gorm:"foreignKey:AuthorProfileID" json:"author_profile,omitempty"`

	// ThreadID and Pinned describe thread membership. A post belongs to at
	// most one thread. PROJECT posts occupy the thread's single project slot
	// and are never part of the pinned set.
	ThreadID *uint   `gorm:"index" json:"thread_id,omitempty"`
	Thread   *Thread `gorm:"foreignKey:ThreadID" json:"-"`
	Pinned   bool    `gorm:"not null;default:false" json:"pinned"`

	Featured   bool       `gorm:"not null;default:false" json:"featured"`
	Visibility Visibility `gorm:"type:varchar(20);not null;default:'ACTIVE';index" json:"visibility"`

	// Moderation fields are written only by the moderation service.
	ModerationReason string     `gorm:"size:500" json:"moderation_reason,omitempty"`
	ModeratedByID    *uint      `json:"moderated_by_id,omitempty"`
	LastModeratedAt  *time.Time `json:"last_moderated_at,omitempty"`

	Categories []Category `gorm:"many2many:post_categories" json:"categories,omitempty"`

	FeaturedImageURL      string `json:"featured_image_url,omitempty"`
	FeaturedImagePublicID string `json:"-"`
	FeaturedImageAlt      string `json:"featured_image_alt,omitempty"`

	// Survey payload (SURVEY_OPEN / SURVEY_CHOICE).
	AllowMultipleAnswers bool             `gorm:"not null;default:false" json:"allow_multiple_answers,omitempty"`
	Options              []string         `gorm:"serializer:json" json:"options,omitempty"`
	Responses            []SurveyResponse `gorm:"foreignKey:PostID" json:"-"`

	// Fundraiser payload.
	TargetAmount float64 `gorm:"type:decimal(12,2);default:0" json:"target_amount,omitempty"`
	RaisedAmount float64 `gorm:"type:decimal(12,2);default:0" json:"raised_amount,omitempty"`

	// Inquiry payload.
	ProfessionalRole string               `gorm:"size:120" json:"professional_role,omitempty"`
	Location         string               `gorm:"size:120" json:"location,omitempty"`
	Applications     []InquiryApplication `gorm:"foreignKey:PostID" json:"-"`

	// Shared by fundraiser and inquiry, mirrored from linked roadmap steps.
	ProgressStatus ProgressStatus `gorm:"type:varchar(20);default:'TODO'" json:"progress_status,omitempty"`

	// Project payload.
	RoadmapSteps []RoadmapStep   `gorm:"foreignKey:ProjectID" json:"roadmap_steps,omitempty"`
	Participants []SocialProfile `gorm:"many2many:project_participants" json:"participants,omitempty"`
	Attachments  []Attachment    `gorm:"foreignKey:PostID" json:"attachments,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsAuthoredBy reports whether the given user owns this post.
// AuthorProfile must be preloaded.
func (p *Post) IsAuthoredBy(userID uint) bool {
	return p.AuthorProfile != nil && p.AuthorProfile.UserID == userID
}

// HasOption reports whether the given option is declared on a choice survey.
func (p *Post) HasOption(option string) bool {
	for _, o := range p.Options {
		if o == option {
			return true
		}
	}
	return false
}

// Attachment is a stored blob reference on a post. The upload itself happens
// outside the engine; only the resulting URL and public id are recorded.
type Attachment struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	PostID   uint   `gorm:"not null;index" json:"post_id"`
	URL      string `gorm:"not null" json:"url"`
	PublicID string `gorm:"size:120" json:"public_id"`
	AltText  string `gorm:"size:255" json:"alt_text"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (Attachment) TableName() string {
	return "attachments"
}
