package service

import (
	"context"
	"strings"

	"ideahub/internal/models"
	"ideahub/internal/repository"

	"gorm.io/gorm"
)

// RoadmapStepInput carries the fields accepted when adding a roadmap step.
type RoadmapStepInput struct {
	Title       string
	Description string
	OrderIndex  int
	Status      models.StepStatus
}

// UpdateStepInput is a partial roadmap step update.
type UpdateStepInput struct {
	Title       *string
	Description *string
	OrderIndex  *int
	Status      *models.StepStatus
}

// ProjectService manages the project-specific payload of PROJECT posts:
// ordered roadmap steps, their links to fundraiser and inquiry posts, and
// the participant set. A linked post mirrors its step's status.
type ProjectService interface {
	AddStep(ctx context.Context, actorUserID, projectID uint, input RoadmapStepInput) (*models.RoadmapStep, error)
	UpdateStep(ctx context.Context, actorUserID, projectID, stepID uint, input UpdateStepInput) (*models.RoadmapStep, error)
	DeleteStep(ctx context.Context, actorUserID, projectID, stepID uint) error
	LinkStep(ctx context.Context, actorUserID, projectID, stepID, linkedPostID uint) error
	UnlinkStep(ctx context.Context, actorUserID, projectID, stepID uint) error
	AddParticipant(ctx context.Context, actorUserID, projectID, profileID uint) error
	RemoveParticipant(ctx context.Context, actorUserID, projectID, profileID uint) error
	ListByParticipant(ctx context.Context, profileID uint, limit, offset int) ([]*models.Post, int64, error)
}

type projectService struct {
	db       *gorm.DB
	posts    repository.PostRepository
	profiles repository.ProfileRepository
}

// NewProjectService creates a new project service
func NewProjectService(db *gorm.DB, posts repository.PostRepository, profiles repository.ProfileRepository) ProjectService {
	return &projectService{db: db, posts: posts, profiles: profiles}
}

// getOwnedProject loads a live PROJECT post owned by the actor.
func (s *projectService) getOwnedProject(ctx context.Context, actorUserID, projectID uint) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, projectID)
	if err != nil {
		return nil, notFoundOrInternal(err, "Project", projectID)
	}
	if post.Visibility == models.VisibilityDeleted {
		return nil, models.NewNotFoundError("Project", projectID)
	}
	if post.Type != models.PostTypeProject {
		return nil, models.NewValidationError("post is not a project")
	}
	if !post.IsAuthoredBy(actorUserID) {
		return nil, models.NewForbiddenError("only the author can modify this project")
	}
	return post, nil
}

func (s *projectService) AddStep(ctx context.Context, actorUserID, projectID uint, input RoadmapStepInput) (*models.RoadmapStep, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, models.NewValidationError("step title is required")
	}
	status := input.Status
	if status == "" {
		status = models.StepTodo
	}
	if !status.Valid() {
		return nil, models.NewValidationError("unknown step status")
	}
	project, err := s.getOwnedProject(ctx, actorUserID, projectID)
	if err != nil {
		return nil, err
	}
	step := &models.RoadmapStep{
		ProjectID:   project.ID,
		Title:       input.Title,
		Description: input.Description,
		OrderIndex:  input.OrderIndex,
		Status:      status,
	}
	if err := s.db.WithContext(ctx).Create(step).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return step, nil
}

func (s *projectService) loadStep(tx *gorm.DB, projectID, stepID uint) (*models.RoadmapStep, error) {
	var step models.RoadmapStep
	err := tx.Where("id = ? AND project_id = ?", stepID, projectID).First(&step).Error
	if err != nil {
		return nil, notFoundOrInternal(err, "RoadmapStep", stepID)
	}
	return &step, nil
}

func (s *projectService) UpdateStep(ctx context.Context, actorUserID, projectID, stepID uint, input UpdateStepInput) (*models.RoadmapStep, error) {
	if _, err := s.getOwnedProject(ctx, actorUserID, projectID); err != nil {
		return nil, err
	}
	var updated *models.RoadmapStep
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		step, err := s.loadStep(tx, projectID, stepID)
		if err != nil {
			return err
		}
		if input.Title != nil {
			if strings.TrimSpace(*input.Title) == "" {
				return models.NewValidationError("step title is required")
			}
			step.Title = *input.Title
		}
		if input.Description != nil {
			step.Description = *input.Description
		}
		if input.OrderIndex != nil {
			step.OrderIndex = *input.OrderIndex
		}
		statusChanged := false
		if input.Status != nil {
			if !input.Status.Valid() {
				return models.NewValidationError("unknown step status")
			}
			statusChanged = step.Status != *input.Status
			step.Status = *input.Status
		}
		if err := tx.Save(step).Error; err != nil {
			return models.NewInternalError(err)
		}
		// A linked fundraiser or inquiry mirrors the step status.
		if statusChanged && step.LinkedPostID != nil {
			err := tx.Model(&models.Post{}).
				Where("id = ?", *step.LinkedPostID).
				Update("progress_status", models.ProgressStatus(step.Status)).Error
			if err != nil {
				return models.NewInternalError(err)
			}
		}
		updated = step
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *projectService) DeleteStep(ctx context.Context, actorUserID, projectID, stepID uint) error {
	if _, err := s.getOwnedProject(ctx, actorUserID, projectID); err != nil {
		return err
	}
	result := s.db.WithContext(ctx).
		Where("id = ? AND project_id = ?", stepID, projectID).
		Delete(&models.RoadmapStep{})
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("RoadmapStep", stepID)
	}
	return nil
}

// LinkStep attaches a fundraiser or inquiry post to a roadmap step and
// aligns the post's progress with the step status.
func (s *projectService) LinkStep(ctx context.Context, actorUserID, projectID, stepID, linkedPostID uint) error {
	if _, err := s.getOwnedProject(ctx, actorUserID, projectID); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		step, err := s.loadStep(tx, projectID, stepID)
		if err != nil {
			return err
		}
		var linked models.Post
		if err := tx.First(&linked, linkedPostID).Error; err != nil {
			return notFoundOrInternal(err, "Post", linkedPostID)
		}
		if linked.Type != models.PostTypeFundraiser && linked.Type != models.PostTypeInquiry {
			return models.NewValidationError("only fundraiser and inquiry posts can be linked to a step")
		}
		if linked.Visibility != models.VisibilityActive {
			return models.NewValidationError("only active posts can be linked to a step")
		}
		step.LinkedPostID = &linked.ID
		if err := tx.Save(step).Error; err != nil {
			return models.NewInternalError(err)
		}
		err = tx.Model(&models.Post{}).
			Where("id = ?", linked.ID).
			Update("progress_status", models.ProgressStatus(step.Status)).Error
		if err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
}

func (s *projectService) UnlinkStep(ctx context.Context, actorUserID, projectID, stepID uint) error {
	if _, err := s.getOwnedProject(ctx, actorUserID, projectID); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		step, err := s.loadStep(tx, projectID, stepID)
		if err != nil {
			return err
		}
		if step.LinkedPostID == nil {
			return models.NewValidationError("step has no linked post")
		}
		step.LinkedPostID = nil
		if err := tx.Save(step).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
}

func (s *projectService) AddParticipant(ctx context.Context, actorUserID, projectID, profileID uint) error {
	project, err := s.getOwnedProject(ctx, actorUserID, projectID)
	if err != nil {
		return err
	}
	profile, err := s.profiles.GetByID(ctx, profileID)
	if err != nil {
		return notFoundOrInternal(err, "Profile", profileID)
	}
	for _, p := range project.Participants {
		if p.ID == profile.ID {
			return models.NewValidationError("profile is already a participant")
		}
	}
	err = s.db.WithContext(ctx).Model(project).Association("Participants").Append(profile)
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (s *projectService) RemoveParticipant(ctx context.Context, actorUserID, projectID, profileID uint) error {
	project, err := s.getOwnedProject(ctx, actorUserID, projectID)
	if err != nil {
		return err
	}
	var member *models.SocialProfile
	for i := range project.Participants {
		if project.Participants[i].ID == profileID {
			member = &project.Participants[i]
			break
		}
	}
	if member == nil {
		return models.NewValidationError("profile is not a participant")
	}
	err = s.db.WithContext(ctx).Model(project).Association("Participants").Delete(member)
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ListByParticipant returns the active projects a profile participates in.
func (s *projectService) ListByParticipant(ctx context.Context, profileID uint, limit, offset int) ([]*models.Post, int64, error) {
	if _, err := s.profiles.GetByID(ctx, profileID); err != nil {
		return nil, 0, notFoundOrInternal(err, "Profile", profileID)
	}
	projects, total, err := s.posts.ListByParticipant(ctx, profileID, limit, offset)
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return projects, total, nil
}
