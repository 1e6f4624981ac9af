package service

import (
	"context"
	"strings"
	"time"

	"ideahub/internal/models"
	"ideahub/internal/observability"
	"ideahub/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ModerationService transitions users and posts between moderation states.
// Every transition is conditioned on the current state read inside the same
// transaction as the write, so two moderators racing on the same target
// cannot both apply conflicting transitions. Ban, suspend, hide and delete
// append to the audit trail; the reverse transitions do not.
type ModerationService interface {
	BanUser(ctx context.Context, moderator *models.User, targetID uint, reason string) error
	SuspendUser(ctx context.Context, moderator *models.User, targetID uint, reason string, until time.Time) error
	UnbanUser(ctx context.Context, moderator *models.User, targetID uint) error
	UnsuspendUser(ctx context.Context, moderator *models.User, targetID uint) error
	HidePost(ctx context.Context, moderator *models.User, postID uint, reason string) error
	UnhidePost(ctx context.Context, moderator *models.User, postID uint) error
	DeletePost(ctx context.Context, moderator *models.User, postID uint, reason string) error
	ActionsForUser(ctx context.Context, targetID uint, limit, offset int) ([]*models.ModeratorAction, int64, error)
	ActionsForPost(ctx context.Context, postID uint, limit, offset int) ([]*models.ModeratorAction, int64, error)
}

type moderationService struct {
	db      *gorm.DB
	actions repository.ModeratorActionRepository
	// now is injectable so transition timestamps are controllable in tests.
	now func() time.Time
}

// NewModerationService creates a new moderation service
func NewModerationService(db *gorm.DB, actions repository.ModeratorActionRepository) ModerationService {
	return &moderationService{db: db, actions: actions, now: time.Now}
}

func requireModerator(moderator *models.User) error {
	if moderator == nil || !moderator.IsAdmin() {
		return models.NewForbiddenError("moderation requires the admin authority")
	}
	return nil
}

func requireReason(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return models.NewValidationError("a moderation reason is required")
	}
	return nil
}

func lockUser(tx *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Authorities").
		First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func lockPost(tx *gorm.DB, id uint) (*models.Post, error) {
	var post models.Post
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *moderationService) record(tx *gorm.DB, action *models.ModeratorAction) error {
	if err := tx.Create(action).Error; err != nil {
		return models.NewInternalError(err)
	}
	observability.ModeratorActions.WithLabelValues(string(action.ActionType)).Inc()
	return nil
}

func (s *moderationService) BanUser(ctx context.Context, moderator *models.User, targetID uint, reason string) error {
	if err := requireModerator(moderator); err != nil {
		return err
	}
	if err := requireReason(reason); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		target, err := lockUser(tx, targetID)
		if err != nil {
			return notFoundOrInternal(err, "User", targetID)
		}
		if target.IsAdmin() {
			return models.NewValidationError("administrators cannot be banned")
		}
		if target.Status == models.UserStatusBanned {
			return models.NewValidationError("user is already banned")
		}
		now := s.now()
		err = tx.Model(target).Updates(map[string]interface{}{
			"status":              models.UserStatusBanned,
			"moderation_reason":   reason,
			"suspension_end_date": nil,
			"last_moderated_at":   now,
		}).Error
		if err != nil {
			return models.NewInternalError(err)
		}
		return s.record(tx, &models.ModeratorAction{
			ActionType:   models.ActionUserBan,
			ModeratorID:  moderator.ID,
			TargetUserID: &target.ID,
			Reason:       reason,
		})
	})
}

func (s *moderationService) SuspendUser(ctx context.Context, moderator *models.User, targetID uint, reason string, until time.Time) error {
	if err := requireModerator(moderator); err != nil {
		return err
	}
	if err := requireReason(reason); err != nil {
		return err
	}
	if !until.After(s.now()) {
		return models.NewValidationError("suspension end must be in the future")
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		target, err := lockUser(tx, targetID)
		if err != nil {
			return notFoundOrInternal(err, "User", targetID)
		}
		if target.IsAdmin() {
			return models.NewValidationError("administrators cannot be suspended")
		}
		if target.Status == models.UserStatusBanned {
			return models.NewValidationError("user is banned; lift the ban first")
		}
		now := s.now()
		err = tx.Model(target).Updates(map[string]interface{}{
			"status":              models.UserStatusSuspended,
			"moderation_reason":   reason,
			"suspension_end_date": until,
			"last_moderated_at":   now,
		}).Error
		if err != nil {
			return models.NewInternalError(err)
		}
		return s.record(tx, &models.ModeratorAction{
			ActionType:    models.ActionUserSuspend,
			ModeratorID:   moderator.ID,
			TargetUserID:  &target.ID,
			Reason:        reason,
			SuspensionEnd: &until,
		})
	})
}

func (s *moderationService) UnbanUser(ctx context.Context, moderator *models.User, targetID uint) error {
	if err := requireModerator(moderator); err != nil {
		return err
	}
	return s.reactivate(ctx, targetID, models.UserStatusBanned, "user is not banned")
}

func (s *moderationService) UnsuspendUser(ctx context.Context, moderator *models.User, targetID uint) error {
	if err := requireModerator(moderator); err != nil {
		return err
	}
	return s.reactivate(ctx, targetID, models.UserStatusSuspended, "user is not suspended")
}

func (s *moderationService) reactivate(ctx context.Context, targetID uint, expected models.UserStatus, mismatch string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		target, err := lockUser(tx, targetID)
		if err != nil {
			return notFoundOrInternal(err, "User", targetID)
		}
		if target.Status != expected {
			return models.NewValidationError(mismatch)
		}
		err = tx.Model(target).Updates(map[string]interface{}{
			"status":              models.UserStatusActive,
			"moderation_reason":   "",
			"suspension_end_date": nil,
			"last_moderated_at":   s.now(),
		}).Error
		if err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
}

func (s *moderationService) HidePost(ctx context.Context, moderator *models.User, postID uint, reason string) error {
	if err := requireModerator(moderator); err != nil {
		return err
	}
	if err := requireReason(reason); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post, err := lockPost(tx, postID)
		if err != nil {
			return notFoundOrInternal(err, "Post", postID)
		}
		if post.Visibility != models.VisibilityActive {
			return models.NewValidationError("only active posts can be hidden")
		}
		err = tx.Model(post).Updates(map[string]interface{}{
			"visibility":        models.VisibilityHidden,
			"moderation_reason": reason,
			"moderated_by_id":   moderator.ID,
			"last_moderated_at": s.now(),
		}).Error
		if err != nil {
			return models.NewInternalError(err)
		}
		return s.record(tx, &models.ModeratorAction{
			ActionType:   models.ActionPostHide,
			ModeratorID:  moderator.ID,
			TargetPostID: &post.ID,
			Reason:       reason,
		})
	})
}

func (s *moderationService) UnhidePost(ctx context.Context, moderator *models.User, postID uint) error {
	if err := requireModerator(moderator); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post, err := lockPost(tx, postID)
		if err != nil {
			return notFoundOrInternal(err, "Post", postID)
		}
		// DELETED is terminal; only HIDDEN can be restored.
		if post.Visibility != models.VisibilityHidden {
			return models.NewValidationError("post is not hidden")
		}
		err = tx.Model(post).Updates(map[string]interface{}{
			"visibility":        models.VisibilityActive,
			"moderation_reason": "",
			"moderated_by_id":   moderator.ID,
			"last_moderated_at": s.now(),
		}).Error
		if err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
}

func (s *moderationService) DeletePost(ctx context.Context, moderator *models.User, postID uint, reason string) error {
	if err := requireModerator(moderator); err != nil {
		return err
	}
	if err := requireReason(reason); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post, err := lockPost(tx, postID)
		if err != nil {
			return notFoundOrInternal(err, "Post", postID)
		}
		if post.Visibility == models.VisibilityDeleted {
			return models.NewValidationError("post is already deleted")
		}
		err = tx.Model(post).Updates(map[string]interface{}{
			"visibility":        models.VisibilityDeleted,
			"moderation_reason": reason,
			"moderated_by_id":   moderator.ID,
			"last_moderated_at": s.now(),
			// A deleted post can no longer occupy a thread slot.
			"thread_id": nil,
			"pinned":    false,
		}).Error
		if err != nil {
			return models.NewInternalError(err)
		}
		return s.record(tx, &models.ModeratorAction{
			ActionType:   models.ActionPostDelete,
			ModeratorID:  moderator.ID,
			TargetPostID: &post.ID,
			Reason:       reason,
		})
	})
}

func (s *moderationService) ActionsForUser(ctx context.Context, targetID uint, limit, offset int) ([]*models.ModeratorAction, int64, error) {
	actions, total, err := s.actions.ListByTargetUser(ctx, targetID, limit, offset)
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return actions, total, nil
}

func (s *moderationService) ActionsForPost(ctx context.Context, postID uint, limit, offset int) ([]*models.ModeratorAction, int64, error) {
	actions, total, err := s.actions.ListByTargetPost(ctx, postID, limit, offset)
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return actions, total, nil
}
