package server

import (
	"time"

	"ideahub/internal/models"

	"github.com/gofiber/fiber/v2"
)

// BanUser permanently bans a user account (admin only)
func (s *Server) BanUser(c *fiber.Ctx) error {
	ctx := c.UserContext()

	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	moderator, err := s.currentUser(c)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	if err := s.moderationService.BanUser(ctx, moderator, targetID, req.Reason); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User banned"})
}

// UnbanUser reverses a ban (admin only)
func (s *Server) UnbanUser(c *fiber.Ctx) error {
	ctx := c.UserContext()

	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	moderator, err := s.currentUser(c)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	if err := s.moderationService.UnbanUser(ctx, moderator, targetID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User unbanned"})
}

// SuspendUser suspends a user account until a given time (admin only)
func (s *Server) SuspendUser(c *fiber.Ctx) error {
	ctx := c.UserContext()

	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Reason string    `json:"reason"`
		Until  time.Time `json:"until"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	moderator, err := s.currentUser(c)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	if err := s.moderationService.SuspendUser(ctx, moderator, targetID, req.Reason, req.Until); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User suspended"})
}

// UnsuspendUser lifts a suspension early (admin only)
func (s *Server) UnsuspendUser(c *fiber.Ctx) error {
	ctx := c.UserContext()

	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	moderator, err := s.currentUser(c)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	if err := s.moderationService.UnsuspendUser(ctx, moderator, targetID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User unsuspended"})
}

// HidePost hides a post from public listings (admin only)
func (s *Server) HidePost(c *fiber.Ctx) error {
	ctx := c.UserContext()

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	moderator, err := s.currentUser(c)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	if err := s.moderationService.HidePost(ctx, moderator, postID, req.Reason); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post hidden"})
}

// UnhidePost restores a hidden post to public visibility (admin only)
func (s *Server) UnhidePost(c *fiber.Ctx) error {
	ctx := c.UserContext()

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	moderator, err := s.currentUser(c)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	if err := s.moderationService.UnhidePost(ctx, moderator, postID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post unhidden"})
}

// ModerationDeletePost soft-deletes a post by moderator decision (admin only)
func (s *Server) ModerationDeletePost(c *fiber.Ctx) error {
	ctx := c.UserContext()

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	moderator, err := s.currentUser(c)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	if err := s.moderationService.DeletePost(ctx, moderator, postID, req.Reason); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post deleted"})
}

// GetUserModerationActions returns the audit trail for a user (admin only)
func (s *Server) GetUserModerationActions(c *fiber.Ctx) error {
	ctx := c.UserContext()

	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 50)

	actions, total, err := s.moderationService.ActionsForUser(ctx, targetID, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"actions": actions,
		"total":   total,
		"limit":   page.Limit,
		"offset":  page.Offset,
	})
}

// GetPostModerationActions returns the audit trail for a post (admin only)
func (s *Server) GetPostModerationActions(c *fiber.Ctx) error {
	ctx := c.UserContext()

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 50)

	actions, total, err := s.moderationService.ActionsForPost(ctx, postID, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"actions": actions,
		"total":   total,
		"limit":   page.Limit,
		"offset":  page.Offset,
	})
}
