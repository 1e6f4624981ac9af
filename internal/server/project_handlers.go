package server

import (
	"ideahub/internal/models"
	"ideahub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AddRoadmapStep appends a roadmap step to a project owned by the caller
func (s *Server) AddRoadmapStep(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	projectID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		OrderIndex  int    `json:"order_index"`
		Status      string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	step, err := s.projectService.AddStep(ctx, userID, projectID, service.RoadmapStepInput{
		Title:       req.Title,
		Description: req.Description,
		OrderIndex:  req.OrderIndex,
		Status:      models.StepStatus(req.Status),
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(step)
}

// UpdateRoadmapStep applies a partial update to a roadmap step
func (s *Server) UpdateRoadmapStep(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	projectID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	stepID, err := s.parseID(c, "stepId")
	if err != nil {
		return nil
	}

	var req struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		OrderIndex  *int    `json:"order_index"`
		Status      *string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	input := service.UpdateStepInput{
		Title:       req.Title,
		Description: req.Description,
		OrderIndex:  req.OrderIndex,
	}
	if req.Status != nil {
		status := models.StepStatus(*req.Status)
		input.Status = &status
	}

	step, err := s.projectService.UpdateStep(ctx, userID, projectID, stepID, input)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(step)
}

// DeleteRoadmapStep removes a roadmap step from a project
func (s *Server) DeleteRoadmapStep(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	projectID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	stepID, err := s.parseID(c, "stepId")
	if err != nil {
		return nil
	}

	if err := s.projectService.DeleteStep(ctx, userID, projectID, stepID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Step deleted"})
}

// LinkRoadmapStep links a fundraiser or inquiry post to a roadmap step
func (s *Server) LinkRoadmapStep(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	projectID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	stepID, err := s.parseID(c, "stepId")
	if err != nil {
		return nil
	}

	var req struct {
		PostID uint `json:"post_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.PostID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.projectService.LinkStep(ctx, userID, projectID, stepID, req.PostID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Step linked"})
}

// UnlinkRoadmapStep clears the linked post of a roadmap step
func (s *Server) UnlinkRoadmapStep(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	projectID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	stepID, err := s.parseID(c, "stepId")
	if err != nil {
		return nil
	}

	if err := s.projectService.UnlinkStep(ctx, userID, projectID, stepID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Step unlinked"})
}

// AddProjectParticipant adds a profile to the project's participant set
func (s *Server) AddProjectParticipant(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	projectID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	profileID, err := s.parseID(c, "profileId")
	if err != nil {
		return nil
	}

	if err := s.projectService.AddParticipant(ctx, userID, projectID, profileID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Participant added"})
}

// GetProjectsByParticipant lists the active projects a profile participates in
func (s *Server) GetProjectsByParticipant(c *fiber.Ctx) error {
	ctx := c.UserContext()
	username := c.Params("username")
	page := parsePagination(c, 20)

	profile, err := s.userService.GetProfileByUsername(ctx, username)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	projects, total, err := s.projectService.ListByParticipant(ctx, profile.ID, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"projects": projects,
		"total":    total,
		"limit":    page.Limit,
		"offset":   page.Offset,
	})
}

// RemoveProjectParticipant removes a profile from the participant set
func (s *Server) RemoveProjectParticipant(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	projectID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	profileID, err := s.parseID(c, "profileId")
	if err != nil {
		return nil
	}

	if err := s.projectService.RemoveParticipant(ctx, userID, projectID, profileID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Participant removed"})
}
