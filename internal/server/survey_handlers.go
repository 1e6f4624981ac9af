package server

import (
	"ideahub/internal/models"
	"ideahub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SubmitSurveyResponse records the caller's response to a survey post
func (s *Server) SubmitSurveyResponse(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	surveyID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Text            string   `json:"text"`
		SelectedOptions []string `json:"selected_options"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	response, err := s.surveyService.SubmitResponse(ctx, userID, surveyID, service.SubmitResponseInput{
		Text:            req.Text,
		SelectedOptions: req.SelectedOptions,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(response)
}

// GetSurveyResponses returns the raw responses of a survey (author only)
func (s *Server) GetSurveyResponses(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	surveyID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 50)

	responses, total, err := s.surveyService.ListResponses(ctx, userID, surveyID, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"responses": responses,
		"total":     total,
		"limit":     page.Limit,
		"offset":    page.Offset,
	})
}

// GetSurveyStatistics returns per-option counts for a choice survey
func (s *Server) GetSurveyStatistics(c *fiber.Ctx) error {
	ctx := c.UserContext()

	surveyID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	stats, err := s.surveyService.GetStatistics(ctx, surveyID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"statistics": stats})
}

// DeleteSurveyResponse deletes a response. Allowed for the respondent and
// for the survey author.
func (s *Server) DeleteSurveyResponse(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	responseID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.surveyService.DeleteResponse(ctx, userID, responseID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Response deleted"})
}
