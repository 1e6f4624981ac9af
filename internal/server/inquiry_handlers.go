package server

import (
	"ideahub/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ApplyToInquiry records the caller's application to an inquiry post
func (s *Server) ApplyToInquiry(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	inquiryID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Message string `json:"message"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	application, err := s.inquiryService.Apply(ctx, userID, inquiryID, req.Message)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(application)
}

// GetInquiryApplications returns the applications of an inquiry (author only)
func (s *Server) GetInquiryApplications(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	inquiryID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 50)

	applications, total, err := s.inquiryService.ListApplications(ctx, userID, inquiryID, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"applications": applications,
		"total":        total,
		"limit":        page.Limit,
		"offset":       page.Offset,
	})
}
