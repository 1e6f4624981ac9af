package server

import (
	"ideahub/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetSuggestedPosts returns the role-driven suggested feed for the caller
func (s *Server) GetSuggestedPosts(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	page := parsePagination(c, 20)

	posts, total, err := s.feedService.SuggestedPosts(ctx, userID, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"posts":  posts,
		"total":  total,
		"limit":  page.Limit,
		"offset": page.Offset,
	})
}
