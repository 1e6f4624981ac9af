package server

import (
	"ideahub/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetCategories returns the full category list
func (s *Server) GetCategories(c *fiber.Ctx) error {
	ctx := c.UserContext()

	categories, err := s.categoryService.List(ctx)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(categories)
}

// GetCategory returns a single category by ID
func (s *Server) GetCategory(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	category, err := s.categoryService.Get(ctx, id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(category)
}

// CreateCategory creates a new category (admin only)
func (s *Server) CreateCategory(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	category, err := s.categoryService.Create(ctx, s.viewer(c), req.Name, req.Description)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// UpdateCategory updates a category (admin only)
func (s *Server) UpdateCategory(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	category, err := s.categoryService.Update(ctx, s.viewer(c), id, req.Name, req.Description)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(category)
}

// DeleteCategory removes a category (admin only)
func (s *Server) DeleteCategory(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.categoryService.Delete(ctx, s.viewer(c), id); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Category deleted"})
}
