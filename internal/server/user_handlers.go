package server

import (
	"ideahub/internal/models"
	"ideahub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyAccount returns the authenticated user's full account record
func (s *Server) GetMyAccount(c *fiber.Ctx) error {
	user, err := s.currentUser(c)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(user)
}

// GetAllUsers returns a paginated list of users (admin only)
func (s *Server) GetAllUsers(c *fiber.Ctx) error {
	ctx := c.UserContext()
	page := parsePagination(c, 20)

	users, total, err := s.userService.List(ctx, s.viewer(c), page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"users":  users,
		"total":  total,
		"limit":  page.Limit,
		"offset": page.Offset,
	})
}

// GetProfileByUsername returns a public profile by username
func (s *Server) GetProfileByUsername(c *fiber.Ctx) error {
	ctx := c.UserContext()
	username := c.Params("username")

	profile, err := s.userService.GetProfileByUsername(ctx, username)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(profile)
}

// UpdateMyProfile updates the authenticated user's public profile
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	var req struct {
		Username  *string            `json:"username"`
		FirstName *string            `json:"first_name"`
		LastName  *string            `json:"last_name"`
		Bio       *string            `json:"bio"`
		Links     *map[string]string `json:"links"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	profile, err := s.userService.UpdateProfile(ctx, userID, service.UpdateProfileInput{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Links:     req.Links,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(profile)
}

// SetMyAvatar sets a custom avatar URL on the authenticated user's profile
func (s *Server) SetMyAvatar(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	var req struct {
		AvatarURL string `json:"avatar_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	profile, err := s.userService.SetAvatar(ctx, userID, req.AvatarURL)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(profile)
}

// UpdateMyPreferences updates role, language and interests for the authenticated user
func (s *Server) UpdateMyPreferences(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	var req struct {
		Role              *string `json:"role"`
		PreferredLanguage *string `json:"preferred_language"`
		InterestIDs       *[]uint `json:"interest_ids"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	input := service.UpdatePreferencesInput{
		PreferredLanguage: req.PreferredLanguage,
		InterestIDs:       req.InterestIDs,
	}
	if req.Role != nil {
		role := models.UserRole(*req.Role)
		input.Role = &role
	}

	user, err := s.userService.UpdatePreferences(ctx, userID, input)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(user)
}

// DeleteUser deletes an account. Users may delete their own account;
// admins may delete any account.
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	viewer := s.viewer(c)
	if err := s.userService.Delete(ctx, userID, targetID, viewer != nil && viewer.Admin); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Account deleted"})
}
