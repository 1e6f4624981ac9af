package server

import (
	"ideahub/internal/models"
	"ideahub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Signup handles user registration
func (s *Server) Signup(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req struct {
		Email             string   `json:"email"`
		Password          string   `json:"password"`
		Username          string   `json:"username"`
		FirstName         string   `json:"first_name"`
		LastName          string   `json:"last_name"`
		Role              string   `json:"role"`
		PreferredLanguage string   `json:"preferred_language"`
		InterestIDs       []uint   `json:"interest_ids"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Register(ctx, service.RegisterInput{
		Email:             req.Email,
		Password:          req.Password,
		Username:          req.Username,
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Role:              models.UserRole(req.Role),
		PreferredLanguage: req.PreferredLanguage,
		InterestIDs:       req.InterestIDs,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	token, err := s.authService.GenerateToken(user)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Login handles user authentication
func (s *Server) Login(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	token, user, err := s.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}
