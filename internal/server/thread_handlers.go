package server

import (
	"ideahub/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateThread creates a new thread owned by the caller
func (s *Server) CreateThread(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	thread, err := s.threadService.Create(ctx, userID, req.Title, req.Description)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(thread)
}

// GetThread returns a thread with its ordered members
func (s *Server) GetThread(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	thread, err := s.threadService.Get(ctx, id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(thread)
}

// GetThreads returns a paginated thread listing
func (s *Server) GetThreads(c *fiber.Ctx) error {
	ctx := c.UserContext()
	page := parsePagination(c, 20)

	threads, total, err := s.threadService.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"threads": threads,
		"total":   total,
		"limit":   page.Limit,
		"offset":  page.Offset,
	})
}

// AddThreadPost places one of the caller's posts into the thread
func (s *Server) AddThreadPost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	threadID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	if err := s.threadService.AddPost(ctx, userID, threadID, postID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post added to thread"})
}

// RemoveThreadPost detaches a post from the thread
func (s *Server) RemoveThreadPost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	threadID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	if err := s.threadService.RemovePost(ctx, userID, threadID, postID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post removed from thread"})
}

// PinThreadPost pins a thread member into its per-type slot
func (s *Server) PinThreadPost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	threadID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	if err := s.threadService.PinPost(ctx, userID, threadID, postID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post pinned"})
}

// UnpinThreadPost returns a pinned member to the regular section
func (s *Server) UnpinThreadPost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	threadID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	if err := s.threadService.UnpinPost(ctx, userID, threadID, postID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post unpinned"})
}

// DeleteThread deletes a thread and detaches all of its members
func (s *Server) DeleteThread(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	threadID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.threadService.Delete(ctx, userID, threadID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Thread deleted"})
}
